package vector

import (
	"sort"

	"github.com/siherrmann/vectorkg/model"
)

// SearchSimilar compares query against every corpus vector and returns the
// min(k, len(corpus)) nearest ones by ascending cosine distance.
// Equal distances keep corpus order.
func SearchSimilar(query []float32, k int, corpus [][]float32) []model.SearchResult {
	if k <= 0 || len(corpus) == 0 {
		return []model.SearchResult{}
	}

	results := make([]model.SearchResult, len(corpus))
	for i, v := range corpus {
		results[i] = model.SearchResult{Index: i, Distance: CosineDistance(query, v)}
	}

	sort.SliceStable(results, func(a, b int) bool {
		return results[a].Distance < results[b].Distance
	})

	if k < len(results) {
		results = results[:k]
	}
	return results
}
