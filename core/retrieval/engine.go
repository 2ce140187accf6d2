package retrieval

import (
	"context"

	"github.com/siherrmann/vectorkg/core/graph"
	"github.com/siherrmann/vectorkg/model"
)

// GraphReader is the read side of a knowledge graph the engine retrieves from
type GraphReader interface {
	graph.GraphDB
	Texts() []model.TextNode
	Keywords() []model.KeywordNode
	SearchSimilarTexts(query []float32, k int) []model.SearchResult
	SearchSimilarKeywords(query []float32, k int) []model.SearchResult
	GetKeywordRelatedTexts(keywordID, k int) []int
	Relevance(textID, keywordID int) (float32, bool)
}

// Engine provides vector, keyword and relevance retrieval over a knowledge graph
type Engine struct {
	graph GraphReader
}

// NewEngine creates a new retrieval engine
func NewEngine(g GraphReader) *Engine {
	return &Engine{graph: g}
}

// VectorRetrieve returns the k text nodes nearest to the embedding
func (e *Engine) VectorRetrieve(ctx context.Context, embedding []float32, k int) ([]*model.RetrievalResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	texts := e.graph.Texts()
	hits := e.graph.SearchSimilarTexts(embedding, k)

	results := make([]*model.RetrievalResult, len(hits))
	for i, hit := range hits {
		results[i] = &model.RetrievalResult{
			Text:            &texts[hit.Index],
			Distance:        hit.Distance,
			Score:           1 - float64(hit.Distance),
			RetrievalMethod: model.RetrievalMethodVector,
		}
	}

	return results, nil
}

// KeywordRetrieve returns the k keyword nodes nearest to the embedding
func (e *Engine) KeywordRetrieve(ctx context.Context, embedding []float32, k int) ([]*model.RetrievalResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	keywords := e.graph.Keywords()
	hits := e.graph.SearchSimilarKeywords(embedding, k)

	results := make([]*model.RetrievalResult, len(hits))
	for i, hit := range hits {
		results[i] = &model.RetrievalResult{
			Keyword:         &keywords[hit.Index],
			Distance:        hit.Distance,
			Score:           1 - float64(hit.Distance),
			RetrievalMethod: model.RetrievalMethodKeyword,
		}
	}

	return results, nil
}

// RelatedRetrieve returns up to k text nodes ranked by their relevance to a keyword
func (e *Engine) RelatedRetrieve(ctx context.Context, keywordID int, k int) ([]*model.RetrievalResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	texts := e.graph.Texts()
	keyword, err := e.graph.GetKeyword(ctx, keywordID)
	if err != nil {
		return []*model.RetrievalResult{}, nil
	}

	ids := e.graph.GetKeywordRelatedTexts(keywordID, k)
	results := make([]*model.RetrievalResult, len(ids))
	for i, id := range ids {
		score, _ := e.graph.Relevance(id, keywordID)
		results[i] = &model.RetrievalResult{
			Text:            &texts[id],
			Keyword:         keyword,
			Score:           float64(score),
			RetrievalMethod: model.RetrievalMethodRelevance,
		}
	}

	return results, nil
}

// KeywordNeighborhood traverses the keyword graph breadth first from a keyword
func (e *Engine) KeywordNeighborhood(ctx context.Context, keywordID int, maxHops int, fanout int) ([]*graph.TraversalResult, error) {
	return graph.BFS(ctx, e.graph, keywordID, maxHops, fanout)
}
