package pipeline

import "github.com/siherrmann/vectorkg/model"

// Deduplicate keeps only the first occurrence of every distinct text.
// The four slices are parallel and must have equal length. Later duplicates
// are dropped together with their source, vector and token count; surviving
// entries keep their original relative order.
func Deduplicate(
	texts []string,
	sources []model.SourceInfo,
	vectors [][]float32,
	tokenCounts []int,
) ([]string, []model.SourceInfo, [][]float32, []int) {
	seen := make(map[string]struct{}, len(texts))

	outTexts := make([]string, 0, len(texts))
	outSources := make([]model.SourceInfo, 0, len(texts))
	outVectors := make([][]float32, 0, len(texts))
	outCounts := make([]int, 0, len(texts))

	for i, text := range texts {
		if _, ok := seen[text]; ok {
			continue
		}
		seen[text] = struct{}{}

		outTexts = append(outTexts, text)
		outSources = append(outSources, sources[i])
		outVectors = append(outVectors, vectors[i])
		outCounts = append(outCounts, tokenCounts[i])
	}

	return outTexts, outSources, outVectors, outCounts
}
