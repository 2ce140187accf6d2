package retrieval

import (
	"context"
	"sort"

	"github.com/siherrmann/vectorkg/core/vector"
	"github.com/siherrmann/vectorkg/model"
)

// Strategy defines a retrieval strategy
type Strategy interface {
	Retrieve(ctx context.Context, embedding []float32, config *model.QueryConfig) ([]*model.RetrievalResult, error)
}

// VectorOnlyStrategy performs pure vector similarity search
type VectorOnlyStrategy struct {
	engine *Engine
}

// NewVectorOnlyStrategy creates a new vector-only strategy
func NewVectorOnlyStrategy(engine *Engine) *VectorOnlyStrategy {
	return &VectorOnlyStrategy{engine: engine}
}

// Retrieve performs vector-only retrieval
func (s *VectorOnlyStrategy) Retrieve(ctx context.Context, embedding []float32, config *model.QueryConfig) ([]*model.RetrievalResult, error) {
	return s.engine.VectorRetrieve(ctx, embedding, config.TopK)
}

// KeywordExpansionStrategy combines text similarity with the texts related to the nearest keywords
type KeywordExpansionStrategy struct {
	engine *Engine
}

// NewKeywordExpansionStrategy creates a new keyword expansion strategy
func NewKeywordExpansionStrategy(engine *Engine) *KeywordExpansionStrategy {
	return &KeywordExpansionStrategy{engine: engine}
}

// Retrieve scores each text as VectorWeight * similarity plus, for every one of the
// KeywordTopK nearest keywords, KeywordWeight * keyword similarity * relevance.
// Results are ordered by descending score, ties by first appearance, and limited to TopK.
func (s *KeywordExpansionStrategy) Retrieve(ctx context.Context, embedding []float32, config *model.QueryConfig) ([]*model.RetrievalResult, error) {
	vectorResults, err := s.engine.VectorRetrieve(ctx, embedding, config.TopK)
	if err != nil {
		return nil, err
	}

	resultMap := make(map[int]*model.RetrievalResult)
	var results []*model.RetrievalResult

	for _, vResult := range vectorResults {
		result := &model.RetrievalResult{
			Text:            vResult.Text,
			Distance:        vResult.Distance,
			Score:           vResult.Score * config.VectorWeight,
			RetrievalMethod: model.RetrievalMethodHybrid,
		}
		resultMap[vResult.Text.ID] = result
		results = append(results, result)
	}

	keywordResults, err := s.engine.KeywordRetrieve(ctx, embedding, config.KeywordTopK)
	if err != nil {
		return nil, err
	}

	for _, kResult := range keywordResults {
		related, err := s.engine.RelatedRetrieve(ctx, kResult.Keyword.ID, config.TopK)
		if err != nil {
			return nil, err
		}

		for _, rResult := range related {
			keywordScore := config.KeywordWeight * kResult.Score * rResult.Score

			if existing, exists := resultMap[rResult.Text.ID]; exists {
				existing.Score += keywordScore
				if existing.Keyword == nil {
					existing.Keyword = kResult.Keyword
				}
				continue
			}

			result := &model.RetrievalResult{
				Text:            rResult.Text,
				Keyword:         kResult.Keyword,
				Distance:        vector.CosineDistance(embedding, rResult.Text.Embedding),
				Score:           keywordScore,
				RetrievalMethod: model.RetrievalMethodHybrid,
			}
			resultMap[rResult.Text.ID] = result
			results = append(results, result)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if config.TopK >= 0 && len(results) > config.TopK {
		results = results[:config.TopK]
	}
	if results == nil {
		results = []*model.RetrievalResult{}
	}

	return results, nil
}
