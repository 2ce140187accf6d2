package pipeline

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"
	"github.com/siherrmann/vectorkg/helper"
)

// MinKeywordLength is the number of characters a token must exceed to become a keyword
const MinKeywordLength = 3

// ExtractKeywords splits every text on whitespace and keeps the lowercased tokens
// longer than MinKeywordLength characters. Each keyword appears once, in order
// of first occurrence. Punctuation stays attached to its token.
func ExtractKeywords(texts []string) []string {
	seen := map[string]struct{}{}
	keywords := []string{}

	for _, text := range texts {
		for _, word := range strings.Fields(text) {
			if utf8.RuneCountInString(word) <= MinKeywordLength {
				continue
			}
			keyword := strings.ToLower(word)
			if _, ok := seen[keyword]; ok {
				continue
			}
			seen[keyword] = struct{}{}
			keywords = append(keywords, keyword)
		}
	}

	return keywords
}

// DefaultKeywordExtractor returns a KeywordExtractFunc backed by ExtractKeywords
func DefaultKeywordExtractor() KeywordExtractFunc {
	return func(texts []string) ([]string, error) {
		return ExtractKeywords(texts), nil
	}
}

// CountTokens returns the number of whitespace separated tokens in text
func CountTokens(text string) int {
	return len(strings.Fields(text))
}

// EntityKeywordExtractor creates a keyword extractor using a NER model.
// Uses distilbert-NER; every recognized entity becomes a lowercased keyword.
func EntityKeywordExtractor() (KeywordExtractFunc, error) {
	modelName := "KnightsAnalytics/distilbert-NER"
	modelPath, err := helper.PrepareModel(modelName, "model.onnx")
	if err != nil {
		return nil, err
	}

	session, err := hugot.NewGoSession()
	if err != nil {
		return nil, fmt.Errorf("failed to create hugot session: %w", err)
	}

	config := hugot.TokenClassificationConfig{
		ModelPath: modelPath,
		Name:      "ner-pipeline",
		Options: []hugot.TokenClassificationOption{
			pipelines.WithSimpleAggregation(),
			pipelines.WithIgnoreLabels([]string{"O"}),
		},
	}
	nerPipeline, err := hugot.NewPipeline(session, config)
	if err != nil {
		if destroyErr := session.Destroy(); destroyErr != nil {
			return nil, fmt.Errorf("failed to create NER pipeline: %w (cleanup error: %v)", err, destroyErr)
		}
		return nil, fmt.Errorf("failed to create NER pipeline: %w", err)
	}

	return func(texts []string) ([]string, error) {
		if len(texts) == 0 {
			return []string{}, nil
		}

		result, err := nerPipeline.RunPipeline(texts)
		if err != nil {
			return nil, fmt.Errorf("failed to run NER: %w", err)
		}

		seen := map[string]struct{}{}
		keywords := []string{}
		for _, entities := range result.Entities {
			for _, entity := range entities {
				keyword := strings.ToLower(strings.TrimSpace(entity.Word))
				if keyword == "" {
					continue
				}
				if _, ok := seen[keyword]; ok {
					continue
				}
				seen[keyword] = struct{}{}
				keywords = append(keywords, keyword)
			}
		}

		return keywords, nil
	}, nil
}
