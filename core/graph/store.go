package graph

import (
	"fmt"
	"log/slog"

	"github.com/siherrmann/vectorkg/core/pipeline"
	"github.com/siherrmann/vectorkg/core/snapshot"
	"github.com/siherrmann/vectorkg/core/vector"
	"github.com/siherrmann/vectorkg/helper"
	"github.com/siherrmann/vectorkg/model"
)

// Store holds the text nodes, keyword nodes and relevance matrix of one knowledge graph.
// A Store is not safe for concurrent mutation; BuildKG replaces its whole state.
type Store struct {
	texts     []model.TextNode
	keywords  []model.KeywordNode
	relevance *RelevanceMatrix

	embedder         pipeline.EmbedFunc
	keywordExtractor pipeline.KeywordExtractFunc
	logger           *slog.Logger
}

// NewStore creates an empty store. A nil logger discards all log output.
func NewStore(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{
		texts:    []model.TextNode{},
		keywords: []model.KeywordNode{},
		logger:   logger,
	}
}

// FromSnapshot creates a store holding copies of the snapshot's nodes. The relevance matrix stays absent.
func FromSnapshot(snap *model.Snapshot, logger *slog.Logger) *Store {
	s := NewStore(logger)
	if snap == nil {
		return s
	}
	s.texts = cloneTexts(snap.Texts)
	s.keywords = cloneKeywords(snap.Keywords)
	return s
}

// Load reads a snapshot file into a new store
func Load(path string, logger *slog.Logger) (*Store, error) {
	snap, err := snapshot.Load(path)
	if err != nil {
		return nil, err
	}
	return FromSnapshot(snap, logger), nil
}

// SetEmbedder replaces the hash embedder used by BuildKG. nil restores the default.
func (s *Store) SetEmbedder(embedder pipeline.EmbedFunc) {
	s.embedder = embedder
}

// SetKeywordExtractor replaces the whitespace keyword extractor used by BuildKG. nil restores the default.
func (s *Store) SetKeywordExtractor(extractor pipeline.KeywordExtractFunc) {
	s.keywordExtractor = extractor
}

// BuildKG replaces the store contents with a graph built from documents.
// On error the previous contents are kept.
func (s *Store) BuildKG(documents []model.Document, config model.GraphConfig) error {
	s.logger.Info("Building knowledge graph", slog.Int("documents", len(documents)))

	embed := s.embedder
	if embed == nil {
		embed = pipeline.HashEmbedder(config.EmbeddingDim)
	}
	extract := s.keywordExtractor
	if extract == nil {
		extract = pipeline.DefaultKeywordExtractor()
	}

	texts := make([]string, len(documents))
	sources := make([]model.SourceInfo, len(documents))
	for i, doc := range documents {
		texts[i] = doc.Text
		sources[i] = doc.Source.Clone()
	}

	s.logger.Debug("Generating embeddings", slog.Int("dimension", config.EmbeddingDim))
	dim := -1
	vectors, err := embedAll(embed, texts, &dim)
	if err != nil {
		return helper.NewError("text embedding", err)
	}
	tokenCounts := make([]int, len(texts))
	for i, text := range texts {
		tokenCounts[i] = pipeline.CountTokens(text)
	}

	texts, sources, vectors, tokenCounts = pipeline.Deduplicate(texts, sources, vectors, tokenCounts)
	s.logger.Info("Removed duplicate texts", slog.Int("texts", len(texts)))

	textNodes := make([]model.TextNode, len(texts))
	for i := range texts {
		textNodes[i] = model.TextNode{
			ID:         i,
			Text:       texts[i],
			Source:     sources[i],
			Embedding:  vectors[i],
			TokenCount: tokenCounts[i],
		}
	}

	keywords, err := extract(texts)
	if err != nil {
		return helper.NewError("keyword extraction", err)
	}
	s.logger.Info("Extracted keywords", slog.Int("keywords", len(keywords)))

	keywordVectors, err := embedAll(embed, keywords, &dim)
	if err != nil {
		return helper.NewError("keyword embedding", err)
	}
	keywordNodes := make([]model.KeywordNode, len(keywords))
	for i, keyword := range keywords {
		keywordNodes[i] = model.KeywordNode{
			ID:        i,
			Text:      keyword,
			Embedding: keywordVectors[i],
		}
	}

	s.logger.Debug("Building keyword relationships")
	relevance := NewRelevanceMatrix(len(textNodes), len(keywordNodes))

	s.texts = textNodes
	s.keywords = keywordNodes
	s.relevance = relevance

	return nil
}

// embedAll embeds every text and checks that all vectors have the length stored in dim.
// A negative dim is set from the first vector.
func embedAll(embed pipeline.EmbedFunc, texts []string, dim *int) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := embed(text)
		if err != nil {
			return nil, err
		}
		if *dim < 0 {
			*dim = len(vec)
		} else if len(vec) != *dim {
			return nil, fmt.Errorf("embedding of %q has length %d, expected %d", text, len(vec), *dim)
		}
		vectors[i] = vec
	}
	return vectors, nil
}

// Texts returns copies of the text nodes in id order
func (s *Store) Texts() []model.TextNode {
	return cloneTexts(s.texts)
}

// Keywords returns copies of the keyword nodes in id order
func (s *Store) Keywords() []model.KeywordNode {
	return cloneKeywords(s.keywords)
}

func cloneTexts(texts []model.TextNode) []model.TextNode {
	c := make([]model.TextNode, len(texts))
	for i, t := range texts {
		c[i] = t.Clone()
	}
	return c
}

func cloneKeywords(keywords []model.KeywordNode) []model.KeywordNode {
	c := make([]model.KeywordNode, len(keywords))
	for i, kw := range keywords {
		c[i] = kw.Clone()
	}
	return c
}

// Sources returns the source of every text node in id order
func (s *Store) Sources() []model.SourceInfo {
	sources := make([]model.SourceInfo, len(s.texts))
	for i, t := range s.texts {
		sources[i] = t.Source.Clone()
	}
	return sources
}

// RelevanceMatrix returns the text × keyword matrix or nil when it is absent
func (s *Store) RelevanceMatrix() *RelevanceMatrix {
	return s.relevance
}

// SearchSimilarTexts returns the k text nodes nearest to query by cosine distance
func (s *Store) SearchSimilarTexts(query []float32, k int) []model.SearchResult {
	corpus := make([][]float32, len(s.texts))
	for i, t := range s.texts {
		corpus[i] = t.Embedding
	}
	return vector.SearchSimilar(query, k, corpus)
}

// SearchSimilarKeywords returns the k keyword nodes nearest to query by cosine distance
func (s *Store) SearchSimilarKeywords(query []float32, k int) []model.SearchResult {
	corpus := make([][]float32, len(s.keywords))
	for i, kw := range s.keywords {
		corpus[i] = kw.Embedding
	}
	return vector.SearchSimilar(query, k, corpus)
}

// Snapshot returns the persisted form of the store
func (s *Store) Snapshot() *model.Snapshot {
	return &model.Snapshot{
		Texts:    cloneTexts(s.texts),
		Keywords: cloneKeywords(s.keywords),
	}
}

// Save writes the store's snapshot to path
func (s *Store) Save(path string) error {
	if err := snapshot.Save(path, s.Snapshot()); err != nil {
		return err
	}
	s.logger.Info("Saved knowledge graph", slog.String("path", path), slog.Int("texts", len(s.texts)), slog.Int("keywords", len(s.keywords)))
	return nil
}
