package pipeline

import (
	"fmt"

	"github.com/siherrmann/vectorkg/model"
)

// ChunkFunc splits text into documents. Every returned document carries a copy
// of source with its ChunkIdx set to the position of the chunk.
type ChunkFunc func(text string, source model.SourceInfo) ([]model.Document, error)

// EmbedFunc is a function that generates embeddings for text
type EmbedFunc func(text string) ([]float32, error)

// KeywordExtractFunc derives candidate keywords from a corpus of texts.
// The returned slice contains no duplicates; its order becomes the keyword id order.
type KeywordExtractFunc func(texts []string) ([]string, error)

// Pipeline combines chunking, embedding and keyword extraction
type Pipeline struct {
	Chunker          ChunkFunc
	Embedder         EmbedFunc
	KeywordExtractor KeywordExtractFunc
}

// NewPipeline creates a new processing pipeline.
// The keyword extractor defaults to DefaultKeywordExtractor.
func NewPipeline(chunker ChunkFunc, embedder EmbedFunc) *Pipeline {
	return &Pipeline{
		Chunker:          chunker,
		Embedder:         embedder,
		KeywordExtractor: DefaultKeywordExtractor(),
	}
}

// DefaultPipeline chunks by paragraph and embeds with the hash embedder of the given dimension
func DefaultPipeline(embeddingDim int) *Pipeline {
	return NewPipeline(ParagraphChunker(), HashEmbedder(embeddingDim))
}

// SetKeywordExtractor sets the keyword extraction function
func (p *Pipeline) SetKeywordExtractor(extractor KeywordExtractFunc) {
	p.KeywordExtractor = extractor
}

// Process splits text into documents with the pipeline's chunker
func (p *Pipeline) Process(text string, source model.SourceInfo) ([]model.Document, error) {
	if p.Chunker == nil {
		return nil, fmt.Errorf("pipeline has no chunker")
	}
	return p.Chunker(text, source)
}

// ProcessFile reads a file and splits it into documents sourced from that file
func (p *Pipeline) ProcessFile(filePath string) ([]model.Document, error) {
	doc, err := model.NewDocumentFromFile(filePath, nil)
	if err != nil {
		return nil, err
	}
	return p.Process(doc.Text, doc.Source)
}
