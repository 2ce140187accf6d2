package pipeline

import (
	"fmt"
	"math"
	"strings"

	"github.com/siherrmann/vectorkg/model"
)

// SentenceChunker creates a chunker that splits by sentences
func SentenceChunker(maxSentencesPerChunk int) ChunkFunc {
	return func(text string, source model.SourceInfo) ([]model.Document, error) {
		if maxSentencesPerChunk <= 0 {
			return nil, fmt.Errorf("max sentences per chunk must be positive")
		}

		sentences := splitSentences(text)
		chunks := []model.Document{}
		var current []string

		for _, sentence := range sentences {
			current = append(current, sentence)
			if len(current) >= maxSentencesPerChunk {
				chunks = append(chunks, chunkDocument(strings.Join(current, " "), source, len(chunks)))
				current = nil
			}
		}

		if len(current) > 0 {
			chunks = append(chunks, chunkDocument(strings.Join(current, " "), source, len(chunks)))
		}

		return chunks, nil
	}
}

// ParagraphChunker creates a chunker that splits by paragraphs
func ParagraphChunker() ChunkFunc {
	return func(text string, source model.SourceInfo) ([]model.Document, error) {
		chunks := []model.Document{}
		for _, para := range strings.Split(text, "\n\n") {
			para = strings.TrimSpace(para)
			if para == "" {
				continue
			}
			chunks = append(chunks, chunkDocument(para, source, len(chunks)))
		}
		return chunks, nil
	}
}

// SemanticChunker groups consecutive sentences while they stay similar to the
// running chunk average. A chunk ends when the similarity of the next sentence
// drops below similarityThreshold or the chunk would exceed maxChunkSize bytes.
func SemanticChunker(embed EmbedFunc, maxChunkSize int, similarityThreshold float32) ChunkFunc {
	return func(text string, source model.SourceInfo) ([]model.Document, error) {
		if embed == nil {
			return nil, fmt.Errorf("semantic chunker needs an embedder")
		}
		if maxChunkSize <= 0 {
			return nil, fmt.Errorf("max chunk size must be positive")
		}

		sentences := splitSentences(text)
		chunks := []model.Document{}
		var current []string
		var currentEmbeddings [][]float32
		currentLength := 0

		for _, sentence := range sentences {
			embedding, err := embed(sentence)
			if err != nil {
				return nil, fmt.Errorf("failed to embed sentence: %w", err)
			}

			if len(current) > 0 {
				similarity := cosineSimilarity(meanVector(currentEmbeddings), embedding)
				if similarity < similarityThreshold || currentLength+len(sentence) > maxChunkSize {
					chunks = append(chunks, chunkDocument(strings.Join(current, " "), source, len(chunks)))
					current = nil
					currentEmbeddings = nil
					currentLength = 0
				}
			}

			current = append(current, sentence)
			currentEmbeddings = append(currentEmbeddings, embedding)
			currentLength += len(sentence)
		}

		if len(current) > 0 {
			chunks = append(chunks, chunkDocument(strings.Join(current, " "), source, len(chunks)))
		}

		return chunks, nil
	}
}

func splitSentences(text string) []string {
	text = strings.ReplaceAll(text, "! ", "!|")
	text = strings.ReplaceAll(text, "? ", "?|")
	text = strings.ReplaceAll(text, ". ", ".|")

	sentences := []string{}
	for _, s := range strings.Split(text, "|") {
		s = strings.TrimSpace(s)
		if s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

func chunkDocument(text string, source model.SourceInfo, idx int) model.Document {
	chunkSource := source.Clone()
	chunkIdx := idx
	chunkSource.ChunkIdx = &chunkIdx
	return model.Document{Text: text, Source: chunkSource}
}

func meanVector(vectors [][]float32) []float32 {
	if len(vectors) == 0 {
		return nil
	}
	mean := make([]float32, len(vectors[0]))
	for _, v := range vectors {
		for j := range mean {
			if j < len(v) {
				mean[j] += v[j]
			}
		}
	}
	for j := range mean {
		mean[j] /= float32(len(vectors))
	}
	return mean
}

// cosineSimilarity calculates the cosine similarity between two embedding vectors
func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) {
		return 0
	}

	var dotProduct, normA, normB float32
	for i := range a {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (float32(math.Sqrt(float64(normA))) * float32(math.Sqrt(float64(normB))))
}
