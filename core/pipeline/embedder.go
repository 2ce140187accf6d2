package pipeline

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/cespare/xxhash/v2"
	"github.com/knights-analytics/hugot"
	"github.com/siherrmann/vectorkg/helper"
)

// Embed deterministically maps text to a vector of length dim.
// The text hash seeds a ChaCha8 stream whose values are mapped to [-1, 1];
// the vector is L2 normalized unless all components are zero.
// This is a placeholder for a real embedding model.
func Embed(text string, dim int) []float32 {
	if dim <= 0 {
		return []float32{}
	}

	var seed [32]byte
	binary.LittleEndian.PutUint64(seed[:8], xxhash.Sum64String(text))
	rng := rand.New(rand.NewChaCha8(seed))

	vec := make([]float32, dim)
	for i := range vec {
		vec[i] = float32(rng.Uint32())/float32(math.MaxUint32)*2 - 1
	}

	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	norm := float32(math.Sqrt(sum))
	if norm > 0 {
		for i := range vec {
			vec[i] /= norm
		}
	}

	return vec
}

// HashEmbedder returns an EmbedFunc backed by Embed. It never returns an error.
func HashEmbedder(dim int) EmbedFunc {
	return func(text string) ([]float32, error) {
		return Embed(text, dim), nil
	}
}

// DefaultEmbedder creates an embedder using a real sentence transformer model
// Uses the all-MiniLM-L6-v2 model which produces 384-dimensional embeddings
func DefaultEmbedder() (EmbedFunc, error) {
	modelName := "sentence-transformers/all-MiniLM-L6-v2"
	modelPath, err := helper.PrepareModel(modelName, "onnx/model.onnx")
	if err != nil {
		return nil, err
	}

	session, err := hugot.NewGoSession()
	if err != nil {
		return nil, fmt.Errorf("failed to create hugot session: %w", err)
	}

	config := hugot.FeatureExtractionConfig{
		ModelPath: modelPath,
		Name:      "embedder-pipeline",
	}
	sentencePipeline, err := hugot.NewPipeline(session, config)
	if err != nil {
		if destroyErr := session.Destroy(); destroyErr != nil {
			return nil, fmt.Errorf("failed to create sentence pipeline: %w (cleanup error: %v)", err, destroyErr)
		}
		return nil, fmt.Errorf("failed to create sentence pipeline: %w", err)
	}

	return func(text string) ([]float32, error) {
		result, err := sentencePipeline.RunPipeline([]string{text})
		if err != nil {
			return nil, fmt.Errorf("failed to generate embedding: %w", err)
		}

		if len(result.Embeddings) == 0 {
			return nil, fmt.Errorf("no embedding generated")
		}

		return result.Embeddings[0], nil
	}, nil
}
