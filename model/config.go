package model

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

// GraphConfig represents the build-time parameters of the knowledge graph.
// Only EmbeddingDim is consumed by the build; the remaining fields are reserved
// for relationship-building strategies and are kept as configuration surface.
type GraphConfig struct {
	EmbeddingDim       int     `json:"embedding_dim" yaml:"embedding_dim"`
	KNeighbors         int     `json:"k_neighbors" yaml:"k_neighbors"`
	TrustNum           int     `json:"trust_num" yaml:"trust_num"`
	NegativeMultiplier int     `json:"negative_multiplier" yaml:"negative_multiplier"`
	ConnectThreshold   float32 `json:"connect_threshold" yaml:"connect_threshold"`
}

// DefaultGraphConfig returns the default build configuration
func DefaultGraphConfig() GraphConfig {
	return GraphConfig{
		EmbeddingDim:       768,
		KNeighbors:         30,
		TrustNum:           5,
		NegativeMultiplier: 7,
		ConnectThreshold:   0.2,
	}
}

// LoadGraphConfig reads a YAML config from path on top of the defaults.
// Fields missing from the file keep their default value. If the file does not exist, returns defaults.
func LoadGraphConfig(path string) (GraphConfig, error) {
	cfg := DefaultGraphConfig()

	data, err := os.ReadFile(path) // #nosec G304 -- config path is chosen by the operator
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultGraphConfig(), err
	}

	return cfg, nil
}

// QueryConfig represents configuration for a retrieval query
type QueryConfig struct {
	TopK        int `json:"top_k"`
	KeywordTopK int `json:"keyword_top_k"` // Number of nearest keywords used for expansion

	// Ranking parameters
	VectorWeight  float64 `json:"vector_weight"`  // Weight for direct text similarity
	KeywordWeight float64 `json:"keyword_weight"` // Weight for texts reached through keywords
}

// DefaultQueryConfig returns a sensible default configuration
func DefaultQueryConfig() QueryConfig {
	return QueryConfig{
		TopK:          5,
		KeywordTopK:   3,
		VectorWeight:  0.7,
		KeywordWeight: 0.3,
	}
}
