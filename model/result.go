package model

import (
	"time"

	"github.com/google/uuid"
)

type RetrievalMethod string

const (
	RetrievalMethodVector    RetrievalMethod = "vector"
	RetrievalMethodKeyword   RetrievalMethod = "keyword"
	RetrievalMethodRelevance RetrievalMethod = "relevance"
	RetrievalMethodHybrid    RetrievalMethod = "hybrid"
)

// SearchResult is a single (index, distance) pair of a similarity search
type SearchResult struct {
	Index    int     `json:"index"`
	Distance float32 `json:"distance"`
}

// RetrievalResult represents a node retrieved by a query
type RetrievalResult struct {
	Text            *TextNode       `json:"text,omitempty"`
	Keyword         *KeywordNode    `json:"keyword,omitempty"`
	Distance        float32         `json:"distance"`
	Score           float64         `json:"score"` // Combined score from ranking
	RetrievalMethod RetrievalMethod `json:"retrieval_method"`
}

// SnapshotInfo describes a snapshot stored in the database
type SnapshotInfo struct {
	ID           int64     `json:"id"`
	RID          uuid.UUID `json:"rid"`
	Name         string    `json:"name"`
	EmbeddingDim int       `json:"embedding_dim"`
	NumTexts     int       `json:"num_texts"`
	NumKeywords  int       `json:"num_keywords"`
	CreatedAt    time.Time `json:"created_at"`
}
