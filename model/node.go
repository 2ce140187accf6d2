package model

// TextNode is a deduplicated text passage in the knowledge graph.
// The ID equals the node's position in the store and is only stable within one build.
type TextNode struct {
	ID         int        `json:"id"`
	Text       string     `json:"text"`
	Source     SourceInfo `json:"source"`
	Embedding  []float32  `json:"embedding"`
	TokenCount int        `json:"token_count"`
}

// KeywordNode is a unique lowercased keyword with its own embedding.
// Keyword IDs are numbered independently from text IDs.
type KeywordNode struct {
	ID        int       `json:"id"`
	Text      string    `json:"text"`
	Embedding []float32 `json:"embedding"`
}

// Snapshot is the persisted form of a graph store.
// The relevance matrix is derived state and never part of it.
type Snapshot struct {
	Texts    []TextNode    `json:"texts"`
	Keywords []KeywordNode `json:"keywords"`
}

// Clone returns a deep copy of the node
func (n TextNode) Clone() TextNode {
	c := n
	c.Source = n.Source.Clone()
	if n.Embedding != nil {
		c.Embedding = append([]float32{}, n.Embedding...)
	}
	return c
}

// Clone returns a deep copy of the node
func (n KeywordNode) Clone() KeywordNode {
	c := n
	if n.Embedding != nil {
		c.Embedding = append([]float32{}, n.Embedding...)
	}
	return c
}
