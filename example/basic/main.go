package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/siherrmann/vectorkg"
	"github.com/siherrmann/vectorkg/model"
)

const sampleContent = `This is a sample document about knowledge graphs.

Knowledge graphs connect passages of text with the keywords they mention.
Every passage and every keyword carries an embedding vector.

Similarity search compares embeddings by cosine distance and returns the closest nodes first.

Keyword relationships let a query expand from matching keywords to related passages.`

func main() {
	// Optional graph configuration file, defaults apply when it is missing
	configPath := "graph.yaml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}
	config, err := model.LoadGraphConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load graph config: %v", err)
	}

	kg := vectorkg.NewVectorKG(config)

	dir, err := os.MkdirTemp("", "vectorkg-example")
	if err != nil {
		log.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(dir)

	docPath := filepath.Join(dir, "knowledge_graphs.txt")
	if err := os.WriteFile(docPath, []byte(sampleContent), 0600); err != nil {
		log.Fatalf("Failed to write sample document: %v", err)
	}

	fmt.Println("Ingesting document...")
	numTexts, err := kg.IngestFiles(docPath)
	if err != nil {
		log.Fatalf("Failed to ingest document: %v", err)
	}
	fmt.Printf("Graph has %d text nodes and %d keyword nodes\n", numTexts, len(kg.Store.Keywords()))

	ctx := context.Background()
	queryText := "Similarity search compares embeddings by cosine distance and returns the closest nodes first."
	fmt.Printf("\nQuerying: %s\n", queryText)

	results, err := kg.Search(ctx, queryText, 3)
	if err != nil {
		log.Fatalf("Failed to search: %v", err)
	}
	for i, result := range results {
		fmt.Printf("%d. [distance %.4f, chunk %d] %s\n", i+1, result.Distance, *result.Text.Source.ChunkIdx, result.Text.Text)
	}

	keywords, err := kg.SearchKeywords(ctx, "embedding", 3)
	if err != nil {
		log.Fatalf("Failed to search keywords: %v", err)
	}
	fmt.Println("\nNearest keywords:")
	for _, result := range keywords {
		fmt.Printf("  %s (%.4f)\n", result.Keyword.Text, result.Distance)
	}

	if len(keywords) > 0 {
		keywordID := keywords[0].Keyword.ID
		fmt.Printf("\nTexts related to %q: %v\n", keywords[0].Keyword.Text, kg.RelatedTexts(keywordID, 2))
		fmt.Printf("Keywords adjacent to %q: %v\n", keywords[0].Keyword.Text, kg.AdjacentKeywords(keywordID, 5))
	}

	expanded, err := kg.KeywordSearch(ctx, "keyword relationships", nil)
	if err != nil {
		log.Fatalf("Failed to run keyword expansion search: %v", err)
	}
	fmt.Println("\nKeyword expansion results:")
	for i, result := range expanded {
		fmt.Printf("%d. [score %.4f] %s\n", i+1, result.Score, result.Text.Text)
	}

	snapshotPath := filepath.Join(dir, "graph.json")
	if err := kg.Save(snapshotPath); err != nil {
		log.Fatalf("Failed to save graph: %v", err)
	}

	restored := vectorkg.NewVectorKG(config)
	if err := restored.Load(snapshotPath); err != nil {
		log.Fatalf("Failed to load graph: %v", err)
	}
	fmt.Printf("\nRestored %d text nodes from %s\n", len(restored.Store.Texts()), snapshotPath)
}
