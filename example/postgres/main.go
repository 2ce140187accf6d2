package main

import (
	"context"
	"fmt"
	"log"

	"github.com/siherrmann/vectorkg"
	"github.com/siherrmann/vectorkg/helper"
	"github.com/siherrmann/vectorkg/model"
)

func main() {
	// Start a test PostgreSQL container with pgvector
	teardown, dbPort, err := helper.MustStartPostgresContainer()
	if err != nil {
		log.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	defer teardown(context.Background())

	dbConfig := &helper.DatabaseConfiguration{
		Host:     "localhost",
		Port:     dbPort,
		Database: "database",
		Username: "user",
		Password: "password",
		Schema:   "public",
		SSLMode:  "disable",
	}

	kg := vectorkg.NewVectorKG(model.GraphConfig{EmbeddingDim: 64})
	if err := kg.ConnectDatabase(dbConfig); err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	defer kg.Close()

	source := model.SourceInfo{Filename: "manual.txt", FileType: "txt"}
	documents := []model.Document{
		{Text: "Snapshots are stored in Postgres with pgvector columns.", Source: source},
		{Text: "Each snapshot keeps its text nodes and keyword nodes.", Source: source},
		{Text: "Similarity queries run inside the database with the cosine operator.", Source: source},
	}
	if err := kg.Build(documents); err != nil {
		log.Fatalf("Failed to build graph: %v", err)
	}

	ctx := context.Background()
	info, err := kg.SaveToDatabase(ctx, "manual")
	if err != nil {
		log.Fatalf("Failed to save snapshot: %v", err)
	}
	fmt.Printf("Stored snapshot %s with %d texts and %d keywords\n", info.RID, info.NumTexts, info.NumKeywords)

	// Query the stored nodes directly in the database
	embedding, err := kg.Pipeline.Embedder("Similarity queries run inside the database with the cosine operator.")
	if err != nil {
		log.Fatalf("Failed to embed query: %v", err)
	}
	results, err := kg.TextNodes.SelectTextNodesBySimilarity(ctx, info.RID, embedding, 2)
	if err != nil {
		log.Fatalf("Failed to query database: %v", err)
	}
	for i, result := range results {
		fmt.Printf("%d. [distance %.4f] %s\n", i+1, result.Distance, result.Text.Text)
	}

	snapshots, err := kg.Snapshots.SelectAllSnapshots(ctx, 10)
	if err != nil {
		log.Fatalf("Failed to list snapshots: %v", err)
	}
	fmt.Printf("\n%d snapshot(s) in database\n", len(snapshots))

	restored := vectorkg.NewVectorKG(model.GraphConfig{EmbeddingDim: 64})
	if err := restored.ConnectDatabase(dbConfig); err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	defer restored.Close()

	if err := restored.LoadFromDatabase(ctx, info.RID); err != nil {
		log.Fatalf("Failed to load snapshot: %v", err)
	}
	fmt.Printf("Restored %d text nodes from the database\n", len(restored.Store.Texts()))

	if err := kg.Snapshots.DeleteSnapshot(ctx, info.RID); err != nil {
		log.Fatalf("Failed to delete snapshot: %v", err)
	}
}
