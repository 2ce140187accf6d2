package database

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/siherrmann/vectorkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextNodesNewTextNodesDBHandler(t *testing.T) {
	t.Run("Invalid call NewTextNodesDBHandler with nil database", func(t *testing.T) {
		_, err := NewTextNodesDBHandler(nil, false)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "database connection is nil")
	})
}

func TestTextNodesInsert(t *testing.T) {
	handler := initHandlers(t)
	ctx := context.Background()

	info, err := handler.InsertSnapshot(ctx, "text nodes", &model.Snapshot{})
	require.NoError(t, err)

	t.Run("Insert text node", func(t *testing.T) {
		node := &model.TextNode{ID: 0, Text: "single node", Source: model.SourceInfo{Filename: "x.md", FileType: "md"}, Embedding: []float32{1, 0}, TokenCount: 2}

		err := handler.TextNodes.InsertTextNode(ctx, info.RID, node)

		require.NoError(t, err)
		nodes, err := handler.TextNodes.SelectTextNodes(ctx, info.RID)
		require.NoError(t, err)
		require.Len(t, nodes, 1)
		assert.Equal(t, *node, nodes[0])
	})

	t.Run("Insert duplicate node id fails", func(t *testing.T) {
		node := &model.TextNode{ID: 0, Text: "duplicate", Embedding: []float32{1, 0}}

		err := handler.TextNodes.InsertTextNode(ctx, info.RID, node)

		assert.Error(t, err)
	})

	t.Run("Insert into unknown snapshot fails", func(t *testing.T) {
		node := &model.TextNode{ID: 0, Text: "orphan", Embedding: []float32{1, 0}}

		err := handler.TextNodes.InsertTextNode(ctx, uuid.New(), node)

		assert.Error(t, err)
	})

	require.NoError(t, handler.DeleteSnapshot(ctx, info.RID))
}

func TestTextNodesSimilarity(t *testing.T) {
	handler := initHandlers(t)
	ctx := context.Background()

	snap := sampleSnapshot()
	snap.Texts = append(snap.Texts, model.TextNode{ID: 2, Text: "zero", Embedding: []float32{0, 0, 0}})
	info, err := handler.InsertSnapshot(ctx, "similarity", snap)
	require.NoError(t, err)

	t.Run("Nearest text comes first", func(t *testing.T) {
		results, err := handler.TextNodes.SelectTextNodesBySimilarity(ctx, info.RID, []float32{1, 0, 0}, 3)

		require.NoError(t, err)
		require.Len(t, results, 3)
		assert.Equal(t, "graph store", results[0].Text.Text)
		assert.InDelta(t, 0.0, results[0].Distance, 1e-6)
		assert.Equal(t, "hello world", results[1].Text.Text)
		assert.InDelta(t, 0.4, results[1].Distance, 1e-5)
		assert.Equal(t, model.RetrievalMethodVector, results[0].RetrievalMethod)
	})

	t.Run("Zero vector has distance one", func(t *testing.T) {
		results, err := handler.TextNodes.SelectTextNodesBySimilarity(ctx, info.RID, []float32{1, 0, 0}, 3)

		require.NoError(t, err)
		require.Len(t, results, 3)
		assert.Equal(t, "zero", results[2].Text.Text)
		assert.InDelta(t, 1.0, results[2].Distance, 1e-6)
	})

	t.Run("Limit is respected", func(t *testing.T) {
		results, err := handler.TextNodes.SelectTextNodesBySimilarity(ctx, info.RID, []float32{1, 0, 0}, 1)

		require.NoError(t, err)
		assert.Len(t, results, 1)
	})

	t.Run("Different dimension ranks every node at distance one", func(t *testing.T) {
		results, err := handler.TextNodes.SelectTextNodesBySimilarity(ctx, info.RID, []float32{1, 0}, 3)

		require.NoError(t, err)
		require.Len(t, results, 3)
		for i, r := range results {
			assert.Equal(t, i, r.Text.ID, "Equal distances keep id order")
			assert.InDelta(t, 1.0, r.Distance, 1e-6)
		}
	})

	t.Run("Empty query ranks every node at distance one", func(t *testing.T) {
		results, err := handler.TextNodes.SelectTextNodesBySimilarity(ctx, info.RID, []float32{}, 2)

		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.InDelta(t, 1.0, results[0].Distance, 1e-6)
	})

	t.Run("Non positive limit returns empty", func(t *testing.T) {
		results, err := handler.TextNodes.SelectTextNodesBySimilarity(ctx, info.RID, []float32{1, 0, 0}, 0)

		require.NoError(t, err)
		assert.Empty(t, results)
	})

	require.NoError(t, handler.DeleteSnapshot(ctx, info.RID))
}
