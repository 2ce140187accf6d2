package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"github.com/siherrmann/vectorkg/helper"
	"github.com/siherrmann/vectorkg/model"
	loadSql "github.com/siherrmann/vectorkg/sql"
)

// Querier is satisfied by *sql.DB and *sql.Tx
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// TextNodesDBHandlerFunctions defines the interface for text node database operations.
type TextNodesDBHandlerFunctions interface {
	InsertTextNode(ctx context.Context, snapshotRID uuid.UUID, node *model.TextNode) error
	SelectTextNodes(ctx context.Context, snapshotRID uuid.UUID) ([]model.TextNode, error)
	SelectTextNodesBySimilarity(ctx context.Context, snapshotRID uuid.UUID, embedding []float32, limit int) ([]*model.RetrievalResult, error)
}

// TextNodesDBHandler handles text node database operations
type TextNodesDBHandler struct {
	db *helper.Database
}

// NewTextNodesDBHandler creates a new text nodes database handler.
// The snapshots table must exist before calling it.
// If force is true, it will reload the SQL functions even if they already exist.
func NewTextNodesDBHandler(db *helper.Database, force bool) (*TextNodesDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	textNodesDbHandler := &TextNodesDBHandler{
		db: db,
	}

	err := loadSql.LoadTextNodesSql(textNodesDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load text nodes sql", err)
	}

	err = textNodesDbHandler.CreateTable()
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized TextNodesDBHandler")

	return textNodesDbHandler, nil
}

// CreateTable creates the 'text_nodes' table in the database.
// If the table already exists, it does not create it again.
func (h *TextNodesDBHandler) CreateTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_text_nodes();`)
	if err != nil {
		return fmt.Errorf("error initializing text nodes table: %w", err)
	}

	h.db.Logger.Info("Checked/created table text_nodes")

	return nil
}

// InsertTextNode inserts a text node into the snapshot with the given RID
func (h *TextNodesDBHandler) InsertTextNode(ctx context.Context, snapshotRID uuid.UUID, node *model.TextNode) error {
	return insertTextNode(ctx, h.db.Instance, snapshotRID, node)
}

func insertTextNode(ctx context.Context, q Querier, snapshotRID uuid.UUID, node *model.TextNode) error {
	row := q.QueryRowContext(
		ctx,
		`SELECT * FROM insert_text_node($1, $2, $3, $4, $5, $6)`,
		snapshotRID,
		node.ID,
		node.Text,
		node.Source,
		embeddingParam(node.Embedding),
		node.TokenCount,
	)

	var embedding *pgvector.Vector
	err := row.Scan(
		&node.ID,
		&node.Text,
		&node.Source,
		&embedding,
		&node.TokenCount,
	)
	if err != nil {
		return helper.NewError("scan", err)
	}
	node.Embedding = embeddingSlice(embedding)

	return nil
}

// SelectTextNodes retrieves all text nodes of a snapshot ordered by id
func (h *TextNodesDBHandler) SelectTextNodes(ctx context.Context, snapshotRID uuid.UUID) ([]model.TextNode, error) {
	rows, err := h.db.Instance.QueryContext(
		ctx,
		`SELECT * FROM select_text_nodes($1)`,
		snapshotRID,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	nodes := []model.TextNode{}
	for rows.Next() {
		node := model.TextNode{}
		var embedding *pgvector.Vector
		err := rows.Scan(
			&node.ID,
			&node.Text,
			&node.Source,
			&embedding,
			&node.TokenCount,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}
		node.Embedding = embeddingSlice(embedding)

		nodes = append(nodes, node)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return nodes, nil
}

// SelectTextNodesBySimilarity returns the text nodes of a snapshot nearest to embedding by cosine distance.
// Nodes whose embedding length differs from the query rank at distance 1.
func (h *TextNodesDBHandler) SelectTextNodesBySimilarity(ctx context.Context, snapshotRID uuid.UUID, embedding []float32, limit int) ([]*model.RetrievalResult, error) {
	results := []*model.RetrievalResult{}
	if limit <= 0 {
		return results, nil
	}

	rows, err := h.db.Instance.QueryContext(
		ctx,
		`SELECT * FROM select_text_nodes_by_similarity($1, $2, $3)`,
		snapshotRID,
		embeddingParam(embedding),
		limit,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	for rows.Next() {
		node := &model.TextNode{}
		var nodeEmbedding *pgvector.Vector
		var distance float64
		err := rows.Scan(
			&node.ID,
			&node.Text,
			&node.Source,
			&nodeEmbedding,
			&node.TokenCount,
			&distance,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}
		node.Embedding = embeddingSlice(nodeEmbedding)

		results = append(results, &model.RetrievalResult{
			Text:            node,
			Distance:        float32(distance),
			Score:           1 - distance,
			RetrievalMethod: model.RetrievalMethodVector,
		})
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return results, nil
}

// embeddingParam maps an empty embedding to NULL since pgvector has no zero dimension vectors
func embeddingParam(embedding []float32) any {
	if len(embedding) == 0 {
		return nil
	}
	return pgvector.NewVector(embedding)
}

func embeddingSlice(v *pgvector.Vector) []float32 {
	if v == nil {
		return []float32{}
	}
	return v.Slice()
}
