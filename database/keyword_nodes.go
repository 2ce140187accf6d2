package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"github.com/siherrmann/vectorkg/helper"
	"github.com/siherrmann/vectorkg/model"
	loadSql "github.com/siherrmann/vectorkg/sql"
)

// KeywordNodesDBHandlerFunctions defines the interface for keyword node database operations.
type KeywordNodesDBHandlerFunctions interface {
	InsertKeywordNode(ctx context.Context, snapshotRID uuid.UUID, node *model.KeywordNode) error
	SelectKeywordNodes(ctx context.Context, snapshotRID uuid.UUID) ([]model.KeywordNode, error)
	SelectKeywordNodesBySimilarity(ctx context.Context, snapshotRID uuid.UUID, embedding []float32, limit int) ([]*model.RetrievalResult, error)
}

// KeywordNodesDBHandler handles keyword node database operations
type KeywordNodesDBHandler struct {
	db *helper.Database
}

// NewKeywordNodesDBHandler creates a new keyword nodes database handler.
// The snapshots table must exist before calling it.
func NewKeywordNodesDBHandler(db *helper.Database, force bool) (*KeywordNodesDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	keywordNodesDbHandler := &KeywordNodesDBHandler{
		db: db,
	}

	err := loadSql.LoadKeywordNodesSql(keywordNodesDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load keyword nodes sql", err)
	}

	err = keywordNodesDbHandler.CreateTable()
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized KeywordNodesDBHandler")

	return keywordNodesDbHandler, nil
}

// CreateTable creates the 'keyword_nodes' table in the database.
// If the table already exists, it does not create it again.
func (h *KeywordNodesDBHandler) CreateTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_keyword_nodes();`)
	if err != nil {
		return fmt.Errorf("error initializing keyword nodes table: %w", err)
	}

	h.db.Logger.Info("Checked/created table keyword_nodes")

	return nil
}

// InsertKeywordNode inserts a keyword node into the snapshot with the given RID
func (h *KeywordNodesDBHandler) InsertKeywordNode(ctx context.Context, snapshotRID uuid.UUID, node *model.KeywordNode) error {
	return insertKeywordNode(ctx, h.db.Instance, snapshotRID, node)
}

func insertKeywordNode(ctx context.Context, q Querier, snapshotRID uuid.UUID, node *model.KeywordNode) error {
	row := q.QueryRowContext(
		ctx,
		`SELECT * FROM insert_keyword_node($1, $2, $3, $4)`,
		snapshotRID,
		node.ID,
		node.Text,
		embeddingParam(node.Embedding),
	)

	var embedding *pgvector.Vector
	err := row.Scan(
		&node.ID,
		&node.Text,
		&embedding,
	)
	if err != nil {
		return helper.NewError("scan", err)
	}
	node.Embedding = embeddingSlice(embedding)

	return nil
}

// SelectKeywordNodes retrieves all keyword nodes of a snapshot ordered by id
func (h *KeywordNodesDBHandler) SelectKeywordNodes(ctx context.Context, snapshotRID uuid.UUID) ([]model.KeywordNode, error) {
	rows, err := h.db.Instance.QueryContext(
		ctx,
		`SELECT * FROM select_keyword_nodes($1)`,
		snapshotRID,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	nodes := []model.KeywordNode{}
	for rows.Next() {
		node := model.KeywordNode{}
		var embedding *pgvector.Vector
		err := rows.Scan(
			&node.ID,
			&node.Text,
			&embedding,
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

// SelectKeywordNodesBySimilarity returns the keyword nodes of a snapshot nearest to embedding by cosine distance
func (h *KeywordNodesDBHandler) SelectKeywordNodesBySimilarity(ctx context.Context, snapshotRID uuid.UUID, embedding []float32, limit int) ([]*model.RetrievalResult, error) {
	results := []*model.RetrievalResult{}
	if limit <= 0 {
		return results, nil
	}

	rows, err := h.db.Instance.QueryContext(
		ctx,
		`SELECT * FROM select_keyword_nodes_by_similarity($1, $2, $3)`,
		snapshotRID,
		embeddingParam(embedding),
		limit,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	for rows.Next() {
		node := &model.KeywordNode{}
		var nodeEmbedding *pgvector.Vector
		var distance float64
		err := rows.Scan(
			&node.ID,
			&node.Text,
			&nodeEmbedding,
			&distance,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}
		node.Embedding = embeddingSlice(nodeEmbedding)

		results = append(results, &model.RetrievalResult{
			Keyword:         node,
			Distance:        float32(distance),
			Score:           1 - distance,
			RetrievalMethod: model.RetrievalMethodKeyword,
		})
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return results, nil
}
