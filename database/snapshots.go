package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/siherrmann/vectorkg/core/snapshot"
	"github.com/siherrmann/vectorkg/helper"
	"github.com/siherrmann/vectorkg/model"
	loadSql "github.com/siherrmann/vectorkg/sql"
)

// SnapshotsDBHandlerFunctions defines the interface for snapshot database operations.
type SnapshotsDBHandlerFunctions interface {
	InsertSnapshot(ctx context.Context, name string, snap *model.Snapshot) (*model.SnapshotInfo, error)
	SelectSnapshot(ctx context.Context, rid uuid.UUID) (*model.SnapshotInfo, error)
	SelectAllSnapshots(ctx context.Context, limit int) ([]*model.SnapshotInfo, error)
	LoadSnapshot(ctx context.Context, rid uuid.UUID) (*model.Snapshot, error)
	DeleteSnapshot(ctx context.Context, rid uuid.UUID) error
}

// SnapshotsDBHandler handles snapshot catalogue operations and owns the node handlers
type SnapshotsDBHandler struct {
	db           *helper.Database
	TextNodes    *TextNodesDBHandler
	KeywordNodes *KeywordNodesDBHandler
}

// NewSnapshotsDBHandler creates a new snapshots database handler together with
// the text and keyword node handlers that depend on the snapshots table.
// If force is true, it will reload the SQL functions even if they already exist.
func NewSnapshotsDBHandler(db *helper.Database, force bool) (*SnapshotsDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	snapshotsDbHandler := &SnapshotsDBHandler{
		db: db,
	}

	err := loadSql.LoadSnapshotsSql(snapshotsDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load snapshots sql", err)
	}

	err = snapshotsDbHandler.CreateTable()
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	snapshotsDbHandler.TextNodes, err = NewTextNodesDBHandler(db, force)
	if err != nil {
		return nil, err
	}

	snapshotsDbHandler.KeywordNodes, err = NewKeywordNodesDBHandler(db, force)
	if err != nil {
		return nil, err
	}

	db.Logger.Info("Initialized SnapshotsDBHandler")

	return snapshotsDbHandler, nil
}

// CreateTable creates the 'snapshots' table in the database.
// If the table already exists, it does not create it again.
func (h *SnapshotsDBHandler) CreateTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_snapshots();`)
	if err != nil {
		return fmt.Errorf("error initializing snapshots table: %w", err)
	}

	h.db.Logger.Info("Checked/created table snapshots")

	return nil
}

// InsertSnapshot stores the catalogue row and all nodes of snap in one transaction
func (h *SnapshotsDBHandler) InsertSnapshot(ctx context.Context, name string, snap *model.Snapshot) (*model.SnapshotInfo, error) {
	if snap == nil {
		return nil, helper.NewError("snapshot validation", fmt.Errorf("snapshot is nil"))
	}
	if err := snapshot.Validate(snap); err != nil {
		return nil, helper.NewError("snapshot validation", err)
	}

	tx, err := h.db.Instance.BeginTx(ctx, nil)
	if err != nil {
		return nil, helper.NewError("begin transaction", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	info := &model.SnapshotInfo{}
	row := tx.QueryRowContext(
		ctx,
		`SELECT * FROM insert_snapshot($1, $2, $3, $4)`,
		name,
		embeddingDim(snap),
		len(snap.Texts),
		len(snap.Keywords),
	)
	err = scanSnapshotInfo(row, info)
	if err != nil {
		return nil, helper.NewError("scan", err)
	}

	for i := range snap.Texts {
		node := snap.Texts[i]
		err = insertTextNode(ctx, tx, info.RID, &node)
		if err != nil {
			return nil, helper.NewError("insert text node", err)
		}
	}

	for i := range snap.Keywords {
		node := snap.Keywords[i]
		err = insertKeywordNode(ctx, tx, info.RID, &node)
		if err != nil {
			return nil, helper.NewError("insert keyword node", err)
		}
	}

	err = tx.Commit()
	if err != nil {
		return nil, helper.NewError("commit", err)
	}

	h.db.Logger.Info("Inserted snapshot", "rid", info.RID, "texts", info.NumTexts, "keywords", info.NumKeywords)

	return info, nil
}

// SelectSnapshot retrieves the catalogue row of a snapshot by RID
func (h *SnapshotsDBHandler) SelectSnapshot(ctx context.Context, rid uuid.UUID) (*model.SnapshotInfo, error) {
	info := &model.SnapshotInfo{}
	row := h.db.Instance.QueryRowContext(
		ctx,
		`SELECT * FROM select_snapshot($1)`,
		rid,
	)

	err := scanSnapshotInfo(row, info)
	if err != nil {
		return nil, helper.NewError("scan", err)
	}

	return info, nil
}

// SelectAllSnapshots retrieves the newest snapshots first
func (h *SnapshotsDBHandler) SelectAllSnapshots(ctx context.Context, limit int) ([]*model.SnapshotInfo, error) {
	rows, err := h.db.Instance.QueryContext(
		ctx,
		`SELECT * FROM select_all_snapshots($1)`,
		limit,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var snapshots []*model.SnapshotInfo
	for rows.Next() {
		info := &model.SnapshotInfo{}
		err := scanSnapshotInfo(rows, info)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		snapshots = append(snapshots, info)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return snapshots, nil
}

// LoadSnapshot reads all nodes of a stored snapshot
func (h *SnapshotsDBHandler) LoadSnapshot(ctx context.Context, rid uuid.UUID) (*model.Snapshot, error) {
	_, err := h.SelectSnapshot(ctx, rid)
	if err != nil {
		return nil, err
	}

	texts, err := h.TextNodes.SelectTextNodes(ctx, rid)
	if err != nil {
		return nil, helper.NewError("select text nodes", err)
	}

	keywords, err := h.KeywordNodes.SelectKeywordNodes(ctx, rid)
	if err != nil {
		return nil, helper.NewError("select keyword nodes", err)
	}

	snap := &model.Snapshot{Texts: texts, Keywords: keywords}
	if err := snapshot.Validate(snap); err != nil {
		return nil, helper.NewError("snapshot validation", err)
	}

	return snap, nil
}

// DeleteSnapshot deletes a snapshot and all its nodes.
// It returns sql.ErrNoRows when no snapshot has the RID.
func (h *SnapshotsDBHandler) DeleteSnapshot(ctx context.Context, rid uuid.UUID) error {
	var deleted int
	err := h.db.Instance.QueryRowContext(
		ctx,
		`SELECT delete_snapshot($1)`,
		rid,
	).Scan(&deleted)
	if err != nil {
		return helper.NewError("delete", err)
	}
	if deleted == 0 {
		return helper.NewError("delete", sql.ErrNoRows)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSnapshotInfo(row rowScanner, info *model.SnapshotInfo) error {
	return row.Scan(
		&info.ID,
		&info.RID,
		&info.Name,
		&info.EmbeddingDim,
		&info.NumTexts,
		&info.NumKeywords,
		&info.CreatedAt,
	)
}

// embeddingDim is the length of the first embedding in snap, 0 for an empty snapshot
func embeddingDim(snap *model.Snapshot) int {
	if len(snap.Texts) > 0 {
		return len(snap.Texts[0].Embedding)
	}
	if len(snap.Keywords) > 0 {
		return len(snap.Keywords[0].Embedding)
	}
	return 0
}
