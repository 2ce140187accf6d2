package vectorkg

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/google/uuid"
	"github.com/siherrmann/vectorkg/core/graph"
	"github.com/siherrmann/vectorkg/core/pipeline"
	"github.com/siherrmann/vectorkg/core/retrieval"
	"github.com/siherrmann/vectorkg/database"
	"github.com/siherrmann/vectorkg/helper"
	"github.com/siherrmann/vectorkg/model"
	loadSql "github.com/siherrmann/vectorkg/sql"
)

// VectorKG wires a knowledge graph store, its processing pipeline, the retrieval
// engine and an optional Postgres snapshot store behind one lock.
type VectorKG struct {
	Store    *graph.Store
	Pipeline *pipeline.Pipeline
	Engine   *retrieval.Engine
	Config   model.GraphConfig

	// Set by ConnectDatabase
	DB           *helper.Database
	Snapshots    *database.SnapshotsDBHandler
	TextNodes    *database.TextNodesDBHandler
	KeywordNodes *database.KeywordNodesDBHandler

	mu  sync.RWMutex
	log *slog.Logger
}

// NewVectorKG creates an empty knowledge graph using the default pipeline
// with the hash embedder of config.EmbeddingDim.
func NewVectorKG(config model.GraphConfig) *VectorKG {
	logger := helper.NewPrettyLogger(os.Stdout, slog.LevelInfo)

	store := graph.NewStore(logger)

	return &VectorKG{
		Store:    store,
		Pipeline: pipeline.DefaultPipeline(config.EmbeddingDim),
		Engine:   retrieval.NewEngine(store),
		Config:   config,
		log:      logger,
	}
}

// SetPipeline sets the chunking, embedding and keyword extraction pipeline
func (v *VectorKG) SetPipeline(p *pipeline.Pipeline) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.Pipeline = p
}

// UseModelEmbedder switches the pipeline to the all-MiniLM-L6-v2 embedder (384 dimensions).
// The model is downloaded on first use.
func (v *VectorKG) UseModelEmbedder() error {
	embedder, err := pipeline.DefaultEmbedder()
	if err != nil {
		return helper.NewError("create model embedder", err)
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	v.Pipeline.Embedder = embedder
	v.Config.EmbeddingDim = 384
	return nil
}

// Build replaces the graph with one built from documents.
// On error the previous graph is kept.
func (v *VectorKG) Build(documents []model.Document) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.build(documents)
}

func (v *VectorKG) build(documents []model.Document) error {
	if v.Pipeline == nil {
		return helper.NewError("build", fmt.Errorf("pipeline not set, use SetPipeline() first"))
	}

	v.Store.SetEmbedder(v.Pipeline.Embedder)
	v.Store.SetKeywordExtractor(v.Pipeline.KeywordExtractor)

	err := v.Store.BuildKG(documents, v.Config)
	if err != nil {
		return helper.NewError("build knowledge graph", err)
	}

	v.log.Info("Built knowledge graph", slog.Int("texts", len(v.Store.Texts())), slog.Int("keywords", len(v.Store.Keywords())))
	return nil
}

// IngestFiles chunks every file with the pipeline and builds the graph from all chunks
func (v *VectorKG) IngestFiles(paths ...string) (int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.Pipeline == nil {
		return 0, helper.NewError("ingest files", fmt.Errorf("pipeline not set, use SetPipeline() first"))
	}

	var documents []model.Document
	for _, path := range paths {
		docs, err := v.Pipeline.ProcessFile(path)
		if err != nil {
			return 0, helper.NewError(fmt.Sprintf("process file %s", path), err)
		}

		v.log.Info("Processed file into chunks", slog.String("file", path), slog.Int("num_chunks", len(docs)))
		documents = append(documents, docs...)
	}

	err := v.build(documents)
	if err != nil {
		return 0, err
	}

	return len(v.Store.Texts()), nil
}

// Search returns the k text nodes nearest to the query text
func (v *VectorKG) Search(ctx context.Context, query string, k int) ([]*model.RetrievalResult, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	embedding, err := v.embedQuery(query)
	if err != nil {
		return nil, helper.NewError("vector search", err)
	}

	return v.Engine.VectorRetrieve(ctx, embedding, k)
}

// SearchKeywords returns the k keyword nodes nearest to the query text
func (v *VectorKG) SearchKeywords(ctx context.Context, query string, k int) ([]*model.RetrievalResult, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	embedding, err := v.embedQuery(query)
	if err != nil {
		return nil, helper.NewError("keyword search", err)
	}

	return v.Engine.KeywordRetrieve(ctx, embedding, k)
}

// KeywordSearch ranks texts by direct similarity expanded through the nearest keywords.
// A nil config uses DefaultQueryConfig.
func (v *VectorKG) KeywordSearch(ctx context.Context, query string, config *model.QueryConfig) ([]*model.RetrievalResult, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	embedding, err := v.embedQuery(query)
	if err != nil {
		return nil, helper.NewError("keyword expansion search", err)
	}

	if config == nil {
		defaults := model.DefaultQueryConfig()
		config = &defaults
	}

	strategy := retrieval.NewKeywordExpansionStrategy(v.Engine)
	return strategy.Retrieve(ctx, embedding, config)
}

func (v *VectorKG) embedQuery(query string) ([]float32, error) {
	if v.Pipeline == nil || v.Pipeline.Embedder == nil {
		return nil, fmt.Errorf("pipeline with embedder not set, use SetPipeline() first")
	}

	embedding, err := v.Pipeline.Embedder(query)
	if err != nil {
		return nil, helper.NewError("generate embedding", err)
	}
	return embedding, nil
}

// RelatedTexts returns the ids of the k texts most relevant to a keyword
func (v *VectorKG) RelatedTexts(keywordID, k int) []int {
	v.mu.RLock()
	defer v.mu.RUnlock()

	return v.Store.GetKeywordRelatedTexts(keywordID, k)
}

// AdjacentKeywords returns the ids of up to k keywords adjacent to a keyword
func (v *VectorKG) AdjacentKeywords(keywordID, k int) []int {
	v.mu.RLock()
	defer v.mu.RUnlock()

	return v.Store.GetAdjacentKeywords(keywordID, k)
}

// KeywordNeighborhood walks the keyword adjacency breadth-first from keywordID
func (v *VectorKG) KeywordNeighborhood(ctx context.Context, keywordID, maxHops, fanout int) ([]*graph.TraversalResult, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	return v.Engine.KeywordNeighborhood(ctx, keywordID, maxHops, fanout)
}

// Save writes the graph snapshot to path
func (v *VectorKG) Save(path string) error {
	v.mu.RLock()
	defer v.mu.RUnlock()

	return v.Store.Save(path)
}

// Load replaces the graph with the snapshot stored at path.
// The relevance matrix of a loaded graph is absent.
func (v *VectorKG) Load(path string) error {
	store, err := graph.Load(path, v.log)
	if err != nil {
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	v.replaceStore(store)
	v.log.Info("Loaded knowledge graph", slog.String("path", path), slog.Int("texts", len(store.Texts())), slog.Int("keywords", len(store.Keywords())))
	return nil
}

func (v *VectorKG) replaceStore(store *graph.Store) {
	v.Store = store
	v.Engine = retrieval.NewEngine(store)
}

// ConnectDatabase opens the Postgres snapshot store and creates its tables and functions
func (v *VectorKG) ConnectDatabase(config *helper.DatabaseConfiguration) error {
	db, err := helper.NewDatabase("vectorkg", config, v.log)
	if err != nil {
		return helper.NewError("connect database", err)
	}

	err = loadSql.Init(db.Instance)
	if err != nil {
		_ = db.Close()
		return helper.NewError("initialize database extensions", err)
	}

	// force=false to not reload if functions already exist
	snapshots, err := database.NewSnapshotsDBHandler(db, false)
	if err != nil {
		_ = db.Close()
		return helper.NewError("create snapshots handler", err)
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	v.DB = db
	v.Snapshots = snapshots
	v.TextNodes = snapshots.TextNodes
	v.KeywordNodes = snapshots.KeywordNodes
	return nil
}

// SaveToDatabase stores the current graph as a new named snapshot
func (v *VectorKG) SaveToDatabase(ctx context.Context, name string) (*model.SnapshotInfo, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	if v.Snapshots == nil {
		return nil, helper.NewError("save to database", fmt.Errorf("database not connected, use ConnectDatabase() first"))
	}

	info, err := v.Snapshots.InsertSnapshot(ctx, name, v.Store.Snapshot())
	if err != nil {
		return nil, helper.NewError("save to database", err)
	}

	return info, nil
}

// LoadFromDatabase replaces the graph with the stored snapshot rid
func (v *VectorKG) LoadFromDatabase(ctx context.Context, rid uuid.UUID) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.Snapshots == nil {
		return helper.NewError("load from database", fmt.Errorf("database not connected, use ConnectDatabase() first"))
	}

	snap, err := v.Snapshots.LoadSnapshot(ctx, rid)
	if err != nil {
		return helper.NewError("load from database", err)
	}

	v.replaceStore(graph.FromSnapshot(snap, v.log))
	v.log.Info("Loaded knowledge graph from database", slog.String("rid", rid.String()), slog.Int("texts", len(snap.Texts)), slog.Int("keywords", len(snap.Keywords)))
	return nil
}

// Close closes the database connection if one is open
func (v *VectorKG) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	err := v.DB.Close()
	v.DB = nil
	v.Snapshots = nil
	v.TextNodes = nil
	v.KeywordNodes = nil
	return err
}
