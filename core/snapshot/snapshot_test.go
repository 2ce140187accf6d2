package snapshot

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/siherrmann/vectorkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSnapshot() *model.Snapshot {
	page := uint32(3)
	chunk := 1
	return &model.Snapshot{
		Texts: []model.TextNode{
			{ID: 0, Text: "hello world", Source: model.SourceInfo{Filename: "a.txt", FileType: "txt"}, Embedding: []float32{0.6, 0.8}, TokenCount: 2},
			{ID: 1, Text: "graph store", Source: model.SourceInfo{Filename: "b.pdf", PageNum: &page, FileType: "pdf", ChunkIdx: &chunk}, Embedding: []float32{1, 0}, TokenCount: 2},
		},
		Keywords: []model.KeywordNode{
			{ID: 0, Text: "hello", Embedding: []float32{0, 1}},
			{ID: 1, Text: "world", Embedding: []float32{1, 0}},
		},
	}
}

func TestEncode(t *testing.T) {
	t.Run("Encodes texts and keywords only", func(t *testing.T) {
		data, err := Encode(sampleSnapshot())
		require.NoError(t, err)

		var raw map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(data, &raw))
		assert.Len(t, raw, 2)
		assert.Contains(t, raw, "texts")
		assert.Contains(t, raw, "keywords")
	})

	t.Run("Uses snake case node fields and null optionals", func(t *testing.T) {
		data, err := Encode(sampleSnapshot())
		require.NoError(t, err)

		assert.Contains(t, string(data), `"token_count": 2`)
		assert.Contains(t, string(data), `"page_num": null`)
		assert.Contains(t, string(data), `"file_type": "pdf"`)
	})

	t.Run("Empty snapshot encodes empty lists", func(t *testing.T) {
		data, err := Encode(&model.Snapshot{})
		require.NoError(t, err)

		assert.JSONEq(t, `{"texts": [], "keywords": []}`, string(data))
	})

	t.Run("Nil snapshot is a format error", func(t *testing.T) {
		_, err := Encode(nil)

		assert.ErrorIs(t, err, ErrFormat)
	})
}

func TestDecode(t *testing.T) {
	t.Run("Round trip preserves nodes", func(t *testing.T) {
		snap := sampleSnapshot()
		data, err := Encode(snap)
		require.NoError(t, err)

		decoded, err := Decode(data)

		require.NoError(t, err)
		assert.Equal(t, snap, decoded)
	})

	t.Run("Invalid JSON is a format error", func(t *testing.T) {
		_, err := Decode([]byte("not json"))

		assert.ErrorIs(t, err, ErrFormat)
		assert.NotErrorIs(t, err, ErrIO)
	})

	t.Run("Missing keywords is a format error", func(t *testing.T) {
		_, err := Decode([]byte(`{"texts": []}`))

		assert.ErrorIs(t, err, ErrFormat)
	})

	t.Run("Null texts is a format error", func(t *testing.T) {
		_, err := Decode([]byte(`{"texts": null, "keywords": []}`))

		assert.ErrorIs(t, err, ErrFormat)
	})

	t.Run("Wrong field type is a format error", func(t *testing.T) {
		_, err := Decode([]byte(`{"texts": {}, "keywords": []}`))

		assert.ErrorIs(t, err, ErrFormat)
	})

	t.Run("Non dense ids are a format error", func(t *testing.T) {
		_, err := Decode([]byte(`{"texts": [{"id": 1, "text": "x", "source": {"filename": "", "page_num": null, "file_type": "", "chunk_idx": null}, "embedding": [], "token_count": 1}], "keywords": []}`))

		assert.ErrorIs(t, err, ErrFormat)
	})

	t.Run("Empty lists decode", func(t *testing.T) {
		snap, err := Decode([]byte(`{"texts": [], "keywords": []}`))

		require.NoError(t, err)
		assert.Empty(t, snap.Texts)
		assert.Empty(t, snap.Keywords)
	})
}

func TestSaveLoad(t *testing.T) {
	t.Run("Save then load returns the same snapshot", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "graph.json")
		snap := sampleSnapshot()

		require.NoError(t, Save(path, snap))
		loaded, err := Load(path)

		require.NoError(t, err)
		assert.Equal(t, snap, loaded)
	})

	t.Run("Save overwrites existing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "graph.json")
		require.NoError(t, os.WriteFile(path, []byte("old content that is longer than needed"), 0600))

		require.NoError(t, Save(path, &model.Snapshot{}))
		loaded, err := Load(path)

		require.NoError(t, err)
		assert.Empty(t, loaded.Texts)
	})

	t.Run("Save to missing directory is an io error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing", "graph.json")

		err := Save(path, sampleSnapshot())

		assert.ErrorIs(t, err, ErrIO)
	})

	t.Run("Load missing file is an io error", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.json"))

		assert.ErrorIs(t, err, ErrIO)
		assert.NotErrorIs(t, err, ErrFormat)
	})

	t.Run("Load invalid file is a format error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "broken.json")
		require.NoError(t, os.WriteFile(path, []byte("{"), 0600))

		_, err := Load(path)

		assert.ErrorIs(t, err, ErrFormat)
	})
}
