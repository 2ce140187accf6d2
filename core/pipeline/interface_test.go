package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/siherrmann/vectorkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipeline(t *testing.T) {
	t.Run("Default pipeline uses default components", func(t *testing.T) {
		p := DefaultPipeline(8)

		require.NotNil(t, p.Chunker)
		require.NotNil(t, p.Embedder)
		require.NotNil(t, p.KeywordExtractor)

		vec, err := p.Embedder("text")
		require.NoError(t, err)
		assert.Len(t, vec, 8)
	})

	t.Run("Set keyword extractor", func(t *testing.T) {
		p := DefaultPipeline(8)
		p.SetKeywordExtractor(func(texts []string) ([]string, error) {
			return []string{"fixed"}, nil
		})

		keywords, err := p.KeywordExtractor([]string{"anything"})

		require.NoError(t, err)
		assert.Equal(t, []string{"fixed"}, keywords)
	})

	t.Run("Process without chunker returns error", func(t *testing.T) {
		p := &Pipeline{}

		_, err := p.Process("text", model.SourceInfo{})

		assert.Error(t, err)
	})

	t.Run("Process file attaches file source", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "notes.md")
		require.NoError(t, os.WriteFile(path, []byte("First part.\n\nSecond part."), 0600))

		docs, err := DefaultPipeline(8).ProcessFile(path)

		require.NoError(t, err)
		require.Len(t, docs, 2)
		assert.Equal(t, "notes.md", docs[0].Source.Filename)
		assert.Equal(t, "md", docs[0].Source.FileType)
		assert.Equal(t, 1, *docs[1].Source.ChunkIdx)
	})

	t.Run("Process missing file returns error", func(t *testing.T) {
		_, err := DefaultPipeline(8).ProcessFile(filepath.Join(t.TempDir(), "missing.txt"))

		assert.Error(t, err)
	})
}
