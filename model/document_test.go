package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDocumentFromFile(t *testing.T) {
	t.Run("Successfully reads file and creates document", func(t *testing.T) {
		tmpDir := t.TempDir()
		filePath := filepath.Join(tmpDir, "test.txt")
		content := "This is test content"
		err := os.WriteFile(filePath, []byte(content), 0600)
		require.NoError(t, err)

		doc, err := NewDocumentFromFile(filePath, nil)

		require.NoError(t, err)
		assert.Equal(t, content, doc.Text, "Text should match file content")
		assert.Equal(t, "test.txt", doc.Source.Filename, "Filename should be the base name")
		assert.Equal(t, "txt", doc.Source.FileType, "File type should be the extension without dot")
		assert.Nil(t, doc.Source.PageNum)
		assert.Nil(t, doc.Source.ChunkIdx)
	})

	t.Run("Returns error for non-existent file", func(t *testing.T) {
		doc, err := NewDocumentFromFile("/non/existent/file.txt", nil)

		require.Error(t, err)
		assert.Nil(t, doc)
	})

	t.Run("Handles empty file", func(t *testing.T) {
		tmpDir := t.TempDir()
		filePath := filepath.Join(tmpDir, "empty.txt")
		err := os.WriteFile(filePath, []byte(""), 0600)
		require.NoError(t, err)

		doc, err := NewDocumentFromFile(filePath, nil)

		require.NoError(t, err)
		assert.Equal(t, "", doc.Text)
	})

	t.Run("Handles file without extension", func(t *testing.T) {
		tmpDir := t.TempDir()
		filePath := filepath.Join(tmpDir, "README")
		err := os.WriteFile(filePath, []byte("Readme content"), 0600)
		require.NoError(t, err)

		doc, err := NewDocumentFromFile(filePath, nil)

		require.NoError(t, err)
		assert.Equal(t, "README", doc.Source.Filename)
		assert.Equal(t, "", doc.Source.FileType, "File type should be empty when no extension")
	})

	t.Run("Keeps page number", func(t *testing.T) {
		tmpDir := t.TempDir()
		filePath := filepath.Join(tmpDir, "report.PDF")
		err := os.WriteFile(filePath, []byte("page content"), 0600)
		require.NoError(t, err)

		page := uint32(5)
		doc, err := NewDocumentFromFile(filePath, &page)

		require.NoError(t, err)
		require.NotNil(t, doc.Source.PageNum)
		assert.Equal(t, uint32(5), *doc.Source.PageNum)
		assert.Equal(t, "pdf", doc.Source.FileType, "File type should be lowercased")
	})
}

func TestSourceFromPath(t *testing.T) {
	t.Run("Handles file with multiple dots in name", func(t *testing.T) {
		chunkIdx := 2
		source := SourceFromPath("/data/my.file.name.md", nil, &chunkIdx)

		assert.Equal(t, "my.file.name.md", source.Filename)
		assert.Equal(t, "md", source.FileType, "File type should use only the last extension")
		require.NotNil(t, source.ChunkIdx)
		assert.Equal(t, 2, *source.ChunkIdx)
	})
}
