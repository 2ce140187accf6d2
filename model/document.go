package model

import (
	"os"
	"path/filepath"
	"strings"
)

// Document is the unit of input for building the graph
type Document struct {
	Text   string     `json:"text"`
	Source SourceInfo `json:"source"`
}

// NewDocumentFromFile reads a file and creates a Document with the file content.
// The source filename defaults to the base name and the file type to the extension without the dot.
// pageNum is optional and may be nil.
func NewDocumentFromFile(filePath string, pageNum *uint32) (*Document, error) {
	content, err := os.ReadFile(filePath) // #nosec G304
	if err != nil {
		return nil, err
	}

	return &Document{
		Text:   string(content),
		Source: SourceFromPath(filePath, pageNum, nil),
	}, nil
}

// SourceFromPath builds a SourceInfo for a file path
func SourceFromPath(filePath string, pageNum *uint32, chunkIdx *int) SourceInfo {
	filename := filepath.Base(filePath)
	fileType := strings.TrimPrefix(filepath.Ext(filename), ".")

	return SourceInfo{
		Filename: filename,
		PageNum:  pageNum,
		FileType: strings.ToLower(fileType),
		ChunkIdx: chunkIdx,
	}
}
