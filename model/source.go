package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"github.com/siherrmann/vectorkg/helper"
)

// SourceInfo holds the provenance of a text node
type SourceInfo struct {
	Filename string  `json:"filename"`
	PageNum  *uint32 `json:"page_num"`
	FileType string  `json:"file_type"`
	ChunkIdx *int    `json:"chunk_idx"`
}

// SourceKey is the comparable form of a SourceInfo, usable as a map key
type SourceKey struct {
	Filename    string
	HasPageNum  bool
	PageNum     uint32
	FileType    string
	HasChunkIdx bool
	ChunkIdx    int
}

// Key returns the comparable form of the source over all four fields
func (s SourceInfo) Key() SourceKey {
	key := SourceKey{
		Filename: s.Filename,
		FileType: s.FileType,
	}
	if s.PageNum != nil {
		key.HasPageNum = true
		key.PageNum = *s.PageNum
	}
	if s.ChunkIdx != nil {
		key.HasChunkIdx = true
		key.ChunkIdx = *s.ChunkIdx
	}
	return key
}

// Equal reports whether both sources have the same values in all fields
func (s SourceInfo) Equal(other SourceInfo) bool {
	return s.Key() == other.Key()
}

// Clone returns a copy that shares no pointers with s
func (s SourceInfo) Clone() SourceInfo {
	c := SourceInfo{
		Filename: s.Filename,
		FileType: s.FileType,
	}
	if s.PageNum != nil {
		pageNum := *s.PageNum
		c.PageNum = &pageNum
	}
	if s.ChunkIdx != nil {
		chunkIdx := *s.ChunkIdx
		c.ChunkIdx = &chunkIdx
	}
	return c
}

// Value implements the driver.Valuer interface for JSONB storage
func (s SourceInfo) Value() (driver.Value, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface for JSONB retrieval
func (s *SourceInfo) Scan(value interface{}) error {
	if value == nil {
		*s = SourceInfo{}
		return nil
	}

	var b []byte
	switch v := value.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return helper.NewError("byte assertion", errors.New("type assertion to []byte failed"))
	}

	return json.Unmarshal(b, s)
}
