package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/siherrmann/vectorkg/helper"
	"github.com/siherrmann/vectorkg/model"
)

var (
	// ErrIO reports a failure to read or write the snapshot file
	ErrIO = errors.New("snapshot io failure")
	// ErrFormat reports snapshot content that is not a valid graph snapshot
	ErrFormat = errors.New("invalid snapshot format")
)

// wireSnapshot uses pointers so that missing or null fields can be told apart from empty lists
type wireSnapshot struct {
	Texts    *[]model.TextNode    `json:"texts"`
	Keywords *[]model.KeywordNode `json:"keywords"`
}

// Encode serializes a snapshot as an indented JSON object with the fields texts and keywords
func Encode(snap *model.Snapshot) ([]byte, error) {
	if snap == nil {
		return nil, helper.NewError("encode snapshot", fmt.Errorf("%w: snapshot is nil", ErrFormat))
	}

	texts := snap.Texts
	if texts == nil {
		texts = []model.TextNode{}
	}
	keywords := snap.Keywords
	if keywords == nil {
		keywords = []model.KeywordNode{}
	}

	data, err := json.MarshalIndent(wireSnapshot{Texts: &texts, Keywords: &keywords}, "", "  ")
	if err != nil {
		return nil, helper.NewError("encode snapshot", fmt.Errorf("%w: %v", ErrFormat, err))
	}
	return data, nil
}

// Decode parses snapshot JSON. Both fields must be present and node ids must match their positions.
func Decode(data []byte) (*model.Snapshot, error) {
	var wire wireSnapshot
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, helper.NewError("decode snapshot", fmt.Errorf("%w: %v", ErrFormat, err))
	}
	if wire.Texts == nil {
		return nil, helper.NewError("decode snapshot", fmt.Errorf("%w: missing field texts", ErrFormat))
	}
	if wire.Keywords == nil {
		return nil, helper.NewError("decode snapshot", fmt.Errorf("%w: missing field keywords", ErrFormat))
	}

	snap := &model.Snapshot{Texts: *wire.Texts, Keywords: *wire.Keywords}
	if err := Validate(snap); err != nil {
		return nil, helper.NewError("decode snapshot", err)
	}
	return snap, nil
}

// Validate checks that text and keyword ids are dense and in position order
func Validate(snap *model.Snapshot) error {
	for i, t := range snap.Texts {
		if t.ID != i {
			return fmt.Errorf("%w: text at position %d has id %d", ErrFormat, i, t.ID)
		}
	}
	for i, k := range snap.Keywords {
		if k.ID != i {
			return fmt.Errorf("%w: keyword at position %d has id %d", ErrFormat, i, k.ID)
		}
	}
	return nil
}

// Save writes the snapshot to path, creating or overwriting the file
func Save(path string, snap *model.Snapshot) error {
	data, err := Encode(snap)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return helper.NewError("save snapshot", fmt.Errorf("%w: %v", ErrIO, err))
	}
	return nil
}

// Load reads and decodes the snapshot file at path
func Load(path string) (*model.Snapshot, error) {
	data, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		return nil, helper.NewError("load snapshot", fmt.Errorf("%w: %v", ErrIO, err))
	}
	return Decode(data)
}
