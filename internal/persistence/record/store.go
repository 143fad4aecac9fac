// Package record persists the best-survival record as a small JSON
// document, rewritten whole-file on every improvement.
package record

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"botfield.ai/internal/observerproto"
)

type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the stored record. A missing file means no record yet, not
// an error; an unreadable or corrupt file is reported but callers are
// expected to continue with the zero record.
func (s *Store) Load() (observerproto.Record, error) {
	var r observerproto.Record
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return r, nil
		}
		return r, err
	}
	if err := json.Unmarshal(raw, &r); err != nil {
		return observerproto.Record{}, fmt.Errorf("record file %s: %w", s.path, err)
	}
	return r, nil
}

// Save rewrites the record atomically: write a temp file, then rename.
func (s *Store) Save(r observerproto.Record) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, append(b, '\n'), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
