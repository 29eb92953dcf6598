// Package file implements snapshot persistence on a local JSON document.
package file

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"foresterswatch/internal/domain"
)

// SnapshotRepository reads and writes the snapshot as pretty-printed JSON
// at a fixed path. It assumes a single writer: runs are launched by an
// external scheduler one at a time and there is no file locking.
type SnapshotRepository struct {
	path string
}

// NewSnapshotRepository returns a SnapshotRepository backed by path.
func NewSnapshotRepository(path string) *SnapshotRepository {
	return &SnapshotRepository{path: path}
}

// Load reads the snapshot from disk. A missing file is a clean first run:
// the result is an empty snapshot stamped with now and a nil error. Any
// other failure (unreadable file, corrupt JSON) also yields an empty
// snapshot, but the underlying error is returned so the caller can log
// that history was discarded.
func (r *SnapshotRepository) Load(now time.Time) (*domain.Snapshot, error) {
	raw, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.NewSnapshot(now), nil
		}
		return domain.NewSnapshot(now), fmt.Errorf("read snapshot %s: %w", r.path, err)
	}

	var s domain.Snapshot
	if err := json.Unmarshal(raw, &s); err != nil {
		return domain.NewSnapshot(now), fmt.Errorf("parse snapshot %s: %w", r.path, err)
	}
	if s.Events == nil {
		s.Events = []domain.Event{}
	}
	return &s, nil
}

// Save writes the snapshot as indented UTF-8 JSON, replacing any previous
// contents.
func (r *SnapshotRepository) Save(s *domain.Snapshot) error {
	raw, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := os.WriteFile(r.path, raw, 0o644); err != nil {
		return fmt.Errorf("write snapshot %s: %w", r.path, err)
	}
	return nil
}
