package domain

import "time"

// Snapshot is the persisted record of previously observed events plus the
// time of the last successful check. It is read once at the start of a run
// and written at most once at the end.
type Snapshot struct {
	LastUpdated string  `json:"lastUpdated"`
	Events      []Event `json:"events"`
}

// NewSnapshot returns an empty snapshot stamped with now.
func NewSnapshot(now time.Time) *Snapshot {
	return &Snapshot{
		LastUpdated: now.Format(time.RFC3339),
		Events:      []Event{},
	}
}

// SnapshotStore defines the interface for snapshot persistence.
//
// Load must degrade gracefully: a missing backing file yields an empty
// snapshot and a nil error, while an unreadable or corrupt file yields an
// empty snapshot together with the underlying error so the caller can log
// the data loss and continue. Save returns any write error; the caller
// decides whether that aborts the run.
type SnapshotStore interface {
	Load(now time.Time) (*Snapshot, error)
	Save(s *Snapshot) error
}
