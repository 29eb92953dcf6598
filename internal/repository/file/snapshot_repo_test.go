package file

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foresterswatch/internal/domain"
)

func TestLoadMissingFile(t *testing.T) {
	repo := NewSnapshotRepository(filepath.Join(t.TempDir(), "events.json"))
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	s, err := repo.Load(now)
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Empty(t, s.Events)
	assert.Equal(t, now.Format(time.RFC3339), s.LastUpdated)
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	repo := NewSnapshotRepository(path)

	s, err := repo.Load(time.Now())
	assert.Error(t, err)
	// Corruption degrades to an empty snapshot; the error is surfaced for
	// the caller to log.
	require.NotNil(t, s)
	assert.Empty(t, s.Events)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.json")
	repo := NewSnapshotRepository(path)

	want := &domain.Snapshot{
		LastUpdated: "2026-03-15T12:00:00Z",
		Events: []domain.Event{
			{
				EventID:   "ev-1",
				EventName: "Family Fun Day",
				StartDate: "2026-04-01T10:00:00Z",
				EndDate:   "2026-04-01T16:00:00Z",
				Building: domain.Building{
					Name:       "Cwmbran Centre",
					City:       "Cwmbran",
					PostalCode: "NP44 6EP",
				},
				Image:             domain.EventImage{EventCardImage: "https://example.com/card.jpg"},
				RegistrationCount: 12,
				OpenSpotsLeft:     8,
			},
		},
	}
	require.NoError(t, repo.Save(want))

	got, err := repo.Load(time.Now())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSavePrettyPrints(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.json")
	repo := NewSnapshotRepository(path)
	require.NoError(t, repo.Save(domain.NewSnapshot(time.Now())))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "\n  \"lastUpdated\"")
}

func TestSaveUnwritablePath(t *testing.T) {
	repo := NewSnapshotRepository(filepath.Join(t.TempDir(), "missing", "dir", "events.json"))
	err := repo.Save(domain.NewSnapshot(time.Now()))
	assert.Error(t, err)
}

func TestLoadNullEvents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"lastUpdated":"2026-03-15T12:00:00Z","events":null}`), 0o644))
	repo := NewSnapshotRepository(path)

	s, err := repo.Load(time.Now())
	require.NoError(t, err)
	assert.NotNil(t, s.Events)
	assert.Empty(t, s.Events)
}
