package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mkEvent(id, endDate string) Event {
	return Event{EventID: id, EventName: "Event " + id, EndDate: endDate}
}

func TestIsExpired(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		endDate string
		want    bool
	}{
		{"ended yesterday", "2026-03-14T18:00:00Z", true},
		{"ends tomorrow", "2026-03-16T18:00:00Z", false},
		{"ends this second", "2026-03-15T12:00:00Z", false},
		{"no timezone suffix", "2026-03-14T18:00:00", true},
		{"date only, past", "2026-03-14", true},
		{"unparsable treated as active", "not a date", false},
		{"empty treated as active", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := mkEvent("e1", tt.endDate)
			assert.Equal(t, tt.want, e.IsExpired(now))
		})
	}
}

func TestPruneExpired(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	events := []Event{
		mkEvent("past", "2026-03-01T10:00:00Z"),
		mkEvent("future1", "2026-04-01T10:00:00Z"),
		mkEvent("garbled", "???"),
		mkEvent("future2", "2026-05-01T10:00:00Z"),
	}

	pruned := PruneExpired(events, now)
	require.Len(t, pruned, 3)
	assert.Equal(t, "future1", pruned[0].EventID)
	assert.Equal(t, "garbled", pruned[1].EventID)
	assert.Equal(t, "future2", pruned[2].EventID)

	// Idempotent for a fixed now.
	assert.Equal(t, pruned, PruneExpired(pruned, now))
}

func TestPruneExpiredEmpty(t *testing.T) {
	got := PruneExpired(nil, time.Now())
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFindNew(t *testing.T) {
	a := mkEvent("a", "2026-04-01T10:00:00Z")
	b := mkEvent("b", "2026-04-02T10:00:00Z")
	c := mkEvent("c", "2026-04-03T10:00:00Z")

	t.Run("identical sets yield nothing", func(t *testing.T) {
		assert.Empty(t, FindNew([]Event{a, b}, []Event{a, b}))
	})

	t.Run("empty history yields everything", func(t *testing.T) {
		got := FindNew([]Event{a, b}, nil)
		assert.Equal(t, []Event{a, b}, got)
	})

	t.Run("only unseen ids, order preserved", func(t *testing.T) {
		got := FindNew([]Event{c, a, b}, []Event{a})
		require.Len(t, got, 2)
		assert.Equal(t, "c", got[0].EventID)
		assert.Equal(t, "b", got[1].EventID)
	})

	t.Run("identity is eventId only", func(t *testing.T) {
		renamed := a
		renamed.EventName = "totally different name"
		assert.Empty(t, FindNew([]Event{renamed}, []Event{a}))
	})

	t.Run("duplicates in current are both reported", func(t *testing.T) {
		got := FindNew([]Event{b, b}, []Event{a})
		assert.Len(t, got, 2)
	})
}

func TestParseEventDate(t *testing.T) {
	got, ok := ParseEventDate("2026-03-15T09:30:00Z")
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, 3, 15, 9, 30, 0, 0, time.UTC), got)

	_, ok = ParseEventDate("15/03/2026")
	assert.False(t, ok)
}
