package domain

import "time"

// Event represents one Foresters activity instance as returned by the
// events-search API. EventID is the sole identity used for diffing.
type Event struct {
	EventID           string     `json:"eventId"`
	EventName         string     `json:"eventName"`
	Description       string     `json:"description"`
	StartDate         string     `json:"startDate"`
	EndDate           string     `json:"endDate"`
	Building          Building   `json:"building"`
	Image             EventImage `json:"image"`
	RegistrationCount int        `json:"registrationCount"`
	OpenSpotsLeft     int        `json:"openSpotsleft"`
	// ActivityFull is trusted as given by the source; it is never
	// recomputed from OpenSpotsLeft.
	ActivityFull bool `json:"activityFull"`
}

// Building is the event location. All fields but Name may be empty.
type Building struct {
	Name          string `json:"name"`
	AddressLine1  string `json:"addressLine1,omitempty"`
	City          string `json:"city,omitempty"`
	StateProvince string `json:"stateProvince,omitempty"`
	PostalCode    string `json:"postalCode,omitempty"`
}

// EventImage carries the optional card image URL.
type EventImage struct {
	EventCardImage string `json:"eventcardimage,omitempty"`
}

// Event timestamps arrive as strings and the upstream mixes formats, so
// parsing is best-effort and centralized here.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseEventDate parses an event timestamp string. It returns the zero
// time and false when the value matches none of the known layouts.
func ParseEventDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// IsExpired reports whether the event ended before now. An unparsable
// EndDate is treated as active: pruning must never drop an event just
// because the upstream formatted its date oddly.
func (e Event) IsExpired(now time.Time) bool {
	end, ok := ParseEventDate(e.EndDate)
	if !ok {
		return false
	}
	return end.Before(now)
}

// PruneExpired returns the events that have not yet ended, preserving
// relative order. Idempotent for a fixed now.
func PruneExpired(events []Event, now time.Time) []Event {
	out := make([]Event, 0, len(events))
	for _, e := range events {
		if !e.IsExpired(now) {
			out = append(out, e)
		}
	}
	return out
}

// FindNew returns the events of current whose EventID does not appear in
// existing, preserving the order of current. Identity is solely EventID.
// Duplicate ids within current are not deduplicated, so both copies are
// reported when absent from existing.
func FindNew(current, existing []Event) []Event {
	seen := make(map[string]struct{}, len(existing))
	for _, e := range existing {
		seen[e.EventID] = struct{}{}
	}
	out := make([]Event, 0)
	for _, e := range current {
		if _, ok := seen[e.EventID]; !ok {
			out = append(out, e)
		}
	}
	return out
}
