// Package event holds the canonical calendar event model and the logic that
// reduces the site's loosely structured event records into it.
package event

import "time"

// DefaultTimezone is the department-local zone attached to events whose
// source does not carry an explicit zone label.
const DefaultTimezone = "Africa/Johannesburg"

// CalendarEvent is the canonical, fully resolved form of one event. All
// downstream consumers (ICS encoding, provider links, the month index)
// operate on this type only.
type CalendarEvent struct {
	// ID is a stable identifier, unique per event. It seeds the iCalendar
	// UID and the download filename.
	ID string

	Title       string
	Description string
	Location    string

	// Start / End are wall-clock date-times carrying the event's own
	// timezone in their Location. End >= Start is expected but not
	// enforced; malformed source ranges are passed through as-is.
	Start time.Time
	End   time.Time

	// TimezoneID is the IANA zone label for provider links. Informational
	// only; encoding always converts to UTC.
	TimezoneID string

	// SourceURL optionally points at the event's detail page.
	SourceURL string
}

// DateKey returns the YYYY-MM-DD key for the event's start date, read from
// the local wall-clock fields. Never derived via a UTC conversion, so two
// events on the same local date share a key regardless of zone metadata.
func (e CalendarEvent) DateKey() string {
	return DateKeyOf(e.Start)
}

// DateKeyOf formats any wall-clock time as a YYYY-MM-DD grouping key.
func DateKeyOf(t time.Time) string {
	return t.Format("2006-01-02")
}
