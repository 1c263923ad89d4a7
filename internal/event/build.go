package event

import (
	"strings"
	"time"
	"unicode"
)

// Record is one raw event entry from the content layer. Exactly two shapes
// exist and both reduce to the same CalendarEvent.
type Record interface {
	// Title is used for logging and for id fallback; both shapes have one.
	title() string
}

// StructuredRecord is the events-page shape: explicit year plus separate
// month-name and day fields.
type StructuredRecord struct {
	ID          string
	Title       string
	Description string
	Location    string
	URL         string

	Year  int
	Month string // three-letter abbreviation, e.g. "Mar"
	Day   string
	Time  string // "09:00 - 17:00"
}

func (r StructuredRecord) title() string { return r.Title }

// FreetextRecord is the summary-listing shape: a single "Mar 5" date string
// and no year.
type FreetextRecord struct {
	ID          string
	Title       string
	Description string
	Location    string
	URL         string

	Date string // "Mar 5"
	Time string // "09:00 - 17:00"
}

func (r FreetextRecord) title() string { return r.Title }

// Build reduces a record to its canonical CalendarEvent. The now argument
// drives year inference for free-text records and must be in the same zone
// the events are listed in (loc). A *ParseError return means the record
// yields no calendar event; callers skip it and keep processing the batch.
func Build(r Record, now time.Time, loc *time.Location) (*CalendarEvent, error) {
	switch rec := r.(type) {
	case StructuredRecord:
		return buildStructured(rec, loc)
	case FreetextRecord:
		return buildFreetext(rec, now, loc)
	default:
		return nil, &ParseError{Reason: "unknown record shape"}
	}
}

func buildStructured(r StructuredRecord, loc *time.Location) (*CalendarEvent, error) {
	// Explicit year: map fields directly, no inference.
	start, end, err := composeDateTime(r.Year, r.Month, r.Day, r.Time, loc)
	if err != nil {
		return nil, err
	}
	ev := fromParts(r.ID, r.Title, r.Description, r.Location, r.URL, start, end, loc)
	return &ev, nil
}

func buildFreetext(r FreetextRecord, now time.Time, loc *time.Location) (*CalendarEvent, error) {
	monthTok, dayTok, found := strings.Cut(strings.TrimSpace(r.Date), " ")
	if !found {
		return nil, &ParseError{Reason: "date fragment " + strings.TrimSpace(r.Date) + " has no day"}
	}
	start, end, err := ResolveDateTime(monthTok, dayTok, r.Time, now.In(loc), loc)
	if err != nil {
		return nil, err
	}
	ev := fromParts(r.ID, r.Title, r.Description, r.Location, r.URL, start, end, loc)
	return &ev, nil
}

func fromParts(id, title, description, location, url string, start, end time.Time, loc *time.Location) CalendarEvent {
	if id == "" {
		id = Slugify(title)
	}
	return CalendarEvent{
		ID:          id,
		Title:       title,
		Description: description,
		Location:    location,
		Start:       start,
		End:         end,
		TimezoneID:  loc.String(),
		SourceURL:   url,
	}
}

// Slugify derives a stable id from a display title: lowercase, runs of
// non-alphanumerics collapsed to single hyphens.
func Slugify(s string) string {
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastHyphen = false
		} else if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
