package event

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildStructuredRecord(t *testing.T) {
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, sast)

	rec := StructuredRecord{
		ID:          "ai-ml-symposium-2026",
		Title:       "AI & Machine Learning Symposium 2026",
		Description: "Annual symposium featuring keynotes from leading AI researchers.",
		Location:    "Main Auditorium, Stellenbosch Campus",
		Year:        2026,
		Month:       "Mar",
		Day:         "5",
		Time:        "09:00 - 17:00",
	}

	ev, err := Build(rec, now, sast)
	require.NoError(t, err)
	require.NotNil(t, ev)

	assert.Equal(t, "ai-ml-symposium-2026", ev.ID)
	assert.Equal(t, time.Date(2026, time.March, 5, 9, 0, 0, 0, sast), ev.Start)
	assert.Equal(t, time.Date(2026, time.March, 5, 17, 0, 0, 0, sast), ev.End)
	assert.Equal(t, "SAST", ev.TimezoneID)
	assert.Equal(t, "2026-03-05", ev.DateKey())
}

func TestBuildStructuredRecordIgnoresNow(t *testing.T) {
	// The explicit year wins even when the date is already in the past.
	now := time.Date(2030, time.December, 31, 23, 59, 0, 0, sast)

	ev, err := Build(StructuredRecord{
		ID: "old", Title: "Old event", Year: 2026, Month: "Mar", Day: "5", Time: "09:00",
	}, now, sast)
	require.NoError(t, err)
	assert.Equal(t, 2026, ev.Start.Year())
}

func TestBuildFreetextRecord(t *testing.T) {
	now := time.Date(2026, time.June, 15, 10, 0, 0, 0, sast)

	ev, err := Build(FreetextRecord{
		Title:    "AI & Machine Learning Symposium",
		Location: "Main Auditorium",
		Date:     "Mar 5",
		Time:     "09:00 - 17:00",
	}, now, sast)
	require.NoError(t, err)

	// March has passed, so the listing refers to next year.
	assert.Equal(t, time.Date(2027, time.March, 5, 9, 0, 0, 0, sast), ev.Start)
	// No explicit id: a stable slug is derived from the title.
	assert.Equal(t, "ai-machine-learning-symposium", ev.ID)
}

func TestBuildUnresolvableRecords(t *testing.T) {
	now := time.Date(2026, time.June, 15, 10, 0, 0, 0, sast)

	tests := []struct {
		name string
		rec  Record
	}{
		{"unknown month token", FreetextRecord{Title: "x", Date: "Xyz 5", Time: "09:00"}},
		{"date without day", FreetextRecord{Title: "x", Date: "Mar", Time: "09:00"}},
		{"non-numeric structured day", StructuredRecord{Title: "x", Year: 2026, Month: "Mar", Day: "five", Time: "09:00"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := Build(tt.rec, now, sast)
			require.Error(t, err)
			assert.Nil(t, ev)
			var perr *ParseError
			assert.ErrorAs(t, err, &perr)
		})
	}
}

func TestBuildBatchSkipsOnlyBadRecords(t *testing.T) {
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, sast)

	records := []Record{
		StructuredRecord{ID: "a", Title: "A", Year: 2026, Month: "Mar", Day: "5", Time: "09:00"},
		FreetextRecord{Title: "Broken", Date: "Xyz 5", Time: "09:00"},
		StructuredRecord{ID: "b", Title: "B", Year: 2026, Month: "Apr", Day: "1", Time: "10:00"},
	}

	var built []CalendarEvent
	for _, rec := range records {
		ev, err := Build(rec, now, sast)
		if err != nil {
			continue
		}
		built = append(built, *ev)
	}

	require.Len(t, built, 2)
	assert.Equal(t, "a", built[0].ID)
	assert.Equal(t, "b", built[1].ID)
}

func TestDateKeyIgnoresZoneMetadata(t *testing.T) {
	// Same wall-clock fields, different zones: identical keys.
	zones := []*time.Location{
		sast,
		time.FixedZone("X", -10*60*60),
		time.UTC,
	}
	for _, loc := range zones {
		ev := CalendarEvent{Start: time.Date(2026, time.March, 5, 23, 30, 0, 0, loc)}
		assert.Equal(t, "2026-03-05", ev.DateKey(), "zone %v", loc)
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"AI & Machine Learning Symposium", "ai-machine-learning-symposium"},
		{"PhD Research Seminar Series", "phd-research-seminar-series"},
		{"  spaced  out  ", "spaced-out"},
		{"already-a-slug", "already-a-slug"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.in), "input %q", tt.in)
	}
}
