package grid

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deptcal/internal/event"
)

var sast = time.FixedZone("SAST", 2*60*60)

func TestMonthGridShape(t *testing.T) {
	today := time.Date(2026, time.March, 10, 12, 0, 0, 0, sast)

	months := []struct {
		year  int
		month time.Month
	}{
		{2026, time.March},    // starts on a Sunday, startPad 0
		{2026, time.February}, // 28 days
		{2028, time.February}, // leap year, 29 days
		{2026, time.January},  // year boundary on the left
		{2026, time.December}, // year boundary on the right
		{2026, time.July},     // 31 days
	}

	for _, m := range months {
		cells := MonthGrid(m.year, m.month, today)
		require.Len(t, cells, GridCells, "%v %d", m.month, m.year)

		// Starts on a Sunday and increases strictly by one day.
		assert.Equal(t, time.Sunday, cells[0].Date.Weekday())
		for i := 1; i < len(cells); i++ {
			assert.Equal(t, cells[i-1].Date.AddDate(0, 0, 1), cells[i].Date,
				"gap at cell %d of %v %d", i, m.month, m.year)
		}

		// Current-month cells count the days of that month exactly.
		daysInMonth := time.Date(m.year, m.month+1, 0, 0, 0, 0, 0, sast).Day()
		count := 0
		for _, c := range cells {
			if c.IsCurrentMonth {
				count++
				assert.Equal(t, m.month, c.Date.Month())
				assert.Equal(t, m.year, c.Date.Year())
			}
		}
		assert.Equal(t, daysInMonth, count)
	}
}

func TestMonthGridNoPaddingWhenMonthStartsSunday(t *testing.T) {
	today := time.Date(2026, time.March, 1, 0, 0, 0, 0, sast)

	// 2026-03-01 is a Sunday, so cell 0 is the first of the month.
	cells := MonthGrid(2026, time.March, today)
	assert.True(t, cells[0].IsCurrentMonth)
	assert.Equal(t, 1, cells[0].Date.Day())
	// March has 31 days, leaving 11 trailing April cells.
	assert.False(t, cells[31].IsCurrentMonth)
	assert.Equal(t, time.April, cells[31].Date.Month())
}

func TestMonthGridYearBoundaries(t *testing.T) {
	today := time.Date(2026, time.June, 1, 0, 0, 0, 0, sast)

	// January 2026 starts on a Thursday: four leading December 2025 cells.
	jan := MonthGrid(2026, time.January, today)
	assert.Equal(t, time.December, jan[0].Date.Month())
	assert.Equal(t, 2025, jan[0].Date.Year())
	assert.Equal(t, 28, jan[0].Date.Day())

	// December 2026 spills into January 2027 at the tail.
	dec := MonthGrid(2026, time.December, today)
	last := dec[GridCells-1]
	assert.Equal(t, time.January, last.Date.Month())
	assert.Equal(t, 2027, last.Date.Year())
}

func TestMonthGridToday(t *testing.T) {
	today := time.Date(2026, time.March, 10, 15, 30, 0, 0, sast)

	cells := MonthGrid(2026, time.March, today)
	var todayCount int
	for _, c := range cells {
		if c.IsToday {
			todayCount++
			assert.Equal(t, "2026-03-10", event.DateKeyOf(c.Date))
		}
	}
	assert.Equal(t, 1, todayCount)

	// A month not containing today has no today cell, unless today sits in
	// its visible padding.
	aug := MonthGrid(2026, time.August, today)
	for _, c := range aug {
		assert.False(t, c.IsToday)
	}
}

func TestMonthGridTodayInAdjacentPadding(t *testing.T) {
	// 2026-04-01 is a Wednesday, so March 29-31 lead the April grid; the
	// today flag must land on that padding cell.
	today := time.Date(2026, time.March, 31, 8, 0, 0, 0, sast)

	apr := MonthGrid(2026, time.April, today)
	var flagged []time.Time
	for _, c := range apr {
		if c.IsToday {
			flagged = append(flagged, c.Date)
		}
	}
	require.Len(t, flagged, 1)
	assert.Equal(t, "2026-03-31", event.DateKeyOf(flagged[0]))
}

func TestIndexByDate(t *testing.T) {
	mk := func(id string, day, hour int) event.CalendarEvent {
		return event.CalendarEvent{
			ID:    id,
			Start: time.Date(2026, time.March, day, hour, 0, 0, 0, sast),
		}
	}

	idx := IndexByDate([]event.CalendarEvent{
		mk("late", 5, 17),
		mk("early", 5, 9),
		mk("other-day", 12, 14),
	})

	require.Len(t, idx, 2)
	day5 := idx["2026-03-05"]
	require.Len(t, day5, 2)
	// Input order is preserved, not re-sorted by time of day.
	assert.Equal(t, "late", day5[0].ID)
	assert.Equal(t, "early", day5[1].ID)
	assert.Equal(t, "other-day", idx["2026-03-12"][0].ID)
}

func TestIndexByDateUsesWallClockDate(t *testing.T) {
	// 23:30 local on the 5th is already the 6th in UTC+10; the key must
	// come from the wall-clock fields, never a converted instant.
	weird := time.FixedZone("X", -10*60*60)
	ev := event.CalendarEvent{
		ID:    "night",
		Start: time.Date(2026, time.March, 5, 23, 30, 0, 0, weird),
	}

	idx := IndexByDate([]event.CalendarEvent{ev})
	require.Contains(t, idx, "2026-03-05")
}

func TestIndexByDateEmpty(t *testing.T) {
	idx := IndexByDate(nil)
	assert.Empty(t, idx)
}
