// Package grid builds the interactive month view: a fixed 42-cell calendar
// grid and a date-keyed index of events for day lookups.
package grid

import (
	"time"

	"deptcal/internal/event"
)

// GridCells is the fixed cell count: 6 rows of 7 days, week starting Sunday.
const GridCells = 6 * 7

// Cell is one day slot in a month grid. Date is a wall-clock midnight in the
// display zone.
type Cell struct {
	Date           time.Time
	IsCurrentMonth bool
	IsToday        bool
}

// MonthGrid returns exactly GridCells cells covering the given month plus
// leading/trailing padding from the adjacent months, so the grid starts on a
// Sunday and has no gaps. today is read once; all 42 IsToday comparisons use
// the same reference.
func MonthGrid(year int, month time.Month, today time.Time) []Cell {
	first := time.Date(year, month, 1, 0, 0, 0, 0, today.Location())
	startPad := int(first.Weekday()) // 0 = Sunday
	daysInMonth := time.Date(year, month+1, 0, 0, 0, 0, 0, today.Location()).Day()
	todayKey := event.DateKeyOf(today)

	cells := make([]Cell, 0, GridCells)
	for i := 0; i < GridCells; i++ {
		dayOffset := i - startPad
		date := first.AddDate(0, 0, dayOffset)
		cells = append(cells, Cell{
			Date:           date,
			IsCurrentMonth: dayOffset >= 0 && dayOffset < daysInMonth,
			IsToday:        event.DateKeyOf(date) == todayKey,
		})
	}
	return cells
}

// WeekdayLabels and MonthLabels are the display headings matching the grid's
// Sunday-first layout.
var (
	WeekdayLabels = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	MonthLabels   = [12]string{
		"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December",
	}
)
