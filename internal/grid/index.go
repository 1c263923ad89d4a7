package grid

import "deptcal/internal/event"

// DateIndex maps a DateKey (YYYY-MM-DD) to the events starting on that local
// date, in input order.
type DateIndex map[string][]event.CalendarEvent

// IndexByDate groups events by their local start date. Keys come from the
// wall-clock fields, never from a UTC conversion, so grouping is stable
// across timezone metadata. Order within a day is the input order.
func IndexByDate(events []event.CalendarEvent) DateIndex {
	idx := make(DateIndex, len(events))
	for _, ev := range events {
		key := ev.DateKey()
		idx[key] = append(idx[key], ev)
	}
	return idx
}
