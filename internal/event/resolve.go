package event

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// monthIndex maps the three-letter abbreviations used by the events content
// to calendar months. Tokens are matched exactly.
var monthIndex = map[string]time.Month{
	"Jan": time.January, "Feb": time.February, "Mar": time.March,
	"Apr": time.April, "May": time.May, "Jun": time.June,
	"Jul": time.July, "Aug": time.August, "Sep": time.September,
	"Oct": time.October, "Nov": time.November, "Dec": time.December,
}

// ParseError reports an event date fragment that cannot be resolved.
// Callers treat it as "no calendar event derivable" and skip the record.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return "event: " + e.Reason
}

// ResolveDateTime turns a date fragment ("Mar 5" split into month token and
// day text) and a time-range fragment ("09:00 - 17:00") into concrete start
// and end wall-clock date-times in loc.
//
// The listed events carry no year; they are assumed upcoming. A trial start
// is composed in now's year, and if it falls strictly before now the
// following year is used instead.
//
// Time-range handling is lenient: a missing or unparsable minute is 0, and
// when the end hour itself is unparsable (or absent, as in "09:00"), the end
// becomes start plus one hour keeping the start minute.
func ResolveDateTime(monthTok, dayTok, timeRange string, now time.Time, loc *time.Location) (start, end time.Time, err error) {
	trialStart, _, err := composeDateTime(now.Year(), monthTok, dayTok, timeRange, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	year := now.Year()
	if trialStart.Before(now) {
		year++
	}
	return composeDateTime(year, monthTok, dayTok, timeRange, loc)
}

// composeDateTime builds the start/end wall-clock date-times for an explicit
// year. Shared by the inferring resolver and the structured record path.
func composeDateTime(year int, monthTok, dayTok, timeRange string, loc *time.Location) (start, end time.Time, err error) {
	month, ok := monthIndex[strings.TrimSpace(monthTok)]
	if !ok {
		return time.Time{}, time.Time{}, &ParseError{Reason: fmt.Sprintf("unrecognized month %q", monthTok)}
	}

	day, derr := strconv.Atoi(strings.TrimSpace(dayTok))
	if derr != nil {
		return time.Time{}, time.Time{}, &ParseError{Reason: fmt.Sprintf("non-numeric day %q", dayTok)}
	}

	startHour, startMin, endHour, endMin := parseTimeRange(timeRange)

	start = time.Date(year, month, day, startHour, startMin, 0, 0, loc)
	end = time.Date(year, month, day, endHour, endMin, 0, 0, loc)
	return start, end, nil
}

// parseTimeRange splits "H[H]:MM - H[H]:MM" into start/end hour and minute.
// The hyphen and the end side are both optional.
func parseTimeRange(s string) (startHour, startMin, endHour, endMin int) {
	var startTok, endTok string
	parts := strings.SplitN(s, "-", 2)
	startTok = strings.TrimSpace(parts[0])
	if len(parts) == 2 {
		endTok = strings.TrimSpace(parts[1])
	}

	startHour = clockField(startTok, 0, 0)
	startMin = clockField(startTok, 1, 0)

	if h, ok := clockFieldOK(endTok, 0); ok {
		endHour = h
		endMin = clockField(endTok, 1, 0)
	} else {
		// No usable end hour: synthesize a one-hour duration.
		endHour = startHour + 1
		endMin = startMin
	}
	return startHour, startMin, endHour, endMin
}

// clockField extracts the idx-th colon-separated component of tok as an
// integer, or def when absent or non-numeric.
func clockField(tok string, idx, def int) int {
	if n, ok := clockFieldOK(tok, idx); ok {
		return n
	}
	return def
}

func clockFieldOK(tok string, idx int) (int, bool) {
	fields := strings.Split(tok, ":")
	if idx >= len(fields) {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(fields[idx]))
	if err != nil {
		return 0, false
	}
	return n, true
}
