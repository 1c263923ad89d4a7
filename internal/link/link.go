// Package link builds add-to-calendar deep links for external providers.
package link

import (
	"net/url"
	"time"

	"deptcal/internal/event"
)

const (
	googleBase  = "https://calendar.google.com/calendar/render?action=TEMPLATE"
	outlookBase = "https://outlook.live.com/calendar/0/deeplink/compose?path=/calendar/action/compose&rru=addevent"
)

const utcBasic = "20060102T150405Z"

// Google returns the Google Calendar event-template URL for ev. The dates
// parameter is a slash-joined pair of UTC basic timestamps; ctz carries the
// event's zone label so Google presents the intended wall-clock times.
func Google(ev event.CalendarEvent) string {
	tz := ev.TimezoneID
	if tz == "" {
		tz = event.DefaultTimezone
	}
	dates := ev.Start.UTC().Format(utcBasic) + "/" + ev.End.UTC().Format(utcBasic)

	return googleBase +
		"&text=" + url.QueryEscape(ev.Title) +
		"&dates=" + dates +
		"&details=" + url.QueryEscape(ev.Description) +
		"&location=" + url.QueryEscape(ev.Location) +
		"&ctz=" + url.QueryEscape(tz)
}

// Outlook returns the Outlook web compose deep link for ev. Unlike Google,
// Outlook takes full ISO-8601 instants for startdt/enddt.
func Outlook(ev event.CalendarEvent) string {
	return outlookBase +
		"&subject=" + url.QueryEscape(ev.Title) +
		"&body=" + url.QueryEscape(ev.Description) +
		"&location=" + url.QueryEscape(ev.Location) +
		"&startdt=" + url.QueryEscape(ev.Start.UTC().Format(time.RFC3339)) +
		"&enddt=" + url.QueryEscape(ev.End.UTC().Format(time.RFC3339))
}
