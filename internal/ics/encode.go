// Package ics serializes calendar events into downloadable iCalendar
// payloads.
package ics

import (
	"strings"
	"time"

	"deptcal/internal/event"
)

const (
	// ProdID identifies the generating product in every payload.
	ProdID = "-//Stellenbosch University//CS Dept//EN"

	// UIDSuffix is appended to the event id to form the iCalendar UID.
	UIDSuffix = "@cs.sun.ac.za"

	// FilenamePrefix seeds the suggested download filename.
	FilenamePrefix = "SU-CS-"

	// ContentType is the MIME type for the generated payload.
	ContentType = "text/calendar;charset=utf-8"
)

// utcBasic is the RFC 5545 UTC date-time form, YYYYMMDDTHHMMSSZ.
const utcBasic = "20060102T150405Z"

// Encode renders ev as a single VCALENDAR/VEVENT payload. generated becomes
// DTSTAMP and must be fixed once per call.
//
// Lines are LF-joined and never folded at the 75-octet boundary. Most
// clients accept this; strict RFC 5545 consumers may not. End < Start is
// encoded as-is.
func Encode(ev event.CalendarEvent, generated time.Time) string {
	description := ev.Description
	if ev.SourceURL != "" {
		if description != "" {
			description += "\n\n" + ev.SourceURL
		} else {
			description = ev.SourceURL
		}
	}

	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:" + ProdID,
		"CALSCALE:GREGORIAN",
		"METHOD:PUBLISH",
		"BEGIN:VEVENT",
		"UID:" + EscapeText(ev.ID+UIDSuffix),
		"DTSTAMP:" + generated.UTC().Format(utcBasic),
		"DTSTART:" + ev.Start.UTC().Format(utcBasic),
		"DTEND:" + ev.End.UTC().Format(utcBasic),
		"SUMMARY:" + EscapeText(ev.Title),
	}
	if description != "" {
		lines = append(lines, "DESCRIPTION:"+EscapeText(description))
	}
	if ev.Location != "" {
		lines = append(lines, "LOCATION:"+EscapeText(ev.Location))
	}
	if ev.SourceURL != "" {
		lines = append(lines, "URL:"+EscapeText(ev.SourceURL))
	}
	lines = append(lines, "END:VEVENT", "END:VCALENDAR")

	return strings.Join(lines, "\n")
}

// Filename returns the suggested download filename for ev.
func Filename(ev event.CalendarEvent) string {
	return FilenamePrefix + ev.ID + ".ics"
}

// EscapeText escapes an iCalendar TEXT value (RFC 5545 §3.3.11). Backslash
// goes first so the escapes it introduces are not escaped again.
func EscapeText(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\r\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\n")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
