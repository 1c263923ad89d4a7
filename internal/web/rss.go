package web

import (
	"net/http"
	"sort"
	"time"

	"github.com/gorilla/feeds"

	"deptcal/internal/event"
	appLog "deptcal/internal/log"
)

// handleRSS serves an RSS 2.0 feed of upcoming events, soonest first.
func (s *Server) handleRSS(w http.ResponseWriter, r *http.Request) {
	events, err := s.events(r.Context())
	if err != nil {
		appLog.Error("api rss: refresh failed", err)
		writeError(w, http.StatusInternalServerError, "failed to load events")
		return
	}

	rss, err := buildRSS(events, s.cfg.SiteURL, s.now())
	if err != nil {
		appLog.Error("api rss: feed build failed", err)
		writeError(w, http.StatusInternalServerError, "failed to build feed")
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(rss))
}

func buildRSS(events []event.CalendarEvent, siteURL string, now time.Time) (string, error) {
	f := &feeds.Feed{
		Title:       "Department of Computer Science: Upcoming Events",
		Link:        &feeds.Link{Href: siteURL + "/events"},
		Description: "Seminars, workshops and conferences hosted by the department.",
		Created:     now,
	}

	sorted := make([]event.CalendarEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	for _, ev := range sorted {
		link := ev.SourceURL
		if link == "" {
			link = siteURL + "/events#event-" + ev.ID
		}
		f.Items = append(f.Items, &feeds.Item{
			Id:          ev.ID,
			Title:       ev.Title,
			Link:        &feeds.Link{Href: link},
			Description: ev.Description,
			Created:     ev.Start,
		})
	}

	return f.ToRss()
}
