// Package web exposes the calendar subsystem over HTTP: the canonical event
// list, per-event ICS downloads and provider links, the month grid, and an
// RSS feed of upcoming events.
package web

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"deptcal/internal/config"
	"deptcal/internal/event"
	"deptcal/internal/feed"
	"deptcal/internal/grid"
	"deptcal/internal/ics"
	"deptcal/internal/link"
	appLog "deptcal/internal/log"
)

// snapshotTTL bounds how stale the event snapshot served to lazy requests
// may get between cron refreshes.
const snapshotTTL = 30 * time.Second

// Server serves the calendar API for the department site.
type Server struct {
	cfg     *config.Config
	loc     *time.Location
	fetcher *feed.Fetcher
	mux     *http.ServeMux

	// now is the injected clock; every handler reads it once per request
	// so grids and DTSTAMPs stay internally consistent.
	now func() time.Time

	mu       sync.RWMutex
	snapshot *snapshot
}

// snapshot is one built set of canonical events.
type snapshot struct {
	events    []event.CalendarEvent
	updatedAt time.Time
}

// NewServer constructs a Server for cfg.
func NewServer(cfg *config.Config) *Server {
	s := &Server{
		cfg:     cfg,
		loc:     resolveLocationOrLocal(cfg.Timezone),
		fetcher: feed.NewFetcher(cfg.CacheDir),
		mux:     http.NewServeMux(),
		now:     time.Now,
	}
	s.registerRoutes()
	return s
}

// Handler returns the http.Handler for this server, with Basic Auth applied
// when configured.
func (s *Server) Handler() http.Handler {
	h := http.Handler(s.mux)
	if s.basicAuthEnabled() {
		appLog.Info("HTTP basic auth enabled", "listen", "http://"+s.cfg.Listen)
		return s.basicAuthMiddleware(h)
	}
	return h
}

func (s *Server) basicAuthEnabled() bool {
	if s.cfg == nil || s.cfg.BasicAuth == nil {
		return false
	}
	// Empty username or password counts as disabled.
	return s.cfg.BasicAuth.Username != "" && s.cfg.BasicAuth.Password != ""
}

// basicAuthMiddleware wraps all handlers except /health.
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	username := s.cfg.BasicAuth.Username
	password := s.cfg.BasicAuth.Password

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}
		u, p, ok := r.BasicAuth()
		if !ok || !secureCompare(u, username) || !secureCompare(p, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="DeptCal", charset="UTF-8"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /api/events", s.handleEvents)
	s.mux.HandleFunc("GET /api/events/feed.rss", s.handleRSS)
	s.mux.HandleFunc("GET /api/events/{id}/ics", s.handleICS)
	s.mux.HandleFunc("GET /api/events/{id}/links", s.handleLinks)
	s.mux.HandleFunc("GET /api/calendar", s.handleCalendar)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// Refresh fetches all feeds, builds canonical events and replaces the
// snapshot. Records that fail to resolve are skipped; the rest of the batch
// is kept.
func (s *Server) Refresh(ctx context.Context) error {
	now := s.now().In(s.loc)

	sources := make([]feed.Source, 0, len(s.cfg.Feeds))
	for _, fc := range s.cfg.Feeds {
		if fc.URL == "" {
			continue
		}
		id := fc.ID
		if id == "" {
			if fc.Name != "" {
				id = fc.Name
			} else {
				id = fc.URL
			}
		}
		sources = append(sources, feed.Source{ID: id, URL: fc.URL})
	}

	// A refresh succeeds as long as some sources produced bodies; individual
	// failures were already logged by the fetcher.
	results, errs := s.fetcher.FetchAll(ctx, sources)
	if len(errs) > 0 {
		appLog.Error("refresh: one or more feed fetches failed", errors.Join(errs...), "error_count", len(errs))
	}

	events := make([]event.CalendarEvent, 0)
	for _, res := range results {
		records, err := feed.ParseRecords(res.Source.ID, res.Body)
		if err != nil {
			appLog.Error("refresh: parse failed for source", err, "id", res.Source.ID)
			continue
		}
		for _, rec := range records {
			ev, err := event.Build(rec, now, s.loc)
			if err != nil {
				appLog.Error("refresh: record not resolvable, skipping", err, "source", res.Source.ID)
				continue
			}
			events = append(events, *ev)
		}
	}

	s.mu.Lock()
	s.snapshot = &snapshot{events: events, updatedAt: s.now()}
	s.mu.Unlock()

	appLog.Info("refresh completed", "source_count", len(sources), "event_count", len(events))
	return nil
}

// events returns the current snapshot, refreshing when stale or absent.
func (s *Server) events(ctx context.Context) ([]event.CalendarEvent, error) {
	s.mu.RLock()
	snap := s.snapshot
	s.mu.RUnlock()
	if snap != nil && s.now().Sub(snap.updatedAt) < snapshotTTL {
		return snap.events, nil
	}
	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.events, nil
}

// eventDTO is the JSON view of a canonical event.
type eventDTO struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`
	Start       string `json:"start"`
	End         string `json:"end"`
	Timezone    string `json:"timezone"`
	DateKey     string `json:"date_key"`
	URL         string `json:"url,omitempty"`
}

func toDTO(ev event.CalendarEvent) eventDTO {
	return eventDTO{
		ID:          ev.ID,
		Title:       ev.Title,
		Description: ev.Description,
		Location:    ev.Location,
		Start:       ev.Start.Format(time.RFC3339),
		End:         ev.End.Format(time.RFC3339),
		Timezone:    ev.TimezoneID,
		DateKey:     ev.DateKey(),
		URL:         ev.SourceURL,
	}
}

// eventsResponse is the JSON response shape for /api/events.
type eventsResponse struct {
	Events   []eventDTO `json:"events"`
	Timezone string     `json:"timezone"`
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	events, err := s.events(r.Context())
	if err != nil {
		appLog.Error("api events: refresh failed", err)
		writeError(w, http.StatusInternalServerError, "failed to load events")
		return
	}

	dtos := make([]eventDTO, 0, len(events))
	for _, ev := range events {
		dtos = append(dtos, toDTO(ev))
	}
	writeJSON(w, http.StatusOK, eventsResponse{
		Events:   dtos,
		Timezone: s.loc.String(),
	})
}

// handleICS serves the downloadable calendar file for one event.
func (s *Server) handleICS(w http.ResponseWriter, r *http.Request) {
	ev, ok := s.eventByID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "event not found")
		return
	}

	payload := ics.Encode(ev, s.now())
	w.Header().Set("Content-Type", ics.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+ics.Filename(ev)+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(payload))
}

// linksResponse is the JSON response shape for /api/events/{id}/links.
type linksResponse struct {
	Google  string `json:"google"`
	Outlook string `json:"outlook"`
}

func (s *Server) handleLinks(w http.ResponseWriter, r *http.Request) {
	ev, ok := s.eventByID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "event not found")
		return
	}
	writeJSON(w, http.StatusOK, linksResponse{
		Google:  link.Google(ev),
		Outlook: link.Outlook(ev),
	})
}

func (s *Server) eventByID(r *http.Request) (event.CalendarEvent, bool) {
	id := r.PathValue("id")
	events, err := s.events(r.Context())
	if err != nil {
		appLog.Error("api event lookup: refresh failed", err, "event_id", id)
		return event.CalendarEvent{}, false
	}
	for _, ev := range events {
		if ev.ID == id {
			return ev, true
		}
	}
	return event.CalendarEvent{}, false
}

// cellDTO is the JSON view of one month-grid cell.
type cellDTO struct {
	Date           string `json:"date"`
	IsCurrentMonth bool   `json:"is_current_month"`
	IsToday        bool   `json:"is_today"`
}

// calendarResponse is the JSON response shape for /api/calendar.
type calendarResponse struct {
	Year         int                   `json:"year"`
	Month        int                   `json:"month"`
	MonthLabel   string                `json:"month_label"`
	Cells        []cellDTO             `json:"cells"`
	EventsByDate map[string][]eventDTO `json:"events_by_date"`
}

// handleCalendar returns the 42-cell grid for year/month (defaulting to the
// current month in the configured zone) plus the date index over all events.
//
// GET /api/calendar?year=2026&month=3
func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	today := s.now().In(s.loc)

	q := r.URL.Query()
	year := parseIntDefault(q.Get("year"), today.Year())
	month := parseIntDefault(q.Get("month"), int(today.Month()))
	if month < 1 || month > 12 {
		writeError(w, http.StatusBadRequest, "month must be 1-12")
		return
	}

	events, err := s.events(r.Context())
	if err != nil {
		appLog.Error("api calendar: refresh failed", err)
		writeError(w, http.StatusInternalServerError, "failed to load events")
		return
	}

	cells := grid.MonthGrid(year, time.Month(month), today)
	cellDTOs := make([]cellDTO, 0, len(cells))
	for _, c := range cells {
		cellDTOs = append(cellDTOs, cellDTO{
			Date:           event.DateKeyOf(c.Date),
			IsCurrentMonth: c.IsCurrentMonth,
			IsToday:        c.IsToday,
		})
	}

	index := grid.IndexByDate(events)
	byDate := make(map[string][]eventDTO, len(index))
	for key, evs := range index {
		dtos := make([]eventDTO, 0, len(evs))
		for _, ev := range evs {
			dtos = append(dtos, toDTO(ev))
		}
		byDate[key] = dtos
	}

	writeJSON(w, http.StatusOK, calendarResponse{
		Year:         year,
		Month:        month,
		MonthLabel:   grid.MonthLabels[month-1],
		Cells:        cellDTOs,
		EventsByDate: byDate,
	})
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func resolveLocationOrLocal(name string) *time.Location {
	if name == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		appLog.Error("failed to load timezone; falling back to local", err, "name", name)
		return time.Local
	}
	return loc
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}
