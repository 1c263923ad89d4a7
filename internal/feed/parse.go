package feed

import (
	"encoding/json"
	"fmt"

	"deptcal/internal/event"
	appLog "deptcal/internal/log"
)

// rawRecord covers both feed entry shapes. Entries with a year plus separate
// month/day fields are the structured events-page shape; entries carrying a
// combined "date" string ("Mar 5") are the free-text summary shape.
type rawRecord struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
	URL         string `json:"url"`
	Time        string `json:"time"`

	Year  int    `json:"year"`
	Month string `json:"month"`
	Day   string `json:"day"`

	Date string `json:"date"`
}

type feedBody struct {
	Events []rawRecord `json:"events"`
}

// ParseRecords decodes one feed body into event records. Entries that fit
// neither shape are logged and skipped; they never fail the batch.
func ParseRecords(sourceID string, body []byte) ([]event.Record, error) {
	var fb feedBody
	if err := json.Unmarshal(body, &fb); err != nil {
		return nil, fmt.Errorf("feed: decode %s: %w", sourceID, err)
	}

	records := make([]event.Record, 0, len(fb.Events))
	for _, raw := range fb.Events {
		rec, err := raw.toRecord()
		if err != nil {
			appLog.Error("feed record skipped", err, "id", sourceID, "title", raw.Title)
			continue
		}
		records = append(records, rec)
	}

	appLog.Info("feed parse completed", "id", sourceID, "record_count", len(records))
	return records, nil
}

func (r rawRecord) toRecord() (event.Record, error) {
	if r.Title == "" {
		return nil, fmt.Errorf("feed: entry has no title")
	}
	switch {
	case r.Year != 0:
		return event.StructuredRecord{
			ID:          r.ID,
			Title:       r.Title,
			Description: r.Description,
			Location:    r.Location,
			URL:         r.URL,
			Year:        r.Year,
			Month:       r.Month,
			Day:         r.Day,
			Time:        r.Time,
		}, nil
	case r.Date != "":
		return event.FreetextRecord{
			ID:          r.ID,
			Title:       r.Title,
			Description: r.Description,
			Location:    r.Location,
			URL:         r.URL,
			Date:        r.Date,
			Time:        r.Time,
		}, nil
	default:
		return nil, fmt.Errorf("feed: entry %q has neither year nor date", r.Title)
	}
}
