package api

import (
	"time"
)

// Vehicle statuses reported by the API.
const (
	StatusActive  = "active"
	StatusSold    = "sold"
	StatusRemoved = "removed"
)

// Vehicle mirrors a listing record. Optional columns are pointers so that JSON
// null and a missing key both decode to nil.
type Vehicle struct {
	ID           int64   `json:"id"`
	ExternalID   string  `json:"webmotors_id"`
	Title        string  `json:"title"`
	Brand        *string `json:"brand"`
	Model        *string `json:"model"`
	Year         *int    `json:"year"`
	Price        *string `json:"price"`
	Mileage      *string `json:"mileage"`
	FuelType     *string `json:"fuel_type"`
	Transmission *string `json:"transmission"`
	Location     *string `json:"location"`
	URL          string  `json:"url"`
	Status       string  `json:"status"`
	FirstSeen    *string `json:"first_seen"`
	LastSeen     *string `json:"last_seen"`
}

// ParsedLastSeen returns the last-seen timestamp, or the zero time when absent
// or unparseable.
func (v Vehicle) ParsedLastSeen() time.Time {
	return parseTime(deref(v.LastSeen))
}

// ParsedFirstSeen returns the first-seen timestamp, or the zero time.
func (v Vehicle) ParsedFirstSeen() time.Time {
	return parseTime(deref(v.FirstSeen))
}

// VehiclePage mirrors the paginated /api/vehicles payload.
type VehiclePage struct {
	Vehicles    []Vehicle `json:"vehicles"`
	CurrentPage int       `json:"current_page"`
	Pages       int       `json:"pages"`
	Total       int       `json:"total"`
}

// Stats mirrors /api/vehicles/stats.
type Stats struct {
	TotalActive    int `json:"total_active"`
	TotalSold      int `json:"total_sold"`
	TotalRemoved   int `json:"total_removed"`
	AddedLast24h   int `json:"added_last_24h"`
	RemovedLast24h int `json:"removed_last_24h"`
}

// ScraperStatus mirrors /api/scraper/status.
type ScraperStatus struct {
	IsRunning  bool    `json:"is_running"`
	LastRun    *string `json:"last_run"`
	LastResult *string `json:"last_result"`
}

// ParsedLastRun returns the last run time, or the zero time when the job has
// never completed.
func (s ScraperStatus) ParsedLastRun() time.Time {
	return parseTime(deref(s.LastRun))
}

// HasRun reports whether the API reported a completed run.
func (s ScraperStatus) HasRun() bool {
	return deref(s.LastRun) != ""
}

// LastResultText returns the summary of the last run, or "".
func (s ScraperStatus) LastResultText() string {
	return deref(s.LastResult)
}

// RunAck is the acknowledgement returned by POST /api/scraper/run.
type RunAck struct {
	Message string `json:"message"`
}

// HistoryEntry mirrors one element of /api/vehicles/history/<id>.
type HistoryEntry struct {
	ID        int64   `json:"id"`
	VehicleID int64   `json:"vehicle_id"`
	Action    string  `json:"action"`
	Changes   *string `json:"changes"`
	Timestamp *string `json:"timestamp"`
}

// ParsedTimestamp returns the entry timestamp, or the zero time.
func (h HistoryEntry) ParsedTimestamp() time.Time {
	return parseTime(deref(h.Timestamp))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// The API serialises naive UTC datetimes via isoformat(), so zone-less layouts
// are tried after the RFC3339 ones and interpreted as UTC.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}
