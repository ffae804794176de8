package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	require.NoError(t, err)
	assert.Equal(t, "http", u.Scheme)
	assert.Equal(t, "127.0.0.1:5000", u.Host)

	u, err = parseBaseURL("example.com:8080/monitor/?x=1#frag")
	require.NoError(t, err)
	assert.Equal(t, "example.com:8080", u.Host)
	assert.Equal(t, "/monitor", u.Path)
	assert.Empty(t, u.RawQuery)
	assert.Empty(t, u.Fragment)

	_, err = parseBaseURL("http://")
	assert.Error(t, err)
}

func TestClient_ResolveKeepsBasePathAndAPIPrefix(t *testing.T) {
	c, err := NewClient(Options{BaseURL: "http://host:1/monitor"})
	require.NoError(t, err)

	got := c.resolve("/vehicles/search", url.Values{"q": {"gol g5"}})
	assert.Equal(t, "http://host:1/monitor/api/vehicles/search?q=gol+g5", got.String())
}

func TestClient_FetchesEndpointsAndEncodesQueries(t *testing.T) {
	t.Parallel()

	var gotVehiclesQuery url.Values
	var gotSearchQuery url.Values
	var gotRunMethod string
	var gotRequestID string
	var gotUserAgent string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		gotRequestID = r.Header.Get("X-Request-ID")
		w.Header().Set("Content-Type", "application/json")

		switch r.URL.Path {
		case "/api/vehicles/stats":
			_ = json.NewEncoder(w).Encode(Stats{TotalActive: 12, TotalSold: 3, AddedLast24h: 2})
		case "/api/vehicles":
			gotVehiclesQuery = r.URL.Query()
			_ = json.NewEncoder(w).Encode(VehiclePage{
				Vehicles:    []Vehicle{{ID: 7, Title: "Gol 1.0"}},
				CurrentPage: 2,
				Pages:       9,
				Total:       170,
			})
		case "/api/vehicles/recent":
			_, _ = w.Write([]byte(`[{"id":1,"title":"Onix","brand":null,"year":2020}]`))
		case "/api/vehicles/removed":
			_, _ = w.Write([]byte(`[{"id":2,"title":"Uno","status":"sold"}]`))
		case "/api/vehicles/search":
			gotSearchQuery = r.URL.Query()
			_, _ = w.Write([]byte(`[]`))
		case "/api/vehicles/7":
			_ = json.NewEncoder(w).Encode(Vehicle{ID: 7, Title: "Gol 1.0"})
		case "/api/vehicles/history/7":
			_, _ = w.Write([]byte(`[{"id":1,"vehicle_id":7,"action":"added","timestamp":"2024-05-01T10:00:00"}]`))
		case "/api/scraper/run":
			gotRunMethod = r.Method
			_ = json.NewEncoder(w).Encode(RunAck{Message: "Scraping started"})
		case "/api/scraper/status":
			_, _ = w.Write([]byte(`{"is_running":false,"last_run":"2024-05-01T10:00:00.123456","last_result":"success"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(Options{BaseURL: server.URL})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	stats, err := c.FetchStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, Stats{TotalActive: 12, TotalSold: 3, AddedLast24h: 2}, stats)

	page, err := c.FetchVehicles(ctx, VehicleQuery{Page: 2, Status: "sold", Brand: " vw "})
	require.NoError(t, err)
	assert.Equal(t, 2, page.CurrentPage)
	assert.Equal(t, 9, page.Pages)
	require.Len(t, page.Vehicles, 1)
	assert.Equal(t, "2", gotVehiclesQuery.Get("page"))
	assert.Equal(t, "20", gotVehiclesQuery.Get("per_page"))
	assert.Equal(t, "sold", gotVehiclesQuery.Get("status"))
	assert.Equal(t, "vw", gotVehiclesQuery.Get("brand"))
	assert.False(t, gotVehiclesQuery.Has("model"))

	recent, err := c.FetchRecent(ctx)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Nil(t, recent[0].Brand)
	require.NotNil(t, recent[0].Year)
	assert.Equal(t, 2020, *recent[0].Year)

	removed, err := c.FetchRemoved(ctx)
	require.NoError(t, err)
	require.Len(t, removed, 1)
	assert.Equal(t, StatusSold, removed[0].Status)

	found, err := c.Search(ctx, "  gol g5 ")
	require.NoError(t, err)
	assert.Empty(t, found)
	assert.Equal(t, "gol g5", gotSearchQuery.Get("q"))

	vehicle, err := c.FetchVehicle(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "Gol 1.0", vehicle.Title)

	history, err := c.FetchHistory(ctx, 7)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, 2024, history[0].ParsedTimestamp().Year())

	ack, err := c.RunScraper(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Scraping started", ack.Message)
	assert.Equal(t, http.MethodPost, gotRunMethod)

	status, err := c.FetchScraperStatus(ctx)
	require.NoError(t, err)
	assert.False(t, status.IsRunning)
	assert.True(t, status.HasRun())
	assert.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 123456000, time.UTC), status.ParsedLastRun())

	assert.True(t, strings.HasPrefix(gotUserAgent, "lotwatch/"), "User-Agent = %q", gotUserAgent)
	assert.Len(t, gotRequestID, 36)
}

func TestClient_RejectsEmptyArguments(t *testing.T) {
	c, err := NewClient(Options{BaseURL: "127.0.0.1:1"})
	require.NoError(t, err)

	_, searchErr := c.Search(context.Background(), "   ")
	_, historyErr := c.FetchHistory(context.Background(), 0)
	_, vehicleErr := c.FetchVehicle(context.Background(), -1)

	for _, err := range []error{searchErr, historyErr, vehicleErr} {
		var failure *Failure
		require.ErrorAs(t, err, &failure)
		assert.Equal(t, FailureInvalid, failure.Kind)
		assert.Contains(t, failure.Error(), "Invalid request to /vehicles")
	}
	assert.Contains(t, searchErr.Error(), "search query required")
	assert.False(t, c.Busy().Active())
}

func TestClient_ClassifiesFailures(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/vehicles/stats":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte("{not-json"))
		case "/api/scraper/run":
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"Scraper is already running"}`))
		case "/api/vehicles/recent":
			http.Error(w, "nope", http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(Options{BaseURL: server.URL})
	require.NoError(t, err)
	ctx := context.Background()

	_, err = c.FetchStats(ctx)
	var failure *Failure
	require.True(t, errors.As(err, &failure))
	assert.Equal(t, FailureMalformed, failure.Kind)
	assert.Contains(t, err.Error(), "decode response")

	_, err = c.RunScraper(ctx)
	require.True(t, errors.As(err, &failure))
	assert.Equal(t, FailureServer, failure.Kind)
	assert.Equal(t, http.StatusBadRequest, failure.StatusCode)
	assert.Equal(t, "Scraper is already running", failure.Message)
	assert.Equal(t, "Server error (400) on /scraper/run: Scraper is already running", err.Error())

	_, err = c.FetchRecent(ctx)
	require.True(t, errors.As(err, &failure))
	assert.Equal(t, FailureServer, failure.Kind)
	assert.Equal(t, "Internal Server Error", failure.Message)

	assert.False(t, c.Busy().Active(), "busy indicator must clear after failures")
}

func TestClient_NetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	addr := server.URL
	server.Close()

	c, err := NewClient(Options{BaseURL: addr, Timeout: time.Second})
	require.NoError(t, err)

	_, err = c.FetchScraperStatus(context.Background())
	var failure *Failure
	require.True(t, errors.As(err, &failure))
	assert.Equal(t, FailureNetwork, failure.Kind)
	assert.Contains(t, err.Error(), "Could not reach API")
	assert.False(t, c.Busy().Active())
}

func TestClient_HoldsBusyWhileCallInFlight(t *testing.T) {
	t.Parallel()

	busy := &Busy{}
	var activeDuringCall bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		activeDuringCall = busy.Active()
		_, _ = w.Write([]byte(`{"is_running":true,"last_run":null}`))
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(Options{BaseURL: server.URL, Busy: busy})
	require.NoError(t, err)

	status, err := c.FetchScraperStatus(context.Background())
	require.NoError(t, err)
	assert.True(t, status.IsRunning)
	assert.False(t, status.HasRun())
	assert.True(t, activeDuringCall)
	assert.False(t, c.Busy().Active())
}

func TestVehicle_ParsedLastSeen(t *testing.T) {
	v := Vehicle{LastSeen: strPtr("2024-03-02T08:09:10")}
	assert.Equal(t, time.Date(2024, 3, 2, 8, 9, 10, 0, time.UTC), v.ParsedLastSeen())

	v.LastSeen = strPtr("garbage")
	assert.True(t, v.ParsedLastSeen().IsZero())

	v.LastSeen = nil
	assert.True(t, v.ParsedLastSeen().IsZero())
}
