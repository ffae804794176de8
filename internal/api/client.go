package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/five82/lotwatch/internal/logging"
)

// API is the full surface of the monitor API used by the dashboard. *Client
// implements it; tests substitute fakes.
type API interface {
	FetchStats(ctx context.Context) (Stats, error)
	FetchVehicles(ctx context.Context, query VehicleQuery) (VehiclePage, error)
	FetchRecent(ctx context.Context) ([]Vehicle, error)
	FetchRemoved(ctx context.Context) ([]Vehicle, error)
	Search(ctx context.Context, q string) ([]Vehicle, error)
	FetchVehicle(ctx context.Context, id int64) (Vehicle, error)
	FetchHistory(ctx context.Context, id int64) ([]HistoryEntry, error)
	RunScraper(ctx context.Context) (RunAck, error)
	FetchScraperStatus(ctx context.Context) (ScraperStatus, error)
	Busy() *Busy
}

// Ensure Client implements API at compile time.
var _ API = (*Client)(nil)

// Client talks to the monitor HTTP API under <base>/api.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	busy      *Busy
	log       logging.Logger
}

// Options configure a Client.
type Options struct {
	BaseURL string
	Timeout time.Duration
	Logger  logging.Logger
	// Busy lets several clients share one indicator; nil allocates a new one.
	Busy *Busy
}

const (
	defaultBaseURL   = "http://127.0.0.1:5000"
	defaultUserAgent = "lotwatch/0.1"
	defaultTimeout   = 10 * time.Second
	apiPrefix        = "/api"

	// DefaultPerPage matches the page size the API assumes when none is sent.
	DefaultPerPage = 20
)

// NewClient builds a Client for the API rooted at opts.BaseURL.
func NewClient(opts Options) (*Client, error) {
	base, err := parseBaseURL(opts.BaseURL)
	if err != nil {
		return nil, err
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	log := opts.Logger
	if log == nil {
		log = logging.NewNop()
	}
	busy := opts.Busy
	if busy == nil {
		busy = &Busy{}
	}
	return &Client{
		baseURL:   base,
		http:      &http.Client{Timeout: timeout},
		userAgent: defaultUserAgent,
		busy:      busy,
		log:       log.With(logging.String("component", "api")),
	}, nil
}

// Busy returns the indicator held while calls are outstanding.
func (c *Client) Busy() *Busy {
	return c.busy
}

// FetchStats retrieves aggregate counts.
func (c *Client) FetchStats(ctx context.Context) (Stats, error) {
	var payload Stats
	if err := c.Call(ctx, http.MethodGet, "/vehicles/stats", nil, &payload); err != nil {
		return Stats{}, err
	}
	return payload, nil
}

// VehicleQuery configures /api/vehicles requests.
type VehicleQuery struct {
	Page    int
	PerPage int
	Status  string
	Brand   string
	Model   string
}

func (q VehicleQuery) values() url.Values {
	values := url.Values{}
	page := q.Page
	if page < 1 {
		page = 1
	}
	values.Set("page", strconv.Itoa(page))
	perPage := q.PerPage
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	values.Set("per_page", strconv.Itoa(perPage))
	if status := strings.TrimSpace(q.Status); status != "" {
		values.Set("status", status)
	}
	if brand := strings.TrimSpace(q.Brand); brand != "" {
		values.Set("brand", brand)
	}
	if model := strings.TrimSpace(q.Model); model != "" {
		values.Set("model", model)
	}
	return values
}

// FetchVehicles retrieves one page of the listing.
func (c *Client) FetchVehicles(ctx context.Context, query VehicleQuery) (VehiclePage, error) {
	var payload VehiclePage
	if err := c.Call(ctx, http.MethodGet, "/vehicles", query.values(), &payload); err != nil {
		return VehiclePage{}, err
	}
	return payload, nil
}

// FetchRecent retrieves records first seen in the last day.
func (c *Client) FetchRecent(ctx context.Context) ([]Vehicle, error) {
	var payload []Vehicle
	if err := c.Call(ctx, http.MethodGet, "/vehicles/recent", nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// FetchRemoved retrieves records sold or removed in the last day.
func (c *Client) FetchRemoved(ctx context.Context) ([]Vehicle, error) {
	var payload []Vehicle
	if err := c.Call(ctx, http.MethodGet, "/vehicles/removed", nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// Search runs a free-text search across title, brand and model.
func (c *Client) Search(ctx context.Context, q string) ([]Vehicle, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, invalid("/vehicles/search", "search query required")
	}
	values := url.Values{}
	values.Set("q", q)
	var payload []Vehicle
	if err := c.Call(ctx, http.MethodGet, "/vehicles/search", values, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// FetchVehicle retrieves a single record.
func (c *Client) FetchVehicle(ctx context.Context, id int64) (Vehicle, error) {
	if id <= 0 {
		return Vehicle{}, invalid("/vehicles/<id>", "vehicle id required")
	}
	var payload Vehicle
	if err := c.Call(ctx, http.MethodGet, "/vehicles/"+strconv.FormatInt(id, 10), nil, &payload); err != nil {
		return Vehicle{}, err
	}
	return payload, nil
}

// FetchHistory retrieves the change history of a record, newest first.
func (c *Client) FetchHistory(ctx context.Context, id int64) ([]HistoryEntry, error) {
	if id <= 0 {
		return nil, invalid("/vehicles/history/<id>", "vehicle id required")
	}
	var payload []HistoryEntry
	if err := c.Call(ctx, http.MethodGet, "/vehicles/history/"+strconv.FormatInt(id, 10), nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// RunScraper asks the API to start a scraping cycle.
func (c *Client) RunScraper(ctx context.Context) (RunAck, error) {
	var payload RunAck
	if err := c.Call(ctx, http.MethodPost, "/scraper/run", nil, &payload); err != nil {
		return RunAck{}, err
	}
	return payload, nil
}

// FetchScraperStatus retrieves the run-state of the scraping job.
func (c *Client) FetchScraperStatus(ctx context.Context) (ScraperStatus, error) {
	var payload ScraperStatus
	if err := c.Call(ctx, http.MethodGet, "/scraper/status", nil, &payload); err != nil {
		return ScraperStatus{}, err
	}
	return payload, nil
}

// Call performs one request against endpoint (relative to /api) and decodes
// the JSON body into dest when dest is non-nil. Every error it returns is a
// *Failure. The busy indicator is held for the duration of the call.
func (c *Client) Call(ctx context.Context, method, endpoint string, query url.Values, dest any) error {
	release := c.busy.Acquire()
	defer release()

	requestID := uuid.NewString()
	started := time.Now()
	err := c.call(ctx, method, endpoint, query, requestID, dest)

	fields := []logging.Field{
		logging.String("method", method),
		logging.String("endpoint", endpoint),
		logging.String("request_id", requestID),
		logging.Duration("elapsed", time.Since(started)),
	}
	if err != nil {
		var failure *Failure
		if errors.As(err, &failure) {
			fields = append(fields, logging.String("kind", failure.Kind.String()), logging.Int("status", failure.StatusCode))
		}
		c.log.Warn("api call failed", append(fields, logging.Err(err))...)
		return err
	}
	c.log.Debug("api call", fields...)
	return nil
}

func (c *Client) call(ctx context.Context, method, endpoint string, query url.Values, requestID string, dest any) error {
	reqURL := c.resolve(endpoint, query)
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), nil)
	if err != nil {
		return &Failure{Kind: FailureNetwork, Endpoint: endpoint, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		return &Failure{Kind: FailureNetwork, Endpoint: endpoint, Err: fmt.Errorf("execute request: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return serverFailure(endpoint, resp)
	}
	if dest == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return &Failure{
			Kind:       FailureMalformed,
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("decode response: %w", err),
		}
	}
	return nil
}

func (c *Client) resolve(endpoint string, query url.Values) *url.URL {
	u := *c.baseURL
	u.RawPath = ""
	u.Path = strings.TrimRight(c.baseURL.Path, "/") + apiPrefix + "/" + strings.TrimLeft(endpoint, "/")
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return &u
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = defaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api url %q: missing host", raw)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
