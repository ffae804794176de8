package ui

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/lotwatch/internal/api"
	"github.com/five82/lotwatch/internal/state"
)

// fakeAPI serves canned vehicles and records what was asked of it.
type fakeAPI struct {
	mu    sync.Mutex
	busy  api.Busy
	pages int

	listErr   error
	failPage  int
	searchErr error
	runErr    error

	queries  []api.VehicleQuery
	searches []string
	runs     int
}

func (f *fakeAPI) Busy() *api.Busy { return &f.busy }

func (f *fakeAPI) FetchStats(context.Context) (api.Stats, error) {
	return api.Stats{TotalActive: 120, TotalSold: 30, TotalRemoved: 12, AddedLast24h: 5, RemovedLast24h: 2}, nil
}

func (f *fakeAPI) FetchVehicles(_ context.Context, q api.VehicleQuery) (api.VehiclePage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	if f.listErr != nil {
		return api.VehiclePage{}, f.listErr
	}
	if f.failPage != 0 && q.Page == f.failPage {
		return api.VehiclePage{}, &api.Failure{Kind: api.FailureServer, Endpoint: "/vehicles", StatusCode: 500, Message: "boom"}
	}
	pages := f.pages
	if pages == 0 {
		pages = 10
	}
	return api.VehiclePage{
		Vehicles:    []api.Vehicle{vehicle(int64(q.Page*100+1), fmt.Sprintf("%s car on page %d", q.Status, q.Page))},
		CurrentPage: q.Page,
		Pages:       pages,
		Total:       pages * 20,
	}, nil
}

func (f *fakeAPI) FetchRecent(context.Context) ([]api.Vehicle, error) {
	return []api.Vehicle{vehicle(7, "Recent Fiat Uno")}, nil
}

func (f *fakeAPI) FetchRemoved(context.Context) ([]api.Vehicle, error) {
	return []api.Vehicle{vehicle(8, "Removed VW Gol")}, nil
}

func (f *fakeAPI) Search(_ context.Context, q string) ([]api.Vehicle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searches = append(f.searches, q)
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return []api.Vehicle{vehicle(9, "Honda Civic EXL "+q)}, nil
}

func (f *fakeAPI) FetchVehicle(_ context.Context, id int64) (api.Vehicle, error) {
	v := vehicle(id, "Full record")
	return v, nil
}

func (f *fakeAPI) FetchHistory(_ context.Context, id int64) ([]api.HistoryEntry, error) {
	changes := `{"price": "R$ 90.000"}`
	ts := "2024-05-01T10:00:00"
	return []api.HistoryEntry{{ID: 1, VehicleID: id, Action: "price_changed", Changes: &changes, Timestamp: &ts}}, nil
}

func (f *fakeAPI) RunScraper(context.Context) (api.RunAck, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.runs++
	if f.runErr != nil {
		return api.RunAck{}, f.runErr
	}
	return api.RunAck{Message: "Scraping started"}, nil
}

func (f *fakeAPI) FetchScraperStatus(context.Context) (api.ScraperStatus, error) {
	return api.ScraperStatus{}, errors.New("not used by the ui")
}

// fakeMonitor hands out a fixed snapshot. Its update channel is closed so a
// waitForMonitor command returns at once instead of blocking the test.
type fakeMonitor struct {
	snap    state.Snapshot
	kicks   int
	updates chan struct{}
}

func newFakeMonitor() *fakeMonitor {
	ch := make(chan struct{})
	close(ch)
	return &fakeMonitor{updates: ch}
}

func (f *fakeMonitor) Snapshot() state.Snapshot { return f.snap }
func (f *fakeMonitor) Kick()                    { f.kicks++ }
func (f *fakeMonitor) Updates() <-chan struct{} { return f.updates }

func (f *fakeMonitor) set(status api.ScraperStatus) {
	f.snap = state.Snapshot{Status: status, HasStatus: true}
}

func vehicle(id int64, title string) api.Vehicle {
	price := "R$ 85.900"
	brand := "Honda"
	year := 2020
	return api.Vehicle{ID: id, Title: title, Price: &price, Brand: &brand, Year: &year, Status: "active", URL: "https://example.com/v"}
}

func newTestModel(t *testing.T, client *fakeAPI, mon *fakeMonitor) Model {
	t.Helper()
	m := New(Options{
		Client:    client,
		Monitor:   mon,
		PrefsPath: t.TempDir() + "/prefs.toml",
	})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(Model)
}

// keyMsg builds the tea.KeyMsg for a key name as bubbles/key reports it.
func keyMsg(name string) tea.KeyMsg {
	switch name {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "ctrl+u":
		return tea.KeyMsg{Type: tea.KeyCtrlU}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(name)}
	}
}

func press(t *testing.T, m Model, name string) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(keyMsg(name))
	return next.(Model), cmd
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	for _, r := range text {
		m, _ = press(t, m, string(r))
	}
	return m
}

// collect runs cmd and any batch it expands to, returning the messages the
// data commands produce. Timer-driven commands are not part of these tests.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	switch msg := msg.(type) {
	case nil:
		return nil
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range msg {
			out = append(out, collect(c)...)
		}
		return out
	default:
		return []tea.Msg{msg}
	}
}

// deliver feeds msgs back into the model, ignoring the commands they return.
func deliver(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

// run collects cmd's messages and delivers them.
func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	return deliver(t, m, collect(cmd)...)
}

func windowSize(w, h int) tea.WindowSizeMsg {
	return tea.WindowSizeMsg{Width: w, Height: h}
}
