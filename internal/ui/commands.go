package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/five82/lotwatch/internal/api"
	"github.com/five82/lotwatch/internal/logtail"
	"github.com/five82/lotwatch/internal/view"
)

// Messages

type tickMsg time.Time

// recordsMsg carries a listing, search, recent or removed result. pages and
// current are only meaningful for the listing.
type recordsMsg struct {
	tok     view.Token
	records []api.Vehicle
	current int
	pages   int
	total   int
	err     error
}

type statsMsg struct {
	tok   view.Token
	stats api.Stats
	err   error
}

type detailMsg struct {
	tok     view.Token
	id      int64
	vehicle api.Vehicle
	history []api.HistoryEntry
	err     error
}

type runMsg struct {
	ack api.RunAck
	err error
}

// monitorMsg signals that the run-state store has a new snapshot.
type monitorMsg struct{}

type activityMsg struct {
	lines []string
	err   error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchListingCmd(ctx context.Context, client api.API, tok view.Token, perPage int) tea.Cmd {
	query := api.VehicleQuery{
		Page:    tok.State.Page,
		PerPage: perPage,
		Status:  string(tok.State.Status),
	}
	return func() tea.Msg {
		page, err := client.FetchVehicles(ctx, query)
		if err != nil {
			return recordsMsg{tok: tok, err: err}
		}
		current := page.CurrentPage
		if current < 1 {
			current = query.Page
		}
		return recordsMsg{tok: tok, records: page.Vehicles, current: current, pages: page.Pages, total: page.Total}
	}
}

func searchCmd(ctx context.Context, client api.API, tok view.Token) tea.Cmd {
	q := tok.State.Query
	return func() tea.Msg {
		records, err := client.Search(ctx, q)
		return recordsMsg{tok: tok, records: records, total: len(records), err: err}
	}
}

func fetchRecentCmd(ctx context.Context, client api.API, tok view.Token) tea.Cmd {
	return func() tea.Msg {
		records, err := client.FetchRecent(ctx)
		return recordsMsg{tok: tok, records: records, total: len(records), err: err}
	}
}

func fetchRemovedCmd(ctx context.Context, client api.API, tok view.Token) tea.Cmd {
	return func() tea.Msg {
		records, err := client.FetchRemoved(ctx)
		return recordsMsg{tok: tok, records: records, total: len(records), err: err}
	}
}

func fetchStatsCmd(ctx context.Context, client api.API, tok view.Token) tea.Cmd {
	return func() tea.Msg {
		stats, err := client.FetchStats(ctx)
		return statsMsg{tok: tok, stats: stats, err: err}
	}
}

// fetchDetailCmd loads the record and its history together.
func fetchDetailCmd(ctx context.Context, client api.API, tok view.Token, id int64) tea.Cmd {
	return func() tea.Msg {
		var (
			vehicle api.Vehicle
			history []api.HistoryEntry
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			vehicle, err = client.FetchVehicle(gctx, id)
			return err
		})
		g.Go(func() error {
			var err error
			history, err = client.FetchHistory(gctx, id)
			return err
		})
		if err := g.Wait(); err != nil {
			return detailMsg{tok: tok, id: id, err: err}
		}
		return detailMsg{tok: tok, id: id, vehicle: vehicle, history: history}
	}
}

func runScraperCmd(ctx context.Context, client api.API) tea.Cmd {
	return func() tea.Msg {
		ack, err := client.RunScraper(ctx)
		return runMsg{ack: ack, err: err}
	}
}

// waitForMonitor blocks until the monitor reports a poll or ctx ends.
func waitForMonitor(ctx context.Context, updates <-chan struct{}) tea.Cmd {
	if updates == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case <-updates:
			return monitorMsg{}
		case <-ctx.Done():
			return nil
		}
	}
}

func readActivityCmd(path string) tea.Cmd {
	return func() tea.Msg {
		lines, err := logtail.Read(path, ActivityLogLines)
		return activityMsg{lines: lines, err: err}
	}
}
