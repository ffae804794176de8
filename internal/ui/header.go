package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/five82/lotwatch/internal/api"
	"github.com/five82/lotwatch/internal/state"
	"github.com/five82/lotwatch/internal/view"
)

// renderHeader renders the status bar: stats, scraper run-state, poll health.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < LayoutCompactWidth

	parts := []string{bg.Render("lotwatch", styles.Logo)}
	parts = append(parts, m.renderStats(styles, bg, compact))
	parts = append(parts, m.renderRunState(styles, bg))

	if m.busy.Active() {
		spin := bg.Render(m.spinner.View(), styles.AccentText)
		if n := m.busy.Outstanding(); n > 1 {
			spin += bg.Space() + bg.Render(fmt.Sprintf("%d requests", n), styles.FaintText)
		}
		parts = append(parts, spin)
	}

	if err := m.snapshot.LastError; err != nil {
		label := classifyConnectionError(err)
		msg := bg.Render(label, styles.DangerText)
		if label == "ERROR" {
			limit := 80
			if compact {
				limit = 40
			}
			msg += bg.Space() + bg.Render(truncate(failureMessage(err), limit), styles.DangerText)
		}
		if m.snapshot.IsOffline() {
			msg += bg.Space() + bg.Render(fmt.Sprintf("(%d failed polls)", m.snapshot.ConsecutiveFailures), styles.WarningText)
		}
		parts = append(parts, msg)
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
}

func (m Model) renderStats(styles Styles, bg BgStyle, compact bool) string {
	if !m.statsLoaded {
		return bg.Render("…", styles.FaintText)
	}
	s := m.stats
	active := "Active"
	sold := "Sold"
	removed := "Removed"
	if compact {
		active, sold, removed = "A", "S", "R"
	}
	dot := bg.Space() + bg.Render("•", styles.FaintText) + bg.Space()
	out := bg.Label(active+":", humanize.Comma(int64(s.TotalActive)), styles.MutedText, styles.SuccessText) + dot +
		bg.Label(sold+":", humanize.Comma(int64(s.TotalSold)), styles.MutedText, styles.InfoText) + dot +
		bg.Label(removed+":", humanize.Comma(int64(s.TotalRemoved)), styles.MutedText, styles.DangerText)
	if !compact {
		out += dot + bg.Label("24h:", fmt.Sprintf("+%d/-%d", s.AddedLast24h, s.RemovedLast24h), styles.MutedText, styles.Text)
	}
	return out
}

// renderRunState shows the scraper phase and whether start is available.
func (m Model) renderRunState(styles Styles, bg BgStyle) string {
	switch m.phase {
	case state.PhaseRunning:
		return bg.Render("● Scraping…", styles.WarningText.Bold(true))
	case state.PhaseIdleCompleted:
		text := "Last run " + strings.TrimSpace(*m.snapshot.Status.LastRun)
		if last := m.snapshot.LastRun(); !last.IsZero() {
			text = "Last run " + humanize.RelTime(last, m.now(), "ago", "from now")
		}
		if res := strings.TrimSpace(m.snapshot.Status.LastResultText()); res != "" {
			text += " · " + truncate(res, 40)
		}
		return bg.Render("○ Idle", styles.SuccessText) + bg.Space() + bg.Render(text, styles.MutedText)
	case state.PhaseIdleNeverRun:
		return bg.Render("○ Idle", styles.SuccessText) + bg.Space() + bg.Render("never run", styles.MutedText)
	default:
		if m.snapshot.Polls > 0 {
			return bg.Render("Run state unknown", styles.WarningText)
		}
		return bg.Render("Connecting…", styles.WarningText)
	}
}

// classifyConnectionError returns a short description of a poll failure.
func classifyConnectionError(err error) string {
	if err == nil {
		return ""
	}
	var failure *api.Failure
	if errors.As(err, &failure) && failure.Kind != api.FailureNetwork {
		return "ERROR"
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"):
		return "API OFFLINE"
	case strings.Contains(msg, "no such host"):
		return "HOST NOT FOUND"
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline exceeded"):
		return "TIMEOUT"
	default:
		return "API unreachable"
	}
}

func failureMessage(err error) string {
	var failure *api.Failure
	if errors.As(err, &failure) && failure.Message != "" {
		return failure.Message
	}
	return err.Error()
}

// renderTabBar renders the tabs, the status filter and the search box.
func (m Model) renderTabBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	var tabs []string
	for i, t := range view.Tabs {
		label := fmt.Sprintf(" %d %s ", i+1, t.Label())
		if t == m.state.Tab {
			tabs = append(tabs, styles.Selected.Bold(true).Render(label))
		} else {
			tabs = append(tabs, bg.Render(label, styles.MutedText))
		}
	}
	parts := []string{strings.Join(tabs, bg.Space())}

	if m.state.Tab == view.TabListing {
		filter := bg.Label("f", m.state.Status.Label(), styles.AccentText, styles.StatusStyle(string(m.state.Status)))
		parts = append(parts, filter)
	}

	switch {
	case m.searching:
		parts = append(parts, bg.Render("/", styles.AccentText)+m.search.View())
	case m.state.Searching():
		parts = append(parts, bg.Label("Search:", fmt.Sprintf("%q", m.state.Query), styles.MutedText, styles.AccentText))
	}

	if info := m.listSummary(); info != "" {
		parts = append(parts, bg.Render(info, styles.FaintText))
	}
	if m.tracker.Pending(m.region()) {
		parts = append(parts, bg.Render("updating…", styles.WarningText))
	}

	return lipgloss.NewStyle().Background(lipgloss.Color(m.theme.Surface)).Width(m.width).
		Render(bg.Join(parts, "   "))
}

// listSummary describes the visible list, e.g. "Page 2/9 · 175 vehicles".
func (m Model) listSummary() string {
	data, ok := m.lists[m.region()]
	if !ok || !data.loaded {
		return ""
	}
	noun := "vehicles"
	if data.total == 1 {
		noun = "vehicle"
	}
	if m.state.Tab == view.TabListing && !m.state.Searching() && data.pages > 0 {
		return fmt.Sprintf("Page %d/%d · %s %s", data.current, data.pages, humanize.Comma(int64(data.total)), noun)
	}
	return fmt.Sprintf("%s %s", humanize.Comma(int64(data.total)), noun)
}

// renderFooter renders the short key help, or why start is unavailable.
func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	line := m.help.View(m.keys)
	if m.notice != "" {
		line = styles.SuccessText.Render(m.notice) + "  " + line
	}
	return styles.Footer.Width(m.width).Render(line)
}

func (m Model) now() time.Time {
	if m.clock != nil {
		return m.clock()
	}
	return time.Now()
}
