package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/lotwatch/internal/logging"
	"github.com/five82/lotwatch/internal/pager"
	"github.com/five82/lotwatch/internal/prefs"
	"github.com/five82/lotwatch/internal/state"
	"github.com/five82/lotwatch/internal/view"
)

// command binds a key to the handler it dispatches to. Handlers only touch
// model fields; every view change goes through a view.State transition.
type command struct {
	binding key.Binding
	run     func(m *Model) tea.Cmd
}

func (m *Model) commands() []command {
	k := m.keys
	return []command{
		{k.Quit, func(*Model) tea.Cmd { return tea.Quit }},
		{k.Help, (*Model).openHelp},

		{k.TabListing, selectTab(view.TabListing)},
		{k.TabRecent, selectTab(view.TabRecent)},
		{k.TabRemoved, selectTab(view.TabRemoved)},
		{k.NextTab, cycleTab(1)},
		{k.PrevTab, cycleTab(-1)},
		{k.CycleStatus, (*Model).cycleStatus},

		{k.FocusPrev, focusPage(-1)},
		{k.FocusNext, focusPage(1)},
		{k.Activate, (*Model).activatePage},
		{k.PreviousPage, stepPage(-1)},
		{k.NextPage, stepPage(1)},

		{k.Up, moveSelection(-1)},
		{k.Down, moveSelection(1)},
		{k.Top, moveSelection(-1 << 30)},
		{k.Bottom, moveSelection(1 << 30)},
		{k.Detail, (*Model).openDetail},

		{k.Search, (*Model).openSearch},
		{k.StartScraper, (*Model).startScraper},
		{k.Reload, (*Model).reload},
		{k.ActivityLog, (*Model).openActivity},
		{k.CycleTheme, (*Model).cycleTheme},
		{k.ToggleDense, (*Model).toggleCompact},
	}
}

// handleKey routes keyboard input: overlays first, then the search box, then
// the dispatch table.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if m.modal != nil {
		modal, cmd, closed := m.modal.Update(msg, m.keys)
		if closed {
			m.modal = nil
		} else {
			m.modal = modal
		}
		return m, cmd
	}

	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if m.searching {
		return m.handleSearchKey(msg)
	}

	m.notice = ""
	for _, c := range m.commands() {
		if key.Matches(msg, c.binding) {
			cmd := c.run(&m)
			return m, cmd
		}
	}
	return m, nil
}

// apply commits a transition and starts the load it asks for.
func (m *Model) apply(tr view.Transition, err error) tea.Cmd {
	if err != nil {
		m.log.Warn("view transition rejected", logging.Err(err))
		return nil
	}
	if tr.State != m.state {
		m.selected = 0
		m.records.GotoTop()
	}
	m.state = tr.State
	m.syncPageFocus()
	m.refreshRecords()
	return m.load(tr.Reload)
}

// load issues the fetch for r under a fresh token.
func (m *Model) load(r view.Reload) tea.Cmd {
	if m.client == nil {
		return nil
	}
	switch r {
	case view.ReloadListing:
		return fetchListingCmd(m.ctx, m.client, m.tracker.Issue(view.RegionList, m.state), m.perPage())
	case view.ReloadSearch:
		return searchCmd(m.ctx, m.client, m.tracker.Issue(view.RegionList, m.state))
	case view.ReloadRecent:
		return fetchRecentCmd(m.ctx, m.client, m.tracker.Issue(view.RegionRecent, m.state))
	case view.ReloadRemoved:
		return fetchRemovedCmd(m.ctx, m.client, m.tracker.Issue(view.RegionRemoved, m.state))
	default:
		return nil
	}
}

// loadStats fetches the counters. Stats do not depend on the view, so their
// token carries the zero State and only newer stats supersede them.
func (m *Model) loadStats() tea.Cmd {
	if m.client == nil {
		return nil
	}
	return fetchStatsCmd(m.ctx, m.client, m.tracker.Issue(view.RegionStats, view.State{}))
}

func selectTab(t view.Tab) func(*Model) tea.Cmd {
	return func(m *Model) tea.Cmd {
		return m.apply(m.state.SelectTab(t))
	}
}

func cycleTab(step int) func(*Model) tea.Cmd {
	return func(m *Model) tea.Cmd {
		return m.apply(m.state.SelectTab(view.NextTab(m.state.Tab, step)))
	}
}

func (m *Model) cycleStatus() tea.Cmd {
	return m.apply(m.state.SelectStatus(view.NextStatus(m.state.Status)))
}

// pageControls returns the controls under the listing. Search results and
// the other tabs have none.
func (m Model) pageControls() []pager.Control {
	if m.state.Tab != view.TabListing || m.state.Searching() {
		return nil
	}
	data := m.lists[view.RegionList]
	if !data.loaded {
		return nil
	}
	return pager.Build(data.current, data.pages)
}

func (m *Model) syncPageFocus() {
	m.pageFocus = pager.IndexOfCurrent(m.pageControls())
}

func focusPage(step int) func(*Model) tea.Cmd {
	return func(m *Model) tea.Cmd {
		controls := m.pageControls()
		if len(controls) == 0 {
			return nil
		}
		if m.pageFocus < 0 {
			m.pageFocus = 0
			return nil
		}
		m.pageFocus = moveFocus(controls, m.pageFocus, step)
		return nil
	}
}

func (m *Model) activatePage() tea.Cmd {
	controls := m.pageControls()
	if m.pageFocus < 0 || m.pageFocus >= len(controls) {
		return nil
	}
	c := controls[m.pageFocus]
	if !c.Activatable() {
		return nil
	}
	return m.apply(m.state.GoToPage(c.Page))
}

// stepPage moves one page from the page on screen. While a page load is in
// flight it steps from the requested page instead, so repeated presses add up.
func stepPage(delta int) func(*Model) tea.Cmd {
	return func(m *Model) tea.Cmd {
		if len(m.pageControls()) == 0 {
			return nil
		}
		data := m.lists[view.RegionList]
		from := data.current
		if m.tracker.Pending(view.RegionList) {
			from = m.state.Page
		}
		target := from + delta
		if target < 1 || target > data.pages {
			return nil
		}
		return m.apply(m.state.GoToPage(target))
	}
}

func moveSelection(delta int) func(*Model) tea.Cmd {
	return func(m *Model) tea.Cmd {
		n := len(m.visibleRecords())
		if n == 0 {
			return nil
		}
		m.selected = clamp(m.selected+delta, 0, n-1)
		m.refreshRecords()
		return nil
	}
}

func (m *Model) openDetail() tea.Cmd {
	rec, ok := m.selectedRecord()
	if !ok || m.client == nil {
		return nil
	}
	m.modal = newDetailModal(rec, m.theme, m.width, m.height)
	tok := m.tracker.Issue(view.RegionDetail, m.state)
	return fetchDetailCmd(m.ctx, m.client, tok, rec.ID)
}

func (m *Model) openHelp() tea.Cmd {
	m.showHelp = true
	return nil
}

func (m *Model) reload() tea.Cmd {
	return tea.Batch(m.loadStats(), m.load(m.state.Reload()))
}

// canStart reports whether the start command is enabled.
func (m Model) canStart() bool {
	return state.CanStart(m.phase) && !m.starting
}

// startScraper asks the API to start a run. While the run-state is unknown
// or running, or a start request is in flight, it does nothing.
func (m *Model) startScraper() tea.Cmd {
	if !m.canStart() || m.client == nil {
		return nil
	}
	m.starting = true
	m.log.Info("starting scraper")
	return runScraperCmd(m.ctx, m.client)
}

func (m *Model) openActivity() tea.Cmd {
	m.modal = newActivityModal(m.config.LogFile, m.theme, m.width, m.height)
	return readActivityCmd(m.config.LogFile)
}

func (m *Model) cycleTheme() tea.Cmd {
	m.theme = GetTheme(NextTheme(m.theme.Name))
	m.savePrefs()
	m.refreshRecords()
	return nil
}

func (m *Model) toggleCompact() tea.Cmd {
	m.compact = !m.compact
	m.savePrefs()
	m.refreshRecords()
	return nil
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name, Compact: m.compact}); err != nil {
		m.log.Warn("save prefs failed", logging.Err(err))
	}
}
