package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/lotwatch/internal/logging"
	"github.com/five82/lotwatch/internal/state"
	"github.com/five82/lotwatch/internal/view"
)

// discard logs a response that lost the race to a newer request or arrived
// after the user moved on. Its failure, if any, is never shown.
func (m *Model) discard(tok view.Token, err error) {
	fields := []logging.Field{
		logging.String("region", tok.Region.String()),
		logging.Int64("seq", int64(tok.Seq)),
	}
	if err != nil {
		m.log.Warn("stale request failed", append(fields, logging.Err(err))...)
		return
	}
	m.log.Debug("stale response discarded", fields...)
}

func (m *Model) handleRecords(msg recordsMsg) {
	if !m.tracker.Accept(msg.tok, m.state) {
		m.discard(msg.tok, msg.err)
		return
	}
	if msg.err != nil {
		m.modal = newFailureModal(msg.err)
		return
	}
	m.lists[msg.tok.Region] = listData{
		records: msg.records,
		current: msg.current,
		pages:   msg.pages,
		total:   msg.total,
		loaded:  true,
	}
	if msg.tok.Region == m.region() {
		m.selected = clamp(m.selected, 0, len(msg.records)-1)
	}
	m.syncPageFocus()
	m.refreshRecords()
}

func (m *Model) handleStats(msg statsMsg) {
	if !m.tracker.Accept(msg.tok, view.State{}) {
		m.discard(msg.tok, msg.err)
		return
	}
	if msg.err != nil {
		m.modal = newFailureModal(msg.err)
		return
	}
	m.stats = msg.stats
	m.statsLoaded = true
}

func (m *Model) handleDetail(msg detailMsg) {
	if !m.tracker.Accept(msg.tok, m.state) {
		m.discard(msg.tok, msg.err)
		return
	}
	d, ok := m.modal.(*detailModal)
	if !ok || d.id != msg.id {
		return
	}
	if msg.err != nil {
		m.modal = newFailureModal(msg.err)
		return
	}
	d.setData(msg.vehicle, msg.history)
}

// handleRun reports a start request. On success the monitor polls once
// out of band so the running state shows without waiting for the next tick;
// start stays disabled until that poll is reported.
func (m *Model) handleRun(msg runMsg) {
	if msg.err != nil {
		m.starting = false
		m.modal = newFailureModal(msg.err)
		return
	}
	m.notice = "Scraping started"
	if text := strings.TrimSpace(msg.ack.Message); text != "" {
		m.log.Info("scraper start acknowledged", logging.String("message", text))
	}
	if m.monitor != nil {
		m.monitor.Kick()
	}
}

// handleMonitor picks up a new run-state snapshot. When a run completes the
// data has changed underneath us, so stats and the current view reload.
func (m *Model) handleMonitor() tea.Cmd {
	if m.monitor == nil {
		return nil
	}
	prev := m.phase
	m.snapshot = m.monitor.Snapshot()
	m.phase = state.PhaseOf(m.snapshot)
	m.starting = false

	cmds := []tea.Cmd{waitForMonitor(m.ctx, m.monitor.Updates())}
	if state.Finished(prev, m.phase) {
		m.log.Info("scraper run finished, reloading")
		cmds = append(cmds, m.loadStats(), m.load(m.state.Reload()))
	}
	return tea.Batch(cmds...)
}
