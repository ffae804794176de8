package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/lotwatch/internal/logtail"
)

// activityModal shows the tail of lotwatch's own log file.
type activityModal struct {
	path     string
	entries  []logtail.Entry
	err      error
	follow   bool
	viewport viewport.Model
	theme    Theme
}

func newActivityModal(path string, theme Theme, width, height int) *activityModal {
	a := &activityModal{path: path, follow: true, theme: theme}
	a.viewport = viewport.New(0, 0)
	a.resize(width, height)
	return a
}

func (a *activityModal) resize(width, height int) {
	a.viewport.Width = max(width-8, 20)
	a.viewport.Height = max(height-8, 3)
	a.refresh()
}

// setLines replaces the visible entries with a fresh read of the file.
func (a *activityModal) setLines(lines []string, err error) {
	a.err = err
	if err == nil {
		a.entries = a.entries[:0]
		for _, l := range lines {
			a.entries = append(a.entries, logtail.Parse(l))
		}
	}
	a.refresh()
}

func (a *activityModal) refresh() {
	a.viewport.SetContent(a.content(a.theme.Styles()))
	if a.follow {
		a.viewport.GotoBottom()
	}
}

func (a *activityModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return a, nil, false
	}
	if closes(km, keys, keys.ActivityLog) {
		return a, nil, true
	}
	var cmd tea.Cmd
	a.viewport, cmd = a.viewport.Update(km)
	a.follow = a.viewport.AtBottom()
	return a, cmd, false
}

func (a *activityModal) View(theme Theme, width, height int) string {
	if theme.Name != a.theme.Name {
		a.theme = theme
		a.refresh()
	}
	styles := theme.Styles()
	title := styles.AccentText.Bold(true).Render("Activity") + "  " +
		styles.FaintText.Render(truncateMiddle(a.path, max(a.viewport.Width-12, 10)))
	box := styles.Overlay.Padding(0, 1).Width(a.viewport.Width + 2).
		Render(title + "\n" + a.viewport.View())
	return placeOverlay(theme, width, height, box)
}

func (a *activityModal) content(styles Styles) string {
	if a.err != nil {
		return styles.DangerText.Render(a.err.Error())
	}
	if len(a.entries) == 0 {
		return styles.FaintText.Render("No activity yet")
	}
	lines := make([]string, len(a.entries))
	for i, e := range a.entries {
		lines[i] = levelStyle(e.Level, styles).Render(truncate(e.String(), a.viewport.Width))
	}
	return strings.Join(lines, "\n")
}

func levelStyle(level string, styles Styles) lipgloss.Style {
	switch level {
	case "ERROR", "DPANIC", "PANIC", "FATAL":
		return styles.DangerText
	case "WARN":
		return styles.WarningText
	case "DEBUG":
		return styles.FaintText
	default:
		return styles.Text
	}
}
