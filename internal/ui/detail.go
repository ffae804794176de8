package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/five82/lotwatch/internal/api"
)

// detailModal shows one vehicle with its change history.
type detailModal struct {
	id       int64
	vehicle  api.Vehicle
	history  []api.HistoryEntry
	loading  bool
	viewport viewport.Model
	theme    Theme
}

// newDetailModal opens the overlay using the list record until the full
// record arrives.
func newDetailModal(v api.Vehicle, theme Theme, width, height int) *detailModal {
	d := &detailModal{id: v.ID, vehicle: v, loading: true, theme: theme}
	d.viewport = viewport.New(0, 0)
	d.resize(width, height)
	return d
}

func (d *detailModal) setData(v api.Vehicle, history []api.HistoryEntry) {
	d.vehicle = v
	d.history = history
	d.loading = false
	d.refresh()
}

func (d *detailModal) resize(width, height int) {
	d.viewport.Width = clamp(width-10, 20, 100)
	d.viewport.Height = max(height-8, 3)
	d.refresh()
}

func (d *detailModal) refresh() {
	d.viewport.SetContent(d.content(d.theme.Styles(), time.Now()))
}

func (d *detailModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return d, nil, false
	}
	if closes(km, keys, keys.Detail) {
		return d, nil, true
	}
	var cmd tea.Cmd
	d.viewport, cmd = d.viewport.Update(km)
	return d, cmd, false
}

func (d *detailModal) View(theme Theme, width, height int) string {
	if theme.Name != d.theme.Name {
		d.theme = theme
		d.refresh()
	}
	box := theme.Styles().Overlay.Width(d.viewport.Width + 4).Render(d.viewport.View())
	return placeOverlay(theme, width, height, box)
}

func (d *detailModal) content(styles Styles, now time.Time) string {
	v := d.vehicle
	var b strings.Builder

	b.WriteString(styles.Text.Bold(true).Render(strings.TrimSpace(v.Title)))
	b.WriteString("\n")
	if present(v.Price) {
		b.WriteString(styles.SuccessText.Render(strings.TrimSpace(*v.Price)))
		b.WriteString("\n")
	}
	if facts := vehicleFacts(v); len(facts) > 0 {
		b.WriteString(styles.Text.Render(strings.Join(facts, " · ")))
		b.WriteString("\n")
	}
	if present(v.Location) {
		b.WriteString(styles.MutedText.Render(strings.TrimSpace(*v.Location)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	rows := [][2]string{}
	if v.Status != "" {
		rows = append(rows, [2]string{"Status", styles.StatusStyle(v.Status).Render(statusLabel(v.Status))})
	}
	if v.ExternalID != "" {
		rows = append(rows, [2]string{"Listing", v.ExternalID})
	}
	if v.URL != "" {
		rows = append(rows, [2]string{"URL", styles.InfoText.Render(v.URL)})
	}
	if t := v.ParsedFirstSeen(); !t.IsZero() {
		rows = append(rows, [2]string{"First seen", timeWithAge(t, now)})
	}
	if t := v.ParsedLastSeen(); !t.IsZero() {
		rows = append(rows, [2]string{"Last seen", timeWithAge(t, now)})
	}
	for _, r := range rows {
		b.WriteString(styles.MutedText.Width(12).Render(r[0]))
		b.WriteString(r[1])
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.AccentText.Bold(true).Render("History"))
	b.WriteString("\n")
	switch {
	case d.loading:
		b.WriteString(styles.FaintText.Render("Loading…"))
	case len(d.history) == 0:
		b.WriteString(styles.FaintText.Render("No history recorded"))
	default:
		for _, h := range d.history {
			b.WriteString(historyLine(h, styles, now))
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func historyLine(h api.HistoryEntry, styles Styles, now time.Time) string {
	when := "unknown time"
	if t := h.ParsedTimestamp(); !t.IsZero() {
		when = t.Local().Format("2006-01-02 15:04") + " (" + humanize.RelTime(t, now, "ago", "from now") + ")"
	}
	line := styles.FaintText.Render(when) + "  " + styles.WarningText.Render(strings.ToUpper(h.Action))
	if h.Changes != nil && strings.TrimSpace(*h.Changes) != "" {
		line += "  " + styles.Text.Render(truncate(*h.Changes, 80))
	}
	return line
}

func timeWithAge(t, now time.Time) string {
	return fmt.Sprintf("%s (%s)", t.Local().Format("2006-01-02 15:04"), humanize.RelTime(t, now, "ago", "from now"))
}
