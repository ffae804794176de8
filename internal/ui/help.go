package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

var helpTitles = []string{"Tabs", "Pages", "Records", "Search", "Scraper", "General"}

// renderHelp renders the help overlay from the key map.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Keyboard Shortcuts"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 30)))
	b.WriteString("\n\n")

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.Warning)).
		Width(12)

	groups := m.keys.FullHelp()
	for i, group := range groups {
		title := ""
		if i < len(helpTitles) {
			title = helpTitles[i]
		}
		b.WriteString(styles.AccentText.Bold(true).Render(title))
		b.WriteString("\n")
		for _, binding := range group {
			b.WriteString(helpLine(binding, keyStyle, styles))
		}
		if i < len(groups)-1 {
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render("Themes: " + strings.Join(ThemeNames(), ", ") + " (current " + m.theme.Name + ")"))
	if !m.canStart() {
		b.WriteString("\n")
		b.WriteString(styles.FaintText.Render("Start is unavailable until the scraper is idle."))
	}

	box := styles.Overlay.BorderForeground(lipgloss.Color(m.theme.Accent)).Width(48).Render(b.String())
	return placeOverlay(m.theme, m.width, m.height, box)
}

func helpLine(b key.Binding, keyStyle lipgloss.Style, styles Styles) string {
	h := b.Help()
	return keyStyle.Render(h.Key) + styles.Text.Render(h.Desc) + "\n"
}
