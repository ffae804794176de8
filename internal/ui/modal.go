package ui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/lotwatch/internal/api"
)

// Modal is the interface for overlays that capture the keyboard.
// Update returns the updated modal, a command, and whether the modal closed.
type Modal interface {
	Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool)
	View(theme Theme, width, height int) string
}

// noticeModal is a blocking error message; any key dismisses it.
type noticeModal struct {
	title string
	body  string
}

// newFailureModal describes a failed request. *api.Failure already reads as
// a sentence; anything else is shown verbatim.
func newFailureModal(err error) *noticeModal {
	title := "Request failed"
	var failure *api.Failure
	if errors.As(err, &failure) {
		switch failure.Kind {
		case api.FailureNetwork:
			title = "API unreachable"
		case api.FailureServer:
			title = "Server error"
		case api.FailureInvalid:
			title = "Invalid request"
		case api.FailureMalformed:
			title = "Unexpected response"
		}
	}
	return &noticeModal{title: title, body: err.Error()}
}

func (n *noticeModal) Update(msg tea.Msg, _ keyMap) (Modal, tea.Cmd, bool) {
	if _, ok := msg.(tea.KeyMsg); ok {
		return n, nil, true
	}
	return n, nil, false
}

func (n *noticeModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	boxWidth := clamp(width/2, 30, 72)
	content := styles.DangerText.Bold(true).Render(n.title) + "\n\n" +
		styles.Text.Width(boxWidth-6).Render(n.body) + "\n\n" +
		styles.FaintText.Render("press any key")
	box := styles.Overlay.BorderForeground(lipgloss.Color(theme.Danger)).Width(boxWidth).Render(content)
	return placeOverlay(theme, width, height, box)
}

// placeOverlay centers box on the screen.
func placeOverlay(theme Theme, width, height int, box string) string {
	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		box,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)),
	)
}

// closes reports whether msg is one of the keys that dismiss scrolling
// overlays.
func closes(msg tea.KeyMsg, keys keyMap, extra ...key.Binding) bool {
	if key.Matches(msg, keys.Escape, keys.Quit) {
		return true
	}
	for _, b := range extra {
		if key.Matches(msg, b) {
			return true
		}
	}
	return strings.EqualFold(msg.String(), "q")
}
