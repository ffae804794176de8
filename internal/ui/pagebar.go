package ui

import (
	"fmt"
	"strings"

	"github.com/five82/lotwatch/internal/pager"
)

// renderPageBar draws the page controls. focus is the index of the control
// that enter would activate; the current page is drawn as inert.
func renderPageBar(controls []pager.Control, focus int, total int, styles Styles) string {
	if len(controls) == 0 {
		return ""
	}
	parts := make([]string, 0, len(controls)+1)
	for i, c := range controls {
		label := " " + c.Label() + " "
		switch {
		case i == focus:
			parts = append(parts, styles.Focused.Render(label))
		case c.Current:
			parts = append(parts, styles.AccentText.Bold(true).Render(label))
		default:
			parts = append(parts, styles.MutedText.Render(label))
		}
	}
	parts = append(parts, styles.FaintText.Render(fmt.Sprintf("  %d pages", total)))
	return strings.Join(parts, "")
}

// moveFocus steps the focused control, staying within bounds.
func moveFocus(controls []pager.Control, focus, step int) int {
	if len(controls) == 0 {
		return 0
	}
	return clamp(focus+step, 0, len(controls)-1)
}
