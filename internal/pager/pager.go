// Package pager builds the page controls shown under the listing.
package pager

import "strconv"

// Kind distinguishes the control types.
type Kind int

const (
	KindPrev Kind = iota
	KindPage
	KindNext
)

// Window is how many numbered pages are shown on each side of the current one.
const Window = 2

// Control is one navigable page control. Page is the page it leads to.
type Control struct {
	Kind    Kind
	Page    int
	Current bool
}

// Label returns the text drawn for the control.
func (c Control) Label() string {
	switch c.Kind {
	case KindPrev:
		return "‹ Prev"
	case KindNext:
		return "Next ›"
	default:
		return strconv.Itoa(c.Page)
	}
}

// Activatable reports whether selecting the control changes page.
func (c Control) Activatable() bool {
	return !c.Current
}

// Build returns the controls for current out of total pages: an optional
// previous control, up to 2*Window+1 numbered pages centred on current, and an
// optional next control. Near either end the numbered window slides inward so
// it keeps its width instead of being cut off. One page or fewer yields none.
func Build(current, total int) []Control {
	if total <= 1 {
		return nil
	}
	controls := make([]Control, 0, 2*Window+3)
	if current > 1 {
		controls = append(controls, Control{Kind: KindPrev, Page: current - 1})
	}
	first, last := window(current, total)
	for p := first; p <= last; p++ {
		controls = append(controls, Control{Kind: KindPage, Page: p, Current: p == current})
	}
	if current < total {
		controls = append(controls, Control{Kind: KindNext, Page: current + 1})
	}
	return controls
}

func window(current, total int) (first, last int) {
	size := min(2*Window+1, total)
	first = max(1, current-Window)
	last = first + size - 1
	if last > total {
		last = total
		first = last - size + 1
	}
	return first, last
}

// IndexOfCurrent returns the index of the current page control, or -1.
func IndexOfCurrent(controls []Control) int {
	for i, c := range controls {
		if c.Current {
			return i
		}
	}
	return -1
}
