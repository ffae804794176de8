package view

import (
	"errors"
	"fmt"
	"strings"
)

// Tab identifies the visible section of the dashboard.
type Tab string

const (
	TabListing Tab = "listing"
	TabRecent  Tab = "recent"
	TabRemoved Tab = "removed"
)

// Tabs lists the sections in display order.
var Tabs = []Tab{TabListing, TabRecent, TabRemoved}

// Label returns the tab title.
func (t Tab) Label() string {
	switch t {
	case TabListing:
		return "Vehicles"
	case TabRecent:
		return "Recent"
	case TabRemoved:
		return "Removed"
	default:
		return string(t)
	}
}

// Status is the listing status filter. Values match the API's status strings.
type Status string

const (
	StatusActive  Status = "active"
	StatusSold    Status = "sold"
	StatusRemoved Status = "removed"
)

// Statuses lists the filter values in cycle order.
var Statuses = []Status{StatusActive, StatusSold, StatusRemoved}

// Label returns the filter title.
func (s Status) Label() string {
	switch s {
	case StatusActive:
		return "Active"
	case StatusSold:
		return "Sold"
	case StatusRemoved:
		return "Removed"
	default:
		return string(s)
	}
}

var (
	ErrUnknownTab    = errors.New("unknown tab")
	ErrUnknownStatus = errors.New("unknown status filter")
	ErrInvalidPage   = errors.New("page must be a positive integer")
)

// Reload names the data that must be fetched after a transition.
type Reload int

const (
	ReloadNone Reload = iota
	ReloadListing
	ReloadSearch
	ReloadRecent
	ReloadRemoved
)

func (r Reload) String() string {
	switch r {
	case ReloadListing:
		return "listing"
	case ReloadSearch:
		return "search"
	case ReloadRecent:
		return "recent"
	case ReloadRemoved:
		return "removed"
	default:
		return "none"
	}
}

// State is the set of coordinates describing what the screen shows. It is a
// comparable value; transitions return a new State and never modify the
// receiver. A non-empty Query means search mode, in which pagination is not
// shown and Status is ignored by the API.
type State struct {
	Tab    Tab
	Status Status
	Page   int
	Query  string
}

// Transition is the result of applying a user action to a State.
type Transition struct {
	State  State
	Reload Reload
}

// Initial returns the state shown on startup: first page of active listings.
func Initial() State {
	return State{Tab: TabListing, Status: StatusActive, Page: 1}
}

// Searching reports whether the state is in search mode.
func (s State) Searching() bool {
	return s.Query != ""
}

// Reload returns the load that displays s from scratch.
func (s State) Reload() Reload {
	switch s.Tab {
	case TabRecent:
		return ReloadRecent
	case TabRemoved:
		return ReloadRemoved
	}
	if s.Searching() {
		return ReloadSearch
	}
	return ReloadListing
}

// SelectTab switches section. Search is cleared and the page resets to 1.
func (s State) SelectTab(tab Tab) (Transition, error) {
	if !validTab(tab) {
		return Transition{State: s}, fmt.Errorf("%w: %q", ErrUnknownTab, tab)
	}
	next := s
	next.Tab = tab
	next.Query = ""
	next.Page = 1
	return Transition{State: next, Reload: next.Reload()}, nil
}

// SelectStatus changes the listing filter. Outside the listing tab the filter
// has no visible effect, so the state is returned unchanged with no reload.
func (s State) SelectStatus(status Status) (Transition, error) {
	if !validStatus(status) {
		return Transition{State: s}, fmt.Errorf("%w: %q", ErrUnknownStatus, status)
	}
	if s.Tab != TabListing {
		return Transition{State: s, Reload: ReloadNone}, nil
	}
	next := s
	next.Status = status
	next.Query = ""
	next.Page = 1
	return Transition{State: next, Reload: ReloadListing}, nil
}

// GoToPage moves the listing to page n. There is no upper bound; a page past
// the end comes back empty from the API.
func (s State) GoToPage(n int) (Transition, error) {
	if n < 1 {
		return Transition{State: s}, fmt.Errorf("%w: %d", ErrInvalidPage, n)
	}
	next := s
	next.Tab = TabListing
	next.Query = ""
	next.Page = n
	return Transition{State: next, Reload: ReloadListing}, nil
}

// SetSearch enters search mode for a non-blank query, or leaves it and falls
// back to the listing under the current filter and page. Search lives on the
// listing tab; coming from another tab starts the listing at page 1.
func (s State) SetSearch(query string) Transition {
	query = strings.TrimSpace(query)
	next := s
	if next.Tab != TabListing {
		next.Tab = TabListing
		next.Page = 1
	}
	next.Query = query
	if query == "" {
		return Transition{State: next, Reload: ReloadListing}
	}
	return Transition{State: next, Reload: ReloadSearch}
}

// NextTab returns the tab after t, wrapping around. Negative steps go back.
func NextTab(t Tab, step int) Tab {
	return Tabs[cycleIndex(indexOf(Tabs, t), step, len(Tabs))]
}

// NextStatus returns the filter after st in cycle order.
func NextStatus(st Status) Status {
	return Statuses[cycleIndex(indexOf(Statuses, st), 1, len(Statuses))]
}

func cycleIndex(idx, step, n int) int {
	if idx < 0 {
		return 0
	}
	return ((idx+step)%n + n) % n
}

func indexOf[T comparable](values []T, v T) int {
	for i, candidate := range values {
		if candidate == v {
			return i
		}
	}
	return -1
}

func validTab(t Tab) bool {
	return indexOf(Tabs, t) >= 0
}

func validStatus(s Status) bool {
	return indexOf(Statuses, s) >= 0
}
