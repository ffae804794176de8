// Package view holds the dashboard's view state and the rules for moving
// between states.
//
// State is an immutable value. Each user action maps to a pure transition
// (SelectTab, SelectStatus, GoToPage, SetSearch) returning the next State and
// a Reload naming what has to be fetched. Transitions never perform I/O; the
// caller issues the fetch.
//
// Responses can arrive out of order, so every fetch is tagged with a Token
// from a Tracker. When a response lands, Tracker.Accept rejects it unless it
// is the newest fetch for its region and the State it was issued under is
// still the current one. Rejected responses are dropped without touching the
// screen.
package view
