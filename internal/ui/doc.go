// Package ui is the Bubble Tea dashboard for the vehicle-listing monitor.
//
// The Model owns a view.State and a view.Tracker. Every key press goes
// through the dispatch table in dispatch.go, which turns it into a pure
// view.State transition plus the fetch that transition asks for. Fetches run
// as tea.Cmds and come back as messages carrying the token they were issued
// under; a result is drawn only if its token is still the newest for its
// region and the state has not moved on. Failed requests open a notice
// modal and leave the previous rendering in place.
//
// The scraper run-state arrives from the monitor package through Updates();
// the header reflects it and the start command is only enabled while the
// scraper is idle.
//
// Files:
//
//   - app.go: Model, Init/Update/View and Run
//   - dispatch.go: key bindings to transitions and commands
//   - results.go: handling of fetch results and run-state updates
//   - records.go: the record list renderer
//   - pagebar.go: page controls
//   - header.go: status bar, tab bar and footer
//   - detail.go, activity.go, modal.go: overlays
package ui
