package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines every keyboard binding on the dashboard.
type keyMap struct {
	// Global
	Quit        key.Binding
	Help        key.Binding
	CycleTheme  key.Binding
	ToggleDense key.Binding
	ActivityLog key.Binding
	Reload      key.Binding
	Escape      key.Binding

	// Tabs and filters
	TabListing  key.Binding
	TabRecent   key.Binding
	TabRemoved  key.Binding
	NextTab     key.Binding
	PrevTab     key.Binding
	CycleStatus key.Binding

	// Pagination
	FocusPrev    key.Binding
	FocusNext    key.Binding
	Activate     key.Binding
	PreviousPage key.Binding
	NextPage     key.Binding

	// Records
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding
	Detail key.Binding

	// Search
	Search      key.Binding
	ClearSearch key.Binding

	// Scraper
	StartScraper key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "e"),
			key.WithHelp("e", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("h", "?"),
			key.WithHelp("h/?", "Help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		ToggleDense: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Compact list"),
		),
		ActivityLog: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "Activity log"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Reload"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Cancel"),
		),

		TabListing: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "Vehicles"),
		),
		TabRecent: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "Recent"),
		),
		TabRemoved: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "Removed"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Next tab"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "Previous tab"),
		),
		CycleStatus: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "Status filter"),
		),

		FocusPrev: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "Focus previous page control"),
		),
		FocusNext: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "Focus next page control"),
		),
		Activate: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Go to focused page"),
		),
		PreviousPage: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "Previous page"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "Next page"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "First record"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Last record"),
		),
		Detail: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "Details"),
		),

		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Search"),
		),
		ClearSearch: key.NewBinding(
			key.WithKeys("ctrl+u"),
			key.WithHelp("ctrl+u", "Clear search"),
		),

		StartScraper: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "Start scraper"),
		),
	}
}

// ShortHelp returns key bindings for the footer.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.CycleStatus, k.Search, k.PreviousPage, k.NextPage, k.Detail, k.StartScraper, k.Help, k.Quit}
}

// FullHelp returns key bindings grouped for the help overlay.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.TabListing, k.TabRecent, k.TabRemoved, k.NextTab, k.PrevTab, k.CycleStatus},
		{k.FocusPrev, k.FocusNext, k.Activate, k.PreviousPage, k.NextPage},
		{k.Up, k.Down, k.Top, k.Bottom, k.Detail},
		{k.Search, k.ClearSearch, k.Escape},
		{k.StartScraper, k.Reload, k.ActivityLog},
		{k.CycleTheme, k.ToggleDense, k.Help, k.Quit},
	}
}
