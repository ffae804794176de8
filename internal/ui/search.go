package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func (m *Model) openSearch() tea.Cmd {
	m.searching = true
	m.search.SetValue(m.state.Query)
	m.search.CursorEnd()
	return m.search.Focus()
}

// handleSearchKey handles input while the search box is focused. Submitting
// takes the same path whether the query is new, repeated or blank.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Activate):
		m.searching = false
		m.search.Blur()
		return m, m.apply(m.state.SetSearch(m.search.Value()), nil)

	case key.Matches(msg, m.keys.Escape):
		m.searching = false
		m.search.Blur()
		m.search.SetValue(m.state.Query)
		return m, nil

	case key.Matches(msg, m.keys.ClearSearch):
		m.search.SetValue("")
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}
