package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/nabsearch/internal/state"
)

// renderHeader renders the status bar with the indexer and search state.
func (m Model) renderHeader() string {
	// Header uses Surface background
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	sep := bg.Spaces(2)
	compact := m.width < LayoutCompactWidth

	parts := []string{
		bg.Render("nabsearch", styles.Logo),
		styles.PhaseStyle(m.phase()).Render(strings.ToUpper(m.phase().String())),
	}

	host := m.about.Host
	if compact {
		host = truncateMiddle(host, 30)
	}
	if host != "" {
		parts = append(parts, bg.Render("Indexer:", styles.MutedText)+bg.Space()+bg.Render(host, styles.Text))
	}

	switch {
	case m.snapshot.CategoriesError != nil:
		parts = append(parts, bg.Render("Categories unavailable", styles.DangerText))
	case len(m.snapshot.Categories) == 0:
		parts = append(parts, bg.Render("Loading categories...", styles.WarningText))
	default:
		parts = append(parts,
			bg.Render("Categories:", styles.MutedText)+bg.Space()+
				bg.Render(fmt.Sprintf("%d", len(m.snapshot.Categories)), styles.Text))
	}

	if m.snapshot.Phase == state.PhaseResults {
		parts = append(parts,
			bg.Render("Results:", styles.MutedText)+bg.Space()+
				bg.Render(fmt.Sprintf("%d", len(m.snapshot.Results)), styles.Text))
	}

	if !compact && !m.snapshot.LastUpdated.IsZero() {
		parts = append(parts, bg.Render(m.snapshot.LastUpdated.Local().Format("15:04:05"), styles.FaintText))
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Foreground(lipgloss.Color(m.theme.Text)).
		Width(m.width).
		Render(bg.Join(parts, sep))
}

// phase is the snapshot phase, reported as awaiting while a search
// command is still running.
func (m Model) phase() state.Phase {
	if m.inflight > 0 {
		return state.PhaseAwaiting
	}
	return m.snapshot.Phase
}

// renderCommandBar renders the key hints for the current view.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type hint struct{ key, desc string }
	var hints []hint
	switch m.currentView {
	case ViewSearch:
		if m.editing() {
			hints = []hint{{"enter", "Search"}, {"tab", "Next"}, {"esc", "Leave input"}}
		} else {
			hints = []hint{
				{"enter", "Search"}, {"tab", "Next"}, {"space", "Toggle"},
				{"A", "All"}, {"/", "Query"}, {"x", "Cancel"}, {"i", "Index"},
			}
		}
	default:
		hints = []hint{{"s", "Search"}, {"i", "Index"}, {"a", "About"}}
	}
	hints = append(hints, hint{"?", "Help"}, hint{"q", "Quit"})

	parts := make([]string, 0, len(hints)+1)
	for _, h := range hints {
		parts = append(parts, bg.Render(h.key, styles.WarningText)+bg.Space()+bg.Render(h.desc, styles.MutedText))
	}
	parts = append(parts, bg.Render("T", styles.WarningText)+bg.Space()+bg.Render(m.theme.Name, styles.FaintText))

	if m.notice != "" {
		parts = append(parts, bg.Render(m.notice, styles.DangerText))
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Width(m.width).
		Padding(0, 1).
		Render(bg.Join(parts, bg.Spaces(2)))
}
