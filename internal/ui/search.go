package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/nabsearch/internal/session"
	"github.com/five82/nabsearch/internal/state"
)

// renderSearch renders the form, category checklist, status line and results.
func (m Model) renderSearch() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderForm(),
		m.renderCategories(),
		m.renderStatusLine(),
		m.renderResults(),
		m.renderSelectedDetail(),
	)
}

// renderPanel draws a titled border box, highlighted when focused.
func (m Model) renderPanel(title, content string, focused bool) string {
	border := m.theme.Border
	if focused {
		border = m.theme.BorderFocus
	}
	styles := m.theme.Styles()
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(border)).
		Width(max(m.width-2, 0))
	heading := styles.AccentText.Bold(true).Render(title)
	return heading + "\n" + box.Render(content)
}

func (m Model) fieldError(field string) string {
	fe := m.snapshot.FieldError
	if fe == nil || fe.Field != field || m.inflight > 0 {
		return ""
	}
	return m.theme.Styles().DangerText.Render(fe.Message)
}

func (m Model) renderForm() string {
	styles := m.theme.Styles()
	label := func(text string, f focusArea) string {
		style := styles.MutedText
		if m.focus == f {
			style = styles.AccentText.Bold(true)
		}
		return style.Width(11).Render(text)
	}

	check := "[ ]"
	if m.remember {
		check = "[x]"
	}

	apiKeyLine := label("API key", focusAPIKey) + m.apiKeyInput.View()
	if msg := m.fieldError(session.FieldAPIKey); msg != "" {
		apiKeyLine += "  " + msg
	}

	lines := []string{
		label("Query", focusQuery) + m.queryInput.View(),
		apiKeyLine,
		label("Remember", focusRemember) + styles.Text.Render(check) + " " +
			styles.FaintText.Render("keep the API key for next time"),
	}
	inForm := m.focus == focusQuery || m.focus == focusAPIKey || m.focus == focusRemember
	return m.renderPanelCompact(strings.Join(lines, "\n"), inForm)
}

// renderPanelCompact draws a border box without a heading line.
func (m Model) renderPanelCompact(content string, focused bool) string {
	border := m.theme.Border
	if focused {
		border = m.theme.BorderFocus
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(border)).
		Width(max(m.width-2, 0)).
		Render(content)
}

// categoryWindow returns the first visible row so the cursor stays in view.
func categoryWindow(cursor, total, height int) int {
	if total <= height {
		return 0
	}
	start := cursor - height/2
	return min(max(start, 0), total-height)
}

func (m Model) renderCategories() string {
	styles := m.theme.Styles()
	cats := m.snapshot.Categories
	focused := m.focus == focusCategories

	var lines []string
	switch {
	case m.snapshot.CategoriesError != nil:
		lines = append(lines, styles.DangerText.Render("Categories unavailable: "+m.snapshot.CategoriesError.Error()))
	case len(cats) == 0:
		lines = append(lines, styles.MutedText.Render("Loading categories..."))
	default:
		start := categoryWindow(m.catCursor, len(cats), CategoryListHeight)
		end := min(start+CategoryListHeight, len(cats))
		nameWidth := max(m.width-12, 10)
		for i := start; i < end; i++ {
			c := cats[i]
			marker := "  "
			if focused && i == m.catCursor {
				marker = styles.AccentText.Render("› ")
			}
			check := "[ ]"
			if m.selected[c.ID] {
				check = styles.SuccessText.Render("[x]")
			}
			name := truncate(c.Name, nameWidth)
			if focused && i == m.catCursor {
				name = styles.Selected.Render(name)
			} else {
				name = styles.Text.Render(name)
			}
			lines = append(lines, marker+check+" "+name)
		}
	}
	for len(lines) < CategoryListHeight {
		lines = append(lines, "")
	}

	title := fmt.Sprintf("Categories %d/%d", len(m.selectedIDs()), len(cats))
	if msg := m.fieldError(session.FieldCategories); msg != "" {
		title += "  " + msg
	}
	return m.renderPanel(title, strings.Join(lines, "\n"), focused)
}

func (m Model) renderStatusLine() string {
	styles := m.theme.Styles()
	snap := m.snapshot
	var line string
	switch {
	case m.inflight > 0 || snap.Awaiting():
		line = styles.WarningText.Render("Searching...")
	case snap.Phase == state.PhaseError && snap.LastError != nil:
		line = styles.DangerText.Render("Search failed: " + snap.LastError.Error())
	case snap.Phase == state.PhaseError && snap.FieldError != nil:
		line = styles.DangerText.Render(snap.FieldError.Message)
	case snap.Phase == state.PhaseResults && len(snap.Results) == 0:
		line = styles.MutedText.Render("No results")
	case snap.Phase == state.PhaseResults:
		line = styles.SuccessText.Render(fmt.Sprintf("%d results", len(snap.Results)))
	default:
		line = styles.MutedText.Render("Enter a query, pick categories and press enter")
	}
	return " " + line
}

func (m Model) renderResults() string {
	return m.renderPanelCompact(m.results.View(), m.focus == focusResults)
}

// renderSelectedDetail shows the age, link and description of the selected
// result on one line.
func (m Model) renderSelectedDetail() string {
	styles := m.theme.Styles()
	results := m.snapshot.Results
	if len(results) == 0 {
		return ""
	}
	r := results[clampIndex(m.results.Cursor(), len(results))]

	parts := []string{styles.WarningText.Render(formatAge(r.Published, m.now()))}
	text := r.Description
	if text == "" {
		text = r.Link
	}
	if text != "" {
		parts = append(parts, styles.MutedText.Render(truncate(text, max(m.width-12, 10))))
	}
	return " " + strings.Join(parts, "  ")
}
