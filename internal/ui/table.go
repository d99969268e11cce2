package ui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/nabsearch/internal/bytesize"
	"github.com/five82/nabsearch/internal/newznab"
)

// Fixed result column widths. Every cell also carries one column of padding
// on each side.
const (
	sizeColumnWidth      = 9
	grabsColumnWidth     = 6
	publishedColumnWidth = 16
	categoryColumnWidth  = 24
	minTitleColumnWidth  = 20
	cellPadding          = 2
)

// resultColumns lays out the results table for the given inner width. The
// column set never changes, so rows always line up with it; narrow layouts
// hide columns by giving them zero width.
func resultColumns(width int) []table.Column {
	categoryWidth := 0
	if width >= LayoutCompactWidth {
		categoryWidth = categoryColumnWidth
	}
	grabsWidth := 0
	if width >= LayoutWideWidth {
		grabsWidth = grabsColumnWidth
	}

	used := sizeColumnWidth + publishedColumnWidth + cellPadding*3
	if categoryWidth > 0 {
		used += categoryWidth + cellPadding
	}
	if grabsWidth > 0 {
		used += grabsWidth + cellPadding
	}
	titleWidth := max(width-used, minTitleColumnWidth)

	return []table.Column{
		{Title: "Title", Width: titleWidth},
		{Title: "Category", Width: categoryWidth},
		{Title: "Size", Width: sizeColumnWidth},
		{Title: "Grabs", Width: grabsWidth},
		{Title: "Published", Width: publishedColumnWidth},
	}
}

// resultRow formats one result in column order.
func resultRow(r newznab.SearchResult) table.Row {
	grabs := r.Attr("grabs")
	if grabs == "" {
		grabs = "-"
	}
	return table.Row{
		r.Title,
		r.Category,
		bytesize.Format(r.Size),
		grabs,
		r.PublishedText(),
	}
}

func resultRows(results []newznab.SearchResult) []table.Row {
	rows := make([]table.Row, 0, len(results))
	for _, r := range results {
		rows = append(rows, resultRow(r))
	}
	return rows
}

// syncResults loads the snapshot results into the table and selects the
// first row.
func (m *Model) syncResults() {
	m.results.SetRows(resultRows(m.snapshot.Results))
	m.results.SetCursor(0)
}

// resize recomputes the table geometry after a window size change.
func (m *Model) resize() {
	inner := max(m.width-2, 0)
	m.results.SetColumns(resultColumns(inner))
	m.results.SetWidth(inner)
	m.results.SetHeight(m.resultsHeight())

	// Leave room after the inputs for inline field errors.
	fieldWidth := min(max(inner-48, 10), 64)
	m.queryInput.Width = fieldWidth
	m.apiKeyInput.Width = fieldWidth
}

// resultsHeight is the table height, header row included.
func (m Model) resultsHeight() int {
	return max(m.height-searchChromeHeight, MinResultsHeight)
}

func (m *Model) applyTableStyles() {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(m.theme.Border)).
		BorderBottom(true).
		Foreground(lipgloss.Color(m.theme.Accent)).
		Bold(true)
	s.Cell = s.Cell.Foreground(lipgloss.Color(m.theme.Text))
	s.Selected = lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.SelectionBg)).
		Foreground(lipgloss.Color(m.theme.SelectionText)).
		Bold(true)
	m.results.SetStyles(s)
}
