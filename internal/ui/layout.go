package ui

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which the category column
	// of the results table is hidden.
	LayoutCompactWidth = 100

	// LayoutWideWidth is the minimum width to show the grabs column.
	LayoutWideWidth = 140
)

// Vertical space budget of the search view.
const (
	// CategoryListHeight is the number of category rows shown at once.
	CategoryListHeight = 8

	// MinResultsHeight keeps the results table usable on short terminals.
	MinResultsHeight = 3

	// searchChromeHeight counts the header, command bar, form, category panel,
	// status line, results border and detail line.
	searchChromeHeight = 2 + 5 + (CategoryListHeight + 3) + 1 + 2 + 1
)
