// Package ui provides the terminal user interface for nabsearch.
//
// The UI is a Bubble Tea program. Model holds the view state and drives a
// Searcher (normally *session.Session); all indexer traffic happens in
// tea.Cmd functions so the event loop never blocks on the network.
//
// # Views
//
//   - Index: banner, category availability and the main shortcuts
//   - Search: query and API key inputs, the remember toggle, a category
//     checklist, and the results table with a detail line for the selected row
//   - About: indexer host, file locations and the active theme
//
// # Event Flow
//
//  1. New prefills the API key and remember flag from stored preferences
//  2. Init requests the category taxonomy once
//  3. enter submits the form; the search runs as a command and reports back
//     with searchDoneMsg, after which the model re-reads the session snapshot
//  4. Field errors move focus to the offending input
//
// # Key Bindings
//
//   - i, s, a: Index, Search and About views
//   - tab / shift+tab: Cycle focus in the search view
//   - enter: Search
//   - space: Toggle remember or the category under the cursor
//   - A: Select all or no categories
//   - x: Cancel the running search
//   - T: Cycle theme (saved to preferences)
//   - ?: Help
//   - q or Ctrl+C: Quit
package ui
