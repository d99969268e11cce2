// Package app is the composition root for nabsearch.
//
// Bootstrap wires the pieces in order:
//
//	config.Load()            Read ~/.config/nabsearch/config.toml and NABSEARCH_* env
//	logging.Setup()          Send logrus output to the log file
//	newznab.NewClient()      HTTP client with timeout, pacing and user agent
//	prefs.File{}             Remembered API key and theme
//	session.New()            Search session over client and prefs
//
// Run passes the session to ui.Run and blocks until the TUI exits. The CLI
// subcommands call Bootstrap directly and drive the session without a UI.
//
// Configuration errors and a missing indexer host are fatal. Indexer failures
// after startup are recorded in the session snapshot and shown by the UI.
package app
