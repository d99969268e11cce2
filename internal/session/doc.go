// Package session implements the search session behind the nabsearch views.
//
// A Session loads the remembered API key, fetches the category taxonomy once,
// and runs searches on behalf of the UI. All state it produces lands in a
// state.Store; views render Snapshot values and never share mutable fields
// with the session.
//
// Each Search gets its own cancellable context and request id. Starting a new
// search cancels the previous one, whose late result is dropped and reported
// as ErrSuperseded.
//
// Preferences are written only after a search succeeds: the remember flag
// always, the API key only when remember is set (otherwise the stored key is
// cleared).
package session
