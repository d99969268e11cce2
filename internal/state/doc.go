// Package state provides thread-safe state management for a search session.
//
// # Overview
//
// The Store holds everything the UI renders: the form of the current attempt,
// the category list, the results, and any errors. Network calls run on their
// own goroutines and report back through the Store; the UI only ever reads
// Snapshot values.
//
//	Search goroutine:                  UI:
//	store.BeginSearch(id, form)
//	results, err := client.Search(..)
//	store.FinishSearch(id, results) -> store.Snapshot() -> render
//
// # Request IDs
//
// Every search attempt carries an id. FinishSearch and FailSearch only apply
// when their id is still the current one, so a slow response to an older
// search can never overwrite a newer attempt.
//
// # Phases
//
//	idle -> awaiting -> results | error -> awaiting (next search)
//
// After a completed attempt at most one of Results, FieldError and LastError
// is populated. FieldError and LastError may appear together when a field
// error also carries the underlying cause.
//
// # Copying
//
// Snapshot deep-copies slices and maps so callers may mutate what they get
// back. The zero Store is ready to use.
package state
