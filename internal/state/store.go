package state

import (
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/five82/nabsearch/internal/newznab"
)

// Phase is where the session is in its search cycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseAwaiting
	PhaseResults
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseAwaiting:
		return "awaiting"
	case PhaseResults:
		return "results"
	case PhaseError:
		return "error"
	default:
		return "idle"
	}
}

// Form mirrors the search form inputs of the current attempt.
type Form struct {
	Query       string
	CategoryIDs []string
	APIKey      string
	Remember    bool
}

// FieldError is an error tied to one form field, shown next to it.
type FieldError struct {
	Field   string // "apikey" or "cat"
	Message string
}

// Snapshot represents the latest session data available to the UI.
type Snapshot struct {
	Phase           Phase
	Form            Form
	Categories      []newznab.Category
	CategoriesError error
	Results         []newznab.SearchResult
	FieldError      *FieldError
	LastError       error // failures other than field errors
	RequestID       string
	LastUpdated     time.Time
}

// Awaiting reports whether a search is in flight.
func (s Snapshot) Awaiting() bool {
	return s.Phase == PhaseAwaiting
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// SetForm replaces the form fields without starting a search.
func (s *Store) SetForm(form Form) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Form = cloneForm(form)
}

// SetCategories records the outcome of a taxonomy fetch. On error the list is
// emptied.
func (s *Store) SetCategories(cats []newznab.Category, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.LastUpdated = time.Now()
	if err != nil {
		s.snapshot.Categories = nil
		s.snapshot.CategoriesError = err
		return
	}
	s.snapshot.Categories = slices.Clone(cats)
	s.snapshot.CategoriesError = nil
}

// BeginSearch starts attempt id, clearing results and errors of the previous
// attempt.
func (s *Store) BeginSearch(id string, form Form) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.Phase = PhaseAwaiting
	s.snapshot.Form = cloneForm(form)
	s.snapshot.Results = nil
	s.snapshot.FieldError = nil
	s.snapshot.LastError = nil
	s.snapshot.RequestID = id
	s.snapshot.LastUpdated = time.Now()
}

// FinishSearch stores results for attempt id. It reports false, changing
// nothing, when id is no longer the current attempt.
func (s *Store) FinishSearch(id string, results []newznab.SearchResult) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id != s.snapshot.RequestID {
		return false
	}
	s.snapshot.Phase = PhaseResults
	s.snapshot.Results = cloneResults(results)
	s.snapshot.FieldError = nil
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = time.Now()
	return true
}

// FailSearch records the failure of attempt id. fieldErr and err may both be
// set; results stay empty. Stale ids are ignored.
func (s *Store) FailSearch(id string, fieldErr *FieldError, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id != s.snapshot.RequestID {
		return false
	}
	s.snapshot.Phase = PhaseError
	s.snapshot.Results = nil
	s.snapshot.FieldError = nil
	if fieldErr != nil {
		fe := *fieldErr
		s.snapshot.FieldError = &fe
	}
	s.snapshot.LastError = err
	s.snapshot.LastUpdated = time.Now()
	return true
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Form = cloneForm(s.snapshot.Form)
	snap.Categories = slices.Clone(s.snapshot.Categories)
	snap.Results = cloneResults(s.snapshot.Results)
	if s.snapshot.FieldError != nil {
		fe := *s.snapshot.FieldError
		snap.FieldError = &fe
	}
	return snap
}

func cloneForm(f Form) Form {
	f.CategoryIDs = slices.Clone(f.CategoryIDs)
	return f
}

func cloneResults(items []newznab.SearchResult) []newznab.SearchResult {
	if len(items) == 0 {
		return nil
	}
	dup := make([]newznab.SearchResult, len(items))
	for i, item := range items {
		item.Attrs = maps.Clone(item.Attrs)
		dup[i] = item
	}
	return dup
}
