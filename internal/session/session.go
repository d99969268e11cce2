package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/five82/nabsearch/internal/logging"
	"github.com/five82/nabsearch/internal/newznab"
	"github.com/five82/nabsearch/internal/prefs"
	"github.com/five82/nabsearch/internal/state"
)

// Field names used in state.FieldError.
const (
	FieldAPIKey     = "apikey"
	FieldCategories = "cat"
)

var (
	// ErrMissingAPIKey is returned by Search when no API key was given.
	ErrMissingAPIKey = errors.New("api key is required")
	// ErrMissingCategories is returned by Search when no category was selected.
	ErrMissingCategories = errors.New("at least one category is required")
	// ErrSuperseded is returned by a search that a newer search replaced.
	ErrSuperseded = errors.New("search superseded by a newer search")
)

// Request is one submission of the search form.
type Request struct {
	Query       string
	CategoryIDs []string
	APIKey      string
	Remember    bool
	Offset      int
	MaxAge      int
}

// Session owns the client-local state of one search interaction and mediates
// between the UI and the indexer.
type Session struct {
	indexer newznab.Indexer
	prefs   prefs.Store
	store   *state.Store
	limit   int
	newID   func() string

	mu      sync.Mutex
	cancel  context.CancelFunc
	current string
}

// Option customizes a Session.
type Option func(*Session)

// WithResultLimit sets the number of results requested per search.
func WithResultLimit(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.limit = n
		}
	}
}

// New builds a Session over indexer, persisting preferences in store.
func New(indexer newznab.Indexer, store prefs.Store, opts ...Option) *Session {
	s := &Session{
		indexer: indexer,
		prefs:   store,
		store:   &state.Store{},
		limit:   newznab.DefaultLimit,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoadPreferences reads the remembered API key and flag and fills the form
// with them. Missing preferences yield defaults.
func (s *Session) LoadPreferences() prefs.Prefs {
	p := s.prefs.Load()
	form := s.store.Snapshot().Form
	form.APIKey = p.APIKey
	form.Remember = p.Remember
	s.store.SetForm(form)
	return p
}

// SaveTheme persists the UI theme, keeping the other preferences.
func (s *Session) SaveTheme(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.prefs.Load()
	p.Theme = name
	if err := s.prefs.Save(p); err != nil {
		return fmt.Errorf("save theme: %w", err)
	}
	return nil
}

// FetchCategories requests the category taxonomy once and stores the
// flattened list. On failure the list is left empty and the error is recorded
// for display.
func (s *Session) FetchCategories(ctx context.Context) ([]newznab.Category, error) {
	cats, err := s.indexer.Categories(ctx)
	s.store.SetCategories(cats, err)
	if err != nil {
		logging.For(ctx).WithError(err).Warn("category fetch failed")
		return nil, fmt.Errorf("fetch categories: %w", err)
	}
	logging.For(ctx).WithField("categories", len(cats)).Debug("categories loaded")
	return cats, nil
}

// Search validates req, cancels any search still in flight and runs a new
// one. An authentication failure is recorded as a field error on the API key.
// Preferences are persisted only after a successful search.
func (s *Session) Search(ctx context.Context, req Request) error {
	req.APIKey = strings.TrimSpace(req.APIKey)
	req.CategoryIDs = newznab.SplitIDs(req.CategoryIDs...)

	id := s.newID()
	ctx, done := s.begin(ctx, id, state.Form{
		Query:       req.Query,
		CategoryIDs: req.CategoryIDs,
		APIKey:      req.APIKey,
		Remember:    req.Remember,
	})
	defer done()

	if req.APIKey == "" {
		s.store.FailSearch(id, &state.FieldError{Field: FieldAPIKey, Message: "API key is required"}, nil)
		return ErrMissingAPIKey
	}
	if len(req.CategoryIDs) == 0 {
		s.store.FailSearch(id, &state.FieldError{Field: FieldCategories, Message: "Select at least one category"}, nil)
		return ErrMissingCategories
	}

	ctx = logging.ContextWithID(ctx, id)
	logger := logging.For(ctx).WithField("categories", newznab.JoinIDs(req.CategoryIDs))

	results, err := s.indexer.Search(ctx, newznab.Query{
		Text:       req.Query,
		Categories: req.CategoryIDs,
		APIKey:     req.APIKey,
		Limit:      s.limit,
		Offset:     req.Offset,
		MaxAge:     req.MaxAge,
	})
	if err != nil {
		if apiErr, ok := newznab.AsAPIError(err); ok && apiErr.IsAuth() {
			if !s.store.FailSearch(id, &state.FieldError{Field: FieldAPIKey, Message: apiErr.Message()}, nil) {
				return ErrSuperseded
			}
			logger.Info("indexer rejected api key")
			return err
		}
		if !s.store.FailSearch(id, nil, err) {
			return ErrSuperseded
		}
		logger.WithError(err).Warn("search failed")
		return fmt.Errorf("search: %w", err)
	}

	if !s.store.FinishSearch(id, results) {
		return ErrSuperseded
	}
	logger.WithField("results", len(results)).Info("search finished")

	s.persist(ctx, id, req)
	return nil
}

// Cancel aborts the search in flight, if any.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
}

// Snapshot returns an immutable copy of the session state for rendering.
func (s *Session) Snapshot() state.Snapshot {
	return s.store.Snapshot()
}

// begin makes id the current attempt, cancelling the previous one. The store
// switches to id under the same lock so the cancelled search can only ever
// see a stale id.
func (s *Session) begin(parent context.Context, id string, form state.Form) (context.Context, func()) {
	ctx, cancel := context.WithCancel(parent)

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.cancel = cancel
	s.current = id
	s.store.BeginSearch(id, form)
	s.mu.Unlock()

	return ctx, func() {
		s.mu.Lock()
		if s.current == id {
			s.cancel = nil
		}
		s.mu.Unlock()
		cancel()
	}
}

// persist writes the remember flag, and the API key only when remember is set.
// Nothing is written once id has been superseded by a newer search.
func (s *Session) persist(ctx context.Context, id string, req Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != id {
		return
	}

	p := s.prefs.Load()
	p.Remember = req.Remember
	if req.Remember {
		p.APIKey = req.APIKey
	} else {
		p.APIKey = ""
	}
	if err := s.prefs.Save(p); err != nil {
		logging.For(ctx).WithError(err).Warn("saving preferences failed")
	}
}
