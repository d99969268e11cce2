package session

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/five82/nabsearch/internal/newznab"
	"github.com/five82/nabsearch/internal/prefs"
	"github.com/five82/nabsearch/internal/state"
)

type fakeIndexer struct {
	mu         sync.Mutex
	categories func(ctx context.Context) ([]newznab.Category, error)
	search     func(ctx context.Context, q newznab.Query) ([]newznab.SearchResult, error)
	queries    []newznab.Query
}

func (f *fakeIndexer) Categories(ctx context.Context) ([]newznab.Category, error) {
	return f.categories(ctx)
}

func (f *fakeIndexer) Search(ctx context.Context, q newznab.Query) ([]newznab.SearchResult, error) {
	f.mu.Lock()
	f.queries = append(f.queries, q)
	f.mu.Unlock()
	return f.search(ctx, q)
}

func (f *fakeIndexer) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queries)
}

func okSearch(results ...newznab.SearchResult) func(context.Context, newznab.Query) ([]newznab.SearchResult, error) {
	return func(context.Context, newznab.Query) ([]newznab.SearchResult, error) {
		return results, nil
	}
}

type failingStore struct{ prefs.Prefs }

func (f failingStore) Load() prefs.Prefs { return f.Prefs }
func (failingStore) Save(prefs.Prefs) error { return errors.New("read-only") }

func newTestSession(t *testing.T, idx *fakeIndexer) (*Session, prefs.File) {
	t.Helper()
	store := prefs.File{Path: filepath.Join(t.TempDir(), "prefs.toml")}
	return New(idx, store), store
}

func validRequest() Request {
	return Request{Query: "ubuntu", CategoryIDs: []string{"2040"}, APIKey: "abc123"}
}

func TestLoadPreferences_DefaultsAndForm(t *testing.T) {
	s, store := newTestSession(t, &fakeIndexer{})

	p := s.LoadPreferences()
	if p.APIKey != "" || p.Remember {
		t.Fatalf("LoadPreferences = %#v, want defaults", p)
	}

	if err := store.Save(prefs.Prefs{APIKey: "k", Remember: true}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	p = s.LoadPreferences()
	if p.APIKey != "k" || !p.Remember {
		t.Fatalf("LoadPreferences = %#v, want stored values", p)
	}
	form := s.Snapshot().Form
	if form.APIKey != "k" || !form.Remember {
		t.Fatalf("Form = %#v, want populated from prefs", form)
	}
}

func TestFetchCategories(t *testing.T) {
	want := []newznab.Category{{ID: "2040", Name: "Movies > HD", ParentName: "Movies"}}
	idx := &fakeIndexer{categories: func(context.Context) ([]newznab.Category, error) {
		return want, nil
	}}
	s, _ := newTestSession(t, idx)

	cats, err := s.FetchCategories(context.Background())
	if err != nil {
		t.Fatalf("FetchCategories returned error: %v", err)
	}
	if len(cats) != 1 || cats[0] != want[0] {
		t.Fatalf("FetchCategories = %#v, want %#v", cats, want)
	}
	if snap := s.Snapshot(); len(snap.Categories) != 1 || snap.CategoriesError != nil {
		t.Fatalf("snapshot = %#v, want one category", snap)
	}
}

func TestFetchCategories_FailureLeavesListEmpty(t *testing.T) {
	boom := errors.New("connection refused")
	idx := &fakeIndexer{categories: func(context.Context) ([]newznab.Category, error) {
		return nil, boom
	}}
	s, _ := newTestSession(t, idx)

	if _, err := s.FetchCategories(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("FetchCategories error = %v, want %v", err, boom)
	}
	snap := s.Snapshot()
	if snap.Categories != nil || !errors.Is(snap.CategoriesError, boom) {
		t.Fatalf("snapshot = %#v, want empty list and recorded error", snap)
	}
}

func TestSearch_Preconditions(t *testing.T) {
	tests := []struct {
		name      string
		req       Request
		wantErr   error
		wantField string
	}{
		{"missing api key", Request{CategoryIDs: []string{"1"}, APIKey: "  "}, ErrMissingAPIKey, FieldAPIKey},
		{"missing categories", Request{CategoryIDs: []string{" ", ""}, APIKey: "k"}, ErrMissingCategories, FieldCategories},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx := &fakeIndexer{search: okSearch()}
			s, _ := newTestSession(t, idx)

			err := s.Search(context.Background(), tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Search error = %v, want %v", err, tt.wantErr)
			}
			if idx.calls() != 0 {
				t.Fatalf("indexer called %d times, want 0", idx.calls())
			}
			snap := s.Snapshot()
			if snap.FieldError == nil || snap.FieldError.Field != tt.wantField {
				t.Fatalf("FieldError = %#v, want field %q", snap.FieldError, tt.wantField)
			}
		})
	}
}

func TestSearch_SuccessMapsResultsAndSendsQuery(t *testing.T) {
	published := newznab.ParsePubDate("Mon, 02 Jan 2006 15:04:05 +0000")
	idx := &fakeIndexer{search: okSearch(newznab.SearchResult{Title: "Ubuntu", Published: published, Size: 1024})}
	s := New(idx, prefs.File{Path: filepath.Join(t.TempDir(), "prefs.toml")}, WithResultLimit(25))

	req := validRequest()
	req.CategoryIDs = []string{"2040,5030"}
	if err := s.Search(context.Background(), req); err != nil {
		t.Fatalf("Search returned error: %v", err)
	}

	q := idx.queries[0]
	if q.Text != "ubuntu" || q.APIKey != "abc123" || q.Limit != 25 || newznab.JoinIDs(q.Categories) != "2040,5030" {
		t.Fatalf("query = %#v", q)
	}

	snap := s.Snapshot()
	if snap.Phase != state.PhaseResults || len(snap.Results) != 1 {
		t.Fatalf("snapshot = %#v, want one result", snap)
	}
	want := time.Date(2006, time.January, 2, 15, 4, 5, 0, time.UTC)
	if !snap.Results[0].Published.Equal(want) {
		t.Fatalf("Published = %v, want %v", snap.Results[0].Published, want)
	}
	if snap.FieldError != nil || snap.LastError != nil {
		t.Fatalf("errors = %#v/%v, want none", snap.FieldError, snap.LastError)
	}
}

func TestSearch_AuthErrorSetsFieldError(t *testing.T) {
	idx := &fakeIndexer{search: func(context.Context, newznab.Query) ([]newznab.SearchResult, error) {
		return nil, &newznab.APIError{Code: "100", Description: "Invalid API key"}
	}}
	s, store := newTestSession(t, idx)
	if err := store.Save(prefs.Prefs{APIKey: "old", Remember: true}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	req := validRequest()
	req.Remember = false
	err := s.Search(context.Background(), req)
	if !newznab.IsAuthError(err) {
		t.Fatalf("Search error = %v, want auth error", err)
	}

	snap := s.Snapshot()
	if snap.FieldError == nil || snap.FieldError.Field != FieldAPIKey || snap.FieldError.Message != "Invalid API key" {
		t.Fatalf("FieldError = %#v, want apikey/Invalid API key", snap.FieldError)
	}
	if len(snap.Results) != 0 || snap.LastError != nil {
		t.Fatalf("snapshot = %#v, want no results and no other error", snap)
	}

	// Preferences are untouched after a failed search.
	if p := s.LoadPreferences(); p.APIKey != "old" || !p.Remember {
		t.Fatalf("prefs = %#v, want unchanged", p)
	}
}

func TestSearch_OtherFailuresAreSurfaced(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"unclassified remote error", &newznab.APIError{Code: "910", Description: "API Disabled"}},
		{"transport failure", errors.New("execute request: connection refused")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx := &fakeIndexer{search: func(context.Context, newznab.Query) ([]newznab.SearchResult, error) {
				return nil, tt.err
			}}
			s, _ := newTestSession(t, idx)

			err := s.Search(context.Background(), validRequest())
			if !errors.Is(err, tt.err) {
				t.Fatalf("Search error = %v, want wrapping %v", err, tt.err)
			}
			snap := s.Snapshot()
			if snap.Phase != state.PhaseError || !errors.Is(snap.LastError, tt.err) {
				t.Fatalf("snapshot = %#v, want surfaced error", snap)
			}
			if snap.FieldError != nil || snap.Results != nil {
				t.Fatalf("snapshot = %#v, want no field error or results", snap)
			}
			if p := s.LoadPreferences(); p.APIKey != "" {
				t.Fatalf("prefs = %#v, want nothing persisted", p)
			}
		})
	}
}

func TestSearch_RememberPersistsAPIKey(t *testing.T) {
	s, _ := newTestSession(t, &fakeIndexer{search: okSearch()})

	req := validRequest()
	req.Remember = true
	if err := s.Search(context.Background(), req); err != nil {
		t.Fatalf("Search returned error: %v", err)
	}

	p := s.LoadPreferences()
	if p.APIKey != "abc123" || !p.Remember {
		t.Fatalf("LoadPreferences = %#v, want {abc123 true}", p)
	}
}

func TestSearch_ForgetClearsAPIKey(t *testing.T) {
	s, store := newTestSession(t, &fakeIndexer{search: okSearch()})
	if err := store.Save(prefs.Prefs{APIKey: "abc123", Remember: true, Theme: "Slate"}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	req := validRequest()
	req.Remember = false
	if err := s.Search(context.Background(), req); err != nil {
		t.Fatalf("Search returned error: %v", err)
	}

	p := s.LoadPreferences()
	if p.APIKey != "" || p.Remember {
		t.Fatalf("LoadPreferences = %#v, want cleared key", p)
	}
	if p.Theme != "Slate" {
		t.Fatalf("Theme = %q, want Slate kept", p.Theme)
	}
}

func TestPersist_SkipsSupersededSearch(t *testing.T) {
	s, store := newTestSession(t, &fakeIndexer{search: okSearch()})

	_, doneOld := s.begin(context.Background(), "old", state.Form{})
	_, doneNew := s.begin(context.Background(), "new", state.Form{})
	defer doneOld()
	defer doneNew()

	s.persist(context.Background(), "new", Request{APIKey: "newer", Remember: true})
	s.persist(context.Background(), "old", Request{APIKey: "older", Remember: false})

	p, err := prefs.Load(store.Path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.APIKey != "newer" || !p.Remember {
		t.Fatalf("prefs = %#v, want newer search's key kept", p)
	}
}

func TestSearch_SaveFailureDoesNotFailSearch(t *testing.T) {
	s := New(&fakeIndexer{search: okSearch(newznab.SearchResult{Title: "x"})}, failingStore{})

	req := validRequest()
	req.Remember = true
	if err := s.Search(context.Background(), req); err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(s.Snapshot().Results) != 1 {
		t.Fatalf("Results missing after save failure")
	}
	if err := s.SaveTheme("Slate"); err == nil {
		t.Fatalf("SaveTheme returned nil error for read-only store")
	}
}

func TestSearch_NewSearchSupersedesInFlight(t *testing.T) {
	started := make(chan struct{})
	idx := &fakeIndexer{search: func(ctx context.Context, q newznab.Query) ([]newznab.SearchResult, error) {
		if q.Text == "slow" {
			close(started)
			<-ctx.Done()
			return nil, ctx.Err()
		}
		return []newznab.SearchResult{{Title: "fast"}}, nil
	}}
	s, _ := newTestSession(t, idx)

	slowDone := make(chan error, 1)
	go func() {
		req := validRequest()
		req.Query = "slow"
		slowDone <- s.Search(context.Background(), req)
	}()

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatalf("slow search did not start")
	}

	if err := s.Search(context.Background(), validRequest()); err != nil {
		t.Fatalf("Search returned error: %v", err)
	}

	select {
	case err := <-slowDone:
		if !errors.Is(err, ErrSuperseded) {
			t.Fatalf("slow search error = %v, want ErrSuperseded", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("slow search was not cancelled")
	}

	snap := s.Snapshot()
	if len(snap.Results) != 1 || snap.Results[0].Title != "fast" || snap.LastError != nil {
		t.Fatalf("snapshot = %#v, want fast results only", snap)
	}
}

func TestCancel_AbortsInFlightSearch(t *testing.T) {
	started := make(chan struct{})
	idx := &fakeIndexer{search: func(ctx context.Context, q newznab.Query) ([]newznab.SearchResult, error) {
		close(started)
		<-ctx.Done()
		return nil, ctx.Err()
	}}
	s, _ := newTestSession(t, idx)

	done := make(chan error, 1)
	go func() { done <- s.Search(context.Background(), validRequest()) }()
	<-started
	s.Cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Search error = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Cancel did not abort the search")
	}
	if snap := s.Snapshot(); snap.Phase != state.PhaseError {
		t.Fatalf("Phase = %v, want error", snap.Phase)
	}

	// Cancel with nothing in flight is a no-op.
	s.Cancel()
}
