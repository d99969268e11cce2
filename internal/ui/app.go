package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/nabsearch/internal/logtail"
	"github.com/five82/nabsearch/internal/newznab"
	"github.com/five82/nabsearch/internal/prefs"
	"github.com/five82/nabsearch/internal/session"
	"github.com/five82/nabsearch/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewIndex View = iota
	ViewSearch
	ViewAbout
)

func (v View) String() string {
	switch v {
	case ViewSearch:
		return "search"
	case ViewAbout:
		return "about"
	default:
		return "index"
	}
}

// focusArea is the part of the search view receiving keys.
type focusArea int

const (
	focusQuery focusArea = iota
	focusAPIKey
	focusRemember
	focusCategories
	focusResults
)

var focusOrder = []focusArea{focusQuery, focusAPIKey, focusRemember, focusCategories, focusResults}

// Searcher is the session API the UI drives. *session.Session implements it.
type Searcher interface {
	LoadPreferences() prefs.Prefs
	FetchCategories(ctx context.Context) ([]newznab.Category, error)
	Search(ctx context.Context, req session.Request) error
	Cancel()
	Snapshot() state.Snapshot
	SaveTheme(name string) error
}

var _ Searcher = (*session.Session)(nil)

// About describes the running configuration for the about view.
type About struct {
	Host        string
	ConfigPath  string
	PrefsPath   string
	LogFile     string
	Version     string
	ResultLimit int
}

// Options configures the UI.
type Options struct {
	Context   context.Context
	Session   Searcher
	About     About
	ThemeName string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx     context.Context
	session Searcher
	about   About
	keys    keyMap
	now     func() time.Time

	// UI state
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool
	notice      string

	// Search form
	focus       focusArea
	queryInput  textinput.Model
	apiKeyInput textinput.Model
	remember    bool
	catCursor   int
	selected    map[string]bool

	// Results
	results table.Model

	// Data state
	snapshot  state.Snapshot
	inflight  int
	recentLog []logtail.Entry
	logErr    error
}

// New creates a new Bubble Tea model. Stored preferences prefill the API key
// and remember flag.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	p := opts.Session.LoadPreferences()
	themeName := opts.ThemeName
	if themeName == "" {
		themeName = p.Theme
	}

	query := textinput.New()
	query.Placeholder = "search terms"
	query.Prompt = ""
	query.CharLimit = 256

	apiKey := textinput.New()
	apiKey.Placeholder = "indexer api key"
	apiKey.Prompt = ""
	apiKey.EchoMode = textinput.EchoPassword
	apiKey.EchoCharacter = '•'
	apiKey.CharLimit = 128
	apiKey.SetValue(p.APIKey)

	m := Model{
		ctx:         ctx,
		session:     opts.Session,
		about:       opts.About,
		keys:        DefaultKeyMap(),
		now:         time.Now,
		theme:       GetTheme(themeName),
		currentView: ViewIndex,
		focus:       focusQuery,
		queryInput:  query,
		apiKeyInput: apiKey,
		remember:    p.Remember,
		selected:    make(map[string]bool),
		results:     table.New(table.WithColumns(resultColumns(80))),
		snapshot:    opts.Session.Snapshot(),
	}
	m.applyTableStyles()
	return m
}

// Init implements tea.Model. The category taxonomy is requested once here.
func (m Model) Init() tea.Cmd {
	return tea.Batch(fetchCategoriesCmd(m.ctx, m.session), textinput.Blink)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resize()
		return m, nil

	case categoriesMsg:
		m.snapshot = m.session.Snapshot()
		m.catCursor = clampIndex(m.catCursor, len(m.snapshot.Categories))
		return m, nil

	case searchDoneMsg:
		return m.handleSearchDone(msg)

	case logTailMsg:
		m.recentLog = msg.entries
		m.logErr = msg.err
		return m, nil
	}

	// Cursor blink and other messages go to the focused input.
	return m.updateInput(msg)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if key.Matches(msg, m.keys.ForceQuit) {
		m.session.Cancel()
		return m, tea.Quit
	}

	if m.editing() {
		return m.handleInputKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.session.Cancel()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.cycleTheme()
		return m, nil

	case key.Matches(msg, m.keys.ViewIndex):
		return m.setView(ViewIndex)

	case key.Matches(msg, m.keys.ViewSearch):
		return m.setView(ViewSearch)

	case key.Matches(msg, m.keys.ViewAbout):
		return m.setView(ViewAbout)
	}

	if m.currentView == ViewSearch {
		return m.handleSearchKey(msg)
	}
	return m, nil
}

// handleInputKey processes keys while a text input has focus. Single-letter
// shortcuts are typed into the input instead.
func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		cmd := m.setFocus(focusCategories)
		return m, cmd
	case key.Matches(msg, m.keys.Tab):
		cmd := m.cycleFocus(1)
		return m, cmd
	case key.Matches(msg, m.keys.ShiftTab):
		cmd := m.cycleFocus(-1)
		return m, cmd
	case key.Matches(msg, m.keys.Submit):
		return m.submit()
	}
	return m.updateInput(msg)
}

// handleSearchKey processes keys in the search view outside text inputs.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Tab):
		cmd := m.cycleFocus(1)
		return m, cmd
	case key.Matches(msg, m.keys.ShiftTab):
		cmd := m.cycleFocus(-1)
		return m, cmd
	case key.Matches(msg, m.keys.Escape):
		return m.setView(ViewIndex)
	case key.Matches(msg, m.keys.Submit):
		return m.submit()
	case key.Matches(msg, m.keys.FocusQuery):
		cmd := m.setFocus(focusQuery)
		return m, cmd
	case key.Matches(msg, m.keys.CancelQuery):
		m.session.Cancel()
		return m, nil
	case key.Matches(msg, m.keys.Toggle):
		m.toggle()
		return m, nil
	case key.Matches(msg, m.keys.SelectAll):
		m.toggleAll()
		return m, nil
	case key.Matches(msg, m.keys.Up):
		m.move(-1)
	case key.Matches(msg, m.keys.Down):
		m.move(1)
	case key.Matches(msg, m.keys.Top):
		m.moveTo(0)
	case key.Matches(msg, m.keys.Bottom):
		m.moveTo(-1)
	}
	return m, nil
}

func (m Model) handleSearchDone(msg searchDoneMsg) (tea.Model, tea.Cmd) {
	if m.inflight > 0 {
		m.inflight--
	}
	if errors.Is(msg.err, session.ErrSuperseded) {
		return m, nil
	}
	m.snapshot = m.session.Snapshot()
	m.syncResults()

	if fe := m.snapshot.FieldError; fe != nil && m.currentView == ViewSearch {
		switch fe.Field {
		case session.FieldAPIKey:
			cmd := m.setFocus(focusAPIKey)
			return m, cmd
		case session.FieldCategories:
			cmd := m.setFocus(focusCategories)
			return m, cmd
		}
	}
	if len(m.snapshot.Results) > 0 && m.currentView == ViewSearch && !m.editing() {
		cmd := m.setFocus(focusResults)
		return m, cmd
	}
	return m, nil
}

// editing reports whether a text input receives keystrokes.
func (m Model) editing() bool {
	return m.currentView == ViewSearch && (m.focus == focusQuery || m.focus == focusAPIKey)
}

func (m Model) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case m.currentView != ViewSearch:
	case m.focus == focusQuery:
		m.queryInput, cmd = m.queryInput.Update(msg)
	case m.focus == focusAPIKey:
		m.apiKeyInput, cmd = m.apiKeyInput.Update(msg)
	}
	return m, cmd
}

func (m Model) setView(v View) (tea.Model, tea.Cmd) {
	m.currentView = v
	if v != ViewSearch {
		m.queryInput.Blur()
		m.apiKeyInput.Blur()
		m.results.Blur()
		if v == ViewAbout {
			return m, logTailCmd(m.about.LogFile)
		}
		return m, nil
	}
	cmd := m.setFocus(m.focus)
	return m, cmd
}

// setFocus moves focus to f and returns the input's cursor command, if any.
func (m *Model) setFocus(f focusArea) tea.Cmd {
	m.focus = f
	m.queryInput.Blur()
	m.apiKeyInput.Blur()
	m.results.Blur()
	switch f {
	case focusQuery:
		return m.queryInput.Focus()
	case focusAPIKey:
		return m.apiKeyInput.Focus()
	case focusResults:
		m.results.Focus()
	}
	return nil
}

func (m *Model) cycleFocus(step int) tea.Cmd {
	idx := 0
	for i, f := range focusOrder {
		if f == m.focus {
			idx = i
			break
		}
	}
	n := len(focusOrder)
	return m.setFocus(focusOrder[((idx+step)%n+n)%n])
}

// submit runs a search with the current form values.
func (m Model) submit() (tea.Model, tea.Cmd) {
	req := session.Request{
		Query:       strings.TrimSpace(m.queryInput.Value()),
		CategoryIDs: m.selectedIDs(),
		APIKey:      strings.TrimSpace(m.apiKeyInput.Value()),
		Remember:    m.remember,
	}
	m.inflight++
	m.notice = ""

	// The session drops the previous outcome when the attempt starts.
	m.snapshot.Results = nil
	m.snapshot.FieldError = nil
	m.snapshot.LastError = nil
	m.syncResults()

	return m, searchCmd(m.ctx, m.session, req)
}

// selectedIDs returns the checked category ids in taxonomy order.
func (m Model) selectedIDs() []string {
	var ids []string
	for _, c := range m.snapshot.Categories {
		if m.selected[c.ID] {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

func (m *Model) toggle() {
	switch m.focus {
	case focusRemember:
		m.remember = !m.remember
	case focusCategories:
		cats := m.snapshot.Categories
		if len(cats) == 0 {
			return
		}
		id := cats[clampIndex(m.catCursor, len(cats))].ID
		if m.selected[id] {
			delete(m.selected, id)
		} else {
			m.selected[id] = true
		}
	}
}

// toggleAll selects every category, or clears the selection when all are
// already selected.
func (m *Model) toggleAll() {
	cats := m.snapshot.Categories
	if len(cats) == 0 {
		return
	}
	if len(m.selectedIDs()) == len(cats) {
		clear(m.selected)
		return
	}
	for _, c := range cats {
		m.selected[c.ID] = true
	}
}

func (m *Model) move(delta int) {
	switch m.focus {
	case focusCategories:
		m.catCursor = clampIndex(m.catCursor+delta, len(m.snapshot.Categories))
	case focusResults:
		if delta < 0 {
			m.results.MoveUp(-delta)
		} else {
			m.results.MoveDown(delta)
		}
	}
}

// moveTo jumps to the first (0) or last (-1) row.
func (m *Model) moveTo(pos int) {
	switch m.focus {
	case focusCategories:
		if pos < 0 {
			pos = len(m.snapshot.Categories) - 1
		}
		m.catCursor = clampIndex(pos, len(m.snapshot.Categories))
	case focusResults:
		if pos < 0 {
			m.results.GotoBottom()
		} else {
			m.results.GotoTop()
		}
	}
}

func (m *Model) cycleTheme() {
	m.theme = GetTheme(NextTheme(m.theme.Name))
	m.applyTableStyles()
	if err := m.session.SaveTheme(m.theme.Name); err != nil {
		m.notice = "Theme not saved: " + err.Error()
	}
}

func clampIndex(i, n int) int {
	if n <= 0 {
		return 0
	}
	return min(max(i, 0), n-1)
}

// Messages

type categoriesMsg struct{ err error }

type searchDoneMsg struct{ err error }

type logTailMsg struct {
	entries []logtail.Entry
	err     error
}

// Commands

func fetchCategoriesCmd(ctx context.Context, s Searcher) tea.Cmd {
	return func() tea.Msg {
		_, err := s.FetchCategories(ctx)
		return categoriesMsg{err: err}
	}
}

func searchCmd(ctx context.Context, s Searcher, req session.Request) tea.Cmd {
	return func() tea.Msg {
		return searchDoneMsg{err: s.Search(ctx, req)}
	}
}

// recentLogLines is how many log entries the about view shows.
const recentLogLines = 6

func logTailCmd(path string) tea.Cmd {
	return func() tea.Msg {
		entries, err := logtail.Tail(path, recentLogLines)
		return logTailMsg{entries: entries, err: err}
	}
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	p := tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
