package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/cockroachdb/errors"

	"github.com/statewalk/evlog/internal/event"
	"github.com/statewalk/evlog/internal/eventstore"
	"github.com/statewalk/evlog/internal/filter"
	"github.com/statewalk/evlog/internal/prefs"
	"github.com/statewalk/evlog/internal/render"
	"github.com/statewalk/evlog/internal/source"
	"github.com/statewalk/evlog/internal/state"
)

// inputMode tells which query the text input is editing.
type inputMode int

const (
	inputNone inputMode = iota
	inputFilter
	inputWhere
)

// Options configures the browse viewer.
type Options struct {
	Context   context.Context
	Source    source.Source
	Store     *state.Store
	Date      time.Time
	Query     filter.Query
	Prefs     prefs.Prefs
	PrefsPath string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx       context.Context
	src       source.Source
	store     *state.Store
	prefs     prefs.Prefs
	prefsPath string
	keys      keyMap

	theme  Theme
	width  int
	height int
	ready  bool

	date     time.Time
	snapshot state.Snapshot
	notFound bool
	loading  bool

	query    filter.Query
	records  []event.Record
	selected int
	offset   int

	detail    viewport.Model
	input     textinput.Model
	inputMode inputMode
	inputErr  string
	showHelp  bool
}

// New creates the browse model. It does not touch the source until Init.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	store := opts.Store
	if store == nil {
		store = &state.Store{}
	}
	date := opts.Date
	if date.IsZero() {
		date = time.Now()
	}
	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	ti := textinput.New()
	ti.CharLimit = 200

	return Model{
		ctx:       ctx,
		src:       opts.Source,
		store:     store,
		prefs:     opts.Prefs,
		prefsPath: prefsPath,
		keys:      DefaultKeyMap(),
		theme:     GetTheme(opts.Prefs.Theme),
		date:      eventstore.Today(date),
		query:     opts.Query,
		input:     ti,
		loading:   opts.Source != nil,
	}
}

// Init implements tea.Model. New already marks the first load as pending.
func (m Model) Init() tea.Cmd {
	return m.loadCmd()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.detail = viewport.New(0, 0)
		}
		m.ready = true
		m.resize()
		m.updateDetail()
		return m, nil

	case loadedMsg:
		m.loading = false
		if msg.date != eventstore.FormatDate(m.date) {
			// A stale reply for a day the user has already left.
			return m, nil
		}
		m.notFound = false
		switch {
		case errors.Is(msg.err, eventstore.ErrNotFound):
			m.notFound = true
			m.store.Update(&source.Day{Date: msg.date}, nil)
		case msg.err != nil:
			m.store.Update(nil, msg.err)
		default:
			day := msg.day
			m.store.Update(&day, nil)
		}
		m.snapshot = m.store.Snapshot()
		m.applyQuery()
		return m, nil
	}

	return m, nil
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

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if m.inputMode != inputNone {
		return m.handleInputKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.prefs.Theme = m.theme.Name
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.Reload):
		cmd := m.loadCmd()
		return m, cmd

	case key.Matches(msg, m.keys.PrevDay):
		m.date = m.date.AddDate(0, 0, -1)
		cmd := m.loadCmd()
		return m, cmd

	case key.Matches(msg, m.keys.NextDay):
		m.date = m.date.AddDate(0, 0, 1)
		cmd := m.loadCmd()
		return m, cmd

	case key.Matches(msg, m.keys.Filter):
		value := m.query.Value
		if value == "" {
			value = m.prefs.LastFilter
		}
		cmd := m.openInput(inputFilter, "category, type or machine id", value)
		return m, cmd

	case key.Matches(msg, m.keys.Where):
		cmd := m.openInput(inputWhere, `machine == "call-001" && !success`, m.query.Where)
		return m, cmd

	case key.Matches(msg, m.keys.Escape):
		if m.query.Value != "" || m.query.Where != "" {
			m.query = filter.Query{}
			m.applyQuery()
		}
		return m, nil

	case key.Matches(msg, m.keys.ToggleCondensed):
		m.prefs.Condensed = !m.prefs.Condensed
		m.savePrefs()
		m.resize()
		m.updateDetail()
		return m, nil
	}

	return m.handleNavKey(msg)
}

func (m Model) handleNavKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	count := len(m.records)
	if count == 0 {
		return m, nil
	}
	page := m.listHeight()
	if page < 1 {
		page = 1
	}

	switch {
	case key.Matches(msg, m.keys.Down):
		m.selected++
	case key.Matches(msg, m.keys.Up):
		m.selected--
	case key.Matches(msg, m.keys.Top):
		m.selected = 0
	case key.Matches(msg, m.keys.Bottom):
		m.selected = count - 1
	case key.Matches(msg, m.keys.PageDown):
		m.selected += page
	case key.Matches(msg, m.keys.PageUp):
		m.selected -= page
	case key.Matches(msg, m.keys.HalfPageDown):
		m.detail.HalfPageDown()
		return m, nil
	case key.Matches(msg, m.keys.HalfPageUp):
		m.detail.HalfPageUp()
		return m, nil
	default:
		return m, nil
	}

	m.clampSelection()
	m.updateDetail()
	return m, nil
}

func (m *Model) openInput(mode inputMode, placeholder, value string) tea.Cmd {
	m.inputMode = mode
	m.inputErr = ""
	m.input.Placeholder = placeholder
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		value := m.input.Value()
		switch m.inputMode {
		case inputFilter:
			m.query.Value = value
			if value != "" {
				m.prefs.LastFilter = value
				m.savePrefs()
			}
		case inputWhere:
			if value != "" {
				if _, err := filter.Compile(value); err != nil {
					// Stay in the input so the expression can be fixed.
					m.inputErr = err.Error()
					return m, nil
				}
			}
			m.query.Where = value
		}
		m.closeInput()
		m.applyQuery()
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		m.closeInput()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) closeInput() {
	m.inputMode = inputNone
	m.inputErr = ""
	m.input.Blur()
}

// applyQuery recomputes the visible records and keeps the selection in range.
func (m *Model) applyQuery() {
	records, err := filter.Apply(m.snapshot.Day.Records, m.query)
	if err != nil {
		m.inputErr = err.Error()
		m.query.Where = ""
		records, _ = filter.Apply(m.snapshot.Day.Records, m.query)
	}
	m.records = records
	m.clampSelection()
	m.updateDetail()
}

func (m *Model) clampSelection() {
	count := len(m.records)
	if m.selected >= count {
		m.selected = count - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
	height := m.listHeight()
	if height < 1 {
		m.offset = m.selected
		return
	}
	if m.selected < m.offset {
		m.offset = m.selected
	}
	if m.selected >= m.offset+height {
		m.offset = m.selected - height + 1
	}
}

func (m *Model) updateDetail() {
	if !m.ready {
		return
	}
	rec, ok := m.selectedRecord()
	if !ok {
		m.detail.SetContent("")
		return
	}
	m.detail.SetContent(render.Detailed(rec))
	m.detail.GotoTop()
}

func (m Model) selectedRecord() (event.Record, bool) {
	if m.selected < 0 || m.selected >= len(m.records) {
		return event.Record{}, false
	}
	return m.records[m.selected], true
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	_ = prefs.Save(m.prefsPath, m.prefs)
}

// Messages

type loadedMsg struct {
	date string
	day  source.Day
	err  error
}

// Commands

func (m *Model) loadCmd() tea.Cmd {
	if m.src == nil {
		return nil
	}
	m.loading = true
	ctx, src := m.ctx, m.src
	date := eventstore.FormatDate(m.date)
	return func() tea.Msg {
		day, err := src.Events(ctx, date)
		return loadedMsg{date: date, day: day, err: err}
	}
}

// Run starts the Bubble Tea program and blocks until the user quits or the
// context is cancelled.
func Run(opts Options) error {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	p := tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}
