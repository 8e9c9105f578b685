package ui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/atlas/internal/explorer"
	"github.com/five82/atlas/internal/filter"
	"github.com/five82/atlas/internal/logging"
	"github.com/five82/atlas/internal/prefs"
	"github.com/five82/atlas/internal/restcountries"
	"github.com/five82/atlas/internal/state"
	"github.com/five82/atlas/internal/urlstate"
)

// Loader performs the network work the UI asks for. Every method blocks and
// is only ever called from a tea.Cmd.
type Loader interface {
	Load(ctx context.Context, gen state.Generation, c state.Criteria) bool
	Country(ctx context.Context, name string) (*restcountries.Country, error)
	Borders(ctx context.Context, codes []string) ([]restcountries.Country, error)
}

// Options configures the UI.
type Options struct {
	Context   context.Context
	Store     *state.Store
	Explorer  *explorer.Explorer
	Loader    Loader
	Theme     prefs.Theme
	PrefsPath string
}

type inputMode int

const (
	modeNormal inputMode = iota
	modeSearch
	modeLocation
)

// detailState holds the country shown on a /country/{name} screen.
type detailState struct {
	name       string
	country    *restcountries.Country
	loading    bool
	err        error
	borders    []restcountries.Country
	bordersErr error
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	store     *state.Store
	explorer  *explorer.Explorer
	loader    Loader
	prefsPath string
	keys      keyMap

	// UI state
	theme  Theme
	width  int
	height int
	ready  bool
	mode   inputMode
	notice string

	// Data state
	snapshot state.Snapshot
	rows     []restcountries.Country

	// Table state
	selectedRow int
	offset      int

	// Inputs
	searchInput   textinput.Model
	locationInput textinput.Model
	spinner       spinner.Model

	// Detail state
	detail         detailState
	detailViewport viewport.Model

	showHelp bool

	startup tea.Cmd
}

// New creates the model, mounts the starting location and begins the
// initial load.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	store := opts.Store
	if store == nil {
		store = &state.Store{}
	}
	exp := opts.Explorer
	if exp == nil {
		exp = explorer.New("")
	}
	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	theme := GetTheme(opts.Theme)

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "name, capital or code"

	location := textinput.New()
	location.Prompt = ": "
	location.Placeholder = "/?region=Europe&sortBy=population"

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	m := Model{
		ctx:           ctx,
		store:         store,
		explorer:      exp,
		loader:        opts.Loader,
		prefsPath:     prefsPath,
		keys:          DefaultKeyMap(),
		theme:         theme,
		searchInput:   search,
		locationInput: location,
		spinner:       spin,
	}
	m.applyThemeToInputs()

	refresh := exp.Mount()
	m.searchInput.SetValue(exp.State().Search)
	cmds := []tea.Cmd{m.applyRefresh(refresh), m.syncRoute()}
	m.startup = tea.Batch(cmds...)
	m.refreshRows()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.startup, m.spinner.Tick)
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
			m.detailViewport = viewport.New(msg.Width, m.detailHeight())
		}
		m.ready = true
		m.resize()
		return m, nil

	case loadedMsg:
		if !msg.accepted {
			return m, nil
		}
		m.refreshRows()
		if m.detail.name != "" && m.detail.country == nil && !m.detail.loading {
			cmd := m.syncRoute()
			return m, cmd
		}
		return m, nil

	case countryMsg:
		return m.handleCountry(msg)

	case bordersMsg:
		if msg.name != m.detail.name {
			return m, nil
		}
		m.detail.borders = msg.borders
		if m.detail.borders == nil {
			m.detail.borders = []restcountries.Country{}
		}
		m.detail.bordersErr = msg.err
		m.updateDetailViewport()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
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

// handleKey routes a key press to the active input or screen.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}
	m.notice = ""

	switch m.mode {
	case modeSearch:
		return m.handleSearchKey(msg)
	case modeLocation:
		return m.handleLocationKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.ToggleTheme):
		m.toggleTheme()
		return m, nil
	case key.Matches(msg, m.keys.Location):
		m.mode = modeLocation
		m.locationInput.SetValue(m.explorer.Location().String())
		m.locationInput.CursorEnd()
		cmd := m.locationInput.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.Back):
		return m.goBack()
	case key.Matches(msg, m.keys.Forward):
		r, ok := m.explorer.Forward()
		if !ok {
			return m, nil
		}
		cmd := m.afterNavigation(r)
		return m, cmd
	}

	if m.explorer.Route().Kind == urlstate.RouteCountry {
		return m.handleDetailKey(msg)
	}
	return m.handleListKey(msg)
}

// handleListKey processes keys on the country list.
func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	st := m.explorer.State()

	switch {
	case key.Matches(msg, m.keys.Search):
		m.mode = modeSearch
		m.searchInput.SetValue(st.Search)
		m.searchInput.CursorEnd()
		cmd := m.searchInput.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.CycleRegion):
		next := explorer.NextRegion(explorer.RegionChoices(m.snapshot.Records), st.Region)
		cmd := m.afterWrite(m.explorer.SetRegion(next))
		return m, cmd

	case key.Matches(msg, m.keys.ToggleSortKey):
		cmd := m.afterWrite(m.explorer.SetSort(st.SortBy.Toggle(), st.SortOrder))
		return m, cmd

	case key.Matches(msg, m.keys.ToggleOrder):
		cmd := m.afterWrite(m.explorer.SetSort(st.SortBy, st.SortOrder.Toggle()))
		return m, cmd

	case key.Matches(msg, m.keys.Clear):
		m.searchInput.SetValue("")
		cmd := m.afterWrite(m.explorer.Clear())
		return m, cmd

	case key.Matches(msg, m.keys.Reload):
		cmd := m.beginLoad(st.Region)
		return m, cmd

	case key.Matches(msg, m.keys.Escape):
		if st.Search != "" {
			m.searchInput.SetValue("")
			cmd := m.afterWrite(m.explorer.SetSearch(""))
			return m, cmd
		}
		return m, nil

	case key.Matches(msg, m.keys.Open):
		if c, ok := m.selectedCountry(); ok {
			m.explorer.OpenCountry(c.Name.Common)
			cmd := m.syncRoute()
			return m, cmd
		}
		return m, nil
	}

	m.moveSelection(msg)
	return m, nil
}

// handleDetailKey processes keys on a country screen.
func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		return m.goBack()
	case key.Matches(msg, m.keys.Reload):
		m.detail = detailState{}
		cmd := m.syncRoute()
		return m, cmd
	}
	var cmd tea.Cmd
	m.detailViewport, cmd = m.detailViewport.Update(msg)
	return m, cmd
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "enter":
		m.mode = modeNormal
		m.searchInput.Blur()
		return m, nil
	case "esc":
		m.mode = modeNormal
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		cmd := m.afterWrite(m.explorer.SetSearch(""))
		return m, cmd
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	if value := m.searchInput.Value(); value != m.explorer.State().Search {
		batch := tea.Batch(cmd, m.afterWrite(m.explorer.SetSearch(value)))
		return m, batch
	}
	return m, cmd
}

func (m Model) handleLocationKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "enter":
		m.mode = modeNormal
		m.locationInput.Blur()
		r := m.explorer.Navigate(m.locationInput.Value())
		cmd := m.afterNavigation(r)
		return m, cmd
	case "esc":
		m.mode = modeNormal
		m.locationInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.locationInput, cmd = m.locationInput.Update(msg)
	return m, cmd
}

func (m Model) goBack() (tea.Model, tea.Cmd) {
	r, ok := m.explorer.Back()
	if !ok {
		return m, nil
	}
	cmd := m.afterNavigation(r)
	return m, cmd
}

// afterWrite re-derives the table after a filter edit and starts a load
// when the edit asked for one.
func (m *Model) afterWrite(r filter.Refresh) tea.Cmd {
	m.refreshRows()
	return m.applyRefresh(r)
}

// afterNavigation is afterWrite for history moves, which may also switch
// between the list and a country screen.
func (m *Model) afterNavigation(r filter.Refresh) tea.Cmd {
	m.searchInput.SetValue(m.explorer.State().Search)
	return tea.Batch(m.afterWrite(r), m.syncRoute())
}

func (m *Model) applyRefresh(r filter.Refresh) tea.Cmd {
	if !r.Needed {
		return nil
	}
	return m.beginLoad(r.Region)
}

// beginLoad marks the store loading on the event loop and returns the
// command that fetches.
func (m *Model) beginLoad(region string) tea.Cmd {
	c := state.Criteria{Region: region}
	gen := m.store.Begin(c)
	m.snapshot = m.store.Snapshot()
	if m.loader == nil {
		return nil
	}
	ctx, loader := m.ctx, m.loader
	return func() tea.Msg {
		return loadedMsg{gen: gen, accepted: loader.Load(ctx, gen, c)}
	}
}

// refreshRows pulls the latest snapshot and re-derives the visible rows.
func (m *Model) refreshRows() {
	m.snapshot = m.store.Snapshot()
	m.rows = m.explorer.View(m.snapshot.Records)
	m.clampSelection()
}

// syncRoute brings the detail state in line with the current location.
func (m *Model) syncRoute() tea.Cmd {
	route := m.explorer.Route()
	if route.Kind != urlstate.RouteCountry {
		m.detail = detailState{}
		return nil
	}
	if m.detail.name == route.Country && (m.detail.country != nil || m.detail.loading) {
		return nil
	}

	m.detail = detailState{name: route.Country}
	if c, ok := findByName(m.snapshot.Records, route.Country); ok {
		m.detail.country = &c
		m.updateDetailViewport()
		return m.bordersCmd(c)
	}
	if m.loader == nil {
		return nil
	}
	m.detail.loading = true
	m.updateDetailViewport()
	ctx, loader, name := m.ctx, m.loader, route.Country
	return func() tea.Msg {
		c, err := loader.Country(ctx, name)
		return countryMsg{name: name, country: c, err: err}
	}
}

func (m Model) handleCountry(msg countryMsg) (tea.Model, tea.Cmd) {
	if msg.name != m.detail.name {
		return m, nil
	}
	m.detail.loading = false
	m.detail.err = msg.err
	m.detail.country = msg.country
	m.updateDetailViewport()
	if msg.country == nil {
		return m, nil
	}
	cmd := m.bordersCmd(*msg.country)
	return m, cmd
}

func (m *Model) bordersCmd(c restcountries.Country) tea.Cmd {
	if len(c.Borders) == 0 {
		return nil
	}
	// Borders already on hand need no request.
	if resolved, ok := resolveBorders(m.snapshot.Records, c.Borders); ok {
		m.detail.borders = resolved
		m.updateDetailViewport()
		return nil
	}
	if m.loader == nil {
		return nil
	}
	ctx, loader, name, codes := m.ctx, m.loader, m.detail.name, c.Borders
	return func() tea.Msg {
		borders, err := loader.Borders(ctx, codes)
		return bordersMsg{name: name, borders: borders, err: err}
	}
}

func (m *Model) toggleTheme() {
	next := m.theme.Name.Toggle()
	m.theme = GetTheme(next)
	m.applyThemeToInputs()
	m.updateDetailViewport()
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Save(m.prefsPath, prefs.Prefs{Theme: next}); err != nil {
		logging.Warn("save prefs failed", "error", err)
		m.notice = "could not save theme"
	}
}

func (m *Model) applyThemeToInputs() {
	styles := m.theme.Styles()
	for _, in := range []*textinput.Model{&m.searchInput, &m.locationInput} {
		in.PromptStyle = styles.AccentText
		in.TextStyle = styles.Text
		in.PlaceholderStyle = styles.FaintText
	}
	m.spinner.Style = styles.AccentText
}

func (m *Model) resize() {
	m.searchInput.Width = max(m.width-4, 10)
	m.locationInput.Width = max(m.width-4, 10)
	m.detailViewport.Width = m.width
	m.detailViewport.Height = m.detailHeight()
	m.clampSelection()
	m.updateDetailViewport()
}

// findByName matches a detail route against loaded records by common or
// official name, ignoring case.
func findByName(records []restcountries.Country, name string) (restcountries.Country, bool) {
	for _, c := range records {
		if strings.EqualFold(c.Name.Common, name) || strings.EqualFold(c.Name.Official, name) {
			return c, true
		}
	}
	return restcountries.Country{}, false
}

// resolveBorders maps codes to loaded records. It reports false if any code
// is missing.
func resolveBorders(records []restcountries.Country, codes []string) ([]restcountries.Country, bool) {
	out := make([]restcountries.Country, 0, len(codes))
	for _, code := range codes {
		c, ok := explorer.CountryByCode(records, code)
		if !ok {
			return nil, false
		}
		out = append(out, c)
	}
	return out, true
}

func errorText(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.Canceled) {
		return "cancelled"
	}
	return err.Error()
}

// Messages

type loadedMsg struct {
	gen      state.Generation
	accepted bool
}

type countryMsg struct {
	name    string
	country *restcountries.Country
	err     error
}

type bordersMsg struct {
	name    string
	borders []restcountries.Country
	err     error
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
