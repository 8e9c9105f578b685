package ui

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/atlas/internal/explorer"
	"github.com/five82/atlas/internal/prefs"
	"github.com/five82/atlas/internal/restcountries"
	"github.com/five82/atlas/internal/state"
	"github.com/five82/atlas/internal/urlstate"
)

var testRecords = []restcountries.Country{
	{
		Name:       restcountries.Name{Common: "Germany", Official: "Federal Republic of Germany"},
		Population: 83240525,
		Region:     "Europe",
		Subregion:  "Western Europe",
		Capital:    []string{"Berlin"},
		Borders:    []string{"FRA"},
		CCA2:       "DE",
		CCA3:       "DEU",
	},
	{
		Name:       restcountries.Name{Common: "France", Official: "French Republic"},
		Population: 67391582,
		Region:     "Europe",
		Subregion:  "Western Europe",
		Capital:    []string{"Paris"},
		Borders:    []string{"DEU"},
		CCA2:       "FR",
		CCA3:       "FRA",
	},
	{
		Name:       restcountries.Name{Common: "Peru", Official: "Republic of Peru"},
		Population: 32971846,
		Region:     "Americas",
		Subregion:  "South America",
		Capital:    []string{"Lima"},
		CCA2:       "PE",
		CCA3:       "PER",
	},
}

// fakeLoader completes loads against the store from a fixed record set.
type fakeLoader struct {
	store *state.Store

	mu        sync.Mutex
	loads     []state.Criteria
	countries []string
}

func (f *fakeLoader) Load(_ context.Context, gen state.Generation, c state.Criteria) bool {
	f.mu.Lock()
	f.loads = append(f.loads, c)
	f.mu.Unlock()

	var records []restcountries.Country
	for _, r := range testRecords {
		if c.Region == "" || r.Region == c.Region {
			records = append(records, r)
		}
	}
	return f.store.Complete(gen, state.Result{Criteria: c, Records: records})
}

func (f *fakeLoader) Country(_ context.Context, name string) (*restcountries.Country, error) {
	f.mu.Lock()
	f.countries = append(f.countries, name)
	f.mu.Unlock()

	for _, r := range testRecords {
		if strings.EqualFold(r.Name.Common, name) {
			c := r
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeLoader) Borders(_ context.Context, codes []string) ([]restcountries.Country, error) {
	var out []restcountries.Country
	for _, code := range codes {
		if c, ok := explorer.CountryByCode(testRecords, code); ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func newTestModel(t *testing.T, location string) (Model, *fakeLoader, string) {
	t.Helper()
	store := &state.Store{}
	loader := &fakeLoader{store: store}
	prefsPath := filepath.Join(t.TempDir(), "prefs.toml")

	m := New(Options{
		Store:     store,
		Explorer:  explorer.New(location),
		Loader:    loader,
		Theme:     prefs.ThemeDark,
		PrefsPath: prefsPath,
	})
	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	m = drain(t, m, m.startup)
	return m, loader, prefsPath
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return out
}

// drain runs cmd and feeds its messages back into the model.
func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		return m
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			m = drain(t, m, c)
		}
		return m
	}
	next, follow := m.Update(msg)
	return drain(t, next.(Model), follow)
}

func press(t *testing.T, m Model, k string) (Model, tea.Cmd) {
	t.Helper()
	var msg tea.KeyMsg
	switch k {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEscape}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func rowNames(m Model) []string {
	names := make([]string, len(m.rows))
	for i, c := range m.rows {
		names[i] = c.Name.Common
	}
	return names
}

func TestNew_LoadsAllCountriesOnStartup(t *testing.T) {
	m, loader, _ := newTestModel(t, "")

	if len(loader.loads) != 1 || loader.loads[0].Region != "" {
		t.Fatalf("loads = %+v, want one load for all countries", loader.loads)
	}
	got := strings.Join(rowNames(m), ",")
	if got != "France,Germany,Peru" {
		t.Fatalf("rows = %s, want France,Germany,Peru", got)
	}
	if loc := m.explorer.Location().String(); loc != "/" {
		t.Fatalf("location = %q, want /", loc)
	}
}

func TestNew_SharedLinkWins(t *testing.T) {
	m, loader, _ := newTestModel(t, "/?region=Europe&sortBy=population&sortOrder=desc")

	if len(loader.loads) != 1 || loader.loads[0].Region != "Europe" {
		t.Fatalf("loads = %+v, want one load for Europe", loader.loads)
	}
	got := strings.Join(rowNames(m), ",")
	if got != "Germany,France" {
		t.Fatalf("rows = %s, want Germany,France", got)
	}
}

func TestCycleRegion_StartsLoadAndUpdatesLocation(t *testing.T) {
	m, loader, _ := newTestModel(t, "")

	m, cmd := press(t, m, "r")
	if cmd == nil {
		t.Fatalf("expected a load command")
	}
	if !m.snapshot.Loading() {
		t.Fatalf("expected loading status before the command runs")
	}
	m = drain(t, m, cmd)

	if m.explorer.State().Region != "Africa" {
		t.Fatalf("region = %q, want Africa", m.explorer.State().Region)
	}
	if loc := m.explorer.Location().String(); loc != "/?region=Africa" {
		t.Fatalf("location = %q, want /?region=Africa", loc)
	}
	if last := loader.loads[len(loader.loads)-1]; last.Region != "Africa" {
		t.Fatalf("last load = %+v, want Africa", last)
	}
	if m.explorer.CanBack() {
		t.Fatalf("filter edits must replace the history entry")
	}
}

func TestStaleLoad_IsIgnored(t *testing.T) {
	m, _, _ := newTestModel(t, "")

	m, first := press(t, m, "r")  // Africa
	m, second := press(t, m, "r") // Americas

	m = drain(t, m, second)
	m = drain(t, m, first)

	if got := m.snapshot.Criteria.Region; got != "Americas" {
		t.Fatalf("criteria region = %q, want Americas", got)
	}
	if got := strings.Join(rowNames(m), ","); got != "Peru" {
		t.Fatalf("rows = %s, want Peru", got)
	}
}

func TestSortKeys(t *testing.T) {
	m, _, _ := newTestModel(t, "")

	m, cmd := press(t, m, "s")
	if cmd != nil {
		t.Fatalf("sort change must not reload")
	}
	m, _ = press(t, m, "o")

	if got := strings.Join(rowNames(m), ","); got != "Germany,France,Peru" {
		t.Fatalf("rows = %s, want Germany,France,Peru", got)
	}
	if loc := m.explorer.Location().String(); loc != "/?sortBy=population&sortOrder=desc" {
		t.Fatalf("location = %q", loc)
	}
}

func TestSearchMode_LiveFilters(t *testing.T) {
	m, _, _ := newTestModel(t, "")

	m, _ = press(t, m, "/")
	if m.mode != modeSearch {
		t.Fatalf("mode = %v, want search", m.mode)
	}
	for _, r := range "peru" {
		m, _ = press(t, m, string(r))
	}
	if got := m.explorer.State().Search; got != "peru" {
		t.Fatalf("search = %q, want peru", got)
	}
	if len(m.rows) == 0 || m.rows[0].Name.Common != "Peru" {
		t.Fatalf("rows = %v, want Peru first", rowNames(m))
	}
	if loc := m.explorer.Location().String(); loc != "/?search=peru" {
		t.Fatalf("location = %q, want /?search=peru", loc)
	}

	m, _ = press(t, m, "enter")
	if m.mode != modeNormal {
		t.Fatalf("enter should leave search mode")
	}
	if m.explorer.State().Search != "peru" {
		t.Fatalf("enter should keep the search")
	}

	m, _ = press(t, m, "esc")
	if m.explorer.State().Search != "" || len(m.rows) != 3 {
		t.Fatalf("esc should clear the search, rows = %v", rowNames(m))
	}
}

func TestOpenCountry_AndEscapeGoesBack(t *testing.T) {
	m, _, _ := newTestModel(t, "/?sortBy=population&sortOrder=desc")

	m, _ = press(t, m, "enter")
	if m.explorer.Route().Kind != urlstate.RouteCountry {
		t.Fatalf("route = %+v, want country", m.explorer.Route())
	}
	if loc := m.explorer.Location().String(); loc != "/country/Germany" {
		t.Fatalf("location = %q, want /country/Germany", loc)
	}
	if m.detail.country == nil || m.detail.country.CCA3 != "DEU" {
		t.Fatalf("detail = %+v, want Germany", m.detail)
	}
	if len(m.detail.borders) != 1 || m.detail.borders[0].CCA3 != "FRA" {
		t.Fatalf("borders = %+v, want France", m.detail.borders)
	}
	if view := m.View(); !strings.Contains(view, "Federal Republic of Germany") {
		t.Fatalf("detail view missing official name")
	}

	m, _ = press(t, m, "esc")
	if m.explorer.Route().Kind != urlstate.RouteHome {
		t.Fatalf("esc should return to the list")
	}
	if st := m.explorer.State(); st.SortOrder != "desc" {
		t.Fatalf("filters lost after back: %+v", st)
	}
	if m.detail.name != "" {
		t.Fatalf("detail should be cleared, got %q", m.detail.name)
	}
}

func TestDetailRoute_FetchesUnknownCountry(t *testing.T) {
	m, loader, _ := newTestModel(t, "/?region=Europe")

	m, _ = press(t, m, ":")
	if m.mode != modeLocation {
		t.Fatalf("mode = %v, want location", m.mode)
	}
	m.locationInput.SetValue("/country/Peru")
	m, cmd := press(t, m, "enter")
	m = drain(t, m, cmd)

	if len(loader.countries) != 1 || loader.countries[0] != "Peru" {
		t.Fatalf("country lookups = %v, want [Peru]", loader.countries)
	}
	if m.detail.country == nil || m.detail.country.Name.Common != "Peru" {
		t.Fatalf("detail = %+v, want Peru", m.detail)
	}
	if len(m.detail.borders) != 0 {
		t.Fatalf("Peru has no borders in the fixture")
	}
}

func TestLocationMode_NavigatesAndBackRestores(t *testing.T) {
	m, loader, _ := newTestModel(t, "")

	m, _ = press(t, m, ":")
	m.locationInput.SetValue("/?region=Europe&sortBy=population&sortOrder=desc")
	m, cmd := press(t, m, "enter")
	m = drain(t, m, cmd)

	if got := strings.Join(rowNames(m), ","); got != "Germany,France" {
		t.Fatalf("rows = %s, want Germany,France", got)
	}
	if !m.explorer.CanBack() {
		t.Fatalf("navigation should push a history entry")
	}

	m, cmd = press(t, m, "[")
	m = drain(t, m, cmd)

	if st := m.explorer.State(); st.Region != "" || st.SortBy != "name" {
		t.Fatalf("state after back = %+v, want defaults", st)
	}
	if last := loader.loads[len(loader.loads)-1]; last.Region != "" {
		t.Fatalf("back should reload all countries, got %+v", last)
	}
	if got := len(m.rows); got != 3 {
		t.Fatalf("rows = %d, want 3", got)
	}

	m, cmd = press(t, m, "]")
	m = drain(t, m, cmd)
	if m.explorer.State().Region != "Europe" {
		t.Fatalf("forward should restore Europe")
	}
}

func TestLocationMode_EscapeCancels(t *testing.T) {
	m, _, _ := newTestModel(t, "")

	m, _ = press(t, m, ":")
	m.locationInput.SetValue("/?region=Asia")
	m, cmd := press(t, m, "esc")
	if cmd != nil {
		t.Fatalf("esc must not navigate")
	}
	if m.mode != modeNormal || m.explorer.State().Region != "" {
		t.Fatalf("esc should cancel without navigating")
	}
}

func TestClear_ResetsFilters(t *testing.T) {
	m, _, _ := newTestModel(t, "/?region=Europe&search=ger")

	m, cmd := press(t, m, "c")
	m = drain(t, m, cmd)

	if !m.explorer.State().IsDefault() {
		t.Fatalf("state = %+v, want defaults", m.explorer.State())
	}
	if loc := m.explorer.Location().String(); loc != "/" {
		t.Fatalf("location = %q, want /", loc)
	}
	if len(m.rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(m.rows))
	}
}

func TestThemeToggle_SavesPrefs(t *testing.T) {
	m, _, path := newTestModel(t, "")

	m, _ = press(t, m, "T")
	if m.theme.Name != prefs.ThemeLight {
		t.Fatalf("theme = %q, want light", m.theme.Name)
	}
	if got := prefs.Load(path).Theme; got != prefs.ThemeLight {
		t.Fatalf("saved theme = %q, want light", got)
	}
	if m.notice != "" {
		t.Fatalf("unexpected notice %q", m.notice)
	}
}

func TestNavigationKeys_ClampSelection(t *testing.T) {
	m, _, _ := newTestModel(t, "")

	m, _ = press(t, m, "k")
	if m.selectedRow != 0 {
		t.Fatalf("selectedRow = %d, want 0", m.selectedRow)
	}
	m, _ = press(t, m, "G")
	if m.selectedRow != 2 {
		t.Fatalf("selectedRow = %d, want 2", m.selectedRow)
	}
	m, _ = press(t, m, "j")
	if m.selectedRow != 2 {
		t.Fatalf("selectedRow = %d, want 2", m.selectedRow)
	}
	m, _ = press(t, m, "g")
	if m.selectedRow != 0 {
		t.Fatalf("selectedRow = %d, want 0", m.selectedRow)
	}
}

func TestHelpOverlay(t *testing.T) {
	m, _, _ := newTestModel(t, "")

	m, _ = press(t, m, "?")
	if !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Fatalf("help overlay not rendered")
	}
	m, _ = press(t, m, "x")
	if m.showHelp {
		t.Fatalf("any key should close help")
	}
}

func TestView_RendersTable(t *testing.T) {
	m, _, _ := newTestModel(t, "")

	view := m.View()
	for _, want := range []string{"atlas", "Germany", "83,240,525", "Berlin"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q", want)
		}
	}
}

func TestView_EmptyResults(t *testing.T) {
	m, _, _ := newTestModel(t, "/?search=zzzzzz")

	if len(m.rows) != 0 {
		t.Fatalf("rows = %v, want none", rowNames(m))
	}
	if !strings.Contains(m.View(), "No countries match") {
		t.Fatalf("empty state not rendered")
	}
}
