package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/atlas/internal/filter"
	"github.com/five82/atlas/internal/urlstate"
)

// renderMain composes the header, filter bar, content and footer.
func (m Model) renderMain() string {
	var content string
	if m.explorer.Route().Kind == urlstate.RouteCountry {
		content = m.renderDetail()
	} else {
		content = m.renderTable()
	}
	content = lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Background)).
		Width(m.width).
		Height(m.contentHeight()).
		MaxHeight(m.contentHeight()).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.renderFilterBar(),
		content,
		m.renderCommandBar(),
	)
}

// contentHeight is the number of rows left for the table or detail view.
func (m Model) contentHeight() int {
	return max(m.height-headerRows-filterRows-footerRows, 1)
}

// renderHeader renders the status bar.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	parts := []string{bg.Render("atlas", styles.Logo)}

	snap := m.snapshot
	switch {
	case snap.Loading():
		parts = append(parts,
			bg.Render(m.spinner.View(), styles.AccentText)+bg.Space()+
				bg.Render("Loading countries...", styles.WarningText))
	case len(snap.Records) > 0:
		count := fmt.Sprintf("%d", len(m.rows))
		if len(m.rows) != len(snap.Records) {
			count = fmt.Sprintf("%d/%d", len(m.rows), len(snap.Records))
		}
		parts = append(parts,
			bg.Render("Countries:", styles.MutedText)+bg.Space()+bg.Render(count, styles.Text))
	}

	if snap.Stale {
		label := "CACHED"
		if snap.IsOffline() {
			label = "OFFLINE"
		}
		parts = append(parts, bg.Render(label, styles.WarningText.Bold(true)))
	}

	if ts := formatTimestamp(snap.LastUpdated, time.Now()); ts != "" {
		parts = append(parts, bg.Render(ts, styles.MutedText))
	}

	if snap.LastError != nil && !snap.Loading() {
		maxErr := 60
		if m.width < LayoutCompactWidth {
			maxErr = 24
		}
		parts = append(parts,
			bg.Render("ERROR", styles.DangerText)+bg.Space()+
				bg.Render(truncate(errorText(snap.LastError), maxErr), styles.DangerText))
	}

	if m.notice != "" {
		parts = append(parts,
			bg.Render("!", styles.WarningText.Bold(true))+bg.Space()+
				bg.Render(m.notice, styles.WarningText))
	}

	return styles.Header.Width(m.width).MaxHeight(headerRows).Render(bg.Join(parts, "  "))
}

// renderFilterBar shows the active input, or the current location and
// filters when no input is focused.
func (m Model) renderFilterBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Background)
	bg := NewBgStyle(m.theme.Background)
	line := lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Background)).
		Width(m.width).
		MaxHeight(filterRows).
		Padding(0, 1)

	switch m.mode {
	case modeSearch:
		return line.Render(m.searchInput.View())
	case modeLocation:
		return line.Render(m.locationInput.View())
	}

	st := m.explorer.State()
	parts := []string{
		bg.Render(truncate(m.explorer.Location().String(), max(m.width/2, 20)), styles.InfoText),
	}
	if m.explorer.Route().Kind == urlstate.RouteHome {
		parts = append(parts,
			bg.Render("Region:", styles.MutedText)+bg.Space()+bg.Render(regionLabel(st.Region), styles.Text),
			bg.Render("Sort:", styles.MutedText)+bg.Space()+bg.Render(sortLabel(st), styles.Text),
		)
		if st.Search != "" {
			parts = append(parts, bg.Render("/"+truncate(st.Search, 24), styles.AccentText))
		}
	}
	return line.Render(bg.Join(parts, "  "))
}

// renderCommandBar renders the key hints for the current screen.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch {
	case m.mode == modeSearch:
		commands = []cmd{{"enter", "Keep"}, {"esc", "Clear"}}
	case m.mode == modeLocation:
		commands = []cmd{{"enter", "Go"}, {"esc", "Cancel"}}
	case m.explorer.Route().Kind == urlstate.RouteCountry:
		commands = []cmd{
			{"esc", "Back"},
			{"j/k", "Scroll"},
			{"R", "Reload"},
			{":", "Location"},
			{"?", "More"},
		}
	default:
		commands = []cmd{
			{"/", "Search"},
			{"r", "Region"},
			{"s", "Sort"},
			{"o", "Order"},
			{"c", "Clear"},
			{"enter", "Open"},
			{":", "Location"},
			{"?", "More"},
		}
	}
	if m.mode == modeNormal {
		if m.explorer.CanBack() {
			commands = append(commands, cmd{"[", "Back"})
		}
		if m.explorer.CanForward() {
			commands = append(commands, cmd{"]", "Forward"})
		}
	}

	colon := bg.Render(":", styles.FaintText)
	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}
	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(string(m.theme.Name), styles.FaintText))

	return styles.Footer.Width(m.width).MaxHeight(footerRows).Render(bg.Join(segments, "  "))
}

func regionLabel(region string) string {
	if region == "" {
		return "All"
	}
	return region
}

func sortLabel(st filter.State) string {
	arrow := "↑"
	if st.SortOrder == filter.Descending {
		arrow = "↓"
	}
	return string(st.SortBy) + " " + arrow
}

// formatTimestamp formats the last update time with a relative indicator.
func formatTimestamp(ts, now time.Time) string {
	if ts.IsZero() {
		return ""
	}
	since := now.Sub(ts)
	out := ts.Format("15:04:05")
	switch {
	case since < time.Minute:
		out += " (now)"
	case since < time.Hour:
		out += fmt.Sprintf(" (%dm ago)", int(since.Minutes()))
	case since < 24*time.Hour:
		out += fmt.Sprintf(" (%dh ago)", int(since.Hours()))
	default:
		out = ts.Format("Jan 02 15:04")
	}
	return strings.TrimSpace(out)
}
