package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/atlas/internal/format"
	"github.com/five82/atlas/internal/restcountries"
)

// tableColumn defines a column in the country table.
type tableColumn struct {
	label string
	width int
	right bool
	value func(restcountries.Country) string
}

// columns returns the columns that fit the current width.
func (m Model) columns() []tableColumn {
	inner := max(m.width-2, minNameColWidth)
	compact := m.width < LayoutCompactWidth
	wide := m.width >= LayoutWideWidth

	fixed := populationColWidth
	if !compact {
		fixed += regionColWidth
	}
	if wide {
		fixed += subregionColWidth
	}

	gaps := 1
	if !compact {
		gaps += 2
	}
	if wide {
		gaps++
	}
	flex := max(inner-fixed-gaps, minNameColWidth)

	nameWidth := flex
	capitalWidth := 0
	if !compact {
		nameWidth = max(flex*3/5, minNameColWidth)
		capitalWidth = max(flex-nameWidth, 8)
	}

	cols := []tableColumn{{
		label: "Name",
		width: nameWidth,
		value: func(c restcountries.Country) string { return c.Name.Common },
	}}
	if !compact {
		cols = append(cols,
			tableColumn{
				label: "Capital",
				width: capitalWidth,
				value: func(c restcountries.Country) string { return format.OrNA(c.PrimaryCapital()) },
			},
			tableColumn{
				label: "Region",
				width: regionColWidth,
				value: func(c restcountries.Country) string { return format.OrNA(c.Region) },
			},
		)
	}
	if wide {
		cols = append(cols, tableColumn{
			label: "Subregion",
			width: subregionColWidth,
			value: func(c restcountries.Country) string { return format.OrNA(c.Subregion) },
		})
	}
	cols = append(cols, tableColumn{
		label: "Population",
		width: populationColWidth,
		right: true,
		value: func(c restcountries.Country) string { return format.Population(float64(c.Population)) },
	})
	return cols
}

// renderTable renders the visible window of the country table.
func (m Model) renderTable() string {
	styles := m.theme.Styles()

	if len(m.rows) == 0 {
		return m.renderEmptyTable()
	}

	cols := m.columns()
	rowStyle := lipgloss.NewStyle().Width(m.width).Padding(0, 1)

	var b strings.Builder
	b.WriteString(rowStyle.Inherit(styles.SurfaceAlt).Render(formatRow(cols, nil)))

	end := min(m.offset+m.tableHeight(), len(m.rows))
	for i := m.offset; i < end; i++ {
		c := m.rows[i]
		style := rowStyle.Inherit(styles.Text).Background(lipgloss.Color(m.theme.Background))
		if i == m.selectedRow {
			style = rowStyle.Inherit(styles.Selected)
		}
		b.WriteString("\n")
		b.WriteString(style.Render(formatRow(cols, &c)))
	}
	return b.String()
}

// formatRow lays out one row. A nil country renders the column titles.
func formatRow(cols []tableColumn, c *restcountries.Country) string {
	cells := make([]string, len(cols))
	for i, col := range cols {
		text := col.label
		if c != nil {
			text = col.value(*c)
		}
		if col.right {
			cells[i] = padLeft(text, col.width)
		} else {
			cells[i] = padRight(text, col.width)
		}
	}
	return strings.Join(cells, " ")
}

func (m Model) renderEmptyTable() string {
	styles := m.theme.Styles().WithBackground(m.theme.Background)

	var msg string
	switch {
	case m.snapshot.Loading():
		msg = styles.MutedText.Render("Loading countries...")
	case m.snapshot.LastError != nil && len(m.snapshot.Records) == 0:
		msg = styles.DangerText.Render("Could not load countries: "+errorText(m.snapshot.LastError)) +
			"\n" + styles.FaintText.Render("Press R to retry")
	case len(m.snapshot.Records) == 0:
		msg = styles.MutedText.Render("No countries loaded")
	default:
		msg = styles.MutedText.Render("No countries match") +
			"\n" + styles.FaintText.Render("Press c to clear filters")
	}

	return lipgloss.Place(m.width, m.contentHeight(), lipgloss.Center, lipgloss.Center, msg,
		lipgloss.WithWhitespaceBackground(lipgloss.Color(m.theme.Background)))
}

// tableHeight is the number of data rows that fit below the title row.
func (m Model) tableHeight() int {
	return max(m.contentHeight()-tableHeaderRows, 1)
}

// moveSelection handles list navigation keys.
func (m *Model) moveSelection(msg tea.KeyMsg) {
	if len(m.rows) == 0 {
		return
	}
	page := m.tableHeight()
	switch {
	case key.Matches(msg, m.keys.Up):
		m.selectedRow--
	case key.Matches(msg, m.keys.Down):
		m.selectedRow++
	case key.Matches(msg, m.keys.Top):
		m.selectedRow = 0
	case key.Matches(msg, m.keys.Bottom):
		m.selectedRow = len(m.rows) - 1
	case key.Matches(msg, m.keys.PageUp):
		m.selectedRow -= page
	case key.Matches(msg, m.keys.PageDown):
		m.selectedRow += page
	default:
		return
	}
	m.clampSelection()
}

// clampSelection keeps the selection on a row and scrolls it into view.
func (m *Model) clampSelection() {
	n := len(m.rows)
	if n == 0 {
		m.selectedRow, m.offset = 0, 0
		return
	}
	m.selectedRow = min(max(m.selectedRow, 0), n-1)

	h := m.tableHeight()
	if m.selectedRow < m.offset {
		m.offset = m.selectedRow
	}
	if m.selectedRow >= m.offset+h {
		m.offset = m.selectedRow - h + 1
	}
	m.offset = min(max(m.offset, 0), max(n-h, 0))
}

// selectedCountry returns the highlighted row.
func (m Model) selectedCountry() (restcountries.Country, bool) {
	if m.selectedRow < 0 || m.selectedRow >= len(m.rows) {
		return restcountries.Country{}, false
	}
	return m.rows[m.selectedRow], true
}
