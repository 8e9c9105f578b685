package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/atlas/internal/format"
	"github.com/five82/atlas/internal/restcountries"
)

// detailHeight is the height of the country viewport.
func (m Model) detailHeight() int {
	return m.contentHeight()
}

// renderDetail renders the country screen.
func (m Model) renderDetail() string {
	return m.detailViewport.View()
}

// updateDetailViewport re-renders the country into the viewport.
func (m *Model) updateDetailViewport() {
	m.detailViewport.SetContent(m.detailContent())
}

// detailContent builds the country screen text.
func (m Model) detailContent() string {
	styles := m.theme.Styles()
	width := max(m.width-4, 30)
	d := m.detail

	var b strings.Builder
	switch {
	case d.name == "":
		return ""
	case d.loading:
		b.WriteString(styles.MutedText.Render(m.spinner.View() + " Loading " + d.name + "..."))
		return pad(b.String())
	case d.err != nil:
		b.WriteString(styles.DangerText.Render("Could not load " + d.name))
		b.WriteString("\n")
		b.WriteString(styles.MutedText.Render(errorText(d.err)))
		b.WriteString("\n\n")
		b.WriteString(styles.FaintText.Render("Press R to retry or esc to go back"))
		return pad(b.String())
	case d.country == nil:
		b.WriteString(styles.WarningText.Render("No country named " + d.name))
		b.WriteString("\n\n")
		b.WriteString(styles.FaintText.Render("Press esc to go back"))
		return pad(b.String())
	}

	c := *d.country
	b.WriteString(styles.Logo.Render(c.Name.Common))
	if code := c.Code(); code != "" {
		b.WriteString(" ")
		b.WriteString(styles.FaintText.Render(code))
	}
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", min(width, 48))))
	b.WriteString("\n\n")

	fields := []struct{ label, value string }{
		{"Official name", format.OrNA(c.Name.Official)},
		{"Native names", format.List(c.NativeNames())},
		{"Capital", format.List(c.Capital)},
		{"Region", format.OrNA(c.Region)},
		{"Subregion", format.OrNA(c.Subregion)},
		{"Population", format.Population(float64(c.Population))},
		{"Currencies", format.Currencies(c.Currencies)},
		{"Languages", format.Languages(c.Languages)},
		{"Codes", codesLabel(c)},
	}
	labelStyle := styles.MutedText.Width(16)
	valueStyle := styles.Text.Width(max(width-16, 14))
	for _, f := range fields {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(f.label), valueStyle.Render(f.value)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.AccentText.Bold(true).Render("Border countries"))
	b.WriteString("\n")
	b.WriteString(m.bordersContent(c, styles))
	return pad(b.String())
}

func (m Model) bordersContent(c restcountries.Country, styles Styles) string {
	d := m.detail
	switch {
	case len(c.Borders) == 0:
		return styles.FaintText.Render("None")
	case d.bordersErr != nil:
		return styles.DangerText.Render("Could not load borders: "+errorText(d.bordersErr)) +
			"\n" + styles.FaintText.Render(strings.Join(c.Borders, ", "))
	case d.borders == nil:
		return styles.MutedText.Render("Loading...")
	case len(d.borders) == 0:
		return styles.FaintText.Render(strings.Join(c.Borders, ", "))
	}

	lines := make([]string, 0, len(d.borders))
	for _, n := range d.borders {
		lines = append(lines, fmt.Sprintf("%s %s",
			styles.Text.Render(n.Name.Common),
			styles.FaintText.Render("("+n.Code()+")")))
	}
	return strings.Join(lines, "\n")
}

func codesLabel(c restcountries.Country) string {
	var codes []string
	if c.CCA2 != "" {
		codes = append(codes, c.CCA2)
	}
	if c.CCA3 != "" {
		codes = append(codes, c.CCA3)
	}
	return format.List(codes)
}

// pad indents every line of the detail view.
func pad(s string) string {
	return lipgloss.NewStyle().Padding(1, 2).Render(s)
}
