package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// truncate shortens a string to the given display width, adding an ellipsis
// if needed.
func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 {
		return value
	}
	if lipgloss.Width(value) <= limit {
		return value
	}
	runes := []rune(value)
	if limit == 1 {
		return string(runes[:1])
	}
	out := make([]rune, 0, limit)
	width := 0
	for _, r := range runes {
		w := lipgloss.Width(string(r))
		if width+w > limit-1 {
			break
		}
		out = append(out, r)
		width += w
	}
	return string(out) + "…"
}

// padRight pads value with spaces to width. Longer values are truncated.
func padRight(value string, width int) string {
	value = truncate(value, width)
	if gap := width - lipgloss.Width(value); gap > 0 {
		return value + strings.Repeat(" ", gap)
	}
	return value
}

// padLeft right-aligns value within width.
func padLeft(value string, width int) string {
	value = truncate(value, width)
	if gap := width - lipgloss.Width(value); gap > 0 {
		return strings.Repeat(" ", gap) + value
	}
	return value
}
