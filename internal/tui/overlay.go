package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Overlay kinds.
const (
	overlayNone = iota
	overlayHelp
	overlayAddTask
	overlayEditTask
)

// renderOverlay draws content centered over a dimmed copy of base.
func renderOverlay(base, content string, width, height int) string {
	rows := strings.Split(base, "\n")
	for i, row := range rows {
		rows[i] = overlayDimStyle.Render(ansi.Strip(row))
	}

	boxLines := strings.Split(content, "\n")
	boxWidth := 0
	for _, l := range boxLines {
		boxWidth = max(boxWidth, lipgloss.Width(l))
	}

	top := max((height-len(boxLines))/2, 1)
	left := max((width-boxWidth)/2, 1)

	for i, line := range boxLines {
		row := top + i
		if row >= len(rows) {
			break
		}
		bg := rows[row]
		bgWidth := lipgloss.Width(bg)

		leftPart := ansi.Truncate(bg, left, "")
		if pad := left - lipgloss.Width(leftPart); pad > 0 {
			leftPart += strings.Repeat(" ", pad)
		}

		rightPart := ""
		if rightStart := left + lipgloss.Width(line); rightStart < bgWidth {
			rightPart = ansi.Cut(bg, rightStart, bgWidth)
		}

		rows[row] = leftPart + "\033[0m" + line + "\033[0m" + rightPart
	}

	return strings.Join(rows, "\n")
}
