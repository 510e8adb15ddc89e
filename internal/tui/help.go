package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type helpSection struct {
	title string
	keys  []helpKey
}

type helpKey struct {
	key  string
	desc string
}

var helpSections = []helpSection{
	{
		title: "Global",
		keys: []helpKey{
			{"Ctrl+q", "Quit"},
			{"Ctrl+h / ?", "Toggle help"},
			{"Tab", "Switch panel focus"},
		},
	},
	{
		title: "Ranked Tasks",
		keys: []helpKey{
			{"j/k ↑/↓", "Navigate tasks"},
			{"a", "Add new task"},
			{"e / Enter", "Edit task"},
			{"d", "Mark task Done"},
			{"i", "Mark task In Progress"},
			{"t", "Mark task Todo"},
			{"x", "Delete task"},
			{"u", "Undo last delete (5s)"},
		},
	},
	{
		title: "Details",
		keys: []helpKey{
			{"j/k", "Scroll"},
		},
	},
	{
		title: "Task Form",
		keys: []helpKey{
			{"Ctrl+s", "Save"},
			{"Esc", "Cancel"},
			{"Tab / Shift+Tab", "Next / previous field"},
			{"←/→ Space", "Change priority or status"},
		},
	},
}

// renderHelp renders the help overlay content.
func renderHelp(width int) string {
	maxWidth := 60
	if width-4 < maxWidth {
		maxWidth = width - 4
	}
	if maxWidth < 30 {
		maxWidth = 30
	}

	title := overlayTitleStyle.Render("Keyboard Shortcuts")
	sections := make([]string, 0, len(helpSections)*4+3)
	sections = append(sections, title)

	for _, sec := range helpSections {
		header := lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Render(sec.title)
		sections = append(sections, "", header)

		for _, k := range sec.keys {
			keyCol := lipgloss.NewStyle().
				Width(18).
				Foreground(colorWhite).
				Bold(true).
				Render(k.key)
			descCol := lipgloss.NewStyle().
				Foreground(colorDim).
				Render(k.desc)
			sections = append(sections, "  "+keyCol+descCol)
		}
	}

	sections = append(sections, "", lipgloss.NewStyle().Foreground(colorDim).Render("Press Esc or Ctrl+h to close"))

	content := strings.Join(sections, "\n")
	return overlayStyle.Width(maxWidth).Render(content)
}
