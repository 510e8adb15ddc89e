package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// confirmMode values.
const (
	confirmNone = iota
	confirmDelete
)

func renderStatusBar(m *Model, width int) string {
	if m.confirmMode == confirmDelete {
		return renderConfirmBar(
			fmt.Sprintf("Delete %q? (y/n)", ansi.Truncate(m.confirmTitle, 40, "…")),
			width,
		)
	}

	if m.err != nil {
		return renderErrorBar(m.err.Error(), width)
	}

	if ld := m.snap.LastDeleted; ld != nil {
		return renderUndoBar(ld.Title, width)
	}

	if m.showSaved {
		return renderSavedBar(width)
	}

	left := " " + getKeyHints(m)

	var right string
	switch {
	case m.snap.Loading:
		right = lipgloss.NewStyle().Foreground(colorYellow).Render(m.spinnerFrame()+" Loading") + " "
	case m.snap.Err != nil:
		right = lipgloss.NewStyle().Foreground(colorRed).Bold(true).Render("⚠ Load failed") + " "
	default:
		right = lipgloss.NewStyle().Foreground(colorGreen).Render("Ready") + " "
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}

	return statusBarStyle.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}

func getKeyHints(m *Model) string {
	if m.activeOverlay == overlayAddTask || m.activeOverlay == overlayEditTask {
		return keyHint("Ctrl+s", "save") + "  " + keyHint("Tab", "next") + "  " + keyHint("Esc", "cancel")
	}
	if m.activeOverlay == overlayHelp {
		return keyHint("Esc", "close")
	}

	base := keyHint("Ctrl+q", "quit") + "  " + keyHint("Ctrl+h", "help") + "  " + keyHint("Tab", "switch")

	if m.focusedPanel == panelDetails {
		return base + "  " + keyHint("j/k", "scroll")
	}
	return base + "  " + keyHint("a", "add") + "  " + keyHint("e", "edit") + "  " +
		keyHint("d", "done") + "  " + keyHint("i", "in progress") + "  " +
		keyHint("t", "todo") + "  " + keyHint("x", "delete")
}

func keyHint(k, desc string) string {
	if k == "" {
		return hintStyle.Render(desc)
	}
	return keyStyle.Render(k) + " " + hintStyle.Render(desc)
}

func renderConfirmBar(msg string, width int) string {
	return statusBarStyle.
		Background(colorYellow).
		Foreground(lipgloss.AdaptiveColor{Light: "0", Dark: "0"}).
		Width(width).
		Render(" " + msg)
}

func renderUndoBar(title string, width int) string {
	msg := fmt.Sprintf("Deleted %q. ", ansi.Truncate(title, 40, "…"))
	return statusBarStyle.
		Width(width).
		Render(" " + msg + keyStyle.Render("u") + " " + hintStyle.Render("undo"))
}

func renderErrorBar(msg string, width int) string {
	return statusBarStyle.
		Background(colorRed).
		Width(width).
		Render(" " + msg)
}

func renderSavedBar(width int) string {
	return statusBarStyle.
		Width(width).
		Render(" " + lipgloss.NewStyle().Foreground(colorGreen).Render("Saved"))
}
