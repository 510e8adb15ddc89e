package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/watchfire-io/salesboard/internal/models"
)

// Adaptive colors matching the TUI palette.
var (
	colorWhite  = lipgloss.AdaptiveColor{Light: "0", Dark: "15"}
	colorDim    = lipgloss.AdaptiveColor{Light: "242", Dark: "240"}
	colorGreen  = lipgloss.AdaptiveColor{Light: "28", Dark: "40"}
	colorRed    = lipgloss.AdaptiveColor{Light: "160", Dark: "196"}
	colorYellow = lipgloss.AdaptiveColor{Light: "136", Dark: "220"}
	colorCyan   = lipgloss.AdaptiveColor{Light: "30", Dark: "45"}
)

// Semantic styles for CLI output.
var (
	styleBrand   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleVersion = lipgloss.NewStyle().Foreground(colorGreen)
	styleLabel   = lipgloss.NewStyle().Foreground(colorDim)
	styleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	styleSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleWarning = lipgloss.NewStyle().Bold(true).Foreground(colorYellow)
	styleError   = lipgloss.NewStyle().Bold(true).Foreground(colorRed)
	styleHint    = lipgloss.NewStyle().Foreground(colorDim)
)

// Task status badge styles.
var (
	badgeTodo       = lipgloss.NewStyle().Foreground(colorDim)
	badgeInProgress = lipgloss.NewStyle().Foreground(colorCyan)
	badgeDone       = lipgloss.NewStyle().Foreground(colorGreen)
)

func statusBadge(s models.TaskStatus) lipgloss.Style {
	switch s {
	case models.TaskStatusDone:
		return badgeDone
	case models.TaskStatusInProgress:
		return badgeInProgress
	default:
		return badgeTodo
	}
}
