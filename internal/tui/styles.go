package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/watchfire-io/salesboard/internal/models"
)

// Colors using AdaptiveColor for light/dark terminal support.
var (
	colorWhite  = lipgloss.AdaptiveColor{Light: "0", Dark: "15"}
	colorDim    = lipgloss.AdaptiveColor{Light: "242", Dark: "240"}
	colorGreen  = lipgloss.AdaptiveColor{Light: "28", Dark: "40"}
	colorRed    = lipgloss.AdaptiveColor{Light: "160", Dark: "196"}
	colorYellow = lipgloss.AdaptiveColor{Light: "136", Dark: "220"}
	colorOrange = lipgloss.AdaptiveColor{Light: "166", Dark: "208"}
	colorCyan   = lipgloss.AdaptiveColor{Light: "30", Dark: "45"}
)

// Layout styles.
var (
	headerStyle = lipgloss.NewStyle().
			Bold(true)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorWhite).
			Background(lipgloss.AdaptiveColor{Light: "235", Dark: "236"})

	focusedBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorWhite)

	unfocusedBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorDim)
)

// Header chip styles.
var (
	chipLabelStyle = lipgloss.NewStyle().Foreground(colorDim)
	chipValueStyle = lipgloss.NewStyle().Foreground(colorWhite).Bold(true)
	chipSepStyle   = lipgloss.NewStyle().Foreground(colorDim)
)

// Task list styles.
var (
	taskTodoStyle       = lipgloss.NewStyle().Foreground(colorDim)
	taskInProgressStyle = lipgloss.NewStyle().Foreground(colorCyan)
	taskDoneStyle       = lipgloss.NewStyle().Foreground(colorGreen)

	priorityHighStyle   = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	priorityMediumStyle = lipgloss.NewStyle().Foreground(colorYellow)
	priorityLowStyle    = lipgloss.NewStyle().Foreground(colorDim)

	roiStyle          = lipgloss.NewStyle().Foreground(colorWhite)
	roiUndefinedStyle = lipgloss.NewStyle().Foreground(colorDim).Italic(true)

	sectionHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorWhite)

	selectedItemStyle = lipgloss.NewStyle().
				Background(lipgloss.AdaptiveColor{Light: "254", Dark: "237"})
)

// Detail panel styles.
var (
	detailLabelStyle = lipgloss.NewStyle().
				Width(16).
				Foreground(colorDim)

	detailValueStyle = lipgloss.NewStyle().
				Foreground(colorWhite)
)

// Overlay styles.
var (
	overlayStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorWhite).
			Padding(1, 2)

	overlayTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorWhite).
				MarginBottom(1)

	overlayDimStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	formErrorStyle = lipgloss.NewStyle().
			Foreground(colorRed)
)

// Key hint styles for status bar.
var (
	keyStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorWhite)
	hintStyle = lipgloss.NewStyle().Foreground(colorDim)
)

func statusStyle(s models.TaskStatus) lipgloss.Style {
	switch s {
	case models.TaskStatusDone:
		return taskDoneStyle
	case models.TaskStatusInProgress:
		return taskInProgressStyle
	}
	return taskTodoStyle
}

func priorityStyle(p models.Priority) lipgloss.Style {
	switch p {
	case models.PriorityHigh:
		return priorityHighStyle
	case models.PriorityMedium:
		return priorityMediumStyle
	}
	return priorityLowStyle
}

func gradeStyle(g models.Grade) lipgloss.Style {
	switch g {
	case models.GradeExcellent:
		return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	case models.GradeGood:
		return lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
	case models.GradeAverage:
		return lipgloss.NewStyle().Foreground(colorYellow).Bold(true)
	}
	return lipgloss.NewStyle().Foreground(colorOrange).Bold(true)
}
