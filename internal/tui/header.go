package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/watchfire-io/salesboard/internal/models"
)

func renderHeader(metrics models.Metrics, currency string, taskCount int, width int) string {
	dot := lipgloss.NewStyle().Foreground(colorOrange).Render("●")
	name := lipgloss.NewStyle().Bold(true).Render("Salesboard")

	chips := []string{
		renderChip("Revenue", FormatMoney(currency, metrics.TotalRevenue)),
		renderChip("Efficiency", formatPct(metrics.TimeEfficiencyPct)),
		renderChip("Avg ROI", fmt.Sprintf("%.1f", metrics.AverageROI)),
		chipLabelStyle.Render("Grade ") + gradeStyle(metrics.PerformanceGrade).Render(string(metrics.PerformanceGrade)),
	}

	left := fmt.Sprintf(" %s %s  %s", dot, name, strings.Join(chips, chipSepStyle.Render(" | ")))
	right := chipLabelStyle.Render(fmt.Sprintf("%d tasks ", taskCount))

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}

	return headerStyle.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}

func renderChip(label, value string) string {
	return chipLabelStyle.Render(label+" ") + chipValueStyle.Render(value)
}
