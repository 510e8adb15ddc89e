package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/watchfire-io/salesboard/internal/models"
)

// DetailView shows the selected task and portfolio metrics in the right
// panel.
type DetailView struct {
	scroll int
	width  int
	height int
}

// NewDetailView creates a detail view.
func NewDetailView() *DetailView {
	return &DetailView{}
}

// SetSize sets the inner panel dimensions.
func (d *DetailView) SetSize(width, height int) {
	d.width = width
	d.height = height
}

// ScrollUp scrolls one line up.
func (d *DetailView) ScrollUp() {
	if d.scroll > 0 {
		d.scroll--
	}
}

// ScrollDown scrolls one line down.
func (d *DetailView) ScrollDown() {
	d.scroll++
}

// ResetScroll returns to the top, used when the selection changes.
func (d *DetailView) ResetScroll() {
	d.scroll = 0
}

// View renders the task (may be nil) followed by the metrics block.
func (d *DetailView) View(t *models.DerivedTask, metrics models.Metrics, currency string) string {
	var lines []string

	if t == nil {
		lines = append(lines, lipgloss.NewStyle().Foreground(colorDim).Render("No task selected."))
	} else {
		lines = append(lines, sectionHeaderStyle.Render(t.Title), "")
		lines = append(lines,
			detailRow("Status", statusStyle(t.Status).Render(string(t.Status))),
			detailRow("Priority", priorityStyle(t.Priority).Render(string(t.Priority))),
			detailRow("Revenue", FormatMoney(currency, t.Revenue)),
			detailRow("Time taken", formatHours(t.TimeTaken)),
			detailRow("ROI", FormatROI(t.ROI)),
			detailRow("Revenue/hour", FormatMoney(currency, t.RevenuePerHour)),
			detailRow("Created", formatTime(t.CreatedAt)),
		)
		if t.CompletedAt != nil {
			lines = append(lines, detailRow("Completed", formatTime(*t.CompletedAt)))
		}
		if t.Notes != "" {
			notes := lipgloss.NewStyle().Width(max(d.width-2, 10)).Render(t.Notes)
			lines = append(lines, "", sectionHeaderStyle.Render("Notes"), notes)
		}
	}

	lines = append(lines, "", sectionHeaderStyle.Render("Portfolio"), "",
		detailRow("Total revenue", FormatMoney(currency, metrics.TotalRevenue)),
		detailRow("Total time", formatHours(metrics.TotalTimeTaken)),
		detailRow("Revenue/hour", FormatMoney(currency, metrics.RevenuePerHour)),
		detailRow("Efficiency", formatPct(metrics.TimeEfficiencyPct)),
		detailRow("Average ROI", FormatROI(&metrics.AverageROI)),
		detailRow("Grade", gradeStyle(metrics.PerformanceGrade).Render(string(metrics.PerformanceGrade))),
	)

	content := strings.Split(strings.Join(lines, "\n"), "\n")
	if d.scroll > len(content)-1 {
		d.scroll = len(content) - 1
	}
	if d.scroll < 0 {
		d.scroll = 0
	}
	return strings.Join(content[d.scroll:], "\n")
}

func detailRow(label, value string) string {
	return detailLabelStyle.Render(label) + detailValueStyle.Render(value)
}
