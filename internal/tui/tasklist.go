package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/watchfire-io/salesboard/internal/models"
)

// TaskList is the ranked task list for the left panel.
type TaskList struct {
	tasks        []models.DerivedTask
	cursor       int
	scrollOffset int
	height       int
}

// NewTaskList creates a new task list.
func NewTaskList() *TaskList {
	return &TaskList{}
}

// SetTasks replaces the ranked rows. The cursor stays on the same task when
// it is still present, otherwise it keeps its position.
func (tl *TaskList) SetTasks(tasks []models.DerivedTask) {
	selectedID := ""
	if t := tl.SelectedTask(); t != nil {
		selectedID = t.ID
	}

	tl.tasks = tasks
	if selectedID != "" {
		for i, t := range tasks {
			if t.ID == selectedID {
				tl.cursor = i
				break
			}
		}
	}

	if tl.cursor >= len(tl.tasks) {
		tl.cursor = len(tl.tasks) - 1
	}
	if tl.cursor < 0 {
		tl.cursor = 0
	}
	tl.ensureVisible()
}

// Select moves the cursor to the task with the given ID.
func (tl *TaskList) Select(id string) {
	for i, t := range tl.tasks {
		if t.ID == id {
			tl.cursor = i
			tl.ensureVisible()
			return
		}
	}
}

// SetHeight sets the visible height.
func (tl *TaskList) SetHeight(h int) {
	tl.height = h
	tl.ensureVisible()
}

// SelectedTask returns the currently selected task, or nil.
func (tl *TaskList) SelectedTask() *models.DerivedTask {
	if tl.cursor < 0 || tl.cursor >= len(tl.tasks) {
		return nil
	}
	return &tl.tasks[tl.cursor]
}

// MoveUp moves the cursor up.
func (tl *TaskList) MoveUp() {
	if tl.cursor > 0 {
		tl.cursor--
	}
	tl.ensureVisible()
}

// MoveDown moves the cursor down.
func (tl *TaskList) MoveDown() {
	if tl.cursor < len(tl.tasks)-1 {
		tl.cursor++
	}
	tl.ensureVisible()
}

// rows reserved for the column header line.
const listHeaderRows = 1

func (tl *TaskList) visibleRows() int {
	rows := tl.height - listHeaderRows
	if rows < 1 {
		rows = 1
	}
	return rows
}

func (tl *TaskList) ensureVisible() {
	rows := tl.visibleRows()
	if tl.cursor < tl.scrollOffset {
		tl.scrollOffset = tl.cursor
	}
	if tl.cursor >= tl.scrollOffset+rows {
		tl.scrollOffset = tl.cursor - rows + 1
	}
	if tl.scrollOffset < 0 {
		tl.scrollOffset = 0
	}
}

// View renders the task list.
func (tl *TaskList) View(width int, loading bool, spinner string) string {
	if len(tl.tasks) == 0 {
		msg := "No tasks. Press 'a' to add one."
		if loading {
			msg = spinner + " Loading tasks..."
		}
		return lipgloss.NewStyle().Foreground(colorDim).Render(msg)
	}

	const roiWidth = 9
	titleWidth := width - 2 - 4 - 4 - roiWidth - 3
	if titleWidth < 8 {
		titleWidth = 8
	}

	lines := []string{sectionHeaderStyle.Render(
		fmt.Sprintf("  %-4s%-4s%-*s %*s", "#", "St", titleWidth, "Title", roiWidth, "ROI"),
	)}

	end := tl.scrollOffset + tl.visibleRows()
	if end > len(tl.tasks) {
		end = len(tl.tasks)
	}

	for i := tl.scrollOffset; i < end; i++ {
		t := tl.tasks[i]

		rank := fmt.Sprintf("%-4d", i+1)
		badge := statusStyle(t.Status).Render(statusBadge(t.Status)) + " "
		title := ansi.Truncate(t.Title, titleWidth, "…")
		title += strings.Repeat(" ", titleWidth-lipgloss.Width(title))
		title = priorityStyle(t.Priority).Render(priorityMark(t.Priority)) + title

		roiText := fmt.Sprintf("%*s", roiWidth, FormatROI(t.ROI))
		roi := roiStyle.Render(roiText)
		if t.ROI == nil {
			roi = roiUndefinedStyle.Render(roiText)
		}

		row := rank + badge + title + " " + roi
		if i == tl.cursor {
			row = selectedItemStyle.Width(width - 2).Render(row)
		}
		lines = append(lines, "  "+row)
	}

	if tl.scrollOffset > 0 {
		lines[0] += lipgloss.NewStyle().Foreground(colorDim).Render("  ▲")
	}
	if end < len(tl.tasks) {
		lines = append(lines, lipgloss.NewStyle().Foreground(colorDim).Render("  ▼ more"))
	}

	return strings.Join(lines, "\n")
}

func statusBadge(s models.TaskStatus) string {
	switch s {
	case models.TaskStatusDone:
		return "[✓]"
	case models.TaskStatusInProgress:
		return "[~]"
	}
	return "[ ]"
}

func priorityMark(p models.Priority) string {
	switch p {
	case models.PriorityHigh:
		return "!"
	case models.PriorityMedium:
		return "·"
	}
	return " "
}
