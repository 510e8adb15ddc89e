package tui

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	"github.com/watchfire-io/salesboard/internal/models"
)

// Form field indexes.
const (
	fieldTitle = iota
	fieldRevenue
	fieldTime
	fieldPriority
	fieldStatus
	fieldNotes
	fieldCount
)

var (
	errRevenueNotNumber = errors.New("revenue must be a number")
	errTimeNotNumber    = errors.New("time taken must be a number")
)

// TaskForm is the add/edit task overlay form.
type TaskForm struct {
	mode   string // "add" or "edit"
	taskID string // For edit mode

	titleInput   textinput.Model
	revenueInput textinput.Model
	timeInput    textinput.Model
	notesArea    textarea.Model
	priority     models.Priority
	status       models.TaskStatus

	existingTitles []string
	focusIndex     int
	width          int
}

// NewTaskForm creates a new task form with the default field values.
func NewTaskForm(mode string, width int, existingTitles []string) *TaskForm {
	ti := textinput.New()
	ti.Placeholder = "Task title"
	ti.CharLimit = 200
	ti.Width = width - 8

	ri := textinput.New()
	ri.Placeholder = "0"
	ri.CharLimit = 20
	ri.Width = 20
	ri.SetValue("0")

	hi := textinput.New()
	hi.Placeholder = "1"
	hi.CharLimit = 10
	hi.Width = 10
	hi.SetValue("1")

	na := textarea.New()
	na.Placeholder = "Notes (optional)"
	na.SetWidth(width - 8)
	na.SetHeight(3)

	tf := &TaskForm{
		mode:           mode,
		titleInput:     ti,
		revenueInput:   ri,
		timeInput:      hi,
		notesArea:      na,
		priority:       models.PriorityMedium,
		status:         models.TaskStatusTodo,
		existingTitles: existingTitles,
		width:          width,
	}

	tf.titleInput.Focus()

	return tf
}

// PreFill fills the form with an existing task for editing.
func (tf *TaskForm) PreFill(t models.Task) {
	tf.taskID = t.ID
	tf.titleInput.SetValue(t.Title)
	tf.revenueInput.SetValue(strconv.FormatFloat(t.Revenue, 'f', -1, 64))
	tf.timeInput.SetValue(strconv.FormatFloat(t.TimeTaken, 'f', -1, 64))
	tf.notesArea.SetValue(t.Notes)
	if t.Priority.Valid() {
		tf.priority = t.Priority
	}
	if t.Status.Valid() {
		tf.status = t.Status
	}
}

// IsNew reports whether the form creates a task.
func (tf *TaskForm) IsNew() bool {
	return tf.mode != "edit"
}

// TaskID returns the ID of the task being edited.
func (tf *TaskForm) TaskID() string {
	return tf.taskID
}

// FocusNext moves to the next field.
func (tf *TaskForm) FocusNext() {
	tf.blurAll()
	tf.focusIndex = (tf.focusIndex + 1) % fieldCount
	tf.focusCurrent()
}

// FocusPrev moves to the previous field.
func (tf *TaskForm) FocusPrev() {
	tf.blurAll()
	tf.focusIndex--
	if tf.focusIndex < 0 {
		tf.focusIndex = fieldCount - 1
	}
	tf.focusCurrent()
}

func (tf *TaskForm) blurAll() {
	tf.titleInput.Blur()
	tf.revenueInput.Blur()
	tf.timeInput.Blur()
	tf.notesArea.Blur()
}

func (tf *TaskForm) focusCurrent() {
	switch tf.focusIndex {
	case fieldTitle:
		tf.titleInput.Focus()
	case fieldRevenue:
		tf.revenueInput.Focus()
	case fieldTime:
		tf.timeInput.Focus()
	case fieldNotes:
		tf.notesArea.Focus()
	}
}

// CycleOption steps the focused selector field by dir (+1 or -1).
// It is a no-op on text fields.
func (tf *TaskForm) CycleOption(dir int) {
	switch tf.focusIndex {
	case fieldPriority:
		tf.priority = cycle(models.Priorities, tf.priority, dir)
	case fieldStatus:
		tf.status = cycle(models.Statuses, tf.status, dir)
	}
}

func cycle[T comparable](opts []T, cur T, dir int) T {
	i := 0
	for j, o := range opts {
		if o == cur {
			i = j
			break
		}
	}
	i = (i + dir + len(opts)) % len(opts)
	return opts[i]
}

// FocusIndex returns the currently focused field index.
func (tf *TaskForm) FocusIndex() int {
	return tf.focusIndex
}

// OnSelector reports whether a priority or status selector has focus.
func (tf *TaskForm) OnSelector() bool {
	return tf.focusIndex == fieldPriority || tf.focusIndex == fieldStatus
}

// TitleInput returns the title input model for update forwarding.
func (tf *TaskForm) TitleInput() *textinput.Model {
	return &tf.titleInput
}

// RevenueInput returns the revenue input model for update forwarding.
func (tf *TaskForm) RevenueInput() *textinput.Model {
	return &tf.revenueInput
}

// TimeInput returns the time input model for update forwarding.
func (tf *TaskForm) TimeInput() *textinput.Model {
	return &tf.timeInput
}

// NotesArea returns the notes textarea model for update forwarding.
func (tf *TaskForm) NotesArea() *textarea.Model {
	return &tf.notesArea
}

// Input parses the form into a creation payload with a trimmed title.
func (tf *TaskForm) Input() (models.TaskInput, error) {
	revenue, err := parseNumber(tf.revenueInput.Value())
	if err != nil {
		return models.TaskInput{}, errRevenueNotNumber
	}
	hours, err := parseNumber(tf.timeInput.Value())
	if err != nil {
		return models.TaskInput{}, errTimeNotNumber
	}
	return models.TaskInput{
		Title:     strings.TrimSpace(tf.titleInput.Value()),
		Revenue:   revenue,
		TimeTaken: hours,
		Priority:  tf.priority,
		Status:    tf.status,
		Notes:     strings.TrimSpace(tf.notesArea.Value()),
	}, nil
}

// Validate parses and checks the form. Title uniqueness is only enforced
// when adding.
func (tf *TaskForm) Validate() (models.TaskInput, error) {
	in, err := tf.Input()
	if err != nil {
		return in, err
	}
	return in, models.ValidateInput(in, tf.existingTitles, tf.IsNew())
}

// Patch converts a validated payload into a full edit patch.
func Patch(in models.TaskInput) models.TaskPatch {
	return models.TaskPatch{
		Title:     &in.Title,
		Revenue:   &in.Revenue,
		TimeTaken: &in.TimeTaken,
		Priority:  &in.Priority,
		Status:    &in.Status,
		Notes:     &in.Notes,
	}
}

func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, strconv.ErrSyntax
	}
	return v, nil
}

// View renders the task form.
func (tf *TaskForm) View() string {
	title := "Add Task"
	if tf.mode == "edit" {
		title = "Edit Task"
	}

	formWidth := tf.width
	if formWidth > 70 {
		formWidth = 70
	}
	if formWidth < 30 {
		formWidth = 30
	}

	bold := lipgloss.NewStyle().Bold(true)
	hint := lipgloss.NewStyle().Foreground(colorDim)

	parts := make([]string, 0, 24)
	parts = append(parts, overlayTitleStyle.Render(title))

	parts = append(parts, bold.Render("Title:"), tf.titleInput.View())
	if _, err := tf.Validate(); errors.Is(err, models.ErrDuplicateTitle) {
		parts = append(parts, formErrorStyle.Render(err.Error()))
	}
	parts = append(parts, "")

	parts = append(parts, bold.Render("Revenue:")+" "+tf.revenueInput.View())
	parts = append(parts, bold.Render("Time Taken (hours):")+" "+tf.timeInput.View(), "")

	selector := func(label, value string, focused bool, style lipgloss.Style) string {
		line := bold.Render(label) + " " + style.Render("‹ "+value+" ›")
		if focused {
			line += hint.Render("  (←/→ or Space to change)")
		}
		return line
	}
	parts = append(parts,
		selector("Priority:", string(tf.priority), tf.focusIndex == fieldPriority, priorityStyle(tf.priority)),
		selector("Status:", string(tf.status), tf.focusIndex == fieldStatus, statusStyle(tf.status)),
		"",
	)

	parts = append(parts, bold.Render("Notes:"), tf.notesArea.View(), "")

	if _, err := tf.Validate(); err != nil && !errors.Is(err, models.ErrDuplicateTitle) {
		parts = append(parts, formErrorStyle.Render(err.Error()), "")
	}

	footer := hint.Render("Ctrl+s save  |  Tab next field  |  Esc cancel")
	parts = append(parts, footer)

	content := strings.Join(parts, "\n")
	return overlayStyle.Width(formWidth).Render(content)
}
