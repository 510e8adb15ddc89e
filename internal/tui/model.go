package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/watchfire-io/salesboard/internal/loader"
	"github.com/watchfire-io/salesboard/internal/models"
	"github.com/watchfire-io/salesboard/internal/store"
	"github.com/watchfire-io/salesboard/internal/telemetry"
)

// Spinner frames for the loading indicator.
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Model is the root Bubbletea model for the TUI.
type Model struct {
	// Data
	store    *store.Store
	loader   loader.Loader
	tracker  telemetry.Tracker
	currency string
	snap     store.Snapshot
	synced   bool // snap has been read at least once

	// Load lifetime; cancelled on quit so a late result is dropped.
	loadCtx    context.Context
	loadCancel context.CancelFunc

	// UI state
	focusedPanel  int     // panelList or panelDetails
	activeOverlay int     // overlayNone, overlayHelp, overlayAddTask, overlayEditTask
	splitRatio    float64 // Default 0.55
	width         int
	height        int

	// Confirm mode
	confirmMode  int
	confirmID    string
	confirmTitle string

	// Status display
	err       error
	showSaved bool

	// undoSeq identifies the newest delete; older expiry timers are ignored.
	undoSeq int
	spinner int

	// Child components
	taskList *TaskList
	details  *DetailView
	taskForm *TaskForm

	// Dragging state
	dragging bool
}

// NewModel creates the initial TUI model.
func NewModel(opts Options) Model {
	ctx, cancel := context.WithCancel(context.Background())

	tracker := opts.Tracker
	if tracker == nil {
		tracker = telemetry.Nop{}
	}
	currency := opts.Currency
	if currency == "" {
		currency = "$"
	}

	m := Model{
		store:      opts.Store,
		loader:     opts.Loader,
		tracker:    tracker,
		currency:   currency,
		loadCtx:    ctx,
		loadCancel: cancel,
		splitRatio: 0.55,
		taskList:   NewTaskList(),
		details:    NewDetailView(),
	}
	m.refresh()
	return m
}

// Init starts the bootstrap load.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		loadTasksCmd(m.loadCtx, m.store, m.loader),
		spinnerTick(),
		tea.EnableMouseCellMotion,
	)
}

// Update processes messages and returns an updated model and commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	// ── Window resize ──────────────────────────────────────────────
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateDimensions()
		return m, nil

	// ── Key events ─────────────────────────────────────────────────
	case tea.KeyMsg:
		return m, m.handleKey(msg)

	// ── Mouse events ───────────────────────────────────────────────
	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil

	// ── Task data ──────────────────────────────────────────────────
	case TasksLoadedMsg:
		m.refresh()
		if msg.Err != nil {
			m.err = fmt.Errorf("failed to load tasks: %w", msg.Err)
			return m, clearErrorAfter(5 * time.Second)
		}
		return m, nil

	case UndoExpiredMsg:
		if msg.Seq == m.undoSeq {
			m.store.ClearLastDeleted()
			m.refresh()
		}
		return m, nil

	// ── Spinner tick ───────────────────────────────────────────────
	case spinnerTickMsg:
		m.refresh()
		if m.snap.Loading {
			m.spinner++
			return m, spinnerTick()
		}
		return m, nil

	// ── Error handling ─────────────────────────────────────────────
	case ErrorMsg:
		m.err = msg.Err
		return m, clearErrorAfter(5 * time.Second)

	case ClearErrorMsg:
		m.err = nil
		return m, nil

	case ClearSavedMsg:
		m.showSaved = false
		return m, nil
	}

	return m, nil
}

// refresh re-reads the store if its version moved since the last snapshot.
func (m *Model) refresh() {
	if m.synced && m.store.Version() == m.snap.Version {
		return
	}
	m.snap = m.store.Snapshot()
	m.synced = true
	m.taskList.SetTasks(m.snap.Ranked)
}

func (m *Model) spinnerFrame() string {
	return spinnerFrames[m.spinner%len(spinnerFrames)]
}

// handleKey processes key events.
func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	// Confirm mode captures everything
	if m.confirmMode != confirmNone {
		return m.handleConfirmKey(msg)
	}

	// Overlay captures everything
	if m.activeOverlay != overlayNone {
		return m.handleOverlayKey(msg)
	}

	switch {
	case key.Matches(msg, globalKeys.Quit):
		return m.doQuit()

	case key.Matches(msg, globalKeys.Help):
		m.activeOverlay = overlayHelp
		return nil

	case key.Matches(msg, globalKeys.Tab):
		m.focusedPanel = 1 - m.focusedPanel
		return nil
	}

	if m.focusedPanel == panelList {
		return m.handleTaskListKey(msg)
	}
	return m.handleDetailKey(msg)
}

func (m *Model) handleTaskListKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, taskListKeys.Up):
		m.taskList.MoveUp()
		m.details.ResetScroll()
	case key.Matches(msg, taskListKeys.Down):
		m.taskList.MoveDown()
		m.details.ResetScroll()
	case key.Matches(msg, taskListKeys.Add):
		m.openAddTaskForm()
	case key.Matches(msg, taskListKeys.Edit), key.Matches(msg, taskListKeys.Enter):
		m.openEditTaskForm()
	case key.Matches(msg, taskListKeys.Done):
		return m.setSelectedTaskStatus(models.TaskStatusDone)
	case key.Matches(msg, taskListKeys.InProgress):
		return m.setSelectedTaskStatus(models.TaskStatusInProgress)
	case key.Matches(msg, taskListKeys.Todo):
		return m.setSelectedTaskStatus(models.TaskStatusTodo)
	case key.Matches(msg, taskListKeys.Delete):
		m.confirmDeleteTask()
	case key.Matches(msg, taskListKeys.Undo):
		return m.undoDelete()
	}
	return nil
}

func (m *Model) handleDetailKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, detailKeys.Up):
		m.details.ScrollUp()
	case key.Matches(msg, detailKeys.Down):
		m.details.ScrollDown()
	case key.Matches(msg, taskListKeys.Undo):
		return m.undoDelete()
	}
	return nil
}

func (m *Model) handleConfirmKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, confirmKeys.Yes):
		if m.confirmMode == confirmDelete {
			m.confirmMode = confirmNone
			return m.deleteTask(m.confirmID)
		}
	case key.Matches(msg, confirmKeys.No), key.Matches(msg, confirmKeys.Cancel):
		m.confirmMode = confirmNone
	}
	return nil
}

func (m *Model) handleOverlayKey(msg tea.KeyMsg) tea.Cmd {
	switch m.activeOverlay {
	case overlayHelp:
		if key.Matches(msg, overlayKeys.Cancel) || key.Matches(msg, globalKeys.Help) {
			m.activeOverlay = overlayNone
		}
		return nil

	case overlayAddTask, overlayEditTask:
		return m.handleTaskFormKey(msg)
	}
	return nil
}

func (m *Model) handleTaskFormKey(msg tea.KeyMsg) tea.Cmd {
	if m.taskForm == nil {
		return nil
	}

	switch {
	case key.Matches(msg, overlayKeys.Save):
		return m.saveTaskForm()
	case key.Matches(msg, overlayKeys.Cancel):
		m.closeTaskForm()
		return nil
	case key.Matches(msg, overlayKeys.Tab):
		m.taskForm.FocusNext()
		return nil
	case key.Matches(msg, overlayKeys.ShiftTab):
		m.taskForm.FocusPrev()
		return nil
	}

	// Selector fields: cycle options
	if m.taskForm.OnSelector() {
		switch msg.Type {
		case tea.KeyLeft:
			m.taskForm.CycleOption(-1)
		case tea.KeyRight, tea.KeySpace, tea.KeyEnter:
			m.taskForm.CycleOption(1)
		}
		return nil
	}

	// Forward to active input
	switch m.taskForm.FocusIndex() {
	case fieldTitle:
		ti := m.taskForm.TitleInput()
		newTI, _ := ti.Update(msg)
		*ti = newTI
	case fieldRevenue:
		ti := m.taskForm.RevenueInput()
		newTI, _ := ti.Update(msg)
		*ti = newTI
	case fieldTime:
		ti := m.taskForm.TimeInput()
		newTI, _ := ti.Update(msg)
		*ti = newTI
	case fieldNotes:
		ta := m.taskForm.NotesArea()
		newTA, _ := ta.Update(msg)
		*ta = newTA
	}

	return nil
}

// ── Task actions ─────────────────────────────────────────────────

func (m *Model) formWidth() int {
	return min(m.width-10, 70)
}

func (m *Model) openAddTaskForm() {
	m.taskForm = NewTaskForm("add", m.formWidth(), m.store.Titles())
	m.activeOverlay = overlayAddTask
}

func (m *Model) openEditTaskForm() {
	t := m.taskList.SelectedTask()
	if t == nil {
		return
	}
	m.taskForm = NewTaskForm("edit", m.formWidth(), m.store.Titles())
	m.taskForm.PreFill(t.Task)
	m.activeOverlay = overlayEditTask
}

func (m *Model) closeTaskForm() {
	m.activeOverlay = overlayNone
	m.taskForm = nil
}

func (m *Model) saveTaskForm() tea.Cmd {
	if m.taskForm == nil {
		return nil
	}

	in, err := m.taskForm.Validate()
	if err != nil {
		m.err = err
		return clearErrorAfter(3 * time.Second)
	}

	if m.taskForm.IsNew() {
		t := m.store.Add(in)
		m.tracker.Track(telemetry.EventTaskAdded, taskProps(t))
		m.refresh()
		m.taskList.Select(t.ID)
	} else {
		id := m.taskForm.TaskID()
		if m.store.Update(id, Patch(in)) {
			if t, ok := m.store.Get(id); ok {
				m.tracker.Track(telemetry.EventTaskUpdated, taskProps(t))
			}
		}
		m.refresh()
	}

	m.closeTaskForm()
	m.showSaved = true
	return clearSavedAfter(3 * time.Second)
}

func (m *Model) setSelectedTaskStatus(status models.TaskStatus) tea.Cmd {
	t := m.taskList.SelectedTask()
	if t == nil || t.Status == status {
		return nil
	}
	id := t.ID
	if m.store.Update(id, models.TaskPatch{Status: &status}) {
		if updated, ok := m.store.Get(id); ok {
			m.tracker.Track(telemetry.EventTaskUpdated, taskProps(updated))
		}
	}
	m.refresh()
	return nil
}

func (m *Model) confirmDeleteTask() {
	t := m.taskList.SelectedTask()
	if t == nil {
		return
	}
	m.confirmMode = confirmDelete
	m.confirmID = t.ID
	m.confirmTitle = t.Title
}

// deleteTask removes a task and opens the undo window.
func (m *Model) deleteTask(id string) tea.Cmd {
	if !m.store.Delete(id) {
		m.refresh()
		return nil
	}
	if ld := m.store.LastDeleted(); ld != nil {
		m.tracker.Track(telemetry.EventTaskDeleted, taskProps(*ld))
	}
	m.refresh()

	m.undoSeq++
	return undoExpireAfter(m.undoSeq, undoWindow)
}

func (m *Model) undoDelete() tea.Cmd {
	ld := m.store.LastDeleted()
	if ld == nil {
		return nil
	}
	m.undoSeq++
	if m.store.UndoDelete() {
		m.tracker.Track(telemetry.EventTaskRestored, taskProps(*ld))
		m.refresh()
		m.taskList.Select(ld.ID)
		return nil
	}
	m.refresh()
	return func() tea.Msg {
		return ErrorMsg{Err: fmt.Errorf("cannot restore %q: its id is in use", ld.Title)}
	}
}

func taskProps(t models.Task) map[string]any {
	return map[string]any{
		"status":   string(t.Status),
		"priority": string(t.Priority),
	}
}

// doQuit performs clean shutdown: drop any in-flight load, flush telemetry, quit.
func (m *Model) doQuit() tea.Cmd {
	m.loadCancel()
	m.store.Close()
	_ = m.tracker.Close()
	return tea.Quit
}

// ── Mouse handling ───────────────────────────────────────────────

func (m *Model) handleMouse(msg tea.MouseMsg) {
	if m.activeOverlay != overlayNone || m.confirmMode != confirmNone {
		return
	}
	layout := computeLayout(m.width, m.height, m.splitRatio)

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			if m.focusedPanel == panelList {
				m.taskList.MoveUp()
			} else {
				m.details.ScrollUp()
			}
			return
		case tea.MouseButtonWheelDown:
			if m.focusedPanel == panelList {
				m.taskList.MoveDown()
			} else {
				m.details.ScrollDown()
			}
			return
		}

		if msg.X >= layout.leftWidth-1 && msg.X <= layout.leftWidth+1 {
			m.dragging = true
			return
		}
		if msg.X < layout.leftWidth {
			m.focusedPanel = panelList
		} else {
			m.focusedPanel = panelDetails
		}

	case tea.MouseActionRelease:
		m.dragging = false

	case tea.MouseActionMotion:
		if m.dragging && m.width > 0 {
			ratio := float64(msg.X) / float64(m.width)
			m.splitRatio = min(max(ratio, 0.3), 0.75)
			m.updateDimensions()
		}
	}
}

// ── Dimension helpers ────────────────────────────────────────────

func (m *Model) updateDimensions() {
	layout := computeLayout(m.width, m.height, m.splitRatio)
	m.taskList.SetHeight(layout.innerHeight())
	m.details.SetSize(max(layout.rightWidth-2, 1), layout.innerHeight())
}

// ── View ─────────────────────────────────────────────────────────

// View renders the TUI.
func (m Model) View() string {
	if m.width < 80 || m.height < 24 {
		sizeStr := fmt.Sprintf("%dx%d", m.width, m.height)
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(colorYellow).
			Render(lipgloss.JoinVertical(lipgloss.Center,
				"Terminal too small",
				lipgloss.NewStyle().Foreground(colorDim).Render(
					"Need 80x24, have "+lipgloss.NewStyle().Bold(true).Render(sizeStr),
				),
			))
	}

	layout := computeLayout(m.width, m.height, m.splitRatio)

	header := renderHeader(m.snap.Metrics, m.currency, len(m.snap.Tasks), m.width)
	leftContent := m.taskList.View(layout.leftWidth-2, m.snap.Loading, m.spinnerFrame())
	rightContent := m.details.View(m.taskList.SelectedTask(), m.snap.Metrics, m.currency)
	panels := renderPanels(leftContent, rightContent, layout, m.focusedPanel)
	statusBar := renderStatusBar(&m, m.width)

	view := lipgloss.JoinVertical(lipgloss.Left, header, panels, statusBar)

	if m.activeOverlay != overlayNone {
		var overlayContent string
		switch m.activeOverlay {
		case overlayHelp:
			overlayContent = renderHelp(m.width)
		case overlayAddTask, overlayEditTask:
			if m.taskForm != nil {
				overlayContent = m.taskForm.View()
			}
		}
		if overlayContent != "" {
			view = renderOverlay(view, overlayContent, m.width, m.height)
		}
	}

	return view
}
