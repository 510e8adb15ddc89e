package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/watchfire-io/salesboard/internal/loader"
	"github.com/watchfire-io/salesboard/internal/store"
)

// undoWindow is how long a deleted task can be restored from the status bar.
const undoWindow = 5 * time.Second

// loadTasksCmd runs the store's one bootstrap load.
func loadTasksCmd(ctx context.Context, st *store.Store, l loader.Loader) tea.Cmd {
	return func() tea.Msg {
		err := st.Load(ctx, l)
		if errors.Is(err, store.ErrAlreadyLoaded) {
			return nil
		}
		return TasksLoadedMsg{Err: err}
	}
}

func undoExpireAfter(seq int, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(_ time.Time) tea.Msg {
		return UndoExpiredMsg{Seq: seq}
	})
}

func spinnerTick() tea.Cmd {
	return tea.Tick(120*time.Millisecond, func(_ time.Time) tea.Msg {
		return spinnerTickMsg{}
	})
}

func clearErrorAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(_ time.Time) tea.Msg {
		return ClearErrorMsg{}
	})
}

func clearSavedAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(_ time.Time) tea.Msg {
		return ClearSavedMsg{}
	})
}
