package tui

// TasksLoadedMsg signals the bootstrap load finished. Err is the load
// failure, if any.
type TasksLoadedMsg struct {
	Err error
}

// ErrorMsg carries an error to display.
type ErrorMsg struct {
	Err error
}

// ClearErrorMsg clears the error display.
type ClearErrorMsg struct{}

// ClearSavedMsg clears the "Saved" indicator.
type ClearSavedMsg struct{}

// UndoExpiredMsg ends the undo window opened by delete number Seq.
type UndoExpiredMsg struct {
	Seq int
}

// spinnerTickMsg advances the loading spinner.
type spinnerTickMsg struct{}
