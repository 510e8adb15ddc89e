// Package tui implements the interactive sales board.
package tui

import (
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/watchfire-io/salesboard/internal/config"
	"github.com/watchfire-io/salesboard/internal/loader"
	"github.com/watchfire-io/salesboard/internal/store"
	"github.com/watchfire-io/salesboard/internal/telemetry"
)

// Options wires the board to its data.
type Options struct {
	Store    *store.Store
	Loader   loader.Loader
	Tracker  telemetry.Tracker
	Currency string
}

// Run launches the TUI and blocks until the user quits. Log output goes to
// the global log file while the alt screen is active.
func Run(opts Options) error {
	if opts.Store == nil {
		return fmt.Errorf("tui: no store")
	}
	if opts.Loader == nil {
		opts.Loader = loader.Empty
	}

	restore := redirectLogs()
	defer restore()

	p := tea.NewProgram(
		NewModel(opts),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err := p.Run()
	return err
}

// redirectLogs sends the standard logger to the log file and returns a
// function that restores stderr.
func redirectLogs() func() {
	f, err := config.OpenLogFile()
	if err != nil {
		log.SetOutput(io.Discard)
		return func() { log.SetOutput(os.Stderr) }
	}
	log.SetOutput(f)
	return func() {
		log.SetOutput(os.Stderr)
		_ = f.Close()
	}
}
