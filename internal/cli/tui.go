package cli

import (
	"github.com/spf13/cobra"

	"github.com/watchfire-io/salesboard/internal/store"
	"github.com/watchfire-io/salesboard/internal/telemetry"
	"github.com/watchfire-io/salesboard/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive board",
	RunE:  runTUI,
}

func runTUI(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	return tui.Run(tui.Options{
		Store:    store.New(),
		Loader:   newLoader(resolveSource(settings), settings),
		Tracker:  telemetry.New(settings.Telemetry),
		Currency: settings.Display.Currency,
	})
}
