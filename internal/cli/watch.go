package cli

import (
	"fmt"
	"io"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/watchfire-io/salesboard/internal/loader"
	"github.com/watchfire-io/salesboard/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-run the report whenever the source file changes",
	Long: `Watch a task record file and print a fresh report each time it is saved.
Every change is loaded into a new store.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&reportFormat, "format", "f", "table", "output format: table, json or yaml")
	watchCmd.Flags().IntVarP(&reportLimit, "limit", "n", 0, "show at most N tasks (0 = all)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	path, err := watchPath(pickSource(sourceFlag, settings.Source, ""))
	if err != nil {
		return err
	}

	w, err := watcher.New()
	if err != nil {
		return err
	}
	defer w.Stop()
	if err := w.WatchFile(path); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	opts := reportOptions{
		format:   reportFormat,
		limit:    reportLimit,
		currency: settings.Display.Currency,
		width:    terminalWidth(),
	}
	render := func() {
		fmt.Fprintf(out, "%s %s\n", styleBrand.Render(filepath.Base(path)), styleHint.Render(time.Now().Format("15:04:05")))
		rep, err := buildReport(ctx, &loader.FileLoader{Path: path})
		if err != nil {
			printWatchError(out, err)
			return
		}
		rep.Source = path
		if err := writeReport(out, rep, opts); err != nil {
			printWatchError(out, err)
		}
		fmt.Fprintln(out)
	}

	render()
	fmt.Fprintln(out, styleHint.Render("Watching for changes. Ctrl+C to stop."))

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events():
			if !ok {
				return nil
			}
			switch ev.Type {
			case watcher.EventSourceChanged:
				render()
			case watcher.EventSourceRemoved:
				fmt.Fprintln(out, styleWarning.Render("Source removed: ")+ev.Path)
			}
		}
	}
}

// watchPath checks that source names a local file and returns its absolute path.
func watchPath(source string) (string, error) {
	if source == "" {
		return "", fmt.Errorf("watch needs a file source: pass --source path or set source in settings")
	}
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return "", fmt.Errorf("cannot watch a URL source: %s", source)
	}
	return filepath.Abs(source)
}

func printWatchError(w io.Writer, err error) {
	fmt.Fprintln(w, styleError.Render("Error:"), err)
}
