package cli

import (
	"fmt"
	"os"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/watchfire-io/salesboard/internal/config"
)

var (
	feedHost       string
	feedPort       int
	feedCount      int
	feedRandomSeed int64
)

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Manage the local task feed server",
	Long: `Manage salesboard-feed, a local HTTP server that serves task records
on /tasks.json. While it runs, it is the default source for the board.`,
}

var feedStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the feed server",
	RunE:  runFeedStart,
}

var feedStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show feed server status",
	RunE:  runFeedStatus,
}

var feedStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the feed server",
	RunE:  runFeedStop,
}

func init() {
	feedStartCmd.Flags().StringVar(&feedHost, "host", "localhost", "listen host")
	feedStartCmd.Flags().IntVarP(&feedPort, "port", "p", 0, "listen port (0 = any free port)")
	feedStartCmd.Flags().IntVarP(&feedCount, "count", "c", 0, "generated tasks when serving without a source")
	feedStartCmd.Flags().Int64Var(&feedRandomSeed, "random-seed", 0, "seed for generated tasks")

	feedCmd.AddCommand(feedStartCmd)
	feedCmd.AddCommand(feedStatusCmd)
	feedCmd.AddCommand(feedStopCmd)
}

func runFeedStart(cmd *cobra.Command, args []string) error {
	running, info, err := config.IsFeedRunning()
	if err != nil {
		return fmt.Errorf("failed to check feed status: %w", err)
	}

	if running && info != nil {
		fmt.Printf("Feed is already running (PID %d, %s).\n", info.PID, info.TasksURL())
		return nil
	}

	// Clean up stale feed info if it exists
	if info != nil {
		_ = config.RemoveFeedInfo()
	}

	fmt.Print("Starting feed...")
	fresh, err := startFeed(feedStartArgs(feedHost, feedPort, sourceFlag, feedCount, feedRandomSeed))
	if err != nil {
		fmt.Println()
		return err
	}

	fmt.Printf(" %s (PID %d).\n", styleSuccess.Render("started"), fresh.PID)
	fmt.Printf("  %s %s\n", styleLabel.Render("Tasks:"), styleValue.Render(fresh.TasksURL()))
	return nil
}

func runFeedStatus(cmd *cobra.Command, args []string) error {
	running, info, err := config.IsFeedRunning()
	if err != nil {
		return fmt.Errorf("failed to check feed status: %w", err)
	}

	if !running || info == nil {
		fmt.Println("Feed is not running.")
		return nil
	}

	uptime := time.Since(info.StartedAt).Truncate(time.Second)
	source := info.Source
	if source == "" {
		source = "generated"
	}

	fmt.Println("Feed is running.")
	fmt.Printf("  %s %s\n", styleLabel.Render("URL:       "), info.TasksURL())
	fmt.Printf("  %s %d\n", styleLabel.Render("PID:       "), info.PID)
	fmt.Printf("  %s %s\n", styleLabel.Render("Source:    "), source)
	fmt.Printf("  %s %s\n", styleLabel.Render("Uptime:    "), uptime)

	health, err := fetchFeedHealth(cmd.Context(), info)
	if err != nil {
		fmt.Printf("  %s %s\n", styleLabel.Render("Health:    "), styleWarning.Render(err.Error()))
		return nil
	}
	fmt.Printf("  %s %d\n", styleLabel.Render("Records:   "), health.Records)
	return nil
}

func runFeedStop(cmd *cobra.Command, args []string) error {
	running, info, err := config.IsFeedRunning()
	if err != nil {
		return fmt.Errorf("failed to check feed status: %w", err)
	}

	if !running || info == nil {
		fmt.Println("Feed is not running.")
		return nil
	}

	// Send SIGTERM to the feed process
	process, err := os.FindProcess(info.PID)
	if err != nil {
		return fmt.Errorf("failed to find feed process: %w", err)
	}

	if err := process.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("failed to send stop signal: %w", err)
	}

	// Poll for shutdown (max 5 seconds)
	for i := 0; i < 50; i++ {
		time.Sleep(100 * time.Millisecond)
		stillRunning, _, err := config.IsFeedRunning()
		if err == nil && !stillRunning {
			fmt.Println("Feed stopped.")
			return nil
		}
	}

	return fmt.Errorf("feed did not stop within timeout")
}
