// Package cli implements the salesboard CLI commands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var sourceFlag string

var rootCmd = &cobra.Command{
	Use:   "salesboard",
	Short: "Rank sales tasks by return on time",
	Long: `Salesboard tracks sales tasks and ranks them by ROI (revenue per hour).

Run without a subcommand to open the interactive board. Tasks are loaded
once per session from --source, the configured source, a running feed
server, or generated sample data.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runTUI,
}

// Execute runs the CLI.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, styleError.Render("Error:"), err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&sourceFlag, "source", "", "task source: http(s) URL or .json/.yaml/.toml file")

	// Add subcommands (alphabetical)
	rootCmd.AddCommand(configureCmd)
	rootCmd.AddCommand(feedCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(watchCmd)
}
