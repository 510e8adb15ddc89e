package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/watchfire-io/salesboard/internal/config"
	"github.com/watchfire-io/salesboard/internal/models"
)

var configureCmd = &cobra.Command{
	Use:     "configure",
	Aliases: []string{"config"},
	Short:   "Configure global settings",
	Long: `Configure global settings interactively.

This allows you to modify:
  - Default task source (URL or file)
  - Sample data generation
  - Display currency
  - Usage telemetry

Press Enter to keep the current value for any setting.`,
	Args: cobra.NoArgs,
	RunE: runConfigure,
}

func runConfigure(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	changed, err := promptSettings(bufio.NewReader(cmd.InOrStdin()), out, settings)
	if err != nil {
		return err
	}
	if !changed {
		fmt.Fprintln(out, "\nNo changes made.")
		return nil
	}

	if err := config.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	fmt.Fprintln(out, "\nSettings updated.")
	return nil
}

// promptSettings walks through every setting and edits s in place.
// Entering "-" clears the source.
func promptSettings(reader *bufio.Reader, out io.Writer, s *models.Settings) (bool, error) {
	changed := false

	source := s.Source
	if source == "" {
		source = "none"
	}
	if v := prompt(reader, out, "Task source (URL or file, - to clear)", source); v != "" {
		if v == "-" {
			v = ""
		}
		if v != s.Source {
			s.Source = v
			changed = true
		}
	}

	fmt.Fprintln(out, "\nSample data:")

	if v := prompt(reader, out, "  Generated task count", strconv.Itoa(s.Seed.Count)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return false, fmt.Errorf("invalid task count: %s (expected a positive integer)", v)
		}
		if n != s.Seed.Count {
			s.Seed.Count = n
			changed = true
		}
	}

	if v := prompt(reader, out, "  Random seed (0 = clock)", strconv.FormatInt(s.Seed.RandomSeed, 10)); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return false, fmt.Errorf("invalid random seed: %s", v)
		}
		if n != s.Seed.RandomSeed {
			s.Seed.RandomSeed = n
			changed = true
		}
	}

	if v := promptYesNoWithCurrent(reader, out, "  Generate tasks when the source fails?", s.Seed.OnError); v != s.Seed.OnError {
		s.Seed.OnError = v
		changed = true
	}

	fmt.Fprintln(out, "\nDisplay:")

	if v := prompt(reader, out, "  Currency symbol", s.Display.Currency); v != "" && v != s.Display.Currency {
		s.Display.Currency = v
		changed = true
	}

	fmt.Fprintln(out, "\nTelemetry:")

	if v := promptYesNoWithCurrent(reader, out, "  Send anonymous usage events?", s.Telemetry.Enabled); v != s.Telemetry.Enabled {
		s.Telemetry.Enabled = v
		changed = true
	}
	if s.Telemetry.Enabled {
		key := "unset"
		if s.Telemetry.APIKey != "" {
			key = "set"
		}
		if v := prompt(reader, out, "  PostHog API key", key); v != "" && v != s.Telemetry.APIKey {
			s.Telemetry.APIKey = v
			changed = true
		}
		if s.Telemetry.APIKey == "" {
			fmt.Fprintln(out, styleHint.Render("  Telemetry stays off until an API key is set."))
		}
	}

	return changed, nil
}

// prompt prints a label with the current value and returns the trimmed answer.
func prompt(reader *bufio.Reader, out io.Writer, label, current string) string {
	fmt.Fprintf(out, "%s [%s]: ", label, current)
	response, _ := reader.ReadString('\n')
	return strings.TrimSpace(response)
}

// promptYesNoWithCurrent prompts for a yes/no value showing the current value.
func promptYesNoWithCurrent(reader *bufio.Reader, out io.Writer, label string, current bool) bool {
	currentStr := "no"
	if current {
		currentStr = "yes"
	}

	response := strings.ToLower(prompt(reader, out, label, currentStr))
	if response == "" {
		return current
	}
	return response == "y" || response == "yes"
}
