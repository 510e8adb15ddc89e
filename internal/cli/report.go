package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/watchfire-io/salesboard/internal/loader"
	"github.com/watchfire-io/salesboard/internal/models"
	"github.com/watchfire-io/salesboard/internal/store"
	"github.com/watchfire-io/salesboard/internal/tui"
)

var (
	reportFormat string
	reportLimit  int
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print ranked tasks and portfolio metrics",
	Long: `Load tasks once and print them in ranked order (ROI, then priority,
then title) followed by the portfolio metrics.`,
	Args: cobra.NoArgs,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVarP(&reportFormat, "format", "f", "table", "output format: table, json or yaml")
	reportCmd.Flags().IntVarP(&reportLimit, "limit", "n", 0, "show at most N tasks (0 = all)")
}

// Report is the ranked view of one load.
type Report struct {
	Source  string               `json:"source" yaml:"source"`
	Tasks   []models.DerivedTask `json:"tasks" yaml:"tasks"`
	Metrics models.Metrics       `json:"metrics" yaml:"metrics"`
}

func runReport(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	source := resolveSource(settings)
	rep, err := buildReport(cmd.Context(), newLoader(source, settings))
	if err != nil {
		return err
	}
	rep.Source = source

	return writeReport(cmd.OutOrStdout(), rep, reportOptions{
		format:   reportFormat,
		limit:    reportLimit,
		currency: settings.Display.Currency,
		width:    terminalWidth(),
	})
}

// buildReport runs a single load through a fresh store.
func buildReport(ctx context.Context, l loader.Loader) (Report, error) {
	st := store.New()
	defer st.Close()

	if err := st.Load(ctx, l); err != nil {
		return Report{}, fmt.Errorf("failed to load tasks: %w", err)
	}
	snap := st.Snapshot()
	return Report{Tasks: snap.Ranked, Metrics: snap.Metrics}, nil
}

type reportOptions struct {
	format   string
	limit    int
	currency string
	width    int
}

func writeReport(w io.Writer, rep Report, opts reportOptions) error {
	if opts.limit > 0 && opts.limit < len(rep.Tasks) {
		rep.Tasks = rep.Tasks[:opts.limit]
	}
	if rep.Tasks == nil {
		rep.Tasks = []models.DerivedTask{}
	}

	switch opts.format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rep); err != nil {
			return err
		}
		return enc.Close()
	case "table", "":
		return writeReportTable(w, rep, opts)
	}
	return fmt.Errorf("unknown format %q (want table, json or yaml)", opts.format)
}

func writeReportTable(w io.Writer, rep Report, opts reportOptions) error {
	currency := opts.currency
	if currency == "" {
		currency = "$"
	}

	if len(rep.Tasks) == 0 {
		fmt.Fprintln(w, styleHint.Render("No tasks."))
	} else {
		t := table.New().
			Border(lipgloss.NormalBorder()).
			BorderStyle(styleHint).
			Headers("#", "TITLE", "REVENUE", "HOURS", "ROI", "PRIORITY", "STATUS").
			StyleFunc(func(row, col int) lipgloss.Style {
				s := lipgloss.NewStyle().Padding(0, 1)
				if row == table.HeaderRow {
					return s.Bold(true)
				}
				if col == 6 && row >= 0 && row < len(rep.Tasks) {
					return s.Inherit(statusBadge(rep.Tasks[row].Status))
				}
				return s
			})
		if opts.width > 0 {
			t = t.Width(opts.width)
		}
		for i, d := range rep.Tasks {
			t.Row(
				strconv.Itoa(i+1),
				d.Title,
				tui.FormatMoney(currency, d.Revenue),
				strconv.FormatFloat(d.TimeTaken, 'f', -1, 64),
				tui.FormatROI(d.ROI),
				string(d.Priority),
				string(d.Status),
			)
		}
		fmt.Fprintln(w, t.String())
	}

	m := rep.Metrics
	fmt.Fprintln(w)
	printMetric(w, "Total revenue", tui.FormatMoney(currency, m.TotalRevenue))
	printMetric(w, "Total time", strconv.FormatFloat(m.TotalTimeTaken, 'f', -1, 64)+"h")
	printMetric(w, "Revenue/hour", tui.FormatMoney(currency, m.RevenuePerHour))
	printMetric(w, "Average ROI", strconv.FormatFloat(m.AverageROI, 'f', 1, 64))
	printMetric(w, "Efficiency", strconv.FormatFloat(m.TimeEfficiencyPct, 'f', 1, 64)+"%")
	printMetric(w, "Grade", string(m.PerformanceGrade))
	return nil
}

func printMetric(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %s %s\n", styleLabel.Render(fmt.Sprintf("%-14s", label)), styleValue.Render(value))
}

// terminalWidth returns the stdout width, or 0 when stdout is not a terminal.
func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}
	w, _, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return w
}
