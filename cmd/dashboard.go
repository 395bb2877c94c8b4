package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/joescharf/seva/internal/catalog"
	"github.com/joescharf/seva/internal/dashboard"
	"github.com/joescharf/seva/internal/output"
)

var dashboardLimit int

var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"dash", "status"},
	Short:   "Show issue counts and the most recent issues",
	RunE: func(cmd *cobra.Command, args []string) error {
		n := dashboardLimit
		if n <= 0 {
			n = viper.GetInt("dashboard.preview")
		}
		return dashboardRun(n)
	},
}

func init() {
	dashboardCmd.Flags().IntVar(&dashboardLimit, "limit", 0, "Number of recent issues to show (default dashboard.preview)")
	rootCmd.AddCommand(dashboardCmd)
}

func dashboardRun(n int) error {
	s, err := getStore()
	if err != nil {
		return err
	}

	summary, err := dashboard.Build(context.Background(), s, n)
	if err != nil {
		return err
	}

	stats := summary.Stats
	fmt.Fprintf(ui.Out, "Total Issues: %s   Submitted: %s   In Progress: %s   Completed: %s\n",
		output.CountColor(stats.Total),
		output.CountColor(stats.Submitted),
		output.CountColor(stats.InProgress),
		output.CountColor(stats.Completed),
	)

	if stats.Total == 0 {
		fmt.Fprintln(ui.Out)
		ui.Info("No issues reported yet. Run 'seva report' or 'seva tui' to report one.")
		return nil
	}

	fmt.Fprintln(ui.Out)
	table := ui.Table([]string{"Department", "Issues"})
	for _, d := range catalog.List() {
		if count := summary.ByDepartment[d.ID]; count > 0 {
			_ = table.Append([]string{d.Name, fmt.Sprintf("%d", count)})
		}
	}
	_ = table.Render()

	fmt.Fprintln(ui.Out)
	fmt.Fprintln(ui.Out, "Recent Issues")
	renderIssueTable(summary.Recent)
	return nil
}
