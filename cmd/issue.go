package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joescharf/seva/internal/catalog"
	"github.com/joescharf/seva/internal/models"
	"github.com/joescharf/seva/internal/output"
	"github.com/joescharf/seva/internal/store"
)

var (
	issueDepartment string
	issueStatus     string
	issueUrgency    string
	issueLimit      int
)

var issueCmd = &cobra.Command{
	Use:     "issues",
	Aliases: []string{"issue", "i"},
	Short:   "Browse reported issues",
	RunE: func(cmd *cobra.Command, args []string) error {
		return issueListRun(cmd.Context())
	},
}

var issueListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List issues, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return issueListRun(cmd.Context())
	},
}

var issueShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show issue details (full ID or unique prefix)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return issueShowRun(cmd.Context(), args[0])
	},
}

func init() {
	for _, c := range []*cobra.Command{issueCmd, issueListCmd} {
		c.Flags().StringVar(&issueDepartment, "department", "", "Filter by department id")
		c.Flags().StringVar(&issueStatus, "status", "", "Filter by status: submitted, in-progress, completed")
		c.Flags().StringVar(&issueUrgency, "urgency", "", "Filter by urgency: low, medium, high")
		c.Flags().IntVar(&issueLimit, "limit", 0, "Maximum number of issues (0 = all)")
	}

	issueCmd.AddCommand(issueListCmd)
	issueCmd.AddCommand(issueShowCmd)
	rootCmd.AddCommand(issueCmd)
}

func issueListRun(ctx context.Context) error {
	s, err := getStore()
	if err != nil {
		return err
	}

	if issueDepartment != "" && !catalog.Valid(issueDepartment) {
		return fmt.Errorf("unknown department: %s (known: %s)", issueDepartment, strings.Join(catalog.IDs(), ", "))
	}
	if issueUrgency != "" && !models.IssueUrgency(issueUrgency).Valid() {
		return fmt.Errorf("invalid urgency: %s (use: low, medium, high)", issueUrgency)
	}

	issues, err := s.ListIssues(ctx, store.IssueListFilter{
		Department: issueDepartment,
		Status:     models.IssueStatus(issueStatus),
		Urgency:    models.IssueUrgency(issueUrgency),
		Limit:      issueLimit,
	})
	if err != nil {
		return err
	}

	if len(issues) == 0 {
		ui.Info("No issues found.")
		return nil
	}

	renderIssueTable(issues)
	return nil
}

// renderIssueTable prints issues as a table, one row per issue.
func renderIssueTable(issues []*models.Issue) {
	table := ui.Table([]string{"ID", "Title", "Department", "Location", "Urgency", "Status", "Images", "Reported"})
	for _, issue := range issues {
		_ = table.Append([]string{
			shortID(issue.ID),
			issue.Title,
			catalog.Name(issue.Department),
			issue.Location,
			output.UrgencyColor(string(issue.Urgency)),
			output.StatusColor(string(issue.Status)),
			fmt.Sprintf("%d", len(issue.Images)),
			timeAgo(issue.CreatedAt),
		})
	}
	_ = table.Render()
}

func issueShowRun(ctx context.Context, id string) error {
	s, err := getStore()
	if err != nil {
		return err
	}

	issue, err := findIssue(ctx, s, id)
	if err != nil {
		return err
	}

	printIssue(issue)
	return nil
}
