package cmd

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/joescharf/seva/internal/catalog"
	"github.com/joescharf/seva/internal/dashboard"
	"github.com/joescharf/seva/internal/models"
	"github.com/joescharf/seva/internal/store"
)

var (
	exportFormat     string
	exportDepartment string
	exportStatus     string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export issues as JSON, CSV, or Markdown",
	Long: `Export recorded issues in various formats.

Markdown output starts with a per-department summary followed by the issue table.
Image bytes are never exported; only names and detection labels are.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return exportRun()
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "Output format: json, csv, markdown")
	exportCmd.Flags().StringVar(&exportDepartment, "department", "", "Only export issues for this department")
	exportCmd.Flags().StringVar(&exportStatus, "status", "", "Only export issues with this status")
	rootCmd.AddCommand(exportCmd)
}

func exportRun() error {
	s, err := getStore()
	if err != nil {
		return err
	}
	ctx := context.Background()

	if exportDepartment != "" && !catalog.Valid(exportDepartment) {
		return fmt.Errorf("unknown department: %s (known: %s)", exportDepartment, strings.Join(catalog.IDs(), ", "))
	}

	issues, err := s.ListIssues(ctx, store.IssueListFilter{
		Department: exportDepartment,
		Status:     models.IssueStatus(exportStatus),
	})
	if err != nil {
		return err
	}

	switch exportFormat {
	case "json":
		if issues == nil {
			issues = []*models.Issue{}
		}
		enc := json.NewEncoder(ui.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(issues)
	case "csv":
		return exportCSV(issues)
	case "markdown", "md":
		exportMarkdown(issues)
		return nil
	default:
		return fmt.Errorf("unknown format: %s (use: json, csv, markdown)", exportFormat)
	}
}

func exportCSV(issues []*models.Issue) error {
	w := csv.NewWriter(ui.Out)
	_ = w.Write([]string{"ID", "Title", "Department", "Location", "Urgency", "Status", "Phone", "Images", "Created"})
	for _, i := range issues {
		_ = w.Write([]string{
			i.ID,
			i.Title,
			i.Department,
			i.Location,
			string(i.Urgency),
			string(i.Status),
			i.ContactPhone,
			imageSummary(i.Images),
			i.CreatedAt.Format(time.RFC3339),
		})
	}
	w.Flush()
	return w.Error()
}

func exportMarkdown(issues []*models.Issue) {
	stats := dashboard.Aggregate(issues)
	byDept := dashboard.ByDepartment(issues)

	fmt.Fprintln(ui.Out, "# Grievance Report")
	fmt.Fprintln(ui.Out)
	fmt.Fprintf(ui.Out, "- Issues: %d total, %d submitted, %d in-progress, %d completed\n",
		stats.Total, stats.Submitted, stats.InProgress, stats.Completed)
	fmt.Fprintln(ui.Out)

	fmt.Fprintln(ui.Out, "## By Department")
	fmt.Fprintln(ui.Out)
	for _, d := range catalog.List() {
		if n := byDept[d.ID]; n > 0 {
			fmt.Fprintf(ui.Out, "- %s: %d\n", d.Name, n)
		}
	}
	fmt.Fprintln(ui.Out)

	fmt.Fprintln(ui.Out, "## Issues")
	fmt.Fprintln(ui.Out)
	fmt.Fprintln(ui.Out, "| ID | Title | Department | Location | Urgency | Status |")
	fmt.Fprintln(ui.Out, "|----|-------|------------|----------|---------|--------|")
	for _, i := range issues {
		fmt.Fprintf(ui.Out, "| %s | %s | %s | %s | %s | %s |\n",
			i.ID, mdEscape(i.Title), catalog.Name(i.Department), mdEscape(i.Location), i.Urgency, i.Status)
	}
}

// imageSummary renders images as "name (label); ...".
func imageSummary(images []models.UploadedImage) string {
	parts := make([]string, 0, len(images))
	for _, img := range images {
		if img.DetectionLabel != "" {
			parts = append(parts, fmt.Sprintf("%s (%s)", img.Name, img.DetectionLabel))
		} else {
			parts = append(parts, img.Name)
		}
	}
	return strings.Join(parts, "; ")
}

func mdEscape(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
