package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/joescharf/seva/internal/catalog"
	"github.com/joescharf/seva/internal/form"
	"github.com/joescharf/seva/internal/intake"
	"github.com/joescharf/seva/internal/models"
	"github.com/joescharf/seva/internal/output"
	"github.com/joescharf/seva/internal/session"
)

var (
	reportTitle      string
	reportDesc       string
	reportLocation   string
	reportUrgency    string
	reportPhone      string
	reportDepartment string
	reportImages     []string
	reportSuggest    bool
	reportAIDraft    string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Report a new issue",
	Long: `Report a new issue to a department.

Title, description and location are required. Urgency defaults to medium and
the department to transport. Attach photos with --image (repeatable); files
that are not images are skipped with a warning.

--suggest picks the department and urgency from the title and description
when they are not given. --ai-draft fills blank fields from a free-text
complaint using the configured Anthropic model.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return reportRun(cmd.Context())
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportTitle, "title", "", "Brief title of the issue")
	reportCmd.Flags().StringVar(&reportDesc, "desc", "", "Detailed description")
	reportCmd.Flags().StringVar(&reportLocation, "location", "", "Address or landmark")
	reportCmd.Flags().StringVar(&reportUrgency, "urgency", "", "Urgency: low, medium, high (default medium)")
	reportCmd.Flags().StringVar(&reportPhone, "phone", "", "Contact phone for updates (optional)")
	reportCmd.Flags().StringVarP(&reportDepartment, "department", "d", "", "Department id (see 'seva departments')")
	reportCmd.Flags().StringArrayVarP(&reportImages, "image", "i", nil, "Path to a photo to attach (repeatable)")
	reportCmd.Flags().BoolVar(&reportSuggest, "suggest", false, "Suggest department and urgency from the text")
	reportCmd.Flags().StringVar(&reportAIDraft, "ai-draft", "", "Free-text complaint to draft blank fields from")
	rootCmd.AddCommand(reportCmd)
}

func reportRun(ctx context.Context) error {
	s, err := getStore()
	if err != nil {
		return err
	}
	classifier, err := newClassifier()
	if err != nil {
		return err
	}
	assembler, err := newAssembler()
	if err != nil {
		return err
	}

	if reportAIDraft != "" {
		if err := applyAIDraft(ctx, reportAIDraft); err != nil {
			return err
		}
	}

	department := reportDepartment
	urgency := reportUrgency
	if reportSuggest {
		text := reportTitle + " " + reportDesc
		if department == "" {
			department = catalog.Suggest(text)
			ui.VerboseLog("Suggested department: %s", department)
		}
		if urgency == "" {
			urgency = string(form.SuggestUrgency(text))
			ui.VerboseLog("Suggested urgency: %s", urgency)
		}
	}

	sess := session.New(s, intake.New(classifier), assembler)
	_ = sess.SetMode(session.ModeReport)

	if department != "" {
		if err := sess.SelectDepartment(department); err != nil {
			return fmt.Errorf("%w (known: %s)", err, strings.Join(catalog.IDs(), ", "))
		}
	}

	fields := map[string]string{
		form.FieldTitle:        reportTitle,
		form.FieldDescription:  reportDesc,
		form.FieldLocation:     reportLocation,
		form.FieldContactPhone: reportPhone,
	}
	if urgency != "" {
		fields[form.FieldUrgency] = urgency
	}
	for field, value := range fields {
		if err := sess.SetField(field, value); err != nil {
			return err
		}
	}

	if len(reportImages) > 0 {
		candidates := make([]intake.Candidate, 0, len(reportImages))
		for _, path := range reportImages {
			c, err := intake.CandidateFromFile(path)
			if err != nil {
				return err
			}
			candidates = append(candidates, c)
		}
		accepted, rejected := sess.AddFiles(ctx, candidates)
		for _, c := range rejected {
			ui.Warning("Skipping %s: not an image (%s)", c.Name, c.ContentType)
		}
		for _, img := range accepted {
			ui.VerboseLog("Attached %s (%s, %s)", img.Name, formatBytes(img.SizeBytes), img.DetectionLabel)
		}
	}

	if dryRun {
		issue, err := assembler.Submit(sess.Draft, sess.Department, sess.Images())
		if err != nil {
			return err
		}
		ui.DryRunMsg("Would submit issue: %s [%s] to %s with %d image(s)",
			issue.Title, issue.Urgency, catalog.Name(issue.Department), len(issue.Images))
		return nil
	}

	issue, note, err := sess.Submit(ctx)
	if err != nil {
		return err
	}

	ui.Notify(note.Title, note.Message)
	printIssue(issue)
	if viper.GetString("store.driver") == "memory" {
		ui.Info("store.driver is memory: this issue is not kept after the command exits (set store.driver: sqlite)")
	}
	return nil
}

// applyAIDraft fills any blank report flags from an LLM-drafted report.
func applyAIDraft(ctx context.Context, text string) error {
	client := newLLMClient()
	if client == nil {
		return fmt.Errorf("--ai-draft needs an Anthropic API key (anthropic.api_key or ANTHROPIC_API_KEY)")
	}

	ui.VerboseLog("Drafting report with %s", viper.GetString("anthropic.model"))
	draft, err := client.DraftReport(ctx, text, catalog.IDs())
	if err != nil {
		return fmt.Errorf("draft report: %w", err)
	}

	fill := func(dst *string, v string) {
		if *dst == "" {
			*dst = strings.TrimSpace(v)
		}
	}
	fill(&reportTitle, draft.Title)
	fill(&reportDesc, draft.Description)
	fill(&reportLocation, draft.Location)
	if catalog.Valid(draft.Department) {
		fill(&reportDepartment, draft.Department)
	}
	if models.IssueUrgency(draft.Urgency).Valid() {
		fill(&reportUrgency, draft.Urgency)
	}
	return nil
}

// printIssue prints the detail view of one issue.
func printIssue(issue *models.Issue) {
	fmt.Fprintf(ui.Out, "%s  %s\n", output.Cyan(issue.ID), issue.Title)
	fmt.Fprintf(ui.Out, "  Department: %s\n", catalog.Name(issue.Department))
	fmt.Fprintf(ui.Out, "  Location:   %s\n", issue.Location)
	fmt.Fprintf(ui.Out, "  Urgency:    %s\n", output.UrgencyColor(string(issue.Urgency)))
	fmt.Fprintf(ui.Out, "  Status:     %s\n", output.StatusColor(string(issue.Status)))
	if issue.Description != "" {
		fmt.Fprintf(ui.Out, "  Desc:       %s\n", issue.Description)
	}
	if issue.ContactPhone != "" {
		fmt.Fprintf(ui.Out, "  Phone:      %s\n", issue.ContactPhone)
	}
	for i, img := range issue.Images {
		label := "Images:"
		if i > 0 {
			label = ""
		}
		fmt.Fprintf(ui.Out, "  %-11s %s (%s, %s)\n", label, img.Name, formatBytes(img.SizeBytes), img.DetectionLabel)
	}
	fmt.Fprintf(ui.Out, "  Created:    %s (%s)\n", issue.CreatedAt.Format("2006-01-02 15:04"), timeAgo(issue.CreatedAt))
}
