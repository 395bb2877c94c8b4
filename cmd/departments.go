package cmd

import (
	"github.com/spf13/cobra"

	"github.com/joescharf/seva/internal/catalog"
	"github.com/joescharf/seva/internal/form"
	"github.com/joescharf/seva/internal/output"
)

var departmentsSuggest string

var departmentsCmd = &cobra.Command{
	Use:     "departments",
	Aliases: []string{"depts"},
	Short:   "List the departments an issue can be routed to",
	Long: `List the departments an issue can be routed to.

With --suggest, print the department and urgency that the keyword heuristics
would pick for the given text.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if departmentsSuggest != "" {
			return departmentsSuggestRun(departmentsSuggest)
		}
		return departmentsListRun()
	},
}

func init() {
	departmentsCmd.Flags().StringVar(&departmentsSuggest, "suggest", "", "Suggest a department and urgency for this text")
	rootCmd.AddCommand(departmentsCmd)
}

func departmentsListRun() error {
	table := ui.Table([]string{"ID", "Name", "Icon", "Color"})
	for _, d := range catalog.List() {
		id := d.ID
		if id == catalog.DefaultDepartment {
			id = output.Cyan(id + " *")
		}
		_ = table.Append([]string{id, d.Name, d.Icon, d.ColorTag})
	}
	_ = table.Render()
	ui.VerboseLog("* default department")
	return nil
}

func departmentsSuggestRun(text string) error {
	dept := catalog.Suggest(text)
	urgency := form.SuggestUrgency(text)
	ui.Info("Department: %s (%s)", output.Cyan(dept), catalog.Name(dept))
	ui.Info("Urgency:    %s", output.UrgencyColor(string(urgency)))
	return nil
}
