package cmd

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/joescharf/seva/internal/intake"
	"github.com/joescharf/seva/internal/session"
	"github.com/joescharf/seva/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive grievance portal",
	Long: `Open the interactive terminal portal.

The dashboard shows issue counts and recent issues. Press n (or tab) to
report an issue; after a successful submit the portal returns to the
dashboard.`,
	RunE: func(cmd *cobra.Command, args []string) error {
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

		sess := session.New(s, intake.New(classifier), assembler,
			session.WithPreview(viper.GetInt("dashboard.preview")))

		p := tea.NewProgram(tui.NewModel(cmd.Context(), sess), tea.WithAltScreen())
		_, err = p.Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
