package cmd

import (
	"github.com/spf13/cobra"

	"github.com/joescharf/seva/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP stdio server",
	Long: `Start an MCP (Model Context Protocol) server on stdio.

This lets an MCP client file and browse grievances. Configure it with:

  {
    "mcpServers": {
      "seva": { "command": "seva", "args": ["mcp"] }
    }
  }

Available tools: seva_list_departments, seva_submit_issue, seva_list_issues,
seva_dashboard`,
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

		srv := mcp.NewServer(s, classifier, assembler, buildVersion)
		return srv.ServeStdio(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
