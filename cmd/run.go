package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/calcitb/internal/app"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Run the interactive calculator (default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd)
	},
}

// runTUI builds the optional advisor and launches the TUI.
func runTUI(cmd *cobra.Command) error {
	ai := openAI(cmd.Context(), cmd)
	defer ai.Close()

	skip, _ := cmd.Flags().GetBool("no-splash")
	return app.Run(app.Options{
		Advisor:     ai.Advisor(),
		ModelLabel:  ai.ModelLabel(),
		SkipWelcome: skip,
	})
}
