package cmd

import (
	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/calcitb/internal/itb"
	"github.com/abhisek/calcitb/internal/ui/components"
)

var bandsCmd = &cobra.Command{
	Use:   "bands",
	Short: "Print the ITB reference bands",
	RunE: func(cmd *cobra.Command, args []string) error {
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return writeJSON(cmd.OutOrStdout(), itb.Bands)
		}
		lipgloss.Fprintln(cmd.OutOrStdout(), components.BandTable(cliWidth+20, ""))
		return nil
	},
}

func init() {
	bandsCmd.Flags().Bool("json", false, "Print the bands as JSON")
}
