package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/calcitb/internal/itb"
	"github.com/abhisek/calcitb/internal/session"
	"github.com/abhisek/calcitb/internal/ui/components"
	"github.com/abhisek/calcitb/internal/ui/markdown"
	"github.com/abhisek/calcitb/internal/ui/theme"
)

const cliWidth = 72

var errIncomplete = errors.New("both readings are required and must be non-zero")

// calcOutput is the --json shape of calc.
type calcOutput struct {
	itb.Result
	Explanation string `json:"explanation,omitempty"`
}

var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Compute and classify the ITB from two systolic pressures",
	Example: `  calcitb calc --arm 120 --ankle 108
  calcitb calc --arm 120 --ankle 132 --explain --age 67`,
	RunE: func(cmd *cobra.Command, args []string) error {
		arm, _ := cmd.Flags().GetString("arm")
		ankle, _ := cmd.Flags().GetString("ankle")
		explain, _ := cmd.Flags().GetBool("explain")
		age, _ := cmd.Flags().GetString("age")
		symptoms, _ := cmd.Flags().GetString("symptoms")
		asJSON, _ := cmd.Flags().GetBool("json")

		ctx := cmd.Context()

		var ai *aiBackend
		if explain {
			ai = openAI(ctx, cmd)
			defer ai.Close()
		}

		calc := session.New(ai != nil && ai.Advisor() != nil)
		if err := applyReadings(calc, arm, ankle); err != nil {
			return err
		}
		if !calc.Compute() {
			return errIncomplete
		}
		if ai != nil && ai.Advisor() != nil {
			calc.SetContext(age, symptoms)
			calc.Explain(ctx, ai.Advisor())
		}

		v := calc.Snapshot()
		if asJSON {
			return writeJSON(cmd.OutOrStdout(), calcOutput{Result: *v.Result, Explanation: v.Explanation})
		}
		printResult(cmd.OutOrStdout(), *v.Result, v.Explanation)
		return nil
	},
}

// applyReadings sets both fields through the digit filter.
func applyReadings(calc *session.Calculator, arm, ankle string) error {
	if !calc.SetArm(arm) {
		return fmt.Errorf("invalid arm reading %q: digits only", arm)
	}
	if !calc.SetAnkle(ankle) {
		return fmt.Errorf("invalid ankle reading %q: digits only", ankle)
	}
	return nil
}

func printResult(w io.Writer, r itb.Result, explanation string) {
	lipgloss.Fprintln(w, components.ResultCard(r, cliWidth))
	lipgloss.Fprintln(w, components.NewGauge(r.Score, cliWidth).View())
	if explanation != "" {
		body := theme.Title.Render("Análise Inteligente") + "\n\n" + markdown.Render(explanation, cliWidth-6)
		lipgloss.Fprintln(w, theme.AICard.Width(cliWidth).Render(body))
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	calcCmd.Flags().String("arm", "", "Arm systolic pressure in mmHg")
	calcCmd.Flags().String("ankle", "", "Ankle systolic pressure in mmHg")
	calcCmd.Flags().Bool("explain", false, "Ask the configured LLM to explain the result")
	calcCmd.Flags().String("age", "", "Patient age, sent with --explain")
	calcCmd.Flags().String("symptoms", "", "Reported symptoms, sent with --explain")
	calcCmd.Flags().Bool("json", false, "Print the result as JSON")
}
