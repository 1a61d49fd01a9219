package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/calcitb/internal/capture"
	"github.com/abhisek/calcitb/internal/itb"
	"github.com/abhisek/calcitb/internal/session"
)

// scanOutput is the --json shape of scan.
type scanOutput struct {
	Reading itb.Reading `json:"reading"`
	Result  *itb.Result `json:"result,omitempty"`
}

var scanCmd = &cobra.Command{
	Use:   "scan <image|->",
	Short: "Read the two pressures from a photo of a note or device display",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		withCalc, _ := cmd.Flags().GetBool("calc")
		asJSON, _ := cmd.Flags().GetBool("json")
		ctx := cmd.Context()

		ai := openAI(ctx, cmd)
		defer ai.Close()
		if ai.Advisor() == nil {
			return errors.New("scan needs an LLM provider; set CALCITB_LLM_PROVIDER and its API key")
		}

		src, err := openSource(args[0])
		if err != nil {
			return err
		}
		image, err := capture.Grab(ctx, src)
		if err != nil {
			return fmt.Errorf("read image: %w", err)
		}

		calc := session.New(true)
		calc.Scan(ctx, ai.Advisor(), image)
		v := calc.Snapshot()
		if v.ScanError != "" {
			return errors.New(v.ScanError)
		}

		out := scanOutput{Reading: v.Reading}
		if withCalc && calc.Compute() {
			out.Result = calc.Snapshot().Result
		}

		if asJSON {
			return writeJSON(cmd.OutOrStdout(), out)
		}
		printReading(cmd.OutOrStdout(), out.Reading)
		if out.Result != nil {
			fmt.Fprintln(cmd.OutOrStdout())
			printResult(cmd.OutOrStdout(), *out.Result, "")
		} else if withCalc {
			fmt.Fprintln(cmd.ErrOrStderr(), "Not enough readings to compute the ITB.")
		}
		return nil
	},
}

func openSource(arg string) (capture.Source, error) {
	if arg == "-" {
		return capture.FromReader(io.NopCloser(os.Stdin)), nil
	}
	return capture.OpenFile(arg)
}

func printReading(w io.Writer, r itb.Reading) {
	fmt.Fprintf(w, "Pressão Braço (Sistólica):     %s\n", orDash(r.Arm))
	fmt.Fprintf(w, "Pressão Tornozelo (Sistólica): %s\n", orDash(r.Ankle))
}

func orDash(v string) string {
	if v == "" {
		return "-"
	}
	return v + " mmHg"
}

func init() {
	scanCmd.Flags().Bool("calc", false, "Also compute the ITB when both readings were found")
	scanCmd.Flags().Bool("json", false, "Print the readings as JSON")
}
