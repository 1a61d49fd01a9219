package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/calcitb/internal/llm"
	"github.com/abhisek/calcitb/internal/store"
)

const auditTime = "2006-01-02 15:04:05"

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect the audit log of LLM explain and scan calls",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM calls, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := listOpts(cmd)
		if err != nil {
			return err
		}
		asJSON, _ := cmd.Flags().GetBool("json")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().QueryLLMEvents(cmd.Context(), opts)
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		if asJSON {
			return writeJSON(cmd.OutOrStdout(), events)
		}
		printEvents(cmd.OutOrStdout(), events)
		return nil
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the full prompt and answer of one LLM call",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		e, err := s.EventRepo().GetLLMEvent(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if e == nil {
			return fmt.Errorf("event %d not found", id)
		}
		printEvent(cmd.OutOrStdout(), *e)
		return nil
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarise token usage and estimated cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		repo := s.EventRepo()
		byPurpose, err := repo.LLMUsageByPurpose(cmd.Context())
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		byModel, err := repo.LLMUsageByModel(cmd.Context())
		if err != nil {
			return fmt.Errorf("query model usage: %w", err)
		}
		printUsage(cmd.OutOrStdout(), byPurpose, byModel)
		return nil
	},
}

// listOpts turns the list flags into a store query.
func listOpts(cmd *cobra.Command) (store.QueryOpts, error) {
	limit, _ := cmd.Flags().GetInt("limit")
	purpose, _ := cmd.Flags().GetString("purpose")
	request, _ := cmd.Flags().GetString("request")
	since, _ := cmd.Flags().GetDuration("since")

	switch purpose {
	case "", llm.PurposeExplain, llm.PurposeScan:
	default:
		return store.QueryOpts{}, fmt.Errorf("unknown purpose %q (want %s or %s)", purpose, llm.PurposeExplain, llm.PurposeScan)
	}

	opts := store.QueryOpts{Limit: limit, Purpose: purpose, RequestID: request}
	if since > 0 {
		opts.From = time.Now().Add(-since)
	}
	return opts, nil
}

func printEvents(w io.Writer, events []store.LLMEvent) {
	if len(events) == 0 {
		fmt.Fprintln(w, "No LLM events found.")
		return
	}

	fmt.Fprintf(w, "%-5s  %-19s  %-8s  %-36s  %-28s  %6s  %6s  %7s  %s\n",
		"ID", "Timestamp", "Purpose", "Request", "Model", "In", "Out", "Ms", "OK")
	fmt.Fprintln(w, rule(132))
	for _, e := range events {
		fmt.Fprintf(w, "%-5d  %-19s  %-8s  %-36s  %-28s  %6d  %6d  %7d  %s\n",
			e.ID,
			e.Timestamp.Local().Format(auditTime),
			e.Purpose,
			truncate(e.RequestID, 36),
			truncate(e.Model, 28),
			e.InputTokens,
			e.OutputTokens,
			e.LatencyMs,
			mark(e.Success),
		)
	}
}

func printEvent(w io.Writer, e store.LLMEvent) {
	fields := [][2]string{
		{"ID", strconv.Itoa(e.ID)},
		{"Time", e.Timestamp.Local().Format(auditTime)},
		{"Provider", e.Provider},
		{"Model", e.Model},
		{"Purpose", e.Purpose},
		{"Request", e.RequestID},
		{"Tokens", fmt.Sprintf("%d in / %d out", e.InputTokens, e.OutputTokens)},
		{"Latency", fmt.Sprintf("%dms", e.LatencyMs)},
		{"Success", strconv.FormatBool(e.Success)},
		{"Error", e.ErrorMessage},
	}
	for _, f := range fields {
		if f[1] == "" {
			continue
		}
		fmt.Fprintf(w, "%-10s %s\n", f[0]+":", f[1])
	}

	for _, part := range [][2]string{{"REQUEST", e.RequestBody}, {"RESPONSE", e.ResponseBody}} {
		body := part[1]
		if body == "" {
			body = "(not captured)"
		}
		fmt.Fprintf(w, "\n%s\n%s\n%s\n%s\n", rule(60), part[0], rule(60), strings.TrimRight(body, "\n"))
	}
}

// printUsage prints per-purpose token totals, then the estimated cost per
// model. Models missing from the pricing table make the total partial.
func printUsage(w io.Writer, byPurpose []store.PurposeUsage, byModel []store.ModelUsage) {
	if len(byPurpose) == 0 {
		fmt.Fprintln(w, "No LLM usage recorded yet.")
		return
	}

	fmt.Fprintf(w, "Usage by Purpose\n%s\n", rule(72))
	fmt.Fprintf(w, "%-16s  %6s  %10s  %10s  %10s  %8s\n", "Purpose", "Calls", "Input", "Output", "Total", "Avg Ms")
	fmt.Fprintln(w, rule(72))
	var calls, in, out int
	for _, u := range byPurpose {
		fmt.Fprintf(w, "%-16s  %6d  %10d  %10d  %10d  %8d\n",
			u.Purpose, u.Calls, u.InputTokens, u.OutputTokens, u.InputTokens+u.OutputTokens, u.AvgLatencyMs)
		calls += u.Calls
		in += u.InputTokens
		out += u.OutputTokens
	}
	fmt.Fprintln(w, rule(72))
	fmt.Fprintf(w, "%-16s  %6d  %10d  %10d  %10d\n", "TOTAL", calls, in, out, in+out)

	if len(byModel) == 0 {
		return
	}

	fmt.Fprintf(w, "\nEstimated Cost (USD)\n%s\n", rule(72))
	fmt.Fprintf(w, "%-32s  %6s  %10s  %10s  %10s\n", "Model", "Calls", "Input", "Output", "Cost")
	fmt.Fprintln(w, rule(72))
	var (
		total   float64
		unknown []string
	)
	for _, u := range byModel {
		cost := "?"
		if price := llm.LookupCost(u.Model); price != nil {
			c := price.Cost(u.InputTokens, u.OutputTokens)
			total += c
			cost = formatCost(c)
		} else {
			unknown = append(unknown, u.Model)
		}
		fmt.Fprintf(w, "%-32s  %6d  %10d  %10d  %10s\n", truncate(u.Model, 32), u.Calls, u.InputTokens, u.OutputTokens, cost)
	}
	fmt.Fprintln(w, rule(72))

	label := "TOTAL"
	if len(unknown) > 0 {
		label = "TOTAL (partial)"
	}
	fmt.Fprintf(w, "%-32s  %6s  %10s  %10s  %10s\n", label, "", "", "", formatCost(total))
	if len(unknown) > 0 {
		fmt.Fprintf(w, "\nPricing unavailable for: %s\n", strings.Join(unknown, ", "))
	}
}

func rule(n int) string { return strings.Repeat("─", n) }

func mark(ok bool) string {
	if ok {
		return "✓"
	}
	return "✗"
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Filter by purpose (explain or scan)")
	llmListCmd.Flags().String("request", "", "Only calls made for this request ID (see X-Request-ID)")
	llmListCmd.Flags().Duration("since", 0, "Only calls newer than this, e.g. 24h")
	llmListCmd.Flags().Bool("json", false, "Print events as JSON")

	llmCmd.AddCommand(llmListCmd, llmViewCmd, llmStatsCmd)
}
