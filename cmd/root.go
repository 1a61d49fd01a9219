package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/calcitb/internal/advisor"
	"github.com/abhisek/calcitb/internal/llm"
	"github.com/abhisek/calcitb/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "calcitb",
	Short: "Ankle-brachial index calculator",
	Long: "CalcITB computes the ankle-brachial index (ITB) from two systolic pressures, " +
		"classifies the vascular risk, and can ask an LLM to explain the result or read a photo of the numbers.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite audit database (overrides CALCITB_DB env var)")
	rootCmd.PersistentFlags().Bool("no-splash", false, "Open the calculator without the welcome screen")
	rootCmd.PersistentFlags().String("provider", "", "LLM provider: gemini, openai, anthropic, openrouter or mock (overrides CALCITB_LLM_PROVIDER)")

	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(calcCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(bandsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then CALCITB_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// openStore opens the audit database for the command.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

// aiBackend is the advisor plus whatever it holds open.
type aiBackend struct {
	advisor *advisor.LLMAdvisor
	store   *store.Store
}

// Advisor returns the advisor as an interface, nil when AI is off.
func (b *aiBackend) Advisor() advisor.Advisor {
	if b.advisor == nil {
		return nil
	}
	return b.advisor
}

// ModelLabel names the model for display.
func (b *aiBackend) ModelLabel() string {
	if b.advisor == nil {
		return ""
	}
	return b.advisor.ModelID()
}

func (b *aiBackend) Close() {
	if b.store != nil {
		b.store.Close()
	}
}

// openAI builds the advisor from the environment. A missing provider or
// an unusable audit database is reported on stderr and never fatal:
// scoring works without either.
func openAI(ctx context.Context, cmd *cobra.Command) *aiBackend {
	b := &aiBackend{}

	var repo store.EventRepo
	if s, err := openStore(cmd); err != nil {
		fmt.Fprintln(os.Stderr, "Audit log unavailable:", err)
	} else {
		b.store = s
		repo = s.EventRepo()
	}

	override, _ := cmd.Flags().GetString("provider")
	provider, err := llm.NewProviderFromEnv(ctx, override, repo)
	if err != nil {
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "AI features will be unavailable.")
		return b
	}
	b.advisor = advisor.New(provider, advisor.DefaultConfig())
	return b
}
