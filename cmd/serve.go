package cmd

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/abhisek/calcitb/internal/httpapi"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the calculator as a JSON API",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		ai := openAI(ctx, cmd)
		defer ai.Close()

		gin.SetMode(gin.ReleaseMode)
		srv := httpapi.New(httpapi.Options{
			Advisor:    ai.Advisor(),
			ModelLabel: ai.ModelLabel(),
			Logger:     slog.New(slog.NewJSONHandler(os.Stderr, nil)),
		})
		return srv.ListenAndServe(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "Listen address")
}
