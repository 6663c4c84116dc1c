package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/cosmic/internal/logging"
	"github.com/papapumpkin/cosmic/internal/mcpserver"
	"github.com/papapumpkin/cosmic/internal/telemetry"
	"github.com/papapumpkin/cosmic/internal/ui"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve catalog generation and fusion as MCP tools over SSE",
	Args:  cobra.NoArgs,
	RunE:  runMCP,
}

func init() {
	mcpCmd.Flags().Int("port", 0, "listen port (default from config mcp.port)")
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	port := cfg.MCP.Port
	if cmd.Flags().Changed("port") {
		port, _ = cmd.Flags().GetInt("port")
	}

	logger, err := logging.New(cfg.Verbose)
	if err != nil {
		return err
	}
	defer logger.Sync()

	events, err := telemetry.Open(cfg.Telemetry.Path)
	if err != nil {
		return err
	}
	defer events.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := mcpserver.NewServer(port, mcpserver.Options{Policy: cfg.Policy, Logger: logger, Events: events})
	if err := srv.Start(ctx); err != nil {
		return err
	}
	ui.New().Info(fmt.Sprintf("mcp tools on http://%s, ctrl-c to stop", srv.Addr()))

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Stop(shutdownCtx)
}
