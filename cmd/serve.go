package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/papapumpkin/cosmic/internal/api"
	"github.com/papapumpkin/cosmic/internal/catalog"
	"github.com/papapumpkin/cosmic/internal/logging"
	"github.com/papapumpkin/cosmic/internal/mcpserver"
	"github.com/papapumpkin/cosmic/internal/store"
)

// shutdownTimeout bounds graceful shutdown of the HTTP servers.
const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the catalog and fusion API over HTTP",
	Long: `Serve the catalog, fusion, sky map and habitability endpoints as JSON on
serve.addr. With --persist, weight changes are written to the SQLite snapshot;
with --mcp, the MCP tool server runs alongside on mcp.port.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default from config serve.addr)")
	serveCmd.Flags().Bool("persist", false, "restore from and save weights to the snapshot store")
	serveCmd.Flags().Bool("mcp", false, "also run the MCP tool server")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	persist, _ := cmd.Flags().GetBool("persist")
	withMCP, _ := cmd.Flags().GetBool("mcp")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.close()
	addr := s.cfg.Serve.Addr
	if cmd.Flags().Changed("addr") {
		addr, _ = cmd.Flags().GetString("addr")
	}

	logger, err := logging.New(s.cfg.Verbose)
	if err != nil {
		return err
	}
	defer logger.Sync()

	var st *store.Store
	if persist {
		st, err = openStore(ctx, s.cfg.Store.Path)
		if err != nil {
			return err
		}
		defer st.Close()
		if err := s.restore(ctx); err != nil {
			return err
		}
		if !s.restored {
			if err := st.SaveCatalog(ctx, s.cfg.Catalog.Seed, s.records); err != nil {
				return err
			}
		}
	}

	field, err := catalog.GenerateField(s.cfg.Field.Count, s.cfg.Field.Seed)
	if err != nil {
		return err
	}
	opts := api.Options{
		Workspace: s.workspace(),
		Field:     field,
		MapSeed:   s.cfg.Catalog.Seed,
		Logger:    logger.Named("api"),
		Events:    s.events,
	}
	if st != nil {
		opts.Store = st
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           api.New(opts).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("api listening", zap.String("addr", addr), zap.Int("records", len(s.records)), zap.Bool("restored", s.restored))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("api: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if withMCP {
		mcpSrv := mcpserver.NewServer(s.cfg.MCP.Port, mcpserver.Options{
			Policy: s.cfg.Policy,
			Logger: logger.Named("mcp"),
			Events: s.events,
		})
		if err := mcpSrv.Start(gctx); err != nil {
			stop()
			_ = g.Wait()
			return err
		}
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return mcpSrv.Stop(shutdownCtx)
		})
	}

	return g.Wait()
}
