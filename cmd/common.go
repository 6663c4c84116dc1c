package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"

	"github.com/papapumpkin/cosmic/internal/catalog"
	"github.com/papapumpkin/cosmic/internal/config"
	"github.com/papapumpkin/cosmic/internal/store"
	"github.com/papapumpkin/cosmic/internal/telemetry"
	"github.com/papapumpkin/cosmic/internal/workspace"
)

// session bundles what most commands need: validated config, the run's
// telemetry emitter and the generated (or restored) catalog.
type session struct {
	cfg     config.Config
	events  *telemetry.Emitter
	records []catalog.Record
	// restored is set when records came from the snapshot store.
	restored bool
}

// loadConfig loads and validates configuration.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// newSession loads config, opens telemetry and generates the catalog with
// the configured weights applied to every record.
func newSession() (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	events, err := telemetry.Open(cfg.Telemetry.Path)
	if err != nil {
		return nil, err
	}
	_ = events.Emit(telemetry.Event{Kind: telemetry.KindSessionStart, Data: map[string]any{"args": os.Args[1:]}})
	records, err := generateCatalog(cfg, events)
	if err != nil {
		events.Close()
		return nil, err
	}
	return &session{cfg: cfg, events: events, records: records}, nil
}

// restore replaces the generated catalog with the saved snapshot, if there
// is one.
func (s *session) restore(ctx context.Context) error {
	st, err := store.Open(ctx, s.cfg.Store.Path)
	if err != nil {
		return err
	}
	defer st.Close()

	snap, err := st.LoadCatalog(ctx)
	if errors.Is(err, store.ErrNoSnapshot) {
		return nil
	}
	if err != nil {
		return err
	}
	s.records, s.restored = snap.Records, true
	return nil
}

// workspace wraps the session's records with the configured weight ceiling.
func (s *session) workspace() *workspace.Workspace {
	return workspace.New(s.records, s.cfg.Weights.Max)
}

// close releases the telemetry emitter.
func (s *session) close() {
	s.events.Close()
}

// generateCatalog runs the generator with the configured policy and seeds
// each record's weight cell with the configured initial weights.
func generateCatalog(cfg config.Config, events *telemetry.Emitter) ([]catalog.Record, error) {
	records, err := catalog.GenerateWith(cfg.Catalog.Count, cfg.Catalog.Seed, cfg.Policy)
	if err != nil {
		return nil, err
	}
	initial := cfg.Weights.Vector()
	for i := range records {
		records[i].Weights = catalog.NewWeightCell(initial)
	}
	_ = events.Emit(telemetry.Event{
		Kind: telemetry.KindCatalogGenerated,
		Data: map[string]int64{"count": int64(cfg.Catalog.Count), "seed": cfg.Catalog.Seed},
	})
	return records, nil
}

// openStore opens the snapshot database, creating its directory.
func openStore(ctx context.Context, path string) (*store.Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return store.Open(ctx, path)
}

// weightsChanged emits a telemetry event and logs persistence failures.
func weightsChanged(ctx context.Context, st *store.Store, events *telemetry.Emitter, logger *zap.Logger, id string, w catalog.Weights) {
	_ = events.Emit(telemetry.Event{Kind: telemetry.KindWeightsChanged, RecordID: id, Data: w})
	if st == nil {
		return
	}
	if err := st.SaveWeights(ctx, id, w); err != nil {
		logger.Warn("save weights", zap.String("record", id), zap.Error(err))
	}
}

// isStderrTTY reports whether stderr is attached to a terminal.
func isStderrTTY() bool {
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
