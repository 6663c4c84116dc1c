package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/papapumpkin/cosmic/internal/catalog"
	"github.com/papapumpkin/cosmic/internal/store"
	"github.com/papapumpkin/cosmic/internal/tui"
	"github.com/papapumpkin/cosmic/internal/weightfile"
)

// tuiCmd launches the interactive harmonizer.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive harmonizer",
	Long: `Browse the catalog and drag the hubble, gaia and jwst trust weights of the
selected record; the fused distance updates as you go. With --weights, edits to
a TOML weight file are applied to the selected record live.`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().String("weights", "", "weight file to watch and apply to the selected record")
	tuiCmd.Flags().Bool("persist", false, "restore from and save weights to the snapshot store")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	if !isStderrTTY() {
		return fmt.Errorf("cosmic tui requires a TTY (terminal)")
	}
	weightsPath, _ := cmd.Flags().GetString("weights")
	persist, _ := cmd.Flags().GetBool("persist")
	ctx := cmd.Context()

	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.close()

	var st *store.Store
	if persist {
		if st, err = openStore(ctx, s.cfg.Store.Path); err != nil {
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

	// Service logs would corrupt the alternate screen.
	logger := zap.NewNop()
	hook := func(id string, w catalog.Weights) {
		weightsChanged(ctx, st, s.events, logger, id, w)
	}
	p := tui.NewProgram(s.workspace(), s.cfg.Weights.Max, hook)

	if weightsPath != "" {
		watcher, err := weightfile.NewWatcher(weightsPath)
		if err != nil {
			return fmt.Errorf("failed to create watcher: %w", err)
		}
		if err := watcher.Start(); err != nil {
			return fmt.Errorf("failed to watch %s: %w", weightsPath, err)
		}
		defer watcher.Stop()
		go func() {
			for u := range watcher.Updates {
				p.Send(tui.MsgWeightsFile{Weights: u.Weights, Err: u.Err})
			}
		}()
	}

	return tui.Run(p)
}
