package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/cosmic/internal/telemetry"
	"github.com/papapumpkin/cosmic/internal/ui"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Save the generated catalog to the SQLite store",
	Long: `Generate the catalog and save it, with its current weights, to the SQLite
database at store.path, replacing any earlier snapshot. Fused values are not
stored; they are recomputed from the weights.`,
	Args: cobra.NoArgs,
	RunE: runSnapshot,
}

func init() {
	snapshotCmd.Flags().Bool("show", false, "print the saved snapshot instead of writing one")
	rootCmd.AddCommand(snapshotCmd)
}

func runSnapshot(cmd *cobra.Command, _ []string) error {
	show, _ := cmd.Flags().GetBool("show")
	ctx := cmd.Context()

	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.close()

	st, err := openStore(ctx, s.cfg.Store.Path)
	if err != nil {
		return err
	}
	defer st.Close()

	if show {
		snap, err := st.LoadCatalog(ctx)
		if err != nil {
			return err
		}
		ui.NewTo(cmd.OutOrStdout()).CatalogTable(snap.Records)
		ui.New().Info(fmt.Sprintf("snapshot of seed %d, %d record(s)", snap.Seed, len(snap.Records)))
		return nil
	}

	if err := st.SaveCatalog(ctx, s.cfg.Catalog.Seed, s.records); err != nil {
		return err
	}
	_ = s.events.Emit(telemetry.Event{Kind: telemetry.KindSnapshotSaved, Data: map[string]any{
		"path": s.cfg.Store.Path, "count": len(s.records), "seed": s.cfg.Catalog.Seed,
	}})
	ui.New().Success(fmt.Sprintf("saved %d record(s) to %s", len(s.records), s.cfg.Store.Path))
	return nil
}
