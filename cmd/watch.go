package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/papapumpkin/cosmic/internal/catalog"
	"github.com/papapumpkin/cosmic/internal/fusion"
	"github.com/papapumpkin/cosmic/internal/logging"
	"github.com/papapumpkin/cosmic/internal/ui"
	"github.com/papapumpkin/cosmic/internal/weightfile"
)

var watchCmd = &cobra.Command{
	Use:   "watch <record-id>",
	Short: "Re-fuse a record every time a weight file changes",
	Long: `Watch a TOML weight file and re-fuse the given record each time the file is
saved. The file holds a single [weights] table with hubble, gaia and jwst keys;
it is created with the configured weights if it does not exist.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().String("weights", "weights.toml", "weight file to watch")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("weights")
	printer := ui.New()
	out := ui.NewTo(cmd.OutOrStdout())

	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.close()

	logger, err := logging.New(s.cfg.Verbose)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ws := s.workspace()
	rec, err := ws.Record(args[0])
	if err != nil {
		return err
	}

	initial, err := weightfile.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		initial = s.cfg.Weights.Vector()
		if err := weightfile.Save(path, initial); err != nil {
			return err
		}
		printer.Info(fmt.Sprintf("created %s with the configured weights", path))
	} else if err != nil {
		return err
	}

	apply := func(w catalog.Weights) error {
		if err := ws.ReplaceWeights(rec.ID, w); err != nil {
			return err
		}
		fused, err := fusion.Fuse(rec.Measurements, w)
		if err != nil {
			return err
		}
		weightsChanged(cmd.Context(), nil, s.events, logger, rec.ID, w)
		out.WeightsUpdated(rec.ID, w, fused)
		return nil
	}
	if err := apply(initial); err != nil {
		return err
	}
	res, err := ws.Resolve(rec.ID)
	if err != nil {
		return err
	}
	out.Resolution(rec, res)

	watcher, err := weightfile.NewWatcher(path)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Start(); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}
	defer watcher.Stop()
	printer.Info(fmt.Sprintf("watching %s, ctrl-c to stop", path))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sig)

	for {
		select {
		case <-sig:
			return nil
		case u := <-watcher.Updates:
			if u.Err != nil {
				logger.Warn("weight file rejected", zap.String("path", path), zap.Error(u.Err))
				printer.Error(u.Err.Error())
				continue
			}
			if err := apply(u.Weights); err != nil {
				printer.Error(err.Error())
			}
		}
	}
}
