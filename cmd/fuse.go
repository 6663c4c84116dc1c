package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/cosmic/internal/catalog"
	"github.com/papapumpkin/cosmic/internal/fusion"
	"github.com/papapumpkin/cosmic/internal/telemetry"
	"github.com/papapumpkin/cosmic/internal/ui"
)

var fuseCmd = &cobra.Command{
	Use:   "fuse [record-id]",
	Short: "Fuse a record's measurements under a weight vector",
	Long: `Fuse the hubble, gaia and jwst distance measurements of one catalog record
into a single weighted-mean estimate. Weights not given as flags come from the
configuration. With --raw, fuse three arbitrary measurements instead.`,
	Example: `  cosmic fuse COS-10003 --hubble 0
  cosmic fuse --raw 10,12,11 --hubble 1 --gaia 1 --jwst 1`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFuse,
}

func init() {
	for _, src := range catalog.Sources() {
		fuseCmd.Flags().Float64(string(src), 0, fmt.Sprintf("%s trust weight (default from config)", src))
	}
	fuseCmd.Flags().String("raw", "", "comma-separated hubble,gaia,jwst measurements to fuse without a catalog")
	rootCmd.AddCommand(fuseCmd)
}

func runFuse(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	weights := cfg.Weights.Vector()
	for _, src := range catalog.Sources() {
		if cmd.Flags().Changed(string(src)) {
			weights[src], _ = cmd.Flags().GetFloat64(string(src))
		}
	}

	raw, _ := cmd.Flags().GetString("raw")
	if raw != "" {
		if len(args) > 0 {
			return fmt.Errorf("give either a record id or --raw, not both")
		}
		m, err := parseMeasurements(raw)
		if err != nil {
			return err
		}
		fused, err := fusion.Fuse(m, weights)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%g\n", fused)
		return nil
	}
	if len(args) == 0 {
		return fmt.Errorf("a record id or --raw is required")
	}

	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.close()

	rec, err := s.workspace().Record(args[0])
	if err != nil {
		return err
	}
	res, err := fusion.Resolve(rec, weights)
	if err != nil {
		return err
	}
	_ = s.events.Emit(telemetry.Event{Kind: telemetry.KindFusionComputed, RecordID: rec.ID, Data: map[string]float64{"fused": res.Fused}})
	ui.NewTo(cmd.OutOrStdout()).Resolution(rec, res)
	return nil
}

// parseMeasurements reads "h,g,j" in source order.
func parseMeasurements(raw string) (catalog.Measurements, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != len(catalog.Sources()) {
		return nil, fmt.Errorf("--raw needs %d values, got %d: %w", len(catalog.Sources()), len(parts), catalog.ErrInvalidArgument)
	}
	m := make(catalog.Measurements, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("--raw value %q: %w", p, catalog.ErrInvalidArgument)
		}
		m[catalog.Sources()[i]] = v
	}
	return m, nil
}
