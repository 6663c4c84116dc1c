package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/cosmic/internal/catalog"
	"github.com/papapumpkin/cosmic/internal/telemetry"
)

var fieldCmd = &cobra.Command{
	Use:   "field",
	Short: "Generate the decorative background field as JSON",
	Args:  cobra.NoArgs,
	RunE:  runField,
}

func init() {
	fieldCmd.Flags().Int("points", -1, "number of points (default from config field.count)")
	fieldCmd.Flags().Int64("field-seed", 0, "field seed (default from config field.seed)")
	rootCmd.AddCommand(fieldCmd)
}

func runField(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	count, seed := cfg.Field.Count, cfg.Field.Seed
	if cmd.Flags().Changed("points") {
		count, _ = cmd.Flags().GetInt("points")
	}
	if cmd.Flags().Changed("field-seed") {
		seed, _ = cmd.Flags().GetInt64("field-seed")
	}

	points, err := catalog.GenerateField(count, seed)
	if err != nil {
		return err
	}

	events, err := telemetry.Open(cfg.Telemetry.Path)
	if err != nil {
		return err
	}
	defer events.Close()
	_ = events.Emit(telemetry.Event{Kind: telemetry.KindFieldGenerated, Data: map[string]int64{"count": int64(count), "seed": seed}})

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(points); err != nil {
		return fmt.Errorf("failed to encode field: %w", err)
	}
	return nil
}
