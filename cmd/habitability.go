package cmd

import (
	"github.com/spf13/cobra"

	"github.com/papapumpkin/cosmic/internal/habitability"
	"github.com/papapumpkin/cosmic/internal/ui"
)

var habitabilityCmd = &cobra.Command{
	Use:   "habitability",
	Short: "Score a hypothetical planet's habitability",
	Long: `Estimate surface temperature, gravity, water state and a 0-100 habitability
score for a planet. Unset dials default to Earth.`,
	Args: cobra.NoArgs,
	RunE: runHabitability,
}

func init() {
	earth := habitability.Earth()
	habitabilityCmd.Flags().Float64("distance", earth.DistanceAU, "orbital distance in AU")
	habitabilityCmd.Flags().Float64("mass", earth.MassEarth, "mass in Earth masses")
	habitabilityCmd.Flags().Float64("atmosphere", earth.AtmosphereATM, "surface pressure in atmospheres")
	habitabilityCmd.Flags().Float64("water", earth.WaterPercent, "surface water coverage percent")
	rootCmd.AddCommand(habitabilityCmd)
}

func runHabitability(cmd *cobra.Command, _ []string) error {
	var p habitability.Planet
	p.DistanceAU, _ = cmd.Flags().GetFloat64("distance")
	p.MassEarth, _ = cmd.Flags().GetFloat64("mass")
	p.AtmosphereATM, _ = cmd.Flags().GetFloat64("atmosphere")
	p.WaterPercent, _ = cmd.Flags().GetFloat64("water")

	a, err := habitability.Assess(p)
	if err != nil {
		return err
	}
	ui.NewTo(cmd.OutOrStdout()).Assessment(p, a)
	return nil
}
