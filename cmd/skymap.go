package cmd

import (
	"github.com/spf13/cobra"

	"github.com/papapumpkin/cosmic/internal/catalog"
	"github.com/papapumpkin/cosmic/internal/skymap"
	"github.com/papapumpkin/cosmic/internal/ui"
)

var skymapCmd = &cobra.Command{
	Use:   "skymap",
	Short: "Draw the catalog and background field as a character map",
	Args:  cobra.NoArgs,
	RunE:  runSkymap,
}

func init() {
	skymapCmd.Flags().Float64("zoom", skymap.MinZoom, "zoom level, 1 to 4 in steps of 0.5")
	skymapCmd.Flags().Float64("cx", skymap.PlaneSize/2, "viewport center x, 0 to 100")
	skymapCmd.Flags().Float64("cy", skymap.PlaneSize/2, "viewport center y, 0 to 100")
	skymapCmd.Flags().Int("width", 72, "map width in characters")
	skymapCmd.Flags().Int("height", 24, "map height in lines")
	rootCmd.AddCommand(skymapCmd)
}

func runSkymap(cmd *cobra.Command, _ []string) error {
	zoom, _ := cmd.Flags().GetFloat64("zoom")
	cx, _ := cmd.Flags().GetFloat64("cx")
	cy, _ := cmd.Flags().GetFloat64("cy")
	width, _ := cmd.Flags().GetInt("width")
	height, _ := cmd.Flags().GetInt("height")

	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.close()

	field, err := catalog.GenerateField(s.cfg.Field.Count, s.cfg.Field.Seed)
	if err != nil {
		return err
	}
	v := skymap.Viewport{CenterX: cx, CenterY: cy, Zoom: skymap.ClampZoom(zoom)}
	if err := v.Validate(); err != nil {
		return err
	}
	markers := skymap.Place(s.records, s.cfg.Catalog.Seed)
	ui.NewTo(cmd.OutOrStdout()).SkyMap(v.Project(markers, field), width, height)
	return nil
}
