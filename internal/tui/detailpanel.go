package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/papapumpkin/cosmic/internal/catalog"
	"github.com/papapumpkin/cosmic/internal/fusion"
)

// sliderWidth is the number of cells in a slider bar.
const sliderWidth = 20

// renderDetail draws the selected record, its sliders and the fused value.
func renderDetail(r catalog.Record, res fusion.Resolution, active int, maxWeight float64) string {
	var b strings.Builder
	b.WriteString(styleDetailTitle.Render(r.ID+"  "+r.Name) + "\n")
	b.WriteString(styleDetailDim.Render(fmt.Sprintf("%s · %s · %d K · %.2f M☉ · %s",
		r.Kind, r.Description, r.TemperatureK, r.MassSolar, r.Sector)) + "\n\n")

	for i, d := range res.Sources {
		b.WriteString(renderSlider(d, i == active, maxWeight))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	fused := styleFused.Render(fmt.Sprintf("fused %.2f ly", res.Fused))
	dev := styleDetailDim.Render(fmt.Sprintf(" (%+.2f%% vs jwst)", res.Deviation*100))
	b.WriteString(fused + dev + "\n")
	switch {
	case res.Degenerate:
		b.WriteString(styleRowConflict.Render("all weights are zero; fused value is meaningless"))
	case res.HasConflict:
		b.WriteString(styleRowConflict.Render(fmt.Sprintf("%s sources disagree · confidence %.2f", iconConflict, r.ConfidenceScore)))
	default:
		b.WriteString(styleRowClean.Render(fmt.Sprintf("sources agree · confidence %.2f", r.ConfidenceScore)))
	}
	return b.String()
}

// renderSlider draws one source row: name, bar, weight, value and share.
func renderSlider(d fusion.SourceDetail, active bool, maxWeight float64) string {
	if maxWeight <= 0 {
		maxWeight = 100
	}
	filled := int(math.Round(math.Min(d.Weight/maxWeight, 1) * sliderWidth))
	bar := strings.Repeat(sliderFull, filled) + strings.Repeat(sliderEmpty, sliderWidth-filled)
	line := fmt.Sprintf("%-6s %s %5.1f  %9.2f ly  %5.1f%%", d.Source, bar, d.Weight, d.Value, d.Share*100)
	if active {
		return styleSliderActive.Render("▸ " + line)
	}
	return styleSliderIdle.Render("  " + line)
}
