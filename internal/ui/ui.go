// Package ui renders cosmic's human-facing CLI output: catalog tables,
// fusion breakdowns, statistics and a character-cell sky map. Everything
// is styled with the escape codes in internal/ansi.
package ui

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/papapumpkin/cosmic/internal/ansi"
	"github.com/papapumpkin/cosmic/internal/catalog"
	"github.com/papapumpkin/cosmic/internal/fusion"
	"github.com/papapumpkin/cosmic/internal/habitability"
	"github.com/papapumpkin/cosmic/internal/skymap"
	"github.com/papapumpkin/cosmic/internal/workspace"
)

// Printer writes styled output. Status lines go to stderr by default so
// that data written to stdout stays pipeable.
type Printer struct {
	out io.Writer
}

// New returns a Printer writing to stderr.
func New() *Printer {
	return &Printer{out: os.Stderr}
}

// NewTo returns a Printer writing to w.
func NewTo(w io.Writer) *Printer {
	return &Printer{out: w}
}

// Banner prints the program header.
func (p *Printer) Banner() {
	fmt.Fprintln(p.out, ansi.Bold+ansi.Cyan+"  ╔═══════════════════════════════════╗"+ansi.Reset)
	fmt.Fprintln(p.out, ansi.Bold+ansi.Cyan+"  ║"+ansi.Reset+ansi.Bold+"   COSMIC  "+ansi.Dim+"measurement harmonizer"+ansi.Reset+ansi.Bold+ansi.Cyan+"  ║"+ansi.Reset)
	fmt.Fprintln(p.out, ansi.Bold+ansi.Cyan+"  ╚═══════════════════════════════════╝"+ansi.Reset)
	fmt.Fprintln(p.out)
}

// Error prints an error line.
func (p *Printer) Error(msg string) {
	fmt.Fprintf(p.out, ansi.Red+ansi.Bold+"error: "+ansi.Reset+"%s\n", msg)
}

// Info prints a dim informational line.
func (p *Printer) Info(msg string) {
	fmt.Fprintf(p.out, ansi.Dim+"%s"+ansi.Reset+"\n", msg)
}

// Success prints a green check line.
func (p *Printer) Success(msg string) {
	fmt.Fprintf(p.out, ansi.Green+ansi.Bold+"✓ "+ansi.Reset+"%s\n", msg)
}

// Generated reports a catalog generation.
func (p *Printer) Generated(count int, seed int64, conflicts int) {
	fmt.Fprintf(p.out, ansi.Cyan+"◆ catalog"+ansi.Reset+" %d record(s) from seed %d "+ansi.Dim+"(%d in conflict)"+ansi.Reset+"\n",
		count, seed, conflicts)
}

// CatalogTable prints one row per record. Conflicting records are marked
// with a yellow warning sign.
func (p *Printer) CatalogTable(records []catalog.Record) {
	fmt.Fprintf(p.out, ansi.Bold+"%-10s %-22s %-2s %7s %8s %9s %6s  %s"+ansi.Reset+"\n",
		"ID", "NAME", "SC", "TEMP K", "MASS", "DIST LY", "CONF", "")
	for _, r := range records {
		flag := ""
		if r.HasConflict {
			flag = ansi.Yellow + "⚠ conflict" + ansi.Reset
		}
		fmt.Fprintf(p.out, "%-10s %-22s %s%-2s%s %7d %8.2f %9.1f %6.3f  %s\n",
			r.ID, truncate(r.Name, 22), ansi.Hex(r.Color), r.SpectralClass, ansi.Reset,
			r.TemperatureK, r.MassSolar, r.DistanceLy, r.ConfidenceScore, flag)
	}
}

// Resolution prints the fused distance for one record and each source's
// contribution.
func (p *Printer) Resolution(r catalog.Record, res fusion.Resolution) {
	fmt.Fprintf(p.out, "\n"+ansi.Bold+ansi.Cyan+"%s"+ansi.Reset+" %s "+ansi.Dim+"(%s, %s)"+ansi.Reset+"\n",
		r.ID, r.Name, r.SpectralClass, r.Kind)
	for _, d := range res.Sources {
		fmt.Fprintf(p.out, "  %-7s %10.2f ly  weight %6.2f  share %5.1f%%  %s\n",
			d.Source, d.Value, d.Weight, d.Share*100, signedPercent(d.Deviation))
	}
	fused := fmt.Sprintf("%.2f ly", res.Fused)
	if res.Degenerate {
		fused += ansi.Yellow + " (all weights zero)" + ansi.Reset
	}
	fmt.Fprintf(p.out, "  "+ansi.Bold+"fused"+ansi.Reset+"   %s  %s from anchor\n", fused, signedPercent(res.Deviation))
	if res.HasConflict {
		fmt.Fprintln(p.out, "  "+ansi.Yellow+ansi.Bold+"⚠ sources disagree"+ansi.Reset+ansi.Dim+" (flag set at generation)"+ansi.Reset)
	}
}

// WeightsUpdated reports a live weight change and the new fused value.
func (p *Printer) WeightsUpdated(id string, w catalog.Weights, fused float64) {
	fmt.Fprintf(p.out, ansi.Magenta+"↻ %s"+ansi.Reset+" hubble=%g gaia=%g jwst=%g "+ansi.Bold+"→ %.2f ly"+ansi.Reset+"\n",
		id, w[catalog.Hubble], w[catalog.Gaia], w[catalog.JWST], fused)
}

// Stats prints catalog-wide aggregates.
func (p *Printer) Stats(st workspace.Stats) {
	fmt.Fprintln(p.out, ansi.Bold+"catalog:"+ansi.Reset)
	fmt.Fprintf(p.out, "  records:          %d\n", st.Count)
	fmt.Fprintf(p.out, "  conflicts:        %d\n", st.Conflicts)
	fmt.Fprintf(p.out, "  mean confidence:  %.3f\n", st.MeanConfidence)
	fmt.Fprintf(p.out, "  mean distance:    %.1f ly\n", st.MeanDistanceLy)
	if st.Nearest != "" {
		fmt.Fprintf(p.out, "  nearest:          %s\n", st.Nearest)
		fmt.Fprintf(p.out, "  farthest:         %s\n", st.Farthest)
	}
	for _, c := range st.Classes() {
		info, _ := catalog.Spectral(c)
		fmt.Fprintf(p.out, "  %s%s%s %-24s %d\n", ansi.Hex(info.Color), c, ansi.Reset, info.Description, st.ByClass[c])
	}
}

// Assessment prints a habitability result.
func (p *Printer) Assessment(planet habitability.Planet, a habitability.Assessment) {
	color := ansi.Green
	switch a.State {
	case habitability.Steam:
		color = ansi.Red
	case habitability.Ice:
		color = ansi.Blue
	}
	fmt.Fprintf(p.out, ansi.Bold+"planet"+ansi.Reset+" %.2f AU, %.2f M⊕, %.2f atm, %.0f%% water\n",
		planet.DistanceAU, planet.MassEarth, planet.AtmosphereATM, planet.WaterPercent)
	fmt.Fprintf(p.out, "  surface:  %d °C "+color+"%s"+ansi.Reset+"\n", a.SurfaceTempC, a.State)
	fmt.Fprintf(p.out, "  gravity:  %.2f g\n", a.GravityG)
	fmt.Fprintf(p.out, "  score:    "+ansi.Bold+"%d"+ansi.Reset+"/100\n", a.Score)
}

// SkyMap draws a frame as a width×height character grid. Background points
// become dots, records become stars (yellow when in conflict).
func (p *Printer) SkyMap(f skymap.Frame, width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	grid := make([][]string, height)
	for i := range grid {
		grid[i] = make([]string, width)
		for j := range grid[i] {
			grid[i][j] = " "
		}
	}
	cell := func(sx, sy float64) (int, int) {
		col := int(math.Floor(sx / skymap.PlaneSize * float64(width)))
		row := int(math.Floor(sy / skymap.PlaneSize * float64(height)))
		return min(max(col, 0), width-1), min(max(row, 0), height-1)
	}
	for _, pt := range f.Points {
		c, r := cell(pt.SX, pt.SY)
		if pt.Opacity >= 0.5 {
			grid[r][c] = ansi.Dim + "·" + ansi.Reset
		} else if grid[r][c] == " " {
			grid[r][c] = ansi.Dim + "." + ansi.Reset
		}
	}
	for _, m := range f.Markers {
		c, r := cell(m.SX, m.SY)
		glyph := ansi.Hex(m.Color) + "*" + ansi.Reset
		if m.Conflict {
			glyph = ansi.Yellow + ansi.Bold + "*" + ansi.Reset
		}
		grid[r][c] = glyph
	}

	border := "+" + strings.Repeat("-", width) + "+"
	fmt.Fprintln(p.out, border)
	for _, row := range grid {
		fmt.Fprintln(p.out, "|"+strings.Join(row, "")+"|")
	}
	fmt.Fprintln(p.out, border)
	fmt.Fprintf(p.out, ansi.Dim+"zoom %.1fx  center (%.1f, %.1f)  %d record(s)  %d background point(s)"+ansi.Reset+"\n",
		f.Viewport.Zoom, f.Viewport.CenterX, f.Viewport.CenterY, len(f.Markers), len(f.Points))
}

// ConfigValid reports a successful configuration check.
func (p *Printer) ConfigValid(source string) {
	if source == "" {
		source = "built-in defaults"
	}
	fmt.Fprintf(p.out, ansi.Green+ansi.Bold+"✓ config valid"+ansi.Reset+": %s\n", source)
}

func signedPercent(v float64) string {
	s := fmt.Sprintf("%+.2f%%", v*100)
	if math.Abs(v) >= 0.05 {
		return ansi.Yellow + s + ansi.Reset
	}
	return ansi.Dim + s + ansi.Reset
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
