// Package skymap lays catalog records out on a 2-D plane and projects them,
// together with the decorative background field, through a zoomable
// viewport. Placement is seeded and deterministic, so a given catalog and
// seed always produce the same map.
package skymap

import (
	"fmt"
	"math"

	"github.com/papapumpkin/cosmic/internal/catalog"
	"github.com/papapumpkin/cosmic/internal/rng"
)

// Plane and zoom constants. Record positions live in [0, PlaneSize).
const (
	PlaneSize = 100.0
	MinZoom   = 1.0
	MaxZoom   = 4.0
	ZoomStep  = 0.5

	// minMarkerSize keeps tiny stars visible.
	minMarkerSize = 2.0
	// markerScale converts relative size to marker size.
	markerScale = 200.0
	// fieldScale maps background coordinates onto the plane so that the
	// generated field square spans it.
	fieldScale = PlaneSize / 4000.0
	// parallax is how strongly the background follows pan and zoom.
	parallax = 0.5
)

// Marker is a record placed on the plane.
type Marker struct {
	ID       string  `json:"id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Size     float64 `json:"size"`
	Color    string  `json:"color"`
	Conflict bool    `json:"conflict"`
}

// Place assigns every record a deterministic position. Positions are drawn
// in record order from a source seeded with seed, independent of the
// catalog's own generator.
func Place(records []catalog.Record, seed int64) []Marker {
	src := rng.New(seed)
	markers := make([]Marker, 0, len(records))
	for _, r := range records {
		markers = append(markers, Marker{
			ID:       r.ID,
			X:        src.Range(0, PlaneSize),
			Y:        src.Range(0, PlaneSize),
			Size:     math.Max(minMarkerSize, r.SizeRelative/markerScale),
			Color:    r.Color,
			Conflict: r.HasConflict,
		})
	}
	return markers
}

// ZoomLevels lists the discrete zoom levels from MinZoom to MaxZoom.
func ZoomLevels() []float64 {
	var out []float64
	for z := MinZoom; z <= MaxZoom; z += ZoomStep {
		out = append(out, z)
	}
	return out
}

// ClampZoom bounds z to [MinZoom, MaxZoom]. NaN maps to MinZoom.
func ClampZoom(z float64) float64 {
	if math.IsNaN(z) {
		return MinZoom
	}
	return math.Min(math.Max(z, MinZoom), MaxZoom)
}

// ZoomIn returns the next zoom level above z.
func ZoomIn(z float64) float64 { return ClampZoom(z + ZoomStep) }

// ZoomOut returns the next zoom level below z.
func ZoomOut(z float64) float64 { return ClampZoom(z - ZoomStep) }

// Viewport is a window onto the plane centered at (CenterX, CenterY).
type Viewport struct {
	CenterX float64 `json:"cx"`
	CenterY float64 `json:"cy"`
	Zoom    float64 `json:"zoom"`
}

// DefaultViewport shows the whole plane.
func DefaultViewport() Viewport {
	return Viewport{CenterX: PlaneSize / 2, CenterY: PlaneSize / 2, Zoom: MinZoom}
}

// Validate checks that the viewport center lies on the plane and the zoom is
// one of the supported levels' range.
func (v Viewport) Validate() error {
	if math.IsNaN(v.CenterX) || math.IsNaN(v.CenterY) ||
		v.CenterX < 0 || v.CenterX > PlaneSize || v.CenterY < 0 || v.CenterY > PlaneSize {
		return fmt.Errorf("skymap: center (%v, %v) off the plane: %w", v.CenterX, v.CenterY, catalog.ErrInvalidArgument)
	}
	if math.IsNaN(v.Zoom) || v.Zoom < MinZoom || v.Zoom > MaxZoom {
		return fmt.Errorf("skymap: zoom %v outside [%v, %v]: %w", v.Zoom, MinZoom, MaxZoom, catalog.ErrInvalidArgument)
	}
	return nil
}

// ScreenMarker is a marker in viewport coordinates, 0-100 on both axes.
type ScreenMarker struct {
	Marker
	SX float64 `json:"sx"`
	SY float64 `json:"sy"`
}

// ScreenPoint is a background point in viewport coordinates.
type ScreenPoint struct {
	SX      float64 `json:"sx"`
	SY      float64 `json:"sy"`
	Size    float64 `json:"size"`
	Opacity float64 `json:"opacity"`
}

// Frame is everything visible through a viewport.
type Frame struct {
	Viewport Viewport       `json:"viewport"`
	Markers  []ScreenMarker `json:"markers"`
	Points   []ScreenPoint  `json:"points"`
}

// Project maps markers and background points into the viewport and drops
// whatever falls outside it.
func (v Viewport) Project(markers []Marker, field []catalog.BackgroundPoint) Frame {
	frame := Frame{Viewport: v}
	for _, m := range markers {
		sx, sy := v.toScreen(m.X, m.Y)
		if visible(sx, sy) {
			frame.Markers = append(frame.Markers, ScreenMarker{Marker: m, SX: sx, SY: sy})
		}
	}

	// The background sits behind the catalog and moves at half the rate.
	bg := Viewport{
		CenterX: PlaneSize/2 + float64((v.CenterX-PlaneSize/2)*parallax),
		CenterY: PlaneSize/2 + float64((v.CenterY-PlaneSize/2)*parallax),
		Zoom:    1 + float64((v.Zoom-1)*parallax),
	}
	for _, p := range field {
		sx, sy := bg.toScreen(PlaneSize/2+float64(p.X*fieldScale), PlaneSize/2+float64(p.Y*fieldScale))
		if visible(sx, sy) {
			frame.Points = append(frame.Points, ScreenPoint{SX: sx, SY: sy, Size: p.Size, Opacity: p.Opacity})
		}
	}
	return frame
}

// Hit returns the id of the visible marker closest to (sx, sy) within
// radius, in viewport units.
func (f Frame) Hit(sx, sy, radius float64) (string, bool) {
	best, bestDist := "", math.Inf(1)
	for _, m := range f.Markers {
		d := math.Hypot(m.SX-sx, m.SY-sy)
		if d <= radius && d < bestDist {
			best, bestDist = m.ID, d
		}
	}
	return best, best != ""
}

func (v Viewport) toScreen(x, y float64) (float64, float64) {
	return float64((x-v.CenterX)*v.Zoom) + PlaneSize/2, float64((y-v.CenterY)*v.Zoom) + PlaneSize/2
}

func visible(sx, sy float64) bool {
	return sx >= 0 && sx < PlaneSize && sy >= 0 && sy < PlaneSize
}
