package skymap

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/papapumpkin/cosmic/internal/catalog"
)

func testCatalog(t *testing.T, n int) []catalog.Record {
	t.Helper()
	recs, err := catalog.Generate(n, 42)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return recs
}

func TestPlaceDeterministic(t *testing.T) {
	t.Parallel()

	recs := testCatalog(t, 100)
	a, b := Place(recs, 3), Place(recs, 3)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("Place not reproducible:\n%s", diff)
	}
	if cmp.Equal(a, Place(recs, 4)) {
		t.Error("different placement seeds produced the same layout")
	}
	for _, m := range a {
		if m.X < 0 || m.X >= PlaneSize || m.Y < 0 || m.Y >= PlaneSize {
			t.Errorf("%s placed off the plane at (%v, %v)", m.ID, m.X, m.Y)
		}
		if m.Size < minMarkerSize {
			t.Errorf("%s marker size %v below minimum", m.ID, m.Size)
		}
	}
}

func TestZoomLevels(t *testing.T) {
	t.Parallel()

	want := []float64{1, 1.5, 2, 2.5, 3, 3.5, 4}
	if diff := cmp.Diff(want, ZoomLevels()); diff != "" {
		t.Errorf("ZoomLevels (-want +got):\n%s", diff)
	}
	if got := ZoomIn(4); got != 4 {
		t.Errorf("ZoomIn(4) = %v", got)
	}
	if got := ZoomOut(1); got != 1 {
		t.Errorf("ZoomOut(1) = %v", got)
	}
	if got := ZoomIn(2); got != 2.5 {
		t.Errorf("ZoomIn(2) = %v", got)
	}
	if got := ClampZoom(math.NaN()); got != MinZoom {
		t.Errorf("ClampZoom(NaN) = %v", got)
	}
}

func TestProjectFullView(t *testing.T) {
	t.Parallel()

	recs := testCatalog(t, 50)
	markers := Place(recs, 1)
	frame := DefaultViewport().Project(markers, nil)
	if len(frame.Markers) != len(markers) {
		t.Errorf("default viewport shows %d of %d markers", len(frame.Markers), len(markers))
	}
	for _, m := range frame.Markers {
		if math.Abs(m.SX-m.X) > 1e-9 || math.Abs(m.SY-m.Y) > 1e-9 {
			t.Errorf("%s: identity view moved marker to (%v, %v)", m.ID, m.SX, m.SY)
		}
	}
}

func TestProjectZoomNarrowsView(t *testing.T) {
	t.Parallel()

	recs := testCatalog(t, 400)
	markers := Place(recs, 1)
	field, err := catalog.GenerateField(2000, 7)
	if err != nil {
		t.Fatalf("GenerateField: %v", err)
	}

	prevMarkers, prevPoints := math.MaxInt, math.MaxInt
	for _, z := range ZoomLevels() {
		v := DefaultViewport()
		v.Zoom = z
		f := v.Project(markers, field)
		if len(f.Markers) > prevMarkers || len(f.Points) > prevPoints {
			t.Errorf("zoom %v shows more than the previous level", z)
		}
		prevMarkers, prevPoints = len(f.Markers), len(f.Points)
	}
	if prevMarkers == 0 {
		t.Error("max zoom at center shows nothing")
	}
}

func TestViewportValidate(t *testing.T) {
	t.Parallel()

	if err := DefaultViewport().Validate(); err != nil {
		t.Errorf("default viewport invalid: %v", err)
	}
	for _, v := range []Viewport{
		{CenterX: -1, CenterY: 50, Zoom: 1},
		{CenterX: 50, CenterY: 50, Zoom: 5},
		{CenterX: 50, CenterY: math.NaN(), Zoom: 1},
	} {
		if err := v.Validate(); !errors.Is(err, catalog.ErrInvalidArgument) {
			t.Errorf("Validate(%+v) = %v", v, err)
		}
	}
}

func TestHit(t *testing.T) {
	t.Parallel()

	f := Frame{Markers: []ScreenMarker{
		{Marker: Marker{ID: "a"}, SX: 10, SY: 10},
		{Marker: Marker{ID: "b"}, SX: 12, SY: 10},
	}}
	if id, ok := f.Hit(11.5, 10, 2); !ok || id != "b" {
		t.Errorf("Hit = %q, %v; want b", id, ok)
	}
	if _, ok := f.Hit(50, 50, 2); ok {
		t.Error("Hit found a marker far from the cursor")
	}
}
