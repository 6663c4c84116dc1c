package fusion

import (
	"errors"
	"math"
	"testing"

	"github.com/papapumpkin/cosmic/internal/catalog"
	"github.com/papapumpkin/cosmic/internal/rng"
)

func TestFuseEqualWeightMidpoint(t *testing.T) {
	t.Parallel()

	got, err := Fuse(
		catalog.Measurements{catalog.Hubble: 10, catalog.Gaia: 12, catalog.JWST: 11},
		catalog.Weights{catalog.Hubble: 1, catalog.Gaia: 1, catalog.JWST: 1},
	)
	if err != nil {
		t.Fatalf("Fuse: %v", err)
	}
	if got != 11 {
		t.Errorf("Fuse = %v, want 11", got)
	}
}

func TestFuseSingleSourceDominance(t *testing.T) {
	t.Parallel()

	got, err := Fuse(
		catalog.Measurements{catalog.Hubble: 10, catalog.Gaia: 100, catalog.JWST: 50},
		catalog.Weights{catalog.Hubble: 1, catalog.Gaia: 0, catalog.JWST: 0},
	)
	if err != nil {
		t.Fatalf("Fuse: %v", err)
	}
	if got != 10 {
		t.Errorf("Fuse = %v, want 10", got)
	}
}

func TestFuseZeroWeightFallback(t *testing.T) {
	t.Parallel()

	zero := catalog.Weights{catalog.Hubble: 0, catalog.Gaia: 0, catalog.JWST: 0}
	for _, m := range []catalog.Measurements{
		{catalog.Hubble: 10, catalog.Gaia: 12, catalog.JWST: 11},
		{catalog.Hubble: 1e300, catalog.Gaia: -1e300, catalog.JWST: 0},
	} {
		got, err := Fuse(m, zero)
		if err != nil {
			t.Fatalf("Fuse: %v", err)
		}
		if math.IsNaN(got) || math.IsInf(got, 0) {
			t.Errorf("Fuse with zero weights = %v, want finite", got)
		}
	}
}

func TestFuseBoundedness(t *testing.T) {
	t.Parallel()

	src := rng.New(2024)
	for i := 0; i < 5000; i++ {
		m := catalog.Measurements{
			catalog.Hubble: src.Range(1, 5000),
			catalog.Gaia:   src.Range(1, 5000),
			catalog.JWST:   src.Range(1, 5000),
		}
		w := catalog.Weights{
			catalog.Hubble: float64(src.IntRange(0, 101)),
			catalog.Gaia:   float64(src.IntRange(0, 101)),
			catalog.JWST:   float64(src.IntRange(1, 101)),
		}
		got, err := Fuse(m, w)
		if err != nil {
			t.Fatalf("Fuse: %v", err)
		}
		lo := math.Min(m[catalog.Hubble], math.Min(m[catalog.Gaia], m[catalog.JWST]))
		hi := math.Max(m[catalog.Hubble], math.Max(m[catalog.Gaia], m[catalog.JWST]))
		eps := 1e-9 * hi
		if got < lo-eps || got > hi+eps {
			t.Fatalf("Fuse(%v, %v) = %v outside [%v, %v]", m, w, got, lo, hi)
		}
	}
}

func TestFuseHugeWeightsStayFinite(t *testing.T) {
	t.Parallel()

	m := catalog.Measurements{catalog.Hubble: 10, catalog.Gaia: 12, catalog.JWST: 11}
	tests := []struct {
		name string
		w    catalog.Weights
		want float64
	}{
		{"equal near max", catalog.Weights{catalog.Hubble: 1e308, catalog.Gaia: 1e308, catalog.JWST: 1e308}, 11},
		{"one dominant", catalog.Weights{catalog.Hubble: math.MaxFloat64, catalog.Gaia: 0, catalog.JWST: 0}, 10},
		{"scaled pair", catalog.Weights{catalog.Hubble: 1e308, catalog.Gaia: 0, catalog.JWST: 1e308}, 10.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Fuse(m, tt.w)
			if err != nil {
				t.Fatalf("Fuse: %v", err)
			}
			if got != tt.want {
				t.Errorf("Fuse = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFuseRejectsOverflowingMean(t *testing.T) {
	t.Parallel()

	m := catalog.Measurements{catalog.Hubble: 1.5e308, catalog.Gaia: 1.5e308, catalog.JWST: 1.5e308}
	w := catalog.Weights{catalog.Hubble: 1, catalog.Gaia: 1, catalog.JWST: 1}
	got, err := Fuse(m, w)
	if !errors.Is(err, catalog.ErrInvalidArgument) {
		t.Fatalf("Fuse = %v, %v; want ErrInvalidArgument", got, err)
	}
}

func TestFuseDeterministic(t *testing.T) {
	t.Parallel()

	m := catalog.Measurements{catalog.Hubble: 0.1, catalog.Gaia: 0.2, catalog.JWST: 0.3}
	w := catalog.Weights{catalog.Hubble: 0.7, catalog.Gaia: 1.3, catalog.JWST: 2.9}
	first, _ := Fuse(m, w)
	for i := 0; i < 100; i++ {
		got, _ := Fuse(m, w)
		if got != first {
			t.Fatalf("iteration %d: %v != %v", i, got, first)
		}
	}
}

func TestFuseInvalidArgument(t *testing.T) {
	t.Parallel()

	good := catalog.Measurements{catalog.Hubble: 1, catalog.Gaia: 2, catalog.JWST: 3}
	tests := []struct {
		name string
		m    catalog.Measurements
		w    catalog.Weights
	}{
		{"weights missing source", good, catalog.Weights{catalog.Hubble: 1, catalog.Gaia: 1}},
		{"measurements missing source", catalog.Measurements{catalog.Hubble: 1}, catalog.DefaultWeights()},
		{"unknown key", good, catalog.Weights{catalog.Hubble: 1, catalog.Gaia: 1, "kepler": 1}},
		{"negative weight", good, catalog.Weights{catalog.Hubble: 1, catalog.Gaia: -0.5, catalog.JWST: 1}},
		{"nan weight", good, catalog.Weights{catalog.Hubble: 1, catalog.Gaia: math.NaN(), catalog.JWST: 1}},
		{"nil weights", good, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if _, err := Fuse(tc.m, tc.w); !errors.Is(err, catalog.ErrInvalidArgument) {
				t.Errorf("Fuse error = %v, want ErrInvalidArgument", err)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	t.Parallel()

	r := catalog.Record{
		ID:           "COS-10000",
		DistanceLy:   100,
		HasConflict:  true,
		Measurements: catalog.Measurements{catalog.Hubble: 94, catalog.Gaia: 106, catalog.JWST: 100},
	}
	res, err := Resolve(r, catalog.Weights{catalog.Hubble: 1, catalog.Gaia: 0, catalog.JWST: 1})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Fused != 97 {
		t.Errorf("Fused = %v, want 97", res.Fused)
	}
	if !res.HasConflict {
		t.Error("Resolve must carry the generation-time conflict flag")
	}
	if math.Abs(res.Deviation-(-0.03)) > 1e-12 {
		t.Errorf("Deviation = %v, want -0.03", res.Deviation)
	}
	if len(res.Sources) != 3 || res.Sources[0].Source != catalog.Hubble {
		t.Fatalf("Sources = %+v", res.Sources)
	}
	if res.Sources[0].Share != 0.5 || res.Sources[1].Share != 0 {
		t.Errorf("shares = %v, %v", res.Sources[0].Share, res.Sources[1].Share)
	}
	if math.Abs(res.Sources[1].Deviation-0.06) > 1e-12 {
		t.Errorf("gaia deviation = %v, want 0.06", res.Sources[1].Deviation)
	}

	zero, err := Resolve(r, catalog.Weights{catalog.Hubble: 0, catalog.Gaia: 0, catalog.JWST: 0})
	if err != nil {
		t.Fatalf("Resolve zero: %v", err)
	}
	if !zero.Degenerate {
		t.Error("expected Degenerate for all-zero weights")
	}
}

func TestResolveCurrentTracksCell(t *testing.T) {
	t.Parallel()

	recs, err := catalog.Generate(3, 42)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	r := recs[1]
	before, _ := ResolveCurrent(r)
	if err := r.Weights.Replace(catalog.Weights{catalog.Hubble: 0, catalog.Gaia: 0, catalog.JWST: 1}); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	after, _ := ResolveCurrent(r)
	if after.Fused != r.DistanceLy {
		t.Errorf("jwst-only fused = %v, want anchor %v", after.Fused, r.DistanceLy)
	}
	if before.HasConflict != after.HasConflict {
		t.Error("conflict flag changed with weights")
	}
}
