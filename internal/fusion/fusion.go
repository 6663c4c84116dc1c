// Package fusion reconciles the per-mission distance estimates of a record
// into one fused value under a trust-weight vector. The resolver is a plain
// linear weighted mean: no outlier rejection, no iteration, no hidden state.
package fusion

import (
	"fmt"
	"math"

	"github.com/papapumpkin/cosmic/internal/catalog"
)

// Fuse returns Σ m[s]·w[s] / Σ w[s] over the known sources, summed in the
// fixed order of catalog.Sources(). When every weight is zero the divisor is
// treated as 1, so the result is 0.
//
// Both maps must carry exactly the known sources and every weight must be a
// non-negative number, and the mean itself must be finite; otherwise the
// error wraps catalog.ErrInvalidArgument.
func Fuse(m catalog.Measurements, w catalog.Weights) (float64, error) {
	if err := m.Validate(); err != nil {
		return 0, fmt.Errorf("fusion: %w", err)
	}
	if err := w.Validate(); err != nil {
		return 0, fmt.Errorf("fusion: %w", err)
	}
	fused := weightedMean(m, w)
	if math.IsNaN(fused) || math.IsInf(fused, 0) {
		return 0, fmt.Errorf("fusion: weighted mean of %v is not finite: %w", m, catalog.ErrInvalidArgument)
	}
	return fused, nil
}

// weightedMean scales the weights by the largest one so the weight sum lies
// in [1, 3] and large finite weights cannot overflow. Products are rounded
// before each add so the result is identical on every platform.
func weightedMean(m catalog.Measurements, w catalog.Weights) float64 {
	var wmax float64
	for _, s := range catalog.Sources() {
		wmax = math.Max(wmax, w[s])
	}
	if wmax == 0 {
		return 0
	}
	var num, den float64
	for _, s := range catalog.Sources() {
		ws := w[s] / wmax
		num += float64(m[s] * ws)
		den += ws
	}
	return num / den
}

// SourceDetail describes one source's part in a resolution.
type SourceDetail struct {
	Source catalog.Source `json:"source"`
	Value  float64        `json:"value"`
	Weight float64        `json:"weight"`
	// Share is Weight over the total weight, zero when the total is zero.
	Share float64 `json:"share"`
	// Deviation is (Value - anchor) / anchor, the signed offset from JWST.
	Deviation float64 `json:"deviation"`
}

// Resolution is the fused view of a record under one weight vector.
type Resolution struct {
	RecordID string  `json:"record_id"`
	Fused    float64 `json:"fused"`
	Anchor   float64 `json:"anchor"`
	// Deviation is (Fused - Anchor) / Anchor.
	Deviation float64 `json:"deviation"`
	// Degenerate is set when every weight is zero and the fallback divisor
	// was used; the fused value carries no meaning in that case.
	Degenerate bool `json:"degenerate"`
	// HasConflict is the flag assigned at generation time. Reweighting
	// never changes it.
	HasConflict bool           `json:"has_conflict"`
	Sources     []SourceDetail `json:"sources"`
}

// Resolve fuses r's measurements under w and reports per-source detail.
func Resolve(r catalog.Record, w catalog.Weights) (Resolution, error) {
	fused, err := Fuse(r.Measurements, w)
	if err != nil {
		return Resolution{}, err
	}

	anchor := r.Measurements[catalog.JWST]
	total := w.Total()
	res := Resolution{
		RecordID:    r.ID,
		Fused:       fused,
		Anchor:      anchor,
		Deviation:   relative(fused, anchor),
		Degenerate:  total == 0,
		HasConflict: r.HasConflict,
		Sources:     make([]SourceDetail, 0, len(catalog.Sources())),
	}
	for _, s := range catalog.Sources() {
		d := SourceDetail{
			Source:    s,
			Value:     r.Measurements[s],
			Weight:    w[s],
			Deviation: relative(r.Measurements[s], anchor),
		}
		if total > 0 {
			d.Share = w[s] / total
		}
		res.Sources = append(res.Sources, d)
	}
	return res, nil
}

// ResolveCurrent resolves r under the weights currently held in its cell.
func ResolveCurrent(r catalog.Record) (Resolution, error) {
	if r.Weights == nil {
		return Resolve(r, catalog.DefaultWeights())
	}
	return Resolve(r, r.Weights.Snapshot())
}

func relative(v, anchor float64) float64 {
	if anchor == 0 {
		return 0
	}
	return (v - anchor) / anchor
}
