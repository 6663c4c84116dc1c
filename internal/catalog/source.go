package catalog

import (
	"fmt"
	"math"
	"strings"
)

// Source identifies one of the missions that reports a distance estimate.
type Source string

// Known sources. JWST is the anchor measurement.
const (
	Hubble Source = "hubble"
	Gaia   Source = "gaia"
	JWST   Source = "jwst"
)

// sourceCount is the number of known sources.
const sourceCount = 3

// Sources returns the known sources in summation order. The result is a
// copy; callers cannot reorder the package's view.
func Sources() [sourceCount]Source {
	return [sourceCount]Source{Hubble, Gaia, JWST}
}

// ParseSource resolves a case-insensitive source name.
func ParseSource(name string) (Source, error) {
	s := Source(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Sources() {
		if s == known {
			return s, nil
		}
	}
	return "", fmt.Errorf("catalog: unknown source %q: %w", name, ErrInvalidArgument)
}

// Measurements maps each source to its estimate of a record's distance in
// light years.
type Measurements map[Source]float64

// Weights maps each source to a non-negative trust weight. Weights need not
// sum to any fixed total.
type Weights map[Source]float64

// DefaultWeights returns the initial trust split given to every record.
func DefaultWeights() Weights {
	return Weights{Hubble: 33, Gaia: 33, JWST: 34}
}

// Clone returns an independent copy of w.
func (w Weights) Clone() Weights {
	out := make(Weights, len(w))
	for k, v := range w {
		out[k] = v
	}
	return out
}

// Total returns the sum of the weights in source order.
func (w Weights) Total() float64 {
	var sum float64
	for _, s := range Sources() {
		sum += w[s]
	}
	return sum
}

// Validate checks that w carries exactly the known sources and that every
// weight is finite and non-negative.
func (w Weights) Validate() error {
	if err := checkKeys("weights", len(w), func(s Source) bool { _, ok := w[s]; return ok }); err != nil {
		return err
	}
	for _, s := range Sources() {
		v := w[s]
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fmt.Errorf("catalog: weight for %s is %v, must be a non-negative number: %w", s, v, ErrInvalidArgument)
		}
	}
	return nil
}

// Clone returns an independent copy of m.
func (m Measurements) Clone() Measurements {
	out := make(Measurements, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Validate checks that m carries exactly the known sources and finite values.
func (m Measurements) Validate() error {
	if err := checkKeys("measurements", len(m), func(s Source) bool { _, ok := m[s]; return ok }); err != nil {
		return err
	}
	for _, s := range Sources() {
		v := m[s]
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("catalog: measurement for %s is %v: %w", s, v, ErrInvalidArgument)
		}
	}
	return nil
}

// Spread returns max - min and the mean of the measurements.
func (m Measurements) Spread() (spread, mean float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	var sum float64
	for _, s := range Sources() {
		v := m[s]
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
		sum += v
	}
	return hi - lo, sum / float64(sourceCount)
}

func checkKeys(what string, n int, has func(Source) bool) error {
	for _, s := range Sources() {
		if !has(s) {
			return fmt.Errorf("catalog: %s missing source %s: %w", what, s, ErrInvalidArgument)
		}
	}
	if n != sourceCount {
		return fmt.Errorf("catalog: %s has %d keys, want exactly %d: %w", what, n, sourceCount, ErrInvalidArgument)
	}
	return nil
}
