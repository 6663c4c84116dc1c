package catalog

import (
	"fmt"
	"math"
)

// Interval is a half-open numeric range [Min, Max) used for random draws.
type Interval struct {
	Min float64 `mapstructure:"min" json:"min"`
	Max float64 `mapstructure:"max" json:"max"`
}

func (iv Interval) valid() bool {
	return !math.IsNaN(iv.Min) && !math.IsNaN(iv.Max) && iv.Min <= iv.Max
}

// Policy holds the tunable constants behind conflict detection and
// confidence scoring. The defaults are presentation constants, not physical
// law.
type Policy struct {
	// ConflictThreshold is the relative spread (max-min over mean) above
	// which a record's measurements are flagged as conflicting.
	ConflictThreshold float64 `mapstructure:"conflict_threshold" json:"conflict_threshold"`
	// DisputeRate is the probability that a record's non-anchor sources are
	// drawn from the wide perturbation band instead of the tight one.
	DisputeRate float64 `mapstructure:"dispute_rate" json:"dispute_rate"`
	// CleanConfidence bounds the confidence of a record without conflict.
	CleanConfidence Interval `mapstructure:"clean_confidence" json:"clean_confidence"`
	// ConflictConfidence bounds the confidence of a conflicting record. Its
	// Max must lie strictly below CleanConfidence.Min.
	ConflictConfidence Interval `mapstructure:"conflict_confidence" json:"conflict_confidence"`
}

// Perturbation bands applied to hubble (below the anchor) and gaia (above).
// The disputed band always exceeds a 5% spread; the tight band never reaches
// it.
const (
	tightSpread       = 0.015
	disputedSpreadMin = 0.04
	disputedSpreadMax = 0.10
)

// DefaultPolicy returns the policy used when no configuration overrides it.
func DefaultPolicy() Policy {
	return Policy{
		ConflictThreshold:  0.05,
		DisputeRate:        0.30,
		CleanConfidence:    Interval{Min: 0.95, Max: 0.99},
		ConflictConfidence: Interval{Min: 0.60, Max: 0.85},
	}
}

// Validate rejects policies that would break the confidence ordering or
// produce scores outside [0, 1].
func (p Policy) Validate() error {
	if math.IsNaN(p.ConflictThreshold) || p.ConflictThreshold <= 0 {
		return fmt.Errorf("catalog: conflict threshold %v must be positive: %w", p.ConflictThreshold, ErrInvalidArgument)
	}
	if math.IsNaN(p.DisputeRate) || p.DisputeRate < 0 || p.DisputeRate > 1 {
		return fmt.Errorf("catalog: dispute rate %v must be within [0, 1]: %w", p.DisputeRate, ErrInvalidArgument)
	}
	for name, iv := range map[string]Interval{"clean": p.CleanConfidence, "conflict": p.ConflictConfidence} {
		if !iv.valid() || iv.Min < 0 || iv.Max > 1 {
			return fmt.Errorf("catalog: %s confidence [%v, %v) must be an ordered range within [0, 1]: %w", name, iv.Min, iv.Max, ErrInvalidArgument)
		}
	}
	if p.ConflictConfidence.Max >= p.CleanConfidence.Min {
		return fmt.Errorf("catalog: conflict confidence ceiling %v must be below clean floor %v: %w",
			p.ConflictConfidence.Max, p.CleanConfidence.Min, ErrInvalidArgument)
	}
	return nil
}

// InConflict applies the conflict rule: any two measurements differ by more
// than ConflictThreshold times their mean.
func (p Policy) InConflict(m Measurements) bool {
	spread, mean := m.Spread()
	return spread > p.ConflictThreshold*math.Abs(mean)
}
