// Package catalog defines celestial records and generates them deterministically
// from a seed: names, spectral classes, positions and per-source distance
// measurements.
package catalog

import (
	"encoding/json"
	"fmt"
	"math"
	"sync"
)

// IDBase is the numeric suffix of the first record in every batch.
const IDBase = 10000

// Record is one generated celestial object. Every field except Weights is
// fixed at generation time; Weights is a shared cell that the presentation
// layer mutates while readers of the other fields stay race-free.
type Record struct {
	ID              string        `json:"id"`
	Seq             int           `json:"seq"`
	Name            string        `json:"name"`
	SpectralClass   SpectralClass `json:"spectral_class"`
	Kind            string        `json:"kind"`
	Color           string        `json:"color"`
	TemperatureK    int           `json:"temperature_k"`
	MassSolar       float64       `json:"mass_solar"`
	SizeRelative    float64       `json:"size_relative"`
	DistanceLy      float64       `json:"distance_ly"`
	Measurements    Measurements  `json:"measurements"`
	HasConflict     bool          `json:"has_conflict"`
	ConfidenceScore float64       `json:"confidence_score"`
	Sector          string        `json:"sector"`
	Description     string        `json:"description"`
	Weights         *WeightCell   `json:"source_weights"`
}

// FormatID renders the id for generation sequence number seq.
func FormatID(seq int) string {
	return fmt.Sprintf("COS-%d", IDBase+seq)
}

// Lookup returns the record with the given id.
func Lookup(records []Record, id string) (Record, bool) {
	for _, r := range records {
		if r.ID == id {
			return r, true
		}
	}
	return Record{}, false
}

// WeightCell is the mutable weight vector attached to a record. It is safe
// for concurrent use; the last write to a source wins.
type WeightCell struct {
	mu sync.RWMutex
	w  Weights
}

// NewWeightCell returns a cell holding a copy of w.
func NewWeightCell(w Weights) *WeightCell {
	return &WeightCell{w: w.Clone()}
}

// Snapshot returns a copy of the current weights.
func (c *WeightCell) Snapshot() Weights {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.w.Clone()
}

// Set replaces the weight for a single source.
func (c *WeightCell) Set(s Source, v float64) error {
	src, err := ParseSource(string(s))
	if err != nil {
		return err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return fmt.Errorf("catalog: weight for %s is %v, must be a non-negative number: %w", src, v, ErrInvalidArgument)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.w[src] = v
	return nil
}

// Replace swaps in a full weight vector after validating it.
func (c *WeightCell) Replace(w Weights) error {
	if err := w.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.w = w.Clone()
	return nil
}

// MarshalJSON encodes the cell as its weight map.
func (c *WeightCell) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Snapshot())
}

// UnmarshalJSON decodes a weight map into the cell.
func (c *WeightCell) UnmarshalJSON(data []byte) error {
	var w Weights
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if err := w.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.w = w
	return nil
}

// BackgroundPoint is a decorative point in the sky field. It has no identity.
type BackgroundPoint struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Size    float64 `json:"size"`
	Opacity float64 `json:"opacity"`
}
