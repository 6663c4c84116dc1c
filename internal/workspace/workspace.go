// Package workspace holds the session state a dashboard keeps around the
// pure catalog and fusion functions: the in-memory catalog, the current
// selection, and the live weight vector of every record.
//
// A Workspace is safe for concurrent use. Weight updates are applied per
// source with last-write-wins semantics; the generated fields of a record
// are never written after construction.
package workspace

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/papapumpkin/cosmic/internal/catalog"
	"github.com/papapumpkin/cosmic/internal/fusion"
)

// ErrUnknownRecord is returned when an id does not name a record in the
// workspace.
var ErrUnknownRecord = errors.New("unknown record")

// Workspace is a session-scoped catalog with mutable weights.
type Workspace struct {
	records   []catalog.Record
	index     map[string]int
	maxWeight float64

	mu       sync.RWMutex
	selected string
}

// New builds a workspace over records. maxWeight bounds every weight a
// caller may set; zero or negative means unbounded.
func New(records []catalog.Record, maxWeight float64) *Workspace {
	ws := &Workspace{
		records:   records,
		index:     make(map[string]int, len(records)),
		maxWeight: maxWeight,
	}
	for i := range ws.records {
		if ws.records[i].Weights == nil {
			ws.records[i].Weights = catalog.NewWeightCell(catalog.DefaultWeights())
		}
		ws.index[ws.records[i].ID] = i
	}
	return ws
}

// Len returns the number of records.
func (ws *Workspace) Len() int {
	return len(ws.records)
}

// Records returns the records in generation order. The slice is a copy;
// the weight cells are shared with the workspace.
func (ws *Workspace) Records() []catalog.Record {
	out := make([]catalog.Record, len(ws.records))
	copy(out, ws.records)
	return out
}

// Record returns the record with the given id.
func (ws *Workspace) Record(id string) (catalog.Record, error) {
	i, ok := ws.index[id]
	if !ok {
		return catalog.Record{}, fmt.Errorf("workspace: %q: %w", id, ErrUnknownRecord)
	}
	return ws.records[i], nil
}

// Select marks id as the current record.
func (ws *Workspace) Select(id string) error {
	if _, err := ws.Record(id); err != nil {
		return err
	}
	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.selected = id
	return nil
}

// Selected returns the current record, if any.
func (ws *Workspace) Selected() (catalog.Record, bool) {
	ws.mu.RLock()
	id := ws.selected
	ws.mu.RUnlock()
	if id == "" {
		return catalog.Record{}, false
	}
	r, err := ws.Record(id)
	return r, err == nil
}

// SetWeight updates one source weight of record id.
func (ws *Workspace) SetWeight(id string, s catalog.Source, v float64) error {
	r, err := ws.Record(id)
	if err != nil {
		return err
	}
	if err := ws.checkBound(s, v); err != nil {
		return err
	}
	return r.Weights.Set(s, v)
}

// ReplaceWeights swaps the whole weight vector of record id.
func (ws *Workspace) ReplaceWeights(id string, w catalog.Weights) error {
	r, err := ws.Record(id)
	if err != nil {
		return err
	}
	for _, s := range catalog.Sources() {
		if err := ws.checkBound(s, w[s]); err != nil {
			return err
		}
	}
	return r.Weights.Replace(w)
}

func (ws *Workspace) checkBound(s catalog.Source, v float64) error {
	if ws.maxWeight > 0 && v > ws.maxWeight {
		return fmt.Errorf("workspace: weight %v for %s exceeds %v: %w", v, s, ws.maxWeight, catalog.ErrInvalidArgument)
	}
	return nil
}

// Resolve fuses record id under its current weights.
func (ws *Workspace) Resolve(id string) (fusion.Resolution, error) {
	r, err := ws.Record(id)
	if err != nil {
		return fusion.Resolution{}, err
	}
	return fusion.ResolveCurrent(r)
}

// Conflicts returns the records flagged at generation time, in order.
func (ws *Workspace) Conflicts() []catalog.Record {
	var out []catalog.Record
	for _, r := range ws.records {
		if r.HasConflict {
			out = append(out, r)
		}
	}
	return out
}

// Stats summarizes the catalog for the overview panels.
type Stats struct {
	Count          int                           `json:"count"`
	Conflicts      int                           `json:"conflicts"`
	MeanConfidence float64                       `json:"mean_confidence"`
	MeanDistanceLy float64                       `json:"mean_distance_ly"`
	ByClass        map[catalog.SpectralClass]int `json:"by_class"`
	Nearest        string                        `json:"nearest,omitempty"`
	Farthest       string                        `json:"farthest,omitempty"`
}

// Stats computes catalog-wide aggregates.
func (ws *Workspace) Stats() Stats {
	st := Stats{
		Count:   len(ws.records),
		ByClass: make(map[catalog.SpectralClass]int),
	}
	if st.Count == 0 {
		return st
	}
	var conf, dist float64
	near, far := math.Inf(1), math.Inf(-1)
	for _, r := range ws.records {
		if r.HasConflict {
			st.Conflicts++
		}
		conf += r.ConfidenceScore
		dist += r.DistanceLy
		st.ByClass[r.SpectralClass]++
		if r.DistanceLy < near {
			near, st.Nearest = r.DistanceLy, r.ID
		}
		if r.DistanceLy > far {
			far, st.Farthest = r.DistanceLy, r.ID
		}
	}
	st.MeanConfidence = conf / float64(st.Count)
	st.MeanDistanceLy = dist / float64(st.Count)
	return st
}

// Classes returns the spectral classes present in st, hottest first.
func (st Stats) Classes() []catalog.SpectralClass {
	order := make(map[catalog.SpectralClass]int)
	for i, info := range catalog.SpectralClasses() {
		order[info.Class] = i
	}
	out := make([]catalog.SpectralClass, 0, len(st.ByClass))
	for c := range st.ByClass {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return order[out[i]] < order[out[j]] })
	return out
}
