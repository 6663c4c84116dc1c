package catalog

import (
	"fmt"
	"math"
	"strings"

	"github.com/papapumpkin/cosmic/internal/rng"
)

// Draw bounds for the physical fields of a record.
const (
	minMassSolar  = 0.1
	maxMassSolar  = 50
	minSizeJitter = 0.8
	maxSizeJitter = 1.2
	minDistanceLy = 4
	maxDistanceLy = 5000

	minSectorMajor = 1
	maxSectorMajor = 99
	minSectorMinor = 1
	maxSectorMinor = 999
)

// Background field bounds. Points are spread over a square centered on the
// origin; the plane itself is unbounded.
const (
	fieldHalfExtent = 2000
	minPointSize    = 0.5
	maxPointSize    = 2.5
	minOpacity      = 0.1
	maxOpacity      = 0.9
)

// Generate produces count records from seed under DefaultPolicy.
func Generate(count int, seed int64) ([]Record, error) {
	return GenerateWith(count, seed, DefaultPolicy())
}

// GenerateWith produces count records from seed under policy p. The output
// is a pure function of (count, seed, p): two calls with the same inputs
// return deeply equal sequences. Records carry ids COS-10000, COS-10001, ...
// in generation order.
func GenerateWith(count int, seed int64, p Policy) ([]Record, error) {
	if count < 0 {
		return nil, fmt.Errorf("catalog: count %d must not be negative: %w", count, ErrInvalidArgument)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	src := rng.New(seed)
	records := make([]Record, 0, count)
	for seq := 0; seq < count; seq++ {
		records = append(records, nextRecord(src, seq, p))
	}
	return records, nil
}

// nextRecord draws one record. The order of draws below is part of the
// reproducibility contract; reordering changes every catalog.
func nextRecord(src *rng.Source, seq int, p Policy) Record {
	spectral := spectralTable[src.Index(len(spectralTable))]
	temp := src.IntRange(spectral.MinTempK, spectral.MaxTempK)
	mass := round(src.Range(minMassSolar, maxMassSolar), 2)
	size := round(mass*src.Range(minSizeJitter, maxSizeJitter), 2)
	distance := round(src.Range(minDistanceLy, maxDistanceLy), 1)

	measurements := perturb(src, distance, p)
	conflict := p.InConflict(measurements)
	band := p.CleanConfidence
	if conflict {
		band = p.ConflictConfidence
	}
	confidence := src.Range(band.Min, band.Max)

	name := greekLetters[src.Index(len(greekLetters))] + " " + constellations[src.Index(len(constellations))]
	sector := fmt.Sprintf("Sector %d-%d",
		src.IntRange(minSectorMajor, maxSectorMajor),
		src.IntRange(minSectorMinor, maxSectorMinor))

	return Record{
		ID:              FormatID(seq),
		Seq:             seq,
		Name:            name,
		SpectralClass:   spectral.Class,
		Kind:            fmt.Sprintf("%s-Type %s", spectral.Class, spectral.Kind),
		Color:           spectral.Color,
		TemperatureK:    temp,
		MassSolar:       mass,
		SizeRelative:    size,
		DistanceLy:      distance,
		Measurements:    measurements,
		HasConflict:     conflict,
		ConfidenceScore: confidence,
		Sector:          sector,
		Description: fmt.Sprintf("A distinct %s located in the deep field. "+
			"Spectral analysis indicates high metallicity and potential exoplanetary debris disks.",
			strings.ToLower(spectral.Description)),
		Weights: NewWeightCell(DefaultWeights()),
	}
}

// perturb derives the per-source estimates. JWST is the anchor; hubble reads
// short and gaia reads long, each by an independent fraction drawn from the
// tight band or, with probability DisputeRate, the disputed band.
func perturb(src *rng.Source, distance float64, p Policy) Measurements {
	disputed := src.Float64() < p.DisputeRate
	lo, hi := 0.0, tightSpread
	if disputed {
		lo, hi = disputedSpreadMin, disputedSpreadMax
	}
	hubble := round(distance*(1-src.Range(lo, hi)), 2)
	gaia := round(distance*(1+src.Range(lo, hi)), 2)
	return Measurements{
		Hubble: hubble,
		Gaia:   gaia,
		JWST:   distance,
	}
}

// GenerateField produces count decorative background points from seed. Like
// Generate it is a pure function of its inputs.
func GenerateField(count int, seed int64) ([]BackgroundPoint, error) {
	if count < 0 {
		return nil, fmt.Errorf("catalog: field count %d must not be negative: %w", count, ErrInvalidArgument)
	}
	src := rng.New(seed)
	points := make([]BackgroundPoint, 0, count)
	for i := 0; i < count; i++ {
		points = append(points, BackgroundPoint{
			X:       src.Range(-fieldHalfExtent, fieldHalfExtent),
			Y:       src.Range(-fieldHalfExtent, fieldHalfExtent),
			Size:    src.Range(minPointSize, maxPointSize),
			Opacity: src.Range(minOpacity, maxOpacity),
		})
	}
	return points, nil
}

func round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
