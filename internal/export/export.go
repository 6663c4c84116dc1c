// Package export writes a catalog in the interchange formats the dashboard
// offers for download: JSON, CSV, TOML and YAML. Each record is written with
// its current weight vector; fused values are not part of the export.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/papapumpkin/cosmic/internal/catalog"
)

// Format names an export encoding.
type Format string

// Supported formats.
const (
	JSON Format = "json"
	CSV  Format = "csv"
	TOML Format = "toml"
	YAML Format = "yaml"
)

// ParseFormat resolves a format name, accepting "yml" for YAML.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return JSON, nil
	case "csv":
		return CSV, nil
	case "toml":
		return TOML, nil
	case "yaml", "yml":
		return YAML, nil
	}
	return "", fmt.Errorf("export: unknown format %q: %w", name, catalog.ErrInvalidArgument)
}

// Row is the flattened, encoding-neutral form of a record.
type Row struct {
	ID            string             `json:"id" toml:"id" yaml:"id"`
	Name          string             `json:"name" toml:"name" yaml:"name"`
	SpectralClass string             `json:"spectral_class" toml:"spectral_class" yaml:"spectral_class"`
	Kind          string             `json:"kind" toml:"kind" yaml:"kind"`
	Color         string             `json:"color" toml:"color" yaml:"color"`
	TemperatureK  int                `json:"temperature_k" toml:"temperature_k" yaml:"temperature_k"`
	MassSolar     float64            `json:"mass_solar" toml:"mass_solar" yaml:"mass_solar"`
	SizeRelative  float64            `json:"size_relative" toml:"size_relative" yaml:"size_relative"`
	DistanceLy    float64            `json:"distance_ly" toml:"distance_ly" yaml:"distance_ly"`
	Measurements  map[string]float64 `json:"measurements" toml:"measurements" yaml:"measurements"`
	Weights       map[string]float64 `json:"source_weights" toml:"source_weights" yaml:"source_weights"`
	HasConflict   bool               `json:"has_conflict" toml:"has_conflict" yaml:"has_conflict"`
	Confidence    float64            `json:"confidence_score" toml:"confidence_score" yaml:"confidence_score"`
	Sector        string             `json:"sector" toml:"sector" yaml:"sector"`
}

type document struct {
	Records []Row `toml:"record" yaml:"records"`
}

// Rows flattens records.
func Rows(records []catalog.Record) []Row {
	rows := make([]Row, 0, len(records))
	for _, r := range records {
		w := catalog.DefaultWeights()
		if r.Weights != nil {
			w = r.Weights.Snapshot()
		}
		row := Row{
			ID:            r.ID,
			Name:          r.Name,
			SpectralClass: string(r.SpectralClass),
			Kind:          r.Kind,
			Color:         r.Color,
			TemperatureK:  r.TemperatureK,
			MassSolar:     r.MassSolar,
			SizeRelative:  r.SizeRelative,
			DistanceLy:    r.DistanceLy,
			Measurements:  make(map[string]float64, len(catalog.Sources())),
			Weights:       make(map[string]float64, len(catalog.Sources())),
			HasConflict:   r.HasConflict,
			Confidence:    r.ConfidenceScore,
			Sector:        r.Sector,
		}
		for _, s := range catalog.Sources() {
			row.Measurements[string(s)] = r.Measurements[s]
			row.Weights[string(s)] = w[s]
		}
		rows = append(rows, row)
	}
	return rows
}

// Write encodes records to w in format f.
func Write(w io.Writer, f Format, records []catalog.Record) error {
	rows := Rows(records)
	switch f {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rows); err != nil {
			return fmt.Errorf("export: json: %w", err)
		}
	case CSV:
		return writeCSV(w, rows)
	case TOML:
		if err := toml.NewEncoder(w).Encode(document{Records: rows}); err != nil {
			return fmt.Errorf("export: toml: %w", err)
		}
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(document{Records: rows}); err != nil {
			return fmt.Errorf("export: yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("export: yaml: %w", err)
		}
	default:
		return fmt.Errorf("export: unknown format %q: %w", f, catalog.ErrInvalidArgument)
	}
	return nil
}

// csvHeader is the column order of CSV exports.
var csvHeader = []string{
	"id", "name", "spectral_class", "kind", "color", "temperature_k", "mass_solar",
	"size_relative", "distance_ly", "hubble_ly", "gaia_ly", "jwst_ly",
	"weight_hubble", "weight_gaia", "weight_jwst", "has_conflict",
	"confidence_score", "sector",
}

func writeCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("export: csv header: %w", err)
	}
	for _, r := range rows {
		rec := []string{
			r.ID, r.Name, r.SpectralClass, r.Kind, r.Color,
			strconv.Itoa(r.TemperatureK),
			num(r.MassSolar), num(r.SizeRelative), num(r.DistanceLy),
		}
		for _, s := range catalog.Sources() {
			rec = append(rec, num(r.Measurements[string(s)]))
		}
		for _, s := range catalog.Sources() {
			rec = append(rec, num(r.Weights[string(s)]))
		}
		rec = append(rec, strconv.FormatBool(r.HasConflict), num(r.Confidence), r.Sector)
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("export: csv row %s: %w", r.ID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("export: csv flush: %w", err)
	}
	return nil
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
