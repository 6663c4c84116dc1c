// Package weightfile reads and writes trust-weight vectors as small TOML
// files and watches such a file for live edits.
//
// The file format is a single table:
//
//	[weights]
//	hubble = 33
//	gaia = 33
//	jwst = 34
package weightfile

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/papapumpkin/cosmic/internal/catalog"
)

// File is the on-disk shape of a weight file.
type File struct {
	Weights Table `toml:"weights"`
}

// Table holds one weight per mission. Pointers distinguish a missing key
// from an explicit zero.
type Table struct {
	Hubble *float64 `toml:"hubble"`
	Gaia   *float64 `toml:"gaia"`
	JWST   *float64 `toml:"jwst"`
}

// Decode parses TOML bytes into a validated weight vector. Every mission
// must be present and unknown keys are rejected.
func Decode(data []byte) (catalog.Weights, error) {
	var f File
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("weightfile: parse: %w: %w", catalog.ErrInvalidArgument, err)
	}

	w := make(catalog.Weights, len(catalog.Sources()))
	for src, v := range map[catalog.Source]*float64{
		catalog.Hubble: f.Weights.Hubble,
		catalog.Gaia:   f.Weights.Gaia,
		catalog.JWST:   f.Weights.JWST,
	} {
		if v == nil {
			return nil, fmt.Errorf("weightfile: missing weight for %s: %w", src, catalog.ErrInvalidArgument)
		}
		w[src] = *v
	}
	if err := w.Validate(); err != nil {
		return nil, fmt.Errorf("weightfile: %w", err)
	}
	return w, nil
}

// Encode renders a weight vector as TOML.
func Encode(w catalog.Weights) ([]byte, error) {
	if err := w.Validate(); err != nil {
		return nil, fmt.Errorf("weightfile: %w", err)
	}
	h, g, j := w[catalog.Hubble], w[catalog.Gaia], w[catalog.JWST]
	data, err := toml.Marshal(File{Weights: Table{Hubble: &h, Gaia: &g, JWST: &j}})
	if err != nil {
		return nil, fmt.Errorf("weightfile: marshal: %w", err)
	}
	return data, nil
}

// Load reads and decodes the weight file at path.
func Load(path string) (catalog.Weights, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("weightfile: read %s: %w", path, err)
	}
	return Decode(data)
}

// Save writes w to path, replacing the file atomically so a watcher never
// observes a half-written table.
func Save(path string, w catalog.Weights) error {
	data, err := Encode(w)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".weights-*.toml")
	if err != nil {
		return fmt.Errorf("weightfile: create temp: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("weightfile: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("weightfile: close: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("weightfile: rename: %w", err)
	}
	return nil
}
