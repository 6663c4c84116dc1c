// Package store keeps a snapshot of a generated catalog, and the weight
// vectors an operator has set on it, in a local SQLite database. Fused
// values are never stored; they are recomputed from the weights on demand.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.

	"github.com/papapumpkin/cosmic/internal/catalog"
)

// ErrNoSnapshot is returned by LoadCatalog when nothing has been saved.
var ErrNoSnapshot = errors.New("no catalog snapshot")

// schema contains the DDL executed on open. IF NOT EXISTS makes it safe to
// run on every startup.
const schema = `
CREATE TABLE IF NOT EXISTS snapshot (
    id         INTEGER PRIMARY KEY CHECK (id = 1),
    seed       INTEGER NOT NULL,
    count      INTEGER NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS records (
    id             TEXT PRIMARY KEY,
    seq            INTEGER NOT NULL UNIQUE,
    name           TEXT NOT NULL,
    spectral_class TEXT NOT NULL,
    kind           TEXT NOT NULL,
    color          TEXT NOT NULL,
    temperature_k  INTEGER NOT NULL,
    mass_solar     REAL NOT NULL,
    size_relative  REAL NOT NULL,
    distance_ly    REAL NOT NULL,
    has_conflict   INTEGER NOT NULL,
    confidence     REAL NOT NULL,
    sector         TEXT NOT NULL,
    description    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS measurements (
    record_id TEXT NOT NULL REFERENCES records(id) ON DELETE CASCADE,
    source    TEXT NOT NULL,
    value     REAL NOT NULL,
    PRIMARY KEY (record_id, source)
);

CREATE TABLE IF NOT EXISTS weights (
    record_id  TEXT NOT NULL REFERENCES records(id) ON DELETE CASCADE,
    source     TEXT NOT NULL,
    value      REAL NOT NULL CHECK (value >= 0),
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (record_id, source)
);
`

// Store is a SQLite-backed catalog snapshot.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path, enables WAL mode, foreign
// keys and a busy timeout, and creates the schema. Use ":memory:" for an
// ephemeral store.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}

	// One connection: SQLite has a single writer, and an in-memory database
	// exists only on the connection that created it.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("store: %s: %w", pragma, err)
		}
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveCatalog replaces any existing snapshot with records, generated from
// seed, together with their current weights.
func (s *Store) SaveCatalog(ctx context.Context, seed int64, records []catalog.Record) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	for _, stmt := range []string{"DELETE FROM weights", "DELETE FROM measurements", "DELETE FROM records", "DELETE FROM snapshot"} {
		if _, err = tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("store: clear snapshot: %w", err)
		}
	}
	if _, err = tx.ExecContext(ctx, `INSERT INTO snapshot (id, seed, count) VALUES (1, ?, ?)`, seed, len(records)); err != nil {
		return fmt.Errorf("store: insert snapshot: %w", err)
	}

	for _, r := range records {
		_, err = tx.ExecContext(ctx, `INSERT INTO records
			(id, seq, name, spectral_class, kind, color, temperature_k, mass_solar,
			 size_relative, distance_ly, has_conflict, confidence, sector, description)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.ID, r.Seq, r.Name, string(r.SpectralClass), r.Kind, r.Color, r.TemperatureK,
			r.MassSolar, r.SizeRelative, r.DistanceLy, r.HasConflict, r.ConfidenceScore,
			r.Sector, r.Description)
		if err != nil {
			return fmt.Errorf("store: insert record %s: %w", r.ID, err)
		}
		w := catalog.DefaultWeights()
		if r.Weights != nil {
			w = r.Weights.Snapshot()
		}
		for _, src := range catalog.Sources() {
			if _, err = tx.ExecContext(ctx, `INSERT INTO measurements (record_id, source, value) VALUES (?, ?, ?)`,
				r.ID, string(src), r.Measurements[src]); err != nil {
				return fmt.Errorf("store: insert measurement %s/%s: %w", r.ID, src, err)
			}
			if _, err = tx.ExecContext(ctx, `INSERT INTO weights (record_id, source, value) VALUES (?, ?, ?)`,
				r.ID, string(src), w[src]); err != nil {
				return fmt.Errorf("store: insert weight %s/%s: %w", r.ID, src, err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("store: commit: %w", err)
	}
	return nil
}

// Snapshot describes the saved catalog.
type Snapshot struct {
	Seed    int64
	Records []catalog.Record
}

// LoadCatalog reads the saved catalog in generation order. It returns
// ErrNoSnapshot when nothing has been saved.
func (s *Store) LoadCatalog(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	err := s.db.QueryRowContext(ctx, `SELECT seed FROM snapshot WHERE id = 1`).Scan(&snap.Seed)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, ErrNoSnapshot
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("store: read snapshot: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, seq, name, spectral_class, kind, color,
		temperature_k, mass_solar, size_relative, distance_ly, has_conflict, confidence,
		sector, description FROM records ORDER BY seq`)
	if err != nil {
		return Snapshot{}, fmt.Errorf("store: query records: %w", err)
	}
	defer rows.Close()

	index := make(map[string]int)
	for rows.Next() {
		var r catalog.Record
		var class string
		if err := rows.Scan(&r.ID, &r.Seq, &r.Name, &class, &r.Kind, &r.Color,
			&r.TemperatureK, &r.MassSolar, &r.SizeRelative, &r.DistanceLy, &r.HasConflict,
			&r.ConfidenceScore, &r.Sector, &r.Description); err != nil {
			return Snapshot{}, fmt.Errorf("store: scan record: %w", err)
		}
		r.SpectralClass = catalog.SpectralClass(class)
		r.Measurements = make(catalog.Measurements, len(catalog.Sources()))
		index[r.ID] = len(snap.Records)
		snap.Records = append(snap.Records, r)
	}
	if err := rows.Err(); err != nil {
		return Snapshot{}, fmt.Errorf("store: iterate records: %w", err)
	}

	weights := make(map[string]catalog.Weights, len(snap.Records))
	if err := s.eachValue(ctx, "measurements", func(id string, src catalog.Source, v float64) {
		snap.Records[index[id]].Measurements[src] = v
	}); err != nil {
		return Snapshot{}, err
	}
	if err := s.eachValue(ctx, "weights", func(id string, src catalog.Source, v float64) {
		if weights[id] == nil {
			weights[id] = make(catalog.Weights, len(catalog.Sources()))
		}
		weights[id][src] = v
	}); err != nil {
		return Snapshot{}, err
	}
	for i := range snap.Records {
		snap.Records[i].Weights = catalog.NewWeightCell(weights[snap.Records[i].ID])
	}
	return snap, nil
}

// eachValue scans a (record_id, source, value) table.
func (s *Store) eachValue(ctx context.Context, table string, fn func(string, catalog.Source, float64)) error {
	rows, err := s.db.QueryContext(ctx, `SELECT record_id, source, value FROM `+table)
	if err != nil {
		return fmt.Errorf("store: query %s: %w", table, err)
	}
	defer rows.Close()
	for rows.Next() {
		var id, src string
		var v float64
		if err := rows.Scan(&id, &src, &v); err != nil {
			return fmt.Errorf("store: scan %s: %w", table, err)
		}
		fn(id, catalog.Source(src), v)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("store: iterate %s: %w", table, err)
	}
	return nil
}

// SaveWeights records the current weight vector of one record.
func (s *Store) SaveWeights(ctx context.Context, id string, w catalog.Weights) error {
	if err := w.Validate(); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin: %w", err)
	}
	defer tx.Rollback()

	for _, src := range catalog.Sources() {
		res, err := tx.ExecContext(ctx, `UPDATE weights SET value = ?, updated_at = CURRENT_TIMESTAMP
			WHERE record_id = ? AND source = ?`, w[src], id, string(src))
		if err != nil {
			return fmt.Errorf("store: update weight %s/%s: %w", id, src, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("store: record %q not in snapshot: %w", id, catalog.ErrInvalidArgument)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit: %w", err)
	}
	return nil
}
