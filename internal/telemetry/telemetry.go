// Package telemetry provides a JSONL event stream recording what a cosmic
// run did: catalogs and fields generated, weights changed, fusions computed
// and snapshots saved. Every event carries the session id of the run that
// produced it so several runs can share one file.
package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event kinds identify the type of telemetry event.
const (
	KindSessionStart     = "session_start"
	KindCatalogGenerated = "catalog_generated"
	KindFieldGenerated   = "field_generated"
	KindWeightsChanged   = "weights_changed"
	KindFusionComputed   = "fusion_computed"
	KindSnapshotSaved    = "snapshot_saved"
)

// Event represents a single telemetry record. Each event carries a timestamp,
// a kind tag, the emitting session and optionally the record it concerns,
// along with arbitrary structured data.
type Event struct {
	Timestamp time.Time `json:"ts"`
	Kind      string    `json:"kind"`
	SessionID string    `json:"session,omitempty"`
	RecordID  string    `json:"record,omitempty"`
	Data      any       `json:"data,omitempty"`
}

// Emitter writes telemetry events to a JSONL file. It is safe for concurrent
// use by multiple goroutines. A nil *Emitter is a valid no-op emitter.
type Emitter struct {
	session string
	file    *os.File
	enc     *json.Encoder
	mu      sync.Mutex
}

// NewEmitter creates a new Emitter that writes JSONL events to the file at
// path under a fresh random session id. The file is created if it does not
// exist, or appended to if it does.
func NewEmitter(path string) (*Emitter, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("telemetry: open %s: %w", path, err)
	}
	return &Emitter{
		session: uuid.NewString(),
		file:    f,
		enc:     json.NewEncoder(f),
	}, nil
}

// Open returns a nil (no-op) Emitter when path is empty and otherwise
// behaves like NewEmitter.
func Open(path string) (*Emitter, error) {
	if path == "" {
		return nil, nil
	}
	return NewEmitter(path)
}

// SessionID returns the id stamped on every event, or "" for a nil Emitter.
func (e *Emitter) SessionID() string {
	if e == nil {
		return ""
	}
	return e.session
}

// Emit writes a single event to the JSONL file, filling in the timestamp
// and session id when they are unset. Calling Emit on a nil Emitter is a
// no-op.
func (e *Emitter) Emit(evt Event) error {
	if e == nil {
		return nil
	}
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now().UTC()
	}
	if evt.SessionID == "" {
		evt.SessionID = e.session
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.enc.Encode(evt); err != nil {
		return fmt.Errorf("telemetry: encode event: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying file. Calling Close on a nil
// Emitter is a no-op.
func (e *Emitter) Close() error {
	if e == nil {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.file.Close(); err != nil {
		return fmt.Errorf("telemetry: close: %w", err)
	}
	return nil
}
