package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/papapumpkin/cosmic/internal/catalog"
	"github.com/papapumpkin/cosmic/internal/fusion"
	"github.com/papapumpkin/cosmic/internal/habitability"
	"github.com/papapumpkin/cosmic/internal/skymap"
	"github.com/papapumpkin/cosmic/internal/workspace"
)

type recordingSaver struct {
	mu    sync.Mutex
	saved map[string]catalog.Weights
}

func (s *recordingSaver) SaveWeights(_ context.Context, id string, w catalog.Weights) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saved == nil {
		s.saved = make(map[string]catalog.Weights)
	}
	s.saved[id] = w
	return nil
}

func newTestServer(t *testing.T) (*httptest.Server, *workspace.Workspace, *recordingSaver) {
	t.Helper()
	recs, err := catalog.Generate(20, 42)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	field, err := catalog.GenerateField(200, 7)
	if err != nil {
		t.Fatalf("GenerateField: %v", err)
	}
	ws := workspace.New(recs, 100)
	saver := &recordingSaver{}
	srv := httptest.NewServer(New(Options{Workspace: ws, Field: field, MapSeed: 3, Store: saver}).Handler())
	t.Cleanup(srv.Close)
	return srv, ws, saver
}

func do(t *testing.T, method, url, body string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, buf.Bytes()
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		t.Fatalf("decode %s: %v", data, err)
	}
	return v
}

func TestHealthz(t *testing.T) {
	t.Parallel()
	srv, _, _ := newTestServer(t)
	resp, body := do(t, http.MethodGet, srv.URL+"/healthz", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if got := decode[map[string]string](t, body)["status"]; got != "ok" {
		t.Errorf("status field = %q", got)
	}
}

func TestCatalog(t *testing.T) {
	t.Parallel()
	srv, ws, _ := newTestServer(t)

	resp, body := do(t, http.MethodGet, srv.URL+"/api/catalog", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	all := decode[[]catalog.Record](t, body)
	if len(all) != ws.Len() {
		t.Fatalf("got %d records, want %d", len(all), ws.Len())
	}
	if all[0].ID != "COS-10000" {
		t.Errorf("first id = %q", all[0].ID)
	}

	_, body = do(t, http.MethodGet, srv.URL+"/api/catalog?conflict=true", "")
	conflicts := decode[[]catalog.Record](t, body)
	if len(conflicts) != len(ws.Conflicts()) {
		t.Errorf("conflict filter returned %d, want %d", len(conflicts), len(ws.Conflicts()))
	}
	for _, r := range conflicts {
		if !r.HasConflict {
			t.Errorf("%s returned by conflict filter without conflict", r.ID)
		}
	}

	resp, _ = do(t, http.MethodGet, srv.URL+"/api/catalog?conflict=maybe", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad filter status = %d", resp.StatusCode)
	}
}

func TestRecord(t *testing.T) {
	t.Parallel()
	srv, ws, _ := newTestServer(t)

	resp, body := do(t, http.MethodGet, srv.URL+"/api/catalog/COS-10004", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	got := decode[catalog.Record](t, body)
	want, _ := ws.Record("COS-10004")
	if got.DistanceLy != want.DistanceLy || got.Measurements[catalog.JWST] != want.DistanceLy {
		t.Errorf("record mismatch: got %+v", got)
	}

	resp, _ = do(t, http.MethodGet, srv.URL+"/api/catalog/COS-1", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown id status = %d", resp.StatusCode)
	}
}

func TestWeightsAndFusion(t *testing.T) {
	t.Parallel()
	srv, ws, saver := newTestServer(t)
	rec, _ := ws.Record("COS-10002")

	resp, body := do(t, http.MethodPut, srv.URL+"/api/catalog/COS-10002/weights", `{"hubble":1,"gaia":0,"jwst":0}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	res := decode[fusion.Resolution](t, body)
	if res.Fused != rec.Measurements[catalog.Hubble] {
		t.Errorf("fused = %v, want hubble %v", res.Fused, rec.Measurements[catalog.Hubble])
	}
	if diff := cmp.Diff(catalog.Weights{catalog.Hubble: 1, catalog.Gaia: 0, catalog.JWST: 0}, saver.saved["COS-10002"]); diff != "" {
		t.Errorf("saved weights (-want +got):\n%s", diff)
	}

	resp, body = do(t, http.MethodPut, srv.URL+"/api/catalog/COS-10002/weights/hubble", `{"value":0}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("set weight status = %d: %s", resp.StatusCode, body)
	}
	if res := decode[fusion.Resolution](t, body); !res.Degenerate {
		t.Errorf("all-zero weights should be degenerate: %+v", res)
	}

	_, body = do(t, http.MethodGet, srv.URL+"/api/catalog/COS-10002/fusion", "")
	if res := decode[fusion.Resolution](t, body); !res.Degenerate || res.HasConflict != rec.HasConflict {
		t.Errorf("fusion after update = %+v", res)
	}

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"negative", http.MethodPut, "/api/catalog/COS-10002/weights", `{"hubble":-1,"gaia":1,"jwst":1}`, http.StatusBadRequest},
		{"above max", http.MethodPut, "/api/catalog/COS-10002/weights", `{"hubble":101,"gaia":1,"jwst":1}`, http.StatusBadRequest},
		{"missing key", http.MethodPut, "/api/catalog/COS-10002/weights", `{"hubble":1}`, http.StatusBadRequest},
		{"not json", http.MethodPut, "/api/catalog/COS-10002/weights", `hubble`, http.StatusBadRequest},
		{"unknown record", http.MethodPut, "/api/catalog/COS-99999/weights", `{"hubble":1,"gaia":1,"jwst":1}`, http.StatusNotFound},
		{"unknown source", http.MethodPut, "/api/catalog/COS-10002/weights/kepler", `{"value":1}`, http.StatusBadRequest},
		{"missing value", http.MethodPut, "/api/catalog/COS-10002/weights/gaia", `{}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := do(t, tt.method, srv.URL+tt.path, tt.body)
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d: %s", resp.StatusCode, tt.want, body)
			}
		})
	}
}

func TestFuse(t *testing.T) {
	t.Parallel()
	srv, _, _ := newTestServer(t)

	resp, body := do(t, http.MethodPost, srv.URL+"/api/fuse",
		`{"measurements":{"hubble":10,"gaia":12,"jwst":11},"weights":{"hubble":1,"gaia":1,"jwst":1}}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	if got := decode[FuseResponse](t, body).Fused; got != 11 {
		t.Errorf("fused = %v, want 11", got)
	}

	resp, _ = do(t, http.MethodPost, srv.URL+"/api/fuse",
		`{"measurements":{"hubble":10,"gaia":12},"weights":{"hubble":1,"gaia":1,"jwst":1}}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("mismatched keys status = %d", resp.StatusCode)
	}
}

func TestFieldAndSkymap(t *testing.T) {
	t.Parallel()
	srv, ws, _ := newTestServer(t)

	_, body := do(t, http.MethodGet, srv.URL+"/api/field", "")
	if got := len(decode[[]catalog.BackgroundPoint](t, body)); got != 200 {
		t.Errorf("field has %d points, want 200", got)
	}

	resp, body := do(t, http.MethodGet, srv.URL+"/api/skymap", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	frame := decode[skymap.Frame](t, body)
	if len(frame.Markers) != ws.Len() {
		t.Errorf("default viewport shows %d markers, want all %d", len(frame.Markers), ws.Len())
	}

	_, body = do(t, http.MethodGet, srv.URL+"/api/skymap?zoom=4&cx=10&cy=10", "")
	zoomed := decode[skymap.Frame](t, body)
	if zoomed.Viewport.Zoom != 4 || len(zoomed.Markers) >= len(frame.Markers) {
		t.Errorf("zoomed frame: zoom %v with %d markers", zoomed.Viewport.Zoom, len(zoomed.Markers))
	}

	for _, q := range []string{"zoom=9", "zoom=abc", "cx=-5"} {
		resp, _ := do(t, http.MethodGet, srv.URL+"/api/skymap?"+q, "")
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s status = %d, want 400", q, resp.StatusCode)
		}
	}
}

func TestStats(t *testing.T) {
	t.Parallel()
	srv, ws, _ := newTestServer(t)
	_, body := do(t, http.MethodGet, srv.URL+"/api/stats", "")
	got := decode[workspace.Stats](t, body)
	if got.Count != ws.Len() || got.Conflicts != len(ws.Conflicts()) {
		t.Errorf("stats = %+v", got)
	}
}

func TestHabitability(t *testing.T) {
	t.Parallel()
	srv, _, _ := newTestServer(t)

	resp, body := do(t, http.MethodPost, srv.URL+"/api/habitability", `{}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	want, _ := habitability.Assess(habitability.Earth())
	if diff := cmp.Diff(want, decode[habitability.Assessment](t, body)); diff != "" {
		t.Errorf("empty body should assess Earth (-want +got):\n%s", diff)
	}

	resp, _ = do(t, http.MethodPost, srv.URL+"/api/habitability", `{"distance_au":0}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("zero distance status = %d", resp.StatusCode)
	}
}
