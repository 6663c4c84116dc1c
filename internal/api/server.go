// Package api serves the catalog, fusion and sky-map operations over HTTP
// as JSON, for a browser dashboard or any other client.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/papapumpkin/cosmic/internal/catalog"
	"github.com/papapumpkin/cosmic/internal/fusion"
	"github.com/papapumpkin/cosmic/internal/habitability"
	"github.com/papapumpkin/cosmic/internal/skymap"
	"github.com/papapumpkin/cosmic/internal/telemetry"
	"github.com/papapumpkin/cosmic/internal/workspace"
)

// WeightSaver persists a record's weights after a successful update.
type WeightSaver interface {
	SaveWeights(ctx context.Context, id string, w catalog.Weights) error
}

// Options configures a Server. Workspace is required; the rest may be zero.
type Options struct {
	Workspace *workspace.Workspace
	Field     []catalog.BackgroundPoint
	MapSeed   int64
	Logger    *zap.Logger
	Events    *telemetry.Emitter
	Store     WeightSaver
}

// Server holds the state behind the HTTP handlers.
type Server struct {
	ws      *workspace.Workspace
	field   []catalog.BackgroundPoint
	markers []skymap.Marker
	logger  *zap.Logger
	events  *telemetry.Emitter
	store   WeightSaver
}

// New creates a Server. Marker placement is computed once up front.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		ws:      opts.Workspace,
		field:   opts.Field,
		markers: skymap.Place(opts.Workspace.Records(), opts.MapSeed),
		logger:  logger,
		events:  opts.Events,
		store:   opts.Store,
	}
}

// Handler returns the chi router with all routes and middleware mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/catalog", func(r chi.Router) {
			r.Get("/", s.handleCatalog)
			r.Get("/{id}", s.handleRecord)
			r.Get("/{id}/fusion", s.handleFusion)
			r.Put("/{id}/weights", s.handleReplaceWeights)
			r.Put("/{id}/weights/{source}", s.handleSetWeight)
		})
		r.Post("/fuse", s.handleFuse)
		r.Get("/field", s.handleField)
		r.Get("/skymap", s.handleSkymap)
		r.Get("/stats", s.handleStats)
		r.Post("/habitability", s.handleHabitability)
	})
	return r
}

// logRequests logs one line per request at info level.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

// GET /api/catalog[?conflict=true|false]
func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	records := s.ws.Records()
	if q := r.URL.Query().Get("conflict"); q != "" {
		want, err := strconv.ParseBool(q)
		if err != nil {
			writeError(w, http.StatusBadRequest, errors.New("conflict must be true or false"))
			return
		}
		filtered := records[:0]
		for _, rec := range records {
			if rec.HasConflict == want {
				filtered = append(filtered, rec)
			}
		}
		records = filtered
	}
	writeJSON(w, http.StatusOK, records)
}

// GET /api/catalog/{id}
func (s *Server) handleRecord(w http.ResponseWriter, r *http.Request) {
	rec, err := s.ws.Record(chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// GET /api/catalog/{id}/fusion
func (s *Server) handleFusion(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	res, err := s.ws.Resolve(id)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.emit(telemetry.Event{Kind: telemetry.KindFusionComputed, RecordID: id, Data: map[string]float64{"fused": res.Fused}})
	writeJSON(w, http.StatusOK, res)
}

// PUT /api/catalog/{id}/weights with a full weight map.
func (s *Server) handleReplaceWeights(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var weights catalog.Weights
	if err := json.NewDecoder(r.Body).Decode(&weights); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.ws.ReplaceWeights(id, weights); err != nil {
		s.fail(w, err)
		return
	}
	s.weightsChanged(w, r, id)
}

// PUT /api/catalog/{id}/weights/{source} with {"value": n}.
func (s *Server) handleSetWeight(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var body struct {
		Value *float64 `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if body.Value == nil {
		writeError(w, http.StatusBadRequest, errors.New("value is required"))
		return
	}
	src := catalog.Source(chi.URLParam(r, "source"))
	if err := s.ws.SetWeight(id, src, *body.Value); err != nil {
		s.fail(w, err)
		return
	}
	s.weightsChanged(w, r, id)
}

// weightsChanged persists, records and answers a successful weight update
// with the new resolution.
func (s *Server) weightsChanged(w http.ResponseWriter, r *http.Request, id string) {
	rec, err := s.ws.Record(id)
	if err != nil {
		s.fail(w, err)
		return
	}
	weights := rec.Weights.Snapshot()
	if s.store != nil {
		if err := s.store.SaveWeights(r.Context(), id, weights); err != nil {
			// The in-memory update stands; the snapshot is best effort.
			s.logger.Warn("save weights", zap.String("record", id), zap.Error(err))
		}
	}
	s.emit(telemetry.Event{Kind: telemetry.KindWeightsChanged, RecordID: id, Data: weights})
	res, err := fusion.Resolve(rec, weights)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// FuseRequest is the body of POST /api/fuse.
type FuseRequest struct {
	Measurements catalog.Measurements `json:"measurements"`
	Weights      catalog.Weights      `json:"weights"`
}

// FuseResponse is the reply of POST /api/fuse.
type FuseResponse struct {
	Fused float64 `json:"fused"`
}

// POST /api/fuse
func (s *Server) handleFuse(w http.ResponseWriter, r *http.Request) {
	var req FuseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	fused, err := fusion.Fuse(req.Measurements, req.Weights)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, FuseResponse{Fused: fused})
}

// GET /api/field
func (s *Server) handleField(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.field)
}

// GET /api/skymap?zoom=&cx=&cy=
func (s *Server) handleSkymap(w http.ResponseWriter, r *http.Request) {
	v := skymap.DefaultViewport()
	for key, dst := range map[string]*float64{"zoom": &v.Zoom, "cx": &v.CenterX, "cy": &v.CenterY} {
		raw := r.URL.Query().Get(key)
		if raw == "" {
			continue
		}
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, errors.New(key+" must be a number"))
			return
		}
		*dst = f
	}
	if err := v.Validate(); err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v.Project(s.markers, s.field))
}

// GET /api/stats
func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.ws.Stats())
}

// POST /api/habitability
func (s *Server) handleHabitability(w http.ResponseWriter, r *http.Request) {
	planet := habitability.Earth()
	if err := json.NewDecoder(r.Body).Decode(&planet); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	a, err := habitability.Assess(planet)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// fail maps domain errors onto status codes.
func (s *Server) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, workspace.ErrUnknownRecord):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, catalog.ErrInvalidArgument):
		writeError(w, http.StatusBadRequest, err)
	default:
		s.logger.Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err)
	}
}

func (s *Server) emit(evt telemetry.Event) {
	if err := s.events.Emit(evt); err != nil {
		s.logger.Warn("telemetry", zap.Error(err))
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}
