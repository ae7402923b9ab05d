// Package server exposes the layout engine over HTTP.
//
// Request bodies are partial settings records (JSON); they are merged over
// the stored record before the layout is computed, so an empty body renders
// the stored chart. An absent or empty labels list keeps the stored labels;
// send a non-empty list to replace them.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ByLCY/tategaki/layout"
	"github.com/ByLCY/tategaki/settings"
)

// maxBody limits request bodies; a chart record is a few kilobytes.
const maxBody = 1 << 20

// Engine measures glyphs and produces the binary outputs.
type Engine interface {
	layout.Measurer
	Render(res *layout.Result) ([]byte, error)
	RenderPNG(res *layout.Result, dpi float64) ([]byte, error)
}

type server struct {
	store  settings.Repository
	engine Engine
	logger *log.Logger
}

// New returns the HTTP handler.
func New(store settings.Repository, engine Engine, logger *log.Logger) http.Handler {
	if logger == nil {
		logger = log.Default()
	}
	s := &server{store: store, engine: engine, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Route("/api", func(r chi.Router) {
		r.Get("/settings", s.getSettings)
		r.Put("/settings", s.putSettings)
		r.Post("/plan", s.plan)
		r.Post("/render.pdf", s.renderPDF)
		r.Post("/preview.png", s.previewPNG)
	})
	return r
}

func (s *server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"elapsed", time.Since(start).Round(time.Microsecond))
	})
}

func (s *server) getSettings(w http.ResponseWriter, r *http.Request) {
	stored, err := s.store.Load(r.Context())
	if err != nil {
		s.fail(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, stored)
}

func (s *server) putSettings(w http.ResponseWriter, r *http.Request) {
	merged, status, err := s.merged(r)
	if err != nil {
		s.fail(w, status, err)
		return
	}
	if err := s.store.Save(r.Context(), merged); err != nil {
		s.fail(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, merged)
}

func (s *server) plan(w http.ResponseWriter, r *http.Request) {
	res, ok := s.build(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := layout.EncodeJSON(w, res); err != nil {
		s.logger.Error("encode plan", "err", err)
	}
}

func (s *server) renderPDF(w http.ResponseWriter, r *http.Request) {
	res, ok := s.build(w, r)
	if !ok {
		return
	}
	data, err := s.engine.Render(res)
	if err != nil {
		s.fail(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="chart.pdf"`)
	w.Write(data)
}

func (s *server) previewPNG(w http.ResponseWriter, r *http.Request) {
	dpi := layout.DefaultDPI
	if v := r.URL.Query().Get("dpi"); v != "" {
		d, err := strconv.ParseFloat(v, 64)
		if err != nil || d <= 0 || d > 1200 {
			s.fail(w, http.StatusBadRequest, errors.New("dpi must be a number in (0, 1200]"))
			return
		}
		dpi = d
	}
	res, ok := s.build(w, r)
	if !ok {
		return
	}
	data, err := s.engine.RenderPNG(res, dpi)
	if err != nil {
		s.fail(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(data)
}

// build merges the request over the stored record and computes the layout.
func (s *server) build(w http.ResponseWriter, r *http.Request) (*layout.Result, bool) {
	merged, status, err := s.merged(r)
	if err != nil {
		s.fail(w, status, err)
		return nil, false
	}
	cfg, labels := merged.Resolve()
	return layout.Build(labels, cfg, layout.BuildOptions{Measurer: s.engine, Meta: merged.Meta()}), true
}

// merged returns the stored record with the request body laid over it. The
// status tells a malformed body (400) from a store failure (500).
func (s *server) merged(r *http.Request) (settings.Settings, int, error) {
	var raw map[string]any
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBody)).Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return settings.Settings{}, http.StatusBadRequest, err
	}
	stored, err := s.store.Load(r.Context())
	if err != nil {
		return settings.Settings{}, http.StatusInternalServerError, fmt.Errorf("load settings: %w", err)
	}
	return settings.Merge(stored, settings.Decode(raw)), http.StatusOK, nil
}

func (s *server) fail(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
