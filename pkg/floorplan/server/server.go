// Package server exposes label extraction over HTTP.
//
// Routes:
//
//	GET  /healthz      liveness probe
//	POST /v1/extract   body: SVG document; response: JSON label array
//
// The optional "name" query parameter of /v1/extract identifies the
// document in log output.
package server

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/ukaji3/floorplan-go/pkg/floorplan"
	"github.com/ukaji3/floorplan-go/pkg/floorplan/output"
)

// MaxDocumentSize bounds the request body of /v1/extract.
const MaxDocumentSize = 64 << 20

// New returns the HTTP handler. The logger, if nil, falls back to
// opts.Logger and then to log.Default().
func New(opts floorplan.Options, logger *log.Logger) http.Handler {
	if logger == nil {
		logger = opts.Logger
	}
	if logger == nil {
		logger = log.Default()
	}
	if opts.Logger == nil {
		opts.Logger = logger
	}
	// Per-request caching is left to batch mode.
	opts.Cache = nil

	h := &handler{opts: opts, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(h.logRequests)

	r.Get("/healthz", h.health)
	r.Post("/v1/extract", h.extract)
	return r
}

type handler struct {
	opts   floorplan.Options
	logger *log.Logger
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok")
}

func (h *handler) extract(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		name = "request-" + middleware.GetReqID(r.Context())
	}

	body := http.MaxBytesReader(w, r.Body, MaxDocumentSize)
	labels, err := floorplan.ExtractReader(body, name, h.opts)
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			h.writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "document too large"})
		case errors.Is(err, floorplan.ErrInvalidFormat):
			h.logger.Warn("rejected document", "name", name, "err", err)
			h.writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
		default:
			h.logger.Error("extraction failed", "name", name, "err", err)
			h.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		}
		return
	}

	h.writeJSON(w, http.StatusOK, labels)
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := output.Encode(w, v, false); err != nil {
		h.logger.Error("write response", "err", err)
	}
}

// logRequests logs one line per request with status and duration.
func (h *handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		h.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).Round(time.Millisecond),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
