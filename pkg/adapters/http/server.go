package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/aretw0/blink"
	"github.com/aretw0/blink/pkg/domain"
	"github.com/aretw0/blink/pkg/ports"
	"github.com/aretw0/blink/pkg/stone"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// maxBodyBytes caps request bodies; a stone list is small text.
const maxBodyBytes = 1 << 20

// CountRequest is the body of POST /v1/count and POST /v1/expand.
// Input takes precedence over Values. When Blinks is absent, Part selects
// the blink count (1 = 25, 2 = 75; default 1).
type CountRequest struct {
	Input  string   `json:"input,omitempty"`
	Values []uint64 `json:"values,omitempty"`
	Blinks *int     `json:"blinks,omitempty"`
	Part   int      `json:"part,omitempty"`
}

// ExpandResponse is the body returned by POST /v1/expand.
type ExpandResponse struct {
	Stones []uint64 `json:"stones"`
	Count  int      `json:"count"`
}

// ErrorResponse is returned for any failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Server exposes a ports.Engine over HTTP.
type Server struct {
	Engine  ports.Engine
	metrics http.Handler
	logger  *slog.Logger
}

// Option configures the handler.
type Option func(*Server)

// WithMetricsHandler mounts h at GET /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithLogger sets the request logger (default: slog.Default()).
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine ports.Engine, opts ...Option) http.Handler {
	s := &Server{
		Engine: engine,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.GetHealth)
	r.Get("/version", s.GetVersion)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	r.Route("/v1", func(r chi.Router) {
		r.Post("/count", s.PostCount)
		r.Get("/count", s.GetCount)
		r.Post("/expand", s.PostExpand)
	})

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// PostCount handles POST /v1/count.
func (s *Server) PostCount(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decode(w, r)
	if !ok {
		return
	}
	s.count(w, r, req)
}

// GetCount handles GET /v1/count?stones=125+17&blinks=25.
func (s *Server) GetCount(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := CountRequest{Input: q.Get("stones")}

	if raw := q.Get("blinks"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			s.fail(w, r, fmt.Errorf("%w: blinks %q is not an integer", domain.ErrInvalidInput, raw))
			return
		}
		req.Blinks = &n
	}
	if raw := q.Get("part"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			s.fail(w, r, fmt.Errorf("%w: %q", domain.ErrInvalidPart, raw))
			return
		}
		req.Part = n
	}

	s.count(w, r, req)
}

// PostExpand handles POST /v1/expand.
func (s *Server) PostExpand(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decode(w, r)
	if !ok {
		return
	}

	values, blinks, err := req.resolve()
	if err != nil {
		s.fail(w, r, err)
		return
	}

	stones, err := s.Engine.Expand(r.Context(), values, blinks)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, s.logger, http.StatusOK, ExpandResponse{Stones: stones, Count: len(stones)})
}

// GetHealth handles GET /healthz.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, http.StatusOK, map[string]string{"status": "ok"})
}

// GetVersion handles GET /version.
func (s *Server) GetVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, http.StatusOK, map[string]string{
		"app":     "blink-http",
		"version": strings.TrimSpace(blink.Version),
	})
}

func (s *Server) count(w http.ResponseWriter, r *http.Request, req CountRequest) {
	values, blinks, err := req.resolve()
	if err != nil {
		s.fail(w, r, err)
		return
	}

	res, err := s.Engine.Run(r.Context(), values, blinks)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, s.logger, http.StatusOK, res)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request) (CountRequest, bool) {
	var req CountRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		s.logger.Warn("invalid request body", "path", r.URL.Path, "err", err)
		writeJSON(w, s.logger, http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return req, false
	}
	return req, true
}

// resolve turns the request into stone values and a blink count.
func (c CountRequest) resolve() ([]uint64, int, error) {
	values := c.Values
	if strings.TrimSpace(c.Input) != "" {
		parsed, err := stone.Parse(c.Input)
		if err != nil {
			return nil, 0, err
		}
		values = parsed
	}

	if c.Blinks != nil {
		return values, *c.Blinks, nil
	}

	part := c.Part
	if part == 0 {
		part = 1
	}
	blinks, err := domain.BlinksForPart(part)
	if err != nil {
		return nil, 0, err
	}
	return values, blinks, nil
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
	} else {
		s.logger.Debug("request rejected", "path", r.URL.Path, "err", err)
	}
	writeJSON(w, s.logger, status, ErrorResponse{Error: err.Error()})
}

// StatusFor maps engine errors to HTTP status codes. An overflow is a
// well-formed request whose answer does not fit in 64 bits.
func StatusFor(err error) int {
	if errors.Is(err, domain.ErrOverflow) {
		return http.StatusUnprocessableEntity
	}
	if domain.IsInputError(err) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("response encode failed", "err", err)
	}
}
