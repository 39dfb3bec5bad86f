// Package server exposes a service.Backend over HTTP for `codeconnect serve`.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"codeconnect/internal/catalog"
	"codeconnect/internal/form"
	"codeconnect/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// maxBodyBytes limits the size of a POSTed project.
const maxBodyBytes int64 = 1 << 20

// Options configure a Server. Zero values get sensible defaults.
type Options struct {
	Logger zerolog.Logger
	// Registry receives the server metrics and backs /metrics. A fresh
	// registry is used when nil.
	Registry    *prometheus.Registry
	CORSOrigins []string
}

// Server routes HTTP requests to a backend.
type Server struct {
	backend service.Backend
	log     zerolog.Logger
	metrics *Metrics
	reg     *prometheus.Registry
	origins []string
}

// New builds a server around backend.
func New(backend service.Backend, opts Options) (*Server, error) {
	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m, err := NewMetrics(reg)
	if err != nil {
		return nil, err
	}
	return &Server{
		backend: backend,
		log:     opts.Logger,
		metrics: m,
		reg:     reg,
		origins: opts.CORSOrigins,
	}, nil
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(AccessLog(s.log))
	r.Use(middleware.Recoverer)
	r.Use(s.metrics.Middleware)
	if len(s.origins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.origins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/tags", s.listTags)
		r.Get("/tags/{tag}", s.lookupTag)
		r.Get("/emails/availability", s.emailAvailability)
		r.Post("/projects", s.publish)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.reg, promhttp.HandlerOpts{}))

	return r
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) listTags(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, service.TagsResponse{Tags: catalog.AllowedTags()})
}

func (s *Server) lookupTag(w http.ResponseWriter, r *http.Request) {
	// chi matches on RawPath when the request carries one, leaving the
	// param escaped; otherwise the param is already decoded.
	tag := chi.URLParam(r, "tag")
	if r.URL.RawPath != "" {
		if v, err := url.PathUnescape(tag); err == nil {
			tag = v
		}
	}
	ok, err := s.backend.TagExists(r.Context(), tag)
	if err != nil {
		s.backendError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, service.TagResponse{Tag: tag, Exists: ok})
}

func (s *Server) emailAvailability(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if email == "" {
		writeJSONError(w, http.StatusBadRequest, "email is required")
		return
	}
	ok, err := s.backend.EmailAvailable(r.Context(), email)
	if err != nil {
		s.backendError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, service.EmailAvailabilityResponse{Email: email, Available: ok})
}

func (s *Server) publish(w http.ResponseWriter, r *http.Request) {
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var p form.Project
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	p = sanitizeProject(p)
	if err := form.Validate(p); err != nil {
		var fe *form.FieldError
		if errors.As(err, &fe) {
			writeJSONError(w, http.StatusUnprocessableEntity, fe.Message)
			return
		}
		writeJSONError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	for _, t := range p.Tags {
		if !catalog.IsAllowedTag(t) {
			writeJSONError(w, http.StatusUnprocessableEntity, "tag not allowed: "+t)
			return
		}
	}

	receipt, err := s.backend.Publish(r.Context(), p)
	switch {
	case errors.Is(err, service.ErrPublishFailed):
		s.metrics.publishOutcome("failure")
		writeJSONError(w, http.StatusServiceUnavailable, form.MsgPublishFailed)
		return
	case err != nil:
		s.metrics.publishOutcome("error")
		s.backendError(w, r, err)
		return
	}
	s.metrics.publishOutcome("success")
	s.log.Info().
		Str("project_id", receipt.ID.String()).
		Str("request_id", middleware.GetReqID(r.Context())).
		Strs("tags", p.Tags).
		Msg("project published")
	writeJSON(w, http.StatusCreated, receipt)
}

func (s *Server) backendError(w http.ResponseWriter, r *http.Request, err error) {
	if r.Context().Err() != nil {
		// Client went away; nobody is listening for the answer.
		return
	}
	s.log.Error().Err(err).Str("request_id", middleware.GetReqID(r.Context())).Msg("backend call failed")
	writeJSONError(w, http.StatusInternalServerError, "internal error")
}
