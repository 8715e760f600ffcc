// Package ops serves the operational HTTP endpoints: health, prometheus
// metrics and uploaded exercise videos.
package ops

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sort"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dtroode/speechpractice-server/internal/logger"
	"github.com/dtroode/speechpractice-server/internal/model"
)

const checkTimeout = 2 * time.Second

// HealthCheck reports whether a dependency is usable.
type HealthCheck func(ctx context.Context) error

// MediaOpener opens a stored video by key.
type MediaOpener interface {
	Open(ctx context.Context, key string) (io.ReadCloser, string, error)
}

// Router builds the ops HTTP handler.
type Router struct {
	checks   map[string]HealthCheck
	registry *prometheus.Registry
	media    MediaOpener
	logger   *logger.Logger
}

// NewRouter creates a Router. registry and media may be nil, which disables
// the corresponding endpoint.
func NewRouter(checks map[string]HealthCheck, registry *prometheus.Registry, media MediaOpener, logger *logger.Logger) *Router {
	return &Router{
		checks:   checks,
		registry: registry,
		media:    media,
		logger:   logger,
	}
}

// Handler returns the configured mux.
func (rt *Router) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", rt.healthz).Methods(http.MethodGet)
	if rt.registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(rt.registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}
	if rt.media != nil {
		r.HandleFunc("/media/{key:.+}", rt.serveMedia).Methods(http.MethodGet, http.MethodHead)
	}
	return r
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func (rt *Router) healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
	defer cancel()

	names := make([]string, 0, len(rt.checks))
	for name := range rt.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	resp := healthResponse{Status: "ok", Checks: make(map[string]string, len(names))}
	code := http.StatusOK
	for _, name := range names {
		if err := rt.checks[name](ctx); err != nil {
			rt.logger.Warn("Ops: health check failed", "check", name, "error", err)
			resp.Checks[name] = err.Error()
			resp.Status = "unavailable"
			code = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}

	writeJSON(w, code, resp)
}

func (rt *Router) serveMedia(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	rc, contentType, err := rt.media.Open(r.Context(), key)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		rt.logger.Error("Ops: failed to open media", "key", key, "error", err)
		http.Error(w, "media unavailable", http.StatusBadGateway)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "private, max-age=3600")
	if r.Method == http.MethodHead {
		return
	}
	if _, err := io.Copy(w, rc); err != nil {
		rt.logger.Debug("Ops: media copy interrupted", "key", key, "error", err)
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
