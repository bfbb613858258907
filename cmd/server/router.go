package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"clientreg/internal/client/handler"
	"clientreg/internal/platform/metrics"
	"clientreg/pkg/platform/httputil"
	"clientreg/pkg/platform/middleware/logging"
	"clientreg/pkg/platform/middleware/requesttime"
)

const healthTimeout = 2 * time.Second

func newRouter(h *handler.Handler, reg *prometheus.Registry, checks map[string]healthCheck, logger *slog.Logger) http.Handler {
	httpMetrics := metrics.NewHTTP(reg)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(logging.RequestID)
	r.Use(requesttime.Middleware)
	r.Use(httpMetrics.Middleware)
	r.Use(logging.AccessLog(logger))
	r.Use(chimw.Recoverer)

	r.Get("/healthz", healthHandler(checks))
	r.Method(http.MethodGet, "/metrics", metrics.Handler(reg))
	h.Register(r)
	return r
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// healthHandler runs every check concurrently and answers 503 if any fails.
func healthHandler(checks map[string]healthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		results := make([]string, len(checks))
		names := make([]string, 0, len(checks))
		var g errgroup.Group
		for name, check := range checks {
			i := len(names)
			names = append(names, name)
			g.Go(func() error {
				if err := check(ctx); err != nil {
					results[i] = err.Error()
					return err
				}
				results[i] = "ok"
				return nil
			})
		}
		err := g.Wait()

		resp := healthResponse{Status: "ok", Checks: make(map[string]string, len(names))}
		for i, name := range names {
			resp.Checks[name] = results[i]
		}
		status := http.StatusOK
		if err != nil {
			resp.Status = "unavailable"
			status = http.StatusServiceUnavailable
		}
		httputil.WriteJSON(w, status, resp)
	}
}
