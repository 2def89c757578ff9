package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"
)

// CheckFunc probes one dependency
type CheckFunc func(ctx context.Context) error

// Health serves /api/health, /healthz and /readyz. The draft store check
// decides readiness; the others only show up in /api/health.
type Health struct {
	store  CheckFunc
	checks map[string]CheckFunc
}

// NewHealth creates health handlers. store is required.
func NewHealth(store CheckFunc) *Health {
	return &Health{store: store, checks: map[string]CheckFunc{}}
}

// Add registers an optional dependency check
func (h *Health) Add(name string, check CheckFunc) {
	h.checks[name] = check
}

// HealthCheck reports every dependency
func (h *Health) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	status := "ok"
	httpStatus := http.StatusOK
	checks := map[string]map[string]any{}

	names := make([]string, 0, len(h.checks)+1)
	all := map[string]CheckFunc{"database": h.store}
	for name, c := range h.checks {
		all[name] = c
	}
	for name := range all {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := all[name](ctx); err != nil {
			checks[name] = map[string]any{"status": "unhealthy", "error": err.Error()}
			if name == "database" {
				status = "unhealthy"
				httpStatus = http.StatusServiceUnavailable
			} else if status == "ok" {
				status = "degraded"
			}
			continue
		}
		checks[name] = map[string]any{"status": "healthy"}
	}

	respondJSON(w, httpStatus, map[string]any{
		"status":    status,
		"timestamp": time.Now().Unix(),
		"checks":    checks,
	})
}

// Liveness handles Kubernetes liveness probes without checking dependencies
func (h *Health) Liveness(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":    "alive",
		"timestamp": time.Now().Unix(),
	})
}

// Readiness handles Kubernetes readiness probes
func (h *Health) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.store(ctx); err != nil {
		respondJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status":    "not_ready",
			"reason":    "database_unavailable",
			"timestamp": time.Now().Unix(),
		})
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"status":    "ready",
		"timestamp": time.Now().Unix(),
	})
}
