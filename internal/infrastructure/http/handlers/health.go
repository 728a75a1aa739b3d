package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"
)

const readinessTimeout = 3 * time.Second

// HealthHandler handles GET /health (liveness).
// Returns 200 immediately; confirms the process is alive.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// Pinger is implemented by every backing store the service depends on.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependency names a Pinger in the readiness report.
type Dependency struct {
	Name   string
	Pinger Pinger
}

// HealthDependenciesHandler handles GET /health/ready (readiness).
// The relational store, the blob store and the idempotency cache are pinged
// concurrently before the service declares itself ready.
type HealthDependenciesHandler struct {
	deps []Dependency
}

func NewHealthDependenciesHandler(deps ...Dependency) *HealthDependenciesHandler {
	return &HealthDependenciesHandler{deps: deps}
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

func (h *HealthDependenciesHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), readinessTimeout)
	defer cancel()

	results := make([]dependencyStatus, len(h.deps))
	var g errgroup.Group
	for i, dep := range h.deps {
		g.Go(func() error {
			if err := dep.Pinger.Ping(ctx); err != nil {
				results[i] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
				return nil
			}
			results[i] = dependencyStatus{Status: "ok"}
			return nil
		})
	}
	_ = g.Wait()

	deps := make(map[string]dependencyStatus, len(h.deps))
	healthy := true
	for i, dep := range h.deps {
		deps[dep.Name] = results[i]
		healthy = healthy && results[i].Status == "ok"
	}

	if !healthy {
		return c.JSON(http.StatusServiceUnavailable, readinessResponse{
			Status:       "degraded",
			Dependencies: deps,
		})
	}
	return c.JSON(http.StatusOK, readinessResponse{
		Status:       "ok",
		Dependencies: deps,
	})
}
