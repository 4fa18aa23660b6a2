// Package v1 provides the HTTP handlers for the call simulator API.
package v1

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/callcentersim/callsim/internal/domain"
	"github.com/callcentersim/callsim/internal/service"
)

// Handler handles HTTP requests.
type Handler struct {
	service *service.Service
}

// NewHandler creates a new handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{service: svc}
}

// RegisterRoutes registers the API routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	// Simulation lifecycle
	e.POST("/api/simulate/start", h.StartSimulation)
	e.POST("/api/simulate/end", h.EndSimulation)
	e.POST("/api/simulate/message", h.ProcessMessage)
	e.GET("/api/simulate/:simulation_id", h.GetSimulation)
	e.POST("/api/simulate/:simulation_id/transfer", h.TransferCall)
	e.POST("/api/simulate/:simulation_id/note", h.AddNote)
	e.POST("/api/simulate/:simulation_id/tag", h.AddTag)

	// Listings and analytics
	e.GET("/api/simulations", h.ListSimulations)
	e.GET("/api/simulations/:simulation_id/metrics", h.GetCallMetrics)
	e.GET("/api/stats/daily", h.GetDailyStats)

	e.GET("/health", h.Health)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "0.1.0",
	})
}

// respondError maps service results to HTTP statuses: expected negative
// results become 4xx, anything else is a generic 500.
func respondError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, domain.ErrorResponse{Error: "simulation not found"})
	case errors.Is(err, service.ErrNotActive):
		return c.JSON(http.StatusNotFound, domain.ErrorResponse{Error: "simulation not found or inactive"})
	case errors.Is(err, service.ErrTransferBlocked):
		return c.JSON(http.StatusForbidden, domain.ErrorResponse{Error: "transfer blocked by routing policy"})
	default:
		return c.JSON(http.StatusInternalServerError, domain.ErrorResponse{Error: "internal error"})
	}
}
