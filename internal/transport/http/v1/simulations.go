package v1

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/callcentersim/callsim/internal/domain"
)

// StartSimulation starts a new call simulation.
// POST /api/simulate/start
func (h *Handler) StartSimulation(c echo.Context) error {
	simulationID, err := h.service.StartSimulation(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, domain.ErrorResponse{Error: "failed to start simulation"})
	}
	return c.JSON(http.StatusOK, domain.StartSimulationResponse{SimulationID: simulationID})
}

// EndSimulation ends an active call simulation.
// POST /api/simulate/end
func (h *Handler) EndSimulation(c echo.Context) error {
	var req domain.EndSimulationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, domain.ErrorResponse{Error: "invalid request body"})
	}
	if req.SimulationID == "" {
		return c.JSON(http.StatusBadRequest, domain.ErrorResponse{Error: "simulation_id is required"})
	}

	if err := h.service.EndSimulation(c.Request().Context(), req.SimulationID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, domain.StatusResponse{Status: "success"})
}

// GetSimulation returns the details of one simulation.
// GET /api/simulate/:simulation_id
func (h *Handler) GetSimulation(c echo.Context) error {
	details, err := h.service.GetSimulationDetails(c.Request().Context(), c.Param("simulation_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, details)
}

// TransferCall transfers a call to another agent.
// POST /api/simulate/:simulation_id/transfer
func (h *Handler) TransferCall(c echo.Context) error {
	var req domain.TransferCallRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, domain.ErrorResponse{Error: "invalid request body"})
	}
	if req.Agent == "" || req.Reason == "" {
		return c.JSON(http.StatusBadRequest, domain.ErrorResponse{Error: "agent and reason are required"})
	}

	if err := h.service.TransferCall(c.Request().Context(), c.Param("simulation_id"), req.Agent, req.Reason); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, domain.StatusResponse{Status: "success"})
}

// AddNote adds a note to a call.
// POST /api/simulate/:simulation_id/note
func (h *Handler) AddNote(c echo.Context) error {
	var req domain.AddNoteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, domain.ErrorResponse{Error: "invalid request body"})
	}
	if req.Note == "" {
		return c.JSON(http.StatusBadRequest, domain.ErrorResponse{Error: "note content is required"})
	}

	if err := h.service.AddNote(c.Request().Context(), c.Param("simulation_id"), req.Note); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, domain.StatusResponse{Status: "success"})
}

// AddTag adds a tag to a call.
// POST /api/simulate/:simulation_id/tag
func (h *Handler) AddTag(c echo.Context) error {
	var req domain.AddTagRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, domain.ErrorResponse{Error: "invalid request body"})
	}
	if req.Tag == "" {
		return c.JSON(http.StatusBadRequest, domain.ErrorResponse{Error: "tag is required"})
	}

	if err := h.service.AddTag(c.Request().Context(), c.Param("simulation_id"), req.Tag); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, domain.StatusResponse{Status: "success"})
}

// ListSimulations returns summaries of every simulation.
// GET /api/simulations
func (h *Handler) ListSimulations(c echo.Context) error {
	summaries, err := h.service.GetAllSimulations(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, domain.ErrorResponse{Error: "internal error"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"simulations": summaries,
	})
}

// GetCallMetrics returns the metric projection for one call.
// GET /api/simulations/:simulation_id/metrics
func (h *Handler) GetCallMetrics(c echo.Context) error {
	metrics, err := h.service.GetCallMetrics(c.Request().Context(), c.Param("simulation_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, metrics)
}

// GetDailyStats returns aggregates for the calls started on one day.
// GET /api/stats/daily?day=2024-07-01 (defaults to today, UTC)
func (h *Handler) GetDailyStats(c echo.Context) error {
	day := time.Now().UTC()
	if d := c.QueryParam("day"); d != "" {
		parsed, err := time.Parse("2006-01-02", d)
		if err != nil {
			return c.JSON(http.StatusBadRequest, domain.ErrorResponse{Error: "day must be YYYY-MM-DD"})
		}
		day = parsed
	}

	stats, err := h.service.GetDailyStats(c.Request().Context(), day)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, domain.ErrorResponse{Error: "internal error"})
	}
	return c.JSON(http.StatusOK, stats)
}
