package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/callcentersim/callsim/internal/domain"
)

// ProcessMessage submits a user message to an active simulation and returns
// the agent reply. Generator failures never surface here; the service
// substitutes a fixed apology and the endpoint still answers 200.
// POST /api/simulate/message
func (h *Handler) ProcessMessage(c echo.Context) error {
	var req domain.ProcessMessageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, domain.ErrorResponse{Error: "invalid request body"})
	}
	if req.SimulationID == "" || req.Message == "" {
		return c.JSON(http.StatusBadRequest, domain.ErrorResponse{Error: "simulation_id and message are required"})
	}

	reply, err := h.service.ProcessMessage(c.Request().Context(), req.SimulationID, req.Message)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, domain.ProcessMessageResponse{Response: reply})
}
