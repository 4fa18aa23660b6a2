// Package http provides the HTTP server for the call simulator.
package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/callcentersim/callsim/internal/service"
	v1 "github.com/callcentersim/callsim/internal/transport/http/v1"
	"github.com/callcentersim/callsim/internal/transport/ws"
)

// NewServer creates and configures the API server. wsServer may be nil when
// live events are disabled.
func NewServer(svc *service.Service, wsServer *ws.Server) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Handlers
	v1Handler := v1.NewHandler(svc)
	v1Handler.RegisterRoutes(e)

	if wsServer != nil {
		e.GET("/ws", wsServer.HandleWebSocket)
	}

	return e
}
