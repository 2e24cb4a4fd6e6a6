// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"attendance/internal/delivery/http/router/handler"
	"attendance/internal/delivery/websocket"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	HealthHandler     *handler.HealthHandler
	DisplayHandler    *handler.DisplayHandler
	GeofenceHandler   *handler.GeofenceHandler
	OfficeAreaHandler *handler.OfficeAreaHandler
	StreamHandler     *websocket.Handler
}

// router holds all the handlers that need to be registered.
type router struct {
	healthHandler     *handler.HealthHandler
	displayHandler    *handler.DisplayHandler
	geofenceHandler   *handler.GeofenceHandler
	officeAreaHandler *handler.OfficeAreaHandler
	streamHandler     *websocket.Handler
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		healthHandler:     params.HealthHandler,
		displayHandler:    params.DisplayHandler,
		geofenceHandler:   params.GeofenceHandler,
		officeAreaHandler: params.OfficeAreaHandler,
		streamHandler:     params.StreamHandler,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", r.healthHandler.HealthCheck)

	api := e.Group("/api")

	displayGroup := api.Group("/display")
	{
		displayGroup.GET("/state", r.displayHandler.GetState)
		displayGroup.POST("/start", r.displayHandler.Start)
		displayGroup.POST("/stop", r.displayHandler.Stop)
		displayGroup.GET("/qr.png", r.displayHandler.GetQRCodePNG)
		displayGroup.GET("/qr.txt", r.displayHandler.GetQRCodeText)
		displayGroup.GET("/ws", r.streamHandler.Stream)
	}

	geofenceGroup := api.Group("/geofence")
	{
		geofenceGroup.POST("/coverage", r.geofenceHandler.DeriveCoverage)
		geofenceGroup.POST("/markup", r.geofenceHandler.BuildMarkup)
		geofenceGroup.POST("/parse", r.geofenceHandler.ParseBoundary)
	}

	officeAreaGroup := api.Group("/office-areas")
	{
		officeAreaGroup.GET("", r.officeAreaHandler.ListAreas)
		officeAreaGroup.POST("", r.officeAreaHandler.CreateCircle)
		officeAreaGroup.POST("/import", r.officeAreaHandler.ImportBoundary)
		officeAreaGroup.PATCH("/:id", r.officeAreaHandler.UpdateArea)
		officeAreaGroup.DELETE("/:id", r.officeAreaHandler.DeactivateArea)
		officeAreaGroup.GET("/:id/boundary", r.officeAreaHandler.GetBoundary)
		officeAreaGroup.PUT("/:id/boundary", r.officeAreaHandler.UpdateBoundary)
	}
}
