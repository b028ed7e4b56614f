package router

import (
	"github.com/labstack/echo/v4"

	"github.com/jeremyha1/cherry/internal/handler"
	"github.com/jeremyha1/cherry/internal/middleware"
	"github.com/jeremyha1/cherry/internal/model"
)

// RegisterHost registers HOST-scoped endpoints under /v1. All routes
// require a valid JWT and the HOST role. Hosts manage their listings
// and decide the requests filed against them.
func RegisterHost(e *echo.Echo, h *handler.HostHandler, r *handler.HostRequestHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleHost),
	)

	// ---- Listings ----
	g.POST("/listings", h.Create)
	g.PUT("/listings/:id", h.Update)
	g.PATCH("/listings/:id", h.Update)
	g.DELETE("/listings/:id", h.Delete)
	g.GET("/my-listings", h.MyListings)

	// ---- Request decisions ----
	g.PATCH("/requests/:id/status", r.Decide)
}
