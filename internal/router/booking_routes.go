package router

// This file registers the routes both sides of the marketplace
// share: filing and reviewing requests, the bookings dashboard with
// its chat threads, profile management and checkout.

import (
	"github.com/labstack/echo/v4"

	"github.com/jeremyha1/cherry/internal/handler"
	"github.com/jeremyha1/cherry/internal/middleware"
	"github.com/jeremyha1/cherry/internal/model"
)

// RegisterBookings registers the authenticated marketplace endpoints
// under /v1. Both roles use them: a host is the counterparty of
// every booking on their listings, and nothing stops a host from
// booking someone else's listing as a guest would.
func RegisterBookings(e *echo.Echo, g *handler.GuestHandler, b *handler.BookingHandler, p *handler.ProfileHandler, ck *handler.CheckoutHandler, jwtSecret string) {
	grp := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleHost, model.RoleGuest),
	)

	// ---- Requests ----
	grp.POST("/listings/:id/requests", g.Create)
	grp.GET("/requests/my", g.Mine)

	// ---- Bookings dashboard ----
	grp.GET("/bookings", b.List)
	grp.GET("/bookings/unread", b.UnreadTotal)
	grp.GET("/bookings/:id", b.Detail)
	grp.POST("/bookings/:id/messages", b.SendMessage)

	// ---- Profile ----
	grp.GET("/profile", p.GetMine)
	grp.PUT("/profile", p.UpdateMine)

	// ---- Checkout ----
	grp.POST("/checkout", ck.Create)
}
