// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/jeremyha1/cherry/internal/handler"
	"github.com/jeremyha1/cherry/internal/middleware"
	"github.com/jeremyha1/cherry/internal/model"
)

// RegisterRoutes registers routes that do not require authentication
// on the provided Echo instance. Currently only the health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes.
// Unauthenticated operations live under /v1/auth, while protected
// endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Rotates the refresh token.
	g.POST("/refresh", a.Refresh)
	// New access token without rotating the refresh token.
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout by refresh token does not need a JWT.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole(model.RoleHost, model.RoleGuest))
	auth.GET("/me", a.Me)
	// With a bearer token and no body, revokes every session.
	auth.POST("/logout", a.Logout)
}

// RegisterPublic registers the unauthenticated browse endpoints:
// listing search, listing detail and public user profiles. cache,
// when non-nil, wraps the search and detail routes with the Redis
// response cache.
func RegisterPublic(e *echo.Echo, b *handler.BrowseHandler, p *handler.ProfileHandler, cache echo.MiddlewareFunc) {
	mws := []echo.MiddlewareFunc{}
	if cache != nil {
		mws = append(mws, cache)
	}
	e.GET("/v1/listings", b.Search, mws...)
	e.GET("/v1/listings/:id", b.Get, mws...)
	e.GET("/v1/users/:id", p.GetPublic, mws...)
}
