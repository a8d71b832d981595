package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/music-manager/internal/handler"    // import the handlers that implement business logic
	"github.com/iliyamo/music-manager/internal/middleware" // import middleware for JWT authentication and role enforcement
	"github.com/iliyamo/music-manager/internal/model"
	"github.com/iliyamo/music-manager/internal/service"
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Map the GET request at path "/healthz" to the Health handler.  This
	// endpoint can be used by load balancers or monitoring systems to verify
	// that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies the
// necessary middleware.  Credential endpoints live under /auth and sit
// behind the token-bucket rate limiter; profile endpoints additionally
// require a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, auth *service.AuthService, limiter echo.MiddlewareFunc) {
	// Group for operations that establish or tear down a session.  None of
	// these require an existing token; the rate limiter keeps credential
	// stuffing and OTP brute force in check.
	g := e.Group("/auth", limiter)
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Refresh rotates the refresh token: the presented token is revoked and
	// a fresh pair is issued.
	g.POST("/refresh", a.Refresh)
	// Logout accepts the access token in the JSON body and revokes it.
	// Revoking an already-revoked token reports the usual invalid-token
	// error, same as any other verification failure.
	g.POST("/logout", a.Logout)

	// Password recovery: request an OTP by mail, optionally pre-verify it,
	// then set a new password.
	g.POST("/forgot-password", a.ForgotPassword)
	g.POST("/verify-otp", a.VerifyOtp)
	g.POST("/reset-password", a.ResetPassword)

	// Profile endpoints require a live, non-revoked access token.
	jwt := middleware.JWTAuth(auth)
	g.PUT("/profile/:id", a.UpdateProfile, jwt)
	g.GET("/me", a.Me, jwt)
}

// RegisterSongs registers the song catalog endpoints under /songs.  Every
// route requires a valid access token and the USER or ADMIN role.  Read
// endpoints that list songs go through the Redis response cache; its key
// strategy includes the caller's user id so entries never leak across
// accounts.
func RegisterSongs(e *echo.Echo, s *handler.SongHandler, auth *service.AuthService, cache echo.MiddlewareFunc) {
	g := e.Group(
		"/songs",
		middleware.JWTAuth(auth),
		middleware.RequireRole(model.RoleUser, model.RoleAdmin),
	)
	g.POST("", s.Upload)
	g.GET("/search", s.Search, cache)
	g.GET("/page", s.Page, cache)
	g.GET("/:id", s.Get)
	g.PUT("/:id", s.Update)
	g.DELETE("/:id", s.Delete)
	// Play streams the raw media; any authenticated user may play any song.
	g.GET("/:id/play", s.Play)
}
