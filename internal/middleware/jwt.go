package middleware // middleware provides shared request processing for handlers

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/music-manager/internal/apperr"
	"github.com/iliyamo/music-manager/internal/service"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token
// through the auth engine's full verification (signature, expiry and
// denylist) and injects the verified principal into the request context.
// Handlers behind this middleware never see tokens, only the principal.
func JWTAuth(auth *service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return apperr.ErrUnauthenticated
			}
			raw := strings.TrimPrefix(header, "Bearer ")

			claims, err := auth.Verify(c.Request().Context(), raw, false)
			if err != nil {
				return apperr.ErrUnauthenticated
			}
			setPrincipal(c, principalFromClaims(claims))
			return next(c)
		}
	}
}
