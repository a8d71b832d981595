package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/music-manager/internal/apperr"
	"github.com/iliyamo/music-manager/internal/model"
)

// RequireRole enforces that the authenticated principal holds at least one
// of the given roles.  Roles are compared as typed values from the decoded
// scope claim, never by re-parsing strings in handlers.  It assumes
// JWTAuth ran earlier on the chain.
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := PrincipalFrom(c)
			if !ok {
				return apperr.ErrUnauthenticated
			}
			for _, r := range roles {
				if p.Roles.Has(r) {
					return next(c)
				}
			}
			return apperr.ErrForbidden
		}
	}
}
