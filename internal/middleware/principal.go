package middleware

// principal.go defines the authenticated identity extracted from a
// verified access token plus the helpers other middleware and handlers use
// to read it.  Resource logic downstream only ever sees this struct; it
// performs no token handling itself.

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/music-manager/internal/model"
	"github.com/iliyamo/music-manager/internal/token"
)

const principalKey = "principal"

// Principal is the trusted identity of the current request.
type Principal struct {
	UserID string
	Email  string
	Roles  model.RoleSet
}

func principalFromClaims(c token.Claims) Principal {
	return Principal{
		UserID: c.UserID,
		Email:  c.Subject,
		Roles:  model.DecodeRoles(c.Scope),
	}
}

func setPrincipal(c echo.Context, p Principal) {
	c.Set(principalKey, p)
}

// PrincipalFrom returns the authenticated principal, if any.
func PrincipalFrom(c echo.Context) (Principal, bool) {
	p, ok := c.Get(principalKey).(Principal)
	return p, ok
}

// currentUserID identifies the requester for rate-limit keys; anonymous
// requests all share the "anon" bucket dimension.
func currentUserID(c echo.Context) string {
	if p, ok := PrincipalFrom(c); ok && p.UserID != "" {
		return p.UserID
	}
	return "anon"
}
