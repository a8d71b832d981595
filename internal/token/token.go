// Package token implements the signed-token primitives of the auth engine:
// building the claim set, HS512 signing and the two-stage verification
// (signature, then expiry policy).  The denylist check lives one layer up
// in the auth service because it needs store access.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token type discriminator carried in the token_type claim.  Access and
// refresh tokens share shape and signing key and differ only in type and
// validity window.
const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

// Issuer is the fixed iss claim stamped on every token.
const Issuer = "music-manager"

// ErrInvalid covers every verification failure: parse errors, bad
// signatures and expired tokens all look the same to callers.
var ErrInvalid = errors.New("invalid token")

// Claims is the verified claim set handed back to the auth engine.
type Claims struct {
	Subject   string // user email
	Issuer    string
	IssuedAt  time.Time
	ExpiresAt time.Time // embedded exp claim as issued
	ID        string    // jti, the denylist key
	UserID    string
	TokenType string // TypeAccess or TypeRefresh
	Scope     string // space-joined role names
}

// Manager issues and verifies tokens with a shared symmetric key.
type Manager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration

	// Now is overridable in tests; nil means time.Now.
	Now func() time.Time
}

// NewManager builds a Manager.  TTLs are given in hours to match how the
// validity windows are configured and reported (expiresIn = hours * 3600).
func NewManager(secret string, accessHours, refreshHours int) *Manager {
	return &Manager{
		secret:     []byte(secret),
		accessTTL:  time.Duration(accessHours) * time.Hour,
		refreshTTL: time.Duration(refreshHours) * time.Hour,
	}
}

// AccessTTL returns the access token validity window.
func (m *Manager) AccessTTL() time.Duration { return m.accessTTL }

func (m *Manager) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

// Issue signs a token for the given identity.  The jti is a fresh random
// UUID; scope carries the user's role names joined by spaces.  Signing is
// the only effect: issuance writes nothing anywhere.
func (m *Manager) Issue(email, userID, scope string, refresh bool) (string, error) {
	now := m.now()
	ttl := m.accessTTL
	typ := TypeAccess
	if refresh {
		ttl = m.refreshTTL
		typ = TypeRefresh
	}
	claims := jwt.MapClaims{
		"sub":        email,
		"iss":        Issuer,
		"iat":        now.Unix(),
		"exp":        now.Add(ttl).Unix(),
		"jti":        uuid.NewString(),
		"userId":     userID,
		"token_type": typ,
		"scope":      scope,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(m.secret)
	if err != nil {
		return "", ErrInvalid
	}
	return signed, nil
}

// Verify parses the wire token, checks the HS512 signature and applies the
// expiry policy.  For a refresh-class check the expiry is recomputed as
// issue-time plus the refresh window, ignoring the embedded exp claim:
// the refresh lifetime is bounded by policy, never by a field an attacker
// could have influenced.  Access-class checks trust the embedded claim.
// Every failure is ErrInvalid.
func (m *Manager) Verify(raw string, refresh bool) (Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}),
		jwt.WithoutClaimsValidation(), // expiry is checked manually below
	)
	tok, err := parser.Parse(raw, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	})
	if err != nil || !tok.Valid {
		return Claims{}, ErrInvalid
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalid
	}

	c, err := fromMapClaims(mc)
	if err != nil {
		return Claims{}, ErrInvalid
	}

	expiry := c.ExpiresAt
	if refresh {
		expiry = c.IssuedAt.Add(m.refreshTTL)
	}
	if !expiry.After(m.now()) {
		return Claims{}, ErrInvalid
	}
	return c, nil
}

func fromMapClaims(mc jwt.MapClaims) (Claims, error) {
	iat, err := mc.GetIssuedAt()
	if err != nil || iat == nil {
		return Claims{}, ErrInvalid
	}
	exp, err := mc.GetExpirationTime()
	if err != nil || exp == nil {
		return Claims{}, ErrInvalid
	}
	sub, err := mc.GetSubject()
	if err != nil {
		return Claims{}, ErrInvalid
	}
	iss, err := mc.GetIssuer()
	if err != nil {
		return Claims{}, ErrInvalid
	}
	c := Claims{
		Subject:   sub,
		Issuer:    iss,
		IssuedAt:  iat.Time,
		ExpiresAt: exp.Time,
		ID:        str(mc, "jti"),
		UserID:    str(mc, "userId"),
		TokenType: str(mc, "token_type"),
		Scope:     str(mc, "scope"),
	}
	if c.ID == "" {
		return Claims{}, ErrInvalid
	}
	return c, nil
}

func str(mc jwt.MapClaims, key string) string {
	if v, ok := mc[key].(string); ok {
		return v
	}
	return ""
}
