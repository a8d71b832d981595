package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-secret"

func fixedManager(t *testing.T, at time.Time) *Manager {
	t.Helper()
	m := NewManager(testSecret, 1, 24)
	m.Now = func() time.Time { return at }
	return m
}

// signRaw builds a token with arbitrary claims so verification edge cases
// can be exercised directly.
func signRaw(t *testing.T, method jwt.SigningMethod, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(method, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func TestIssueAndVerifyAccess(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	m := fixedManager(t, now)

	raw, err := m.Issue("alice@example.com", "user-1", "ADMIN USER", false)
	require.NoError(t, err)

	c, err := m.Verify(raw, false)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", c.Subject)
	assert.Equal(t, Issuer, c.Issuer)
	assert.Equal(t, "user-1", c.UserID)
	assert.Equal(t, TypeAccess, c.TokenType)
	assert.Equal(t, "ADMIN USER", c.Scope)
	assert.Equal(t, now.Unix(), c.IssuedAt.Unix())
	assert.Equal(t, now.Add(time.Hour).Unix(), c.ExpiresAt.Unix())

	_, err = uuid.Parse(c.ID)
	assert.NoError(t, err, "jti should be a UUID")
}

func TestIssueGeneratesUniqueIDs(t *testing.T) {
	m := fixedManager(t, time.Now())
	a, err := m.Issue("a@b.c", "u", "USER", false)
	require.NoError(t, err)
	b, err := m.Issue("a@b.c", "u", "USER", false)
	require.NoError(t, err)

	ca, err := m.Verify(a, false)
	require.NoError(t, err)
	cb, err := m.Verify(b, false)
	require.NoError(t, err)
	assert.NotEqual(t, ca.ID, cb.ID)
}

func TestVerifyWrongKey(t *testing.T) {
	now := time.Now()
	m := fixedManager(t, now)
	raw, err := m.Issue("a@b.c", "u", "USER", false)
	require.NoError(t, err)

	other := NewManager("a-different-secret", 1, 24)
	other.Now = func() time.Time { return now }
	_, err = other.Verify(raw, false)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestVerifyRejectsForeignAlgorithm(t *testing.T) {
	now := time.Now()
	m := fixedManager(t, now)

	// Same secret, but signed with HS256: the parser must refuse it even
	// though the signature itself would check out.
	raw := signRaw(t, jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "a@b.c", "iss": Issuer,
		"iat": now.Unix(), "exp": now.Add(time.Hour).Unix(),
		"jti": uuid.NewString(), "userId": "u",
		"token_type": TypeAccess, "scope": "USER",
	})
	_, err := m.Verify(raw, false)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestVerifyRejectsMissingJTI(t *testing.T) {
	now := time.Now()
	m := fixedManager(t, now)
	raw := signRaw(t, jwt.SigningMethodHS512, jwt.MapClaims{
		"sub": "a@b.c", "iss": Issuer,
		"iat": now.Unix(), "exp": now.Add(time.Hour).Unix(),
		"userId": "u", "token_type": TypeAccess, "scope": "USER",
	})
	_, err := m.Verify(raw, false)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestVerifyExpiredAccess(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	m := fixedManager(t, now)
	raw, err := m.Issue("a@b.c", "u", "USER", false)
	require.NoError(t, err)

	m.Now = func() time.Time { return now.Add(time.Hour + time.Second) }
	_, err = m.Verify(raw, false)
	assert.ErrorIs(t, err, ErrInvalid)

	// Just inside the window it still verifies.
	m.Now = func() time.Time { return now.Add(time.Hour - time.Second) }
	_, err = m.Verify(raw, false)
	assert.NoError(t, err)
}

func TestRefreshExpiryRecomputedFromIssueTime(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	m := fixedManager(t, now) // refresh window: 24h

	// A tampered short embedded exp must not shorten the refresh window:
	// refresh-class checks rebuild the deadline from iat plus policy.
	short := signRaw(t, jwt.SigningMethodHS512, jwt.MapClaims{
		"sub": "a@b.c", "iss": Issuer,
		"iat": now.Unix(), "exp": now.Add(time.Second).Unix(),
		"jti": uuid.NewString(), "userId": "u",
		"token_type": TypeRefresh, "scope": "USER",
	})
	m.Now = func() time.Time { return now.Add(time.Minute) }
	_, err := m.Verify(short, true)
	assert.NoError(t, err, "embedded exp must be ignored for refresh checks")

	// And a stretched embedded exp must not extend it either.
	long := signRaw(t, jwt.SigningMethodHS512, jwt.MapClaims{
		"sub": "a@b.c", "iss": Issuer,
		"iat": now.Add(-25 * time.Hour).Unix(), "exp": now.Add(240 * time.Hour).Unix(),
		"jti": uuid.NewString(), "userId": "u",
		"token_type": TypeRefresh, "scope": "USER",
	})
	m.Now = func() time.Time { return now }
	_, err = m.Verify(long, true)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestAccessExpiryUsesEmbeddedClaim(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	m := fixedManager(t, now)

	raw := signRaw(t, jwt.SigningMethodHS512, jwt.MapClaims{
		"sub": "a@b.c", "iss": Issuer,
		"iat": now.Add(-48 * time.Hour).Unix(), "exp": now.Add(time.Hour).Unix(),
		"jti": uuid.NewString(), "userId": "u",
		"token_type": TypeAccess, "scope": "USER",
	})
	// Old iat does not matter for access-class checks; only exp does.
	_, err := m.Verify(raw, false)
	assert.NoError(t, err)
}
