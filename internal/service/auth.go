package service

import (
	"context"
	"errors"

	"github.com/iliyamo/music-manager/internal/apperr"
	"github.com/iliyamo/music-manager/internal/repository"
	"github.com/iliyamo/music-manager/internal/token"
	"github.com/iliyamo/music-manager/internal/utils"
)

// AuthService is the auth engine: it issues, verifies, refreshes and
// revokes signed tokens.  Three independent revocation mechanisms apply on
// every verification — natural expiry, the fixed refresh window and the
// explicit denylist — and all report the same invalid-token error so a
// caller cannot tell a forged token from an expired or revoked one.
type AuthService struct {
	users    UserStore
	denylist TokenDenylist
	tokens   *token.Manager
}

func NewAuthService(users UserStore, denylist TokenDenylist, tokens *token.Manager) *AuthService {
	return &AuthService{users: users, denylist: denylist, tokens: tokens}
}

// Login checks the credentials and returns a fresh access+refresh pair.
func (s *AuthService) Login(ctx context.Context, email, password string) (TokenPair, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return TokenPair{}, apperr.ErrUserNotFound
		}
		return TokenPair{}, err
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return TokenPair{}, apperr.ErrInvalidCredentials
	}
	return s.issuePair(u.Email, u.ID, u.Roles.Encode())
}

// Refresh rotates a refresh token: the old token is denylisted before the
// new pair is minted, so a refresh token works exactly once.  The denylist
// write is conditional; losing the race to a concurrent refresh fails the
// same way a replay does.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	claims, err := s.Verify(ctx, refreshToken, true)
	if err != nil {
		return TokenPair{}, err
	}
	if claims.TokenType != token.TypeRefresh {
		return TokenPair{}, apperr.ErrInvalidToken
	}
	u, err := s.users.GetByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return TokenPair{}, apperr.ErrUserNotFound
		}
		return TokenPair{}, err
	}
	added, err := s.denylist.Add(ctx, claims.ID, claims.ExpiresAt)
	if err != nil {
		return TokenPair{}, err
	}
	if !added {
		return TokenPair{}, apperr.ErrInvalidToken
	}
	return s.issuePair(u.Email, u.ID, u.Roles.Encode())
}

// Logout revokes an access token by denylisting its jti until the token's
// own expiry.  A second logout with the same token fails verification
// (the jti is already denylisted) with the usual invalid-token error.
func (s *AuthService) Logout(ctx context.Context, accessToken string) error {
	claims, err := s.Verify(ctx, accessToken, false)
	if err != nil {
		return err
	}
	if _, err := s.denylist.Add(ctx, claims.ID, claims.ExpiresAt); err != nil {
		return err
	}
	return nil
}

// Verify validates a token end to end: parse, signature, expiry policy
// (refresh-class checks recompute the window from the issue time), then
// the denylist last.
func (s *AuthService) Verify(ctx context.Context, raw string, isRefresh bool) (token.Claims, error) {
	claims, err := s.tokens.Verify(raw, isRefresh)
	if err != nil {
		return token.Claims{}, apperr.ErrInvalidToken
	}
	denied, err := s.denylist.Contains(ctx, claims.ID)
	if err != nil {
		return token.Claims{}, err
	}
	if denied {
		return token.Claims{}, apperr.ErrInvalidToken
	}
	return claims, nil
}

func (s *AuthService) issuePair(email, userID, scope string) (TokenPair, error) {
	access, err := s.tokens.Issue(email, userID, scope, false)
	if err != nil {
		return TokenPair{}, apperr.ErrInvalidToken
	}
	refresh, err := s.tokens.Issue(email, userID, scope, true)
	if err != nil {
		return TokenPair{}, apperr.ErrInvalidToken
	}
	return TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.tokens.AccessTTL().Seconds()),
	}, nil
}
