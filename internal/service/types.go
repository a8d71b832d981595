// Package service implements the application's domain operations on top of
// narrow store interfaces.  Handlers call services, services call stores;
// tokens never travel below this layer and principals never travel above
// the middleware that creates them.
package service

import (
	"context"
	"time"

	"github.com/iliyamo/music-manager/internal/model"
	"github.com/iliyamo/music-manager/internal/queue"
)

// UserStore is the credential store: persisted user records looked up by
// email or id.
type UserStore interface {
	Create(ctx context.Context, u model.User) error
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id string) (model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateUsername(ctx context.Context, id, username string) error
}

// TokenDenylist records revoked token identifiers until their original
// expiry.  Add reports whether this call created the entry; a false return
// means the jti was already denylisted.
type TokenDenylist interface {
	Add(ctx context.Context, jti string, expiresAt time.Time) (bool, error)
	Contains(ctx context.Context, jti string) (bool, error)
}

// OTPStore keeps at most one live code per user plus the verified marker
// bridging verify-otp and reset-password.
type OTPStore interface {
	Save(ctx context.Context, userID, code string, ttl time.Duration) error
	Consume(ctx context.Context, userID, code string) (bool, error)
	MarkVerified(ctx context.Context, userID, code string, ttl time.Duration) error
	ConsumeVerified(ctx context.Context, userID, code string) (bool, error)
}

// TempPasswordStore backs the secondary temporary-password recovery path.
type TempPasswordStore interface {
	Issue(ctx context.Context, email, password string, ttl time.Duration) error
	Consume(ctx context.Context, email, password string) (bool, error)
}

// MailPublisher enqueues outbound mail.  Publishing is fire-and-forget
// from the caller's perspective: failures are logged, never surfaced.
type MailPublisher interface {
	Publish(ctx context.Context, event queue.EmailEvent) error
}

// SongStore persists the song catalog.
type SongStore interface {
	Insert(ctx context.Context, s model.Song) error
	GetByID(ctx context.Context, id string) (model.Song, error)
	Update(ctx context.Context, s model.Song) error
	Delete(ctx context.Context, id string) error
	ListByOwner(ctx context.Context, ownerID string) ([]model.Song, error)
	SearchByName(ctx context.Context, ownerID, keyword string) ([]model.Song, error)
	PageByOwner(ctx context.Context, ownerID string, page, size int) ([]model.Song, int64, error)
}

// Profile is the user shape returned to clients.
type Profile struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
}

func profileOf(u model.User) Profile {
	return Profile{ID: u.ID, Username: u.Username, Email: u.Email, Roles: u.Roles.Names()}
}

// TokenPair is the login/refresh result.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	TokenType    string `json:"tokenType"`
	ExpiresIn    int64  `json:"expiresIn"`
}

// SongView is the song shape returned to clients.
type SongView struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Artist    string     `json:"artist"`
	Genre     string     `json:"genre"`
	FileURL   string     `json:"fileUrl"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

func songViewOf(s model.Song) SongView {
	v := SongView{
		ID:        s.ID,
		Name:      s.Name,
		Artist:    s.Artist,
		Genre:     s.Genre,
		FileURL:   s.FileURL,
		CreatedAt: s.CreatedAt,
	}
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		v.UpdatedAt = &t
	}
	return v
}

// PagedSongs carries one page of songs plus pagination metadata.
type PagedSongs struct {
	Content       []SongView `json:"content"`
	Page          int        `json:"page"`
	Size          int        `json:"size"`
	TotalElements int64      `json:"totalElements"`
	TotalPages    int        `json:"totalPages"`
	First         bool       `json:"first"`
	Last          bool       `json:"last"`
	HasNext       bool       `json:"hasNext"`
	HasPrevious   bool       `json:"hasPrevious"`
}
