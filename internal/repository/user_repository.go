package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/iliyamo/music-manager/internal/model"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts a user.  The caller supplies the id and password hash.
// Emails are stored exactly as given; only surrounding whitespace is
// stripped.
func (r *UserRepo) Create(ctx context.Context, u model.User) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (id, username, email, password_hash, roles, is_active) VALUES (?,?,?,?,?,?)",
		u.ID, u.Username, strings.TrimSpace(u.Email), u.PasswordHash, u.Roles.Encode(), u.IsActive)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrEmailExists
		}
		return err
	}
	return nil
}

// GetByEmail fetches a user by exact email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT id,username,email,password_hash,roles,is_active,created_at,updated_at FROM users WHERE email=? LIMIT 1",
		strings.TrimSpace(email)))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id string) (model.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT id,username,email,password_hash,roles,is_active,created_at,updated_at FROM users WHERE id=? LIMIT 1",
		id))
}

// ExistsByEmail reports whether any user already has the email.
func (r *UserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	var one int
	err := r.DB.QueryRowContext(ctx,
		"SELECT 1 FROM users WHERE email=? LIMIT 1", strings.TrimSpace(email)).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// UpdatePassword replaces the stored hash.
func (r *UserRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return r.exec(ctx, "UPDATE users SET password_hash=?, updated_at=NOW() WHERE id=?", passwordHash, id)
}

// UpdateUsername replaces the display name.
func (r *UserRepo) UpdateUsername(ctx context.Context, id, username string) error {
	return r.exec(ctx, "UPDATE users SET username=?, updated_at=NOW() WHERE id=?", username, id)
}

func (r *UserRepo) exec(ctx context.Context, query string, args ...any) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepo) scanOne(row *sql.Row) (model.User, error) {
	var (
		u         model.User
		roles     string
		updatedAt sql.NullTime
	)
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &roles, &u.IsActive, &u.CreatedAt, &updatedAt)
	if err == sql.ErrNoRows {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	u.Roles = model.DecodeRoles(roles)
	if updatedAt.Valid {
		u.UpdatedAt = updatedAt.Time
	} else {
		u.UpdatedAt = time.Time{}
	}
	return u, nil
}
