package model

import "time"

// User mirrors the 'users' table.  Roles are persisted as a space-joined
// list of role names (the same encoding used for the JWT scope claim).
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Roles        RoleSet
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
