package model

import (
	"sort"
	"strings"
)

// Role names a capability group granted to a user.  Authorization checks
// compare typed roles instead of parsing raw claim strings; only the wire
// encoding (space-joined names in the JWT scope claim and the roles
// column) remains stringly typed.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// RoleSet is an unordered set of roles.
type RoleSet map[Role]struct{}

// NewRoleSet builds a set from the given roles.
func NewRoleSet(roles ...Role) RoleSet {
	s := make(RoleSet, len(roles))
	for _, r := range roles {
		s[r] = struct{}{}
	}
	return s
}

// Has reports whether the set contains the role.
func (s RoleSet) Has(r Role) bool {
	_, ok := s[r]
	return ok
}

// Names returns the role names sorted alphabetically so the encoding is
// stable across requests.
func (s RoleSet) Names() []string {
	out := make([]string, 0, len(s))
	for r := range s {
		out = append(out, string(r))
	}
	sort.Strings(out)
	return out
}

// Encode joins the role names with single spaces.  The result is stored in
// the users table and embedded in the JWT scope claim.
func (s RoleSet) Encode() string {
	return strings.Join(s.Names(), " ")
}

// DecodeRoles parses a space-joined role string back into a set.  Unknown
// names are kept as-is; an empty string yields an empty set.
func DecodeRoles(scope string) RoleSet {
	s := RoleSet{}
	for _, name := range strings.Fields(scope) {
		s[Role(name)] = struct{}{}
	}
	return s
}
