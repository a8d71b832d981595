package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleSetEncodeIsSorted(t *testing.T) {
	s := NewRoleSet(RoleUser, RoleAdmin)
	assert.Equal(t, "ADMIN USER", s.Encode())
	assert.Equal(t, []string{"ADMIN", "USER"}, s.Names())
}

func TestDecodeRolesRoundTrip(t *testing.T) {
	s := DecodeRoles("ADMIN USER")
	assert.True(t, s.Has(RoleAdmin))
	assert.True(t, s.Has(RoleUser))
	assert.Equal(t, "ADMIN USER", s.Encode())
}

func TestDecodeRolesEmpty(t *testing.T) {
	s := DecodeRoles("")
	assert.Empty(t, s)
	assert.Equal(t, "", s.Encode())
}

func TestDecodeRolesKeepsUnknownNames(t *testing.T) {
	s := DecodeRoles("USER SUPPORT")
	assert.True(t, s.Has(Role("SUPPORT")))
	assert.False(t, s.Has(RoleAdmin))
}
