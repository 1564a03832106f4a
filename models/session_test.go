package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserRole(t *testing.T) {
	assert.Equal(t, RoleNGO, (&Session{Role: "NGO"}).UserRole())
	assert.Equal(t, RoleDonor, (&Session{Role: "ROLE_DONOR"}).UserRole())
	assert.Equal(t, RoleNGO, (&Session{CurrentUser: &CurrentUser{Role: "ngo"}}).UserRole())
	assert.Empty(t, (&Session{}).UserRole())
}
