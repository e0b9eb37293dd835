package models

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "contesthub/pkg/domain"
	dErrors "contesthub/pkg/domain-errors"
)

func TestNewAccountDefaultsToUserRole(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	a, err := NewAccount("a@x.com", " Ada ", "", now)
	require.NoError(t, err)
	assert.Equal(t, id.RoleUser, a.Role)
	assert.Equal(t, "Ada", a.Name)
	assert.Equal(t, now, a.CreatedAt)
	assert.Equal(t, now, a.LastLoginAt)
	assert.Zero(t, a.TotalParticipated)
	assert.True(t, a.HasRole(id.RoleUser, id.RoleAdmin))
	assert.False(t, a.HasRole(id.RoleCreator))
}

func TestProfileUpdateValidate(t *testing.T) {
	t.Run("rejects empty update", func(t *testing.T) {
		u := ProfileUpdate{}
		assert.True(t, dErrors.HasCode(u.Validate(), dErrors.CodeValidation))
	})

	t.Run("rejects blank name", func(t *testing.T) {
		blank := "   "
		u := ProfileUpdate{Name: &blank}
		assert.True(t, dErrors.HasCode(u.Validate(), dErrors.CodeValidation))
	})

	t.Run("rejects oversized field", func(t *testing.T) {
		long := strings.Repeat("b", maxProfileField+1)
		u := ProfileUpdate{Bio: &long}
		assert.Error(t, u.Validate())
	})

	t.Run("trims and applies", func(t *testing.T) {
		bio, addr := "  painter ", " Dhaka "
		u := ProfileUpdate{Bio: &bio, Address: &addr}
		require.NoError(t, u.Validate())
		a := &Account{Name: "Ada"}
		u.Apply(a)
		assert.Equal(t, "painter", a.Bio)
		assert.Equal(t, "Dhaka", a.Address)
		assert.Equal(t, "Ada", a.Name)
	})
}
