package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenTokenRoundTrip(t *testing.T) {
	a, err := New("secret", time.Minute, time.Hour)
	require.NoError(t, err)

	access, refresh, err := a.GenToken(42, RoleVendor)
	require.NoError(t, err)

	claims, err := a.ValidateToken(access)
	require.NoError(t, err)
	assert.Equal(t, 42, claims.UserId)
	assert.Equal(t, RoleVendor, claims.Role)

	_, err = a.ValidateToken(refresh)
	assert.Error(t, err, "refresh token must not pass as access token")

	claims, err = a.ValidateRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, 42, claims.UserId)
}

func TestValidateTokenRejectsForeignKey(t *testing.T) {
	a, err := New("secret", time.Minute, time.Hour)
	require.NoError(t, err)
	other, err := New("other", time.Minute, time.Hour)
	require.NoError(t, err)

	access, _, err := other.GenToken(1, RoleAdmin)
	require.NoError(t, err)

	_, err = a.ValidateToken(access)
	assert.Error(t, err)
}

func TestNewRequiresKey(t *testing.T) {
	_, err := New("", time.Minute, time.Hour)
	assert.Error(t, err)
}

func TestClaimsAuthorized(t *testing.T) {
	c := Claims{Role: RoleVendor}
	assert.True(t, c.Authorized(RoleAdmin, RoleVendor))
	assert.False(t, c.Authorized(RoleAdmin))
	assert.False(t, c.Authorized())
}

func TestGetClaims(t *testing.T) {
	_, ok := GetClaims(context.Background())
	assert.False(t, ok)

	ctx := context.WithValue(context.Background(), Key, Claims{UserId: 3})
	claims, ok := GetClaims(ctx)
	require.True(t, ok)
	assert.Equal(t, 3, claims.UserId)
}
