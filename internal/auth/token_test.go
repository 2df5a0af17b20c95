package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"infinite-experiment/calllist/internal/constants"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestVerify_RoundTrip(t *testing.T) {
	v := NewTokenVerifier(testSecret)
	token, err := v.Sign("user-1", "Pat", constants.RoleProducer, time.Hour)
	require.NoError(t, err)

	claims, err := v.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID())
	assert.Equal(t, "Pat", claims.Name())
	assert.True(t, claims.CanEdit())
	assert.False(t, claims.IsAdmin())
}

func TestVerify_Rejects(t *testing.T) {
	v := NewTokenVerifier(testSecret)

	expired, err := v.Sign("user-1", "Pat", constants.RoleAdmin, -time.Minute)
	require.NoError(t, err)
	_, err = v.Verify(expired)
	assert.True(t, errors.Is(err, ErrInvalidToken))

	other, err := NewTokenVerifier("another-secret-another-secret").Sign("user-1", "Pat", constants.RoleAdmin, time.Hour)
	require.NoError(t, err)
	_, err = v.Verify(other)
	assert.True(t, errors.Is(err, ErrInvalidToken))

	bogusRole, err := v.Sign("user-1", "Pat", constants.Role("root"), time.Hour)
	require.NoError(t, err)
	_, err = v.Verify(bogusRole)
	assert.True(t, errors.Is(err, ErrInvalidToken))

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "user-1", "role": "admin"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = v.Verify(unsigned)
	assert.Error(t, err)
}

func TestRequestContext(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, GetUserClaims(ctx))

	claims := &SessionClaims{RoleValue: constants.RoleViewer}
	claims.Subject = "u"
	ctx = SetUserClaims(ctx, claims)
	got := GetUserClaims(ctx)
	require.NotNil(t, got)
	assert.False(t, got.CanEdit())
}
