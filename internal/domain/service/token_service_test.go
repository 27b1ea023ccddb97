package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wekeepgrowing/identity-server/internal/domain/service"
	apperrors "github.com/wekeepgrowing/identity-server/internal/errors"
)

func TestTokenService_RoundTrip(t *testing.T) {
	svc := service.NewTokenService("test-signing-secret", "identity-server")

	t.Run("payload survives issue and verify", func(t *testing.T) {
		params := map[string]string{"sid": "session-1"}
		token, expiresAt, err := svc.Issue("user-1", service.TokenPurposeRefresh, params, time.Hour)
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

		claims, err := svc.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, "user-1", claims.UserID)
		assert.Equal(t, service.TokenPurposeRefresh, claims.Purpose)

		sid, ok := claims.Param("sid")
		assert.True(t, ok)
		assert.Equal(t, "session-1", sid)
	})

	t.Run("expired token is invalid", func(t *testing.T) {
		token, _, err := svc.Issue("user-1", service.TokenPurposeAccess, nil, -time.Minute)
		require.NoError(t, err)

		_, err = svc.Verify(token)
		require.Error(t, err)
		assert.True(t, apperrors.HasCode(err, apperrors.ErrUnauthenticated))
	})

	t.Run("tampered signature is invalid", func(t *testing.T) {
		token, _, err := svc.Issue("user-1", service.TokenPurposeAccess, nil, time.Hour)
		require.NoError(t, err)

		tampered := token[:len(token)-2] + "xx"
		_, err = svc.Verify(tampered)
		assert.Error(t, err)
	})

	t.Run("token signed with another secret is invalid", func(t *testing.T) {
		other := service.NewTokenService("different-secret", "identity-server")
		token, _, err := other.Issue("user-1", service.TokenPurposeAccess, nil, time.Hour)
		require.NoError(t, err)

		_, err = svc.Verify(token)
		assert.Error(t, err)
	})

	t.Run("malformed token is invalid", func(t *testing.T) {
		_, err := svc.Verify("not-a-token")
		require.Error(t, err)
		assert.True(t, apperrors.HasCode(err, apperrors.ErrUnauthenticated))
	})
}

func TestTokenService_VerifyPurpose(t *testing.T) {
	svc := service.NewTokenService("test-signing-secret", "identity-server")

	t.Run("matching purpose passes", func(t *testing.T) {
		token, _, err := svc.Issue("user-1", service.TokenPurposeChallenge, nil, time.Hour)
		require.NoError(t, err)

		claims, err := svc.VerifyPurpose(token, service.TokenPurposeChallenge)
		require.NoError(t, err)
		assert.Equal(t, "user-1", claims.UserID)
	})

	t.Run("wrong purpose is rejected as invalid token", func(t *testing.T) {
		token, _, err := svc.Issue("user-1", service.TokenPurposeChallenge, nil, time.Hour)
		require.NoError(t, err)

		_, err = svc.VerifyPurpose(token, service.TokenPurposeAccess)
		require.Error(t, err)
		assert.True(t, apperrors.HasCode(err, apperrors.ErrUnauthenticated))
	})
}
