package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/wekeepgrowing/identity-server/internal/domain/service"
)

func TestCredentialService_PasswordHashing(t *testing.T) {
	svc := service.NewCredentialService(bcrypt.MinCost, "test-secret")

	t.Run("hash then verify succeeds", func(t *testing.T) {
		digest, err := svc.HashPassword("Str0ng!password")
		require.NoError(t, err)
		assert.NotEqual(t, "Str0ng!password", digest)

		assert.True(t, svc.VerifyPassword(digest, "Str0ng!password"))
	})

	t.Run("mismatch returns false", func(t *testing.T) {
		digest, err := svc.HashPassword("Str0ng!password")
		require.NoError(t, err)

		assert.False(t, svc.VerifyPassword(digest, "wrong-password"))
	})

	t.Run("malformed digest returns false, not an error", func(t *testing.T) {
		assert.False(t, svc.VerifyPassword("not-a-bcrypt-digest", "anything"))
		assert.False(t, svc.VerifyPassword("", "anything"))
	})

	t.Run("two hashes of the same password differ", func(t *testing.T) {
		a, err := svc.HashPassword("Str0ng!password")
		require.NoError(t, err)
		b, err := svc.HashPassword("Str0ng!password")
		require.NoError(t, err)

		assert.NotEqual(t, a, b)
	})
}

func TestCredentialService_KeyedDigest(t *testing.T) {
	svc := service.NewCredentialService(bcrypt.MinCost, "test-secret")

	t.Run("deterministic for the same input", func(t *testing.T) {
		assert.Equal(t, svc.KeyedDigest("recovery-code"), svc.KeyedDigest("recovery-code"))
	})

	t.Run("different keys yield different digests", func(t *testing.T) {
		other := service.NewCredentialService(bcrypt.MinCost, "another-secret")
		assert.NotEqual(t, svc.KeyedDigest("recovery-code"), other.KeyedDigest("recovery-code"))
	})

	t.Run("equality check", func(t *testing.T) {
		stored := svc.KeyedDigest("recovery-code")
		assert.True(t, svc.KeyedDigestEqual("recovery-code", stored))
		assert.False(t, svc.KeyedDigestEqual("other-code", stored))
	})
}

func TestCredentialService_PhoneEncryption(t *testing.T) {
	svc := service.NewCredentialService(bcrypt.MinCost, "test-secret")

	t.Run("round trip", func(t *testing.T) {
		sealed, err := svc.EncryptPhone("+821012345678")
		require.NoError(t, err)
		require.NotNil(t, sealed)
		assert.NotEmpty(t, sealed.Ciphertext)
		assert.NotEmpty(t, sealed.Nonce)

		plain, err := svc.DecryptPhone(sealed)
		require.NoError(t, err)
		assert.Equal(t, "+821012345678", plain)
	})

	t.Run("fresh nonce per call", func(t *testing.T) {
		a, err := svc.EncryptPhone("+821012345678")
		require.NoError(t, err)
		b, err := svc.EncryptPhone("+821012345678")
		require.NoError(t, err)

		assert.NotEqual(t, a.Nonce, b.Nonce)
		assert.NotEqual(t, a.Ciphertext, b.Ciphertext)
	})

	t.Run("wrong key fails to decrypt", func(t *testing.T) {
		sealed, err := svc.EncryptPhone("+821012345678")
		require.NoError(t, err)

		other := service.NewCredentialService(bcrypt.MinCost, "another-secret")
		_, err = other.DecryptPhone(sealed)
		assert.Error(t, err)
	})

	t.Run("nil phone is an error", func(t *testing.T) {
		_, err := svc.DecryptPhone(nil)
		assert.Error(t, err)
	})
}
