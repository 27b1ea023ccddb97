package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"

	"golang.org/x/crypto/bcrypt"

	"github.com/wekeepgrowing/identity-server/internal/domain/entity"
)

// CredentialService wraps the password hash, the keyed digest used for
// lower-sensitivity secrets, and the phone-number cipher. The bcrypt digest
// embeds its own per-call salt; no extra salt column is kept.
type CredentialService struct {
	cost int
	key  []byte
}

// NewCredentialService derives a fixed-length key from the configured secret
// and validates the hash cost, falling back to the bcrypt default.
func NewCredentialService(cost int, secretKey string) *CredentialService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}

	// SHA-256 gives a consistent 32-byte key regardless of secret length.
	sum := sha256.Sum256([]byte(secretKey))

	return &CredentialService{
		cost: cost,
		key:  sum[:],
	}
}

// HashPassword hashes a plaintext password.
func (s *CredentialService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether the plaintext matches the stored digest.
// A malformed digest is treated as a mismatch, never as an error.
func (s *CredentialService) VerifyPassword(digest, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}

// KeyedDigest returns the deterministic HMAC-SHA256 digest of a
// lower-sensitivity secret such as a recovery code.
func (s *CredentialService) KeyedDigest(value string) string {
	mac := hmac.New(sha256.New, s.key)
	mac.Write([]byte(value))
	return hex.EncodeToString(mac.Sum(nil))
}

// KeyedDigestEqual compares a candidate against a stored keyed digest in
// constant time.
func (s *CredentialService) KeyedDigestEqual(value, storedDigest string) bool {
	return hmac.Equal([]byte(s.KeyedDigest(value)), []byte(storedDigest))
}

// EncryptPhone seals a phone number with AES-256-GCM under a fresh nonce.
func (s *CredentialService) EncryptPhone(number string) (*entity.EncryptedPhone, error) {
	block, err := aes.NewCipher(s.key)
	if err != nil {
		return nil, fmt.Errorf("failed to build cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to build GCM: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	return &entity.EncryptedPhone{
		Ciphertext: gcm.Seal(nil, nonce, []byte(number), nil),
		Nonce:      nonce,
	}, nil
}

// DecryptPhone opens a sealed phone number.
func (s *CredentialService) DecryptPhone(phone *entity.EncryptedPhone) (string, error) {
	if phone == nil {
		return "", fmt.Errorf("no phone number on record")
	}

	block, err := aes.NewCipher(s.key)
	if err != nil {
		return "", fmt.Errorf("failed to build cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("failed to build GCM: %w", err)
	}

	if len(phone.Nonce) != gcm.NonceSize() {
		return "", fmt.Errorf("malformed phone nonce")
	}

	plaintext, err := gcm.Open(nil, phone.Nonce, phone.Ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt phone number: %w", err)
	}

	return string(plaintext), nil
}
