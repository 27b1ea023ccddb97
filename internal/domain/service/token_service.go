package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/wekeepgrowing/identity-server/internal/errors"
)

// TokenPurpose restricts where a signed token may be presented.
type TokenPurpose string

const (
	TokenPurposeAccess    TokenPurpose = "access"
	TokenPurposeRefresh   TokenPurpose = "refresh"
	TokenPurposeChallenge TokenPurpose = "challenge"
	TokenPurposeVerify    TokenPurpose = "verify"
)

// Param keys carried inside token claims.
const (
	TokenParamSessionID = "sid"
	TokenParamUserKey   = "user_key"
)

// TokenClaims is the claim set for every token purpose. Purpose-specific
// values ride in Params so the codec stays uniform.
type TokenClaims struct {
	UserID  string            `json:"uid"`
	Purpose TokenPurpose      `json:"purpose"`
	Params  map[string]string `json:"params,omitempty"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies HS256 tokens.
type TokenService struct {
	secret []byte
	issuer string
}

func NewTokenService(secret, issuer string) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		issuer: issuer,
	}
}

// Issue signs a token for the given user, purpose and lifetime.
func (s *TokenService) Issue(userID string, purpose TokenPurpose, params map[string]string, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ttl)

	claims := TokenClaims{
		UserID:  userID,
		Purpose: purpose,
		Params:  params,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign %s token: %w", purpose, err)
	}

	return signed, expiresAt, nil
}

// Verify parses and validates a token. Malformed input, a bad signature and
// an expired token all collapse into the same unauthenticated error; the
// underlying cause stays wrapped for logging.
func (s *TokenService) Verify(token string) (*TokenClaims, error) {
	claims := &TokenClaims{}

	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrUnauthenticated, "invalid token", err)
	}
	if !parsed.Valid {
		return nil, apperrors.NewAppError(apperrors.ErrUnauthenticated, "invalid token", nil)
	}

	return claims, nil
}

// VerifyPurpose validates a token and additionally checks that it was issued
// for the expected purpose.
func (s *TokenService) VerifyPurpose(token string, purpose TokenPurpose) (*TokenClaims, error) {
	claims, err := s.Verify(token)
	if err != nil {
		return nil, err
	}
	if claims.Purpose != purpose {
		return nil, apperrors.NewAppError(apperrors.ErrUnauthenticated, "invalid token",
			fmt.Errorf("token purpose %q, want %q", claims.Purpose, purpose))
	}
	return claims, nil
}

// Param returns a purpose-specific claim parameter.
func (c *TokenClaims) Param(key string) (string, bool) {
	if c.Params == nil {
		return "", false
	}
	v, ok := c.Params[key]
	return v, ok
}
