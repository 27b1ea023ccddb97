package usecase

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"unicode"

	"github.com/wekeepgrowing/identity-server/internal/usecase/constants"
)

// generateNumericCode returns a random code of exactly n digits, left-padded
// with zeros.
func generateNumericCode(n int) (string, error) {
	max := big.NewInt(1)
	for i := 0; i < n; i++ {
		max.Mul(max, big.NewInt(10))
	}

	v, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}

	return fmt.Sprintf("%0*d", n, v), nil
}

// isWellFormedCode reports whether a submitted challenge code is exactly the
// expected digit count. Malformed codes are rejected before any comparison
// with the stored code.
func isWellFormedCode(code string) bool {
	if len(code) != constants.TFACodeLength {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// checkPasswordStrength enforces the sign-up password policy: minimum
// length plus at least three of the four character classes.
func checkPasswordStrength(password string, minLength int) error {
	if len(password) < minLength {
		return fmt.Errorf("password must be at least %d characters", minLength)
	}

	var lower, upper, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		default:
			symbol = true
		}
	}

	classes := 0
	for _, ok := range []bool{lower, upper, digit, symbol} {
		if ok {
			classes++
		}
	}
	if classes < 3 {
		return fmt.Errorf("password must mix at least three of: lowercase, uppercase, digits, symbols")
	}

	return nil
}
