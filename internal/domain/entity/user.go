package entity

import (
	"errors"
	"strings"
	"time"
)

// SendMethod selects how a two-factor code is delivered to a user.
type SendMethod string

const (
	SendMethodNone  SendMethod = "none"
	SendMethodEmail SendMethod = "email"
	SendMethodPhone SendMethod = "phone"
)

// Wire returns the name a send method is reported under in API payloads.
// The phone method is presented as "text"; the persisted value stays "phone".
func (m SendMethod) Wire() string {
	if m == SendMethodPhone {
		return "text"
	}
	return string(m)
}

// EncryptedPhone is a phone number at rest: AES-GCM ciphertext plus the
// nonce it was sealed with. The plaintext number never touches storage.
type EncryptedPhone struct {
	Ciphertext []byte
	Nonce      []byte
}

// User is the identity domain entity.
type User struct {
	ID string
	// Username is the case-normalized email address used as the login
	// identifier. It is unique across the system.
	Username      string
	Name          string
	PasswordHash  string
	Language      string
	EmailVerified bool
	PhoneVerified bool
	TFASendMethod SendMethod
	Phone         *EncryptedPhone

	FailedLoginCount int

	TFACode          *string
	TFACodeExpiresAt *time.Time

	RefreshSessionID *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NormalizeUsername lowercases and trims a login identifier so lookups and
// uniqueness are case-insensitive.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// NewUser creates a user in the state sign-up leaves it in: nothing verified,
// no send method, zero failed attempts.
func NewUser(username, name, passwordHash, language string) (*User, error) {
	username = NormalizeUsername(username)
	if username == "" {
		return nil, errors.New("username is required")
	}
	if passwordHash == "" {
		return nil, errors.New("password hash is required")
	}
	if name == "" {
		name = username
	}

	now := time.Now()
	return &User{
		Username:         username,
		Name:             name,
		PasswordHash:     passwordHash,
		Language:         language,
		EmailVerified:    false,
		PhoneVerified:    false,
		TFASendMethod:    SendMethodNone,
		FailedLoginCount: 0,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// ResetFailedLogins clears the failure counter after a successful sign-in.
// Incrementing is not an entity operation: the failure counter is bumped
// atomically in the store.
func (u *User) ResetFailedLogins() {
	u.FailedLoginCount = 0
	u.UpdatedAt = time.Now()
}

// SetTFACode stores a pending challenge code with its expiry.
func (u *User) SetTFACode(code string, expiresAt time.Time) {
	u.TFACode = &code
	u.TFACodeExpiresAt = &expiresAt
	u.UpdatedAt = time.Now()
}

// ClearTFACode removes the pending challenge code.
func (u *User) ClearTFACode() {
	u.TFACode = nil
	u.TFACodeExpiresAt = nil
	u.UpdatedAt = time.Now()
}

// RotateRefreshSession installs a new refresh-session identifier,
// invalidating every previously issued refresh token.
func (u *User) RotateRefreshSession(sessionID string) {
	u.RefreshSessionID = &sessionID
	u.UpdatedAt = time.Now()
}

// MarkEmailVerified flips the email-verified flag. A user with no send
// method is promoted to email delivery at the same time.
func (u *User) MarkEmailVerified() {
	u.EmailVerified = true
	if u.TFASendMethod == SendMethodNone {
		u.TFASendMethod = SendMethodEmail
	}
	u.UpdatedAt = time.Now()
}

// MarkPhoneVerified flips the phone-verified flag and switches two-factor
// delivery to the phone.
func (u *User) MarkPhoneVerified() {
	u.PhoneVerified = true
	u.TFASendMethod = SendMethodPhone
	u.UpdatedAt = time.Now()
}

// SetPhone stores a new encrypted phone number. The number starts
// unverified and must be confirmed before it can carry challenges.
func (u *User) SetPhone(phone *EncryptedPhone) {
	u.Phone = phone
	u.PhoneVerified = false
	u.UpdatedAt = time.Now()
}

// RemovePhone drops the phone number. The send method always demotes:
// to email when the email address is verified, otherwise to none.
func (u *User) RemovePhone() {
	u.Phone = nil
	u.PhoneVerified = false
	if u.EmailVerified {
		u.TFASendMethod = SendMethodEmail
	} else {
		u.TFASendMethod = SendMethodNone
	}
	u.UpdatedAt = time.Now()
}

// ChallengeMethod returns the delivery method a sign-in challenge must use,
// enforcing the verification gates: phone delivery requires a verified
// phone on record, email delivery requires a verified email address.
func (u *User) ChallengeMethod() SendMethod {
	switch u.TFASendMethod {
	case SendMethodPhone:
		if u.PhoneVerified && u.Phone != nil {
			return SendMethodPhone
		}
	case SendMethodEmail:
		if u.EmailVerified {
			return SendMethodEmail
		}
	}
	return SendMethodNone
}

// PublicUser is the projection of a user that is safe to return to clients.
type PublicUser struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	Name          string `json:"name"`
	Language      string `json:"language"`
	EmailVerified bool   `json:"email_verified"`
	PhoneVerified bool   `json:"phone_verified"`
	TFASendMethod string `json:"tfa_send_method"`
	HasPhone      bool   `json:"has_phone"`
}

// Public returns the client-safe projection of the user.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:            u.ID,
		Username:      u.Username,
		Name:          u.Name,
		Language:      u.Language,
		EmailVerified: u.EmailVerified,
		PhoneVerified: u.PhoneVerified,
		TFASendMethod: u.TFASendMethod.Wire(),
		HasPhone:      u.Phone != nil,
	}
}
