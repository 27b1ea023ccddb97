package model

import "time"

// UserModel is the users collection document.
type UserModel struct {
	ID               string     `bson:"_id"`
	Username         string     `bson:"username"`
	Name             string     `bson:"name"`
	PasswordHash     string     `bson:"password_hash"`
	Language         string     `bson:"language"`
	EmailVerified    bool       `bson:"email_verified"`
	PhoneVerified    bool       `bson:"phone_verified"`
	TFASendMethod    string     `bson:"tfa_send_method"`
	PhoneCiphertext  []byte     `bson:"phone_ciphertext,omitempty"`
	PhoneNonce       []byte     `bson:"phone_nonce,omitempty"`
	FailedLoginCount int        `bson:"failed_login_count"`
	TFACode          *string    `bson:"tfa_code,omitempty"`
	TFACodeExpiresAt *time.Time `bson:"tfa_code_expires_at,omitempty"`
	RefreshSessionID *string    `bson:"refresh_session_id,omitempty"`
	CreatedAt        time.Time  `bson:"created_at"`
	UpdatedAt        time.Time  `bson:"updated_at"`
}
