package dto

import (
	"time"

	"github.com/wekeepgrowing/identity-server/internal/domain/entity"
)

// SignUpParams carries everything needed to register an account.
type SignUpParams struct {
	Name            string
	Username        string
	Password        string
	ConfirmPassword string
	Language        string
	IP              string
	UserAgent       string
}

// SignInParams carries a password sign-in attempt.
type SignInParams struct {
	Username  string
	Password  string
	IP        string
	UserAgent string
}

// AuthResult is a completed authentication: tokens plus the public user.
type AuthResult struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	User         entity.PublicUser
}

// TFAChallenge is the pending half of a two-step sign-in. The client must
// echo the challenge token back together with the delivered code.
type TFAChallenge struct {
	ChallengeToken string
	SendMethod     string
}

// SignInResult is either immediate authentication or a pending challenge,
// never both.
type SignInResult struct {
	TFARequired bool
	Challenge   *TFAChallenge
	Auth        *AuthResult
}

// RequestMeta identifies the caller for audit purposes.
type RequestMeta struct {
	IP        string
	UserAgent string
}
