package interfaces

import (
	"context"

	"github.com/wekeepgrowing/identity-server/internal/domain/entity"
	"github.com/wekeepgrowing/identity-server/internal/usecase/dto"
)

// AuthUseCase covers registration, sign-in and token lifecycle.
type AuthUseCase interface {
	// SignUp registers a new account and returns an access token for the
	// fresh user. No refresh token is issued before the first sign-in.
	SignUp(ctx context.Context, params dto.SignUpParams) (*dto.AuthResult, error)

	// SignIn runs a password sign-in. When the user has a usable two-factor
	// method the result is a pending challenge instead of tokens.
	SignIn(ctx context.Context, params dto.SignInParams) (*dto.SignInResult, error)

	// ConfirmTFA completes a pending challenge with the delivered code.
	ConfirmTFA(ctx context.Context, challengeToken, code string, meta dto.RequestMeta) (*dto.AuthResult, error)

	// Refresh rotates the refresh session and issues a new token pair.
	Refresh(ctx context.Context, refreshToken string, meta dto.RequestMeta) (*dto.AuthResult, error)

	// SignOut invalidates the user's refresh session.
	SignOut(ctx context.Context, user *entity.User, meta dto.RequestMeta) error

	// ResolveAccessToken validates an access token and loads its user.
	ResolveAccessToken(ctx context.Context, token string) (*entity.User, error)
}
