package interfaces

import (
	"context"

	"github.com/wekeepgrowing/identity-server/internal/domain/entity"
	"github.com/wekeepgrowing/identity-server/internal/usecase/dto"
)

// AccountUseCase covers verification and phone-number management for an
// already-authenticated user.
type AccountUseCase interface {
	// VerifyAccount consumes a verification token and marks the caller's
	// email verified. Verifying an already-verified account succeeds.
	VerifyAccount(ctx context.Context, user *entity.User, verifyToken string, meta dto.RequestMeta) error

	// ResendVerification issues a fresh verification token and mails it.
	ResendVerification(ctx context.Context, user *entity.User, meta dto.RequestMeta) error

	// SetPhoneNumber stores a new phone number unverified and sends the
	// confirmation code to it.
	SetPhoneNumber(ctx context.Context, user *entity.User, phoneNumber string, meta dto.RequestMeta) error

	// VerifyPhoneNumber confirms the pending phone number with the code
	// that was texted to it.
	VerifyPhoneNumber(ctx context.Context, user *entity.User, code string, meta dto.RequestMeta) error

	// RemovePhoneNumber drops the phone number and demotes the two-factor
	// send method.
	RemovePhoneNumber(ctx context.Context, user *entity.User, meta dto.RequestMeta) error
}
