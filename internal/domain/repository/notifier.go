package repository

import (
	"context"

	"github.com/wekeepgrowing/identity-server/internal/domain/entity"
)

// AuthNotifier delivers authentication messages to users. Delivery is
// fire-and-forget from the caller's perspective: implementations log their
// own failures and a failed delivery never fails the operation that
// requested it.
type AuthNotifier interface {
	// SendAuthEmail delivers a sign-in challenge code by email.
	SendAuthEmail(ctx context.Context, user *entity.User, code string) error

	// SendAuthTextMsg delivers a sign-in challenge code by text message.
	SendAuthTextMsg(ctx context.Context, user *entity.User, phone, code string) error

	// SendVerificationEmail delivers the account-verification link.
	SendVerificationEmail(ctx context.Context, user *entity.User, link string) error

	// SendTfaTextMsg delivers a phone-verification code by text message.
	SendTfaTextMsg(ctx context.Context, user *entity.User, phone, code string) error
}

// Translator localizes user-facing strings. It never affects control flow.
type Translator interface {
	Translate(key, locale string) string
}
