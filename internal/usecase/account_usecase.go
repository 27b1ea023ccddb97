package usecase

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"time"

	"go.uber.org/zap"

	"github.com/wekeepgrowing/identity-server/internal/domain/entity"
	"github.com/wekeepgrowing/identity-server/internal/domain/repository"
	"github.com/wekeepgrowing/identity-server/internal/domain/service"
	apperrors "github.com/wekeepgrowing/identity-server/internal/errors"
	"github.com/wekeepgrowing/identity-server/internal/usecase/constants"
	"github.com/wekeepgrowing/identity-server/internal/usecase/dto"
	"github.com/wekeepgrowing/identity-server/internal/usecase/interfaces"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9]{8,15}$`)

// AccountConfig carries the verification tunables.
type AccountConfig struct {
	BaseURL         string
	VerificationTTL time.Duration
	TFACodeTTL      time.Duration
}

type accountUseCase struct {
	users    repository.UserRepository
	audits   repository.AuditLogRepository
	creds    *service.CredentialService
	tokens   *service.TokenService
	notifier repository.AuthNotifier
	runner   *upsertRunner
	cfg      AccountConfig
	logger   *zap.Logger
}

// NewAccountUseCase wires account and phone verification.
func NewAccountUseCase(
	users repository.UserRepository,
	audits repository.AuditLogRepository,
	txns repository.TransactionStore,
	creds *service.CredentialService,
	tokens *service.TokenService,
	notifier repository.AuthNotifier,
	cfg AccountConfig,
	logger *zap.Logger,
) interfaces.AccountUseCase {
	return &accountUseCase{
		users:    users,
		audits:   audits,
		creds:    creds,
		tokens:   tokens,
		notifier: notifier,
		runner:   newUpsertRunner(txns, logger),
		cfg:      cfg,
		logger:   logger,
	}
}

func (u *accountUseCase) VerifyAccount(ctx context.Context, user *entity.User, verifyToken string, meta dto.RequestMeta) error {
	claims, err := u.tokens.VerifyPurpose(verifyToken, service.TokenPurposeVerify)
	if err != nil {
		return apperrors.NewAppError(apperrors.ErrInvalidArgument, "unable to verify account", err)
	}

	userKey, ok := claims.Param(service.TokenParamUserKey)
	if !ok {
		u.logger.Info("account verification rejected",
			zap.String("user_id", user.ID),
			zap.String("reason", "missing user key parameter"))
		return apperrors.NewAppError(apperrors.ErrInvalidArgument, "unable to verify account", nil)
	}
	if userKey != user.ID {
		u.logger.Info("account verification rejected",
			zap.String("user_id", user.ID),
			zap.String("token_user_key", userKey),
			zap.String("reason", "no matching account"))
		return apperrors.NewAppError(apperrors.ErrInvalidArgument, "unable to verify account", nil)
	}

	// Verifying twice with a still-valid token is a no-op, not an error.
	if user.EmailVerified {
		return nil
	}

	user.MarkEmailVerified()

	audit := entity.NewAuditLog(&user.ID, entity.AuditLogTypeEmailVerified, meta.IP, meta.UserAgent)

	err = u.runner.Run(ctx, "verifyAccount", user.ID,
		func(ctx context.Context) error { return u.users.Update(ctx, user) },
		func(ctx context.Context) error { return u.audits.Create(ctx, audit) },
	)
	if err != nil {
		return apperrors.NewAppError(apperrors.ErrInternal, "unable to verify account", err)
	}

	return nil
}

func (u *accountUseCase) ResendVerification(ctx context.Context, user *entity.User, meta dto.RequestMeta) error {
	if user.EmailVerified {
		return apperrors.NewAppError(apperrors.ErrInvalidArgument, "account is already verified", nil)
	}

	params := map[string]string{service.TokenParamUserKey: user.ID}
	token, _, err := u.tokens.Issue(user.ID, service.TokenPurposeVerify, params, u.cfg.VerificationTTL)
	if err != nil {
		apperrors.LogError(u.logger, err, "verification token issue failed", zap.String("user_id", user.ID))
		return apperrors.NewAppError(apperrors.ErrInternal, "unable to send verification email", err)
	}

	link := fmt.Sprintf("%s/auth/verify?token=%s", u.cfg.BaseURL, url.QueryEscape(token))

	audit := entity.NewAuditLog(&user.ID, entity.AuditLogTypeVerificationSent, meta.IP, meta.UserAgent)
	if err := u.audits.Create(ctx, audit); err != nil {
		u.logger.Warn("audit write failed",
			zap.String("audit_type", string(entity.AuditLogTypeVerificationSent)),
			zap.Error(err))
	}

	u.dispatch(user, func(ctx context.Context, snapshot *entity.User) error {
		return u.notifier.SendVerificationEmail(ctx, snapshot, link)
	})

	return nil
}

func (u *accountUseCase) SetPhoneNumber(ctx context.Context, user *entity.User, phoneNumber string, meta dto.RequestMeta) error {
	if !phonePattern.MatchString(phoneNumber) {
		return apperrors.NewAppError(apperrors.ErrInvalidArgument, "invalid phone number", nil)
	}

	encrypted, err := u.creds.EncryptPhone(phoneNumber)
	if err != nil {
		apperrors.LogError(u.logger, err, "phone encryption failed", zap.String("user_id", user.ID))
		return apperrors.NewAppError(apperrors.ErrInternal, "unable to set phone number", err)
	}

	code, err := generateNumericCode(constants.TFACodeLength)
	if err != nil {
		apperrors.LogError(u.logger, err, "phone code generation failed", zap.String("user_id", user.ID))
		return apperrors.NewAppError(apperrors.ErrInternal, "unable to set phone number", err)
	}

	user.SetPhone(encrypted)
	user.SetTFACode(code, time.Now().Add(u.cfg.TFACodeTTL))

	audit := entity.NewAuditLog(&user.ID, entity.AuditLogTypePhoneSet, meta.IP, meta.UserAgent)

	err = u.runner.Run(ctx, "setPhoneNumber", user.ID,
		func(ctx context.Context) error { return u.users.Update(ctx, user) },
		func(ctx context.Context) error { return u.audits.Create(ctx, audit) },
	)
	if err != nil {
		return apperrors.NewAppError(apperrors.ErrInternal, "unable to set phone number", err)
	}

	u.dispatch(user, func(ctx context.Context, snapshot *entity.User) error {
		return u.notifier.SendTfaTextMsg(ctx, snapshot, phoneNumber, code)
	})

	return nil
}

func (u *accountUseCase) VerifyPhoneNumber(ctx context.Context, user *entity.User, code string, meta dto.RequestMeta) error {
	if user.Phone == nil {
		return apperrors.NewAppError(apperrors.ErrInvalidArgument, "no phone number on record", nil)
	}

	if !isWellFormedCode(code) {
		u.logger.Info("phone verification rejected",
			zap.String("user_id", user.ID),
			zap.String("reason", "malformed code"),
			zap.Int("code_length", len(code)))
		return apperrors.NewAppError(apperrors.ErrInvalidArgument, "code must be exactly 6 digits", nil)
	}

	if user.TFACode == nil || user.TFACodeExpiresAt == nil || time.Now().After(*user.TFACodeExpiresAt) {
		u.logger.Info("phone verification rejected",
			zap.String("user_id", user.ID),
			zap.String("reason", "no active code"))
		return apperrors.NewAppError(apperrors.ErrInvalidCredentials, "invalid code", nil)
	}

	if code != *user.TFACode {
		u.logger.Info("phone verification rejected",
			zap.String("user_id", user.ID),
			zap.String("reason", "code mismatch"))
		return apperrors.NewAppError(apperrors.ErrInvalidCredentials, "invalid code", nil)
	}

	user.ClearTFACode()
	user.MarkPhoneVerified()

	audit := entity.NewAuditLog(&user.ID, entity.AuditLogTypePhoneVerified, meta.IP, meta.UserAgent)

	err := u.runner.Run(ctx, "verifyPhoneNumber", user.ID,
		func(ctx context.Context) error { return u.users.Update(ctx, user) },
		func(ctx context.Context) error { return u.audits.Create(ctx, audit) },
	)
	if err != nil {
		return apperrors.NewAppError(apperrors.ErrInternal, "unable to verify phone number", err)
	}

	return nil
}

func (u *accountUseCase) RemovePhoneNumber(ctx context.Context, user *entity.User, meta dto.RequestMeta) error {
	user.RemovePhone()

	audit := entity.NewAuditLog(&user.ID, entity.AuditLogTypePhoneRemoved, meta.IP, meta.UserAgent)

	err := u.runner.Run(ctx, "removePhoneNumber", user.ID,
		func(ctx context.Context) error { return u.users.Update(ctx, user) },
		func(ctx context.Context) error { return u.audits.Create(ctx, audit) },
	)
	if err != nil {
		return apperrors.NewAppError(apperrors.ErrInternal, "unable to remove phone number", err)
	}

	return nil
}

// dispatch runs a notification after the surrounding write has committed.
// Delivery failures are logged and never propagated.
func (u *accountUseCase) dispatch(user *entity.User, send func(ctx context.Context, snapshot *entity.User) error) {
	snapshot := *user
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := send(ctx, &snapshot); err != nil {
			u.logger.Warn("notification dispatch failed",
				zap.String("user_id", snapshot.ID),
				zap.Error(err))
		}
	}()
}
