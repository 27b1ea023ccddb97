package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wekeepgrowing/identity-server/internal/domain/entity"
	"github.com/wekeepgrowing/identity-server/internal/domain/repository"
	"github.com/wekeepgrowing/identity-server/internal/domain/service"
	apperrors "github.com/wekeepgrowing/identity-server/internal/errors"
	"github.com/wekeepgrowing/identity-server/internal/usecase/constants"
	"github.com/wekeepgrowing/identity-server/internal/usecase/dto"
	"github.com/wekeepgrowing/identity-server/internal/usecase/interfaces"
)

// CredentialVerifier is the slice of the credential service the sign-in
// flows depend on.
type CredentialVerifier interface {
	HashPassword(password string) (string, error)
	VerifyPassword(digest, password string) bool
	DecryptPhone(phone *entity.EncryptedPhone) (string, error)
}

// AuthConfig carries the sign-in tunables.
type AuthConfig struct {
	LockoutThreshold  int
	PasswordMinLength int
	AccessTTL         time.Duration
	RefreshTTL        time.Duration
	ChallengeTTL      time.Duration
	TFACodeTTL        time.Duration
	DefaultLanguage   string
}

type authUseCase struct {
	users      repository.UserRepository
	audits     repository.AuditLogRepository
	creds      CredentialVerifier
	tokens     *service.TokenService
	notifier   repository.AuthNotifier
	translator repository.Translator
	runner     *upsertRunner
	cfg        AuthConfig
	logger     *zap.Logger
}

// NewAuthUseCase wires the credential and session manager.
func NewAuthUseCase(
	users repository.UserRepository,
	audits repository.AuditLogRepository,
	txns repository.TransactionStore,
	creds CredentialVerifier,
	tokens *service.TokenService,
	notifier repository.AuthNotifier,
	translator repository.Translator,
	cfg AuthConfig,
	logger *zap.Logger,
) interfaces.AuthUseCase {
	return &authUseCase{
		users:      users,
		audits:     audits,
		creds:      creds,
		tokens:     tokens,
		notifier:   notifier,
		translator: translator,
		runner:     newUpsertRunner(txns, logger),
		cfg:        cfg,
		logger:     logger,
	}
}

// message localizes a user-facing error string to the caller's language.
func (u *authUseCase) message(key, language string) string {
	if language == "" {
		language = u.cfg.DefaultLanguage
	}
	if language == "" {
		language = constants.DefaultLanguage
	}
	return u.translator.Translate(key, language)
}

func (u *authUseCase) SignUp(ctx context.Context, params dto.SignUpParams) (*dto.AuthResult, error) {
	username := entity.NormalizeUsername(params.Username)
	if username == "" {
		return nil, apperrors.NewAppError(apperrors.ErrInvalidArgument, "username is required", nil)
	}
	if err := checkPasswordStrength(params.Password, u.cfg.PasswordMinLength); err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrInvalidArgument, err.Error(), nil)
	}
	if params.Password != params.ConfirmPassword {
		return nil, apperrors.NewAppError(apperrors.ErrInvalidArgument, "passwords do not match", nil)
	}

	existing, err := u.users.FindByUsername(ctx, username)
	if err != nil {
		apperrors.LogError(u.logger, err, "sign-up lookup failed", zap.String("username", username))
		return nil, apperrors.NewAppError(apperrors.ErrInternal, u.message("error.sign_up", params.Language), err)
	}
	if existing != nil {
		return nil, apperrors.NewAppError(apperrors.ErrConflict, "username is already in use", nil)
	}

	hash, err := u.creds.HashPassword(params.Password)
	if err != nil {
		apperrors.LogError(u.logger, err, "sign-up hash failed", zap.String("username", username))
		return nil, apperrors.NewAppError(apperrors.ErrInternal, u.message("error.sign_up", params.Language), err)
	}

	language := params.Language
	if language == "" {
		language = u.cfg.DefaultLanguage
	}

	user, err := entity.NewUser(username, params.Name, hash, language)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrInvalidArgument, err.Error(), nil)
	}
	user.ID = uuid.NewString()

	audit := entity.NewAuditLog(&user.ID, entity.AuditLogTypeUserRegistered, params.IP, params.UserAgent)

	err = u.runner.Run(ctx, "signUp", username,
		func(ctx context.Context) error { return u.users.Create(ctx, user) },
		func(ctx context.Context) error { return u.audits.Create(ctx, audit) },
	)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrInternal, u.message("error.sign_up", params.Language), err)
	}

	// Re-read to pick up store-generated fields.
	created, err := u.users.FindByUsername(ctx, username)
	if err != nil || created == nil {
		apperrors.LogError(u.logger, err, "sign-up re-read failed", zap.String("username", username))
		return nil, apperrors.NewAppError(apperrors.ErrInternal, u.message("error.sign_up", params.Language), err)
	}

	access, expiresAt, err := u.tokens.Issue(created.ID, service.TokenPurposeAccess, nil, u.cfg.AccessTTL)
	if err != nil {
		apperrors.LogError(u.logger, err, "sign-up token issue failed", zap.String("user_id", created.ID))
		return nil, apperrors.NewAppError(apperrors.ErrInternal, u.message("error.sign_up", params.Language), err)
	}

	return &dto.AuthResult{
		AccessToken: access,
		ExpiresAt:   expiresAt,
		User:        created.Public(),
	}, nil
}

func (u *authUseCase) SignIn(ctx context.Context, params dto.SignInParams) (*dto.SignInResult, error) {
	username := entity.NormalizeUsername(params.Username)

	user, err := u.users.FindByUsername(ctx, username)
	if err != nil {
		apperrors.LogError(u.logger, err, "sign-in lookup failed", zap.String("username", username))
		return nil, apperrors.NewAppError(apperrors.ErrInternal, u.message("error.sign_in", ""), err)
	}
	if user == nil {
		u.logger.Info("sign-in rejected",
			zap.String("username", username),
			zap.String("reason", "unknown user"))
		return nil, apperrors.NewAppError(apperrors.ErrInvalidCredentials, "invalid username or password", nil)
	}

	// Lockout is checked before the hash ever runs. A locked account must
	// not record further attempts or leak timing.
	if user.FailedLoginCount >= u.cfg.LockoutThreshold {
		u.logger.Warn("sign-in rejected",
			zap.String("user_id", user.ID),
			zap.String("reason", "account locked"),
			zap.Int("failed_attempts", user.FailedLoginCount))
		u.recordAudit(ctx, &user.ID, entity.AuditLogTypeLoginLocked, params.IP, params.UserAgent, nil)
		return nil, apperrors.NewAppError(apperrors.ErrTooManyAttempts, "too many failed attempts", nil)
	}

	if !u.creds.VerifyPassword(user.PasswordHash, params.Password) {
		// The store increments the counter itself so concurrent mismatches
		// each count; a read-modify-write here would lose increments.
		audit := entity.NewAuditLog(&user.ID, entity.AuditLogTypeLoginFailed, params.IP, params.UserAgent)

		var attempts int
		err = u.runner.Run(ctx, "signIn/recordFailure", user.ID,
			func(ctx context.Context) error {
				n, incErr := u.users.IncrementFailedLogins(ctx, user.ID)
				if incErr != nil {
					return incErr
				}
				attempts = n
				audit.AddContentField("failed_attempts", n)
				return nil
			},
			func(ctx context.Context) error { return u.audits.Create(ctx, audit) },
		)
		if err != nil {
			return nil, apperrors.NewAppError(apperrors.ErrInternal, u.message("error.sign_in", user.Language), err)
		}

		u.logger.Info("sign-in rejected",
			zap.String("user_id", user.ID),
			zap.String("reason", "password mismatch"),
			zap.Int("failed_attempts", attempts))
		return nil, apperrors.NewAppError(apperrors.ErrInvalidCredentials, "invalid username or password", nil)
	}

	method := user.ChallengeMethod()
	if method == entity.SendMethodNone {
		return u.completeSignIn(ctx, user, params)
	}
	return u.beginChallenge(ctx, user, method, params)
}

// completeSignIn finishes a sign-in that needs no challenge: the counter
// reset and the session rotation commit as one unit.
func (u *authUseCase) completeSignIn(ctx context.Context, user *entity.User, params dto.SignInParams) (*dto.SignInResult, error) {
	user.ResetFailedLogins()
	user.RotateRefreshSession(uuid.NewString())

	audit := entity.NewAuditLog(&user.ID, entity.AuditLogTypeLoginSuccess, params.IP, params.UserAgent)

	err := u.runner.Run(ctx, "signIn/complete", user.ID,
		func(ctx context.Context) error { return u.users.Update(ctx, user) },
		func(ctx context.Context) error { return u.audits.Create(ctx, audit) },
	)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrInternal, u.message("error.sign_in", user.Language), err)
	}

	auth, err := u.issueAuthResult(user)
	if err != nil {
		return nil, err
	}
	return &dto.SignInResult{Auth: auth}, nil
}

// beginChallenge stores a fresh code, hands back a challenge token and
// dispatches the code after the transaction has committed.
func (u *authUseCase) beginChallenge(ctx context.Context, user *entity.User, method entity.SendMethod, params dto.SignInParams) (*dto.SignInResult, error) {
	code, err := generateNumericCode(constants.TFACodeLength)
	if err != nil {
		apperrors.LogError(u.logger, err, "challenge code generation failed", zap.String("user_id", user.ID))
		return nil, apperrors.NewAppError(apperrors.ErrInternal, u.message("error.sign_in", user.Language), err)
	}

	user.ResetFailedLogins()
	user.SetTFACode(code, time.Now().Add(u.cfg.TFACodeTTL))

	audit := entity.NewAuditLog(&user.ID, entity.AuditLogTypeTFAChallenge, params.IP, params.UserAgent)
	audit.AddContentField("send_method", method.Wire())

	err = u.runner.Run(ctx, "signIn/challenge", user.ID,
		func(ctx context.Context) error { return u.users.Update(ctx, user) },
		func(ctx context.Context) error { return u.audits.Create(ctx, audit) },
	)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrInternal, u.message("error.sign_in", user.Language), err)
	}

	challengeToken, _, err := u.tokens.Issue(user.ID, service.TokenPurposeChallenge, nil, u.cfg.ChallengeTTL)
	if err != nil {
		apperrors.LogError(u.logger, err, "challenge token issue failed", zap.String("user_id", user.ID))
		return nil, apperrors.NewAppError(apperrors.ErrInternal, u.message("error.sign_in", user.Language), err)
	}

	u.dispatchChallenge(user, method, code)

	return &dto.SignInResult{
		TFARequired: true,
		Challenge: &dto.TFAChallenge{
			ChallengeToken: challengeToken,
			SendMethod:     method.Wire(),
		},
	}, nil
}

// dispatchChallenge fires the notification after commit. Delivery failures
// never fail the sign-in; the dispatcher owns its own retries and logging.
func (u *authUseCase) dispatchChallenge(user *entity.User, method entity.SendMethod, code string) {
	snapshot := *user
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		var err error
		switch method {
		case entity.SendMethodPhone:
			var phone string
			phone, err = u.creds.DecryptPhone(snapshot.Phone)
			if err == nil {
				err = u.notifier.SendAuthTextMsg(ctx, &snapshot, phone, code)
			}
		default:
			err = u.notifier.SendAuthEmail(ctx, &snapshot, code)
		}
		if err != nil {
			u.logger.Warn("challenge dispatch failed",
				zap.String("user_id", snapshot.ID),
				zap.String("send_method", method.Wire()),
				zap.Error(err))
		}
	}()
}

func (u *authUseCase) ConfirmTFA(ctx context.Context, challengeToken, code string, meta dto.RequestMeta) (*dto.AuthResult, error) {
	claims, err := u.tokens.VerifyPurpose(challengeToken, service.TokenPurposeChallenge)
	if err != nil {
		return nil, err
	}

	user, err := u.users.FindByID(ctx, claims.UserID)
	if err != nil {
		apperrors.LogError(u.logger, err, "challenge lookup failed", zap.String("user_id", claims.UserID))
		return nil, apperrors.NewAppError(apperrors.ErrInternal, u.message("error.sign_in", ""), err)
	}
	if user == nil {
		u.logger.Info("challenge rejected",
			zap.String("user_id", claims.UserID),
			zap.String("reason", "unknown user"))
		return nil, apperrors.NewAppError(apperrors.ErrInvalidCredentials, "invalid code", nil)
	}

	// Malformed codes never reach the comparison and never consume the
	// stored code.
	if !isWellFormedCode(code) {
		u.logger.Info("challenge rejected",
			zap.String("user_id", user.ID),
			zap.String("reason", "malformed code"),
			zap.Int("code_length", len(code)))
		return nil, apperrors.NewAppError(apperrors.ErrInvalidArgument, "code must be exactly 6 digits", nil)
	}

	if user.TFACode == nil || user.TFACodeExpiresAt == nil || time.Now().After(*user.TFACodeExpiresAt) {
		u.logger.Info("challenge rejected",
			zap.String("user_id", user.ID),
			zap.String("reason", "no active code"))
		return nil, apperrors.NewAppError(apperrors.ErrInvalidCredentials, "invalid code", nil)
	}

	if code != *user.TFACode {
		u.logger.Info("challenge rejected",
			zap.String("user_id", user.ID),
			zap.String("reason", "code mismatch"))
		u.recordAudit(ctx, &user.ID, entity.AuditLogTypeTFARejected, meta.IP, meta.UserAgent, nil)
		return nil, apperrors.NewAppError(apperrors.ErrInvalidCredentials, "invalid code", nil)
	}

	user.ClearTFACode()
	user.RotateRefreshSession(uuid.NewString())

	audit := entity.NewAuditLog(&user.ID, entity.AuditLogTypeTFAConfirmed, meta.IP, meta.UserAgent)

	err = u.runner.Run(ctx, "confirmTfa", user.ID,
		func(ctx context.Context) error { return u.users.Update(ctx, user) },
		func(ctx context.Context) error { return u.audits.Create(ctx, audit) },
	)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrInternal, u.message("error.sign_in", user.Language), err)
	}

	return u.issueAuthResult(user)
}

func (u *authUseCase) Refresh(ctx context.Context, refreshToken string, meta dto.RequestMeta) (*dto.AuthResult, error) {
	claims, err := u.tokens.VerifyPurpose(refreshToken, service.TokenPurposeRefresh)
	if err != nil {
		return nil, err
	}

	sid, ok := claims.Param(service.TokenParamSessionID)
	if !ok {
		u.logger.Info("refresh rejected",
			zap.String("user_id", claims.UserID),
			zap.String("reason", "missing session id"))
		return nil, apperrors.NewAppError(apperrors.ErrUnauthenticated, "invalid token", nil)
	}

	user, err := u.users.FindByID(ctx, claims.UserID)
	if err != nil {
		apperrors.LogError(u.logger, err, "refresh lookup failed", zap.String("user_id", claims.UserID))
		return nil, apperrors.NewAppError(apperrors.ErrInternal, "unable to refresh session", err)
	}
	if user == nil || user.RefreshSessionID == nil || *user.RefreshSessionID != sid {
		u.logger.Info("refresh rejected",
			zap.String("user_id", claims.UserID),
			zap.String("reason", "stale session"))
		u.recordAudit(ctx, &claims.UserID, entity.AuditLogTypeRefreshRejected, meta.IP, meta.UserAgent, nil)
		return nil, apperrors.NewAppError(apperrors.ErrUnauthenticated, "invalid token", nil)
	}

	// Rotation: every refresh invalidates the previous refresh token.
	user.RotateRefreshSession(uuid.NewString())

	audit := entity.NewAuditLog(&user.ID, entity.AuditLogTypeTokenRefreshed, meta.IP, meta.UserAgent)

	err = u.runner.Run(ctx, "refresh", user.ID,
		func(ctx context.Context) error { return u.users.Update(ctx, user) },
		func(ctx context.Context) error { return u.audits.Create(ctx, audit) },
	)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrInternal, "unable to refresh session", err)
	}

	return u.issueAuthResult(user)
}

func (u *authUseCase) SignOut(ctx context.Context, user *entity.User, meta dto.RequestMeta) error {
	// Tokens are stateless; sign-out only expires the client-held cookie
	// at the transport layer and records the event.
	u.recordAudit(ctx, &user.ID, entity.AuditLogTypeLogout, meta.IP, meta.UserAgent, nil)
	return nil
}

func (u *authUseCase) ResolveAccessToken(ctx context.Context, token string) (*entity.User, error) {
	claims, err := u.tokens.VerifyPurpose(token, service.TokenPurposeAccess)
	if err != nil {
		return nil, err
	}

	user, err := u.users.FindByID(ctx, claims.UserID)
	if err != nil {
		apperrors.LogError(u.logger, err, "access token resolution failed", zap.String("user_id", claims.UserID))
		return nil, apperrors.NewAppError(apperrors.ErrInternal, "unable to resolve session", err)
	}
	if user == nil {
		return nil, apperrors.NewAppError(apperrors.ErrUnauthenticated, "invalid token", nil)
	}

	return user, nil
}

// issueAuthResult signs the access and refresh pair for a user whose
// refresh session has just been rotated.
func (u *authUseCase) issueAuthResult(user *entity.User) (*dto.AuthResult, error) {
	access, expiresAt, err := u.tokens.Issue(user.ID, service.TokenPurposeAccess, nil, u.cfg.AccessTTL)
	if err != nil {
		apperrors.LogError(u.logger, err, "access token issue failed", zap.String("user_id", user.ID))
		return nil, apperrors.NewAppError(apperrors.ErrInternal, u.message("error.sign_in", user.Language), err)
	}

	params := map[string]string{}
	if user.RefreshSessionID != nil {
		params[service.TokenParamSessionID] = *user.RefreshSessionID
	}

	refresh, _, err := u.tokens.Issue(user.ID, service.TokenPurposeRefresh, params, u.cfg.RefreshTTL)
	if err != nil {
		apperrors.LogError(u.logger, err, "refresh token issue failed", zap.String("user_id", user.ID))
		return nil, apperrors.NewAppError(apperrors.ErrInternal, u.message("error.sign_in", user.Language), err)
	}

	return &dto.AuthResult{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    expiresAt,
		User:         user.Public(),
	}, nil
}

// recordAudit writes an audit entry outside any transaction. Failures are
// logged and swallowed; audit writes never fail the calling operation.
func (u *authUseCase) recordAudit(ctx context.Context, userID *string, logType entity.AuditLogType, ip, userAgent string, content map[string]interface{}) {
	audit := entity.NewAuditLog(userID, logType, ip, userAgent)
	for k, v := range content {
		audit.AddContentField(k, v)
	}
	if err := u.audits.Create(ctx, audit); err != nil {
		u.logger.Warn("audit write failed",
			zap.String("audit_type", string(logType)),
			zap.Error(err))
	}
}
