package init

import (
	"go.uber.org/zap"

	adapterrepo "github.com/wekeepgrowing/identity-server/internal/adapter/repository"
	"github.com/wekeepgrowing/identity-server/internal/config"
	"github.com/wekeepgrowing/identity-server/internal/domain/service"
	"github.com/wekeepgrowing/identity-server/internal/usecase"
	"github.com/wekeepgrowing/identity-server/internal/usecase/interfaces"
)

// UseCases is the application use case container.
type UseCases struct {
	Auth    interfaces.AuthUseCase
	Account interfaces.AccountUseCase
	Policy  interfaces.PolicyUseCase
}

// NewUseCases builds the domain services and the use cases over them.
func NewUseCases(cfg *config.Config, repos *adapterrepo.Repositories, logger *zap.Logger) *UseCases {
	creds := service.NewCredentialService(cfg.Auth.HashCost, cfg.Auth.SecretKey)
	tokens := service.NewTokenService(cfg.JWT.Secret, cfg.Service.Name)

	auth := usecase.NewAuthUseCase(
		repos.User,
		repos.AuditLog,
		repos.Transactions,
		creds,
		tokens,
		repos.Notifier,
		repos.Translator,
		usecase.AuthConfig{
			LockoutThreshold:  cfg.Auth.LockoutThreshold,
			PasswordMinLength: cfg.Auth.PasswordMinLength,
			AccessTTL:         cfg.JWT.AccessTTL,
			RefreshTTL:        cfg.JWT.RefreshTTL,
			ChallengeTTL:      cfg.JWT.ChallengeTTL,
			TFACodeTTL:        cfg.Auth.TFACodeTTL,
			DefaultLanguage:   cfg.Service.DefaultLanguage,
		},
		logger,
	)

	account := usecase.NewAccountUseCase(
		repos.User,
		repos.AuditLog,
		repos.Transactions,
		creds,
		tokens,
		repos.Notifier,
		usecase.AccountConfig{
			BaseURL:         cfg.Service.BaseURL,
			VerificationTTL: cfg.JWT.VerificationTTL,
			TFACodeTTL:      cfg.Auth.TFACodeTTL,
		},
		logger,
	)

	policy := usecase.NewPolicyUseCase(repos.Affiliation, repos.Claim)

	return &UseCases{
		Auth:    auth,
		Account: account,
		Policy:  policy,
	}
}
