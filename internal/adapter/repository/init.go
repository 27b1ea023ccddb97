package repository

import (
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/wekeepgrowing/identity-server/internal/config"
	"github.com/wekeepgrowing/identity-server/internal/domain/repository"
	"github.com/wekeepgrowing/identity-server/internal/i18n"
	"github.com/wekeepgrowing/identity-server/internal/infrastructure/db"
	"github.com/wekeepgrowing/identity-server/internal/infrastructure/mail"
	"github.com/wekeepgrowing/identity-server/internal/infrastructure/notify"
)

// Repositories bundles every storage and collaborator implementation.
type Repositories struct {
	User         repository.UserRepository
	Affiliation  repository.AffiliationRepository
	Claim        repository.ClaimRepository
	AuditLog     repository.AuditLogRepository
	Transactions repository.TransactionStore
	Notifier     repository.AuthNotifier
	Translator   repository.Translator
}

// NewRepositories wires every repository against the connected stores.
func NewRepositories(cfg *config.Config, database *db.Database, redisClient *redis.Client, logger *zap.Logger) *Repositories {
	translator := i18n.NewCatalog()

	mailClient := mail.NewSMTPClient(mail.SMTPConfig{
		Host:     cfg.Email.SMTPHost,
		Port:     cfg.Email.SMTPPort,
		Username: cfg.Email.SMTPUser,
		Password: cfg.Email.SMTPPass,
		From:     cfg.Email.SenderEmail,
	}, logger)

	return &Repositories{
		User:         NewUserRepository(database),
		Affiliation:  NewAffiliationRepository(database),
		Claim:        NewClaimRepository(database),
		AuditLog:     NewAuditLogRepository(database),
		Transactions: NewTransactionStore(database),
		Notifier:     notify.NewDispatcher(mailClient, redisClient, cfg.Redis.Channel, translator, logger),
		Translator:   translator,
	}
}
