package repository

import (
	"context"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/wekeepgrowing/identity-server/internal/domain/entity"
	"github.com/wekeepgrowing/identity-server/internal/domain/repository"
	"github.com/wekeepgrowing/identity-server/internal/infrastructure/db"
	"github.com/wekeepgrowing/identity-server/internal/infrastructure/db/model"
)

type AuditLogRepositoryImpl struct {
	col *mongo.Collection
}

func NewAuditLogRepository(database *db.Database) repository.AuditLogRepository {
	return &AuditLogRepositoryImpl{col: database.DB.Collection(db.CollectionAuditLogs)}
}

func toAuditLogModel(log *entity.AuditLog) *model.AuditLogModel {
	return &model.AuditLogModel{
		ID:        log.ID,
		UserID:    log.UserID,
		Type:      string(log.Type),
		Content:   log.Content,
		IP:        log.IP,
		UserAgent: log.UserAgent,
		Timestamp: log.Timestamp,
	}
}

func (r *AuditLogRepositoryImpl) Create(ctx context.Context, log *entity.AuditLog) error {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}

	_, err := r.col.InsertOne(ctx, toAuditLogModel(log))
	return err
}
