package repository

import (
	"context"

	"github.com/wekeepgrowing/identity-server/internal/domain/entity"
)

// AuditLogRepository persists audit entries.
type AuditLogRepository interface {
	Create(ctx context.Context, log *entity.AuditLog) error
}
