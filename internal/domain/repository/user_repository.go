package repository

import (
	"context"

	"github.com/wekeepgrowing/identity-server/internal/domain/entity"
)

// UserRepository persists users in the document store. Find methods return
// (nil, nil) when no document matches.
//
// Write methods honor a transaction context: when the passed ctx was produced
// by a Transaction step, the write joins that transaction.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*entity.User, error)
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
	Create(ctx context.Context, user *entity.User) error
	Update(ctx context.Context, user *entity.User) error

	// IncrementFailedLogins adds one to the consecutive failure counter in
	// the store itself and returns the new count. Concurrent calls must
	// each count; a read-modify-write through Update would lose increments.
	IncrementFailedLogins(ctx context.Context, id string) (int, error)
}
