package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/wekeepgrowing/identity-server/internal/domain/repository"
	"github.com/wekeepgrowing/identity-server/internal/infrastructure/db"
)

// TransactionStoreImpl opens document-store transactions backed by mongo
// sessions. Operations run inside Step receive a session-bound context, so
// repository writes made with it join the transaction.
type TransactionStoreImpl struct {
	client *mongo.Client
}

func NewTransactionStore(database *db.Database) repository.TransactionStore {
	return &TransactionStoreImpl{client: database.Client}
}

func (s *TransactionStoreImpl) Begin(ctx context.Context) (repository.Transaction, error) {
	session, err := s.client.StartSession()
	if err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}

	if err := session.StartTransaction(); err != nil {
		session.EndSession(ctx)
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}

	return &mongoTransaction{session: session}, nil
}

type mongoTransaction struct {
	session mongo.Session
}

func (t *mongoTransaction) Step(ctx context.Context, op repository.Operation) error {
	return mongo.WithSession(ctx, t.session, func(sc mongo.SessionContext) error {
		return op(sc)
	})
}

func (t *mongoTransaction) Commit(ctx context.Context) error {
	defer t.session.EndSession(ctx)
	return t.session.CommitTransaction(ctx)
}

func (t *mongoTransaction) Abort(ctx context.Context) error {
	defer t.session.EndSession(ctx)
	return t.session.AbortTransaction(ctx)
}
