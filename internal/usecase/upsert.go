package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/wekeepgrowing/identity-server/internal/domain/repository"
)

// StepError reports which persistence step of a grouped write failed before
// the group was aborted.
type StepError struct {
	Op    string
	Index int
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: step %d failed: %v", e.Op, e.Index, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// CommitError reports that every step applied but the commit itself failed.
type CommitError struct {
	Op  string
	Err error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("%s: commit failed: %v", e.Op, e.Err)
}

func (e *CommitError) Unwrap() error { return e.Err }

// upsertRunner executes grouped persistence steps atomically. Either every
// step commits or none do; failures are logged with the owning user key and
// operation name before the caller maps them to a generic response.
type upsertRunner struct {
	txns   repository.TransactionStore
	logger *zap.Logger
}

func newUpsertRunner(txns repository.TransactionStore, logger *zap.Logger) *upsertRunner {
	return &upsertRunner{txns: txns, logger: logger}
}

// Run begins a transaction, applies the steps in order and commits. On any
// step failure the transaction is aborted and a StepError is returned; a
// commit failure returns a CommitError.
func (r *upsertRunner) Run(ctx context.Context, op, userKey string, steps ...repository.Operation) error {
	txn, err := r.txns.Begin(ctx)
	if err != nil {
		r.logger.Error("failed to begin transaction",
			zap.String("operation", op),
			zap.String("user_key", userKey),
			zap.Error(err))
		return fmt.Errorf("%s: begin failed: %w", op, err)
	}

	for i, step := range steps {
		if err := txn.Step(ctx, step); err != nil {
			txn.Abort(ctx)
			stepErr := &StepError{Op: op, Index: i, Err: err}
			r.logger.Error("transaction step failed",
				zap.String("operation", op),
				zap.String("user_key", userKey),
				zap.Int("step", i),
				zap.Error(err))
			return stepErr
		}
	}

	if err := txn.Commit(ctx); err != nil {
		commitErr := &CommitError{Op: op, Err: err}
		r.logger.Error("transaction commit failed",
			zap.String("operation", op),
			zap.String("user_key", userKey),
			zap.Error(err))
		return commitErr
	}

	return nil
}
