package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wekeepgrowing/identity-server/internal/domain/repository"
)

type recordingTxnStore struct {
	beginErr  error
	commitErr error
	committed bool
	aborted   bool
}

func (s *recordingTxnStore) Begin(ctx context.Context) (repository.Transaction, error) {
	if s.beginErr != nil {
		return nil, s.beginErr
	}
	return &recordingTxn{store: s}, nil
}

type recordingTxn struct {
	store *recordingTxnStore
}

func (t *recordingTxn) Step(ctx context.Context, op repository.Operation) error {
	return op(ctx)
}

func (t *recordingTxn) Commit(ctx context.Context) error {
	if t.store.commitErr != nil {
		return t.store.commitErr
	}
	t.store.committed = true
	return nil
}

func (t *recordingTxn) Abort(ctx context.Context) error {
	t.store.aborted = true
	return nil
}

func TestUpsertRunner(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()

	t.Run("all steps run in order, then commit", func(t *testing.T) {
		store := &recordingTxnStore{}
		runner := newUpsertRunner(store, logger)

		var order []int
		err := runner.Run(ctx, "testOp", "user-1",
			func(ctx context.Context) error { order = append(order, 1); return nil },
			func(ctx context.Context) error { order = append(order, 2); return nil },
			func(ctx context.Context) error { order = append(order, 3); return nil },
		)

		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 3}, order)
		assert.True(t, store.committed)
		assert.False(t, store.aborted)
	})

	t.Run("step failure aborts and reports the failing index", func(t *testing.T) {
		store := &recordingTxnStore{}
		runner := newUpsertRunner(store, logger)

		stepFailure := errors.New("write refused")
		var thirdRan bool
		err := runner.Run(ctx, "testOp", "user-1",
			func(ctx context.Context) error { return nil },
			func(ctx context.Context) error { return stepFailure },
			func(ctx context.Context) error { thirdRan = true; return nil },
		)

		require.Error(t, err)
		var stepErr *StepError
		require.True(t, errors.As(err, &stepErr))
		assert.Equal(t, "testOp", stepErr.Op)
		assert.Equal(t, 1, stepErr.Index)
		assert.ErrorIs(t, err, stepFailure)

		assert.False(t, thirdRan)
		assert.True(t, store.aborted)
		assert.False(t, store.committed)
	})

	t.Run("commit failure is a distinguished commit error", func(t *testing.T) {
		commitFailure := errors.New("commit refused")
		store := &recordingTxnStore{commitErr: commitFailure}
		runner := newUpsertRunner(store, logger)

		err := runner.Run(ctx, "testOp", "user-1",
			func(ctx context.Context) error { return nil },
		)

		require.Error(t, err)
		var commitErr *CommitError
		require.True(t, errors.As(err, &commitErr))
		assert.Equal(t, "testOp", commitErr.Op)
		assert.ErrorIs(t, err, commitFailure)
	})

	t.Run("begin failure surfaces without running steps", func(t *testing.T) {
		store := &recordingTxnStore{beginErr: errors.New("no session")}
		runner := newUpsertRunner(store, logger)

		var ran bool
		err := runner.Run(ctx, "testOp", "user-1",
			func(ctx context.Context) error { ran = true; return nil },
		)

		require.Error(t, err)
		assert.False(t, ran)
	})
}
