package repository

import "context"

// Operation is one storage write executed inside a transaction. The ctx it
// receives is bound to the running transaction; repository writes performed
// with it join the transaction.
type Operation func(ctx context.Context) error

// Transaction is one open storage transaction. Steps execute strictly in
// the order they are submitted; Commit is all-or-nothing. After Commit or
// Abort the transaction must not be used again.
type Transaction interface {
	Step(ctx context.Context, op Operation) error
	Commit(ctx context.Context) error
	Abort(ctx context.Context) error
}

// TransactionStore opens transactions against the document store.
type TransactionStore interface {
	Begin(ctx context.Context) (Transaction, error)
}
