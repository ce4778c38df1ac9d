package usecases

import "context"

// TransactionRunner runs a function inside a database transaction.
// Satisfied by db.TransactionManager; faked in tests.
type TransactionRunner interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
