// Package db provides database transaction management. Multi-step ledger and
// subscription mutations must commit atomically; the manager threads a gorm
// transaction through the context so repositories transparently join it.
package db

import (
	"context"

	"gorm.io/gorm"
)

// txKey is the context key for the active transaction.
type txKey struct{}

// TransactionManager runs functions inside database transactions.
type TransactionManager struct {
	db *gorm.DB
}

// NewTransactionManager creates a TransactionManager bound to db.
func NewTransactionManager(db *gorm.DB) *TransactionManager {
	return &TransactionManager{db: db}
}

// RunInTransaction executes fn inside a transaction. Any error from fn rolls
// the whole transaction back; a nil return commits it. Repositories called
// with the derived context operate on the same transaction.
func (tm *TransactionManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// InTransaction reports whether ctx carries a managed transaction.
func InTransaction(ctx context.Context) bool {
	_, ok := ctx.Value(txKey{}).(*gorm.DB)
	return ok
}

// GetTxFromContext returns the transaction carried by ctx, or defaultDB bound
// to ctx when no transaction is active.
func GetTxFromContext(ctx context.Context, defaultDB *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return defaultDB.WithContext(ctx)
}
