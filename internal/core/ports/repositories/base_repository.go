package repositories

import (
	"context"
)

// TransactionManager runs units of work against the underlying store.
type TransactionManager interface {
	// WithinTx runs fn atomically. Repository calls made with the ctx passed to fn
	// participate in the same transaction; any error from fn rolls everything back.
	// Nested calls join the outer transaction.
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error

	// WithinSnapshot runs fn against a consistent read-only view of the store.
	WithinSnapshot(ctx context.Context, fn func(ctx context.Context) error) error
}
