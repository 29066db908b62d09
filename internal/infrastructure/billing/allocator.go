// Package billing provides the PostgreSQL implementation of daily bill
// numbering. It implements core/billing.Allocator.
package billing

import (
	"context"
	"fmt"

	corebilling "tabkeeper/internal/core/billing"
	"tabkeeper/internal/infrastructure/storage/postgres"
)

// querierSource yields the querier bound to the current request: the active
// transaction when one is in context, the pool otherwise.
type querierSource interface {
	GetQuerier(ctx context.Context) postgres.Querier
}

// Allocator allocates bill counters from the bill_counters table.
//
// The insert-or-increment upsert is the sole correctness mechanism under
// concurrency; no application-level locking is used or needed. Executed
// through the transaction's querier, the increment commits and rolls back
// together with the order that consumed it.
type Allocator struct {
	src querierSource
}

// Ensure compile-time interface compliance.
var _ corebilling.Allocator = (*Allocator)(nil)

// New creates an allocator that follows the transaction manager's querier.
func New(txm *postgres.TxManager) *Allocator {
	return &Allocator{src: txm}
}

func newWithSource(src querierSource) *Allocator {
	return &Allocator{src: src}
}

// Allocate returns the next counter for dateKey via a single atomic upsert.
func (a *Allocator) Allocate(ctx context.Context, dateKey corebilling.DateKey) (int64, error) {
	querier := a.src.GetQuerier(ctx)

	var counter int64
	err := querier.QueryRow(ctx, `
        INSERT INTO bill_counters (date_key, counter)
        VALUES ($1, 1)
        ON CONFLICT (date_key) DO UPDATE SET counter = bill_counters.counter + 1
        RETURNING counter
	`, dateKey.Time()).Scan(&counter)
	if err != nil {
		return 0, fmt.Errorf("allocate bill counter: %w", err)
	}

	return counter, nil
}
