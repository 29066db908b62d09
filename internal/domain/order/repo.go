package order

import (
	"context"
)

// Repository defines the interface for order persistence.
type Repository interface {
	// Insert writes the order header and fills in the server-assigned ID
	// and CreatedAt.
	Insert(ctx context.Context, o *Order) error

	// InsertItems writes order lines in the given slice order.
	InsertItems(ctx context.Context, orderID int64, items []Item) error

	// GetByBillNo retrieves a committed order header by bill number.
	GetByBillNo(ctx context.Context, billNo string) (*Order, error)

	// GetItems retrieves the lines of an order in insertion order.
	GetItems(ctx context.Context, orderID int64) ([]Item, error)
}
