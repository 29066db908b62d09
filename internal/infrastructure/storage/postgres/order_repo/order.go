// Package order_repo provides the PostgreSQL implementation of order persistence.
package order_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"tabkeeper/internal/core/apperror"
	"tabkeeper/internal/domain/order"
	"tabkeeper/internal/infrastructure/storage/postgres"
)

const (
	ordersTable     = "orders"
	orderItemsTable = "order_items"
)

// OrderRepo implements order.Repository.
type OrderRepo struct {
	txm *postgres.TxManager
}

// Ensure compile-time interface compliance.
var _ order.Repository = (*OrderRepo)(nil)

// NewOrderRepo creates a new order repository.
func NewOrderRepo(txm *postgres.TxManager) *OrderRepo {
	return &OrderRepo{txm: txm}
}

// Builder returns a new squirrel builder with PostgreSQL placeholder format.
func (r *OrderRepo) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Insert writes the order header and fills in the server-assigned id and
// creation timestamp.
func (r *OrderRepo) Insert(ctx context.Context, o *order.Order) error {
	q := r.Builder().
		Insert(ordersTable).
		Columns("bill_no", "customer_name", "phone", "session", "total").
		Values(o.BillNo, o.CustomerName, o.Phone, o.Session, o.Total).
		Suffix("RETURNING id, created_at")

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, sql, args...).Scan(&o.ID, &o.CreatedAt); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	return nil
}

// InsertItems writes order lines as one multi-row insert, preserving the
// slice order for auditability.
func (r *OrderRepo) InsertItems(ctx context.Context, orderID int64, items []order.Item) error {
	if len(items) == 0 {
		return fmt.Errorf("no items to insert")
	}

	q := r.Builder().
		Insert(orderItemsTable).
		Columns("order_id", "item_id", "name_snapshot", "qty", "unit_price", "line_total")

	for _, item := range items {
		q = q.Values(orderID, item.ItemID, item.NameSnapshot, item.Qty, item.UnitPrice, item.LineTotal)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert items: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert items: %w", err)
	}

	return nil
}

// GetByBillNo retrieves an order header by bill number.
func (r *OrderRepo) GetByBillNo(ctx context.Context, billNo string) (*order.Order, error) {
	q := r.Builder().
		Select("id", "bill_no", "customer_name", "phone", "session", "total", "created_at").
		From(ordersTable).
		Where(squirrel.Eq{"bill_no": billNo})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var o order.Order
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &o, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("order", billNo)
		}
		return nil, fmt.Errorf("get by bill no: %w", err)
	}

	return &o, nil
}

// GetItems retrieves order lines in insertion order.
func (r *OrderRepo) GetItems(ctx context.Context, orderID int64) ([]order.Item, error) {
	q := r.Builder().
		Select("id", "order_id", "item_id", "name_snapshot", "qty", "unit_price", "line_total").
		From(orderItemsTable).
		Where(squirrel.Eq{"order_id": orderID}).
		OrderBy("id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []order.Item
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &items, sql, args...); err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}

	return items, nil
}
