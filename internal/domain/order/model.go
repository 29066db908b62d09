// Package order provides the order-taking domain: validation of incoming
// order drafts and the transactional write path that assigns bill numbers.
package order

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"tabkeeper/internal/core/apperror"
)

// Order represents one committed order. Immutable once committed; a committed
// order always has at least one item.
type Order struct {
	ID     int64  `db:"id" json:"id"`
	BillNo string `db:"bill_no" json:"billNo"`

	CustomerName *string `db:"customer_name" json:"customerName,omitempty"`
	Phone        *string `db:"phone" json:"phone,omitempty"`
	Session      *string `db:"session" json:"session,omitempty"`

	// Total is supplied by the caller and is not recomputed server-side.
	Total decimal.Decimal `db:"total" json:"total"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`

	// Table part: order lines, in submission order.
	Items []Item `db:"-" json:"items"`
}

// Item is one line of an order. It belongs to exactly one order and carries a
// snapshot of the menu item's name at sale time, immune to later menu edits.
type Item struct {
	ID      int64 `db:"id" json:"id"`
	OrderID int64 `db:"order_id" json:"orderId"`

	// ItemID references the source menu item, when the client sent one.
	ItemID *int64 `db:"item_id" json:"itemId,omitempty"`

	NameSnapshot string          `db:"name_snapshot" json:"nameSnapshot"`
	Qty          int             `db:"qty" json:"qty"`
	UnitPrice    decimal.Decimal `db:"unit_price" json:"unitPrice"`
	LineTotal    decimal.Decimal `db:"line_total" json:"lineTotal"`
}

// Draft is an incoming order before it is numbered and persisted.
// Total is a pointer so an absent total is distinguishable from an explicit
// zero; Validate rejects the former.
type Draft struct {
	CustomerName *string
	Phone        *string
	Session      *string
	Total        *decimal.Decimal
	Items        []DraftItem
}

// DraftItem is one requested line. LineTotal is trusted from the caller.
type DraftItem struct {
	ItemID    *int64
	Name      string
	Qty       int
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
}

// Receipt is the result of a successful order creation.
type Receipt struct {
	BillNo  string `json:"bill_no"`
	OrderID int64  `json:"order_id"`
}

// Validate rejects malformed drafts before any transaction begins.
func (d *Draft) Validate() error {
	if len(d.Items) == 0 {
		return apperror.NewValidation("at least one item is required").
			WithDetail("field", "items")
	}

	if d.Total == nil {
		return apperror.NewValidation("total is required").
			WithDetail("field", "total")
	}
	if d.Total.IsNegative() {
		return apperror.NewValidation("total must be non-negative").
			WithDetail("field", "total").
			WithDetail("value", d.Total.String())
	}

	for i, item := range d.Items {
		if strings.TrimSpace(item.Name) == "" {
			return apperror.NewValidation("item name is required").
				WithDetail("field", "items").
				WithDetail("index", i)
		}
		if item.Qty < 1 {
			return apperror.NewValidation("item qty must be at least 1").
				WithDetail("field", "items").
				WithDetail("index", i)
		}
		if item.UnitPrice.IsNegative() || item.LineTotal.IsNegative() {
			return apperror.NewValidation("item price must be non-negative").
				WithDetail("field", "items").
				WithDetail("index", i)
		}
	}

	return nil
}
