package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"tabkeeper/internal/domain/order"
)

// CreateOrderRequest is an incoming order draft.
// Item order is significant and is preserved through persistence.
// Total is a pointer: a payload without a total must fail validation, not
// silently commit an order with total=0.
type CreateOrderRequest struct {
	CustomerName *string                  `json:"customer_name"`
	Phone        *string                  `json:"phone"`
	Session      *string                  `json:"session"`
	Total        *decimal.Decimal         `json:"total"`
	Items        []CreateOrderItemRequest `json:"items" binding:"required"`
}

// CreateOrderItemRequest is one requested order line.
type CreateOrderItemRequest struct {
	// ID references the menu item; optional for off-menu lines.
	ID    *int64          `json:"id"`
	Name  string          `json:"name"`
	Qty   int             `json:"qty"`
	Price decimal.Decimal `json:"price"`
	Total decimal.Decimal `json:"total"`
}

// ToDraft converts the request to a domain draft.
func (r *CreateOrderRequest) ToDraft() *order.Draft {
	items := make([]order.DraftItem, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, order.DraftItem{
			ItemID:    it.ID,
			Name:      it.Name,
			Qty:       it.Qty,
			UnitPrice: it.Price,
			LineTotal: it.Total,
		})
	}

	return &order.Draft{
		CustomerName: r.CustomerName,
		Phone:        r.Phone,
		Session:      r.Session,
		Total:        r.Total,
		Items:        items,
	}
}

// CreateOrderResponse acknowledges a committed order with its bill number.
type CreateOrderResponse struct {
	OK      bool   `json:"ok"`
	BillNo  string `json:"bill_no"`
	OrderID int64  `json:"order_id"`
}

// OrderResponse is a committed order read back with its lines.
type OrderResponse struct {
	ID           int64               `json:"id"`
	BillNo       string              `json:"bill_no"`
	CustomerName *string             `json:"customer_name,omitempty"`
	Phone        *string             `json:"phone,omitempty"`
	Session      *string             `json:"session,omitempty"`
	Total        decimal.Decimal     `json:"total"`
	CreatedAt    time.Time           `json:"created_at"`
	Items        []OrderItemResponse `json:"items"`
}

// OrderItemResponse is one committed order line.
type OrderItemResponse struct {
	ID        int64           `json:"id"`
	ItemID    *int64          `json:"item_id,omitempty"`
	Name      string          `json:"name"`
	Qty       int             `json:"qty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// FromOrder maps a domain order to the response shape.
func FromOrder(o *order.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItemResponse{
			ID:        it.ID,
			ItemID:    it.ItemID,
			Name:      it.NameSnapshot,
			Qty:       it.Qty,
			UnitPrice: it.UnitPrice,
			LineTotal: it.LineTotal,
		})
	}

	return OrderResponse{
		ID:           o.ID,
		BillNo:       o.BillNo,
		CustomerName: o.CustomerName,
		Phone:        o.Phone,
		Session:      o.Session,
		Total:        o.Total,
		CreatedAt:    o.CreatedAt,
		Items:        items,
	}
}
