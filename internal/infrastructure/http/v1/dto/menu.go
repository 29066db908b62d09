package dto

import (
	"github.com/shopspring/decimal"

	"tabkeeper/internal/domain/menu"
)

// MenuItemResponse is one menu catalog entry.
type MenuItemResponse struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Category  *string         `json:"category,omitempty"`
	Available bool            `json:"available"`
}

// FromProducts maps catalog entries to the response shape.
func FromProducts(products []menu.Product) []MenuItemResponse {
	out := make([]MenuItemResponse, 0, len(products))
	for _, p := range products {
		out = append(out, MenuItemResponse{
			ID:        p.ID,
			Name:      p.Name,
			Price:     p.Price,
			Category:  p.Category,
			Available: p.Available,
		})
	}
	return out
}
