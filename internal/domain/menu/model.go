// Package menu provides the menu catalog read model.
package menu

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is one menu catalog entry. Order items snapshot the product name at
// sale time, so later edits here never rewrite history.
type Product struct {
	ID        int64           `db:"id" json:"id"`
	Name      string          `db:"name" json:"name"`
	Price     decimal.Decimal `db:"price" json:"price"`
	Category  *string         `db:"category" json:"category,omitempty"`
	Available bool            `db:"available" json:"available"`
	CreatedAt time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time       `db:"updated_at" json:"updatedAt"`
}
