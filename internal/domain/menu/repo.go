package menu

import (
	"context"
)

// Repository defines the interface for menu catalog persistence.
type Repository interface {
	// ListAll returns every product ordered by name. No filtering, no
	// pagination; two reads with no catalog changes in between return
	// identical results.
	ListAll(ctx context.Context) ([]Product, error)
}
