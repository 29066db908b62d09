// Package menu_repo provides the PostgreSQL implementation of the menu catalog.
package menu_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"tabkeeper/internal/domain/menu"
	"tabkeeper/internal/infrastructure/storage/postgres"
)

const productsTable = "products"

// MenuRepo implements menu.Repository.
type MenuRepo struct {
	txm *postgres.TxManager
}

// Ensure compile-time interface compliance.
var _ menu.Repository = (*MenuRepo)(nil)

// NewMenuRepo creates a new menu repository.
func NewMenuRepo(txm *postgres.TxManager) *MenuRepo {
	return &MenuRepo{txm: txm}
}

// Builder returns a new squirrel builder with PostgreSQL placeholder format.
func (r *MenuRepo) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// ListAll returns every product ordered by name.
func (r *MenuRepo) ListAll(ctx context.Context) ([]menu.Product, error) {
	q := r.Builder().
		Select("id", "name", "price", "category", "available", "created_at", "updated_at").
		From(productsTable).
		OrderBy("name")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var products []menu.Product
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &products, sql, args...); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	return products, nil
}
