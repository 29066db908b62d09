package menu

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	products []Product
	err      error
	calls    int
}

func (r *fakeRepo) ListAll(ctx context.Context) ([]Product, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return r.products, nil
}

func TestList_IdempotentRead(t *testing.T) {
	repo := &fakeRepo{products: []Product{
		{ID: 2, Name: "Espresso", Price: decimal.NewFromInt(3)},
		{ID: 1, Name: "Tea", Price: decimal.NewFromInt(10)},
	}}
	svc := NewService(repo)

	first, err := svc.List(context.Background())
	require.NoError(t, err)
	second, err := svc.List(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 2, repo.calls)
}

func TestList_Error(t *testing.T) {
	repo := &fakeRepo{err: errors.New("connection refused")}
	svc := NewService(repo)

	_, err := svc.List(context.Background())
	assert.Error(t, err)
}
