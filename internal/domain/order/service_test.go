package order

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabkeeper/internal/core/apperror"
	"tabkeeper/internal/core/billing"
)

// passthroughTxManager runs fn directly and reports whether it was entered.
// On error it drops the repo's writes, mimicking a rollback.
type passthroughTxManager struct {
	repo    *fakeRepo
	entered bool
}

func (m *passthroughTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.entered = true
	if err := fn(ctx); err != nil {
		if m.repo != nil {
			m.repo.discard()
		}
		return err
	}
	return nil
}

func (m *passthroughTxManager) ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeRepo struct {
	mu         sync.Mutex
	nextID     int64
	orders     []*Order
	items      map[int64][]Item
	insertErr  error
	itemsErr   error
	itemsAfter int // fail after this many item batches succeed (0 = fail first)
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: make(map[int64][]Item)}
}

func (r *fakeRepo) Insert(ctx context.Context, o *Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		return r.insertErr
	}
	r.nextID++
	o.ID = r.nextID
	o.CreatedAt = time.Now()
	r.orders = append(r.orders, o)
	return nil
}

func (r *fakeRepo) InsertItems(ctx context.Context, orderID int64, items []Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.itemsErr != nil {
		return r.itemsErr
	}
	r.items[orderID] = items
	return nil
}

func (r *fakeRepo) GetByBillNo(ctx context.Context, billNo string) (*Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.BillNo == billNo {
			return o, nil
		}
	}
	return nil, apperror.NewNotFound("order", billNo)
}

func (r *fakeRepo) GetItems(ctx context.Context, orderID int64) ([]Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.items[orderID], nil
}

func (r *fakeRepo) discard() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders = nil
	r.items = make(map[int64][]Item)
}

type countingAudit struct {
	mu    sync.Mutex
	calls int
}

func (a *countingAudit) RecordOrderCreated(ctx context.Context, o *Order) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls++
	return nil
}

func TestCreate_EndToEnd(t *testing.T) {
	repo := newFakeRepo()
	audit := &countingAudit{}
	svc := NewService(repo, &billing.MockAllocator{}, &passthroughTxManager{repo: repo}, audit)

	receipt, err := svc.Create(context.Background(), validDraft())
	require.NoError(t, err)

	wantBillNo := billing.FormatBillNo(billing.Today(), 1)
	assert.Equal(t, wantBillNo, receipt.BillNo)
	assert.Equal(t, int64(1), receipt.OrderID)

	// Storage now has exactly one order row and one item row referencing it.
	require.Len(t, repo.orders, 1)
	items := repo.items[receipt.OrderID]
	require.Len(t, items, 1)
	assert.Equal(t, "Tea", items[0].NameSnapshot)
	assert.Equal(t, 2, items[0].Qty)
	assert.Equal(t, receipt.OrderID, items[0].OrderID)

	assert.Equal(t, 1, audit.calls)
}

func TestCreate_ValidationBeforeTransaction(t *testing.T) {
	repo := newFakeRepo()
	txm := &passthroughTxManager{repo: repo}
	allocated := false
	alloc := &billing.MockAllocator{
		AllocateFunc: func(ctx context.Context, dateKey billing.DateKey) (int64, error) {
			allocated = true
			return 1, nil
		},
	}
	svc := NewService(repo, alloc, txm, nil)

	_, err := svc.Create(context.Background(), &Draft{Total: decPtr(10)})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
	assert.False(t, txm.entered, "no transaction may begin for an invalid draft")
	assert.False(t, allocated, "no counter may be allocated for an invalid draft")
}

func TestCreate_ItemInsertFailureAbortsEverything(t *testing.T) {
	repo := newFakeRepo()
	repo.itemsErr = errors.New("constraint violation")
	audit := &countingAudit{}
	svc := NewService(repo, &billing.MockAllocator{}, &passthroughTxManager{repo: repo}, audit)

	_, err := svc.Create(context.Background(), validDraft())
	require.Error(t, err)

	// The caller sees one generic creation failure, not the storage detail.
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeDatabase, appErr.Code)
	assert.Equal(t, "failed to create order", appErr.Message)
	assert.NotContains(t, appErr.Message, "constraint")

	// Rolled back: zero orders, zero items, no audit record.
	assert.Empty(t, repo.orders)
	assert.Empty(t, repo.items)
	assert.Equal(t, 0, audit.calls)
}

func TestCreate_AllocatorFailureAborts(t *testing.T) {
	repo := newFakeRepo()
	alloc := &billing.MockAllocator{
		AllocateFunc: func(ctx context.Context, dateKey billing.DateKey) (int64, error) {
			return 0, errors.New("storage down")
		},
	}
	svc := NewService(repo, alloc, &passthroughTxManager{repo: repo}, nil)

	_, err := svc.Create(context.Background(), validDraft())
	require.Error(t, err)
	assert.Empty(t, repo.orders)
}

func TestCreate_ConcurrentBillNumbersUnique(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &billing.MockAllocator{}, &passthroughTxManager{}, nil)

	const n = 50
	var wg sync.WaitGroup
	billNos := make(chan string, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			receipt, err := svc.Create(context.Background(), validDraft())
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			billNos <- receipt.BillNo
		}()
	}
	wg.Wait()
	close(billNos)

	seen := make(map[string]bool, n)
	for billNo := range billNos {
		assert.False(t, seen[billNo], "duplicate bill number %s", billNo)
		seen[billNo] = true
	}
	assert.Len(t, seen, n)
}

func TestCreate_ItemOrderPreserved(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &billing.MockAllocator{}, &passthroughTxManager{repo: repo}, nil)

	draft := &Draft{Total: decPtr(60)}
	for i := 1; i <= 5; i++ {
		draft.Items = append(draft.Items, DraftItem{
			Name:      fmt.Sprintf("Dish %d", i),
			Qty:       1,
			UnitPrice: decimal.NewFromInt(12),
			LineTotal: decimal.NewFromInt(12),
		})
	}

	receipt, err := svc.Create(context.Background(), draft)
	require.NoError(t, err)

	items := repo.items[receipt.OrderID]
	require.Len(t, items, 5)
	for i, item := range items {
		assert.Equal(t, fmt.Sprintf("Dish %d", i+1), item.NameSnapshot)
	}
}

func TestGetByBillNo(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &billing.MockAllocator{}, &passthroughTxManager{repo: repo}, nil)

	receipt, err := svc.Create(context.Background(), validDraft())
	require.NoError(t, err)

	got, err := svc.GetByBillNo(context.Background(), receipt.BillNo)
	require.NoError(t, err)
	assert.Equal(t, receipt.OrderID, got.ID)
	require.Len(t, got.Items, 1)

	_, err = svc.GetByBillNo(context.Background(), "19700101-0001")
	assert.True(t, apperror.IsNotFound(err))
}
