package billing

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	corebilling "tabkeeper/internal/core/billing"
	"tabkeeper/internal/infrastructure/storage/postgres"
)

// Mock objects

type mockRow struct {
	val int64
	err error
}

func (m *mockRow) Scan(dest ...any) error {
	if m.err != nil {
		return m.err
	}
	if len(dest) > 0 {
		if ptr, ok := dest[0].(*int64); ok {
			*ptr = m.val
		}
	}
	return nil
}

// mockQuerier simulates the bill_counters upsert: one counter per date key,
// incremented atomically under a mutex.
type mockQuerier struct {
	mu       sync.Mutex
	counters map[time.Time]int64
	err      error
}

func (m *mockQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if m.err != nil {
		return &mockRow{err: m.err}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.counters == nil {
		m.counters = make(map[time.Time]int64)
	}

	key, _ := args[0].(time.Time)
	m.counters[key]++
	return &mockRow{val: m.counters[key]}
}

func (m *mockQuerier) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (m *mockQuerier) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, errors.New("not implemented")
}

type staticSource struct {
	q postgres.Querier
}

func (s *staticSource) GetQuerier(ctx context.Context) postgres.Querier {
	return s.q
}

func TestAllocate_Sequential(t *testing.T) {
	alloc := newWithSource(&staticSource{q: &mockQuerier{}})
	ctx := context.Background()
	day := corebilling.NewDateKey(time.Date(2024, 3, 5, 10, 0, 0, 0, time.Local))

	for want := int64(1); want <= 5; want++ {
		got, err := alloc.Allocate(ctx, day)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != want {
			t.Errorf("expected counter %d, got %d", want, got)
		}
	}
}

func TestAllocate_IndependentDates(t *testing.T) {
	alloc := newWithSource(&staticSource{q: &mockQuerier{}})
	ctx := context.Background()
	march := corebilling.NewDateKey(time.Date(2024, 3, 5, 10, 0, 0, 0, time.Local))
	april := corebilling.NewDateKey(time.Date(2024, 4, 1, 10, 0, 0, 0, time.Local))

	if _, err := alloc.Allocate(ctx, march); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := alloc.Allocate(ctx, march); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := alloc.Allocate(ctx, april)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 1 {
		t.Errorf("expected fresh date to start at 1, got %d", got)
	}
}

func TestAllocate_ConcurrentUnique(t *testing.T) {
	alloc := newWithSource(&staticSource{q: &mockQuerier{}})
	ctx := context.Background()
	day := corebilling.NewDateKey(time.Date(2024, 3, 5, 10, 0, 0, 0, time.Local))

	const n = 100
	results := make(chan int64, n)
	var wg sync.WaitGroup

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			counter, err := alloc.Allocate(ctx, day)
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			results <- counter
		}()
	}
	wg.Wait()
	close(results)

	// Counters must be exactly {1..n}: no duplicates, no gaps.
	seen := make(map[int64]bool, n)
	for counter := range results {
		if seen[counter] {
			t.Errorf("duplicate counter %d", counter)
		}
		seen[counter] = true
	}
	for want := int64(1); want <= n; want++ {
		if !seen[want] {
			t.Errorf("missing counter %d", want)
		}
	}
}

func TestAllocate_StorageErrorPropagates(t *testing.T) {
	storageErr := errors.New("connection reset")
	alloc := newWithSource(&staticSource{q: &mockQuerier{err: storageErr}})

	_, err := alloc.Allocate(context.Background(), corebilling.Today())
	if !errors.Is(err, storageErr) {
		t.Fatalf("expected wrapped storage error, got %v", err)
	}
}
