package billing

import (
	"context"
	"sync"
)

// MockAllocator is a test implementation of Allocator.
// Use in unit tests to avoid database dependencies.
type MockAllocator struct {
	AllocateFunc func(ctx context.Context, dateKey DateKey) (int64, error)

	mu       sync.Mutex
	counters map[string]int64
}

// Allocate implements Allocator. Without AllocateFunc it behaves like the
// real thing against an in-memory counter map.
func (m *MockAllocator) Allocate(ctx context.Context, dateKey DateKey) (int64, error) {
	if m.AllocateFunc != nil {
		return m.AllocateFunc(ctx, dateKey)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.counters == nil {
		m.counters = make(map[string]int64)
	}
	m.counters[dateKey.String()]++
	return m.counters[dateKey.String()], nil
}

// Ensure compile-time interface compliance.
var _ Allocator = (*MockAllocator)(nil)
