package billing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatBillNo(t *testing.T) {
	key := NewDateKey(time.Date(2024, 3, 5, 14, 30, 12, 0, time.Local))

	tests := []struct {
		name    string
		counter int64
		want    string
	}{
		{"first of day", 1, "20240305-0001"},
		{"padded", 7, "20240305-0007"},
		{"width boundary", 9999, "20240305-9999"},
		{"width exceeded renders unpadded", 10001, "20240305-10001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatBillNo(key, tt.counter))
		})
	}
}

func TestNewDateKey_TruncatesToDay(t *testing.T) {
	late := time.Date(2024, 3, 5, 23, 59, 59, 999999999, time.Local)
	early := time.Date(2024, 3, 5, 0, 0, 1, 0, time.Local)

	assert.Equal(t, NewDateKey(late), NewDateKey(early))
	assert.Equal(t, "20240305", NewDateKey(late).String())
}

func TestMockAllocator_SequentialPerDate(t *testing.T) {
	m := &MockAllocator{}
	ctx := context.Background()
	day := NewDateKey(time.Date(2024, 3, 5, 12, 0, 0, 0, time.Local))
	other := NewDateKey(time.Date(2024, 3, 6, 12, 0, 0, 0, time.Local))

	for want := int64(1); want <= 3; want++ {
		n, err := m.Allocate(ctx, day)
		require.NoError(t, err)
		assert.Equal(t, want, n)
	}

	// A different date starts its own sequence at 1.
	n, err := m.Allocate(ctx, other)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
