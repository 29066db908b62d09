// Package billing provides the domain contract for daily bill numbering.
// The PostgreSQL implementation lives in the infrastructure layer.
package billing

import (
	"context"
	"fmt"
	"time"
)

// Allocator allocates sequential bill counters, one sequence per calendar day.
//
// Allocate must be atomic with respect to concurrent callers for the same
// date: two concurrent calls never observe or return the same counter value.
// Implementations rely on the storage engine's atomic upsert, not a
// read-then-write pair. Allocation is the only access path to a counter;
// there is no read operation.
//
// Allocate never retries internally. Storage failures propagate to the caller,
// whose transaction scope decides what to do with them.
type Allocator interface {
	// Allocate returns the next counter for the given date key, creating the
	// day's counter row with value 1 on first use. When called inside a
	// transaction, the increment is rolled back together with it.
	Allocate(ctx context.Context, dateKey DateKey) (int64, error)
}

// DateKey is a calendar date at day precision, process-local timezone.
// It partitions the bill counter sequence.
type DateKey struct {
	t time.Time
}

// Today returns the DateKey for the current local date.
func Today() DateKey {
	return NewDateKey(time.Now())
}

// NewDateKey truncates t to day precision.
func NewDateKey(t time.Time) DateKey {
	y, m, d := t.Date()
	return DateKey{t: time.Date(y, m, d, 0, 0, 0, 0, t.Location())}
}

// Time returns the underlying date for storage lookups.
func (k DateKey) Time() time.Time {
	return k.t
}

// String formats the key as YYYYMMDD for embedding in bill numbers.
func (k DateKey) String() string {
	return k.t.Format("20060102")
}

// FormatBillNo builds the human-readable bill identifier:
// {date as YYYYMMDD}-{counter zero-padded to 4 digits}.
//
// Counters above 9999 exceed the padding width and render unpadded
// ("20240305-10001"). That is a format-width edge case, not an error.
func FormatBillNo(key DateKey, counter int64) string {
	return fmt.Sprintf("%s-%04d", key, counter)
}
