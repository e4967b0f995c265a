package queue

import (
	"fmt"

	"golang.org/x/xerrors"
)

// Allocator grants and reclaims contiguous blocks of queue slots.
//
// A RingQueue calls Acquire before making a new backing slice and Release
// once the old slice has been dropped. During a resize both blocks are
// outstanding at the same time.
type Allocator interface {
	// Acquire reserves n slots. A non-nil error aborts the allocation.
	Acquire(n int) error

	// Release returns n previously acquired slots.
	Release(n int)
}

// Unbounded is an Allocator that never refuses a request.
type Unbounded struct{}

// Acquire always succeeds.
func (Unbounded) Acquire(int) error { return nil }

// Release is a no-op.
func (Unbounded) Release(int) {}

// Limited is an Allocator with a fixed slot budget.
//
// Not safe for concurrent use; share one Limited between queues only
// when those queues are owned by the same goroutine.
type Limited struct {
	max   int
	inUse int
}

// NewLimited creates a Limited allocator allowing at most max outstanding slots.
func NewLimited(max int) *Limited {
	return &Limited{max: max}
}

// Acquire reserves n slots, failing if the budget would be exceeded.
func (l *Limited) Acquire(n int) error {
	if n < 0 || l.inUse+n > l.max {
		return xerrors.Errorf("acquire %d slots with %d/%d in use: %w", n, l.inUse, l.max, ErrAllocation)
	}
	l.inUse += n
	return nil
}

// Release returns n slots to the budget.
func (l *Limited) Release(n int) {
	l.inUse -= n
	if l.inUse < 0 {
		l.inUse = 0
	}
}

// InUse returns the number of outstanding slots.
func (l *Limited) InUse() int {
	return l.inUse
}

// Max returns the slot budget.
func (l *Limited) Max() int {
	return l.max
}

// makeBlock acquires n slots from a and allocates the backing slice.
//
// A runtime panic from make (length out of range) is reported as
// ErrAllocation. Exhausting the Go heap is fatal to the process and cannot
// be intercepted here.
func makeBlock[T any](a Allocator, n int) (block []T, err error) {
	if err := a.Acquire(n); err != nil {
		if xerrors.Is(err, ErrAllocation) {
			return nil, err
		}
		return nil, xerrors.Errorf("acquire %d slots: %v: %w", n, err, ErrAllocation)
	}
	defer func() {
		if r := recover(); r != nil {
			a.Release(n)
			block = nil
			err = xerrors.Errorf("make %d slots: %s: %w", n, fmt.Sprint(r), ErrAllocation)
		}
	}()
	return make([]T, n), nil
}
