package queue

import (
	"log/slog"

	"golang.org/x/xerrors"
)

// Ensure compile-time interface compliance.
var _ Queue[any] = (*RingQueue[any])(nil)

// RingQueue is a FIFO circular buffer that resizes in linear steps.
//
// Capacity starts at twice the growth step and never drops below it.
// Every resize moves the live elements to a fresh slice starting at
// index 0, so no reference into the backing storage survives a resize.
//
// The zero value is an empty queue using DefaultGrowthStep; its storage
// is allocated on the first push.
//
// WARNING: RingQueue is NOT safe for concurrent use.
type RingQueue[T any] struct {
	buf   []T
	head  int // oldest element, valid when count > 0
	tail  int // next insertion point
	count int

	step  int
	alloc Allocator
	log   *slog.Logger
	stats Stats
}

// Stats counts resize events over the life of a queue.
type Stats struct {
	Grows         uint64
	Shrinks       uint64
	FailedGrows   uint64
	FailedShrinks uint64
}

// Resizes returns the number of successful grows and shrinks.
func (s Stats) Resizes() uint64 {
	return s.Grows + s.Shrinks
}

// New creates an empty RingQueue with capacity 2*step.
//
// Returns ErrInvalidGrowthStep for a step below 1 and ErrAllocation if the
// initial storage cannot be acquired.
func New[T any](opts ...Option) (*RingQueue[T], error) {
	c := newConfig(opts)
	if c.step < 1 {
		return nil, xerrors.Errorf("growth step %d: %w", c.step, ErrInvalidGrowthStep)
	}
	q := &RingQueue[T]{
		step:  c.step,
		alloc: c.alloc,
		log:   c.log,
	}
	if err := q.allocate(); err != nil {
		return nil, err
	}
	return q, nil
}

// Size returns the number of elements in the queue.
func (q *RingQueue[T]) Size() int {
	return q.count
}

// Cap returns the number of allocated slots.
func (q *RingQueue[T]) Cap() int {
	return len(q.buf)
}

// GrowthStep returns the resize increment.
func (q *RingQueue[T]) GrowthStep() int {
	if q.step == 0 {
		return DefaultGrowthStep
	}
	return q.step
}

// Stats returns the resize counters.
func (q *RingQueue[T]) Stats() Stats {
	return q.stats
}

// PushElement appends v to the back of the queue.
//
// If no more than one growth step of free slots remains, storage grows by
// one step first. When that allocation fails the queue is left exactly as
// it was and an error wrapping ErrAllocation is returned.
func (q *RingQueue[T]) PushElement(v T) error {
	if q.buf == nil {
		if err := q.allocate(); err != nil {
			return err
		}
	}
	if q.shouldGrow() {
		if err := q.resize(len(q.buf) + q.step); err != nil {
			q.stats.FailedGrows++
			return xerrors.Errorf("grow to %d slots: %w", len(q.buf)+q.step, err)
		}
		q.stats.Grows++
	}

	q.buf[q.tail] = v
	q.tail++
	if q.tail == len(q.buf) {
		q.tail = 0
	}
	q.count++
	return nil
}

// PopElement removes and returns the element at the front of the queue.
//
// Returns ErrEmpty if there is nothing to pop. After a successful pop the
// storage may shrink by one growth step; a failed shrink is skipped and
// does not affect the returned value.
func (q *RingQueue[T]) PopElement() (T, error) {
	var zero T
	if q.count == 0 {
		return zero, ErrEmpty
	}

	v := q.buf[q.head]
	q.buf[q.head] = zero
	q.head++
	if q.head == len(q.buf) {
		q.head = 0
	}
	q.count--

	if q.shouldShrink() {
		if err := q.resize(len(q.buf) - q.step); err != nil {
			q.stats.FailedShrinks++
			q.log.Debug("shrink skipped", "capacity", len(q.buf), "count", q.count, "error", err)
		} else {
			q.stats.Shrinks++
		}
	}
	return v, nil
}

// Push adds v to the queue. Returns false if storage could not grow.
func (q *RingQueue[T]) Push(v T) bool {
	return q.PushElement(v) == nil
}

// Pop removes and returns the oldest element. Returns false if empty.
func (q *RingQueue[T]) Pop() (T, bool) {
	v, err := q.PopElement()
	return v, err == nil
}

// Peek returns the oldest element without removing it.
func (q *RingQueue[T]) Peek() (T, bool) {
	if q.count == 0 {
		var zero T
		return zero, false
	}
	return q.buf[q.head], true
}

// shouldGrow reports whether one growth step or less of free slots remains.
func (q *RingQueue[T]) shouldGrow() bool {
	return len(q.buf)-q.count <= q.step
}

// shouldShrink reports whether capacity can drop one step while keeping a
// full step of slack above the count. Never true at the 2*step floor.
func (q *RingQueue[T]) shouldShrink() bool {
	floor := 2 * q.step
	return len(q.buf) > floor && len(q.buf)-floor > q.count
}

// allocate sets up the initial 2*step block, filling in zero-value defaults.
func (q *RingQueue[T]) allocate() error {
	if q.step == 0 {
		q.step = DefaultGrowthStep
	}
	if q.alloc == nil {
		q.alloc = Unbounded{}
	}
	if q.log == nil {
		q.log = slog.New(slog.DiscardHandler)
	}
	buf, err := makeBlock[T](q.alloc, 2*q.step)
	if err != nil {
		return xerrors.Errorf("initial storage: %w", err)
	}
	q.buf = buf
	q.head, q.tail = 0, 0
	return nil
}

// resize replaces the backing slice with one of n slots.
// On error the queue is unchanged.
func (q *RingQueue[T]) resize(n int) error {
	buf, err := makeBlock[T](q.alloc, n)
	if err != nil {
		return err
	}
	q.repack(buf)

	old := len(q.buf)
	q.buf = buf
	q.head = 0
	q.tail = q.count % n
	q.alloc.Release(old)

	q.log.Debug("queue resized", "from", old, "to", n, "count", q.count)
	return nil
}

// repack copies the live elements into dst[:count], oldest first.
// The live range wraps at most once, so two copies suffice.
func (q *RingQueue[T]) repack(dst []T) {
	if q.count == 0 {
		return
	}
	end := q.head + q.count
	if end <= len(q.buf) {
		copy(dst, q.buf[q.head:end])
		return
	}
	n := copy(dst, q.buf[q.head:])
	copy(dst[n:], q.buf[:end-len(q.buf)])
}
