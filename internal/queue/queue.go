// Package queue provides a dynamically resizing FIFO ring queue.
//
// RingQueue keeps its elements in a single circular slice. Unlike the
// usual doubling strategy, capacity changes in fixed linear steps:
//   - Grow: before a push, when no more than one step of free slots remains
//   - Shrink: after a pop, when two full steps of slack sit above the count
//
// The gap between the two thresholds is the hysteresis that keeps a queue
// hovering at one occupancy level from reallocating on every operation.
//
// # Safety (IMPORTANT)
//
// RingQueue is NOT safe for concurrent use. A queue has exactly one owner;
// callers sharing it across goroutines must provide their own locking.
package queue

// Queue is a non-blocking FIFO queue.
//
// Push returns false if the item could not be stored,
// Pop returns false if the queue is empty.
type Queue[T any] interface {
	// Push adds an item to the back of the queue.
	// Returns false if the item was not stored.
	Push(T) bool

	// Pop removes and returns the item at the front of the queue.
	// Returns false if the queue is empty.
	Pop() (T, bool)
}
