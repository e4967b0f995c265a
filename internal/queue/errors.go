package queue

import "errors"

var (
	// ErrEmpty is returned by PopElement when the queue holds no elements.
	ErrEmpty = errors.New("queue: empty")

	// ErrAllocation is returned when backing storage could not be acquired.
	ErrAllocation = errors.New("queue: allocation failed")

	// ErrInvalidGrowthStep is returned by New for a non-positive growth step.
	ErrInvalidGrowthStep = errors.New("queue: growth step must be positive")
)
