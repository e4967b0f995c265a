package queue

import "log/slog"

// DefaultGrowthStep is the number of slots added or removed per resize
// when no WithGrowthStep option is given.
const DefaultGrowthStep = 256

type config struct {
	step  int
	alloc Allocator
	log   *slog.Logger
}

// Option configures a RingQueue at construction.
type Option func(*config)

// WithGrowthStep sets the linear resize increment.
//
// Larger steps trade memory headroom for fewer reallocations.
// New rejects a step below 1 with ErrInvalidGrowthStep.
func WithGrowthStep(n int) Option {
	return func(c *config) {
		c.step = n
	}
}

// WithAllocator sets the slot allocator. Nil keeps the default Unbounded.
func WithAllocator(a Allocator) Option {
	return func(c *config) {
		if a != nil {
			c.alloc = a
		}
	}
}

// WithLogger sets the logger used to report resize events at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.log = l
		}
	}
}

func newConfig(opts []Option) config {
	c := config{
		step:  DefaultGrowthStep,
		alloc: Unbounded{},
		log:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
