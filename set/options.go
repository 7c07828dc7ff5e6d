package set

import (
	"github.com/benbjohnson/clock"
	"go.uber.org/zap"
)

const (
	// DefaultCapacity is the bucket count of a new or cleared set.
	DefaultCapacity = 7

	// MaxLoadPercent is the load factor, in percent, a set may reach before
	// its bucket array is doubled. Reaching it exactly does not grow the table.
	MaxLoadPercent = 70
)

type options struct {
	capacity  int
	maxMemory int64
	logger    *zap.Logger
	clock     clock.Clock
}

// Option configures a Set at construction time.
type Option func(*options)

// WithCapacity sets the base bucket count. Values below 1 are raised to 1.
func WithCapacity(n int) Option {
	return func(o *options) {
		o.capacity = n
	}
}

// WithMaxMemory caps the estimated bytes held by the set. Zero or a negative
// value disables the cap.
func WithMaxMemory(bytes int64) Option {
	return func(o *options) {
		o.maxMemory = bytes
	}
}

// WithLogger sets the logger used for rehash and allocation events.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithClock sets the clock used to time rehashes.
func WithClock(c clock.Clock) Option {
	return func(o *options) {
		o.clock = c
	}
}

func newOptions(opts []Option) options {
	o := options{capacity: DefaultCapacity}
	for _, opt := range opts {
		opt(&o)
	}
	if o.capacity < 1 {
		o.capacity = 1
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	if o.clock == nil {
		o.clock = clock.New()
	}
	return o
}
