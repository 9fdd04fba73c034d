package lphash

import (
	"hash/maphash"

	"go.uber.org/zap"
)

// Option configures a Table.
type Option func(*options)

type options struct {
	logger *zap.Logger
	seed   maphash.Seed
}

func newOptions(opts []Option) *options {
	o := &options{
		logger: zap.NewNop(),
		seed:   maphash.MakeSeed(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets the logger that receives resize and full-table events at
// debug level. A nil logger is ignored.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithSeed fixes the seed used to hash keys that are neither strings,
// integers nor Hasher implementations.
func WithSeed(seed maphash.Seed) Option {
	return func(o *options) {
		o.seed = seed
	}
}
