package schema

import "log/slog"

// DefaultConcurrency caps describe queries in flight when no limit is set.
const DefaultConcurrency = 8

// Option configures catalog loading.
type Option func(*options)

type options struct {
	concurrency int
	convention  Convention
	logger      *slog.Logger
}

func defaultOptions() *options {
	return &options{
		concurrency: DefaultConcurrency,
		convention:  Convention{Marker: DefaultMarker},
		logger:      slog.Default(),
	}
}

func buildOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithConcurrency caps the number of describe queries in flight. It should
// not exceed the connection pool size. Values below 1 are ignored.
func WithConcurrency(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// WithMarker sets the prefix that flags a primary-key column as a
// reference to the parent table. Defaults to "refer".
func WithMarker(marker string) Option {
	return func(o *options) {
		if marker != "" {
			o.convention = Convention{Marker: marker}
		}
	}
}

// WithLogger sets the logger that receives lookup warnings.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}
