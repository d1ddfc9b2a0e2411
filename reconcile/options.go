package reconcile

import (
	"log/slog"

	"config-reconciler/callable"
)

// Options control conversion and merge behavior.
type Options struct {
	// Registry encodes and decodes function fields. Defaults to callable.Default.
	Registry *callable.Registry
	// Logger receives a debug record for every field assignment.
	Logger *slog.Logger
	// Dropped, when set, is called with the namespace of every mapping field
	// being replaced and the current keys the incoming mapping lacks.
	Dropped func(ns string, keys []string)
}

// Option modifies Options.
type Option func(*Options)

// WithRegistry sets the callable registry.
func WithRegistry(r *callable.Registry) Option { return func(o *Options) { o.Registry = r } }

// WithLogger sets the trace logger.
func WithLogger(l *slog.Logger) Option { return func(o *Options) { o.Logger = l } }

// WithDropped sets the callback told about mapping keys lost to a replacement.
func WithDropped(fn func(ns string, keys []string)) Option {
	return func(o *Options) { o.Dropped = fn }
}

func newOptions(opts []Option) Options {
	o := Options{Registry: callable.Default}
	for _, fn := range opts {
		fn(&o)
	}

	if o.Registry == nil {
		o.Registry = callable.Default
	}

	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}

	return o
}
