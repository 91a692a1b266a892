package esgo

import (
	"log/slog"
)

type options struct {
	transport        Transport
	metricsCollector MetricsCollector
	logger           *Logger
	strict           bool
}

// Option configures Client constructor behavior.
//
// Options primarily exist to avoid exploding the API surface
// (e.g. transport-specific constructor variants).
type Option func(*options)

// WithTransport configures the transport used for all dispatched operations.
//
// The transport subpackage provides the default net/http implementation;
// any value satisfying the Transport interface works. A client without a
// transport can still build documents, but dispatch fails with ErrNoTransport.
func WithTransport(t Transport) Option {
	return func(o *options) {
		o.transport = t
	}
}

// WithStrictValidation makes enumerated-option setters record a validation
// error instead of silently dropping out-of-set values.
//
// The engine's historical client behavior is lenient: an invalid
// version_type, op_type, replication or consistency value is ignored and the
// prior value kept, with no feedback to the caller. That default is
// preserved. With strict validation the first invalid value is recorded on
// the builder and returned by the next dispatch call, before any network
// traffic.
func WithStrictValidation() Option {
	return func(o *options) {
		o.strict = true
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &esgo.BasicMetricsCollector{}
//	client := esgo.New(esgo.WithTransport(tr), esgo.WithMetricsCollector(metrics))
//	// ... use client ...
//	stats := metrics.GetStats()
//	fmt.Printf("Stores: %d, Avg latency: %dns\n", stats.StoreCount, stats.StoreAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := esgo.NewJSONLogger(slog.LevelInfo)
//	client := esgo.New(esgo.WithTransport(tr), esgo.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	return o
}
