package middleware

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/statekit-dev/statekit/pkg/store"
)

// Default tracer name for statekit applications.
const defaultTracerName = "statekit"

// OTelConfig configures the OpenTelemetry middleware.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "statekit").
	TracerName string

	// StoreName is recorded as the statekit.store attribute on every span
	// (default: "store").
	StoreName string

	// Context is the parent context for dispatch spans. Dispatch is
	// synchronous and carries no context of its own, so the parent must be
	// supplied up front. If nil, context.Background() is used.
	Context context.Context

	// Filter determines which actions to trace.
	// Return true to trace the dispatch, false to skip.
	// If nil, all dispatches are traced.
	Filter func(a store.Action) bool

	// AttributeExtractor extracts custom attributes from the action.
	// Called for each traced dispatch.
	AttributeExtractor func(a store.Action) []attribute.KeyValue

	// tracer is the resolved tracer instance.
	tracer trace.Tracer
}

// OTelOption configures the OpenTelemetry middleware.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithStoreName sets the statekit.store span attribute.
func WithStoreName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.StoreName = name
	}
}

// WithSpanContext sets the parent context for dispatch spans.
func WithSpanContext(ctx context.Context) OTelOption {
	return func(c *OTelConfig) {
		c.Context = ctx
	}
}

// WithActionFilter sets a filter function for actions.
func WithActionFilter(filter func(a store.Action) bool) OTelOption {
	return func(c *OTelConfig) {
		c.Filter = filter
	}
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(extractor func(a store.Action) []attribute.KeyValue) OTelOption {
	return func(c *OTelConfig) {
		c.AttributeExtractor = extractor
	}
}

func defaultOTelConfig() OTelConfig {
	return OTelConfig{
		TracerName: defaultTracerName,
		StoreName:  "store",
		Context:    context.Background(),
	}
}

// OpenTelemetry creates middleware that traces every dispatch.
//
// The middleware:
//   - Creates a span per dispatch named "dispatch <ACTION>"
//   - Records the store name and action type as attributes
//   - Records errors and sets span status
//
// The tracer uses the global OpenTelemetry tracer provider. Configure it in
// your main() before constructing stores:
//
//	tp := sdktrace.NewTracerProvider(
//	    sdktrace.WithBatcher(exporter),
//	)
//	otel.SetTracerProvider(tp)
func OpenTelemetry(opts ...OTelOption) store.Middleware {
	config := defaultOTelConfig()
	for _, opt := range opts {
		opt(&config)
	}
	if config.Context == nil {
		config.Context = context.Background()
	}

	// Resolve tracer from global provider
	config.tracer = otel.Tracer(config.TracerName)

	return func(next store.DispatchFunc) store.DispatchFunc {
		return func(a store.Action) error {
			if config.Filter != nil && !config.Filter(a) {
				return next(a)
			}

			attrs := []attribute.KeyValue{
				attribute.String("statekit.store", config.StoreName),
				attribute.String("statekit.action", actionLabel(a)),
			}
			if config.AttributeExtractor != nil {
				attrs = append(attrs, config.AttributeExtractor(a)...)
			}

			_, span := config.tracer.Start(
				config.Context,
				fmt.Sprintf("dispatch %s", actionLabel(a)),
				trace.WithSpanKind(trace.SpanKindInternal),
				trace.WithAttributes(attrs...),
			)
			defer span.End()

			err := next(a)

			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			} else {
				span.SetStatus(codes.Ok, "")
			}

			return err
		}
	}
}
