// Package middleware provides dispatch middleware for statekit stores.
//
// Middleware wraps a store's dispatch pipeline. Each middleware sees every
// action before the reducer runs and the resulting error after, which makes
// the package the natural home for cross-cutting concerns: structured
// logging, Prometheus metrics, and OpenTelemetry traces.
//
// Attach middleware when constructing a store:
//
//	s := counter.NewStore(
//	    store.WithMiddleware[counter.State](
//	        middleware.Logging(logger),
//	        middleware.Prometheus(middleware.WithNamespace("myapp")),
//	    ),
//	)
//
// Middleware listed first wraps the rest, so logging above observes the
// latency of the metrics layer and the reducer together.
package middleware
