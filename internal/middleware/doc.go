// Package middleware provides the chi middleware used by the metrics server:
// request ids that double as log trace ids, request logging and panic
// recovery.
//
// Recommended order:
//
//	r.Use(middleware.RequestID)
//	r.Use(middleware.StructuredLogger(logger))
//	r.Use(middleware.Recoverer(logger))
package middleware
