// Package middleware holds the echo middleware applied to every request:
// request ids, request-scoped logging, New Relic tracing, CORS, security
// headers, rate limiting, panic recovery and the global error handler.
package middleware
