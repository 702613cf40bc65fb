// Package middleware holds the echo middleware that runs around every
// request: request IDs, request-scoped logging, tracing, rate limiting,
// CORS, security headers, panic recovery and the global error handler.
package middleware
