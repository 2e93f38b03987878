// Package middleware provides the HTTP middleware used by the API router:
// bearer authentication, trace IDs, per-client rate limiting and request
// metrics.
package middleware
