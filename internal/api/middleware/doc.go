// Package middleware holds the HTTP middleware shared by the API routes:
// bearer authentication, request tracing, security headers and rate limiting.
package middleware
