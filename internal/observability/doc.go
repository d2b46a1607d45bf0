// Package observability provides structured logging, Prometheus metrics and
// request-scoped context helpers for the results service.
package observability
