// Package observe provides structured logging and metrics for the
// caching and resilience core.
//
// It exposes a minimal Logger interface with a JSON implementation,
// cache-oriented OpenTelemetry metrics, and an Observer that owns the
// metric provider lifecycle.
package observe
