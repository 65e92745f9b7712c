// Package server provides the optional HTTP status server.
//
// This package is internal to sitecheck and handles all HTTP concerns:
//
//   - REST API: JSON snapshot of the latest round at "/api/round"
//   - Server-Sent Events: every completed round at "/api/sse"
//   - Prometheus metrics at "/metrics"
//   - Liveness at "/healthz"
//
// The server supports graceful shutdown via context cancellation, with a
// 5-second timeout for in-flight requests.
//
// Users of the sitecheck library start it with [sitecheck.WithStatusServer].
package server
