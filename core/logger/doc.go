// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance that supports different environments (development vs production).
//
// # Context Awareness
//
// Two helpers scope a logger to the unit of work it reports on:
//   - WithRunID attaches the sync run id, so every line of one reconciliation can be correlated.
//   - WithRayID attaches the request id set by the rayid middleware on the HTTP surface.
//
// # Configuration
//
// The package supports configuration for:
//   - Level: debug, info, warn, error
//   - Encoding: json (production) or console (development)
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info"})
//	log.Info("Sync started")
package logger
