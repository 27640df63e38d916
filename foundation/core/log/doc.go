// Package log provides structured logging for minipas.
//
// Package: log
// Title: minipas Structured Logging
// Description: Leveled, structured logging with JSON, text, console and logfmt
//              output. Loggers are immutable: WithField/WithName/WithLevel
//              return configured copies, so a component can tag its own logger
//              without affecting the caller's. Integrates with the error
//              package so coded errors are logged with their classification.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with structured logging and error integration
// - 2026-10-19 v0.2.0: Removed async buffering, audit level and request context
//
// Usage:
//
//	logger := log.NewWithConfig(log.Config{
//		Level:  log.LevelDebug,
//		Format: log.FormatText,
//		Output: os.Stderr,
//		Name:   "minipas",
//	}).WithField("component", "minipas-analyzer")
//
//	logger.Debug("tokenization finished", log.Fields{"tokens": 17})
//
//	timer := logger.StartTimer("analysis")
//	// ... run analysis
//	timer.Stop()
package log
