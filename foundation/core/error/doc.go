// Package error provides structured error handling for minipas.
//
// Package: error
// Title: minipas Error Handling Framework
// Description: Structured errors with codes, severities, details and the
//              operation that produced them. Analysis diagnostics and driver
//              failures (file access, configuration, storage) are both
//              expressed through this package so that logging and exit-status
//              decisions can inspect a single error type.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with contextual errors and codes
// - 2026-10-19 v0.2.0: Analysis codes (lexical, assignment, semantic), trimmed platform codes
//
// Usage:
//
//	err := error.New("unknown character '#'").
//		WithCode(error.CodeLexical).
//		WithDetail("line", 3)
//
//	if error.HasCode(err, error.CodeLexical) {
//		// semantic analysis was skipped
//	}
package error
