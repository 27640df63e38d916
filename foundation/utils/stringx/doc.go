// File: doc.go
// Title: Package Documentation for stringx
// Description: Small Unicode-aware string helpers shared by the foundation
//              packages and the report renderers.
// Author: msto63
// Version: v0.3.0
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with core string utilities
// - 2026-10-19 v0.3.0: Reduced to blank checks, padding and truncation

// Package stringx provides extended string operations.
//
// Padding and truncation count runes, not bytes, so column layouts stay
// aligned when identifiers or messages contain non-ASCII text (the
// Portuguese diagnostics do).
//
//	stringx.IsBlank("  \t")              // true
//	stringx.PadRight("ID", 6, ' ')       // "ID    "
//	stringx.PadLeft("7", 3, ' ')         // "  7"
//	stringx.Truncate("identifier", 6, "…") // "ident…"
package stringx
