// File: result.go
// Title: Analysis Result
// Description: Snapshot of one analysis run as consumed by the reporters,
//              the history store and the websocket server.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package minipas

import (
	"github.com/msto63/minipas/foundation/minipas/diag"
	"github.com/msto63/minipas/foundation/minipas/lexer"
	"github.com/msto63/minipas/foundation/minipas/symtab"
)

// Status summarizes a run
type Status string

const (
	StatusOK     Status = "ok"
	StatusFailed Status = "failed"
)

// Result is an immutable copy of an Analyzer's state after a run
type Result struct {
	Name            string            `json:"name,omitempty" yaml:"name,omitempty"`
	Status          Status            `json:"status" yaml:"status"`
	Lines           int               `json:"lines" yaml:"lines"`
	SemanticSkipped bool              `json:"semantic_skipped" yaml:"semantic_skipped"`
	Diagnostics     []diag.Diagnostic `json:"diagnostics" yaml:"diagnostics"`
	Symbols         []symtab.Entry    `json:"symbols" yaml:"symbols"`
	Tokens          []lexer.Token     `json:"tokens,omitempty" yaml:"tokens,omitempty"`
}

// OK reports whether the run produced no diagnostics
func (r *Result) OK() bool {
	return len(r.Diagnostics) == 0
}

// Errors returns the diagnostic messages in arrival order
func (r *Result) Errors() []string {
	return diag.Messages(r.Diagnostics)
}

// SymbolTable returns a read-only view over the declared symbols. Symbols
// need not be sorted, e.g. after decoding a result built elsewhere.
func (r *Result) SymbolTable() symtab.View {
	return symtab.NewSnapshotFromEntries(r.Symbols)
}

// WithoutTokens returns a shallow copy with the token list removed
func (r *Result) WithoutTokens() *Result {
	out := *r
	out.Tokens = nil
	return &out
}
