// File: analyzer.go
// Title: minipas Analyzer
// Description: Runs the tokenizer and, when it found no errors, the two
//              semantic passes. Owns the symbol table and the diagnostic
//              list of a run.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package minipas

import (
	"strings"

	mdwerror "github.com/msto63/minipas/foundation/core/error"
	mdwlog "github.com/msto63/minipas/foundation/core/log"
	"github.com/msto63/minipas/foundation/minipas/diag"
	"github.com/msto63/minipas/foundation/minipas/lexer"
	"github.com/msto63/minipas/foundation/minipas/semantic"
	"github.com/msto63/minipas/foundation/minipas/symtab"
)

// Options configures an Analyzer
type Options struct {
	// Logger receives debug and trace output. Nil disables logging.
	Logger *mdwlog.Logger

	// Renderer formats diagnostic messages. Nil selects English.
	Renderer diag.Renderer
}

// Analyzer checks one source text. It is not safe for concurrent use;
// build one per input.
type Analyzer struct {
	logger   *mdwlog.Logger
	renderer diag.Renderer
	lexer    *lexer.Lexer

	source  string
	tokens  []lexer.Token
	table   *symtab.Table
	diags   *diag.List
	skipped bool
}

// New creates an Analyzer with an empty symbol table and no errors
func New(opts Options) *Analyzer {
	logger := opts.Logger
	if logger == nil {
		logger = mdwlog.Discard()
	}

	return &Analyzer{
		logger:   logger.WithField("component", "minipas-analyzer"),
		renderer: opts.Renderer,
		lexer:    lexer.New(lexer.Options{Logger: logger}),
		table:    symtab.New(),
		diags:    diag.NewList(opts.Renderer),
	}
}

// Analyze tokenizes source and, if no lexical or assignment error was
// found, collects declarations and validates identifier usage. Calling
// Analyze again starts a new run with a fresh table and error list.
func (a *Analyzer) Analyze(source string) {
	a.source = source
	a.tokens = nil
	a.table = symtab.New()
	a.diags = diag.NewList(a.renderer)
	a.skipped = false

	timer := a.logger.StartTimer("analysis")
	a.logger.Debug("analysis started", mdwlog.Fields{
		"bytes": len(source),
		"lines": lineCount(source),
	})

	a.tokens = a.lexer.Tokenize(source, a.diags)
	a.logger.Debug("tokenization finished", mdwlog.Fields{
		"tokens": len(a.tokens),
		"errors": a.diags.Len(),
	})

	if !a.diags.Empty() {
		a.skipped = true
		a.logger.Debug("semantic analysis skipped", mdwlog.Fields{"errors": a.diags.Len()})
		timer.WithField("errors", a.diags.Len()).Stop()
		return
	}

	dropped := semantic.CollectDeclarations(a.tokens, a.table)
	if len(dropped) > 0 {
		a.logger.Debug("untyped declarations dropped", mdwlog.Fields{"names": dropped})
	}

	undeclared := semantic.ValidateUsage(a.tokens, a.table.View(), a.diags)
	a.logger.Debug("semantic analysis finished", mdwlog.Fields{
		"symbols":    a.table.Len(),
		"undeclared": undeclared,
	})

	timer.WithField("errors", a.diags.Len()).WithField("symbols", a.table.Len()).Stop()
}

// Errors returns the error messages in the order they were found
func (a *Analyzer) Errors() []string {
	return a.diags.Messages()
}

// Diagnostics returns the structured errors in the order they were found
func (a *Analyzer) Diagnostics() []diag.Diagnostic {
	return a.diags.Items()
}

// SymbolTable returns a read-only view of the declarations
func (a *Analyzer) SymbolTable() symtab.View {
	return a.table.View()
}

// Tokens returns a copy of the token stream of the last run
func (a *Analyzer) Tokens() []lexer.Token {
	out := make([]lexer.Token, len(a.tokens))
	copy(out, a.tokens)
	return out
}

// SemanticSkipped reports whether lexical errors suppressed the semantic passes
func (a *Analyzer) SemanticSkipped() bool {
	return a.skipped
}

// Err returns nil for a clean run, otherwise the first diagnostic as a
// coded error annotated with the total count
func (a *Analyzer) Err() error {
	items := a.diags.Items()
	if len(items) == 0 {
		return nil
	}

	first := items[0]
	return mdwerror.Wrap(first.Err(), "source analysis failed").
		WithCode(first.Code()).
		WithOperation("minipas.Analyze").
		WithDetail("error_count", len(items)).
		WithDetail("semantic_skipped", a.skipped)
}

// Result snapshots the last run
func (a *Analyzer) Result() *Result {
	status := StatusOK
	if !a.diags.Empty() {
		status = StatusFailed
	}

	return &Result{
		Status:          status,
		Lines:           lineCount(a.source),
		SemanticSkipped: a.skipped,
		Diagnostics:     a.diags.Items(),
		Symbols:         a.table.Entries(),
		Tokens:          a.Tokens(),
	}
}

// Run analyzes source with a fresh Analyzer and returns its result
func Run(source string, opts Options) *Result {
	a := New(opts)
	a.Analyze(source)
	return a.Result()
}

// lineCount counts lines the way the tokenizer numbers them
func lineCount(source string) int {
	return strings.Count(source, "\n") + 1
}
