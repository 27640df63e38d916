// File: semantic.go
// Title: Semantic Checker
// Description: Declaration collection and usage validation over a token
//              stream. Both passes are linear and keep only a few flags of
//              state.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

// Package semantic checks that identifiers used inside begin/end blocks
// were declared in a var section.
package semantic

import (
	"github.com/msto63/minipas/foundation/minipas/diag"
	"github.com/msto63/minipas/foundation/minipas/lexer"
	"github.com/msto63/minipas/foundation/minipas/symtab"
)

// builtinProcedure may be used without declaration
const builtinProcedure = "writeln"

// CollectDeclarations fills table from the var section.
//
// After VAR every ID is queued; a ":" binds all queued names to the text
// of the following token and clears the queue. The declaration region
// stays open after a binding, so the type token itself is scanned next
// like any other token. BEGIN closes the region. Names still queued at
// the end are not declared and are returned.
func CollectDeclarations(tokens []lexer.Token, table *symtab.Table) []string {
	var (
		inDecl  bool
		pending []string
	)

	for i, tok := range tokens {
		switch {
		case tok.Is(lexer.VAR):
			inDecl = true
		case tok.Is(lexer.BEGIN):
			inDecl = false
		case !inDecl:
		case tok.Is(lexer.ID):
			pending = append(pending, tok.Text)
		case tok.Text == ":" && i+1 < len(tokens):
			typeName := tokens[i+1].Text
			for _, name := range pending {
				table.Insert(name, typeName)
			}
			pending = pending[:0]
		}
	}

	return pending
}

// ValidateUsage reports every ID inside a begin/end block that is not in
// table. Tokens outside blocks are not checked.
func ValidateUsage(tokens []lexer.Token, table symtab.View, sink diag.Sink) int {
	inBlock := false
	reported := 0

	for _, tok := range tokens {
		switch tok.Kind {
		case lexer.BEGIN:
			inBlock = true
		case lexer.END:
			inBlock = false
		case lexer.ID:
			if !inBlock || tok.Text == builtinProcedure || table.Contains(tok.Text) {
				continue
			}
			sink.Report(diag.ReasonUndeclaredIdentifier, tok.Line, tok.Text)
			reported++
		}
	}

	return reported
}
