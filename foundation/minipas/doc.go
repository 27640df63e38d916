// Package minipas analyzes programs written in a minimal Pascal-like
// language.
//
// Package: minipas
// Title: minipas Source Analyzer
// Description: Lexical tokenization followed by a shallow semantic check
//              (declare before use). Semantic analysis runs only when the
//              source tokenized without errors.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation
//
// Usage:
//
//	a := minipas.New(minipas.Options{Logger: logger})
//	a.Analyze(source)
//	for _, msg := range a.Errors() {
//		fmt.Println(msg)
//	}
//	for _, e := range a.SymbolTable().Entries() {
//		fmt.Println(e.Name, e.Type)
//	}
//
// Sub-packages: lexer (tokens and tokenizer), symtab (symbol table),
// semantic (declaration and usage passes), diag (diagnostics) and messages
// (English and Portuguese catalogs).
package minipas
