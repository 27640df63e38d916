// File: semantic_test.go
// Title: Semantic Checker Tests
// Description: Declaration collection and usage validation cases.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial tests

package semantic

import (
	"reflect"
	"testing"

	"github.com/msto63/minipas/foundation/minipas/diag"
	"github.com/msto63/minipas/foundation/minipas/lexer"
	"github.com/msto63/minipas/foundation/minipas/symtab"
)

func mustTokenize(t *testing.T, source string) []lexer.Token {
	t.Helper()
	list := diag.NewList(nil)
	tokens := lexer.Tokenize(source, list)
	if !list.Empty() {
		t.Fatalf("unexpected lexical errors: %v", list.Messages())
	}
	return tokens
}

func TestCollectDeclarations(t *testing.T) {
	tests := []struct {
		name        string
		source      string
		want        []symtab.Entry
		wantDropped []string
	}{
		{
			name:   "single",
			source: "var x : integer ; begin end .",
			want:   []symtab.Entry{{Name: "x", Type: "integer"}},
		},
		{
			name:   "list",
			source: "var a, b, c : integer;",
			want: []symtab.Entry{
				{Name: "a", Type: "integer"},
				{Name: "b", Type: "integer"},
				{Name: "c", Type: "integer"},
			},
		},
		{
			name:   "redeclaration last wins",
			source: "var x : integer; x : boolean; begin end.",
			want:   []symtab.Entry{{Name: "x", Type: "boolean"}},
			// boolean is an ID, so it is queued after binding
			wantDropped: []string{"boolean"},
		},
		{
			name:   "identifier type name is queued again",
			source: "var a : b ; c : integer ; begin end",
			want: []symtab.Entry{
				{Name: "a", Type: "b"},
				{Name: "b", Type: "integer"},
				{Name: "c", Type: "integer"},
			},
		},
		{
			name:        "identifier type name left pending",
			source:      "var a : b ; begin end",
			want:        []symtab.Entry{{Name: "a", Type: "b"}},
			wantDropped: []string{"b"},
		},
		{
			name:        "untyped names dropped",
			source:      "var x, y ; begin end",
			want:        []symtab.Entry{},
			wantDropped: []string{"x", "y"},
		},
		{
			name:        "colon at end of input",
			source:      "var x :",
			want:        []symtab.Entry{},
			wantDropped: []string{"x"},
		},
		{
			name:   "type is next token whatever its kind",
			source: "var x : 42",
			want:   []symtab.Entry{{Name: "x", Type: "42"}},
		},
		{
			name:   "ids before var ignored",
			source: "program demo ; var x : integer ;",
			want:   []symtab.Entry{{Name: "x", Type: "integer"}},
		},
		{
			name:   "begin closes region",
			source: "var x : integer ; begin y : integer end",
			want:   []symtab.Entry{{Name: "x", Type: "integer"}},
		},
		{
			name:   "second var section",
			source: "var x : integer ; begin end var y : integer",
			want: []symtab.Entry{
				{Name: "x", Type: "integer"},
				{Name: "y", Type: "integer"},
			},
		},
		{
			name:   "no var section",
			source: "begin x := 1 end .",
			want:   []symtab.Entry{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := symtab.New()
			dropped := CollectDeclarations(mustTokenize(t, tt.source), table)

			if got := table.Entries(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("entries = %+v, want %+v", got, tt.want)
			}
			if len(dropped) != len(tt.wantDropped) {
				t.Fatalf("dropped = %v, want %v", dropped, tt.wantDropped)
			}
			for i := range dropped {
				if dropped[i] != tt.wantDropped[i] {
					t.Errorf("dropped = %v, want %v", dropped, tt.wantDropped)
				}
			}
		})
	}
}

func TestValidateUsage(t *testing.T) {
	declared := symtab.New()
	declared.Insert("x", "integer")

	tests := []struct {
		name   string
		source string
		want   []string // undeclared lexemes in order
		lines  []int
	}{
		{"declared", "begin x := 1 end .", nil, nil},
		{"undeclared", "begin y := 1 end .", []string{"y"}, []int{1}},
		{"outside block ignored", "y := 1 ; begin end z", nil, nil},
		{"repeated use reported each time", "begin\ny := y + 1\nend", []string{"y", "y"}, []int{2, 2}},
		{"writeln keyword", "begin writeln ( x ) end", nil, nil},
		{"nested begin closes at first end", "begin begin end q end", nil, nil},
		{"numbers and operators ignored", "begin 1 + 2 * 3 end", nil, nil},
		{"unterminated block", "begin a b", []string{"a", "b"}, []int{1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list := diag.NewList(nil)
			n := ValidateUsage(mustTokenize(t, tt.source), declared.View(), list)

			items := list.Items()
			if n != len(items) || len(items) != len(tt.want) {
				t.Fatalf("reported %d, diagnostics %v, want %v", n, list.Messages(), tt.want)
			}
			for i, d := range items {
				if d.Lexeme != tt.want[i] || d.Line != tt.lines[i] {
					t.Errorf("diag %d = %s@%d, want %s@%d", i, d.Lexeme, d.Line, tt.want[i], tt.lines[i])
				}
				if d.Category != diag.CategorySemantic {
					t.Errorf("category = %v", d.Category)
				}
			}
		})
	}
}

func TestWritelnIdentifierExempt(t *testing.T) {
	// writeln is normally a keyword token; an ID spelled the same is also exempt
	tokens := []lexer.Token{
		{Kind: lexer.BEGIN, Text: "begin", Line: 1},
		{Kind: lexer.ID, Text: "writeln", Line: 1},
		{Kind: lexer.END, Text: "end", Line: 1},
	}
	list := diag.NewList(nil)
	if n := ValidateUsage(tokens, symtab.New(), list); n != 0 {
		t.Errorf("writeln flagged: %v", list.Messages())
	}
}
