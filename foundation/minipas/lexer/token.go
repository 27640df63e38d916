// File: token.go
// Title: Token Model
// Description: Token kinds and the immutable Token value produced by the
//              tokenizer.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package lexer

import (
	"fmt"
	"strings"
)

// Kind classifies a token
type Kind int

const (
	PROGRAM Kind = iota
	VAR
	INTEGER
	BEGIN
	END
	WRITELN
	ID
	NUMBER
	ASSIGN
	OPERATOR
	SEPARATOR
	PERIOD
)

var kindNames = [...]string{
	PROGRAM:   "PROGRAM",
	VAR:       "VAR",
	INTEGER:   "INTEGER",
	BEGIN:     "BEGIN",
	END:       "END",
	WRITELN:   "WRITELN",
	ID:        "ID",
	NUMBER:    "NUMBER",
	ASSIGN:    "ASSIGN",
	OPERATOR:  "OPERATOR",
	SEPARATOR: "SEPARATOR",
	PERIOD:    "PERIOD",
}

// String returns the upper-case kind name
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// IsKeyword reports whether k is one of the reserved words
func (k Kind) IsKeyword() bool {
	return k >= PROGRAM && k <= WRITELN
}

// MarshalText encodes the kind by name
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseKind looks up a kind by its name (case-insensitive)
func ParseKind(name string) (Kind, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for i, n := range kindNames {
		if n == upper {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown token kind %q", name)
}

// keywords maps reserved words to their kind. Matching is case-sensitive.
var keywords = map[string]Kind{
	"program": PROGRAM,
	"var":     VAR,
	"integer": INTEGER,
	"begin":   BEGIN,
	"end":     END,
	"writeln": WRITELN,
}

// misspelled identifiers are reported but still emitted as ID tokens
var misspelled = map[string]bool{
	"progra": true,
	"intege": true,
	"begi":   true,
}

// Token is a classified lexeme with its 1-based source line
type Token struct {
	Kind Kind   `json:"kind" yaml:"kind"`
	Text string `json:"text" yaml:"text"`
	Line int    `json:"line" yaml:"line"`
}

// String renders the token as Token[Kind=ID, Text='x', Line=1]
func (t Token) String() string {
	return fmt.Sprintf("Token[Kind=%s, Text='%s', Line=%d]", t.Kind, t.Text, t.Line)
}

// Is reports whether the token has the given kind
func (t Token) Is(kind Kind) bool {
	return t.Kind == kind
}
