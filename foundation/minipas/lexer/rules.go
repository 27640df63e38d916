// File: rules.go
// Title: Tokenizer Matching Rules
// Description: The ordered rule list tried at every scan position. The first
//              rule that matches wins.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package lexer

import (
	"strings"
	"unicode/utf8"

	"github.com/msto63/minipas/foundation/minipas/diag"
)

type outcome int

const (
	// emit produces a token
	emit outcome = iota

	// skip consumes input silently
	skip

	// reject reports a diagnostic and produces no token
	reject
)

// rule is one alternative of the tokenizing grammar. match returns the
// number of bytes consumed at pos (0 for no match) and the token kind.
type rule struct {
	name    string
	match   func(line string, pos int) (int, Kind)
	outcome outcome
	reason  diag.Reason
}

// rules is evaluated in order at each position; order encodes precedence.
var rules = []rule{
	{name: "keyword", match: matchKeyword, outcome: emit},
	{name: "identifier", match: matchIdentifier, outcome: emit},
	{name: "number", match: matchNumber, outcome: emit},
	{name: "assign", match: matchLiteral(":=", ASSIGN), outcome: emit},
	{name: "bad-assign", match: matchLiteral("=", ASSIGN), outcome: reject, reason: diag.ReasonInvalidAssignment},
	{name: "operator", match: matchOneOf("+-*/", OPERATOR), outcome: emit},
	{name: "separator", match: matchOneOf(",:;()", SEPARATOR), outcome: emit},
	{name: "period", match: matchLiteral(".", PERIOD), outcome: emit},
	{name: "whitespace", match: matchWhitespace, outcome: skip},
	{name: "unknown", match: matchAnyChar, outcome: reject, reason: diag.ReasonUnknownCharacter},
}

// Word characters are ASCII letters, digits and underscore.
func isWordByte(b byte) bool {
	return b == '_' ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9')
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

// word returns the maximal word-character run starting at pos, or "" when
// pos is not at a word boundary. A whole-word match must cover the run
// exactly, since no boundary exists inside it.
func word(line string, pos int) string {
	if pos > 0 && isWordByte(line[pos-1]) {
		return ""
	}
	end := pos
	for end < len(line) && isWordByte(line[end]) {
		end++
	}
	return line[pos:end]
}

func matchKeyword(line string, pos int) (int, Kind) {
	w := word(line, pos)
	if kind, ok := keywords[w]; ok {
		return len(w), kind
	}
	return 0, 0
}

func matchIdentifier(line string, pos int) (int, Kind) {
	w := word(line, pos)
	if w == "" || !isLetter(w[0]) {
		return 0, 0
	}
	for i := 1; i < len(w); i++ {
		if !isLetter(w[i]) && !isDigit(w[i]) {
			return 0, 0
		}
	}
	return len(w), ID
}

func matchNumber(line string, pos int) (int, Kind) {
	w := word(line, pos)
	if w == "" {
		return 0, 0
	}
	for i := 0; i < len(w); i++ {
		if !isDigit(w[i]) {
			return 0, 0
		}
	}
	return len(w), NUMBER
}

func matchLiteral(lit string, kind Kind) func(string, int) (int, Kind) {
	return func(line string, pos int) (int, Kind) {
		if strings.HasPrefix(line[pos:], lit) {
			return len(lit), kind
		}
		return 0, 0
	}
}

func matchOneOf(set string, kind Kind) func(string, int) (int, Kind) {
	return func(line string, pos int) (int, Kind) {
		if strings.IndexByte(set, line[pos]) >= 0 {
			return 1, kind
		}
		return 0, 0
	}
}

func matchWhitespace(line string, pos int) (int, Kind) {
	end := pos
	for end < len(line) && isSpace(line[end]) {
		end++
	}
	return end - pos, 0
}

// matchAnyChar consumes exactly one character (one rune, or one byte of
// invalid UTF-8).
func matchAnyChar(line string, pos int) (int, Kind) {
	_, size := utf8.DecodeRuneInString(line[pos:])
	return size, 0
}
