// File: lexer.go
// Title: Tokenizer
// Description: Line-oriented scanner turning minipas source text into tokens
//              and reporting lexical and assignment errors.
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

	mdwlog "github.com/msto63/minipas/foundation/core/log"
	"github.com/msto63/minipas/foundation/minipas/diag"
)

// Options configures a Lexer
type Options struct {
	Logger *mdwlog.Logger
}

// Lexer tokenizes source text. It holds no per-run state and can be
// shared.
type Lexer struct {
	logger *mdwlog.Logger
}

// New creates a lexer
func New(opts Options) *Lexer {
	logger := opts.Logger
	if logger == nil {
		logger = mdwlog.Discard()
	}
	return &Lexer{logger: logger.WithField("component", "minipas-lexer")}
}

// Tokenize scans source with a lexer that does not log
func Tokenize(source string, sink diag.Sink) []Token {
	return New(Options{}).Tokenize(source, sink)
}

// Tokenize splits source on '\n' and scans each line left to right.
// Errors go to sink; scanning always continues to the end of the input.
// Whitespace and rejected lexemes do not appear in the result.
func (l *Lexer) Tokenize(source string, sink diag.Sink) []Token {
	var tokens []Token
	tracing := l.logger.IsLevelEnabled(mdwlog.LevelTrace)

	for i, line := range strings.Split(source, "\n") {
		lineNo := i + 1

		for pos := 0; pos < len(line); {
			n, kind, r := firstMatch(line, pos)
			text := line[pos : pos+n]
			pos += n

			switch r.outcome {
			case skip:
				continue
			case reject:
				sink.Report(r.reason, lineNo, text)
				if tracing {
					l.logger.Trace("lexeme rejected", mdwlog.Fields{"rule": r.name, "text": text, "line": lineNo})
				}
				continue
			}

			tok := Token{Kind: kind, Text: text, Line: lineNo}
			tokens = append(tokens, tok)

			if kind == ID && misspelled[text] {
				sink.Report(diag.ReasonInvalidKeyword, lineNo, text)
			}
			if tracing {
				l.logger.Trace("token", mdwlog.Fields{"rule": r.name, "token": tok.String()})
			}
		}
	}

	return tokens
}

func firstMatch(line string, pos int) (int, Kind, rule) {
	for _, r := range rules {
		if n, kind := r.match(line, pos); n > 0 {
			return n, kind, r
		}
	}
	// unreachable: the unknown-character rule matches any non-empty input
	last := rules[len(rules)-1]
	return 1, 0, last
}
