// File: diag.go
// Title: Analysis Diagnostics
// Description: Diagnostic records produced by the tokenizer and the semantic
//              checker, their categories and the ordered collection they are
//              accumulated in.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package diag

import (
	"fmt"
	"strings"

	mdwerror "github.com/msto63/minipas/foundation/core/error"
)

// Category groups diagnostics by the analysis stage that raised them
type Category int

const (
	// CategoryLexical covers misspelled keywords and unknown characters
	CategoryLexical Category = iota

	// CategoryAssignment covers '=' used where ':=' is expected
	CategoryAssignment

	// CategorySemantic covers identifiers used without declaration
	CategorySemantic
)

// String returns the lower-case category name
func (c Category) String() string {
	switch c {
	case CategoryLexical:
		return "lexical"
	case CategoryAssignment:
		return "assignment"
	case CategorySemantic:
		return "semantic"
	default:
		return "unknown"
	}
}

// Code maps the category to its error code
func (c Category) Code() mdwerror.Code {
	switch c {
	case CategoryLexical:
		return mdwerror.CodeLexical
	case CategoryAssignment:
		return mdwerror.CodeAssignment
	case CategorySemantic:
		return mdwerror.CodeSemantic
	default:
		return mdwerror.CodeUnknown
	}
}

// MarshalText encodes the category by name
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText decodes a category name
func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseCategory looks up a category by its name (case-insensitive)
func ParseCategory(name string) (Category, error) {
	lower := strings.ToLower(strings.TrimSpace(name))
	for _, c := range []Category{CategoryLexical, CategoryAssignment, CategorySemantic} {
		if c.String() == lower {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown diagnostic category %q", name)
}

// Reason identifies the exact condition behind a diagnostic
type Reason int

const (
	ReasonInvalidKeyword Reason = iota
	ReasonInvalidAssignment
	ReasonUnknownCharacter
	ReasonUndeclaredIdentifier
)

// Category returns the category the reason belongs to
func (r Reason) Category() Category {
	switch r {
	case ReasonInvalidAssignment:
		return CategoryAssignment
	case ReasonUndeclaredIdentifier:
		return CategorySemantic
	default:
		return CategoryLexical
	}
}

// Key returns the message catalog key of the reason
func (r Reason) Key() string {
	switch r {
	case ReasonInvalidKeyword:
		return "invalid_keyword"
	case ReasonInvalidAssignment:
		return "invalid_assignment"
	case ReasonUnknownCharacter:
		return "unknown_character"
	case ReasonUndeclaredIdentifier:
		return "undeclared_identifier"
	default:
		return "unknown"
	}
}

// String returns the catalog key
func (r Reason) String() string {
	return r.Key()
}

// MarshalText encodes the reason by its catalog key
func (r Reason) MarshalText() ([]byte, error) {
	return []byte(r.Key()), nil
}

// UnmarshalText decodes a catalog key
func (r *Reason) UnmarshalText(text []byte) error {
	parsed, err := ParseReason(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// ParseReason looks up a reason by its catalog key
func ParseReason(key string) (Reason, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, r := range []Reason{ReasonInvalidKeyword, ReasonInvalidAssignment, ReasonUnknownCharacter, ReasonUndeclaredIdentifier} {
		if r.Key() == key {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown diagnostic reason %q", key)
}

// Diagnostic is one recorded analysis error
type Diagnostic struct {
	Category Category `json:"category" yaml:"category"`
	Reason   Reason   `json:"reason" yaml:"reason"`
	Line     int      `json:"line" yaml:"line"`
	Lexeme   string   `json:"lexeme" yaml:"lexeme"`
	Message  string   `json:"message" yaml:"message"`
}

// Code returns the error code of the diagnostic's category
func (d Diagnostic) Code() mdwerror.Code {
	return d.Category.Code()
}

// Err converts the diagnostic into a coded error
func (d Diagnostic) Err() error {
	return mdwerror.New(d.Message).
		WithCode(d.Category.Code()).
		WithOperation("minipas.analyze").
		WithDetail("line", d.Line).
		WithDetail("lexeme", d.Lexeme).
		WithDetail("reason", d.Reason.Key())
}

// String returns the rendered message
func (d Diagnostic) String() string {
	return d.Message
}

// Sink receives diagnostics as they are found
type Sink interface {
	Report(reason Reason, line int, lexeme string)
}

// List accumulates diagnostics in arrival order and renders each message
// when it is reported. It implements Sink.
type List struct {
	renderer Renderer
	items    []Diagnostic
}

// NewList creates an empty list. A nil renderer selects the English
// built-in messages.
func NewList(renderer Renderer) *List {
	if renderer == nil {
		renderer = DefaultRenderer()
	}
	return &List{renderer: renderer}
}

// Report records a diagnostic
func (l *List) Report(reason Reason, line int, lexeme string) {
	d := Diagnostic{
		Category: reason.Category(),
		Reason:   reason,
		Line:     line,
		Lexeme:   lexeme,
	}
	d.Message = l.renderer.Render(d)
	l.items = append(l.items, d)
}

// Len returns the number of diagnostics recorded so far
func (l *List) Len() int {
	return len(l.items)
}

// Empty reports whether nothing has been recorded
func (l *List) Empty() bool {
	return len(l.items) == 0
}

// Items returns a copy of the diagnostics in arrival order
func (l *List) Items() []Diagnostic {
	out := make([]Diagnostic, len(l.items))
	copy(out, l.items)
	return out
}

// Messages returns the rendered messages in arrival order
func (l *List) Messages() []string {
	return Messages(l.items)
}

// Messages extracts the rendered messages of diagnostics
func Messages(diagnostics []Diagnostic) []string {
	out := make([]string, len(diagnostics))
	for i, d := range diagnostics {
		out[i] = d.Message
	}
	return out
}

// CountByCategory tallies diagnostics per category
func CountByCategory(diagnostics []Diagnostic) map[Category]int {
	counts := make(map[Category]int)
	for _, d := range diagnostics {
		counts[d.Category]++
	}
	return counts
}
