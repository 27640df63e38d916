// File: render.go
// Title: Diagnostic Message Rendering
// Description: Renderer interface and the built-in English messages.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package diag

import "fmt"

// Renderer turns a diagnostic into its human-readable message
type Renderer interface {
	Render(d Diagnostic) string
}

// RendererFunc adapts a function to the Renderer interface
type RendererFunc func(d Diagnostic) string

// Render calls f(d)
func (f RendererFunc) Render(d Diagnostic) string {
	return f(d)
}

var builtin = map[Reason]string{
	ReasonInvalidKeyword:       "Lexical error on line %d: invalid keyword '%s', check spelling.",
	ReasonInvalidAssignment:    "Assignment error on line %d: invalid assignment operator '%s', use ':=' instead.",
	ReasonUnknownCharacter:     "Lexical error on line %d: unknown character '%s'.",
	ReasonUndeclaredIdentifier: "Semantic error on line %d: identifier '%s' used but not declared.",
}

// DefaultRenderer returns the English built-in renderer
func DefaultRenderer() Renderer {
	return RendererFunc(renderBuiltin)
}

func renderBuiltin(d Diagnostic) string {
	format, ok := builtin[d.Reason]
	if !ok {
		return fmt.Sprintf("Error on line %d: '%s'.", d.Line, d.Lexeme)
	}
	return fmt.Sprintf(format, d.Line, d.Lexeme)
}
