// ============================================================================
// minipas - Pascal subset source analyzer
// ============================================================================
//
// Package:     inspector
// Description: Styles for the inspector TUI
// Author:      Mike Stoffels
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package inspector

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/msto63/minipas/foundation/minipas/diag"
	"github.com/msto63/minipas/foundation/minipas/lexer"
)

// Color Palette
var (
	ColorPrimary   = lipgloss.Color("#8B5CF6") // Violet
	ColorSecondary = lipgloss.Color("#06B6D4") // Cyan
	ColorAccent    = lipgloss.Color("#F59E0B") // Amber
	ColorSuccess   = lipgloss.Color("#10B981") // Emerald
	ColorError     = lipgloss.Color("#EF4444") // Red
	ColorMuted     = lipgloss.Color("#6B7280") // Gray
	ColorDimmed    = lipgloss.Color("#374151") // Dark Gray
	ColorText      = lipgloss.Color("#F8FAFC") // Slate 50
	ColorTextDim   = lipgloss.Color("#64748B") // Slate 500
)

// Header styles
var (
	LogoStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	SubHeaderStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim).
			Italic(true)

	StatusOKStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Bold(true)

	StatusFailedStyle = lipgloss.NewStyle().
				Foreground(ColorError).
				Bold(true)
)

// Tab styles
var (
	TabStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(ColorMuted)

	ActiveTabStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(ColorPrimary).
			Bold(true).
			Underline(true)
)

// Content styles
var (
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorDimmed)

	LineNumberStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)

	KeywordStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	IdentifierStyle = lipgloss.NewStyle().
			Foreground(ColorSecondary)

	LiteralStyle = lipgloss.NewStyle().
			Foreground(ColorAccent)

	PunctuationStyle = lipgloss.NewStyle().
				Foreground(ColorMuted)

	LexicalStyle = lipgloss.NewStyle().
			Foreground(ColorAccent)

	SemanticStyle = lipgloss.NewStyle().
			Foreground(ColorError)

	SymbolNameStyle = lipgloss.NewStyle().
			Foreground(ColorSecondary).
			Bold(true)

	SymbolTypeStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	EmptyStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Italic(true)
)

// Help styles
var (
	HelpStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			MarginTop(1)

	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(ColorSecondary).
			Bold(true)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)
)

// Logo
const Logo = "minipas inspector"

// RenderKeyHint renders a keyboard shortcut hint
func RenderKeyHint(key, description string) string {
	return HelpKeyStyle.Render(key) + " " + HelpDescStyle.Render(description)
}

// RenderKind renders a token kind badge colored by token class
func RenderKind(kind lexer.Kind) string {
	label := lipgloss.NewStyle().Width(10).Render(kind.String())
	switch {
	case kind.IsKeyword():
		return KeywordStyle.Render(label)
	case kind == lexer.ID:
		return IdentifierStyle.Render(label)
	case kind == lexer.NUMBER:
		return LiteralStyle.Render(label)
	default:
		return PunctuationStyle.Render(label)
	}
}

// RenderCategory renders a diagnostic category badge
func RenderCategory(c diag.Category) string {
	label := "[" + c.String() + "]"
	if c == diag.CategorySemantic {
		return SemanticStyle.Render(label)
	}
	return LexicalStyle.Render(label)
}
