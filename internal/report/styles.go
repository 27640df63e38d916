// ============================================================================
// minipas - Pascal subset source analyzer
// ============================================================================
//
// Package:     report
// Description: Lipgloss styles for the text report
// Author:      Mike Stoffels
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package report

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Colors
var (
	colorPrimary   = lipgloss.Color("#7C3AED")
	colorSecondary = lipgloss.Color("#10B981")
	colorAccent    = lipgloss.Color("#F59E0B")
	colorError     = lipgloss.Color("#EF4444")
	colorMuted     = lipgloss.Color("#6B7280")
)

// styles holds the report styles bound to one output renderer
type styles struct {
	renderer *lipgloss.Renderer

	Title      lipgloss.Style
	Section    lipgloss.Style
	LineNumber lipgloss.Style
	Source     lipgloss.Style
	Bullet     lipgloss.Style
	Error      lipgloss.Style
	Notice     lipgloss.Style
	Success    lipgloss.Style
	Failure    lipgloss.Style
	Muted      lipgloss.Style
	Border     lipgloss.Style
	Header     lipgloss.Style
	Cell       lipgloss.Style
}

// newStyles builds styles for w. Without color every style renders plain text.
func newStyles(w io.Writer, color bool) *styles {
	r := lipgloss.NewRenderer(w)
	if !color {
		r.SetColorProfile(termenv.Ascii)
	}

	return &styles{
		renderer: r,

		Title: r.NewStyle().
			Bold(true).
			Foreground(colorPrimary),

		Section: r.NewStyle().
			Bold(true).
			Underline(true).
			Foreground(colorAccent),

		LineNumber: r.NewStyle().
			Foreground(colorMuted),

		Source: r.NewStyle(),

		Bullet: r.NewStyle().
			Foreground(colorError).
			PaddingLeft(2),

		Error: r.NewStyle().
			Foreground(colorError),

		Notice: r.NewStyle().
			Foreground(colorMuted).
			Italic(true),

		Success: r.NewStyle().
			Bold(true).
			Foreground(colorSecondary),

		Failure: r.NewStyle().
			Bold(true).
			Foreground(colorError),

		Muted: r.NewStyle().
			Foreground(colorMuted),

		Border: r.NewStyle().
			Foreground(colorMuted),

		Header: r.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			Padding(0, 1),

		Cell: r.NewStyle().
			Padding(0, 1),
	}
}
