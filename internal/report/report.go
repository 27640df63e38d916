// ============================================================================
// minipas - Pascal subset source analyzer
// ============================================================================
//
// Package:     report
// Description: Renders analysis results as styled text, JSON or YAML
// Author:      Mike Stoffels
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	mdwerror "github.com/msto63/minipas/foundation/core/error"
	"github.com/msto63/minipas/foundation/minipas"
	"github.com/msto63/minipas/foundation/minipas/messages"
	"gopkg.in/yaml.v3"
)

// Format selects the report encoding
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat parses "text", "json" or "yaml" (case-insensitive)
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatText, nil
	default:
		return "", mdwerror.New(fmt.Sprintf("unknown report format %q", s)).
			WithCode(mdwerror.CodeInvalidInput).
			WithDetail("format", s)
	}
}

// Options controls what a report contains
type Options struct {
	Format Format

	// Locale of the report texts; resolved against the catalog
	Locale string

	// Color enables ANSI styling of the text report
	Color bool

	// ShowTokens includes the token stream
	ShowTokens bool

	// Source is echoed before the report when EchoSource is set
	Source     string
	EchoSource bool

	// Catalog overrides the embedded message catalog
	Catalog *messages.Catalog
}

// Render writes res to w in the requested format
func Render(w io.Writer, res *minipas.Result, opts Options) error {
	if opts.Format == "" {
		opts.Format = FormatText
	}

	switch opts.Format {
	case FormatJSON:
		return renderJSON(w, res, opts)
	case FormatYAML:
		return renderYAML(w, res, opts)
	case FormatText:
		return renderText(w, res, opts)
	default:
		return mdwerror.New(fmt.Sprintf("unknown report format %q", opts.Format)).
			WithCode(mdwerror.CodeInvalidInput)
	}
}

func payload(res *minipas.Result, opts Options) *minipas.Result {
	if opts.ShowTokens {
		return res
	}
	return res.WithoutTokens()
}

func renderJSON(w io.Writer, res *minipas.Result, opts Options) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload(res, opts)); err != nil {
		return mdwerror.Wrap(err, "failed to encode JSON report").WithCode(mdwerror.CodeInternal)
	}
	return nil
}

func renderYAML(w io.Writer, res *minipas.Result, opts Options) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(payload(res, opts)); err != nil {
		return mdwerror.Wrap(err, "failed to encode YAML report").WithCode(mdwerror.CodeInternal)
	}
	return enc.Close()
}

// textReport accumulates the text rendering of one result
type textReport struct {
	b       strings.Builder
	st      *styles
	catalog *messages.Catalog
	locale  string
}

func (t *textReport) text(key string, data map[string]interface{}) string {
	return t.catalog.Text(t.locale, key, data)
}

func (t *textReport) line(s string) {
	t.b.WriteString(s)
	t.b.WriteString("\n")
}

func renderText(w io.Writer, res *minipas.Result, opts Options) error {
	catalog := opts.Catalog
	if catalog == nil {
		var err error
		if catalog, err = messages.Load(); err != nil {
			return mdwerror.Wrap(err, "failed to load message catalog").WithCode(mdwerror.CodeInternal)
		}
	}

	t := &textReport{
		st:      newStyles(w, opts.Color),
		catalog: catalog,
		locale:  catalog.Resolve(opts.Locale),
	}

	name := res.Name
	if name == "" {
		name = "<stdin>"
	}
	t.line(t.st.Title.Render(t.text("report.header", map[string]interface{}{"name": name})))
	t.line("")

	if opts.EchoSource {
		t.writeSource(opts.Source)
	}
	if opts.ShowTokens {
		t.writeTokens(res)
	}

	if res.OK() {
		t.writeSuccess(res)
	} else {
		t.writeErrors(res)
	}

	_, err := io.WriteString(w, t.b.String())
	return err
}

func (t *textReport) writeSource(source string) {
	t.line(t.st.Section.Render(t.text("report.source", nil)))

	lines := strings.Split(source, "\n")
	width := len(fmt.Sprint(len(lines)))
	for i, l := range lines {
		number := t.st.LineNumber.Render(fmt.Sprintf("%*d |", width, i+1))
		t.line(number + " " + t.st.Source.Render(l))
	}
	t.line("")
}

func (t *textReport) writeTokens(res *minipas.Result) {
	t.line(t.st.Section.Render(t.catalog.Count(t.locale, "summary.tokens", len(res.Tokens))))
	for _, tok := range res.Tokens {
		t.line("  " + t.st.Muted.Render(tok.String()))
	}
	t.line("")
}

func (t *textReport) writeErrors(res *minipas.Result) {
	heading := fmt.Sprintf("%s (%s)",
		t.text("report.errors_found", nil),
		t.catalog.Count(t.locale, "summary.errors", len(res.Diagnostics)))
	t.line(t.st.Section.Render(heading))

	for _, msg := range res.Errors() {
		t.line(t.st.Bullet.Render("- ") + t.st.Error.Render(msg))
	}
	t.line("")

	if res.SemanticSkipped {
		t.line(t.st.Notice.Render(t.text("report.semantic_skipped", nil)))
	}
	t.line(t.st.Failure.Render(t.text("report.failed", nil)))
}

func (t *textReport) writeSuccess(res *minipas.Result) {
	t.line(t.st.Success.Render(t.text("report.success", nil)))
	t.line("")

	heading := fmt.Sprintf("%s (%s)",
		t.text("report.symbol_table", nil),
		t.catalog.Count(t.locale, "summary.symbols", len(res.Symbols)))
	t.line(t.st.Section.Render(heading))

	if len(res.Symbols) == 0 {
		t.line(t.st.Muted.Render(t.text("report.empty_table", nil)))
		return
	}
	t.line(t.symbolTable(res))
}

// symbolTable renders the declared symbols as a two-column table sorted by name
func (t *textReport) symbolTable(res *minipas.Result) string {
	view := res.SymbolTable()
	rows := make([][]string, 0, view.Len())
	for _, name := range view.Names() {
		typeName, _ := view.Lookup(name)
		rows = append(rows, []string{name, typeName})
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(t.st.Border).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return t.st.Header
			}
			return t.st.Cell
		}).
		Headers(t.text("report.column_id", nil), t.text("report.column_type", nil)).
		Rows(rows...)

	return tbl.Render()
}
