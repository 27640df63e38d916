// File: doc.go
// Title: Internationalization (i18n) Package Documentation
// Description: Package i18n provides message catalogs loaded from TOML and
//              YAML language files with template interpolation.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-25 v0.1.0: Initial implementation with TOML/YAML support
// - 2026-10-19 v0.2.0: fs.FS loading, explicit-locale Translate

/*
Package i18n provides message catalogs for minipas.

Language files are named after their locale ("en.toml", "pt.yaml") and are
read from any fs.FS, usually an embed.FS compiled into the binary. Values are
text/template strings; nested tables are addressed with dot notation.

	# en.toml
	[diagnostic]
	unknown_character = "Lexical error on line {{.line}}: unknown character '{{.lexeme}}'."

	//go:embed locales
	var locales embed.FS

	m, err := i18n.New(i18n.Options{DefaultLocale: "en", FS: locales, Dir: "locales"})
	msg, err := m.Translate("pt", "diagnostic.unknown_character",
		map[string]interface{}{"line": 3, "lexeme": "#"})

Translate never mutates the manager, so one Manager can serve concurrent
requests in different locales. Missing keys fall back to the default locale
unless Options.NoFallback is set.

Plural forms are lists:

	[summary]
	errors = ["{{.count}} error", "{{.count}} errors"]
*/
package i18n
