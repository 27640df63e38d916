// File: messages.go
// Title: Localized Message Catalog
// Description: Embedded English and Portuguese catalogs for diagnostics and
//              report texts, and the diag.Renderer backed by them.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

// Package messages provides the localized texts of minipas.
package messages

import (
	"embed"
	"sync"

	"github.com/msto63/minipas/foundation/core/i18n"
	"github.com/msto63/minipas/foundation/minipas/diag"
)

// DefaultLocale is used when no locale is requested
const DefaultLocale = "en"

//go:embed locales
var locales embed.FS

var (
	loadOnce sync.Once
	loaded   *Catalog
	loadErr  error
)

// Catalog gives access to the embedded message catalogs
type Catalog struct {
	manager *i18n.Manager
}

// Load returns the embedded catalog. Parsing happens once per process.
func Load() (*Catalog, error) {
	loadOnce.Do(func() {
		var m *i18n.Manager
		m, loadErr = i18n.New(i18n.Options{
			DefaultLocale: DefaultLocale,
			FS:            locales,
			Dir:           "locales",
		})
		if loadErr == nil {
			loaded = &Catalog{manager: m}
		}
	})
	return loaded, loadErr
}

// Locales lists the available locales
func (c *Catalog) Locales() []string {
	return c.manager.GetAvailableLocales()
}

// Has reports whether locale has a catalog
func (c *Catalog) Has(locale string) bool {
	return c.manager.HasLocale(locale)
}

// Resolve maps a requested locale ("pt_BR", "pt-BR", "") to an available one,
// falling back to the default locale.
func (c *Catalog) Resolve(locale string) string {
	normalized := i18n.NormalizeLocale(locale)
	if normalized == "" {
		return DefaultLocale
	}
	if c.Has(normalized) {
		return normalized
	}
	if language, _ := i18n.SplitLocale(normalized); c.Has(language) {
		return language
	}
	return DefaultLocale
}

// Detect picks a locale from an HTTP Accept-Language header
func (c *Catalog) Detect(acceptLanguage string) string {
	return c.manager.DetectLocale(acceptLanguage)
}

// Text renders a report text in locale
func (c *Catalog) Text(locale, key string, data map[string]interface{}) string {
	text, _ := c.manager.Translate(locale, key, data)
	return text
}

// Count renders a pluralized summary text ("3 errors")
func (c *Catalog) Count(locale, key string, n int) string {
	return c.manager.Plural(locale, key, n, nil)
}

// Renderer returns a diag.Renderer producing messages in locale
func (c *Catalog) Renderer(locale string) diag.Renderer {
	return &renderer{catalog: c, locale: c.Resolve(locale)}
}

type renderer struct {
	catalog *Catalog
	locale  string
}

func (r *renderer) Render(d diag.Diagnostic) string {
	msg, err := r.catalog.manager.Translate(r.locale, "diagnostic."+d.Reason.Key(), map[string]interface{}{
		"line":   d.Line,
		"lexeme": d.Lexeme,
	})
	if err != nil {
		return diag.DefaultRenderer().Render(d)
	}
	return msg
}
