// File: i18n.go
// Title: Core Internationalization Implementation
// Description: Implements the i18n Manager: loading TOML and YAML language
//              files from a file system, template interpolation and simple
//              pluralization, with per-call locale selection.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-25 v0.1.0: Initial implementation with TOML/YAML support
// - 2025-07-26 v0.1.1: Fixed template cache collision issue in pluralization
// - 2026-10-19 v0.2.0: Catalogs load from fs.FS (embed); Translate takes an
//                       explicit locale; file watching removed

package i18n

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"
	"text/template"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	mdwerror "github.com/msto63/minipas/foundation/core/error"
	"github.com/msto63/minipas/foundation/utils/stringx"
)

// Format represents the language file format
type Format int

const (
	// FormatAuto detects the format from the file extension
	FormatAuto Format = iota

	// FormatTOML represents TOML format
	FormatTOML

	// FormatYAML represents YAML format
	FormatYAML
)

// String returns the string representation of the format
func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	case FormatAuto:
		return "auto"
	default:
		return "unknown"
	}
}

// Options defines configuration options for the i18n manager
type Options struct {
	DefaultLocale string // Default locale (e.g., "en")
	FS            fs.FS  // File system holding the language files
	Dir           string // Directory inside FS (default: ".")
	Format        Format // Restrict to one file format (default: auto)
	NoFallback    bool   // Disable fallback to the default locale
}

// Manager holds the translations of all locales found in a file system.
// It is safe for concurrent use.
type Manager struct {
	mu            sync.RWMutex
	defaultLocale string
	currentLocale string
	fallback      bool
	translations  map[string]TranslationData

	tmplMu    sync.Mutex
	templates map[string]*template.Template
}

// TranslationData represents the structure of a translation file
type TranslationData map[string]interface{}

// New creates a new i18n manager and loads every language file in opts.Dir
func New(opts Options) (*Manager, error) {
	if stringx.IsBlank(opts.DefaultLocale) {
		return nil, mdwerror.New("default locale cannot be empty").
			WithCode(mdwerror.CodeValidationFailed).
			WithOperation("i18n.New")
	}
	if opts.FS == nil {
		return nil, mdwerror.New("locale file system is required").
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("i18n.New")
	}
	if stringx.IsBlank(opts.Dir) {
		opts.Dir = "."
	}

	m := &Manager{
		defaultLocale: opts.DefaultLocale,
		currentLocale: opts.DefaultLocale,
		fallback:      !opts.NoFallback,
		translations:  make(map[string]TranslationData),
		templates:     make(map[string]*template.Template),
	}

	if err := m.loadAll(opts.FS, opts.Dir, opts.Format); err != nil {
		return nil, mdwerror.Wrap(err, "failed to load locales").
			WithCode(mdwerror.CodeConfigError).
			WithOperation("i18n.New").
			WithDetail("dir", opts.Dir)
	}

	return m, nil
}

func (m *Manager) loadAll(fsys fs.FS, dir string, format Format) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return fmt.Errorf("failed to read locales directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		fileFormat, ok := formatFromExt(path.Ext(name))
		if !ok || (format != FormatAuto && format != fileFormat) {
			continue
		}

		locale := ParseLocaleFromFilename(name)
		if locale == "" {
			continue
		}

		content, err := fs.ReadFile(fsys, path.Join(dir, name))
		if err != nil {
			return fmt.Errorf("failed to read locale file %s: %w", name, err)
		}

		data, err := parse(content, fileFormat)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", name, err)
		}
		m.translations[locale] = data
	}

	if _, exists := m.translations[m.defaultLocale]; !exists {
		return fmt.Errorf("default locale '%s' not found", m.defaultLocale)
	}

	return nil
}

func formatFromExt(ext string) (Format, bool) {
	switch strings.ToLower(ext) {
	case ".toml":
		return FormatTOML, true
	case ".yaml", ".yml":
		return FormatYAML, true
	default:
		return FormatAuto, false
	}
}

func parse(content []byte, format Format) (TranslationData, error) {
	var data TranslationData
	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(content, &data); err != nil {
			return nil, err
		}
	case FormatYAML:
		if err := yaml.Unmarshal(content, &data); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported format %s", format)
	}
	return data, nil
}

// T translates a key in the current locale with optional template data
func (m *Manager) T(key string, data ...map[string]interface{}) string {
	translation, _ := m.TryT(key, data...)
	return translation
}

// TryT translates a key in the current locale and reports failures
func (m *Manager) TryT(key string, data ...map[string]interface{}) (string, error) {
	return m.Translate(m.GetCurrentLocale(), key, firstData(data))
}

// Translate renders key in the given locale. When the translation is
// missing the key itself is returned together with a NOT_FOUND error.
func (m *Manager) Translate(locale, key string, data map[string]interface{}) (string, error) {
	m.mu.RLock()
	translation, resolved := m.lookup(key, locale)
	m.mu.RUnlock()

	if translation == "" {
		return key, mdwerror.New("translation not found").
			WithCode(mdwerror.CodeNotFound).
			WithOperation("i18n.Translate").
			WithDetail("key", key).
			WithDetail("locale", locale)
	}

	if data == nil {
		return translation, nil
	}

	rendered, err := m.render(resolved+":"+key, translation, data)
	if err != nil {
		return translation, mdwerror.Wrap(err, "template rendering failed").
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("i18n.Translate").
			WithDetail("key", key)
	}
	return rendered, nil
}

// TWithFallback translates a key, rendering fallbackMsg when it is missing
func (m *Manager) TWithFallback(key, fallbackMsg string, data ...map[string]interface{}) string {
	if translation, err := m.TryT(key, data...); err == nil {
		return translation
	}

	if d := firstData(data); d != nil {
		if rendered, err := m.render("fallback:"+key, fallbackMsg, d); err == nil {
			return rendered
		}
	}
	return fallbackMsg
}

// Plural returns the plural form of key matching count in the given locale.
// A list value in the language file holds the forms; a string is used as is.
func (m *Manager) Plural(locale, key string, count int, data map[string]interface{}) string {
	m.mu.RLock()
	raw := m.rawValue(locale, key)
	if raw == nil && m.fallback && locale != m.defaultLocale {
		locale = m.defaultLocale
		raw = m.rawValue(locale, key)
	}
	m.mu.RUnlock()

	if raw == nil {
		return fmt.Sprintf("[%s]", key)
	}

	forms := pluralForms(raw)
	index := pluralIndex(count, locale)
	if index >= len(forms) {
		index = len(forms) - 1
	}

	if data == nil {
		data = map[string]interface{}{}
	}
	if _, ok := data["count"]; !ok {
		data["count"] = count
	}

	cacheKey := fmt.Sprintf("%s:%s#%d", locale, key, index)
	if rendered, err := m.render(cacheKey, forms[index], data); err == nil {
		return rendered
	}
	return forms[index]
}

// lookup must be called with the read lock held
func (m *Manager) lookup(key, locale string) (string, string) {
	if translations, exists := m.translations[locale]; exists {
		if value := nestedString(translations, key); value != "" {
			return value, locale
		}
	}

	if m.fallback && locale != m.defaultLocale {
		if value := nestedString(m.translations[m.defaultLocale], key); value != "" {
			return value, m.defaultLocale
		}
	}

	return "", ""
}

// rawValue must be called with the read lock held
func (m *Manager) rawValue(locale, key string) interface{} {
	translations, exists := m.translations[locale]
	if !exists {
		return nil
	}
	return nestedRaw(translations, key)
}

func nestedRaw(data map[string]interface{}, key string) interface{} {
	current := data
	keys := strings.Split(key, ".")

	for i, k := range keys {
		value, ok := current[k]
		if !ok {
			return nil
		}
		if i == len(keys)-1 {
			return value
		}

		switch next := value.(type) {
		case map[string]interface{}:
			current = next
		case TranslationData:
			current = next
		default:
			return nil
		}
	}

	return nil
}

func nestedString(data map[string]interface{}, key string) string {
	switch value := nestedRaw(data, key).(type) {
	case nil:
		return ""
	case string:
		return value
	case []interface{}:
		if len(value) > 0 {
			return fmt.Sprintf("%v", value[0])
		}
		return ""
	case map[string]interface{}, TranslationData:
		return ""
	default:
		return fmt.Sprintf("%v", value)
	}
}

func (m *Manager) render(cacheKey, text string, data map[string]interface{}) (string, error) {
	m.tmplMu.Lock()
	tmpl, exists := m.templates[cacheKey]
	if !exists {
		var err error
		tmpl, err = template.New(cacheKey).Option("missingkey=zero").Parse(text)
		if err != nil {
			m.tmplMu.Unlock()
			return text, fmt.Errorf("template compilation failed: %w", err)
		}
		m.templates[cacheKey] = tmpl
	}
	m.tmplMu.Unlock()

	var out strings.Builder
	if err := tmpl.Execute(&out, data); err != nil {
		return text, fmt.Errorf("template execution failed: %w", err)
	}
	return out.String(), nil
}

func pluralForms(value interface{}) []string {
	if arr, ok := value.([]interface{}); ok && len(arr) > 0 {
		forms := make([]string, len(arr))
		for i, v := range arr {
			forms[i] = fmt.Sprintf("%v", v)
		}
		return forms
	}
	return []string{fmt.Sprintf("%v", value)}
}

// pluralIndex returns 0 for the singular form and 1 for the plural form.
func pluralIndex(count int, locale string) int {
	language, _ := SplitLocale(locale)
	switch language {
	case "fr", "pt":
		if count <= 1 {
			return 0
		}
		return 1
	default:
		if count == 1 {
			return 0
		}
		return 1
	}
}

func firstData(data []map[string]interface{}) map[string]interface{} {
	if len(data) > 0 {
		return data[0]
	}
	return nil
}

// SetLocale changes the current locale
func (m *Manager) SetLocale(locale string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.translations[locale]; !exists {
		return mdwerror.New("locale not available").
			WithCode(mdwerror.CodeNotFound).
			WithOperation("i18n.SetLocale").
			WithDetail("locale", locale)
	}

	m.currentLocale = locale
	return nil
}

// GetCurrentLocale returns the current active locale
func (m *Manager) GetCurrentLocale() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currentLocale
}

// GetDefaultLocale returns the default locale
func (m *Manager) GetDefaultLocale() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultLocale
}

// GetAvailableLocales returns the sorted list of loaded locales
func (m *Manager) GetAvailableLocales() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	locales := make([]string, 0, len(m.translations))
	for locale := range m.translations {
		locales = append(locales, locale)
	}
	sort.Strings(locales)
	return locales
}

// HasLocale checks if a locale is available
func (m *Manager) HasLocale(locale string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, exists := m.translations[locale]
	return exists
}

// HasTranslation checks if key resolves in locale (fallback included)
func (m *Manager) HasTranslation(locale, key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, _ := m.lookup(key, locale)
	return value != ""
}

// Keys returns all leaf keys of a locale in dot notation, sorted
func (m *Manager) Keys(locale string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	translations := m.translations[locale]
	if translations == nil {
		return nil
	}

	keys := collectKeys(translations, "")
	sort.Strings(keys)
	return keys
}

func collectKeys(data map[string]interface{}, prefix string) []string {
	var keys []string

	for key, value := range data {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		switch nested := value.(type) {
		case map[string]interface{}:
			keys = append(keys, collectKeys(nested, fullKey)...)
		case TranslationData:
			keys = append(keys, collectKeys(nested, fullKey)...)
		default:
			keys = append(keys, fullKey)
		}
	}

	return keys
}

// String provides a readable representation of the manager
func (m *Manager) String() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return fmt.Sprintf("i18n.Manager{defaultLocale: %s, currentLocale: %s, fallback: %t, locales: %d}",
		m.defaultLocale, m.currentLocale, m.fallback, len(m.translations))
}
