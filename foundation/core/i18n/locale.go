// File: locale.go
// Title: Locale Detection and Normalization
// Description: Locale string handling and Accept-Language based detection.
// Author: msto63
// Version: v0.1.1
// Created: 2025-01-25
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-25 v0.1.0: Initial implementation with locale detection
// - 2026-10-19 v0.1.1: Removed display-name tables

package i18n

import (
	"path"
	"sort"
	"strconv"
	"strings"

	mdwerror "github.com/msto63/minipas/foundation/core/error"
	"github.com/msto63/minipas/foundation/utils/stringx"
)

// LocalePreference represents a locale preference with quality score
type LocalePreference struct {
	Locale  string  // Locale code (e.g., "en", "pt-BR")
	Quality float64 // Quality score (0.0 - 1.0)
}

// DetectLocale picks the best available locale for an Accept-Language
// header, falling back to the default locale.
func (m *Manager) DetectLocale(acceptLanguage string) string {
	if stringx.IsBlank(acceptLanguage) {
		return m.GetDefaultLocale()
	}

	preferences := ParseAcceptLanguage(acceptLanguage)
	if best := bestMatch(preferences, m.GetAvailableLocales()); best != "" {
		return best
	}
	return m.GetDefaultLocale()
}

// ParseAcceptLanguage parses an Accept-Language header, highest quality first
func ParseAcceptLanguage(header string) []LocalePreference {
	var preferences []LocalePreference

	for _, part := range strings.Split(header, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		locale := part
		quality := 1.0

		if idx := strings.Index(part, ";"); idx >= 0 {
			locale = strings.TrimSpace(part[:idx])
			for _, param := range strings.Split(part[idx+1:], ";") {
				param = strings.TrimSpace(param)
				if strings.HasPrefix(param, "q=") {
					if q, err := strconv.ParseFloat(strings.TrimPrefix(param, "q="), 64); err == nil {
						quality = q
					}
					break
				}
			}
		}

		if locale != "" && locale != "*" {
			preferences = append(preferences, LocalePreference{Locale: locale, Quality: quality})
		}
	}

	sort.SliceStable(preferences, func(i, j int) bool {
		return preferences[i].Quality > preferences[j].Quality
	})

	return preferences
}

func bestMatch(preferences []LocalePreference, available []string) string {
	for _, pref := range preferences {
		wanted := NormalizeLocale(pref.Locale)
		if wanted == "" {
			continue
		}

		for _, locale := range available {
			if strings.EqualFold(locale, wanted) {
				return locale
			}
		}

		// "pt-BR" matches "pt"
		language, _ := SplitLocale(wanted)
		for _, locale := range available {
			if strings.EqualFold(locale, language) {
				return locale
			}
		}
	}

	return ""
}

// NormalizeLocale normalizes a locale string to "ll" or "ll-CC"
func NormalizeLocale(locale string) string {
	if stringx.IsBlank(locale) {
		return ""
	}

	locale = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(locale)), "_", "-")
	parts := strings.Split(locale, "-")

	language := parts[0]
	if len(language) != 2 && len(language) != 3 {
		return ""
	}

	if len(parts) > 1 && len(parts[1]) == 2 {
		return language + "-" + strings.ToUpper(parts[1])
	}

	return language
}

// ValidateLocale validates if a locale string is in valid format
func ValidateLocale(locale string) error {
	if stringx.IsBlank(locale) {
		return mdwerror.New("locale cannot be empty").
			WithCode(mdwerror.CodeValidationFailed).
			WithOperation("i18n.ValidateLocale")
	}

	if NormalizeLocale(locale) == "" {
		return mdwerror.New("invalid locale format").
			WithCode(mdwerror.CodeValidationFailed).
			WithOperation("i18n.ValidateLocale").
			WithDetail("locale", locale).
			WithDetail("expected_format", "e.g., 'en', 'pt-BR'")
	}

	return nil
}

// SplitLocale splits a locale into language and country parts
func SplitLocale(locale string) (language, country string) {
	normalized := NormalizeLocale(locale)
	if normalized == "" {
		return "", ""
	}

	language, country, _ = strings.Cut(normalized, "-")
	return language, country
}

// ParseLocaleFromFilename extracts the locale from a file name ("pt_BR.yaml" -> "pt-BR")
func ParseLocaleFromFilename(filename string) string {
	name := strings.TrimSuffix(path.Base(filename), path.Ext(filename))
	return NormalizeLocale(strings.ReplaceAll(name, "_", "-"))
}
