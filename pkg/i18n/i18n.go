// Package i18n holds the site's compiled-in UI strings and money formatting.
// Lookup order: requested language, then English, then the key itself.
package i18n

import "fmt"

// DefaultLang is used when a key has no entry for the requested language
const DefaultLang = "en"

// Translate returns the string for key in lang, formatted with args when given
func Translate(key, lang string, args ...interface{}) string {
	if lang == "" {
		lang = DefaultLang
	}

	langMap, ok := translations[key]
	if !ok {
		// Unknown keys surface as themselves so they are easy to spot.
		return key
	}

	tmpl, ok := langMap[lang]
	if !ok {
		tmpl, ok = langMap[DefaultLang]
		if !ok {
			return key
		}
	}

	if len(args) == 0 {
		return tmpl
	}
	return fmt.Sprintf(tmpl, args...)
}

// Has reports whether key exists at all
func Has(key string) bool {
	_, ok := translations[key]
	return ok
}
