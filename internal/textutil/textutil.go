// Package textutil provides text normalization helpers for feed fields,
// category slugs, and synthetic SKUs.
package textutil

import (
	"html"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// accentStripper decomposes characters and drops combining marks, so
	// "Kábelek" becomes "Kabelek".
	accentStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

	tagPattern      = regexp.MustCompile(`<.*?>`)
	repeatedHyphens = regexp.MustCompile(`-{2,}`)
)

// RemoveAccents strips diacritical marks from the input. Sharp s has no
// combining-mark decomposition and is expanded to "ss" explicitly.
func RemoveAccents(s string) string {
	s = strings.ReplaceAll(s, "ß", "ss")
	out, _, err := transform.String(accentStripper, s)
	if err != nil {
		return s
	}
	return out
}

// Slugify derives a URL-safe slug from a category name: diacritics
// stripped, spaces hyphenated, ampersands spelled out as "es", lowercased.
func Slugify(name string) string {
	s := RemoveAccents(name)
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "&", "es")
	return strings.ToLower(s)
}

// SanitizeSKU reduces a raw external SKU to ASCII letters, digits,
// hyphens and underscores. Whitespace becomes a hyphen, runs of hyphens
// collapse, edge hyphens are trimmed, and the result is capped at 64
// characters. Returns "" when nothing usable remains.
func SanitizeSKU(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	var b strings.Builder
	for _, r := range RemoveAccents(raw) {
		if unicode.IsSpace(r) {
			r = '-'
		}
		if isAllowedSKURune(r) {
			b.WriteRune(r)
		}
	}
	cleaned := repeatedHyphens.ReplaceAllString(b.String(), "-")
	cleaned = strings.Trim(cleaned, "-")
	if len(cleaned) > 64 {
		cleaned = cleaned[:64]
	}
	return cleaned
}

func isAllowedSKURune(r rune) bool {
	return (r >= 'A' && r <= 'Z') ||
		(r >= 'a' && r <= 'z') ||
		(r >= '0' && r <= '9') ||
		r == '-' || r == '_'
}

// StripHTML removes markup tags and trims the result.
func StripHTML(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return strings.TrimSpace(tagPattern.ReplaceAllString(s, ""))
}

// DecodeEntities resolves HTML entities such as &amp; and &eacute;.
func DecodeEntities(s string) string {
	return html.UnescapeString(s)
}
