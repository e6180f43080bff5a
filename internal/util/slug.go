// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package util provides general-purpose utility functions including
// URL slug generation and validation with Unicode normalization support.
package util

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// nonAlnumRegex matches any run of characters that cannot appear in a slug.
var nonAlnumRegex = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify converts a title to a URL-friendly slug.
// It strips diacritics, transliterates remaining non-ASCII characters,
// lowercases, and collapses any run of non-alphanumeric characters into a
// single hyphen with no leading or trailing hyphen.
func Slugify(s string) string {
	// Decompose accented characters and drop the combining marks
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)

	// Transliterate whatever non-ASCII remains (Cyrillic, CJK, ligatures)
	result = unidecode.Unidecode(result)

	result = strings.ToLower(result)
	result = nonAlnumRegex.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")

	return result
}

// IsValidSlug checks if a string is a valid slug format.
func IsValidSlug(s string) bool {
	if s == "" {
		return false
	}

	for _, r := range s {
		if !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-') {
			return false
		}
	}

	// No leading/trailing or doubled hyphens
	if s[0] == '-' || s[len(s)-1] == '-' {
		return false
	}
	if strings.Contains(s, "--") {
		return false
	}

	return true
}
