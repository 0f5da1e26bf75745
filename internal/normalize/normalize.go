// Package normalize produces the tone-free canonical text form used for all
// cross-system comparison keys and for the address content written to the
// upload template.
//
// Vietnamese text arrives in mixed forms: precomposed Unicode, decomposed
// Unicode, inconsistent casing, stray whitespace from spreadsheet cells. Two
// addresses that a human reads as identical must compare equal, so every
// comparison in the matcher and account index goes through Text first.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes to NFD, removes combining marks (tone and vowel
// modifiers), and recomposes. This covers every Vietnamese diacritic except
// the stroke in Đ/đ, which is a distinct letter rather than a base+mark pair.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// foldD maps the Vietnamese Đ/đ to plain D/d before mark stripping.
var foldD = strings.NewReplacer("Đ", "D", "đ", "d")

// Text returns the tone-free canonical form of s: diacritics removed,
// lowercased, surrounding whitespace trimmed. It is idempotent.
func Text(s string) string {
	if s == "" {
		return ""
	}

	folded := foldD.Replace(s)
	stripped, _, err := transform.String(stripMarks, folded)
	if err != nil {
		// transform only fails on invalid UTF-8; fall back to the folded
		// input so comparison still sees something deterministic.
		stripped = folded
	}

	return strings.TrimSpace(strings.ToLower(stripped))
}

// Key is Text applied to an identifier such as an account number. Identifiers
// use the same canonical form as address text; the separate name keeps call
// sites readable.
func Key(s string) string {
	return Text(s)
}
