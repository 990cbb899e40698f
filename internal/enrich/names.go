package enrich

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nameSeparators = []string{" - ", " | ", "–"}

// SplitName extracts first and last name tokens from a display name such as
// "Jane Doe - CTO at Acme". Only purely alphabetic words count. Tokens are
// lower-cased with diacritics removed. ok is false with fewer than two
// tokens.
func SplitName(name string) (first, last string, ok bool) {
	for _, sep := range nameSeparators {
		if i := strings.Index(name, sep); i >= 0 {
			name = name[:i]
		}
	}

	var tokens []string
	for _, f := range strings.Fields(name) {
		if isAlpha(f) {
			tokens = append(tokens, f)
		}
	}
	if len(tokens) < 2 {
		return "", "", false
	}
	return fold(tokens[0]), fold(tokens[len(tokens)-1]), true
}

func isAlpha(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return s != ""
}

// fold lower-cases s and strips combining marks so "Hélène" becomes "helene".
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

// Candidates synthesizes the common corporate address patterns for a
// person at domain: first.last, firstlast, f.last, first.l and last.first.
// These are guesses; callers must confirm them before use.
func Candidates(first, last, domain string) []string {
	if first == "" || last == "" || domain == "" {
		return nil
	}
	fi := string([]rune(first)[:1])
	li := string([]rune(last)[:1])
	locals := []string{
		first + "." + last,
		first + last,
		fi + "." + last,
		first + "." + li,
		last + "." + first,
	}

	out := make([]string, 0, len(locals))
	for _, l := range locals {
		c := l + "@" + domain
		for strings.Contains(c, "..") {
			c = strings.ReplaceAll(c, "..", ".")
		}
		out = append(out, strings.ToLower(c))
	}
	return out
}
