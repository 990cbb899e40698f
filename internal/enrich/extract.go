package enrich

import (
	"regexp"
	"strings"
)

var (
	emailRe   = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phoneFRRe = regexp.MustCompile(`(?:\+33|0)[1-9](?:[\s.-]?\d{2}){4}`)
	domainRe  = regexp.MustCompile(`(?i)\b(?:[a-z0-9-]+\.)+[a-z]{2,}\b`)
)

var (
	imageSuffixes = []string{".png", ".jpg", ".jpeg", ".gif", ".svg"}
	assetMarkers  = []string{"cdn.", "static.", "assets.", "fonts."}
)

// FirstEmail returns the first email-shaped token in text.
func FirstEmail(text string) string {
	return emailRe.FindString(text)
}

// FirstPhone returns the first French-formatted phone number in text.
func FirstPhone(text string) string {
	return phoneFRRe.FindString(text)
}

// NormalizePhone keeps digits and '+' and rewrites a national French number
// to +33 form. Other numbers pass through with only the cleanup applied.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r == '+' || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if strings.HasPrefix(digits, "0") && len(digits) >= 10 {
		return "+33" + digits[1:]
	}
	return digits
}

// ExtractDomains lists the hostnames mentioned in text, lower-cased, in
// first-seen order. Image file names and asset hosts are dropped.
func ExtractDomains(text string) []string {
	var out []string
	seen := map[string]struct{}{}
	for _, m := range domainRe.FindAllString(text, -1) {
		d := strings.ToLower(m)
		if hasAnySuffix(d, imageSuffixes) || containsAny(d, assetMarkers) {
			continue
		}
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	return out
}

func hasAnySuffix(s string, suffixes []string) bool {
	for _, suf := range suffixes {
		if strings.HasSuffix(s, suf) {
			return true
		}
	}
	return false
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
