package model

import "strings"

// Placeholder marks a contact field that is intentionally absent. Callers
// match on this literal, so it must never be replaced by an empty string.
const Placeholder = "N/A"

// Source identifies the search surface a record came from.
type Source string

const (
	SourceLinkedIn    Source = "linkedin"
	SourceGoogle      Source = "google"
	SourceGoogleMaps  Source = "google_maps"
	SourcePagesJaunes Source = "pagesjaunes"
)

// AllSources returns every supported source in default priority order.
func AllSources() []Source {
	return []Source{
		SourceLinkedIn,
		SourceGoogle,
		SourceGoogleMaps,
		SourcePagesJaunes,
	}
}

// ParseSource resolves a caller-supplied source name, accepting the legacy
// spellings of the business directory.
func ParseSource(name string) (Source, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "linkedin":
		return SourceLinkedIn, true
	case "google":
		return SourceGoogle, true
	case "google_maps":
		return SourceGoogleMaps, true
	case "pagesjaunes", "pages_jaunes", "pages-jaunes":
		return SourcePagesJaunes, true
	}
	return "", false
}

// Origin records how a record's email was obtained. Pattern guesses are only
// checked for a literal occurrence on a page and are weaker than the others.
type Origin string

const (
	OriginNone    Origin = "none"
	OriginSource  Origin = "source"
	OriginPage    Origin = "page"
	OriginPattern Origin = "pattern"
)

// ContactRecord is a normalized contact entity. Every string field holds
// either a non-empty value or Placeholder.
type ContactRecord struct {
	Name        string `json:"name" yaml:"name" csv:"name"`
	Description string `json:"description" yaml:"description" csv:"description"`
	Location    string `json:"location" yaml:"location" csv:"location"`
	Email       string `json:"email" yaml:"email" csv:"email"`
	Phone       string `json:"phone" yaml:"phone" csv:"phone"`
	ProfileURL  string `json:"profile_url" yaml:"profile_url" csv:"profile_url"`
	Source      Source `json:"source" yaml:"source" csv:"source"`
	EmailOrigin Origin `json:"email_origin" yaml:"email_origin" csv:"email_origin"`
}

// IsPresent reports whether a field value carries data.
func IsPresent(v string) bool {
	v = strings.TrimSpace(v)
	return v != "" && v != Placeholder
}

// HasEmail reports whether the record carries an email.
func (r ContactRecord) HasEmail() bool { return IsPresent(r.Email) }

// HasPhone reports whether the record carries a phone number.
func (r ContactRecord) HasPhone() bool { return IsPresent(r.Phone) }
