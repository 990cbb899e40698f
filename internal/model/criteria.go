package model

import "strings"

// Criteria holds the generic search parameters of an aggregation request.
// Each source builds its own query from the subset it understands.
type Criteria struct {
	Title       string `json:"title,omitempty"`
	Sector      string `json:"sector,omitempty"`
	Location    string `json:"location,omitempty"`
	Company     string `json:"company,omitempty"`
	Role        string `json:"role,omitempty"`
	CompanySize string `json:"company_size,omitempty"`
	Keywords    string `json:"keywords,omitempty"`
	Profession  string `json:"profession,omitempty"`
}

// FirstNonEmpty returns the first argument that is not blank, trimmed.
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// JobTerms returns the terms used for professional-network queries.
func (c Criteria) JobTerms() string {
	return FirstNonEmpty(c.Title, c.Role)
}

// WebTerms returns the terms used for general web and maps queries.
func (c Criteria) WebTerms() string {
	return FirstNonEmpty(c.Keywords, c.Title, c.Role)
}

// DirectoryTerms returns the activity used for business-directory queries.
func (c Criteria) DirectoryTerms() string {
	return FirstNonEmpty(c.Profession, c.Title, c.Role, c.Sector)
}

// Place returns the trimmed location.
func (c Criteria) Place() string {
	return strings.TrimSpace(c.Location)
}
