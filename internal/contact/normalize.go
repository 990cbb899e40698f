// Package contact maps provider payloads onto ContactRecord and collapses
// duplicate records.
package contact

import (
	"strings"

	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/pkg/linkedin"
	"github.com/sells-group/prospect-cli/pkg/pagesjaunes"
)

// Accessor yields one candidate value for a record field.
type Accessor func() string

// Value returns an Accessor for a fixed string.
func Value(v string) Accessor {
	return func() string { return v }
}

// FirstPresent evaluates accessors in order and returns the first present
// value, trimmed. It returns model.Placeholder when none is present.
func FirstPresent(accessors ...Accessor) string {
	for _, get := range accessors {
		if get == nil {
			continue
		}
		if v := strings.TrimSpace(get()); model.IsPresent(v) {
			return v
		}
	}
	return model.Placeholder
}

// FromWebHit builds a record from a web search hit.
func FromWebHit(hit model.SearchHit, source model.Source) model.ContactRecord {
	return Normalize(model.ContactRecord{
		Name:        hit.Title,
		Description: hit.Snippet,
		Phone:       hit.Phone,
		ProfileURL:  hit.Link,
		Source:      source,
	})
}

// FromMapsHit builds a google_maps record from a local result.
func FromMapsHit(hit model.SearchHit) model.ContactRecord {
	return Normalize(model.ContactRecord{
		Name:        hit.Title,
		Description: hit.Snippet,
		Phone:       hit.Phone,
		ProfileURL:  hit.Link,
		Source:      model.SourceGoogleMaps,
	})
}

// FromProfile builds a linkedin record from a profile API payload.
func FromProfile(p linkedin.Profile) model.ContactRecord {
	return Normalize(model.ContactRecord{
		Name:        FirstPresent(Value(p.Name), Value(p.FullName)),
		Description: FirstPresent(Value(p.Headline), Value(p.Title)),
		Location:    p.Location,
		Email:       p.Email,
		Phone:       p.Phone,
		ProfileURL:  FirstPresent(Value(p.ProfileURL), Value(p.URL)),
		Source:      model.SourceLinkedIn,
	})
}

// FromListing builds a pagesjaunes record from a directory listing. details
// may be nil; when set its values take precedence.
func FromListing(l pagesjaunes.Listing, details *pagesjaunes.Details) model.ContactRecord {
	var d pagesjaunes.Details
	if details != nil {
		d = *details
	}
	return Normalize(model.ContactRecord{
		Name:        FirstPresent(Value(l.Name), Value(d.Name)),
		Description: FirstPresent(Value(l.Activity), Value(d.Description), Value(l.Address)),
		Location:    FirstPresent(Value(d.Address), Value(l.Address)),
		Email:       d.Email,
		Phone:       FirstPresent(Value(d.Phone), Value(l.Phone)),
		ProfileURL:  FirstPresent(Value(l.Website), Value(d.Website), Value(l.URL)),
		Source:      model.SourcePagesJaunes,
	})
}

// Normalize trims every field and fills absent ones with the placeholder.
// EmailOrigin defaults to source when an email is present and none otherwise.
func Normalize(r model.ContactRecord) model.ContactRecord {
	r.Name = FirstPresent(Value(r.Name))
	r.Description = FirstPresent(Value(r.Description))
	r.Location = FirstPresent(Value(r.Location))
	r.Email = FirstPresent(Value(r.Email))
	r.Phone = FirstPresent(Value(r.Phone))
	r.ProfileURL = FirstPresent(Value(r.ProfileURL))

	switch {
	case !r.HasEmail():
		r.EmailOrigin = model.OriginNone
	case r.EmailOrigin == "" || r.EmailOrigin == model.OriginNone:
		r.EmailOrigin = model.OriginSource
	}
	return r
}
