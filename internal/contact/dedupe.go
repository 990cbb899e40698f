package contact

import (
	"strings"

	"github.com/sells-group/prospect-cli/internal/model"
)

// DedupKey identifies a contact: the email when present, otherwise the name,
// paired with the profile URL.
type DedupKey struct {
	Identity string
	URL      string
}

// Key derives the dedup key of a record. The placeholder counts as absent.
func Key(r model.ContactRecord) DedupKey {
	identity := r.Name
	if model.IsPresent(r.Email) {
		identity = r.Email
	}
	if !model.IsPresent(identity) {
		identity = ""
	}

	url := r.ProfileURL
	if !model.IsPresent(url) {
		url = ""
	}

	return DedupKey{
		Identity: strings.ToLower(strings.TrimSpace(identity)),
		URL:      strings.ToLower(strings.TrimSpace(url)),
	}
}

// Dedupe drops records whose key was already seen, keeping input order.
func Dedupe(records []model.ContactRecord) []model.ContactRecord {
	if len(records) == 0 {
		return records
	}
	seen := make(map[DedupKey]struct{}, len(records))
	out := make([]model.ContactRecord, 0, len(records))
	for _, r := range records {
		k := Key(r)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, r)
	}
	return out
}
