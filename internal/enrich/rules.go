package enrich

import (
	"strings"

	"github.com/sells-group/prospect-cli/internal/config"
)

// ExclusionRules rejects addresses that never reach a person. It is
// read-only once built and safe to share.
type ExclusionRules struct {
	domains    map[string]struct{}
	localParts []string
}

// NewExclusionRules builds rules from disallowed domains and local-part
// fragments. Matching is case-insensitive.
func NewExclusionRules(domains, localParts []string) ExclusionRules {
	r := ExclusionRules{domains: make(map[string]struct{}, len(domains))}
	for _, d := range domains {
		if d = strings.ToLower(strings.TrimSpace(d)); d != "" {
			r.domains[d] = struct{}{}
		}
	}
	for _, p := range localParts {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			r.localParts = append(r.localParts, p)
		}
	}
	return r
}

// DefaultExclusionRules returns the built-in lists.
func DefaultExclusionRules() ExclusionRules {
	return NewExclusionRules(config.DefaultExcludedDomains(), config.DefaultExcludedLocalParts())
}

// IsValidEmail reports whether addr looks like a personal mailbox: it has a
// local part and a domain, the domain is not excluded and the local part
// holds no excluded fragment.
func (r ExclusionRules) IsValidEmail(addr string) bool {
	local, domain, ok := strings.Cut(strings.ToLower(strings.TrimSpace(addr)), "@")
	if !ok || local == "" || domain == "" {
		return false
	}
	if _, bad := r.domains[domain]; bad {
		return false
	}
	for _, p := range r.localParts {
		if strings.Contains(local, p) {
			return false
		}
	}
	return true
}
