package enrich

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitName(t *testing.T) {
	tests := []struct {
		name        string
		first, last string
		ok          bool
	}{
		{"Jane Doe", "jane", "doe", true},
		{"Jane Doe - CTO at Acme", "jane", "doe", true},
		{"Jane Marie Doe | Acme", "jane", "doe", true},
		{"Hélène Dupré–Consultante", "helene", "dupre", true},
		{"Jane 2nd Doe", "jane", "doe", true},
		{"Jean-Pierre Martin", "", "", false},
		{"Madonna", "", "", false},
		{"", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, last, ok := SplitName(tt.name)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.first, first)
			assert.Equal(t, tt.last, last)
		})
	}
}

func TestCandidates(t *testing.T) {
	assert.Equal(t, []string{
		"jane.doe@acme.fr",
		"janedoe@acme.fr",
		"j.doe@acme.fr",
		"jane.d@acme.fr",
		"doe.jane@acme.fr",
	}, Candidates("jane", "doe", "acme.fr"))

	assert.Empty(t, Candidates("", "doe", "acme.fr"))
	assert.Empty(t, Candidates("jane", "doe", ""))
}

func TestCandidates_CollapsesDoubleDots(t *testing.T) {
	for _, c := range Candidates("jane.", "doe", "ACME.fr") {
		assert.NotContains(t, c, "..")
		assert.Equal(t, strings.ToLower(c), c)
	}
}
