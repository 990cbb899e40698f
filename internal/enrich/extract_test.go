package enrich

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"0612345678", "+33612345678"},
		{"+33612345678", "+33612345678"},
		{"06 12 34 56 78", "+33612345678"},
		{"04.78.00.00.00", "+33478000000"},
		{"+33 6 12-34-56-78", "+33612345678"},
		{"061234", "061234"},
		{"+1 (415) 555-0100", "+14155550100"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePhone(tt.in))
		})
	}
}

func TestNormalizePhone_Idempotent(t *testing.T) {
	for _, in := range []string{"0612345678", "06 12 34 56 78", "+33612345678", "12"} {
		once := NormalizePhone(in)
		assert.Equal(t, once, NormalizePhone(once), in)
	}
}

func TestFirstEmailAndPhone(t *testing.T) {
	page := `<p>Call 01 23 45 67 89 or 06.11.22.33.44</p><a href="mailto:jane.doe@acme.fr">mail</a> ops@acme.fr`

	assert.Equal(t, "jane.doe@acme.fr", FirstEmail(page))
	assert.Equal(t, "01 23 45 67 89", FirstPhone(page))
	assert.Empty(t, FirstEmail("no address here"))
	assert.Empty(t, FirstPhone("call 12 34"))
	assert.Equal(t, "+33612345678", FirstPhone("tel: +33612345678"))
}

func TestExtractDomains(t *testing.T) {
	page := `<img src="https://cdn.acme.fr/logo.png"> <a href="https://www.Acme.fr/team">Team</a>
<link href="https://fonts.googleapis.com/css"> logo.svg photo.JPG acme.fr static.acme.fr/app
www.acme.fr contact: hello@acme.fr`

	assert.Equal(t, []string{"www.acme.fr", "acme.fr"}, ExtractDomains(page))
	assert.Empty(t, ExtractDomains("nothing to see"))
}
