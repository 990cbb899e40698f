package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/jszwec/csvutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/prospect-cli/internal/model"
)

func sampleRecords() []model.ContactRecord {
	return []model.ContactRecord{
		{
			Name: "Jane Doe", Description: "CTO", Location: "Paris", Email: "jane@acme.fr",
			Phone: "+33612345678", ProfileURL: "https://acme.fr/jane", Source: model.SourceGoogle, EmailOrigin: model.OriginPage,
		},
		{
			Name: "Plomberie Martin", Description: "Plombier", Location: "N/A", Email: "N/A",
			Phone: "04 78 00 00 00", ProfileURL: "N/A", Source: model.SourceGoogleMaps, EmailOrigin: model.OriginNone,
		},
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{
		"":      FormatTable,
		"TABLE": FormatTable,
		"json":  FormatJSON,
		" yml ": FormatYAML,
		"csv":   FormatCSV,
		"xlsx":  FormatXLSX,
	} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseFormat("pdf")
	assert.Error(t, err)
}

func TestFormatForPath(t *testing.T) {
	assert.Equal(t, FormatCSV, FormatForPath("out/contacts.CSV", FormatTable))
	assert.Equal(t, FormatXLSX, FormatForPath("contacts.xlsx", FormatTable))
	assert.Equal(t, FormatYAML, FormatForPath("c.yml", FormatTable))
	assert.Equal(t, FormatJSON, FormatForPath("c.txt", FormatJSON))
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, sampleRecords()))

	var got []map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "jane@acme.fr", got[0]["email"])
	assert.Equal(t, "N/A", got[1]["email"])
	assert.Equal(t, "google_maps", got[1]["source"])
}

func TestWriteJSON_EmptyIsArray(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, nil))
	assert.Equal(t, "[]", strings.TrimSpace(buf.String()))
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatYAML, sampleRecords()))

	var got []map[string]string
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "Jane Doe", got[0]["name"])
	assert.Equal(t, "page", got[0]["email_origin"])
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatCSV, sampleRecords()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, strings.Join(columns, ","), lines[0])

	var got []model.ContactRecord
	require.NoError(t, csvutil.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, sampleRecords(), got)
}

func TestWriteCSV_EmptyHasHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatCSV, nil))
	assert.Equal(t, strings.Join(columns, ",")+"\n", buf.String())
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatXLSX, sampleRecords()))

	f, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, f.Sheets, 1)
	rows := f.Sheets[0].Rows
	require.Len(t, rows, 3)
	assert.Equal(t, "name", rows[0].Cells[0].String())
	assert.Equal(t, "Jane Doe", rows[1].Cells[0].String())
	assert.Equal(t, "04 78 00 00 00", rows[2].Cells[4].String())
}

func TestWriteTable(t *testing.T) {
	recs := sampleRecords()
	recs[0].ProfileURL = "https://acme.fr/" + strings.Repeat("x", 100)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatTable, recs))

	out := buf.String()
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "Jane Doe")
	assert.Contains(t, out, "Plomberie Martin")
	assert.Contains(t, out, "…")
	assert.NotContains(t, out, strings.Repeat("x", 100))
	assert.Contains(t, out, "2 record(s)")
}

func TestWriteUnknownFormat(t *testing.T) {
	assert.Error(t, Write(&bytes.Buffer{}, Format("pdf"), sampleRecords()))
}
