// Package export writes contact records in the supported output formats and
// reads batch enrichment inputs.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/prospect-cli/internal/model"
)

// Format is an output encoding.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatCSV   Format = "csv"
	FormatXLSX  Format = "xlsx"
)

// ParseFormat resolves a format name. An empty name means table.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case "":
		return FormatTable, nil
	case FormatTable, FormatJSON, FormatYAML, FormatCSV, FormatXLSX:
		return f, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", eris.Errorf("export: unknown format %q", name)
}

// FormatForPath picks a format from a file extension, falling back to def.
func FormatForPath(path string, def Format) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	case ".csv":
		return FormatCSV
	case ".xlsx":
		return FormatXLSX
	}
	return def
}

// Write encodes records to w.
func Write(w io.Writer, format Format, records []model.ContactRecord) error {
	if records == nil {
		records = []model.ContactRecord{}
	}
	switch format {
	case FormatTable, "":
		return writeTable(w, records)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(records), "export: json")
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return eris.Wrap(err, "export: yaml")
		}
		return eris.Wrap(enc.Close(), "export: yaml close")
	case FormatCSV:
		return writeCSV(w, records)
	case FormatXLSX:
		return writeXLSX(w, records)
	}
	return eris.Errorf("export: unknown format %q", format)
}

var columns = []string{"name", "description", "location", "email", "phone", "profile_url", "source", "email_origin"}

func row(r model.ContactRecord) []string {
	return []string{r.Name, r.Description, r.Location, r.Email, r.Phone, r.ProfileURL, string(r.Source), string(r.EmailOrigin)}
}

const maxCellWidth = 48

func clip(s string) string {
	rs := []rune(s)
	if len(rs) <= maxCellWidth {
		return s
	}
	return string(rs[:maxCellWidth-1]) + "…"
}

func writeTable(w io.Writer, records []model.ContactRecord) error {
	header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("NAME", "EMAIL", "PHONE", "SOURCE", "PROFILE URL").
		StyleFunc(func(r, _ int) lipgloss.Style {
			if r == table.HeaderRow {
				return header
			}
			return cell
		})
	for _, r := range records {
		t.Row(clip(r.Name), r.Email, r.Phone, string(r.Source), clip(r.ProfileURL))
	}

	if _, err := fmt.Fprintln(w, t.Render()); err != nil {
		return eris.Wrap(err, "export: table")
	}
	_, err := fmt.Fprintf(w, "%d record(s)\n", len(records))
	return eris.Wrap(err, "export: table")
}

func writeCSV(w io.Writer, records []model.ContactRecord) error {
	if len(records) == 0 {
		_, err := io.WriteString(w, strings.Join(columns, ",")+"\n")
		return eris.Wrap(err, "export: csv")
	}
	b, err := csvutil.Marshal(records)
	if err != nil {
		return eris.Wrap(err, "export: csv marshal")
	}
	_, err = w.Write(b)
	return eris.Wrap(err, "export: csv")
}

func writeXLSX(w io.Writer, records []model.ContactRecord) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("contacts")
	if err != nil {
		return eris.Wrap(err, "export: xlsx add sheet")
	}

	addRow(sheet, columns)
	for _, r := range records {
		addRow(sheet, row(r))
	}
	return eris.Wrap(f.Write(w), "export: xlsx write")
}

func addRow(sheet *xlsx.Sheet, values []string) {
	r := sheet.AddRow()
	for _, v := range values {
		r.AddCell().SetString(v)
	}
}
