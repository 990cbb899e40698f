package export

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// Lookup is one row of a batch enrichment file.
type Lookup struct {
	Name    string `csv:"name"`
	Context string `csv:"context,omitempty"`
}

// ReadLookups loads name/context rows from a .csv or .xlsx file with a
// header row. Rows without a name are skipped.
func ReadLookups(path string) ([]Lookup, error) {
	var (
		rows []Lookup
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		rows, err = readLookupsXLSX(path)
	default:
		rows, err = readLookupsCSV(path)
	}
	if err != nil {
		return nil, err
	}

	out := rows[:0]
	for _, r := range rows {
		r.Name = strings.TrimSpace(r.Name)
		r.Context = strings.TrimSpace(r.Context)
		if r.Name != "" {
			out = append(out, r)
		}
	}
	return out, nil
}

func readLookupsCSV(path string) ([]Lookup, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "export: read lookups")
	}
	var rows []Lookup
	if err := csvutil.Unmarshal(b, &rows); err != nil {
		return nil, eris.Wrap(err, "export: parse lookups csv")
	}
	return rows, nil
}

func readLookupsXLSX(path string) ([]Lookup, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "export: open lookups xlsx")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("export: lookups xlsx has no sheets")
	}

	sheet := f.Sheets[0]
	if len(sheet.Rows) == 0 {
		return nil, nil
	}

	nameCol, ctxCol := -1, -1
	for i, c := range sheet.Rows[0].Cells {
		switch strings.ToLower(strings.TrimSpace(c.String())) {
		case "name":
			nameCol = i
		case "context":
			ctxCol = i
		}
	}
	if nameCol < 0 {
		return nil, eris.New("export: lookups xlsx has no name column")
	}

	var rows []Lookup
	for _, r := range sheet.Rows[1:] {
		rows = append(rows, Lookup{Name: cellAt(r, nameCol), Context: cellAt(r, ctxCol)})
	}
	return rows, nil
}

func cellAt(r *xlsx.Row, i int) string {
	if r == nil || i < 0 || i >= len(r.Cells) {
		return ""
	}
	return r.Cells[i].String()
}
