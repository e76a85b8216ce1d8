// Package csvload reads heat-detection CSV files into a domain.Dataset.
//
// Loading is all-or-nothing: the first missing column, malformed row or
// unparseable value aborts the load and no partial Dataset is returned.
package csvload

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/couchcryptid/focos-report/internal/domain"
)

var (
	errNoHeader = errors.New("file is empty, header row required")
	errNoRows   = errors.New("no data rows")
)

// Table is the trimmed content of an input file whose header carries every
// required column. All values are kept as text until a row is parsed.
type Table struct {
	Path    string
	columns []string
	values  map[string][]string // required column -> trimmed values
	rows    int
}

// ReadTable reads and trims a CSV file and checks its header against
// domain.RequiredColumns. Any failure is returned as a *domain.LoadError.
func ReadTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &domain.LoadError{Path: path, Err: err}
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 0 // every row must match the header width
	records, err := r.ReadAll()
	if err != nil {
		return nil, &domain.LoadError{Path: path, Err: fmt.Errorf("read csv: %w", err)}
	}
	if len(records) == 0 {
		return nil, &domain.LoadError{Path: path, Err: errNoHeader}
	}

	trimRecords(records)
	records = firstOccurrences(records)

	header := records[0]
	if missing := missingColumns(header); len(missing) > 0 {
		return nil, &domain.LoadError{Path: path, Missing: missing}
	}
	if len(records) < 2 {
		return nil, &domain.LoadError{Path: path, Err: errNoRows}
	}

	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(nil),
	)
	if df.Err != nil {
		return nil, &domain.LoadError{Path: path, Err: fmt.Errorf("build table: %w", df.Err)}
	}

	values := make(map[string][]string, len(domain.RequiredColumns))
	for _, name := range domain.RequiredColumns {
		col := df.Col(name)
		if col.Err != nil {
			return nil, &domain.LoadError{Path: path, Err: fmt.Errorf("column %s: %w", name, col.Err)}
		}
		values[name] = col.Records()
	}

	return &Table{
		Path:    path,
		columns: df.Names(),
		values:  values,
		rows:    df.Nrow(),
	}, nil
}

// Len returns the number of data rows.
func (t *Table) Len() int { return t.rows }

// Columns returns the trimmed header names in file order.
func (t *Table) Columns() []string { return t.columns }

// Value returns the trimmed value of a required column in data row i.
func (t *Table) Value(column string, i int) string {
	return t.values[column][i]
}

// Line returns the file line of data row i, counting the header as line 1.
func (t *Table) Line(i int) int { return i + 2 }

// trimRecords strips surrounding whitespace from every cell in place, plus a
// UTF-8 byte order mark on the first header cell.
func trimRecords(records [][]string) {
	if len(records[0]) > 0 {
		records[0][0] = strings.TrimPrefix(records[0][0], "\ufeff")
	}
	for _, row := range records {
		for j, v := range row {
			row[j] = strings.TrimSpace(v)
		}
	}
}

func missingColumns(header []string) []string {
	var missing []string
	for _, name := range domain.RequiredColumns {
		if !slices.Contains(header, name) {
			missing = append(missing, name)
		}
	}
	return missing
}

// firstOccurrences drops every repeat of a header name so that each column
// is read from its first position in the file.
func firstOccurrences(records [][]string) [][]string {
	header := records[0]
	seen := make(map[string]bool, len(header))
	keep := make([]int, 0, len(header))
	for j, name := range header {
		if !seen[name] {
			seen[name] = true
			keep = append(keep, j)
		}
	}
	if len(keep) == len(header) {
		return records
	}

	out := make([][]string, len(records))
	for i, row := range records {
		kept := make([]string, len(keep))
		for k, j := range keep {
			kept[k] = row[j]
		}
		out[i] = kept
	}
	return out
}
