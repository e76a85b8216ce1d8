// Command validate checks a heat-detection CSV row by row without aborting at
// the first problem, so an export can be fixed before the report is run. It
// verifies the header, parses every row the way the report loader does,
// flags coordinates outside Brazil and checks the sorter's timestamp order.
//
// Usage:
//
//	go run ./cmd/validate -in output/dados_ordenados.csv
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/couchcryptid/focos-report/internal/csvload"
	"github.com/couchcryptid/focos-report/internal/domain"
)

// Bounding box of Brazilian territory, including offshore islands.
const (
	latMin, latMax = -34.0, 6.0
	lonMin, lonMax = -74.0, -28.0
)

// maxErrorsPerPhase caps the detailed listing; the count stays exact.
const maxErrorsPerPhase = 20

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
	count  int
}

func (p *phase) errorf(format string, args ...any) {
	p.count++
	if len(p.errors) < maxErrorsPerPhase {
		p.errors = append(p.errors, fmt.Sprintf(format, args...))
	}
}

func (p *phase) passed() bool { return p.count == 0 }

func main() {
	in := flag.String("in", "", "path to the CSV to validate")
	flag.Parse()

	if *in == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*in, os.Stdout); code != 0 {
		os.Exit(code)
	}
}

func run(path string, out io.Writer) int {
	fmt.Fprintln(out, "=== Heat Detection CSV Validation ===")
	fmt.Fprintln(out)

	tbl, err := csvload.ReadTable(path)
	if err != nil {
		fmt.Fprintf(out, "FATAL: %v\n", err)
		return 1
	}

	loader := csvload.NewLoader(slog.New(slog.NewTextHandler(io.Discard, nil)))
	dets := make([]*domain.Detection, tbl.Len())
	parse := validateRows(loader, tbl, dets)

	phases := []*phase{
		parse,
		validateCoordinates(dets),
		validateOrder(dets, tbl),
		validateText(tbl),
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", p.count)
			allPassed = false
		}
		fmt.Fprintf(out, "  %-42s %s\n", p.name, status)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Rows: %d, columns: %d\n", tbl.Len(), len(tbl.Columns()))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(out, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(out, "  [%d] %s\n", i+1, e)
		}
		if p.count > len(p.errors) {
			fmt.Fprintf(out, "  ... %d more\n", p.count-len(p.errors))
		}
	}

	if allPassed {
		fmt.Fprintln(out, "\nAll validations passed.")
		return 0
	}
	fmt.Fprintln(out, "\nValidation FAILED.")
	return 1
}

// ── Phase 1: Row parsing ──
// Every row must parse exactly as the report loader would parse it.

func validateRows(loader *csvload.Loader, tbl *csvload.Table, dets []*domain.Detection) *phase {
	p := &phase{name: "Phase 1: Row Parsing"}
	for i := range tbl.Len() {
		det, err := loader.ParseRow(tbl, i)
		if err != nil {
			p.errorf("%v", err)
			continue
		}
		dets[i] = &det
	}
	return p
}

// ── Phase 2: Coordinates ──
// Valid WGS84 values can still be outside the area the export covers.

func validateCoordinates(dets []*domain.Detection) *phase {
	p := &phase{name: "Phase 2: Coordinates Inside Brazil"}
	for _, det := range dets {
		if det == nil {
			continue
		}
		if det.Geo.Lat < latMin || det.Geo.Lat > latMax || det.Geo.Lon < lonMin || det.Geo.Lon > lonMax {
			p.errorf("line %d: (%.6f, %.6f) outside Brazil", det.Line, det.Geo.Lat, det.Geo.Lon)
		}
	}
	return p
}

// ── Phase 3: Sort order ──
// The sorter emits rows by ascending data_pas.

func validateOrder(dets []*domain.Detection, tbl *csvload.Table) *phase {
	p := &phase{name: "Phase 3: Ascending Timestamp Order"}
	var prev time.Time
	prevLine := 0
	for i, det := range dets {
		if det == nil {
			continue
		}
		if prevLine > 0 && det.DetectedAt.Before(prev) {
			p.errorf("line %d: %s is earlier than line %d (%s)",
				tbl.Line(i), det.DetectedAt.Format(time.DateTime), prevLine, prev.Format(time.DateTime))
		}
		prev, prevLine = det.DetectedAt, tbl.Line(i)
	}
	return p
}

// ── Phase 4: Text fields ──
// Categorical columns must not be blank; blanks become their own category.

func validateText(tbl *csvload.Table) *phase {
	p := &phase{name: "Phase 4: Non-empty Categories"}
	for i := range tbl.Len() {
		for _, col := range []string{domain.ColumnMunicipality, domain.ColumnState, domain.ColumnBiome} {
			if tbl.Value(col, i) == "" {
				p.errorf("line %d: empty %s", tbl.Line(i), col)
			}
		}
	}
	return p
}
