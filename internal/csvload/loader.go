package csvload

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/couchcryptid/focos-report/internal/domain"
)

// timestampLayouts are tried in order for data_pas. Layouts without a zone
// are read as UTC.
var timestampLayouts = []string{
	time.DateTime,
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02 15:04",
	"2006/01/02 15:04:05",
	time.DateOnly,
}

// decimalPattern accepts plain decimal notation with an optional exponent.
// strconv alone would also take hex floats and Inf/NaN spellings.
var decimalPattern = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

var errNotDecimal = errors.New("not a decimal number")

// geoColumns maps validator field names back to CSV columns.
var geoColumns = map[string]string{
	"Lat": domain.ColumnLat,
	"Lon": domain.ColumnLon,
}

// Loader turns input files into datasets. It implements pipeline.Loader.
type Loader struct {
	validate *validator.Validate
	logger   *slog.Logger
}

// NewLoader creates a Loader.
func NewLoader(logger *slog.Logger) *Loader {
	return &Loader{
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}

// Load reads path into a Dataset. Calendar fields are left empty; see
// domain.Derive.
func (l *Loader) Load(ctx context.Context, path string) (domain.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return domain.Dataset{}, err
	}

	t, err := ReadTable(path)
	if err != nil {
		return domain.Dataset{}, err
	}

	dets := make([]domain.Detection, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		det, err := l.ParseRow(t, i)
		if err != nil {
			return domain.Dataset{}, err
		}
		dets = append(dets, det)
	}

	l.logger.Debug("csv table parsed", "path", path, "records", len(dets), "columns", t.Columns())
	return domain.NewDataset(path, dets), nil
}

// ParseRow converts data row i of t into a Detection. Failures are returned
// as *domain.ParseError.
func (l *Loader) ParseRow(t *Table, i int) (domain.Detection, error) {
	line := t.Line(i)
	fail := func(column string, err error) error {
		return &domain.ParseError{Path: t.Path, Line: line, Column: column, Value: t.Value(column, i), Err: err}
	}

	lat, err := parseDecimal(t.Value(domain.ColumnLat, i))
	if err != nil {
		return domain.Detection{}, fail(domain.ColumnLat, err)
	}
	lon, err := parseDecimal(t.Value(domain.ColumnLon, i))
	if err != nil {
		return domain.Detection{}, fail(domain.ColumnLon, err)
	}
	at, err := ParseTimestamp(t.Value(domain.ColumnDetectedAt, i))
	if err != nil {
		return domain.Detection{}, fail(domain.ColumnDetectedAt, err)
	}

	geo := domain.Geo{Lat: lat, Lon: lon}
	if err := l.validate.Struct(geo); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return domain.Detection{}, fail(geoColumns[fe.Field()], fmt.Errorf("not a valid %s", fe.Tag()))
		}
		return domain.Detection{}, fmt.Errorf("validate %s line %d: %w", t.Path, line, err)
	}

	return domain.Detection{
		Geo:          geo,
		Municipality: t.Value(domain.ColumnMunicipality, i),
		State:        t.Value(domain.ColumnState, i),
		Biome:        t.Value(domain.ColumnBiome, i),
		DetectedAt:   at,
		Line:         line,
	}, nil
}

// ParseTimestamp parses a data_pas value using the accepted layouts.
func ParseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, errors.New("empty timestamp")
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New("unrecognized timestamp layout")
}

func parseDecimal(s string) (float64, error) {
	if !decimalPattern.MatchString(s) {
		return 0, errNotDecimal
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.Unwrap(err)
	}
	return v, nil
}
