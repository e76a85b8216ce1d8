package domain

import "time"

// Required CSV columns.
const (
	ColumnLat          = "lat"
	ColumnLon          = "lon"
	ColumnMunicipality = "municipio"
	ColumnState        = "estado"
	ColumnBiome        = "bioma"
	ColumnDetectedAt   = "data_pas"
)

// RequiredColumns lists the columns an input file must carry, in the order
// they are reported when missing.
var RequiredColumns = []string{
	ColumnLat,
	ColumnLon,
	ColumnMunicipality,
	ColumnState,
	ColumnBiome,
	ColumnDetectedAt,
}

// Geo represents a WGS-84 latitude/longitude coordinate pair.
type Geo struct {
	Lat float64 `json:"lat" validate:"latitude"`
	Lon float64 `json:"lon" validate:"longitude"`
}

// Calendar holds the fields derived from a detection timestamp.
type Calendar struct {
	Month       time.Month   `json:"month"`
	MonthName   string       `json:"month_name"`
	Weekday     time.Weekday `json:"weekday"`
	WeekdayName string       `json:"weekday_name"`
	Hour        int          `json:"hour"`
	Date        time.Time    `json:"date"` // midnight of the detection day
}

// Detection is one heat-detection event.
type Detection struct {
	Geo          Geo       `json:"geo"`
	Municipality string    `json:"municipio"`
	State        string    `json:"estado"`
	Biome        string    `json:"bioma"`
	DetectedAt   time.Time `json:"data_pas"`
	Calendar     Calendar  `json:"calendar"`

	// Line is the 1-based source line, 0 when not loaded from a file.
	Line int `json:"-"`
}

// Dataset is an ordered, read-only collection of detections.
type Dataset struct {
	Source     string
	Detections []Detection
}

// NewDataset wraps detections without copying them. Callers must not mutate
// the slice afterwards.
func NewDataset(source string, detections []Detection) Dataset {
	return Dataset{Source: source, Detections: detections}
}

// Len returns the number of detections.
func (d Dataset) Len() int { return len(d.Detections) }

// Filter returns a new Dataset holding the detections for which keep is true.
// Calendar fields are recomputed so they stay consistent with the timestamps.
func (d Dataset) Filter(keep func(Detection) bool) Dataset {
	out := make([]Detection, 0, len(d.Detections))
	for _, det := range d.Detections {
		if keep(det) {
			out = append(out, det)
		}
	}
	return Derive(Dataset{Source: d.Source, Detections: out})
}
