// Package domain models heat-detection (foco de calor) records and the
// aggregate views the dashboard is built from.
//
// # Data Source
//
// Detections come from the INPE BDQueimadas export for a single state. An
// upstream sorter reads the raw export, sorts it by one field (usually the
// detection time) and writes it back as CSV with the header:
//
//	id_bdq,foco_id,lat,lon,data_pas,pais,estado,municipio,bioma
//
// The sorter pads numeric fields ("  -27.123456"), so every field and column
// name is trimmed before use. Only lat, lon, municipio, estado, bioma and
// data_pas are required; other columns are ignored.
//
// # Time
//
// data_pas is the satellite pass time in UTC, normally "2006-01-02 15:04:05".
// All calendar features (month, weekday, hour, date) are derived from it in
// the timestamp's own location. See [CalendarOf].
//
// # Aggregates
//
// Aggregates are pure functions over a [Dataset] and are recomputed for every
// panel. Histograms and cross-tabs take an explicit key domain and always
// report every key in it, zero-filled, so chart axes are complete.
//
// The daily rolling mean is a 7-point centered window over the dates that
// have detections, not over a gap-filled calendar. The first and last three
// points have no mean.
package domain
