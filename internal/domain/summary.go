package domain

import (
	"fmt"
	"math"
	"time"
)

// Summary holds the headline statistics shown above the charts.
type Summary struct {
	Total          int
	Municipalities int
	First          time.Time
	Last           time.Time
	PeriodDays     int // whole days between First and Last
	DailyMean      float64
}

// Summarize computes the headline statistics. An empty Dataset yields a zero Summary.
func Summarize(ds Dataset) Summary {
	if ds.Len() == 0 {
		return Summary{}
	}

	first, last := ds.Detections[0].DetectedAt, ds.Detections[0].DetectedAt
	for _, det := range ds.Detections[1:] {
		if det.DetectedAt.Before(first) {
			first = det.DetectedAt
		}
		if det.DetectedAt.After(last) {
			last = det.DetectedAt
		}
	}

	days := int(last.Sub(first) / (24 * time.Hour))
	return Summary{
		Total:          ds.Len(),
		Municipalities: len(distinct(ds, MunicipalityOf)),
		First:          first,
		Last:           last,
		PeriodDays:     days,
		DailyMean:      float64(ds.Len()) / float64(max(days, 1)),
	}
}

// DensityGrid is a lat/lon binned count matrix over the dataset's bounding
// box. Counts[i][j] covers latitude bin i (south to north) and longitude bin
// j (west to east).
type DensityGrid struct {
	LatMin, LatMax float64
	LonMin, LonMax float64
	Bins           int
	Counts         [][]int
}

// LatCenter returns the latitude at the middle of bin i.
func (g DensityGrid) LatCenter(i int) float64 {
	return g.LatMin + (float64(i)+0.5)*(g.LatMax-g.LatMin)/float64(g.Bins)
}

// LonCenter returns the longitude at the middle of bin j.
func (g DensityGrid) LonCenter(j int) float64 {
	return g.LonMin + (float64(j)+0.5)*(g.LonMax-g.LonMin)/float64(g.Bins)
}

// AggregateDensity bins detections into a bins×bins lat/lon grid.
func AggregateDensity(ds Dataset, bins int) (DensityGrid, error) {
	if bins <= 0 {
		return DensityGrid{}, fmt.Errorf("%w: density bins must be positive, got %d", ErrInvalidArgument, bins)
	}

	g := DensityGrid{
		LatMin: math.Inf(1), LatMax: math.Inf(-1),
		LonMin: math.Inf(1), LonMax: math.Inf(-1),
		Bins: bins,
	}
	for _, det := range ds.Detections {
		g.LatMin = math.Min(g.LatMin, det.Geo.Lat)
		g.LatMax = math.Max(g.LatMax, det.Geo.Lat)
		g.LonMin = math.Min(g.LonMin, det.Geo.Lon)
		g.LonMax = math.Max(g.LonMax, det.Geo.Lon)
	}
	if ds.Len() == 0 {
		g.LatMin, g.LatMax, g.LonMin, g.LonMax = 0, 0, 0, 0
	}
	// A degenerate box still gets one degree of extent so bins have width.
	if g.LatMax == g.LatMin {
		g.LatMin, g.LatMax = g.LatMin-0.5, g.LatMax+0.5
	}
	if g.LonMax == g.LonMin {
		g.LonMin, g.LonMax = g.LonMin-0.5, g.LonMax+0.5
	}

	domain := make([]int, bins)
	for i := range domain {
		domain[i] = i
	}
	latBin := func(d Detection) int { return binIndex(d.Geo.Lat, g.LatMin, g.LatMax, bins) }
	lonBin := func(d Detection) int { return binIndex(d.Geo.Lon, g.LonMin, g.LonMax, bins) }

	g.Counts = AggregateCrossTab(ds, latBin, lonBin, domain, domain).Counts
	return g, nil
}

func binIndex(v, lo, hi float64, bins int) int {
	i := int((v - lo) / (hi - lo) * float64(bins))
	return min(max(i, 0), bins-1)
}
