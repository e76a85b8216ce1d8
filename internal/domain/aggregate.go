package domain

import (
	"fmt"
	"slices"
	"time"
)

// RollingWindow is the number of points in the centered daily moving average.
const RollingWindow = 7

// DailyCount is the number of detections on one calendar date.
type DailyCount struct {
	Date  time.Time
	Count int
	// RollingMean is the centered RollingWindow-point mean, nil where the
	// window does not fit inside the series.
	RollingMean *float64
}

// DailySeries is the daily count series of one category.
type DailySeries struct {
	Key  string
	Days []DailyCount
}

// RankEntry is one row of a count ranking.
type RankEntry struct {
	Key   string
	Count int
}

// Bin is one histogram bucket.
type Bin[K comparable] struct {
	Key   K
	Count int
}

// Histogram lists one bin per domain key, in domain order.
type Histogram[K comparable] []Bin[K]

// Total returns the sum of all bins.
func (h Histogram[K]) Total() int {
	n := 0
	for _, b := range h {
		n += b.Count
	}
	return n
}

// Count returns the count for key, 0 when key is not in the domain.
func (h Histogram[K]) Count(key K) int {
	for _, b := range h {
		if b.Key == key {
			return b.Count
		}
	}
	return 0
}

// Counts returns the bin counts in domain order.
func (h Histogram[K]) Counts() []int {
	out := make([]int, len(h))
	for i, b := range h {
		out[i] = b.Count
	}
	return out
}

// CrossTab is a dense joint count matrix; Counts[i][j] is the number of
// detections with row key Rows[i] and column key Cols[j].
type CrossTab[R, C comparable] struct {
	Rows   []R
	Cols   []C
	Counts [][]int
}

// At returns the count for (row, col), 0 when either key is outside the domain.
func (c CrossTab[R, C]) At(row R, col C) int {
	i := slices.Index(c.Rows, row)
	j := slices.Index(c.Cols, col)
	if i < 0 || j < 0 {
		return 0
	}
	return c.Counts[i][j]
}

// Total returns the sum of every cell.
func (c CrossTab[R, C]) Total() int {
	n := 0
	for _, row := range c.Counts {
		for _, v := range row {
			n += v
		}
	}
	return n
}

// Max returns the largest cell value.
func (c CrossTab[R, C]) Max() int {
	m := 0
	for _, row := range c.Counts {
		for _, v := range row {
			m = max(m, v)
		}
	}
	return m
}

type dayKey struct {
	year  int
	month time.Month
	day   int
}

// AggregateDaily counts detections per calendar date, ascending, and fills
// the centered rolling mean.
func AggregateDaily(ds Dataset) []DailyCount {
	days := dailyCounts(ds.Detections)
	fillRollingMean(days, RollingWindow)
	return days
}

func dailyCounts(dets []Detection) []DailyCount {
	index := make(map[dayKey]int)
	var days []DailyCount
	for _, det := range dets {
		date := det.Calendar.Date
		k := dayKey{date.Year(), date.Month(), date.Day()}
		if i, ok := index[k]; ok {
			days[i].Count++
			continue
		}
		index[k] = len(days)
		days = append(days, DailyCount{Date: date, Count: 1})
	}
	slices.SortFunc(days, func(a, b DailyCount) int { return a.Date.Compare(b.Date) })
	return days
}

// fillRollingMean sets the centered mean on every point that has window/2
// neighbours on each side.
func fillRollingMean(days []DailyCount, window int) {
	half := window / 2
	for i := half; i+half < len(days); i++ {
		sum := 0
		for j := i - half; j <= i+half; j++ {
			sum += days[j].Count
		}
		mean := float64(sum) / float64(window)
		days[i].RollingMean = &mean
	}
}

// AggregateDailyBy returns one daily count series per key, keys in
// first-seen order. Rolling means are not computed.
func AggregateDailyBy(ds Dataset, key func(Detection) string) []DailySeries {
	groups := make(map[string][]Detection)
	var order []string
	for _, det := range ds.Detections {
		k := key(det)
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], det)
	}

	out := make([]DailySeries, 0, len(order))
	for _, k := range order {
		out = append(out, DailySeries{Key: k, Days: dailyCounts(groups[k])})
	}
	return out
}

// AggregateTopN returns the n municipalities with the most detections,
// ordered by count descending; ties keep first-seen order.
func AggregateTopN(ds Dataset, n int) ([]RankEntry, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: top-n must be positive, got %d", ErrInvalidArgument, n)
	}
	ranked := rank(ds, MunicipalityOf)
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked, nil
}

// AggregateBiomes ranks every biome by detection count.
func AggregateBiomes(ds Dataset) []RankEntry {
	return rank(ds, BiomeOf)
}

// BiomeDomain returns the distinct biomes in first-seen order.
func BiomeDomain(ds Dataset) []string {
	return distinct(ds, BiomeOf)
}

func distinct(ds Dataset, key func(Detection) string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, det := range ds.Detections {
		k := key(det)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

func rank(ds Dataset, key func(Detection) string) []RankEntry {
	index := make(map[string]int)
	var entries []RankEntry
	for _, det := range ds.Detections {
		k := key(det)
		if i, ok := index[k]; ok {
			entries[i].Count++
			continue
		}
		index[k] = len(entries)
		entries = append(entries, RankEntry{Key: k, Count: 1})
	}
	slices.SortStableFunc(entries, func(a, b RankEntry) int { return b.Count - a.Count })
	return entries
}

// AggregateHistogram counts detections by key over a fixed domain. Every
// domain key is present, zero-filled; keys outside the domain are dropped.
func AggregateHistogram[K comparable](ds Dataset, key func(Detection) K, domain []K) Histogram[K] {
	pos := make(map[K]int, len(domain))
	h := make(Histogram[K], len(domain))
	for i, k := range domain {
		h[i] = Bin[K]{Key: k}
		if _, dup := pos[k]; !dup {
			pos[k] = i
		}
	}
	for _, det := range ds.Detections {
		if i, ok := pos[key(det)]; ok {
			h[i].Count++
		}
	}
	return h
}

// AggregateCrossTab counts joint occurrences of two keys over fixed domains.
// Every (row, col) pair is present, zero-filled.
func AggregateCrossTab[R, C comparable](ds Dataset, rowKey func(Detection) R, colKey func(Detection) C, rowDomain []R, colDomain []C) CrossTab[R, C] {
	rowPos := indexOf(rowDomain)
	colPos := indexOf(colDomain)

	counts := make([][]int, len(rowDomain))
	for i := range counts {
		counts[i] = make([]int, len(colDomain))
	}
	for _, det := range ds.Detections {
		i, okR := rowPos[rowKey(det)]
		j, okC := colPos[colKey(det)]
		if okR && okC {
			counts[i][j]++
		}
	}
	return CrossTab[R, C]{Rows: rowDomain, Cols: colDomain, Counts: counts}
}

func indexOf[K comparable](domain []K) map[K]int {
	pos := make(map[K]int, len(domain))
	for i, k := range domain {
		if _, dup := pos[k]; !dup {
			pos[k] = i
		}
	}
	return pos
}
