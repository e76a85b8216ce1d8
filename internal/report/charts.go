package report

import (
	"bytes"
	"fmt"
	"image/color"
	"math"
	"strconv"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/couchcryptid/focos-report/internal/domain"
)

// Axis labels in dashboard order.
var (
	monthLabels   = []string{"Jan", "Fev", "Mar", "Abr", "Mai", "Jun", "Jul", "Ago", "Set", "Out", "Nov", "Dez"}
	weekdayLabels = []string{"Seg", "Ter", "Qua", "Qui", "Sex", "Sáb", "Dom"}
)

var (
	colorDaily    = rgb(0xFF, 0x6B, 0x6B)
	colorMean     = rgb(0x4E, 0xCD, 0xC4)
	colorTopBar   = rgb(0xD7, 0x30, 0x27)
	colorTopEdge  = rgb(0x8B, 0x00, 0x00)
	colorHour     = rgb(0xAD, 0xD8, 0xE6)
	colorWeekday  = rgb(0x90, 0xEE, 0x90)
	colorMonth    = rgb(0xFF, 0x7F, 0x50)
	colorBiomeBar = rgb(0x2E, 0x7D, 0x32)

	// biomeColors cycles for series keyed by biome.
	biomeColors = []color.Color{
		rgb(0xE4, 0x1A, 0x1C), rgb(0x37, 0x7E, 0xB8), rgb(0x4D, 0xAF, 0x4A),
		rgb(0x98, 0x4E, 0xA3), rgb(0xFF, 0x7F, 0x00), rgb(0xA6, 0x56, 0x28),
	}
)

func rgb(r, g, b uint8) color.RGBA { return color.RGBA{R: r, G: g, B: b, A: 0xFF} }

func biomeColor(i int) color.Color { return biomeColors[i%len(biomeColors)] }

func newPlot(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(13)
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	return p
}

// dailyChart plots detections per day with the centered rolling mean.
func dailyChart(days []domain.DailyCount) (*plot.Plot, error) {
	p := newPlot("Evolução Temporal dos Focos", "Data", "Número de Focos")
	p.X.Tick.Marker = plot.TimeTicks{Format: "02/01"}
	p.Add(plotter.NewGrid())
	p.Legend.Top = true

	counts := make(plotter.XYs, len(days))
	var means plotter.XYs
	for i, d := range days {
		x := float64(d.Date.Unix())
		counts[i] = plotter.XY{X: x, Y: float64(d.Count)}
		if d.RollingMean != nil {
			means = append(means, plotter.XY{X: x, Y: *d.RollingMean})
		}
	}

	line, points, err := plotter.NewLinePoints(counts)
	if err != nil {
		return nil, fmt.Errorf("daily line: %w", err)
	}
	line.Color = colorDaily
	line.Width = vg.Points(1.5)
	points.Color = colorDaily
	points.Radius = vg.Points(2)
	p.Add(line, points)
	p.Legend.Add("Focos Diários", line, points)

	if len(means) > 0 {
		mean, err := plotter.NewLine(means)
		if err != nil {
			return nil, fmt.Errorf("rolling mean line: %w", err)
		}
		mean.Color = colorMean
		mean.Width = vg.Points(2)
		mean.Dashes = []vg.Length{vg.Points(2), vg.Points(3)}
		p.Add(mean)
		p.Legend.Add(fmt.Sprintf("Média %d dias", domain.RollingWindow), mean)
	}
	return p, nil
}

// topChart draws the municipality ranking as horizontal bars, largest on top.
func topChart(top []domain.RankEntry) (*plot.Plot, error) {
	p := newPlot(fmt.Sprintf("Top %d Municípios Mais Afetados", len(top)), "Número de Focos", "")

	n := len(top)
	values := make(plotter.Values, n)
	names := make([]string, n)
	labels := plotter.XYLabels{XYs: make(plotter.XYs, n), Labels: make([]string, n)}
	maxCount := 0.0
	for i, e := range top {
		j := n - 1 - i
		values[j] = float64(e.Count)
		names[j] = e.Key
		labels.XYs[j] = plotter.XY{X: float64(e.Count), Y: float64(j)}
		labels.Labels[j] = fmt.Sprintf("%d focos", e.Count)
		maxCount = math.Max(maxCount, float64(e.Count))
	}

	bars, err := plotter.NewBarChart(values, vg.Points(12))
	if err != nil {
		return nil, fmt.Errorf("top bars: %w", err)
	}
	bars.Horizontal = true
	bars.Color = colorTopBar
	bars.LineStyle.Color = colorTopEdge

	text, err := plotter.NewLabels(labels)
	if err != nil {
		return nil, fmt.Errorf("top labels: %w", err)
	}
	for i := range text.TextStyle {
		text.TextStyle[i].YAlign = draw.YCenter
	}
	text.Offset = vg.Point{X: vg.Points(4)}

	p.Add(bars, text)
	p.NominalY(names...)
	p.X.Min = 0
	p.X.Max = maxCount * 1.25
	return p, nil
}

// groupedBiomeMonthChart draws one bar per biome for each month.
func groupedBiomeMonthChart(ct domain.CrossTab[string, time.Month]) (*plot.Plot, error) {
	p := newPlot("Biomas Afetados por Mês", "Mês", "Número de Focos")
	p.Legend.Top = true

	groups := len(ct.Rows)
	width := vg.Points(math.Max(3, 30/float64(max(groups, 1))))
	for i, biome := range ct.Rows {
		values := make(plotter.Values, len(ct.Cols))
		for j := range ct.Cols {
			values[j] = float64(ct.Counts[i][j])
		}
		bars, err := plotter.NewBarChart(values, width)
		if err != nil {
			return nil, fmt.Errorf("biome %s bars: %w", biome, err)
		}
		bars.Color = biomeColor(i)
		bars.LineStyle.Width = 0
		bars.Offset = vg.Length(float64(i)-float64(groups-1)/2) * width
		p.Add(bars)
		p.Legend.Add(biome, bars)
	}
	p.NominalX(monthLabels...)
	return p, nil
}

// histogramChart draws a vertical bar per domain key.
func histogramChart(title, xLabel string, counts []int, names []string, fill color.Color) (*plot.Plot, error) {
	p := newPlot(title, xLabel, "Focos")

	values := make(plotter.Values, len(counts))
	for i, c := range counts {
		values[i] = float64(c)
	}
	bars, err := plotter.NewBarChart(values, vg.Points(14))
	if err != nil {
		return nil, fmt.Errorf("%s bars: %w", title, err)
	}
	bars.Color = fill
	bars.LineStyle.Width = 0

	p.Add(plotter.NewGrid(), bars)
	p.NominalX(names...)
	return p, nil
}

func hourChart(h domain.Histogram[int]) (*plot.Plot, error) {
	names := make([]string, len(h))
	for i, b := range h {
		names[i] = strconv.Itoa(b.Key)
	}
	return histogramChart("Distribuição por Hora do Dia", "Hora", h.Counts(), names, colorHour)
}

func weekdayChart(h domain.Histogram[time.Weekday]) (*plot.Plot, error) {
	return histogramChart("Distribuição por Dia da Semana", "Dia da Semana", h.Counts(), weekdayLabels, colorWeekday)
}

func monthChart(h domain.Histogram[time.Month]) (*plot.Plot, error) {
	return histogramChart("Distribuição por Mês", "Mês", h.Counts(), monthLabels, colorMonth)
}

func biomeDistributionChart(ranked []domain.RankEntry) (*plot.Plot, error) {
	counts := make([]int, len(ranked))
	names := make([]string, len(ranked))
	for i, e := range ranked {
		counts[i] = e.Count
		names[i] = e.Key
	}
	return histogramChart("Distribuição por Bioma", "Bioma", counts, names, colorBiomeBar)
}

// countGrid adapts a count matrix to plotter.GridXYZ; counts[r][c].
type countGrid struct {
	counts [][]int
	x      func(c int) float64
	y      func(r int) float64
}

func (g countGrid) Dims() (c, r int)   { return len(g.counts[0]), len(g.counts) }
func (g countGrid) Z(c, r int) float64 { return float64(g.counts[r][c]) }
func (g countGrid) X(c int) float64    { return g.x(c) }
func (g countGrid) Y(r int) float64    { return g.y(r) }

func index(i int) float64 { return float64(i) }

func heatMap(g countGrid, maxCount int) *plotter.HeatMap {
	hm := plotter.NewHeatMap(g, palette.Heat(12, 1))
	hm.Min = 0
	// an all-zero grid still needs a non-empty colour range
	hm.Max = math.Max(1, float64(maxCount))
	return hm
}

// hourWeekdayChart is the hour × weekday heat map; rows are hours.
func hourWeekdayChart(ct domain.CrossTab[int, time.Weekday]) *plot.Plot {
	p := newPlot("Hora vs Dia da Semana", "Dia da Semana", "Hora")
	p.Add(heatMap(countGrid{counts: ct.Counts, x: index, y: index}, ct.Max()))
	p.NominalX(weekdayLabels...)
	return p
}

// densityChart is the lat/lon binned heat map.
func densityChart(g domain.DensityGrid) *plot.Plot {
	p := newPlot("Mapa de Densidade de Focos de Calor", "Longitude", "Latitude")
	maxCount := 0
	for _, row := range g.Counts {
		for _, v := range row {
			maxCount = max(maxCount, v)
		}
	}
	p.Add(heatMap(countGrid{counts: g.Counts, x: g.LonCenter, y: g.LatCenter}, maxCount))
	return p
}

// mapChart scatters every detection at lon/lat, one colour per biome.
func mapChart(ds domain.Dataset, biomes []string) (*plot.Plot, error) {
	p := newPlot("Mapa de Focos", "Longitude", "Latitude")
	p.Add(plotter.NewGrid())
	p.Legend.Top = true

	byBiome := make(map[string]plotter.XYs, len(biomes))
	for _, det := range ds.Detections {
		byBiome[det.Biome] = append(byBiome[det.Biome], plotter.XY{X: det.Geo.Lon, Y: det.Geo.Lat})
	}
	for i, biome := range biomes {
		s, err := plotter.NewScatter(byBiome[biome])
		if err != nil {
			return nil, fmt.Errorf("map %s: %w", biome, err)
		}
		s.GlyphStyle.Color = biomeColor(i)
		s.GlyphStyle.Radius = vg.Points(1.8)
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(s)
		p.Legend.Add(biome, s)
	}
	return p, nil
}

// biomeEvolutionChart draws one daily line per biome.
func biomeEvolutionChart(series []domain.DailySeries) (*plot.Plot, error) {
	p := newPlot("Evolução Temporal por Bioma", "Data", "Focos")
	p.X.Tick.Marker = plot.TimeTicks{Format: "02/01"}
	p.Add(plotter.NewGrid())
	p.Legend.Top = true

	for i, s := range series {
		xys := make(plotter.XYs, len(s.Days))
		for j, d := range s.Days {
			xys[j] = plotter.XY{X: float64(d.Date.Unix()), Y: float64(d.Count)}
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return nil, fmt.Errorf("biome %s line: %w", s.Key, err)
		}
		line.Color = biomeColor(i)
		line.Width = vg.Points(1.5)
		p.Add(line)
		p.Legend.Add(s.Key, line)
	}
	return p, nil
}

// renderSVG draws p into an SVG document of the given size.
func renderSVG(p *plot.Plot, w, h vg.Length) ([]byte, error) {
	wt, err := p.WriterTo(w, h, "svg")
	if err != nil {
		return nil, fmt.Errorf("svg canvas: %w", err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write svg: %w", err)
	}
	return buf.Bytes(), nil
}
