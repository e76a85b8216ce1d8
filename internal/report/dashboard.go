// Package report renders a Dataset into a self-contained HTML dashboard.
//
// Every panel is a gonum/plot chart drawn to SVG and inlined as a data URI,
// so the published file has no external assets.
package report

import (
	"context"
	"encoding/base64"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"

	"github.com/couchcryptid/focos-report/internal/domain"
)

const (
	// DefaultTitle heads the page when no title is configured.
	DefaultTitle = "Dashboard de Focos de Calor"
	// DefaultTopN is the length of the municipality ranking.
	DefaultTopN = 10
	// DefaultDensityBins is the number of bins per axis of the density map.
	DefaultDensityBins = 40

	panelWidth  = 7 * vg.Inch
	panelHeight = 4 * vg.Inch
	mapHeight   = 6 * vg.Inch
)

// Options controls the content of a dashboard.
type Options struct {
	Title       string
	TopN        int
	DensityBins int
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{Title: DefaultTitle, TopN: DefaultTopN, DensityBins: DefaultDensityBins}
}

// Panel is one rendered chart.
type Panel struct {
	ID    string
	Title string
	Wide  bool
	Image template.URL // data:image/svg+xml;base64,...
}

// Dashboard is the fully rendered report, ready for the HTML template.
type Dashboard struct {
	Title       string
	Source      string
	RunID       string
	GeneratedAt time.Time
	Summary     domain.Summary
	Panels      []Panel
}

// Render executes the HTML template for d into w.
func (d *Dashboard) Render(w io.Writer) error {
	if err := dashboardTemplate.Execute(w, d); err != nil {
		return fmt.Errorf("execute template: %w", err)
	}
	return nil
}

// Builder turns a derived Dataset into a Dashboard.
type Builder struct {
	opts   Options
	logger *slog.Logger
}

// NewBuilder returns a Builder; zero-valued options fall back to defaults.
func NewBuilder(opts Options, logger *slog.Logger) *Builder {
	defaults := DefaultOptions()
	if opts.Title == "" {
		opts.Title = defaults.Title
	}
	if opts.TopN == 0 {
		opts.TopN = defaults.TopN
	}
	if opts.DensityBins == 0 {
		opts.DensityBins = defaults.DensityBins
	}
	return &Builder{opts: opts, logger: logger}
}

type panelDef struct {
	id     string
	title  string
	wide   bool
	height vg.Length
	build  func() (*plot.Plot, error)
}

// Build computes every aggregate view of ds and renders the panels in
// dashboard order. ds must already carry derived calendar fields.
func (b *Builder) Build(ctx context.Context, ds domain.Dataset) (*Dashboard, error) {
	if ds.Len() == 0 {
		return nil, fmt.Errorf("%w: dataset is empty", domain.ErrInvalidArgument)
	}

	top, err := domain.AggregateTopN(ds, b.opts.TopN)
	if err != nil {
		return nil, fmt.Errorf("top municipalities: %w", err)
	}
	density, err := domain.AggregateDensity(ds, b.opts.DensityBins)
	if err != nil {
		return nil, fmt.Errorf("density grid: %w", err)
	}
	biomes := domain.BiomeDomain(ds)

	defs := []panelDef{
		{id: "evolucao-temporal", title: "Evolução temporal", wide: true, height: panelHeight,
			build: func() (*plot.Plot, error) { return dailyChart(domain.AggregateDaily(ds)) }},
		{id: "top-municipios", title: "Municípios mais afetados", height: panelHeight,
			build: func() (*plot.Plot, error) { return topChart(top) }},
		{id: "biomas-mes", title: "Biomas por mês", height: panelHeight,
			build: func() (*plot.Plot, error) {
				return groupedBiomeMonthChart(domain.AggregateCrossTab(ds, domain.BiomeOf, domain.MonthOf, biomes, domain.Months()))
			}},
		{id: "mapa-focos", title: "Mapa de focos", height: mapHeight,
			build: func() (*plot.Plot, error) { return mapChart(ds, biomes) }},
		{id: "mapa-densidade", title: "Mapa de densidade", height: mapHeight,
			build: func() (*plot.Plot, error) { return densityChart(density), nil }},
		{id: "hora", title: "Focos por hora", height: panelHeight,
			build: func() (*plot.Plot, error) {
				return hourChart(domain.AggregateHistogram(ds, domain.HourOf, domain.Hours()))
			}},
		{id: "dia-semana", title: "Focos por dia da semana", height: panelHeight,
			build: func() (*plot.Plot, error) {
				return weekdayChart(domain.AggregateHistogram(ds, domain.WeekdayOf, domain.Weekdays()))
			}},
		{id: "mes", title: "Focos por mês", height: panelHeight,
			build: func() (*plot.Plot, error) {
				return monthChart(domain.AggregateHistogram(ds, domain.MonthOf, domain.Months()))
			}},
		{id: "hora-dia-semana", title: "Hora vs dia da semana", height: panelHeight,
			build: func() (*plot.Plot, error) {
				return hourWeekdayChart(domain.AggregateCrossTab(ds, domain.HourOf, domain.WeekdayOf, domain.Hours(), domain.Weekdays())), nil
			}},
		{id: "biomas", title: "Distribuição por bioma", height: panelHeight,
			build: func() (*plot.Plot, error) { return biomeDistributionChart(domain.AggregateBiomes(ds)) }},
		{id: "evolucao-biomas", title: "Evolução por bioma", wide: true, height: panelHeight,
			build: func() (*plot.Plot, error) { return biomeEvolutionChart(domain.AggregateDailyBy(ds, domain.BiomeOf)) }},
	}

	panels := make([]Panel, 0, len(defs))
	for _, def := range defs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p, err := def.build()
		if err != nil {
			return nil, fmt.Errorf("panel %s: %w", def.id, err)
		}
		svg, err := renderSVG(p, panelWidth, def.height)
		if err != nil {
			return nil, fmt.Errorf("panel %s: %w", def.id, err)
		}
		b.logger.Debug("panel rendered", "panel", def.id, "bytes", len(svg))
		panels = append(panels, Panel{ID: def.id, Title: def.title, Wide: def.wide, Image: svgDataURI(svg)})
	}

	return &Dashboard{
		Title:       b.opts.Title,
		Source:      ds.Source,
		RunID:       uuid.NewString(),
		GeneratedAt: clock.Now(),
		Summary:     domain.Summarize(ds),
		Panels:      panels,
	}, nil
}

func svgDataURI(svg []byte) template.URL {
	return template.URL("data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString(svg)) //nolint:gosec // SVG drawn by gonum/plot
}
