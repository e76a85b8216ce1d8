package report

import (
	"bytes"
	"context"
	"encoding/base64"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/couchcryptid/focos-report/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleDataset(t *testing.T) domain.Dataset {
	t.Helper()
	rows := []struct {
		lat, lon     float64
		municipality string
		biome        string
		at           string
	}{
		{-27.07, -50.04, "LAGES", "Mata Atlântica", "2024-08-01 05:07:00"},
		{-27.10, -50.10, "LAGES", "Mata Atlântica", "2024-08-01 14:30:00"},
		{-27.40, -51.20, "CAMPOS NOVOS", "Mata Atlântica", "2024-08-02 16:00:00"},
		{-28.20, -49.60, "URUBICI", "Pampa", "2024-08-03 17:45:00"},
		{-27.30, -50.50, "CURITIBANOS", "Mata Atlântica", "2024-08-05 13:10:00"},
		{-28.30, -49.90, "SAO JOAQUIM", "Pampa", "2024-09-10 18:00:00"},
		{-27.00, -50.00, "LAGES", "Mata Atlântica", "2024-09-11 03:20:00"},
		{-27.45, -51.25, "CAMPOS NOVOS", "Mata Atlântica", "2024-09-12 15:00:00"},
	}

	dets := make([]domain.Detection, len(rows))
	for i, r := range rows {
		at, err := time.Parse(time.DateTime, r.at)
		require.NoError(t, err)
		dets[i] = domain.Detection{
			Geo:          domain.Geo{Lat: r.lat, Lon: r.lon},
			Municipality: r.municipality,
			State:        "SANTA CATARINA",
			Biome:        r.biome,
			DetectedAt:   at,
			Line:         i + 2,
		}
	}
	return domain.Derive(domain.NewDataset("testdata/focos.csv", dets))
}

var panelOrder = []string{
	"evolucao-temporal", "top-municipios", "biomas-mes", "mapa-focos", "mapa-densidade",
	"hora", "dia-semana", "mes", "hora-dia-semana", "biomas", "evolucao-biomas",
}

func TestBuild_PanelsInOrder(t *testing.T) {
	d, err := NewBuilder(Options{}, discardLogger()).Build(context.Background(), sampleDataset(t))
	require.NoError(t, err)

	ids := make([]string, len(d.Panels))
	for i, p := range d.Panels {
		ids[i] = p.ID
	}
	assert.Equal(t, panelOrder, ids)

	const prefix = "data:image/svg+xml;base64,"
	for _, p := range d.Panels {
		require.True(t, strings.HasPrefix(string(p.Image), prefix), p.ID)
		svg, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(string(p.Image), prefix))
		require.NoError(t, err, p.ID)
		assert.Contains(t, string(svg), "<svg", p.ID)
	}
}

func TestBuild_HeaderFields(t *testing.T) {
	fixed := time.Date(2024, 10, 1, 9, 30, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(fixed))
	t.Cleanup(func() { SetClock(nil) })

	d, err := NewBuilder(Options{Title: "Focos SC"}, discardLogger()).Build(context.Background(), sampleDataset(t))
	require.NoError(t, err)

	assert.Equal(t, "Focos SC", d.Title)
	assert.Equal(t, "testdata/focos.csv", d.Source)
	assert.Equal(t, fixed, d.GeneratedAt)
	_, err = uuid.Parse(d.RunID)
	require.NoError(t, err)

	assert.Equal(t, 8, d.Summary.Total)
	assert.Equal(t, 5, d.Summary.Municipalities)
}

func TestBuild_RunIDsDiffer(t *testing.T) {
	b := NewBuilder(Options{}, discardLogger())
	ds := sampleDataset(t)

	a, err := b.Build(context.Background(), ds)
	require.NoError(t, err)
	c, err := b.Build(context.Background(), ds)
	require.NoError(t, err)

	assert.NotEqual(t, a.RunID, c.RunID)
}

func TestBuild_SingleDetection(t *testing.T) {
	ds := sampleDataset(t).Filter(func(d domain.Detection) bool { return d.Line == 2 })
	require.Equal(t, 1, ds.Len())

	d, err := NewBuilder(Options{}, discardLogger()).Build(context.Background(), ds)
	require.NoError(t, err)
	assert.Len(t, d.Panels, len(panelOrder))
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		ds   func(t *testing.T) domain.Dataset
	}{
		{"empty dataset", Options{}, func(*testing.T) domain.Dataset { return domain.NewDataset("x.csv", nil) }},
		{"negative top-n", Options{TopN: -1}, sampleDataset},
		{"negative density bins", Options{DensityBins: -4}, sampleDataset},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBuilder(tt.opts, discardLogger()).Build(context.Background(), tt.ds(t))
			assert.ErrorIs(t, err, domain.ErrInvalidArgument)
		})
	}
}

func TestBuild_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewBuilder(Options{}, discardLogger()).Build(ctx, sampleDataset(t))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRender_EscapesText(t *testing.T) {
	d := &Dashboard{
		Title:   "Focos",
		Source:  "<script>alert(1)</script>.csv",
		Summary: domain.Summary{Total: 3, DailyMean: 1.5},
		Panels:  []Panel{{ID: "p", Title: "P", Image: svgDataURI([]byte("<svg/>"))}},
	}

	var buf bytes.Buffer
	require.NoError(t, d.Render(&buf))
	page := buf.String()

	assert.NotContains(t, page, "<script>alert")
	assert.Contains(t, page, "&lt;script&gt;")
	// html/template entity-encodes '+' inside attribute values
	assert.Contains(t, page, `src="data:image/svg&#43;xml;base64,`)
	assert.Contains(t, page, "1.5")
}

func TestRender_ImageSourceDecodesToSVG(t *testing.T) {
	d := &Dashboard{Title: "Focos", Panels: []Panel{{ID: "p", Title: "P", Image: svgDataURI([]byte("<svg/>"))}}}

	var buf bytes.Buffer
	require.NoError(t, d.Render(&buf))

	z := html.NewTokenizer(&buf)
	var src string
	for src == "" {
		tt := z.Next()
		require.NotEqual(t, html.ErrorToken, tt, "no img tag rendered")
		tok := z.Token()
		if tok.Type != html.StartTagToken || tok.Data != "img" {
			continue
		}
		for _, a := range tok.Attr {
			if a.Key == "src" {
				src = a.Val
			}
		}
	}

	assert.Equal(t, string(svgDataURI([]byte("<svg/>"))), src)
}

func TestPublish_WritesIdenticalFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "visualizacoes")
	d, err := NewBuilder(Options{}, discardLogger()).Build(context.Background(), sampleDataset(t))
	require.NoError(t, err)

	paths, err := NewPublisher(dir, discardLogger()).Publish(context.Background(), d)
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, DashboardFile), filepath.Join(dir, IndexFile)}, paths)

	dashboard, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	index, err := os.ReadFile(paths[1])
	require.NoError(t, err)

	assert.Equal(t, dashboard, index)
	assert.Contains(t, string(dashboard), DefaultTitle)
	assert.Contains(t, string(dashboard), d.RunID)
	assert.Equal(t, len(panelOrder), strings.Count(string(dashboard), `class="chart-box`))
}

func TestPublish_OverwritesExisting(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, IndexFile), []byte("stale"), 0o600))

	d := &Dashboard{Title: "Fresh"}
	_, err := NewPublisher(dir, discardLogger()).Publish(context.Background(), d)
	require.NoError(t, err)

	index, err := os.ReadFile(filepath.Join(dir, IndexFile))
	require.NoError(t, err)
	assert.NotContains(t, string(index), "stale")
	assert.Contains(t, string(index), "Fresh")
}

func TestCountGrid(t *testing.T) {
	g := countGrid{counts: [][]int{{1, 2, 3}, {4, 5, 6}}, x: index, y: index}

	c, r := g.Dims()
	assert.Equal(t, 3, c)
	assert.Equal(t, 2, r)
	assert.Equal(t, 6.0, g.Z(2, 1))
	assert.Equal(t, 2.0, g.X(2))
}

func TestLabelTablesMatchDomains(t *testing.T) {
	assert.Len(t, monthLabels, len(domain.Months()))
	assert.Len(t, weekdayLabels, len(domain.Weekdays()))
	assert.Equal(t, time.Monday, domain.Weekdays()[0])
}
