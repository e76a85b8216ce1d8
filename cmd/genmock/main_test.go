package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/focos-report/internal/csvload"
)

var testOpts = options{rows: 200, seed: 42, start: time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC), days: 30}

func TestGenerate_Deterministic(t *testing.T) {
	var a, b bytes.Buffer
	require.NoError(t, generate(&a, testOpts))
	require.NoError(t, generate(&b, testOpts))
	assert.Equal(t, a.Bytes(), b.Bytes())

	other := testOpts
	other.seed = 43
	var c bytes.Buffer
	require.NoError(t, generate(&c, other))
	assert.NotEqual(t, a.Bytes(), c.Bytes())
}

func TestGenerate_LoadsSortedAndInRange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "dados_ordenados.csv")
	require.NoError(t, writeFile(path, testOpts))

	ds, err := csvload.NewLoader(slog.New(slog.NewTextHandler(io.Discard, nil))).Load(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, testOpts.rows, ds.Len())

	end := testOpts.start.AddDate(0, 0, testOpts.days)
	for i, det := range ds.Detections {
		assert.False(t, det.DetectedAt.Before(testOpts.start), "row %d", i)
		assert.True(t, det.DetectedAt.Before(end), "row %d", i)
		if i > 0 {
			assert.False(t, det.DetectedAt.Before(ds.Detections[i-1].DetectedAt), "row %d out of order", i)
		}
	}
}
