package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/focos-report/internal/config"
	"github.com/couchcryptid/focos-report/internal/domain"
	"github.com/couchcryptid/focos-report/internal/observability"
)

const sampleFile = "../../internal/csvload/testdata/focos_sample.csv"

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("LOG_LEVEL", "error")

	cmd := newRootCmd(observability.NewMetricsForTesting())
	var stdout, stderr bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRoot_GeneratesDashboard(t *testing.T) {
	out := filepath.Join(t.TempDir(), "visualizacoes")

	stdout, _, err := execute(t, "", sampleFile, "-o", out, "-n", "3")
	require.NoError(t, err)

	assert.Contains(t, stdout, "20 focos")
	for _, name := range []string{"dashboard.html", "index.html"} {
		_, statErr := os.Stat(filepath.Join(out, name))
		assert.NoError(t, statErr, name)
	}
}

func TestRoot_OutputFromEnv(t *testing.T) {
	out := filepath.Join(t.TempDir(), "from-env")
	t.Setenv("OUTPUT_DIR", out)

	_, _, err := execute(t, "", sampleFile)
	require.NoError(t, err)

	_, statErr := os.Stat(filepath.Join(out, "index.html"))
	assert.NoError(t, statErr)
}

func TestRoot_PromptsWhenNotFound(t *testing.T) {
	out := t.TempDir()

	_, stderr, err := execute(t, sampleFile+"\n", filepath.Join(out, "absent.csv"), "-o", out)
	require.NoError(t, err)

	assert.Contains(t, stderr, "absent.csv")
	_, statErr := os.Stat(filepath.Join(out, "dashboard.html"))
	assert.NoError(t, statErr)
}

func TestRoot_NotFoundWithoutAnswer(t *testing.T) {
	out := t.TempDir()

	_, _, err := execute(t, "", filepath.Join(out, "absent.csv"), "-o", out)

	assert.True(t, errors.Is(err, domain.ErrFileNotFound))
}

func TestRoot_InvalidArguments(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"zero top", []string{sampleFile, "-n", "0", "-o", t.TempDir()}},
		{"two inputs", []string{sampleFile, sampleFile}},
		{"unknown flag", []string{"--bogus"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, "", tt.args...)
			require.Error(t, err)
		})
	}
}

func TestRoot_ParseErrorWritesNothing(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "focos.csv")
	require.NoError(t, os.WriteFile(input, []byte("lat,lon,municipio,estado,bioma,data_pas\n-27,-50,A,SC,Pampa,nunca\n"), 0o600))
	out := filepath.Join(dir, "out")

	_, _, err := execute(t, "", input, "-o", out)

	var parseErr *domain.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, 2, parseErr.Line)
	_, statErr := os.Stat(out)
	assert.True(t, errors.Is(statErr, os.ErrNotExist))
}

type alwaysReady struct{}

func (alwaysReady) CheckReadiness(context.Context) error { return nil }

// cancelOnWrite cancels the command context once the summary is printed, so
// --serve shuts down right after the dashboard is published.
type cancelOnWrite struct {
	bytes.Buffer
	cancel context.CancelFunc
}

func (w *cancelOnWrite) Write(p []byte) (int, error) {
	w.cancel()
	return w.Buffer.Write(p)
}

func TestServeOutput_CancelledContext(t *testing.T) {
	cfg := &config.Config{HTTPAddr: "127.0.0.1:0", OutputDir: t.TempDir(), ShutdownTimeout: time.Second}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := serveOutput(ctx, cfg, alwaysReady{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
}

func TestRoot_ServeShutsDownGracefully(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("HTTP_ADDR", "127.0.0.1:0")
	out := filepath.Join(t.TempDir(), "visualizacoes")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stdout := &cancelOnWrite{cancel: cancel}

	cmd := newRootCmd(observability.NewMetricsForTesting())
	cmd.SetIn(strings.NewReader(""))
	cmd.SetOut(stdout)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{sampleFile, "-o", out, "--serve"})

	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(ctx) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("serve did not return after cancel")
	}
	assert.Contains(t, stdout.String(), "20 focos")
	_, statErr := os.Stat(filepath.Join(out, "index.html"))
	assert.NoError(t, statErr)
}

func TestRoot_ServeListenError(t *testing.T) {
	t.Setenv("HTTP_ADDR", "256.0.0.1:99999")
	out := t.TempDir()

	_, _, err := execute(t, "", sampleFile, "-o", out, "--serve")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "listen")
}
