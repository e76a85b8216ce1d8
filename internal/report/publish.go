package report

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Output file names; both receive identical bytes.
const (
	DashboardFile = "dashboard.html"
	IndexFile     = "index.html"
)

// Publisher writes rendered dashboards into an output directory.
type Publisher struct {
	dir    string
	logger *slog.Logger
}

// NewPublisher returns a Publisher writing into dir.
func NewPublisher(dir string, logger *slog.Logger) *Publisher {
	return &Publisher{dir: dir, logger: logger}
}

// Dir returns the output directory.
func (p *Publisher) Dir() string { return p.dir }

// Publish renders d once and writes it to DashboardFile and IndexFile under
// the output directory, creating the directory when missing. It returns the
// written paths. Nothing is written when rendering fails.
func (p *Publisher) Publish(ctx context.Context, d *Dashboard) ([]string, error) {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return nil, fmt.Errorf("render dashboard: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir %s: %w", p.dir, err)
	}

	paths := make([]string, 0, 2)
	for _, name := range []string{DashboardFile, IndexFile} {
		path := filepath.Join(p.dir, name)
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil { //nolint:gosec // dashboard is meant to be world-readable
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}

	p.logger.Info("dashboard published", "paths", paths, "bytes", buf.Len())
	return paths, nil
}
