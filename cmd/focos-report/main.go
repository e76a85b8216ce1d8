// Command focos-report renders a heat-detection CSV export into a
// self-contained HTML dashboard.
//
// Usage:
//
//	focos-report [arquivo.csv] [-o visualizacoes] [-n 10] [--serve]
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	httpadapter "github.com/couchcryptid/focos-report/internal/adapter/http"
	"github.com/couchcryptid/focos-report/internal/config"
	"github.com/couchcryptid/focos-report/internal/csvload"
	"github.com/couchcryptid/focos-report/internal/discovery"
	"github.com/couchcryptid/focos-report/internal/observability"
	"github.com/couchcryptid/focos-report/internal/pipeline"
	"github.com/couchcryptid/focos-report/internal/report"
)

func main() {
	_ = godotenv.Load()

	if err := newRootCmd(observability.NewMetrics()).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "erro:", err)
		os.Exit(1)
	}
}

type flags struct {
	output string
	top    int
	serve  bool
}

func newRootCmd(metrics *observability.Metrics) *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:           "focos-report [arquivo.csv]",
		Short:         "Gera o dashboard HTML de focos de calor",
		Long:          "Lê o CSV ordenado de focos de calor e gera um dashboard HTML autocontido com mapas e gráficos.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, argv []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			if len(argv) == 1 {
				cfg.InputPath = argv[0]
			}
			if cmd.Flags().Changed("output") {
				cfg.OutputDir = f.output
			}
			if cmd.Flags().Changed("top") {
				cfg.TopMunicipalities = f.top
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("config: %w", err)
			}
			return run(cmd.Context(), cfg, f.serve, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr(), metrics)
		},
	}

	cmd.Flags().StringVarP(&f.output, "output", "o", "visualizacoes", "diretório de saída (env OUTPUT_DIR)")
	cmd.Flags().IntVarP(&f.top, "top", "n", report.DefaultTopN, "municípios no ranking (env TOP_MUNICIPALITIES)")
	cmd.Flags().BoolVar(&f.serve, "serve", false, "servir o diretório de saída em HTTP_ADDR após gerar")
	return cmd
}

func run(ctx context.Context, cfg *config.Config, serve bool, stdin io.Reader, stdout, stderr io.Writer, metrics *observability.Metrics) error {
	logger := observability.NewLogger(cfg)

	path, err := resolveInput(cfg.InputPath, stdin, stderr)
	if err != nil {
		metrics.LoadErrors.WithLabelValues(observability.ErrKindNotFound).Inc()
		return err
	}

	p := pipeline.New(
		csvload.NewLoader(logger),
		report.NewBuilder(report.Options{TopN: cfg.TopMunicipalities, DensityBins: cfg.DensityBins}, logger),
		report.NewPublisher(cfg.OutputDir, logger),
		logger,
		metrics,
	)

	res, err := p.Run(ctx, path)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Dashboard gerado com %d focos (%d gráficos):\n", res.Records, res.Panels)
	for _, written := range res.Paths {
		fmt.Fprintf(stdout, "   %s\n", written)
	}

	if !serve {
		return nil
	}
	return serveOutput(ctx, cfg, p, logger)
}

// resolveInput finds the CSV via discovery and falls back to asking on stdin.
func resolveInput(explicit string, stdin io.Reader, stderr io.Writer) (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("working directory: %w", err)
	}

	path, err := discovery.Find(explicit, cwd)
	if err == nil {
		return path, nil
	}

	var nf *discovery.NotFoundError
	if !errors.As(err, &nf) {
		return "", err
	}
	discovery.WriteDiagnostics(stderr, nf)
	return discovery.Prompt(stdin, stderr)
}

// serveOutput previews the output directory until ctx is cancelled or the
// process is interrupted.
func serveOutput(ctx context.Context, cfg *config.Config, ready sharedobs.ReadinessChecker, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return httpadapter.NewServer(cfg.HTTPAddr, cfg.OutputDir, ready, logger).Serve(ctx, cfg.ShutdownTimeout)
}
