package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/aluiziolira/go-library-check/browser"
	"github.com/aluiziolira/go-library-check/catalog"
	"github.com/aluiziolira/go-library-check/config"
	"github.com/aluiziolira/go-library-check/parser"
	"github.com/aluiziolira/go-library-check/report"
	"github.com/aluiziolira/go-library-check/runner"
	"github.com/aluiziolira/go-library-check/scraper"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checklibrary <book-list>",
		Short: "Check which books of a list are on the shelf at the library branch",
		Long: `Reads a book list (author, title and shelf code per block) and looks every
book up in the library catalog. Each book is reported as available with its
shelf location, not available, ordered, or not found.

Settings come from LIBCHECK_* environment variables.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			cmd.SilenceUsage = true
			cmd.SilenceErrors = true

			logger := newLogger(stderr, cfg.Verbose).With(slog.String("run_id", uuid.NewString()))
			slog.SetDefault(logger)

			if err := run(cmd.Context(), args[0], cfg, stdout, logger); err != nil {
				logger.Error("check failed", slog.Any("error", err))
				return err
			}
			return nil
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stdout)
	return cmd
}

func run(ctx context.Context, path string, cfg *config.Config, stdout io.Writer, logger *slog.Logger) error {
	books, err := parser.ReadFile(path)
	if err != nil {
		return err
	}
	logger.Info("book list loaded",
		slog.String("file", path),
		slog.Int("books", len(books)),
		slog.String("backend", cfg.Backend),
	)

	metrics := runner.NewMetrics()
	opts := []runner.Option{runner.WithLogger(logger), runner.WithMetrics(metrics)}

	if cfg.OutputFile != "" {
		exporter, err := report.NewExporter(cfg.OutputFormat, cfg.OutputFile)
		if err != nil {
			return fmt.Errorf("create exporter: %w", err)
		}
		defer func() {
			if err := exporter.Validate(); err != nil {
				logger.Error("output validation failed", slog.Any("error", err))
			}
			if err := exporter.Close(); err != nil {
				logger.Error("close exporter", slog.Any("error", err))
			}
		}()
		opts = append(opts, runner.WithExporter(exporter))
	}

	if cfg.MetricsAddr != "" {
		stop := serveMetrics(cfg.MetricsAddr, metrics, logger)
		defer stop()
	}

	_, err = runner.New(cfg.Target(), stdout, opts...).Run(ctx, books, openerFor(cfg))
	return err
}

func openerFor(cfg *config.Config) catalog.Opener {
	if cfg.Backend == config.BackendStatic {
		return scraper.Opener(cfg)
	}
	return browser.Opener(cfg)
}

func serveMetrics(addr string, metrics *runner.Metrics, logger *slog.Logger) func() {
	server := &http.Server{
		Addr:              addr,
		Handler:           promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", slog.Any("error", err))
		}
	}()
	logger.Info("metrics server enabled", slog.String("addr", addr))

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("metrics server shutdown failed", slog.Any("error", err))
		}
	}
}

// newLogger logs text on a terminal and JSON otherwise.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	if isTerminal(w) {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
