// Package runner checks a book list against the catalog one book at a time.
package runner

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/aluiziolira/go-library-check/catalog"
	"github.com/aluiziolira/go-library-check/classifier"
	"github.com/aluiziolira/go-library-check/models"
	"github.com/aluiziolira/go-library-check/report"
)

// Runner owns the result buckets and timing of one pass over the list.
type Runner struct {
	classifier *classifier.Classifier
	out        io.Writer
	logger     *slog.Logger
	metrics    *Metrics
	exporter   report.Exporter
	now        func() time.Time
}

// Option configures a Runner.
type Option func(*Runner)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

// WithLogger sets the diagnostic logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) { r.logger = logger }
}

// WithMetrics records per-book metrics.
func WithMetrics(m *Metrics) Option {
	return func(r *Runner) { r.metrics = m }
}

// WithExporter streams each checked record to e.
func WithExporter(e report.Exporter) Option {
	return func(r *Runner) { r.exporter = e }
}

// New builds a Runner printing the console report to out.
func New(target catalog.Target, out io.Writer, opts ...Option) *Runner {
	r := &Runner{
		classifier: classifier.New(target),
		out:        out,
		logger:     slog.Default(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run opens one session, checks every book in order and prints the grouped
// report. Only a failure to open the session aborts the run.
func (r *Runner) Run(ctx context.Context, books []*models.Book, open catalog.Opener) (*models.RunResult, error) {
	session, err := open(ctx)
	if err != nil {
		return nil, fmt.Errorf("open catalog session: %w", err)
	}
	defer func() {
		if cerr := session.Close(); cerr != nil {
			r.logger.Error("close catalog session", slog.Any("error", cerr))
		}
	}()

	result := &models.RunResult{Total: len(books)}
	stats := NewStats(r.now())

	for _, book := range books {
		status := r.checkBook(ctx, session, book)
		result.Add(status, book)

		if r.exporter != nil {
			if err := r.exporter.Write([]models.Record{{Status: status, Book: book}}); err != nil {
				r.logger.Error("export record", slog.String("book", book.String()), slog.Any("error", err))
			}
		}

		lap := stats.Lap(r.now())
		r.metrics.IncOutcome(status.String())
		r.metrics.ObserveDuration(lap.Book)
		fmt.Fprintln(r.out, report.NewProgress(result, lap.Book, lap.Total, lap.Average))
	}

	r.logger.Info("check finished",
		slog.Int("books", result.Total),
		slog.Int("available", len(result.Available)),
		slog.Int("not_available", len(result.NotAvailable)),
		slog.Int("ordered", len(result.Ordered)),
		slog.Int("not_found", len(result.NotFound)),
	)

	if err := report.WriteSummary(r.out, result); err != nil {
		return result, err
	}
	return result, nil
}

// checkBook searches and classifies one book. Errors degrade to not found.
func (r *Runner) checkBook(ctx context.Context, session catalog.Session, book *models.Book) models.Status {
	outcome, err := r.searchAndClassify(ctx, session, book)
	if err != nil {
		category := catalog.ErrorTypeLabel(err)
		r.metrics.IncError(category)
		r.logger.Error("book check failed",
			slog.String("book", book.String()),
			slog.String("error_type", category),
			slog.Any("error", err),
		)
		fmt.Fprintln(r.out, report.ErrorLine(book))
		return models.StatusNotFound
	}

	if outcome.Status == models.StatusAvailable {
		if err := book.Resolve(outcome.Location); err != nil {
			r.logger.Warn("book location already set", slog.String("book", book.String()))
		}
	}
	fmt.Fprintln(r.out, report.OutcomeLine(outcome.Status, book))
	return outcome.Status
}

func (r *Runner) searchAndClassify(ctx context.Context, session catalog.Session, book *models.Book) (models.Outcome, error) {
	if err := session.SubmitSearch(ctx, book.Title, searchAuthor(book.Author)); err != nil {
		return models.Outcome{}, fmt.Errorf("submit search: %w", err)
	}
	return r.classifier.Classify(ctx, session)
}

// searchAuthor drops authors of one character or less.
func searchAuthor(author string) string {
	if utf8.RuneCountInString(author) > 1 {
		return author
	}
	return ""
}
