// Package report renders check progress and results.
package report

import (
	"bufio"
	"fmt"
	"io"
	"time"

	"github.com/aluiziolira/go-library-check/models"
)

// Progress is the running state printed after each book.
type Progress struct {
	Index        int
	Total        int
	Available    int
	NotAvailable int
	Ordered      int
	NotFound     int
	BookTime     time.Duration
	TotalTime    time.Duration
	AverageTime  time.Duration
}

// NewProgress snapshots bucket counts from result.
func NewProgress(result *models.RunResult, bookTime, totalTime, avg time.Duration) Progress {
	return Progress{
		Index:        result.Checked(),
		Total:        result.Total,
		Available:    len(result.Available),
		NotAvailable: len(result.NotAvailable),
		Ordered:      len(result.Ordered),
		NotFound:     len(result.NotFound),
		BookTime:     bookTime,
		TotalTime:    totalTime,
		AverageTime:  avg,
	}
}

func (p Progress) String() string {
	return fmt.Sprintf("(%d/%d) (A=%d,NA=%d,O=%d,NF=%d) Book time: %s  Total time: %s Avg: %s",
		p.Index, p.Total,
		p.Available, p.NotAvailable, p.Ordered, p.NotFound,
		FormatDuration(p.BookTime), FormatDuration(p.TotalTime), FormatDuration(p.AverageTime),
	)
}

// FormatDuration prints whole minutes and seconds, e.g. "1 min 5 s".
func FormatDuration(d time.Duration) string {
	seconds := d.Milliseconds() / 1000
	return fmt.Sprintf("%d min %d s", seconds/60, seconds%60)
}

// OutcomeLine is printed as soon as a book has been classified.
func OutcomeLine(status models.Status, book *models.Book) string {
	switch status {
	case models.StatusAvailable:
		return "AVAILABLE: " + book.String()
	case models.StatusNotAvailable:
		return "NOT AVAILABLE: " + book.String()
	case models.StatusOrdered:
		return "ORDERED: " + book.String()
	default:
		return "NOT FOUND: " + book.String()
	}
}

// ErrorLine is printed for a book whose check failed.
func ErrorLine(book *models.Book) string {
	return "ERROR: " + book.String()
}

// WriteSummary prints the grouped final report.
func WriteSummary(w io.Writer, result *models.RunResult) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw)
	for _, bucket := range result.Buckets() {
		fmt.Fprintln(bw)
		fmt.Fprintf(bw, "%s (%d/%d):\n", bucket.Title, len(bucket.Books), result.Total)
		for _, book := range bucket.Books {
			fmt.Fprintf(bw, "- %s\n", book)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}
