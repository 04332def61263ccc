package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/aluiziolira/go-library-check/models"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{in: 0, want: "0 min 0 s"},
		{in: 999 * time.Millisecond, want: "0 min 0 s"},
		{in: 5*time.Second + 400*time.Millisecond, want: "0 min 5 s"},
		{in: 61 * time.Second, want: "1 min 1 s"},
		{in: 2*time.Hour + 3*time.Second, want: "120 min 3 s"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.in); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestProgressString(t *testing.T) {
	p := Progress{
		Index:        3,
		Total:        10,
		Available:    1,
		NotAvailable: 1,
		Ordered:      0,
		NotFound:     1,
		BookTime:     12 * time.Second,
		TotalTime:    95 * time.Second,
		AverageTime:  95 * time.Second / 3,
	}

	want := "(3/10) (A=1,NA=1,O=0,NF=1) Book time: 0 min 12 s  Total time: 1 min 35 s Avg: 0 min 31 s"
	if got := p.String(); got != want {
		t.Fatalf("progress =\n%q\nwant\n%q", got, want)
	}
}

func TestOutcomeLine(t *testing.T) {
	book := models.NewBook("Tolkien, J.R.R.", "The Hobbit", "12.34")
	tests := []struct {
		status models.Status
		want   string
	}{
		{status: models.StatusAvailable, want: "AVAILABLE: "},
		{status: models.StatusNotAvailable, want: "NOT AVAILABLE: "},
		{status: models.StatusOrdered, want: "ORDERED: "},
		{status: models.StatusNotFound, want: "NOT FOUND: "},
	}
	for _, tt := range tests {
		t.Run(tt.status.String(), func(t *testing.T) {
			if got := OutcomeLine(tt.status, book); got != tt.want+book.String() {
				t.Fatalf("line = %q", got)
			}
		})
	}
	if got := ErrorLine(book); got != "ERROR: Tolkien, J.R.R.: The Hobbit (12.34) " {
		t.Fatalf("error line = %q", got)
	}
}

func TestWriteSummary(t *testing.T) {
	hobbit := models.NewBook("Tolkien, J.R.R.", "The Hobbit: or There and Back Again", "12.34")
	if err := hobbit.Resolve("850 Tolk"); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	sinuhe := models.NewBook("Waltari, Mika", "Sinuhe egyptiläinen", "84.2")
	muumi := models.NewBook("Jansson, Tove", "Muumipeikko ja pyrstötähti", "84.2 JANS")

	result := &models.RunResult{Total: 3}
	result.Add(models.StatusAvailable, hobbit)
	result.Add(models.StatusNotFound, sinuhe)
	result.Add(models.StatusNotFound, muumi)

	var buf bytes.Buffer
	if err := WriteSummary(&buf, result); err != nil {
		t.Fatalf("write summary: %v", err)
	}

	want := strings.Join([]string{
		"",
		"",
		"Available books (1/3):",
		"- Tolkien, J.R.R.: The Hobbit: or There and Back Again (12.34) 850 Tolk",
		"",
		"Ordered books (0/3):",
		"",
		"Books not available (0/3):",
		"",
		"Books not found (2/3):",
		"- Waltari, Mika: Sinuhe egyptiläinen (84.2) ",
		"- Jansson, Tove: Muumipeikko ja pyrstötähti (84.2 JANS) ",
		"",
	}, "\n")
	if got := buf.String(); got != want {
		t.Fatalf("summary =\n%q\nwant\n%q", got, want)
	}
}
