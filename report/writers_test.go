package report

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aluiziolira/go-library-check/models"
	jsoniter "github.com/json-iterator/go"
)

func sampleRecords() []models.Record {
	hobbit := models.NewBook("Tolkien, J.R.R.", "The Hobbit: or There and Back Again", "12.34")
	_ = hobbit.Resolve("850 Tolk")
	sinuhe := models.NewBook("Waltari, Mika", "Sinuhe egyptiläinen", "84.2")
	sinuhe.Annotate(models.Annotations{Queued: true})
	return []models.Record{
		{Status: models.StatusAvailable, Book: hobbit},
		{Status: models.StatusOrdered, Book: sinuhe},
	}
}

func TestCSVWriterWritesRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "books.csv")
	w, err := NewCSVWriter(path)
	if err != nil {
		t.Fatalf("new csv writer: %v", err)
	}
	if err := w.Write(sampleRecords()); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := w.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	if strings.Join(rows[0], ",") != strings.Join(csvHeader, ",") {
		t.Fatalf("header = %v", rows[0])
	}
	want := []string{"available", "Tolkien, J.R.R.", "The Hobbit", " or There and Back Again", "12.34", "850 Tolk", "false", "false"}
	if strings.Join(rows[1], "|") != strings.Join(want, "|") {
		t.Fatalf("row = %q, want %q", rows[1], want)
	}
	if rows[2][0] != "ordered" || rows[2][6] != "true" {
		t.Fatalf("row = %q", rows[2])
	}
}

func TestJSONWriterWritesLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.json")
	w, err := NewJSONWriter(path)
	if err != nil {
		t.Fatalf("new json writer: %v", err)
	}
	if err := w.Write(sampleRecords()); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(lines))
	}

	var first struct {
		Status           string `json:"status"`
		Title            string `json:"title"`
		TitleSuffix      string `json:"title_suffix"`
		ResolvedLocation string `json:"resolved_location"`
	}
	if err := jsoniter.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if first.Status != "available" || first.Title != "The Hobbit" || first.ResolvedLocation != "850 Tolk" {
		t.Fatalf("record = %+v", first)
	}
	if first.TitleSuffix != " or There and Back Again" {
		t.Fatalf("suffix = %q", first.TitleSuffix)
	}
}

func TestNewExporter(t *testing.T) {
	dir := t.TempDir()

	dual, err := NewExporter("dual", filepath.Join(dir, "books.csv"))
	if err != nil {
		t.Fatalf("dual exporter: %v", err)
	}
	if err := dual.Write(sampleRecords()); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := dual.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if err := dual.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	for _, name := range []string{"books.csv", "books.json"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("expected %s: %v", name, err)
		}
	}

	if _, err := NewExporter("xml", filepath.Join(dir, "books.xml")); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}

func TestJSONName(t *testing.T) {
	tests := map[string]string{
		"out/books.csv": "out/books.json",
		"books":         "books.json",
		"books.json":    "books.jsonl",
	}
	for in, want := range tests {
		if got := jsonName(in); got != want {
			t.Errorf("jsonName(%q) = %q, want %q", in, got, want)
		}
	}
}
