package classifier

import (
	"context"
	"errors"
	"testing"

	"github.com/aluiziolira/go-library-check/catalog"
	"github.com/aluiziolira/go-library-check/catalog/catalogtest"
	"github.com/aluiziolira/go-library-check/models"
)

var target = catalog.Target{System: "Tampereen kaupunginkirjasto", Branch: "Tampereen pääkirjasto"}

func sessionFor(h catalogtest.Holdings) *catalogtest.Session {
	s := &catalogtest.Session{Results: map[string]catalogtest.Holdings{"The Hobbit": h}}
	_ = s.SubmitSearch(context.Background(), "The Hobbit", "")
	return s
}

func bothLabels() []string {
	return []string{target.System, target.Branch}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		holdings catalogtest.Holdings
		want     models.Outcome
	}{
		{
			name:     "no availability entries",
			holdings: catalogtest.Holdings{},
			want:     models.NotFound(),
		},
		{
			name:     "system missing",
			holdings: catalogtest.Holdings{Entries: 1, Labels: []string{"Nokian kaupunginkirjasto"}},
			want:     models.NotFound(),
		},
		{
			name:     "branch missing",
			holdings: catalogtest.Holdings{Entries: 1, Labels: []string{target.System, "Hervannan kirjasto"}},
			want:     models.NotFound(),
		},
		{
			name: "copies on shelf",
			holdings: catalogtest.Holdings{Entries: 2, Labels: bothLabels(), Indicators: map[catalog.IndicatorKind]string{
				catalog.AvailableCount: "2",
				catalog.ShelfMark:      "850 Tolk",
			}},
			want: models.Available("850 Tolk"),
		},
		{
			name: "count padded with whitespace",
			holdings: catalogtest.Holdings{Entries: 1, Labels: bothLabels(), Indicators: map[catalog.IndicatorKind]string{
				catalog.AvailableCount: " 1\n",
				catalog.ShelfMark:      " 84.2 LINN ",
			}},
			want: models.Available("84.2 LINN"),
		},
		{
			name: "zero available",
			holdings: catalogtest.Holdings{Entries: 1, Labels: bothLabels(), Indicators: map[catalog.IndicatorKind]string{
				catalog.AvailableCount: "0",
				catalog.ShelfMark:      "850 Tolk",
			}},
			want: models.NotAvailable(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := New(target).Classify(context.Background(), sessionFor(tt.holdings))
			if err != nil {
				t.Fatalf("classify: %v", err)
			}
			if got != tt.want {
				t.Fatalf("outcome = %+v, want %+v", got, tt.want)
			}
		})
	}
}

// Every combination of the three branch-level shapes maps to one outcome.
func TestClassifyBranchShapes(t *testing.T) {
	for _, count := range []bool{true, false} {
		for _, loaned := range []bool{true, false} {
			for _, ordered := range []bool{true, false} {
				indicators := map[catalog.IndicatorKind]string{}
				if count {
					indicators[catalog.AvailableCount] = "3"
					indicators[catalog.ShelfMark] = "84.2"
				}
				if loaned {
					indicators[catalog.CheckedOut] = "1"
				}
				if ordered {
					indicators[catalog.OnOrder] = "1"
				}

				var want models.Outcome
				switch {
				case count:
					want = models.Available("84.2")
				case loaned:
					want = models.NotAvailable()
				case ordered:
					want = models.Ordered()
				default:
					want = models.NotFound()
				}

				s := sessionFor(catalogtest.Holdings{Entries: 1, Labels: bothLabels(), Indicators: indicators})
				got, err := New(target).Classify(context.Background(), s)
				if err != nil {
					t.Fatalf("count=%v loaned=%v ordered=%v: %v", count, loaned, ordered, err)
				}
				if got != want {
					t.Fatalf("count=%v loaned=%v ordered=%v: outcome = %+v, want %+v", count, loaned, ordered, got, want)
				}
			}
		}
	}
}

func TestClassifyActivatesLastEntry(t *testing.T) {
	s := sessionFor(catalogtest.Holdings{Entries: 3, Labels: bothLabels(), Indicators: map[catalog.IndicatorKind]string{
		catalog.CheckedOut: "2",
	}})

	if _, err := New(target).Classify(context.Background(), s); err != nil {
		t.Fatalf("classify: %v", err)
	}

	if len(s.Activated) != 3 {
		t.Fatalf("activations = %d, want 3", len(s.Activated))
	}
	if s.Activated[0].Ref != "entry-2" {
		t.Fatalf("first activation = %q, want entry-2", s.Activated[0].Ref)
	}
	if s.Activated[1].Label != target.System || s.Activated[2].Label != target.Branch {
		t.Fatalf("activations = %+v", s.Activated)
	}
}

func TestClassifyNotAvailableSkipsOrderProbe(t *testing.T) {
	s := sessionFor(catalogtest.Holdings{Entries: 1, Labels: bothLabels(), Indicators: map[catalog.IndicatorKind]string{
		catalog.CheckedOut: "1",
		catalog.OnOrder:    "1",
	}})

	if _, err := New(target).Classify(context.Background(), s); err != nil {
		t.Fatalf("classify: %v", err)
	}

	want := []catalog.IndicatorKind{catalog.AvailableCount, catalog.CheckedOut}
	if len(s.Indicators) != len(want) {
		t.Fatalf("indicators probed = %v, want %v", s.Indicators, want)
	}
	for i := range want {
		if s.Indicators[i] != want[i] {
			t.Fatalf("indicators probed = %v, want %v", s.Indicators, want)
		}
	}
}

func TestClassifyErrors(t *testing.T) {
	boom := errors.New("stale element")
	timeout := catalog.ErrTimeout{Op: "wait for Osasto:", Err: context.DeadlineExceeded}

	tests := []struct {
		name     string
		holdings catalogtest.Holdings
		opErrors map[string]error
		wantErr  error
	}{
		{
			name:     "entries lookup fails",
			holdings: catalogtest.Holdings{Entries: 1},
			opErrors: map[string]error{"entries": boom},
			wantErr:  boom,
		},
		{
			name:     "activation times out",
			holdings: catalogtest.Holdings{Entries: 1, Labels: bothLabels()},
			opErrors: map[string]error{"activate": timeout},
			wantErr:  timeout,
		},
		{
			name:     "indicator lookup fails",
			holdings: catalogtest.Holdings{Entries: 1, Labels: bothLabels()},
			opErrors: map[string]error{"indicator": boom},
			wantErr:  boom,
		},
		{
			name: "count is not a number",
			holdings: catalogtest.Holdings{Entries: 1, Labels: bothLabels(), Indicators: map[catalog.IndicatorKind]string{
				catalog.AvailableCount: "many",
			}},
			wantErr: ErrInvalidCount,
		},
		{
			name: "count is negative",
			holdings: catalogtest.Holdings{Entries: 1, Labels: bothLabels(), Indicators: map[catalog.IndicatorKind]string{
				catalog.AvailableCount: "-1",
			}},
			wantErr: ErrInvalidCount,
		},
		{
			name: "shelf mark missing",
			holdings: catalogtest.Holdings{Entries: 1, Labels: bothLabels(), Indicators: map[catalog.IndicatorKind]string{
				catalog.AvailableCount: "1",
			}},
			wantErr: ErrMissingShelfMark,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := sessionFor(tt.holdings)
			s.OpErrors = tt.opErrors

			_, err := New(target).Classify(context.Background(), s)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseCount(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{input: "0", want: 0},
		{input: "12", want: 12},
		{input: " 3 ", want: 3},
		{input: "", wantErr: true},
		{input: "x", wantErr: true},
		{input: "-2", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCount(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCount(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Fatalf("ParseCount(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}
