// Package classifier decides a book's availability from what the catalog
// shows for it.
package classifier

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/aluiziolira/go-library-check/catalog"
	"github.com/aluiziolira/go-library-check/models"
)

var (
	// ErrInvalidCount is returned when the available copy count is not a
	// non-negative integer.
	ErrInvalidCount = errors.New("classifier: invalid available copy count")
	// ErrMissingShelfMark is returned when copies are available but no
	// shelf mark is shown.
	ErrMissingShelfMark = errors.New("classifier: missing shelf mark")
)

// Classifier walks a search result down to the target branch's holdings.
type Classifier struct {
	target catalog.Target
}

// New builds a Classifier for target.
func New(target catalog.Target) *Classifier {
	return &Classifier{target: target}
}

// Classify inspects a session already showing search results for one book.
// Any session error is returned as is; absence of an element is an outcome.
func (c *Classifier) Classify(ctx context.Context, s catalog.Session) (models.Outcome, error) {
	entries, err := s.FindAvailabilityEntries(ctx)
	if err != nil {
		return models.Outcome{}, fmt.Errorf("find availability entries: %w", err)
	}
	if len(entries) == 0 {
		return models.NotFound(), nil
	}

	// the last match is the most specific one
	if err := s.Activate(ctx, entries[len(entries)-1]); err != nil {
		return models.Outcome{}, fmt.Errorf("open availability: %w", err)
	}

	system, ok, err := s.FindHoldingEntry(ctx, c.target.System)
	if err != nil {
		return models.Outcome{}, fmt.Errorf("find holdings for %q: %w", c.target.System, err)
	}
	if !ok {
		return models.NotFound(), nil
	}
	if err := s.Activate(ctx, system); err != nil {
		return models.Outcome{}, fmt.Errorf("open holdings for %q: %w", c.target.System, err)
	}

	branch, ok, err := s.FindHoldingEntry(ctx, c.target.Branch)
	if err != nil {
		return models.Outcome{}, fmt.Errorf("find holdings for %q: %w", c.target.Branch, err)
	}
	if !ok {
		return models.NotFound(), nil
	}
	if err := s.Activate(ctx, branch); err != nil {
		return models.Outcome{}, fmt.Errorf("open holdings for %q: %w", c.target.Branch, err)
	}

	return c.classifyBranch(ctx, s, branch)
}

func (c *Classifier) classifyBranch(ctx context.Context, s catalog.Session, branch catalog.Handle) (models.Outcome, error) {
	countText, ok, err := s.FindScopedIndicator(ctx, catalog.AvailableCount, branch)
	if err != nil {
		return models.Outcome{}, fmt.Errorf("read %s: %w", catalog.AvailableCount, err)
	}
	if !ok {
		return c.classifyUnavailable(ctx, s, branch)
	}

	count, err := ParseCount(countText)
	if err != nil {
		return models.Outcome{}, err
	}
	if count == 0 {
		return models.NotAvailable(), nil
	}

	shelf, ok, err := s.FindScopedIndicator(ctx, catalog.ShelfMark, branch)
	if err != nil {
		return models.Outcome{}, fmt.Errorf("read %s: %w", catalog.ShelfMark, err)
	}
	if !ok {
		return models.Outcome{}, ErrMissingShelfMark
	}
	return models.Available(strings.TrimSpace(shelf)), nil
}

func (c *Classifier) classifyUnavailable(ctx context.Context, s catalog.Session, branch catalog.Handle) (models.Outcome, error) {
	_, loaned, err := s.FindScopedIndicator(ctx, catalog.CheckedOut, branch)
	if err != nil {
		return models.Outcome{}, fmt.Errorf("read %s: %w", catalog.CheckedOut, err)
	}
	if loaned {
		return models.NotAvailable(), nil
	}

	_, ordered, err := s.FindScopedIndicator(ctx, catalog.OnOrder, branch)
	if err != nil {
		return models.Outcome{}, fmt.Errorf("read %s: %w", catalog.OnOrder, err)
	}
	if ordered {
		return models.Ordered(), nil
	}
	return models.NotFound(), nil
}

// ParseCount parses an available copy count cell.
func ParseCount(text string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCount, text)
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidCount, n)
	}
	return n, nil
}
