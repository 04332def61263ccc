// Package catalog describes the search and browse capabilities the
// availability check needs from a library catalog.
package catalog

import "context"

// IndicatorKind names a holdings cell inside a branch's holdings block.
type IndicatorKind int

const (
	AvailableCount IndicatorKind = iota
	ShelfMark
	CheckedOut
	OnOrder
)

func (k IndicatorKind) String() string {
	switch k {
	case AvailableCount:
		return "available-count"
	case ShelfMark:
		return "shelf-mark"
	case CheckedOut:
		return "checked-out"
	case OnOrder:
		return "on-order"
	default:
		return "unknown"
	}
}

// CellClass is the Arena holdings table cell class for the indicator.
func (k IndicatorKind) CellClass() string {
	switch k {
	case AvailableCount:
		return "arena-holding-nof-available-for-loan"
	case ShelfMark:
		return "arena-holding-shelf-mark"
	case CheckedOut:
		return "arena-holding-nof-checked-out"
	case OnOrder:
		return "arena-holding-nof-ordered"
	default:
		return ""
	}
}

// Handle is an opaque reference to a page element. Ref is only meaningful to
// the Session that issued it; Label is the element's visible text.
type Handle struct {
	Ref   string
	Label string
}

// Target selects the library system and branch whose holdings are checked.
type Target struct {
	System string
	Branch string
}

// Session is a single stateful catalog browsing context. It is not safe for
// concurrent use.
type Session interface {
	// SubmitSearch runs a title search, narrowed by author when author is
	// not empty.
	SubmitSearch(ctx context.Context, title, author string) error
	// FindAvailabilityEntries lists the availability links of the results.
	FindAvailabilityEntries(ctx context.Context) ([]Handle, error)
	// Activate reveals the content nested under h.
	Activate(ctx context.Context, h Handle) error
	// FindHoldingEntry looks up the holdings entry with the given label.
	FindHoldingEntry(ctx context.Context, label string) (Handle, bool, error)
	// FindScopedIndicator reads an indicator within the holdings block of scope.
	FindScopedIndicator(ctx context.Context, kind IndicatorKind, scope Handle) (string, bool, error)
	// Close releases the browsing context.
	Close() error
}

// Opener acquires a Session for one run.
type Opener func(ctx context.Context) (Session, error)
