// Package catalogtest provides an in-memory catalog.Session for tests.
package catalogtest

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"

	"github.com/aluiziolira/go-library-check/catalog"
)

// Holdings is what the catalog shows for one title.
type Holdings struct {
	Entries    int
	Labels     []string
	Indicators map[catalog.IndicatorKind]string
}

// Search records one SubmitSearch call.
type Search struct {
	Title  string
	Author string
}

// Session serves Holdings keyed by searched title. Titles without holdings
// show no availability entries.
type Session struct {
	Results map[string]Holdings
	// SearchErrors fails SubmitSearch for the given titles.
	SearchErrors map[string]error
	// OpErrors fails the named operation ("entries", "activate", "holding",
	// "indicator") for every title.
	OpErrors map[string]error

	Searches   []Search
	Activated  []catalog.Handle
	Indicators []catalog.IndicatorKind
	Closed     bool
	CloseErr   error
	current    *Holdings
}

var _ catalog.Session = (*Session)(nil)

var errNoSearch = errors.New("catalogtest: no search submitted")

func (s *Session) SubmitSearch(_ context.Context, title, author string) error {
	s.Searches = append(s.Searches, Search{Title: title, Author: author})
	s.current = nil
	if err := s.SearchErrors[title]; err != nil {
		return err
	}
	h := s.Results[title]
	s.current = &h
	return nil
}

func (s *Session) FindAvailabilityEntries(_ context.Context) ([]catalog.Handle, error) {
	if err := s.OpErrors["entries"]; err != nil {
		return nil, err
	}
	if s.current == nil {
		return nil, errNoSearch
	}
	handles := make([]catalog.Handle, 0, s.current.Entries)
	for i := 0; i < s.current.Entries; i++ {
		handles = append(handles, catalog.Handle{Ref: "entry-" + strconv.Itoa(i), Label: "Saatavilla"})
	}
	return handles, nil
}

func (s *Session) Activate(_ context.Context, h catalog.Handle) error {
	if err := s.OpErrors["activate"]; err != nil {
		return err
	}
	s.Activated = append(s.Activated, h)
	return nil
}

func (s *Session) FindHoldingEntry(_ context.Context, label string) (catalog.Handle, bool, error) {
	if err := s.OpErrors["holding"]; err != nil {
		return catalog.Handle{}, false, err
	}
	if s.current == nil {
		return catalog.Handle{}, false, errNoSearch
	}
	if !slices.Contains(s.current.Labels, label) {
		return catalog.Handle{}, false, nil
	}
	return catalog.Handle{Ref: "holding:" + label, Label: label}, true, nil
}

func (s *Session) FindScopedIndicator(_ context.Context, kind catalog.IndicatorKind, scope catalog.Handle) (string, bool, error) {
	if err := s.OpErrors["indicator"]; err != nil {
		return "", false, err
	}
	if s.current == nil {
		return "", false, errNoSearch
	}
	if !slices.Contains(s.current.Labels, scope.Label) {
		return "", false, fmt.Errorf("catalogtest: scope %q not shown", scope.Label)
	}
	s.Indicators = append(s.Indicators, kind)
	text, ok := s.current.Indicators[kind]
	return text, ok, nil
}

func (s *Session) Close() error {
	s.Closed = true
	return s.CloseErr
}
