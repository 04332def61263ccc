// Package models defines the records checked against the library catalog.
package models

import (
	"errors"
	"strings"
)

// TitleDelimiter cannot be submitted to the catalog's title field.
const TitleDelimiter = ":"

// ErrAlreadyResolved is returned when a record's location is set twice.
var ErrAlreadyResolved = errors.New("book: location already resolved")

// Annotations are display-only flags attached to a record after classification.
type Annotations struct {
	Queued          bool `csv:"queued" json:"queued"`
	PossiblyInStore bool `csv:"possibly_in_store" json:"possibly_in_store"`
}

// Book is one entry of the book list.
type Book struct {
	Author         string `csv:"author" json:"author"`
	Title          string `csv:"title" json:"title"`
	TitleSuffix    string `csv:"title_suffix" json:"title_suffix,omitempty"`
	HasTitleSuffix bool   `csv:"-" json:"-"`
	ShelfCode      string `csv:"shelf_code" json:"shelf_code"`

	ResolvedLocation string      `csv:"resolved_location" json:"resolved_location,omitempty"`
	Annotations      Annotations `csv:"-" json:"annotations"`

	resolved bool
}

// NewBook builds a record, splitting rawTitle on the first delimiter.
func NewBook(author, rawTitle, shelfCode string) *Book {
	b := &Book{
		Author:    author,
		Title:     rawTitle,
		ShelfCode: shelfCode,
	}
	if title, suffix, found := strings.Cut(rawTitle, TitleDelimiter); found {
		b.Title = title
		b.TitleSuffix = suffix
		b.HasTitleSuffix = true
	}
	return b
}

// FullTitle returns the title as it appeared in the list.
func (b *Book) FullTitle() string {
	if !b.HasTitleSuffix {
		return b.Title
	}
	return b.Title + TitleDelimiter + b.TitleSuffix
}

// Resolve records the shelf mark found during classification.
func (b *Book) Resolve(location string) error {
	if b.resolved {
		return ErrAlreadyResolved
	}
	b.ResolvedLocation = location
	b.resolved = true
	return nil
}

// Annotate attaches display flags.
func (b *Book) Annotate(a Annotations) {
	b.Annotations = a
}

// String renders the record the way the console report prints it.
func (b *Book) String() string {
	var sb strings.Builder
	if b.Annotations.Queued {
		sb.WriteString("VARAUSJONOSSA: ")
	}
	if b.Annotations.PossiblyInStore {
		sb.WriteString("VARASTOSSA??: ")
	}
	sb.WriteString(b.Author)
	sb.WriteString(": ")
	sb.WriteString(b.FullTitle())
	sb.WriteString(" (")
	sb.WriteString(b.ShelfCode)
	sb.WriteString(") ")
	sb.WriteString(b.ResolvedLocation)
	return sb.String()
}
