// Package parser reads the exported book list into records.
package parser

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aluiziolira/go-library-check/models"
	"golang.org/x/text/unicode/norm"
)

const (
	// OrderedMarker replaces the location line of a book that is on order.
	OrderedMarker = "Hankinnassa"

	terminator = "----------"
)

// ReadFile opens filename and parses its content.
func ReadFile(filename string) ([]*models.Book, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open book list: %w", err)
	}
	defer f.Close()

	books, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("read book list %q: %w", filename, err)
	}
	return books, nil
}

// Parse converts the list export into records, preserving input order.
//
// The first two lines are a location label and a separator and are skipped.
// Each block is author, title and location lines followed by one discarded
// line. A location of "Hankinnassa" means the shelf code is on the next line.
// A line starting with ten dashes ends the list.
func Parse(r io.Reader) ([]*models.Book, error) {
	lr := newLineReader(r)

	for i := 0; i < 2; i++ {
		if _, ok := lr.next(); !ok {
			return nil, lr.err()
		}
	}

	var books []*models.Book
	for {
		line, ok := lr.next()
		if !ok {
			break
		}
		if line == "" {
			continue
		}
		if isTerminator(line) {
			break
		}

		author := line
		title, hasTitle := lr.nextInBlock()
		number, _ := lr.nextInBlock()
		if strings.EqualFold(number, OrderedMarker) {
			number, _ = lr.nextInBlock()
		}
		if lr.stopped {
			break
		}
		lr.nextInBlock() // empty line or the marker

		if author != "" && hasTitle && title != "" {
			books = append(books, models.NewBook(author, title, number))
		}
	}

	if err := lr.err(); err != nil {
		return nil, err
	}
	return books, nil
}

// Render writes books back in list format under a location header.
func Render(w io.Writer, location string, books []*models.Book) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%s\n---------\n", location)
	for _, b := range books {
		fmt.Fprintf(bw, "%s\n%s\n%s\n\n", b.Author, b.FullTitle(), b.ShelfCode)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("render book list: %w", err)
	}
	return nil
}

func isTerminator(line string) bool {
	return strings.HasPrefix(line, terminator)
}

// lineReader hands out normalized lines and latches on a terminator line
// seen inside a block.
type lineReader struct {
	scanner *bufio.Scanner
	stopped bool
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{scanner: bufio.NewScanner(r)}
}

func (lr *lineReader) next() (string, bool) {
	if lr.stopped || !lr.scanner.Scan() {
		return "", false
	}
	line := norm.NFC.String(strings.TrimSuffix(lr.scanner.Text(), "\r"))
	return line, true
}

// nextInBlock is next, except that a terminator line stops the reader.
func (lr *lineReader) nextInBlock() (string, bool) {
	line, ok := lr.next()
	if ok && isTerminator(line) {
		lr.stopped = true
		return "", false
	}
	return line, ok
}

func (lr *lineReader) err() error {
	return lr.scanner.Err()
}
