package models

// Status is the classifier's terminal result for one record.
type Status int

const (
	StatusNotFound Status = iota
	StatusAvailable
	StatusNotAvailable
	StatusOrdered
)

func (s Status) String() string {
	switch s {
	case StatusAvailable:
		return "available"
	case StatusNotAvailable:
		return "not_available"
	case StatusOrdered:
		return "ordered"
	default:
		return "not_found"
	}
}

// Outcome pairs a status with the shelf mark of an available copy.
type Outcome struct {
	Status   Status
	Location string
}

func Available(location string) Outcome { return Outcome{Status: StatusAvailable, Location: location} }
func NotAvailable() Outcome             { return Outcome{Status: StatusNotAvailable} }
func Ordered() Outcome                  { return Outcome{Status: StatusOrdered} }
func NotFound() Outcome                 { return Outcome{Status: StatusNotFound} }

// Bucket is one group of the final report.
type Bucket struct {
	Title  string
	Status Status
	Books  []*Book
}

// Record is one checked book in processing order.
type Record struct {
	Status Status
	Book   *Book
}

// RunResult holds the four result buckets of one pass over the list.
type RunResult struct {
	Total        int
	Available    []*Book
	NotAvailable []*Book
	Ordered      []*Book
	NotFound     []*Book
	Records      []Record
}

// Add appends book to the bucket matching status.
func (r *RunResult) Add(status Status, book *Book) {
	r.Records = append(r.Records, Record{Status: status, Book: book})
	switch status {
	case StatusAvailable:
		r.Available = append(r.Available, book)
	case StatusNotAvailable:
		r.NotAvailable = append(r.NotAvailable, book)
	case StatusOrdered:
		r.Ordered = append(r.Ordered, book)
	default:
		r.NotFound = append(r.NotFound, book)
	}
}

// Checked returns how many records have been bucketed so far.
func (r *RunResult) Checked() int {
	return len(r.Records)
}

// Buckets returns the buckets in report order.
func (r *RunResult) Buckets() []Bucket {
	return []Bucket{
		{Title: "Available books", Status: StatusAvailable, Books: r.Available},
		{Title: "Ordered books", Status: StatusOrdered, Books: r.Ordered},
		{Title: "Books not available", Status: StatusNotAvailable, Books: r.NotAvailable},
		{Title: "Books not found", Status: StatusNotFound, Books: r.NotFound},
	}
}
