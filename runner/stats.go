package runner

import "time"

// Stats tracks elapsed time across a run.
type Stats struct {
	start    time.Time
	previous time.Time
	count    int
}

// Lap is the timing of one finished book.
type Lap struct {
	Book    time.Duration
	Total   time.Duration
	Average time.Duration
}

// NewStats starts timing at start.
func NewStats(start time.Time) *Stats {
	return &Stats{start: start, previous: start}
}

// Lap closes the current book at now.
func (s *Stats) Lap(now time.Time) Lap {
	s.count++
	lap := Lap{
		Book:  now.Sub(s.previous),
		Total: now.Sub(s.start),
	}
	lap.Average = lap.Total / time.Duration(s.count)
	s.previous = now
	return lap
}
