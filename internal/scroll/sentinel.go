// Package scroll detects when the viewport reaches the bottom of the list.
package scroll

// DefaultThreshold is how many rows from the end the sentinel fires.
const DefaultThreshold = 10

// Gate reports whether a fetch is outstanding. The sentinel only reads it.
type Gate interface {
	Fetching() bool
}

// Position describes the visible window over a list of Total rows.
type Position struct {
	Offset  int
	Visible int
	Total   int
}

// NearBottom reports whether the last visible row is within threshold rows
// of the end of the list.
func (p Position) NearBottom(threshold int) bool {
	if p.Total <= 0 {
		return false
	}
	if threshold < 0 {
		threshold = 0
	}
	last := p.Offset + p.Visible
	return last >= p.Total-threshold
}

// Sentinel fires once per arrival at the bottom zone.
type Sentinel struct {
	Threshold int

	armed bool
	total int
}

func New(threshold int) *Sentinel {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Sentinel{Threshold: threshold, armed: true}
}

// Observe is called whenever the position changes. It returns true when the
// caller should emit a scroll-bottom event. The sentinel rearms when the
// viewport leaves the zone or the list grows.
func (s *Sentinel) Observe(pos Position, gate Gate) bool {
	if pos.Total != s.total {
		s.total = pos.Total
		s.armed = true
	}
	if !pos.NearBottom(s.Threshold) {
		s.armed = true
		return false
	}
	if !s.armed {
		return false
	}
	if gate != nil && gate.Fetching() {
		return false
	}
	s.armed = false
	return true
}

// Reset rearms the sentinel, e.g. after the list was replaced.
func (s *Sentinel) Reset() {
	s.armed = true
	s.total = 0
}
