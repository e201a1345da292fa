package aitime

import (
	"time"
)

// MockDetector is a mock implementation of Detector for testing.
// It returns Candidates unchanged and records the calls it received.
type MockDetector struct {
	Candidates []Candidate
	Calls      []string
}

// NewMockDetector creates a new MockDetector returning the given candidates.
func NewMockDetector(candidates ...Candidate) *MockDetector {
	return &MockDetector{Candidates: candidates}
}

// Detect implements Detector.
func (m *MockDetector) Detect(text string, _ time.Time) []Candidate {
	m.Calls = append(m.Calls, text)
	return m.Candidates
}

// NewComponent builds a Component resolved to t with the given fields marked
// as explicitly stated. It lets tests outside this package fabricate candidates.
func NewComponent(t time.Time, certain ...Field) Component {
	c := Component{
		year:   t.Year(),
		month:  int(t.Month()),
		day:    t.Day(),
		hour:   t.Hour(),
		minute: t.Minute(),
		loc:    t.Location(),
	}
	for _, f := range certain {
		c.known |= 1 << f
	}
	return c
}

// Ensure MockDetector implements Detector
var _ Detector = (*MockDetector)(nil)
