// Package aitime detects natural-language date and time expressions in chat text.
// Detection is rule based; each detected expression carries which fields were
// stated explicitly so callers can apply their own disambiguation policy.
package aitime

import (
	"time"
)

// Detector finds temporal expressions in text.
// Consumers: plugin/ai/schedule (Interpreter)
type Detector interface {
	// Detect returns candidates in left-to-right order of occurrence.
	// reference anchors relative expressions ("tomorrow", "in 2 hours") and
	// supplies implied fields; its location is used for the resolved instants.
	Detect(text string, reference time.Time) []Candidate
}

// Candidate is one detected expression.
type Candidate struct {
	// Text is the matched substring of the input.
	Text string
	// Index is the byte offset of Text within the input.
	Index int
	// Start is the resolved start instant.
	Start Component
	// End is set only when the expression states an end ("3-4pm").
	End *Component
}

// Field identifies a date/time component.
type Field uint8

const (
	Year Field = iota
	Month
	Day
	Weekday
	Hour
	Minute
	Meridiem
)

// Component is a resolved instant together with the set of fields that the
// text stated explicitly. Fields that were not stated are implied from the
// reference time or from defaults.
type Component struct {
	year   int
	month  int
	day    int
	hour   int
	minute int
	loc    *time.Location
	known  uint8
}

// newComponent returns a component implied entirely from ref, at 12:00.
func newComponent(ref time.Time) Component {
	return Component{
		year:   ref.Year(),
		month:  int(ref.Month()),
		day:    ref.Day(),
		hour:   12,
		minute: 0,
		loc:    ref.Location(),
	}
}

// Date returns the resolved instant.
func (c Component) Date() time.Time {
	loc := c.loc
	if loc == nil {
		loc = time.Local
	}
	return time.Date(c.year, time.Month(c.month), c.day, c.hour, c.minute, 0, 0, loc)
}

// IsCertain reports whether field was stated explicitly.
func (c Component) IsCertain(field Field) bool {
	return c.known&(1<<field) != 0
}

// Certain reports whether the full instant (year, month, day, hour and minute)
// was stated explicitly.
func (c Component) Certain() bool {
	for _, f := range []Field{Year, Month, Day, Hour, Minute} {
		if !c.IsCertain(f) {
			return false
		}
	}
	return true
}

func (c *Component) assign(field Field, value int) {
	c.set(field, value)
	c.known |= 1 << field
}

func (c *Component) imply(field Field, value int) {
	if !c.IsCertain(field) {
		c.set(field, value)
	}
}

func (c *Component) set(field Field, value int) {
	switch field {
	case Year:
		c.year = value
	case Month:
		c.month = value
	case Day:
		c.day = value
	case Hour:
		c.hour = value
	case Minute:
		c.minute = value
	}
}

func (c *Component) assignDate(t time.Time) {
	c.assign(Year, t.Year())
	c.assign(Month, int(t.Month()))
	c.assign(Day, t.Day())
}

func (c *Component) implyDate(t time.Time) {
	c.imply(Year, t.Year())
	c.imply(Month, int(t.Month()))
	c.imply(Day, t.Day())
}

func (c *Component) setDate(t time.Time) {
	c.set(Year, t.Year())
	c.set(Month, int(t.Month()))
	c.set(Day, t.Day())
}

func (c *Component) assignClock(hour, minute int) {
	c.assign(Hour, hour)
	c.assign(Minute, minute)
}
