package schedule

import (
	"iter"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/hrygo/chatmeet/plugin/ai/aitime"
)

const (
	// businessDayStartHour and businessDayEndHour bound the half-open window
	// [9, 18) that an uncertain hour is allowed to resolve into.
	businessDayStartHour = 9
	businessDayEndHour   = 18

	// defaultMeetingHour replaces an uncertain hour outside business hours.
	defaultMeetingHour = 14

	certainConfidence   = 0.9
	uncertainConfidence = 0.6
)

// durationOnlyPattern matches candidates that describe a length ("for 30
// minutes") rather than a meeting time.
var durationOnlyPattern = regexp.MustCompile(`^for\s+\d+\s+(hour|minute|min)`)

// Interpreter turns detector candidates into TemporalSpans, applying the
// duration filter, the business-hours default and confidence scoring.
type Interpreter struct {
	detector aitime.Detector
}

// NewInterpreter creates a new Interpreter.
func NewInterpreter(detector aitime.Detector) *Interpreter {
	return &Interpreter{detector: detector}
}

// Spans lazily yields spans in the order the detector found them.
func (i *Interpreter) Spans(text string, reference time.Time) iter.Seq[TemporalSpan] {
	return func(yield func(TemporalSpan) bool) {
		for _, c := range i.detector.Detect(text, reference) {
			if isDurationOnly(c.Text) {
				continue
			}
			span, ok := toSpan(text, c)
			if !ok {
				continue
			}
			if !yield(span) {
				return
			}
		}
	}
}

// Interpret returns all spans of text.
func (i *Interpreter) Interpret(text string, reference time.Time) []TemporalSpan {
	return slices.Collect(i.Spans(text, reference))
}

func isDurationOnly(matched string) bool {
	return durationOnlyPattern.MatchString(strings.ToLower(matched))
}

// toSpan converts a candidate; candidates whose range falls outside text are dropped.
func toSpan(text string, c aitime.Candidate) (TemporalSpan, bool) {
	r := CharRange{Start: c.Index, End: c.Index + len(c.Text)}
	if r.Start < 0 || r.End > len(text) || r.Start > r.End {
		return TemporalSpan{}, false
	}

	start := c.Start.Date()
	if !c.Start.IsCertain(aitime.Hour) {
		start = applyBusinessHours(start)
	}

	span := TemporalSpan{
		Start:        start,
		Confidence:   uncertainConfidence,
		OriginalText: c.Text,
		Range:        r,
	}
	if c.Start.Certain() {
		span.Confidence = certainConfidence
	}
	if c.End != nil {
		end := c.End.Date()
		span.End = &end
	}
	return span, true
}

// applyBusinessHours moves t to 14:00 on the same day when its hour is
// outside [9, 18).
func applyBusinessHours(t time.Time) time.Time {
	if h := t.Hour(); h >= businessDayStartHour && h < businessDayEndHour {
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), defaultMeetingHour, 0, 0, 0, t.Location())
}
