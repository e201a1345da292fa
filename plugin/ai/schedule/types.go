// Package schedule turns chat text into candidate meetings: it interprets
// temporal expressions, extracts meeting fields around them and validates the
// result. Everything here is a pure function of its inputs.
package schedule

import (
	"time"
)

const (
	// DefaultDurationMinutes is used when the text carries no duration cue.
	DefaultDurationMinutes = 60

	// MaxTitleLength is the maximum title length in characters.
	MaxTitleLength = 100
)

// CharRange is a half-open byte range [Start, End) into the originating message.
type CharRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// TemporalSpan is one interpreted time expression.
type TemporalSpan struct {
	// Start is the zero time when absent.
	Start time.Time `json:"start"`
	// End is nil when the expression implies no explicit end.
	End          *time.Time `json:"end,omitempty"`
	Confidence   float64    `json:"confidence"`
	OriginalText string     `json:"original_text"`
	Range        CharRange  `json:"range"`
}

// ExtractedFields are the meeting details derived from a message and one span.
type ExtractedFields struct {
	Title        string   `json:"title"`
	Participants []string `json:"participants"`
	// Location is empty when absent.
	Location        string `json:"location,omitempty"`
	DurationMinutes int    `json:"duration_minutes"`
}

// ValidationResult reports blocking errors and non-blocking warnings.
type ValidationResult struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}
