package schedule

import (
	"strings"
	"time"
)

// Validation messages.
const (
	ErrMsgTitleRequired  = "Meeting title is required"
	ErrMsgStartRequired  = "Start date is required"
	ErrMsgEndBeforeStart = "End time must be after start time"

	WarnMsgInPast       = "Meeting is scheduled in the past"
	WarnMsgOverlongSpan = "Meeting duration exceeds 24 hours"
)

// maxMeetingSpan is the longest span accepted without a warning.
const maxMeetingSpan = 24 * time.Hour

// Validator checks a span and its extracted fields before event creation.
type Validator struct {
	now func() time.Time
}

// NewValidator creates a new Validator. A nil clock defaults to time.Now.
func NewValidator(now func() time.Time) *Validator {
	if now == nil {
		now = time.Now
	}
	return &Validator{now: now}
}

// Validate returns errors that block creation and warnings that do not.
func (v *Validator) Validate(span TemporalSpan, fields ExtractedFields) ValidationResult {
	errs := []string{}
	warnings := []string{}

	if strings.TrimSpace(fields.Title) == "" {
		errs = append(errs, ErrMsgTitleRequired)
	}

	if span.Start.IsZero() {
		errs = append(errs, ErrMsgStartRequired)
	} else {
		if span.Start.Before(v.now()) {
			warnings = append(warnings, WarnMsgInPast)
		}

		end := EffectiveEnd(span, fields)
		if !end.After(span.Start) {
			errs = append(errs, ErrMsgEndBeforeStart)
		}
		if end.Sub(span.Start) > maxMeetingSpan {
			warnings = append(warnings, WarnMsgOverlongSpan)
		}
	}

	return ValidationResult{
		Valid:    len(errs) == 0,
		Errors:   errs,
		Warnings: warnings,
	}
}

// EffectiveEnd is the span's explicit end, or its start plus the extracted duration.
func EffectiveEnd(span TemporalSpan, fields ExtractedFields) time.Time {
	if span.End != nil {
		return *span.End
	}
	return span.Start.Add(time.Duration(fields.DurationMinutes) * time.Minute)
}
