package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidator_Validate(t *testing.T) {
	now := func() time.Time { return refTime }
	future := refTime.Add(24 * time.Hour)
	ptr := func(t time.Time) *time.Time { return &t }

	tests := []struct {
		name         string
		span         TemporalSpan
		fields       ExtractedFields
		wantValid    bool
		wantErrors   []string
		wantWarnings []string
	}{
		{
			name:         "valid with duration",
			span:         TemporalSpan{Start: future},
			fields:       ExtractedFields{Title: "Standup", DurationMinutes: 30},
			wantValid:    true,
			wantErrors:   []string{},
			wantWarnings: []string{},
		},
		{
			name:         "missing title",
			span:         TemporalSpan{Start: future},
			fields:       ExtractedFields{Title: "   ", DurationMinutes: 30},
			wantErrors:   []string{ErrMsgTitleRequired},
			wantWarnings: []string{},
		},
		{
			name:         "missing start skips end checks",
			span:         TemporalSpan{},
			fields:       ExtractedFields{Title: "Standup", DurationMinutes: 30},
			wantErrors:   []string{ErrMsgStartRequired},
			wantWarnings: []string{},
		},
		{
			name:         "explicit end before start",
			span:         TemporalSpan{Start: future, End: ptr(future.Add(-time.Hour))},
			fields:       ExtractedFields{Title: "Standup", DurationMinutes: 30},
			wantErrors:   []string{ErrMsgEndBeforeStart},
			wantWarnings: []string{},
		},
		{
			name:         "zero duration",
			span:         TemporalSpan{Start: future},
			fields:       ExtractedFields{Title: "Standup"},
			wantErrors:   []string{ErrMsgEndBeforeStart},
			wantWarnings: []string{},
		},
		{
			name:         "in the past",
			span:         TemporalSpan{Start: refTime.Add(-time.Hour)},
			fields:       ExtractedFields{Title: "Standup", DurationMinutes: 30},
			wantValid:    true,
			wantErrors:   []string{},
			wantWarnings: []string{WarnMsgInPast},
		},
		{
			name:         "longer than a day",
			span:         TemporalSpan{Start: future, End: ptr(future.Add(25 * time.Hour))},
			fields:       ExtractedFields{Title: "Offsite", DurationMinutes: 60},
			wantValid:    true,
			wantErrors:   []string{},
			wantWarnings: []string{WarnMsgOverlongSpan},
		},
		{
			name:         "exactly a day",
			span:         TemporalSpan{Start: future, End: ptr(future.Add(24 * time.Hour))},
			fields:       ExtractedFields{Title: "Offsite", DurationMinutes: 60},
			wantValid:    true,
			wantErrors:   []string{},
			wantWarnings: []string{},
		},
		{
			name:         "errors and warnings together",
			span:         TemporalSpan{Start: refTime.Add(-time.Hour)},
			fields:       ExtractedFields{DurationMinutes: 30},
			wantErrors:   []string{ErrMsgTitleRequired},
			wantWarnings: []string{WarnMsgInPast},
		},
	}

	v := NewValidator(now)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := v.Validate(tt.span, tt.fields)
			assert.Equal(t, tt.wantValid, result.Valid)
			assert.Equal(t, tt.wantErrors, result.Errors)
			assert.Equal(t, tt.wantWarnings, result.Warnings)
		})
	}
}

func TestEffectiveEnd(t *testing.T) {
	t.Run("start plus duration", func(t *testing.T) {
		span := TemporalSpan{Start: refTime}
		assert.Equal(t, refTime.Add(30*time.Minute), EffectiveEnd(span, ExtractedFields{DurationMinutes: 30}))
	})

	t.Run("explicit end wins", func(t *testing.T) {
		end := refTime.Add(2 * time.Hour)
		span := TemporalSpan{Start: refTime, End: &end}
		assert.Equal(t, end, EffectiveEnd(span, ExtractedFields{DurationMinutes: 30}))
	})
}

func TestNewValidator_DefaultClock(t *testing.T) {
	v := NewValidator(nil)
	result := v.Validate(TemporalSpan{Start: time.Now().Add(-time.Hour)}, ExtractedFields{Title: "x", DurationMinutes: 30})
	assert.True(t, result.Valid)
	assert.Equal(t, []string{WarnMsgInPast}, result.Warnings)
}
