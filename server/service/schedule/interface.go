package schedule

import (
	"context"
	"time"

	aischedule "github.com/hrygo/chatmeet/plugin/ai/schedule"
	"github.com/hrygo/chatmeet/server/internal/errors"
)

// Calendar is the event store meetings are submitted to.
// Implementations must be safe for concurrent use across messages.
type Calendar interface {
	// CreateEvent persists a meeting and returns it with its assigned ID.
	CreateEvent(ctx context.Context, create *MeetingRecord) (*Event, error)

	// GetEvents returns events whose start lies in [start, end], ordered by start.
	GetEvents(ctx context.Context, start, end time.Time) ([]*Event, error)
}

// MeetingRecord is a validated meeting ready for submission. End is always after Start.
type MeetingRecord struct {
	Title        string    `json:"title"`
	Start        time.Time `json:"start_time"`
	End          time.Time `json:"end_time"`
	Location     string    `json:"location,omitempty"`
	Participants []string  `json:"participants"`
}

// Event is a MeetingRecord echoed back by the calendar.
type Event struct {
	ID string `json:"id"`
	MeetingRecord
	CreatedAt time.Time `json:"created_at"`
}

// SpanResult is the outcome for one temporal span of a message.
type SpanResult struct {
	Span     aischedule.TemporalSpan    `json:"span"`
	Fields   aischedule.ExtractedFields `json:"fields"`
	Warnings []string                   `json:"warnings"`

	Success bool `json:"success"`
	// Event is set on success.
	Event *Event `json:"event,omitempty"`
	// Errors and Code are set on failure.
	Errors []string         `json:"errors,omitempty"`
	Code   errors.ErrorCode `json:"code,omitempty"`
}

// ValidationFailed reports whether the span was rejected before submission.
func (r *SpanResult) ValidationFailed() bool {
	return r.Code == errors.ErrCodeValidationFailed
}

// Outcome is the result of processing one message.
type Outcome struct {
	Success bool         `json:"success"`
	Status  string       `json:"status"`
	Results []SpanResult `json:"results"`
}

// Created returns the number of spans that became events.
func (o *Outcome) Created() int {
	n := 0
	for _, r := range o.Results {
		if r.Success {
			n++
		}
	}
	return n
}
