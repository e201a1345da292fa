package schedule

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/chatmeet/plugin/ai/aitime"
	aischedule "github.com/hrygo/chatmeet/plugin/ai/schedule"
	"github.com/hrygo/chatmeet/server/internal/errors"
	"github.com/hrygo/chatmeet/server/internal/observability"
)

// refTime is Tuesday 2026-01-27 10:00 UTC.
var refTime = time.Date(2026, 1, 27, 10, 0, 0, 0, time.UTC)

var demoMessages = []string{
	"Team standup tomorrow at 10am for 30 minutes",
	"Let's meet with John and Sarah next Tuesday at 3pm in Conference Room A",
	"Coffee chat on Friday at 2pm https://meet.google.com/abc-defg-hij",
	"This message has no dates or times",
	"Project review December 15th at 9:30 AM for 2 hours",
}

// MockCalendar is a mock implementation of the Calendar interface for testing.
type MockCalendar struct {
	mu     sync.Mutex
	events []*Event
	// errs are returned by successive CreateEvent calls; a nil entry succeeds.
	errs  []error
	calls int
}

func (m *MockCalendar) CreateEvent(ctx context.Context, create *MeetingRecord) (*Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	call := m.calls
	m.calls++
	if call < len(m.errs) && m.errs[call] != nil {
		return nil, m.errs[call]
	}

	event := &Event{ID: fmt.Sprintf("event_%d", call+1), MeetingRecord: *create, CreatedAt: refTime}
	m.events = append(m.events, event)
	return event, nil
}

func (m *MockCalendar) GetEvents(ctx context.Context, start, end time.Time) ([]*Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]*Event, 0)
	for _, e := range m.events {
		if !e.Start.Before(start) && !e.Start.After(end) {
			result = append(result, e)
		}
	}
	return result, nil
}

func (m *MockCalendar) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func newTestPipeline(detector aitime.Detector, calendar Calendar, metrics *observability.Metrics) *Pipeline {
	if metrics == nil {
		metrics = observability.NewMetrics(10)
	}
	return NewPipeline(detector, calendar,
		WithClock(func() time.Time { return refTime }),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithMetrics(metrics),
	)
}

func TestPipeline_NoTemporalExpressions(t *testing.T) {
	calendar := &MockCalendar{}
	p := newTestPipeline(aitime.NewParser(time.UTC), calendar, nil)

	outcome := p.ProcessMessage(context.Background(), "This message has no dates or times")

	assert.True(t, outcome.Success)
	assert.Equal(t, StatusNoTemporal, outcome.Status)
	assert.NotNil(t, outcome.Results)
	assert.Empty(t, outcome.Results)
	assert.Zero(t, calendar.Calls())
}

func TestPipeline_DemoMessages(t *testing.T) {
	date := func(month time.Month, day, hour, minute int) time.Time {
		return time.Date(2026, month, day, hour, minute, 0, 0, time.UTC)
	}

	tests := []struct {
		message          string
		wantTitle        string
		wantStart        time.Time
		wantEnd          time.Time
		wantLocation     string
		wantParticipants []string
		wantDuration     int
	}{
		{
			message:          demoMessages[0],
			wantTitle:        "Team standup",
			wantStart:        date(time.January, 28, 10, 0),
			wantEnd:          date(time.January, 28, 10, 30),
			wantLocation:     "10am for 30 minutes",
			wantParticipants: []string{},
			wantDuration:     30,
		},
		{
			message:          demoMessages[1],
			wantTitle:        "Let's meet with John and Sarah",
			wantStart:        date(time.February, 3, 15, 0),
			wantEnd:          date(time.February, 3, 16, 0),
			wantLocation:     "3pm in Conference Room A",
			wantParticipants: []string{"John", "Sarah"},
			wantDuration:     60,
		},
		{
			message:          demoMessages[2],
			wantTitle:        "Coffee chat",
			wantStart:        date(time.January, 30, 14, 0),
			wantEnd:          date(time.January, 30, 15, 0),
			wantLocation:     "2pm https://meet",
			wantParticipants: []string{},
			wantDuration:     60,
		},
		{
			message:          demoMessages[4],
			wantTitle:        "Project review",
			wantStart:        date(time.December, 15, 9, 30),
			wantEnd:          date(time.December, 15, 11, 30),
			wantLocation:     "9:30 AM for 2 hours",
			wantParticipants: []string{},
			wantDuration:     120,
		},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			calendar := &MockCalendar{}
			p := newTestPipeline(aitime.NewParser(time.UTC), calendar, nil)

			outcome := p.ProcessMessage(context.Background(), tt.message)

			require.True(t, outcome.Success)
			assert.Equal(t, "created 1 of 1 event(s)", outcome.Status)
			require.Len(t, outcome.Results, 1)

			result := outcome.Results[0]
			require.True(t, result.Success, "errors: %v", result.Errors)
			assert.Empty(t, result.Errors)
			assert.Empty(t, result.Code)
			assert.Equal(t, tt.wantDuration, result.Fields.DurationMinutes)

			require.NotNil(t, result.Event)
			assert.Equal(t, "event_1", result.Event.ID)
			assert.Equal(t, tt.wantTitle, result.Event.Title)
			assert.Equal(t, tt.wantStart, result.Event.Start)
			assert.Equal(t, tt.wantEnd, result.Event.End)
			assert.Equal(t, tt.wantLocation, result.Event.Location)
			assert.Equal(t, tt.wantParticipants, result.Event.Participants)
		})
	}
}

func TestPipeline_FailuresDoNotAbortOtherSpans(t *testing.T) {
	start := refTime.Add(24 * time.Hour)
	certain := []aitime.Field{aitime.Year, aitime.Month, aitime.Day, aitime.Hour, aitime.Minute}
	earlyEnd := aitime.NewComponent(start.Add(-time.Hour), certain...)

	message := "Sync A then Sync B then Sync C"
	detector := aitime.NewMockDetector(
		aitime.Candidate{Text: "A", Index: 5, Start: aitime.NewComponent(start, certain...), End: &earlyEnd},
		aitime.Candidate{Text: "B", Index: 17, Start: aitime.NewComponent(start, certain...)},
		aitime.Candidate{Text: "C", Index: 29, Start: aitime.NewComponent(start.Add(time.Hour), certain...)},
	)
	calendar := &MockCalendar{errs: []error{stderrors.New("backend unavailable")}}
	metrics := observability.NewMetrics(10)
	p := newTestPipeline(detector, calendar, metrics)

	outcome := p.ProcessMessage(context.Background(), message)

	require.True(t, outcome.Success)
	assert.Equal(t, "created 1 of 3 event(s)", outcome.Status)
	require.Len(t, outcome.Results, 3)

	assert.False(t, outcome.Results[0].Success)
	assert.Equal(t, []string{aischedule.ErrMsgEndBeforeStart}, outcome.Results[0].Errors)
	assert.Equal(t, errors.ErrCodeValidationFailed, outcome.Results[0].Code)
	assert.Nil(t, outcome.Results[0].Event)

	assert.False(t, outcome.Results[1].Success)
	assert.Equal(t, []string{"backend unavailable"}, outcome.Results[1].Errors)
	assert.Equal(t, errors.ErrCodeSubmissionFailed, outcome.Results[1].Code)

	assert.True(t, outcome.Results[2].Success)
	assert.Equal(t, "event_2", outcome.Results[2].Event.ID)
	assert.Equal(t, "Sync A then Sync B then Sync", outcome.Results[2].Event.Title)

	// The invalid span never reaches the calendar.
	assert.Equal(t, 2, calendar.Calls())

	snapshot := metrics.Snapshot()
	assert.Equal(t, int64(1), snapshot.MessagesTotal)
	assert.Equal(t, int64(3), snapshot.SpansTotal)
	assert.Equal(t, int64(1), snapshot.EventsCreated)
	assert.Equal(t, int64(1), snapshot.ValidationFailures)
	assert.Equal(t, int64(1), snapshot.SubmissionFailures)
}

func TestPipeline_WarningsDoNotBlock(t *testing.T) {
	past := refTime.Add(-2 * time.Hour)
	certain := []aitime.Field{aitime.Year, aitime.Month, aitime.Day, aitime.Hour, aitime.Minute}
	detector := aitime.NewMockDetector(aitime.Candidate{Text: "earlier", Index: 5, Start: aitime.NewComponent(past, certain...)})
	p := newTestPipeline(detector, &MockCalendar{}, nil)

	outcome := p.ProcessMessage(context.Background(), "Sync earlier")

	require.Len(t, outcome.Results, 1)
	assert.True(t, outcome.Results[0].Success)
	assert.Equal(t, []string{aischedule.WarnMsgInPast}, outcome.Results[0].Warnings)
}

func TestClassifySubmissionError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want errors.ErrorCode
	}{
		{"plain", stderrors.New("boom"), errors.ErrCodeSubmissionFailed},
		{"deadline", fmt.Errorf("create: %w", context.DeadlineExceeded), errors.ErrCodeTimeout},
		{"canceled", context.Canceled, errors.ErrCodeContextCanceled},
		{"coded", errors.RateLimited("slow down", nil), errors.ErrCodeRateLimited},
		{"wrapped coded", fmt.Errorf("guard: %w", errors.NotFound("x")), errors.ErrCodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifySubmissionError(tt.err))
		})
	}
}

func TestPipeline_ProcessBatch(t *testing.T) {
	calendar := &MockCalendar{}
	p := newTestPipeline(aitime.NewParser(time.UTC), calendar, nil)

	outcomes, err := p.ProcessBatch(context.Background(), demoMessages, 3)
	require.NoError(t, err)
	require.Len(t, outcomes, len(demoMessages))

	for i, outcome := range outcomes {
		require.NotNil(t, outcome, "message %d", i)
		assert.True(t, outcome.Success)
	}
	assert.Equal(t, StatusNoTemporal, outcomes[3].Status)
	assert.Equal(t, "Team standup", outcomes[0].Results[0].Fields.Title)
	assert.Equal(t, "Project review", outcomes[4].Results[0].Fields.Title)
	assert.Equal(t, 4, calendar.Calls())
}

func TestPipeline_ProcessBatchCanceled(t *testing.T) {
	p := newTestPipeline(aitime.NewParser(time.UTC), &MockCalendar{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcomes, err := p.ProcessBatch(ctx, demoMessages, 2)
	assert.Nil(t, outcomes)
	assert.True(t, errors.IsCode(err, errors.ErrCodeContextCanceled))
}

func TestPipeline_ConcurrentMessages(t *testing.T) {
	calendar := &MockCalendar{}
	p := newTestPipeline(aitime.NewParser(time.UTC), calendar, nil)

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			outcome := p.ProcessMessage(context.Background(), demoMessages[0])
			assert.Equal(t, "created 1 of 1 event(s)", outcome.Status)
		}()
	}
	wg.Wait()
	assert.Equal(t, 20, calendar.Calls())
}
