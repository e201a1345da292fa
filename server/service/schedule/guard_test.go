package schedule

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/chatmeet/plugin/ai/aitime"
	"github.com/hrygo/chatmeet/server/internal/errors"
	"github.com/hrygo/chatmeet/server/middleware"
)

// blockingCalendar blocks until the caller's context is done.
type blockingCalendar struct{}

func (blockingCalendar) CreateEvent(ctx context.Context, _ *MeetingRecord) (*Event, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (blockingCalendar) GetEvents(ctx context.Context, _, _ time.Time) ([]*Event, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func testRecord() *MeetingRecord {
	start := refTime.Add(24 * time.Hour)
	return &MeetingRecord{Title: "Sync", Start: start, End: start.Add(time.Hour), Participants: []string{}}
}

func TestGuardedCalendar_PassesThrough(t *testing.T) {
	next := &MockCalendar{}
	guarded := NewGuardedCalendar(next, middleware.NewRateLimiter(100, 10), time.Second)

	event, err := guarded.CreateEvent(context.Background(), testRecord())
	require.NoError(t, err)
	assert.Equal(t, "event_1", event.ID)

	events, err := guarded.GetEvents(context.Background(), refTime, refTime.Add(48*time.Hour))
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestGuardedCalendar_Timeout(t *testing.T) {
	guarded := NewGuardedCalendar(blockingCalendar{}, nil, 20*time.Millisecond)

	_, err := guarded.CreateEvent(context.Background(), testRecord())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeTimeout))
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	_, err = guarded.GetEvents(context.Background(), refTime, refTime)
	assert.True(t, errors.IsCode(err, errors.ErrCodeTimeout))
}

func TestGuardedCalendar_Canceled(t *testing.T) {
	guarded := NewGuardedCalendar(blockingCalendar{}, nil, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := guarded.CreateEvent(ctx, testRecord())
	assert.True(t, errors.IsCode(err, errors.ErrCodeContextCanceled))
}

func TestGuardedCalendar_RateLimited(t *testing.T) {
	next := &MockCalendar{}
	// One token, refilled far slower than the call timeout.
	limiter := middleware.NewRateLimiter(0.001, 1)
	guarded := NewGuardedCalendar(next, limiter, 50*time.Millisecond)

	_, err := guarded.CreateEvent(context.Background(), testRecord())
	require.NoError(t, err)

	_, err = guarded.CreateEvent(context.Background(), testRecord())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeRateLimited))
	assert.Equal(t, 1, next.Calls())
}

func TestGuardedCalendar_ErrorCodes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want errors.ErrorCode
	}{
		{"plain", stderrors.New("backend down"), errors.ErrCodeSubmissionFailed},
		{"coded", errors.InvalidArgument("bad meeting"), errors.ErrCodeInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			guarded := NewGuardedCalendar(&MockCalendar{errs: []error{tt.err}}, nil, 0)

			_, err := guarded.CreateEvent(context.Background(), testRecord())
			require.Error(t, err)
			assert.Equal(t, tt.want, errors.GetCodeFromError(err, ""))
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestPipeline_GuardedTimeoutIsReported(t *testing.T) {
	guarded := NewGuardedCalendar(blockingCalendar{}, nil, 20*time.Millisecond)
	p := newTestPipeline(aitime.NewParser(time.UTC), guarded, nil)

	outcome := p.ProcessMessage(context.Background(), demoMessages[0])

	require.Len(t, outcome.Results, 1)
	assert.False(t, outcome.Results[0].Success)
	assert.Equal(t, errors.ErrCodeTimeout, outcome.Results[0].Code)
	assert.Equal(t, "created 0 of 1 event(s)", outcome.Status)
}

func TestPipeline_GuardedFailureKeepsCalendarMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantMsg  string
		wantCode errors.ErrorCode
	}{
		{"plain", stderrors.New("backend unavailable"), "backend unavailable", errors.ErrCodeSubmissionFailed},
		{"coded", errors.InvalidArgument("bad meeting"), "bad meeting", errors.ErrCodeInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			guarded := NewGuardedCalendar(&MockCalendar{errs: []error{tt.err}}, nil, time.Second)
			p := newTestPipeline(aitime.NewParser(time.UTC), guarded, nil)

			outcome := p.ProcessMessage(context.Background(), demoMessages[0])

			require.Len(t, outcome.Results, 1)
			assert.False(t, outcome.Results[0].Success)
			assert.Equal(t, []string{tt.wantMsg}, outcome.Results[0].Errors)
			assert.Equal(t, tt.wantCode, outcome.Results[0].Code)
		})
	}
}

func TestSubmissionMessage(t *testing.T) {
	cause := stderrors.New("disk full")

	assert.Equal(t, "disk full", submissionMessage(cause))
	assert.Equal(t, "disk full", submissionMessage(errors.SubmissionFailed("calendar rejected event", cause)))
	assert.Equal(t, "disk full", submissionMessage(errors.Timeout("slow", errors.SubmissionFailed("inner", cause))))
	assert.Equal(t, "event not found: x", submissionMessage(errors.NotFound("event not found: x")))
}
