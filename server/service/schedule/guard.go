package schedule

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/hrygo/chatmeet/plugin/ai/timeout"
	"github.com/hrygo/chatmeet/server/internal/errors"
	"github.com/hrygo/chatmeet/server/middleware"
)

// GuardedCalendar wraps a Calendar with a per-call timeout and a shared
// submission rate limit. Failures come back as coded errors.
type GuardedCalendar struct {
	next    Calendar
	limiter *middleware.RateLimiter
	timeout time.Duration
}

// NewGuardedCalendar wraps next. A nil limiter disables rate limiting; a
// non-positive callTimeout means timeout.SubmissionTimeout.
func NewGuardedCalendar(next Calendar, limiter *middleware.RateLimiter, callTimeout time.Duration) *GuardedCalendar {
	if callTimeout <= 0 {
		callTimeout = timeout.SubmissionTimeout
	}
	return &GuardedCalendar{next: next, limiter: limiter, timeout: callTimeout}
}

// CreateEvent implements Calendar.
func (g *GuardedCalendar) CreateEvent(ctx context.Context, create *MeetingRecord) (*Event, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	if g.limiter != nil {
		if err := g.limiter.Wait(ctx, rateLimitKey); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, guardError(ctxErr, "waiting for submission slot")
			}
			return nil, errors.RateLimited("submission rate limit exceeded", err)
		}
	}

	event, err := g.next.CreateEvent(ctx, create)
	if err != nil {
		return nil, guardError(err, "calendar rejected event")
	}
	return event, nil
}

// GetEvents implements Calendar.
func (g *GuardedCalendar) GetEvents(ctx context.Context, start, end time.Time) ([]*Event, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	events, err := g.next.GetEvents(ctx, start, end)
	if err != nil {
		return nil, guardError(err, "failed to query events")
	}
	return events, nil
}

func guardError(err error, msg string) error {
	var coded *errors.CodedError
	switch {
	case stderrors.As(err, &coded):
		return err
	case stderrors.Is(err, context.DeadlineExceeded):
		return errors.Timeout(msg, err)
	case stderrors.Is(err, context.Canceled):
		return errors.ContextCanceled(err)
	}
	return errors.SubmissionFailed(msg, err)
}

// Ensure GuardedCalendar implements Calendar
var _ Calendar = (*GuardedCalendar)(nil)
