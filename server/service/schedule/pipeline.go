// Package schedule turns chat messages into calendar events.
//
// For each message the Pipeline interprets temporal expressions, extracts the
// meeting fields around each of them, validates the result and submits valid
// meetings to a Calendar. Spans of one message are handled strictly in order;
// a failing span never aborts the others.
package schedule

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hrygo/chatmeet/plugin/ai/aitime"
	aischedule "github.com/hrygo/chatmeet/plugin/ai/schedule"
	"github.com/hrygo/chatmeet/server/internal/errors"
	"github.com/hrygo/chatmeet/server/internal/observability"
)

// Pipeline processes chat messages. It holds no per-message state and is safe
// for concurrent use when its Calendar is.
type Pipeline struct {
	interpreter *aischedule.Interpreter
	extractor   *aischedule.Extractor
	validator   *aischedule.Validator
	calendar    Calendar

	now     func() time.Time
	logger  *slog.Logger
	metrics *observability.Metrics
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithClock sets the clock used as the reference instant and by validation.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		if now != nil {
			p.now = now
		}
	}
}

// WithLogger sets the logger used when the context carries no request context.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(metrics *observability.Metrics) Option {
	return func(p *Pipeline) {
		if metrics != nil {
			p.metrics = metrics
		}
	}
}

// NewPipeline creates a pipeline that detects times with detector and submits
// meetings to calendar.
func NewPipeline(detector aitime.Detector, calendar Calendar, opts ...Option) *Pipeline {
	p := &Pipeline{
		interpreter: aischedule.NewInterpreter(detector),
		extractor:   aischedule.NewExtractor(),
		calendar:    calendar,
		now:         time.Now,
		logger:      slog.Default(),
		metrics:     observability.GlobalMetrics(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.validator = aischedule.NewValidator(p.now)
	return p
}

// ProcessMessage interprets message and submits one event per valid span.
// It never returns an error: every failure is reported in the span's result.
func (p *Pipeline) ProcessMessage(ctx context.Context, message string) *Outcome {
	reqCtx := observability.FromContextOrNew(ctx, p.logger, logSource)
	started := time.Now()
	defer func() { p.metrics.RecordDuration(time.Since(started)) }()

	spans := p.interpreter.Interpret(message, p.now())
	p.metrics.RecordMessage(len(spans))

	if len(spans) == 0 {
		reqCtx.Info("no temporal expressions found",
			slog.Int(observability.LogFieldMessageLen, len(message)),
		)
		return &Outcome{Success: true, Status: StatusNoTemporal, Results: []SpanResult{}}
	}

	reqCtx.Debug("temporal expressions found",
		slog.Int(observability.LogFieldMessageLen, len(message)),
		slog.Int("span_count", len(spans)),
	)

	results := make([]SpanResult, 0, len(spans))
	for i, span := range spans {
		results = append(results, p.processSpan(ctx, reqCtx, i, message, span))
	}

	outcome := &Outcome{Success: true, Results: results}
	outcome.Status = fmt.Sprintf(statusCreatedFormat, outcome.Created(), len(spans))
	reqCtx.Info("message processed",
		slog.String("status", outcome.Status),
		slog.Int64(observability.LogFieldDuration, time.Since(started).Milliseconds()),
	)
	return outcome
}

func (p *Pipeline) processSpan(ctx context.Context, reqCtx *observability.RequestContext, index int, message string, span aischedule.TemporalSpan) SpanResult {
	logger := reqCtx.WithFields(
		slog.Int(observability.LogFieldSpanIndex, index),
		slog.String(observability.LogFieldSpanText, span.OriginalText),
	)

	fields := p.extractor.Extract(message, span)
	validation := p.validator.Validate(span, fields)
	result := SpanResult{Span: span, Fields: fields, Warnings: validation.Warnings}

	if len(validation.Warnings) > 0 {
		logger.Warn("meeting has warnings", slog.Any("warnings", validation.Warnings))
	}
	if !validation.Valid {
		p.metrics.RecordValidationFailure()
		logger.Warn("meeting failed validation",
			slog.Any("errors", validation.Errors),
			slog.String(observability.LogFieldErrorCode, string(errors.ErrCodeValidationFailed)),
		)
		result.Errors = validation.Errors
		result.Code = errors.ErrCodeValidationFailed
		return result
	}

	record := &MeetingRecord{
		Title:        fields.Title,
		Start:        span.Start,
		End:          aischedule.EffectiveEnd(span, fields),
		Location:     fields.Location,
		Participants: fields.Participants,
	}

	event, err := p.calendar.CreateEvent(ctx, record)
	if err != nil {
		code := classifySubmissionError(err)
		p.metrics.RecordSubmissionFailure(string(code))
		logger.Error("failed to create event",
			slog.String("error", err.Error()),
			slog.String(observability.LogFieldErrorCode, string(code)),
		)
		result.Errors = []string{submissionMessage(err)}
		result.Code = code
		return result
	}

	p.metrics.RecordEventCreated()
	logger.Info("event created", slog.String(observability.LogFieldEventID, event.ID))
	result.Success = true
	result.Event = event
	return result
}

// ProcessBatch processes messages concurrently, at most concurrency at a time.
// Outcomes keep the order of messages. The only error is the context's.
func (p *Pipeline) ProcessBatch(ctx context.Context, messages []string, concurrency int) ([]*Outcome, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(concurrency, 1))

	outcomes := make([]*Outcome, len(messages))
	for i, message := range messages {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcomes[i] = p.ProcessMessage(gctx, message)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if stderrors.Is(err, context.DeadlineExceeded) {
			return nil, errors.Timeout("batch deadline exceeded", err)
		}
		return nil, errors.ContextCanceled(err)
	}
	return outcomes, nil
}

// submissionMessage returns the calendar's own message for err, without the
// coded wrappers added on the way; the code is reported separately.
func submissionMessage(err error) string {
	var coded *errors.CodedError
	for stderrors.As(err, &coded) {
		if coded.Cause == nil {
			return coded.Message
		}
		err = coded.Cause
	}
	return err.Error()
}

// classifySubmissionError maps a calendar error to an error code.
func classifySubmissionError(err error) errors.ErrorCode {
	if code := errors.GetCodeFromError(err, ""); code != "" {
		return code
	}
	switch {
	case stderrors.Is(err, context.DeadlineExceeded):
		return errors.ErrCodeTimeout
	case stderrors.Is(err, context.Canceled):
		return errors.ErrCodeContextCanceled
	}
	return errors.ErrCodeSubmissionFailed
}
