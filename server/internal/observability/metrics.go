package observability

import (
	"sync"
	"sync/atomic"
	"time"
)

// Metrics collects and aggregates metrics for message processing.
type Metrics struct {
	mu sync.Mutex

	// Counters
	messagesTotal      atomic.Int64
	spansTotal         atomic.Int64
	eventsCreated      atomic.Int64
	validationFailures atomic.Int64
	submissionFailures atomic.Int64

	// Failures keyed by error code.
	failuresByCode map[string]int64

	// Per-message processing durations, oldest first.
	durations    []time.Duration
	maxDurations int
}

// NewMetrics creates a new metrics collector.
func NewMetrics(maxDurations int) *Metrics {
	if maxDurations <= 0 {
		maxDurations = 1000 // Default to keeping last 1000 durations
	}
	return &Metrics{
		failuresByCode: make(map[string]int64),
		durations:      make([]time.Duration, 0, maxDurations),
		maxDurations:   maxDurations,
	}
}

// Global metrics instance.
var globalMetrics = NewMetrics(1000)

// GlobalMetrics returns the global metrics instance.
func GlobalMetrics() *Metrics {
	return globalMetrics
}

// RecordMessage records a processed message and the number of spans found in it.
func (m *Metrics) RecordMessage(spans int) {
	m.messagesTotal.Add(1)
	m.spansTotal.Add(int64(spans))
}

// RecordEventCreated records a successful calendar submission.
func (m *Metrics) RecordEventCreated() {
	m.eventsCreated.Add(1)
}

// RecordValidationFailure records a span rejected by validation.
func (m *Metrics) RecordValidationFailure() {
	m.validationFailures.Add(1)
	m.recordCode("VALIDATION_FAILED")
}

// RecordSubmissionFailure records a span the calendar rejected, keyed by error code.
func (m *Metrics) RecordSubmissionFailure(code string) {
	m.submissionFailures.Add(1)
	m.recordCode(code)
}

func (m *Metrics) recordCode(code string) {
	m.mu.Lock()
	m.failuresByCode[code]++
	m.mu.Unlock()
}

// RecordDuration records a message processing duration.
func (m *Metrics) RecordDuration(duration time.Duration) {
	m.mu.Lock()
	if len(m.durations) >= m.maxDurations {
		// Remove oldest duration (FIFO)
		m.durations = m.durations[1:]
	}
	m.durations = append(m.durations, duration)
	m.mu.Unlock()
}

// GetMessagesTotal returns the total number of processed messages.
func (m *Metrics) GetMessagesTotal() int64 {
	return m.messagesTotal.Load()
}

// GetEventsCreated returns the total number of created events.
func (m *Metrics) GetEventsCreated() int64 {
	return m.eventsCreated.Load()
}

// Reset resets all metrics (useful for testing).
func (m *Metrics) Reset() {
	m.messagesTotal.Store(0)
	m.spansTotal.Store(0)
	m.eventsCreated.Store(0)
	m.validationFailures.Store(0)
	m.submissionFailures.Store(0)

	m.mu.Lock()
	m.failuresByCode = make(map[string]int64)
	m.durations = make([]time.Duration, 0, m.maxDurations)
	m.mu.Unlock()
}

// Snapshot returns a snapshot of current metrics.
func (m *Metrics) Snapshot() *MetricsSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	byCode := make(map[string]int64, len(m.failuresByCode))
	for code, n := range m.failuresByCode {
		byCode[code] = n
	}

	var total time.Duration
	for _, d := range m.durations {
		total += d
	}
	var avg int64
	if len(m.durations) > 0 {
		avg = (total / time.Duration(len(m.durations))).Milliseconds()
	}

	return &MetricsSnapshot{
		MessagesTotal:      m.messagesTotal.Load(),
		SpansTotal:         m.spansTotal.Load(),
		EventsCreated:      m.eventsCreated.Load(),
		ValidationFailures: m.validationFailures.Load(),
		SubmissionFailures: m.submissionFailures.Load(),
		FailuresByCode:     byCode,
		DurationCount:      len(m.durations),
		AverageDurationMs:  avg,
	}
}

// MetricsSnapshot represents a point-in-time snapshot of metrics.
type MetricsSnapshot struct {
	MessagesTotal      int64            `json:"messages_total"`
	SpansTotal         int64            `json:"spans_total"`
	EventsCreated      int64            `json:"events_created"`
	ValidationFailures int64            `json:"validation_failures"`
	SubmissionFailures int64            `json:"submission_failures"`
	FailuresByCode     map[string]int64 `json:"failures_by_code"`
	DurationCount      int              `json:"duration_count"`
	AverageDurationMs  int64            `json:"average_duration_ms"`
}

// SuccessRate returns the share of spans that became events, as a percentage (0-100).
func (s *MetricsSnapshot) SuccessRate() float64 {
	if s.SpansTotal == 0 {
		return 100.0
	}
	return float64(s.EventsCreated) / float64(s.SpansTotal) * 100.0
}
