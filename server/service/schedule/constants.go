package schedule

// Package-level constants for message processing.

const (
	// StatusNoTemporal is the outcome status of a message without time expressions.
	StatusNoTemporal = "no temporal expressions found"

	// statusCreatedFormat reports how many spans became events.
	statusCreatedFormat = "created %d of %d event(s)"

	// rateLimitKey is the limiter key shared by all calendar submissions.
	rateLimitKey = "calendar:create"

	// logSource tags log lines of messages that arrive without a request context.
	logSource = "pipeline"
)
