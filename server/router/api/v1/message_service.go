package v1

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/chatmeet/plugin/ai/timeout"
	"github.com/hrygo/chatmeet/server/internal/errors"
	"github.com/hrygo/chatmeet/server/service/schedule"
)

// MaxBatchMessages bounds the size of one batch request.
const MaxBatchMessages = 100

// ProcessMessageRequest is the body of POST /api/v1/messages.
type ProcessMessageRequest struct {
	Message string `json:"message"`
}

// ProcessBatchRequest is the body of POST /api/v1/messages/batch.
type ProcessBatchRequest struct {
	Messages []string `json:"messages"`
}

// ProcessBatchResponse keeps outcomes in request order.
type ProcessBatchResponse struct {
	Outcomes []*schedule.Outcome `json:"outcomes"`
}

// ProcessMessage schedules the meetings found in one chat message.
// POST /api/v1/messages
func (s *APIV1Service) ProcessMessage(c echo.Context) error {
	var req ProcessMessageRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, errors.InvalidArgument("invalid request body"))
	}
	if strings.TrimSpace(req.Message) == "" {
		return respondError(c, errors.InvalidArgument("message is required"))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), timeout.RequestTimeout)
	defer cancel()

	outcome := s.Pipeline.ProcessMessage(ctx, req.Message)
	return c.JSON(http.StatusOK, outcome)
}

// ProcessBatch schedules the meetings of several messages concurrently.
// POST /api/v1/messages/batch
func (s *APIV1Service) ProcessBatch(c echo.Context) error {
	var req ProcessBatchRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, errors.InvalidArgument("invalid request body"))
	}
	if len(req.Messages) == 0 {
		return respondError(c, errors.InvalidArgument("messages are required"))
	}
	if len(req.Messages) > MaxBatchMessages {
		return respondError(c, errors.InvalidArgument("too many messages in one batch"))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), timeout.RequestTimeout)
	defer cancel()

	concurrency := min(s.Profile.BatchConcurrency, timeout.MaxBatchConcurrency)
	outcomes, err := s.Pipeline.ProcessBatch(ctx, req.Messages, concurrency)
	if err != nil {
		requestLogger(c).Warn("batch aborted",
			slog.Int("messages", len(req.Messages)),
			slog.String("error", err.Error()),
		)
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, ProcessBatchResponse{Outcomes: outcomes})
}
