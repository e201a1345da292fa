package v1

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/chatmeet/plugin/ical"
	"github.com/hrygo/chatmeet/server/internal/errors"
	"github.com/hrygo/chatmeet/server/service/schedule"
	"github.com/hrygo/chatmeet/server/timezone"
)

// DefaultEventWindow is the range listed when no end is given.
const DefaultEventWindow = 30 * 24 * time.Hour

// ListEventsResponse is the body of GET /api/v1/events.
type ListEventsResponse struct {
	Start  time.Time         `json:"start"`
	End    time.Time         `json:"end"`
	Events []*schedule.Event `json:"events"`
}

// ListEvents returns events starting in [start, end].
// GET /api/v1/events?start=RFC3339&end=RFC3339
func (s *APIV1Service) ListEvents(c echo.Context) error {
	start, end, err := s.parseEventRange(c)
	if err != nil {
		return respondError(c, err)
	}

	events, err := s.Events.GetEvents(c.Request().Context(), start, end)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, ListEventsResponse{Start: start, End: end, Events: events})
}

// ExportEvents returns events starting in [start, end] as an iCalendar feed.
// GET /api/v1/events.ics?start=RFC3339&end=RFC3339
func (s *APIV1Service) ExportEvents(c echo.Context) error {
	start, end, err := s.parseEventRange(c)
	if err != nil {
		return respondError(c, err)
	}

	events, err := s.Events.GetEvents(c.Request().Context(), start, end)
	if err != nil {
		return respondError(c, err)
	}

	feed := schedule.ExportICal(events, ical.Options{Name: "chatmeet", Now: s.now})
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="chatmeet.ics"`)
	return c.Blob(http.StatusOK, "text/calendar; charset=utf-8", []byte(feed))
}

// GetEvent returns one event.
// GET /api/v1/events/:id
func (s *APIV1Service) GetEvent(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return respondError(c, errors.InvalidArgument("event id is required"))
	}
	event, err := s.Events.GetEvent(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, event)
}

// DeleteEvent removes one event.
// DELETE /api/v1/events/:id
func (s *APIV1Service) DeleteEvent(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return respondError(c, errors.InvalidArgument("event id is required"))
	}
	if err := s.Events.DeleteEvent(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// parseEventRange reads the start and end query parameters. Start defaults to
// the beginning of today in the configured timezone, end to start plus
// DefaultEventWindow.
func (s *APIV1Service) parseEventRange(c echo.Context) (time.Time, time.Time, error) {
	start, end := timezone.DefaultRange(s.now(), s.Profile.Location(), DefaultEventWindow)
	if raw := c.QueryParam("start"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return time.Time{}, time.Time{}, errors.InvalidArgument("start must be an RFC 3339 timestamp")
		}
		start = t
		end = start.Add(DefaultEventWindow)
	}

	if raw := c.QueryParam("end"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return time.Time{}, time.Time{}, errors.InvalidArgument("end must be an RFC 3339 timestamp")
		}
		end = t
	}

	if end.Before(start) {
		return time.Time{}, time.Time{}, errors.InvalidArgument("end must not be before start")
	}
	return start, end, nil
}
