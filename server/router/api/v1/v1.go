package v1

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/hrygo/chatmeet/internal/profile"
	"github.com/hrygo/chatmeet/server/internal/observability"
	"github.com/hrygo/chatmeet/server/service/schedule"
)

// HeaderRequestID carries the caller's request id; one is generated when absent.
const HeaderRequestID = "X-Request-ID"

// EventStore is the calendar surface the API reads from and deletes in.
type EventStore interface {
	schedule.Calendar
	GetEvent(ctx context.Context, id string) (*schedule.Event, error)
	DeleteEvent(ctx context.Context, id string) error
}

type APIV1Service struct {
	Profile  *profile.Profile
	Pipeline *schedule.Pipeline
	Events   EventStore
	Metrics  *observability.Metrics
	Logger   *slog.Logger

	now func() time.Time
}

// Option configures an APIV1Service.
type Option func(*APIV1Service)

// WithClock sets the clock used for default event ranges and feed stamps.
func WithClock(now func() time.Time) Option {
	return func(s *APIV1Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the logger of request contexts.
func WithLogger(logger *slog.Logger) Option {
	return func(s *APIV1Service) {
		if logger != nil {
			s.Logger = logger
		}
	}
}

func NewAPIV1Service(profile *profile.Profile, pipeline *schedule.Pipeline, events EventStore, metrics *observability.Metrics, opts ...Option) *APIV1Service {
	if metrics == nil {
		metrics = observability.GlobalMetrics()
	}
	service := &APIV1Service{
		Profile:  profile,
		Pipeline: pipeline,
		Events:   events,
		Metrics:  metrics,
		Logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Register mounts the API routes on the given Echo instance.
func (s *APIV1Service) Register(echoServer *echo.Echo) {
	echoServer.GET("/healthz", s.Healthz)

	group := echoServer.Group("/api/v1", middleware.CORS(), s.requestContextMiddleware)
	group.POST("/messages", s.ProcessMessage)
	group.POST("/messages/batch", s.ProcessBatch)
	group.GET("/events", s.ListEvents)
	group.GET("/events.ics", s.ExportEvents)
	group.GET("/events/:id", s.GetEvent)
	group.DELETE("/events/:id", s.DeleteEvent)
	group.GET("/metrics", s.GetMetrics)
}

// Healthz reports liveness.
// GET /healthz
func (s *APIV1Service) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok", "version": s.Profile.Version})
}

// requestContextMiddleware attaches an observability.RequestContext to the
// request and logs its completion.
func (s *APIV1Service) requestContextMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		requestID := req.Header.Get(HeaderRequestID)
		var reqCtx *observability.RequestContext
		if requestID == "" {
			reqCtx = observability.NewRequestContext(s.Logger, "http")
		} else {
			reqCtx = observability.NewRequestContextWithID(s.Logger, requestID, "http")
		}
		c.SetRequest(req.WithContext(observability.WithRequestContext(req.Context(), reqCtx)))
		c.Response().Header().Set(HeaderRequestID, reqCtx.RequestID)

		err := next(c)
		reqCtx.Debug("request completed",
			slog.String("method", req.Method),
			slog.String("path", c.Path()),
			slog.Int("status", c.Response().Status),
			slog.Int64(observability.LogFieldDuration, reqCtx.DurationMs()),
		)
		return err
	}
}

// requestLogger returns the request context installed by the middleware.
func requestLogger(c echo.Context) *observability.RequestContext {
	return observability.FromContextOrNew(c.Request().Context(), nil, "http")
}
