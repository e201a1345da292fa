// Package server wires the scheduling pipeline behind the HTTP API.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/hrygo/chatmeet/internal/profile"
	"github.com/hrygo/chatmeet/plugin/ai/aitime"
	"github.com/hrygo/chatmeet/plugin/ai/timeout"
	"github.com/hrygo/chatmeet/server/internal/observability"
	"github.com/hrygo/chatmeet/server/middleware"
	apiv1 "github.com/hrygo/chatmeet/server/router/api/v1"
	"github.com/hrygo/chatmeet/server/service/schedule"
	"github.com/hrygo/chatmeet/store"
)

type Server struct {
	Profile *profile.Profile
	Store   *store.Store

	echoServer *echo.Echo
}

// NewPipeline builds the production pipeline for profile: a Parser in the
// profile's timezone submitting through a rate-limited, time-bounded
// StoreCalendar.
func NewPipeline(profile *profile.Profile, s *store.Store, logger *slog.Logger, metrics *observability.Metrics) (*schedule.Pipeline, *schedule.StoreCalendar) {
	loc := profile.Location()
	calendar := schedule.NewStoreCalendar(s, loc)
	limiter := middleware.NewRateLimiter(profile.SubmitRate, profile.SubmitBurst)
	guarded := schedule.NewGuardedCalendar(calendar, limiter, profile.SubmitTimeout)

	pipeline := schedule.NewPipeline(aitime.NewParser(loc), guarded,
		schedule.WithLogger(logger),
		schedule.WithMetrics(metrics),
	)
	return pipeline, calendar
}

func NewServer(ctx context.Context, profile *profile.Profile, store *store.Store, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := store.Migrate(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to migrate")
	}

	metrics := observability.GlobalMetrics()
	pipeline, calendar := NewPipeline(profile, store, logger, metrics)

	echoServer := echo.New()
	echoServer.Debug = profile.IsDev()
	echoServer.HideBanner = true
	echoServer.HidePort = true
	echoServer.Use(echomiddleware.Recover())

	apiv1.NewAPIV1Service(profile, pipeline, calendar, metrics, apiv1.WithLogger(logger)).Register(echoServer)

	return &Server{
		Profile:    profile,
		Store:      store,
		echoServer: echoServer,
	}, nil
}

// Handler exposes the HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echoServer
}

func (s *Server) Start(ctx context.Context) error {
	address := fmt.Sprintf("%s:%d", s.Profile.Addr, s.Profile.Port)
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return errors.Wrap(err, "failed to listen")
	}

	s.echoServer.Listener = listener
	go func() {
		if err := s.echoServer.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("failed to start echo server", "error", err)
		}
	}()
	slog.Info("server started", "address", listener.Addr().String(), "mode", s.Profile.Mode, "driver", s.Profile.Driver)
	return nil
}

func (s *Server) Shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, timeout.ShutdownTimeout)
	defer cancel()

	slog.Info("server shutting down")

	// Shutdown echo server.
	if err := s.echoServer.Shutdown(ctx); err != nil {
		slog.Error("failed to shutdown server", slog.String("error", err.Error()))
	}

	// Close database connection.
	if err := s.Store.Close(); err != nil {
		slog.Error("failed to close database", slog.String("error", err.Error()))
	}

	slog.Info("server stopped properly")
}
