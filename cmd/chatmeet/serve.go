package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hrygo/chatmeet/server"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := loadProfile()
			if err != nil {
				return err
			}
			logger := newLogger(p, slog.LevelInfo)
			slog.SetDefault(logger)

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			s, err := openStore(ctx, p)
			if err != nil {
				return err
			}

			srv, err := server.NewServer(ctx, p, s, logger)
			if err != nil {
				s.Close()
				return err
			}

			c := make(chan os.Signal, 1)
			// Trigger graceful shutdown on SIGINT or SIGTERM.
			// The default signal sent by the `kill` command is SIGTERM,
			// which is taken as the graceful shutdown signal for many systems, eg., Kubernetes, Gunicorn.
			signal.Notify(c, os.Interrupt, syscall.SIGTERM)

			if err := srv.Start(ctx); err != nil {
				srv.Shutdown(ctx)
				return err
			}

			go func() {
				<-c
				srv.Shutdown(context.Background())
				cancel()
			}()

			// Wait for CTRL-C.
			<-ctx.Done()
			return nil
		},
	}
}
