package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hrygo/chatmeet/internal/profile"
	"github.com/hrygo/chatmeet/store"
	"github.com/hrygo/chatmeet/store/db"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "0.1.0-dev"

var rootCmd = &cobra.Command{
	Use:           "chatmeet",
	Short:         "Turn chat messages into calendar events",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	viper.SetDefault("mode", "demo")
	viper.SetDefault("driver", "memory")
	viper.SetDefault("port", 8081)
	viper.SetDefault("data", ".")

	rootCmd.PersistentFlags().String("mode", "demo", `mode of server, can be "prod" or "dev" or "demo"`)
	rootCmd.PersistentFlags().String("addr", "", "address of server")
	rootCmd.PersistentFlags().Int("port", 8081, "port of server")
	rootCmd.PersistentFlags().String("data", ".", "data directory")
	rootCmd.PersistentFlags().String("driver", "memory", "calendar store driver (memory, sqlite or postgres)")
	rootCmd.PersistentFlags().String("dsn", "", "database source name (aka. DSN)")
	rootCmd.PersistentFlags().String("timezone", "", "IANA timezone used to resolve message times (default: local)")

	for _, name := range []string{"mode", "addr", "port", "data", "driver", "dsn", "timezone"} {
		if err := viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name)); err != nil {
			panic(err)
		}
	}

	viper.SetEnvPrefix("chatmeet")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	rootCmd.AddCommand(newServeCommand(), newProcessCommand(), newDemoCommand(), newEventsCommand())
}

// loadProfile builds the profile from flags and CHATMEET_* variables.
func loadProfile() (*profile.Profile, error) {
	p := &profile.Profile{
		Mode:     viper.GetString("mode"),
		Addr:     viper.GetString("addr"),
		Port:     viper.GetInt("port"),
		Data:     viper.GetString("data"),
		Driver:   viper.GetString("driver"),
		DSN:      viper.GetString("dsn"),
		Timezone: viper.GetString("timezone"),
		Version:  version,
	}
	p.FromEnv()
	if err := p.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return p, nil
}

// newLogger logs to stderr at level, or at debug level in dev mode.
func newLogger(p *profile.Profile, level slog.Level) *slog.Logger {
	if p.Mode == "dev" {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// openStore connects the configured driver and applies the schema.
func openStore(ctx context.Context, p *profile.Profile) (*store.Store, error) {
	driver, err := db.NewDBDriver(p)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create db driver")
	}
	s := store.New(driver, p)
	if err := s.Migrate(ctx); err != nil {
		s.Close()
		return nil, errors.Wrap(err, "failed to migrate")
	}
	return s, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
