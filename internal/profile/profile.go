package profile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/hrygo/chatmeet/server/timezone"
)

// Defaults for the submission guard and batch processing.
const (
	DefaultSubmitTimeout    = 5 * time.Second
	DefaultSubmitRate       = 10.0
	DefaultSubmitBurst      = 20
	DefaultBatchConcurrency = 4
)

// Profile is the configuration to start main server.
type Profile struct {
	// Mode can be "prod" or "dev" or "demo"
	Mode string
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int
	// Data is the data directory
	Data string
	// DSN points to where chatmeet stores its events
	DSN string
	// Driver is the calendar store driver (memory, sqlite or postgres)
	Driver string
	// Version is the current version of server
	Version string
	// Timezone is the IANA zone used to resolve message times; empty means local time.
	Timezone string

	// Submission tuning
	SubmitTimeout    time.Duration // CHATMEET_SUBMIT_TIMEOUT (default: 5s)
	SubmitRate       float64       // CHATMEET_SUBMIT_RATE, events per second (default: 10)
	SubmitBurst      int           // CHATMEET_SUBMIT_BURST (default: 20)
	BatchConcurrency int           // CHATMEET_BATCH_CONCURRENCY (default: 4)
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// Location returns the configured timezone, or time.Local when unset or invalid.
func (p *Profile) Location() *time.Location {
	loc, _ := timezone.ParseTimezone(p.Timezone)
	return loc
}

// getEnvOrDefault returns the environment variable value or the default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// FromEnv loads submission tuning from CHATMEET_* environment variables.
// Unparsable values fall back to the defaults.
func (p *Profile) FromEnv() {
	p.SubmitTimeout = DefaultSubmitTimeout
	if d, err := time.ParseDuration(getEnvOrDefault("CHATMEET_SUBMIT_TIMEOUT", "")); err == nil && d > 0 {
		p.SubmitTimeout = d
	}

	p.SubmitRate = DefaultSubmitRate
	if r, err := strconv.ParseFloat(getEnvOrDefault("CHATMEET_SUBMIT_RATE", ""), 64); err == nil && r > 0 {
		p.SubmitRate = r
	}

	p.SubmitBurst = DefaultSubmitBurst
	if b, err := strconv.Atoi(getEnvOrDefault("CHATMEET_SUBMIT_BURST", "")); err == nil && b > 0 {
		p.SubmitBurst = b
	}

	p.BatchConcurrency = DefaultBatchConcurrency
	if c, err := strconv.Atoi(getEnvOrDefault("CHATMEET_BATCH_CONCURRENCY", "")); err == nil && c > 0 {
		p.BatchConcurrency = c
	}
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		relativeDir := filepath.Join(filepath.Dir(os.Args[0]), dataDir)
		absDir, err := filepath.Abs(relativeDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}

func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}

	switch p.Driver {
	case "":
		p.Driver = "memory"
	case "memory", "sqlite", "postgres":
	default:
		return errors.Errorf("unsupported driver %q: expected memory, sqlite or postgres", p.Driver)
	}

	if p.Driver == "postgres" && p.DSN == "" {
		return errors.New("postgres driver requires a DSN")
	}

	if _, err := timezone.ParseTimezone(p.Timezone); err != nil {
		return errors.Wrapf(err, "invalid timezone %s", p.Timezone)
	}

	if p.Driver == "sqlite" && p.DSN == "" {
		dataDir, err := checkDataDir(p.Data)
		if err != nil {
			slog.Error("failed to check data dir", slog.String("data", p.Data), slog.String("error", err.Error()))
			return err
		}
		p.Data = dataDir
		dbFile := fmt.Sprintf("chatmeet_%s.db", p.Mode)
		p.DSN = filepath.Join(dataDir, dbFile)
	}

	if p.SubmitTimeout <= 0 {
		p.SubmitTimeout = DefaultSubmitTimeout
	}
	if p.SubmitRate <= 0 {
		p.SubmitRate = DefaultSubmitRate
	}
	if p.SubmitBurst <= 0 {
		p.SubmitBurst = DefaultSubmitBurst
	}
	if p.BatchConcurrency <= 0 {
		p.BatchConcurrency = DefaultBatchConcurrency
	}

	return nil
}
