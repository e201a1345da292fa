package db

import (
	"github.com/pkg/errors"

	"github.com/hrygo/chatmeet/internal/profile"
	"github.com/hrygo/chatmeet/store"
	"github.com/hrygo/chatmeet/store/db/memory"
	"github.com/hrygo/chatmeet/store/db/postgres"
	"github.com/hrygo/chatmeet/store/db/sqlite"
)

// ============================================================================
// DATABASE SUPPORT POLICY
// ============================================================================
// memory:   in-process only, events are lost on exit (default, CLI demo).
// sqlite:   single node, file under the data directory.
// postgres: shared backend for production deployments.
// ============================================================================

// NewDBDriver creates new db driver based on profile.
func NewDBDriver(profile *profile.Profile) (store.Driver, error) {
	var driver store.Driver
	var err error

	switch profile.Driver {
	case "", "memory":
		driver = memory.NewDB()
	case "sqlite":
		driver, err = sqlite.NewDB(profile)
	case "postgres":
		driver, err = postgres.NewDB(profile)
	default:
		return nil, errors.Errorf("unknown db driver %q: only 'memory', 'sqlite' and 'postgres' are supported", profile.Driver)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to create db driver")
	}
	return driver, nil
}
