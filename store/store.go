package store

import (
	"time"

	"github.com/hrygo/chatmeet/internal/profile"
	"github.com/hrygo/chatmeet/internal/util"
)

// Store provides database access to all raw objects.
type Store struct {
	profile *profile.Profile
	driver  Driver

	// genID assigns the UID of new schedules.
	genID func() string
	now   func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithIDGenerator overrides the schedule UID generator.
func WithIDGenerator(genID func() string) Option {
	return func(s *Store) {
		if genID != nil {
			s.genID = genID
		}
	}
}

// WithClock overrides the clock used for creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile, opts ...Option) *Store {
	store := &Store{
		driver:  driver,
		profile: profile,
		genID:   util.GenEventID,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

func (s *Store) Close() error {
	return s.driver.Close()
}
