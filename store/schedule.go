package store

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// Schedule is the object representing a calendar event.
type Schedule struct {
	ID        int32
	UID       string
	RowStatus RowStatus
	CreatedTs int64

	Title        string
	Location     string
	Participants []string
	StartTs      int64
	EndTs        int64
}

// FindSchedule is the find condition for schedule.
type FindSchedule struct {
	ID        *int32
	UID       *string
	RowStatus *RowStatus

	// StartFrom and StartTo bound start_ts, both inclusive.
	StartFrom *int64
	StartTo   *int64

	// Pagination
	Limit  *int
	Offset *int
}

// DeleteSchedule is the delete request for schedule.
type DeleteSchedule struct {
	UID string
}

// ErrNotFound is returned when no schedule matches.
var ErrNotFound = errors.New("schedule not found")

// CreateSchedule creates a new schedule, assigning its UID and creation time
// when they are not set.
func (s *Store) CreateSchedule(ctx context.Context, create *Schedule) (*Schedule, error) {
	if create.UID == "" {
		create.UID = s.genID()
	}
	if create.CreatedTs == 0 {
		create.CreatedTs = s.now().Unix()
	}
	if create.RowStatus == "" {
		create.RowStatus = Normal
	}
	if create.Participants == nil {
		create.Participants = []string{}
	}
	return s.driver.CreateSchedule(ctx, create)
}

// ListSchedules lists schedules with filter, ordered by start time.
func (s *Store) ListSchedules(ctx context.Context, find *FindSchedule) ([]*Schedule, error) {
	return s.driver.ListSchedules(ctx, find)
}

// GetSchedule gets a schedule by uid. It returns nil when none matches.
func (s *Store) GetSchedule(ctx context.Context, find *FindSchedule) (*Schedule, error) {
	list, err := s.driver.ListSchedules(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// DeleteSchedule deletes a schedule. It returns ErrNotFound when the UID is unknown.
func (s *Store) DeleteSchedule(ctx context.Context, delete *DeleteSchedule) error {
	return s.driver.DeleteSchedule(ctx, delete)
}

// StartTime returns the schedule start as a time.Time.
func (s *Schedule) StartTime() time.Time {
	return time.Unix(s.StartTs, 0)
}

// EndTime returns the schedule end as a time.Time.
func (s *Schedule) EndTime() time.Time {
	return time.Unix(s.EndTs, 0)
}
