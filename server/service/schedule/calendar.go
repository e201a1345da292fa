package schedule

import (
	"context"
	"time"

	pkgerrors "github.com/pkg/errors"

	"github.com/hrygo/chatmeet/server/internal/errors"
	"github.com/hrygo/chatmeet/store"
)

// StoreCalendar is a Calendar backed by the store.
type StoreCalendar struct {
	store *store.Store
	loc   *time.Location
}

// NewStoreCalendar creates a calendar on top of s. Returned event times are
// expressed in loc; a nil loc means time.Local.
func NewStoreCalendar(s *store.Store, loc *time.Location) *StoreCalendar {
	if loc == nil {
		loc = time.Local
	}
	return &StoreCalendar{store: s, loc: loc}
}

// CreateEvent implements Calendar.
func (c *StoreCalendar) CreateEvent(ctx context.Context, create *MeetingRecord) (*Event, error) {
	if create == nil {
		return nil, errors.InvalidArgument("meeting is required")
	}
	if !create.End.After(create.Start) {
		return nil, errors.InvalidArgument("end time must be after start time")
	}

	schedule, err := c.store.CreateSchedule(ctx, &store.Schedule{
		Title:        create.Title,
		Location:     create.Location,
		Participants: create.Participants,
		StartTs:      create.Start.Unix(),
		EndTs:        create.End.Unix(),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to store event")
	}
	return c.toEvent(schedule), nil
}

// GetEvents implements Calendar.
func (c *StoreCalendar) GetEvents(ctx context.Context, start, end time.Time) ([]*Event, error) {
	if end.Before(start) {
		return nil, errors.InvalidArgument("end must not be before start")
	}

	startTs, endTs := start.Unix(), end.Unix()
	normal := store.Normal
	list, err := c.store.ListSchedules(ctx, &store.FindSchedule{
		RowStatus: &normal,
		StartFrom: &startTs,
		StartTo:   &endTs,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to list events")
	}

	events := make([]*Event, 0, len(list))
	for _, schedule := range list {
		events = append(events, c.toEvent(schedule))
	}
	return events, nil
}

// GetEvent returns one event. It returns a NOT_FOUND error for an unknown id.
func (c *StoreCalendar) GetEvent(ctx context.Context, id string) (*Event, error) {
	schedule, err := c.store.GetSchedule(ctx, &store.FindSchedule{UID: &id})
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to get event %s", id)
	}
	if schedule == nil {
		return nil, errors.NotFound("event not found: " + id)
	}
	return c.toEvent(schedule), nil
}

// DeleteEvent removes an event. It returns a NOT_FOUND error for an unknown id.
func (c *StoreCalendar) DeleteEvent(ctx context.Context, id string) error {
	if err := c.store.DeleteSchedule(ctx, &store.DeleteSchedule{UID: id}); err != nil {
		if pkgerrors.Is(err, store.ErrNotFound) {
			return errors.NotFound("event not found: " + id)
		}
		return pkgerrors.Wrapf(err, "failed to delete event %s", id)
	}
	return nil
}

func (c *StoreCalendar) toEvent(s *store.Schedule) *Event {
	participants := s.Participants
	if participants == nil {
		participants = []string{}
	}
	return &Event{
		ID: s.UID,
		MeetingRecord: MeetingRecord{
			Title:        s.Title,
			Start:        s.StartTime().In(c.loc),
			End:          s.EndTime().In(c.loc),
			Location:     s.Location,
			Participants: participants,
		},
		CreatedAt: time.Unix(s.CreatedTs, 0).In(c.loc),
	}
}

// Ensure StoreCalendar implements Calendar
var _ Calendar = (*StoreCalendar)(nil)
