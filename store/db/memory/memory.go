// Package memory is an in-process store driver. Events live only as long as
// the process; it backs the CLI demo and tests.
package memory

import (
	"cmp"
	"context"
	"database/sql"
	"slices"
	"sync"

	"github.com/hrygo/chatmeet/store"
)

type DB struct {
	mu        sync.RWMutex
	schedules []*store.Schedule
	nextID    int32
}

// NewDB creates an empty in-memory driver.
func NewDB() store.Driver {
	return &DB{nextID: 1}
}

// GetDB returns nil; the memory driver has no SQL database.
func (d *DB) GetDB() *sql.DB {
	return nil
}

func (d *DB) Close() error {
	return nil
}

func (d *DB) IsInitialized(_ context.Context) (bool, error) {
	return true, nil
}

func (d *DB) CreateSchedule(_ context.Context, create *store.Schedule) (*store.Schedule, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	create.ID = d.nextID
	d.nextID++
	d.schedules = append(d.schedules, clone(create))
	return create, nil
}

func (d *DB) ListSchedules(_ context.Context, find *store.FindSchedule) ([]*store.Schedule, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	list := make([]*store.Schedule, 0)
	for _, s := range d.schedules {
		if matches(s, find) {
			list = append(list, clone(s))
		}
	}
	slices.SortStableFunc(list, func(a, b *store.Schedule) int {
		if a.StartTs != b.StartTs {
			return cmp.Compare(a.StartTs, b.StartTs)
		}
		return cmp.Compare(a.ID, b.ID)
	})

	if find.Offset != nil {
		list = list[min(max(*find.Offset, 0), len(list)):]
	}
	if find.Limit != nil {
		list = list[:min(max(*find.Limit, 0), len(list))]
	}
	return list, nil
}

func (d *DB) DeleteSchedule(_ context.Context, delete *store.DeleteSchedule) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	i := slices.IndexFunc(d.schedules, func(s *store.Schedule) bool { return s.UID == delete.UID })
	if i < 0 {
		return store.ErrNotFound
	}
	d.schedules = slices.Delete(d.schedules, i, i+1)
	return nil
}

func matches(s *store.Schedule, find *store.FindSchedule) bool {
	if v := find.ID; v != nil && s.ID != *v {
		return false
	}
	if v := find.UID; v != nil && s.UID != *v {
		return false
	}
	if v := find.RowStatus; v != nil && s.RowStatus != *v {
		return false
	}
	if v := find.StartFrom; v != nil && s.StartTs < *v {
		return false
	}
	if v := find.StartTo; v != nil && s.StartTs > *v {
		return false
	}
	return true
}

func clone(s *store.Schedule) *store.Schedule {
	c := *s
	c.Participants = slices.Clone(s.Participants)
	if c.Participants == nil {
		c.Participants = []string{}
	}
	return &c
}
