package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/hrygo/chatmeet/store"
)

func (d *DB) CreateSchedule(ctx context.Context, create *store.Schedule) (*store.Schedule, error) {
	participants, err := marshalParticipants(create.Participants)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal participants")
	}

	fields := []string{"uid", "row_status", "created_ts", "title", "location", "participants", "start_ts", "end_ts"}
	args := []any{create.UID, create.RowStatus, create.CreatedTs, create.Title, create.Location, participants, create.StartTs, create.EndTs}

	stmt := `INSERT INTO schedule (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(args)) + `)
		RETURNING id`
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(&create.ID); err != nil {
		return nil, errors.Wrap(err, "failed to create schedule")
	}

	return create, nil
}

func (d *DB) ListSchedules(ctx context.Context, find *store.FindSchedule) ([]*store.Schedule, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "schedule.id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.UID; v != nil {
		where, args = append(where, "schedule.uid = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.RowStatus; v != nil {
		where, args = append(where, "schedule.row_status = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.StartFrom; v != nil {
		where, args = append(where, "schedule.start_ts >= "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.StartTo; v != nil {
		where, args = append(where, "schedule.start_ts <= "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `
		SELECT
			id, uid, row_status, created_ts,
			title, location, participants,
			start_ts, end_ts
		FROM schedule
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY schedule.start_ts ASC, schedule.id ASC`

	if find.Limit != nil {
		query = fmt.Sprintf("%s LIMIT %d", query, *find.Limit)
		if find.Offset != nil {
			query = fmt.Sprintf("%s OFFSET %d", query, *find.Offset)
		}
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query schedules")
	}
	defer rows.Close()

	list := make([]*store.Schedule, 0)
	for rows.Next() {
		var schedule store.Schedule
		var participants []byte
		if err := rows.Scan(
			&schedule.ID,
			&schedule.UID,
			&schedule.RowStatus,
			&schedule.CreatedTs,
			&schedule.Title,
			&schedule.Location,
			&participants,
			&schedule.StartTs,
			&schedule.EndTs,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan schedule")
		}
		if schedule.Participants, err = unmarshalParticipants(participants); err != nil {
			return nil, errors.Wrapf(err, "failed to unmarshal participants of schedule %s", schedule.UID)
		}
		list = append(list, &schedule)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate schedules")
	}

	return list, nil
}

func (d *DB) DeleteSchedule(ctx context.Context, delete *store.DeleteSchedule) error {
	stmt := `DELETE FROM schedule WHERE uid = ` + placeholder(1)
	result, err := d.db.ExecContext(ctx, stmt, delete.UID)
	if err != nil {
		return errors.Wrap(err, "failed to delete schedule")
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return store.ErrNotFound
	}

	return nil
}
