package schedule

import (
	"github.com/hrygo/chatmeet/plugin/ical"
)

// ExportICal renders events as an iCalendar feed.
func ExportICal(events []*Event, opts ical.Options) string {
	items := make([]ical.Event, 0, len(events))
	for _, e := range events {
		items = append(items, ical.Event{
			UID:          e.ID,
			Title:        e.Title,
			Location:     e.Location,
			Participants: e.Participants,
			Start:        e.Start,
			End:          e.End,
			Created:      e.CreatedAt,
		})
	}
	return ical.Export(items, opts)
}
