// Package ical renders scheduled meetings as an iCalendar (RFC 5545) feed.
package ical

import (
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
)

const (
	// DefaultProductID is the PRODID of exported calendars.
	DefaultProductID = "-//hrygo//chatmeet//EN"

	// DefaultAttendeeDomain turns participant names into calendar addresses.
	DefaultAttendeeDomain = "chatmeet.invalid"
)

// Event is one meeting to export.
type Event struct {
	UID          string
	Title        string
	Location     string
	Participants []string
	Start        time.Time
	End          time.Time
	Created      time.Time
}

// Options configures Export.
type Options struct {
	ProductID string
	// Name is written as X-WR-CALNAME when set.
	Name           string
	AttendeeDomain string
	// Now stamps DTSTAMP; time.Now when nil.
	Now func() time.Time
}

// Export serializes events into a VCALENDAR with METHOD:PUBLISH. All times
// are written in UTC.
func Export(events []Event, opts Options) string {
	if opts.ProductID == "" {
		opts.ProductID = DefaultProductID
	}
	if opts.AttendeeDomain == "" {
		opts.AttendeeDomain = DefaultAttendeeDomain
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	stamp := opts.Now().UTC()

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(opts.ProductID)
	if opts.Name != "" {
		cal.SetXWRCalName(opts.Name)
	}

	for _, e := range events {
		vevent := cal.AddEvent(e.UID)
		vevent.SetDtStampTime(stamp)
		if !e.Created.IsZero() {
			vevent.SetCreatedTime(e.Created.UTC())
		}
		vevent.SetStartAt(e.Start.UTC())
		vevent.SetEndAt(e.End.UTC())
		vevent.SetSummary(e.Title)
		if e.Location != "" {
			vevent.SetLocation(e.Location)
		}
		for _, name := range e.Participants {
			vevent.AddAttendee(attendeeAddress(name, opts.AttendeeDomain), ics.WithCN(name))
		}
	}
	return cal.Serialize()
}

// attendeeAddress builds "john@domain" from a participant name or handle.
func attendeeAddress(name, domain string) string {
	local := strings.ToLower(strings.Join(strings.Fields(name), "."))
	return local + "@" + domain
}
