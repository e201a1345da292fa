package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/hrygo/chatmeet/plugin/ical"
	"github.com/hrygo/chatmeet/server/service/schedule"
	"github.com/hrygo/chatmeet/server/timezone"
)

// defaultEventWindow is the listed range when --end is omitted.
const defaultEventWindow = 30 * 24 * time.Hour

func newEventsCommand() *cobra.Command {
	var (
		start, end string
		asICS      bool
	)
	cmd := &cobra.Command{
		Use:   "events",
		Short: "List stored events",
		Long:  "List events starting between --start and --end (RFC 3339 or YYYY-MM-DD). The range defaults to thirty days from today.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := loadProfile()
			if err != nil {
				return err
			}
			loc := p.Location()
			from, to, err := parseRange(start, end, time.Now(), loc)
			if err != nil {
				return err
			}

			s, err := openStore(cmd.Context(), p)
			if err != nil {
				return err
			}
			defer s.Close()

			events, err := schedule.NewStoreCalendar(s, loc).GetEvents(cmd.Context(), from, to)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asICS {
				_, err := io.WriteString(out, schedule.ExportICal(events, ical.Options{Name: "chatmeet"}))
				return err
			}
			writeEvents(out, events, loc)
			return nil
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "range start (default: today)")
	cmd.Flags().StringVar(&end, "end", "", "range end, inclusive (default: start + 30 days)")
	cmd.Flags().BoolVar(&asICS, "ics", false, "print an iCalendar feed")
	return cmd
}

// parseRange resolves the --start and --end flags against now.
func parseRange(start, end string, now time.Time, loc *time.Location) (time.Time, time.Time, error) {
	from, to := timezone.DefaultRange(now, loc, defaultEventWindow)
	if start != "" {
		t, err := parseFlagTime(start, loc)
		if err != nil {
			return time.Time{}, time.Time{}, errors.Wrap(err, "invalid --start")
		}
		from = t
		to = from.Add(defaultEventWindow)
	}

	if end != "" {
		t, err := parseFlagTime(end, loc)
		if err != nil {
			return time.Time{}, time.Time{}, errors.Wrap(err, "invalid --end")
		}
		to = t
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, errors.New("--end must not be before --start")
	}
	return from, to, nil
}

func parseFlagTime(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.ParseInLocation(time.DateOnly, s, loc)
}

func writeEvents(w io.Writer, events []*schedule.Event, loc *time.Location) {
	if len(events) == 0 {
		fmt.Fprintln(w, "No events")
		return
	}
	for _, e := range events {
		fmt.Fprintf(w, "%s  %s  %s", e.ID, timezone.FormatEventTime(e.Start, e.End, loc), e.Title)
		if e.Location != "" {
			fmt.Fprintf(w, " @ %s", e.Location)
		}
		if len(e.Participants) > 0 {
			fmt.Fprintf(w, " (%s)", strings.Join(e.Participants, ", "))
		}
		fmt.Fprintln(w)
	}
}
