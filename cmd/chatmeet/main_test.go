package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	aischedule "github.com/hrygo/chatmeet/plugin/ai/schedule"
	"github.com/hrygo/chatmeet/server/service/schedule"
)

func TestWriteReport(t *testing.T) {
	start := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	outcome := &schedule.Outcome{
		Success: true,
		Status:  "created 1 of 2 event(s)",
		Results: []schedule.SpanResult{
			{
				Span:    aischedule.TemporalSpan{Start: start, OriginalText: "tomorrow at 10am"},
				Fields:  aischedule.ExtractedFields{Title: "Team standup", Participants: []string{"John", "Sarah"}, Location: "Room 1", DurationMinutes: 30},
				Success: true,
				Event:   &schedule.Event{ID: "event_1"},
			},
			{
				Span:   aischedule.TemporalSpan{Start: start, OriginalText: "Friday"},
				Fields: aischedule.ExtractedFields{Title: "Retro", Participants: []string{}, DurationMinutes: 60},
				Errors: []string{aischedule.ErrMsgEndBeforeStart},
				Code:   "VALIDATION_FAILED",
			},
		},
	}

	var buf bytes.Buffer
	writeReport(&buf, "Team standup tomorrow at 10am", outcome, time.UTC)
	report := buf.String()

	assert.Contains(t, report, "Processing message: Team standup tomorrow at 10am")
	assert.Contains(t, report, "Found 2 temporal expression(s)")
	assert.Contains(t, report, `Temporal: "tomorrow at 10am"`)
	assert.Contains(t, report, "Start: Wed Jan 28 2026 10:00 UTC")
	assert.Contains(t, report, "Participants: John, Sarah")
	assert.Contains(t, report, "Location: Room 1")
	assert.Contains(t, report, "Duration: 30 minutes")
	assert.Contains(t, report, "Event created: event_1")
	assert.Contains(t, report, "Validation failed: "+aischedule.ErrMsgEndBeforeStart)
	assert.Contains(t, report, "Created 1 of 2 event(s)")
	assert.Equal(t, 1, strings.Count(report, "Participants:"))
}

func TestWriteReport_NoTemporal(t *testing.T) {
	var buf bytes.Buffer
	writeReport(&buf, "hello", &schedule.Outcome{Success: true, Status: schedule.StatusNoTemporal, Results: []schedule.SpanResult{}}, time.UTC)

	assert.Contains(t, buf.String(), "No temporal expressions found - no events created")
	assert.NotContains(t, buf.String(), "Created")
}

func TestReadMessages(t *testing.T) {
	messages, err := readMessages(strings.NewReader("Sync tomorrow at 10am\n\n   \nRetro on Friday\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Sync tomorrow at 10am", "Retro on Friday"}, messages)
}

func TestParseRange(t *testing.T) {
	now := time.Date(2026, 1, 27, 10, 0, 0, 0, time.UTC)
	today := time.Date(2026, 1, 27, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		start     string
		end       string
		wantStart time.Time
		wantEnd   time.Time
		wantErr   bool
	}{
		{name: "defaults", wantStart: today, wantEnd: today.Add(defaultEventWindow)},
		{name: "date only", start: "2026-02-01", end: "2026-02-03", wantStart: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), wantEnd: time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC)},
		{name: "rfc3339", start: "2026-02-01T09:00:00Z", wantStart: time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC), wantEnd: time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC).Add(defaultEventWindow)},
		{name: "bad start", start: "soon", wantErr: true},
		{name: "bad end", end: "later", wantErr: true},
		{name: "reversed", start: "2026-02-03", end: "2026-02-01", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := parseRange(tt.start, tt.end, now, time.UTC)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.wantStart.Equal(start), "start %s", start)
			assert.True(t, tt.wantEnd.Equal(end), "end %s", end)
		})
	}
}

func TestWriteEvents(t *testing.T) {
	var buf bytes.Buffer
	writeEvents(&buf, nil, time.UTC)
	assert.Equal(t, "No events\n", buf.String())

	buf.Reset()
	start := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	writeEvents(&buf, []*schedule.Event{{
		ID: "event_1",
		MeetingRecord: schedule.MeetingRecord{
			Title:        "Team standup",
			Start:        start,
			End:          start.Add(30 * time.Minute),
			Location:     "Room 1",
			Participants: []string{"John"},
		},
	}}, time.UTC)
	assert.Equal(t, "event_1  2026-01-28 10:00 - 10:30  Team standup @ Room 1 (John)\n", buf.String())
}

func TestDemoCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"demo", "--driver", "memory", "--timezone", "UTC"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())

	report := out.String()
	assert.Contains(t, report, "Chat Meeting Scheduler Demo")
	assert.Equal(t, len(demoMessages), strings.Count(report, "Processing message:"))
	assert.Contains(t, report, "No temporal expressions found")
	assert.Contains(t, report, "Demo complete!")
}
