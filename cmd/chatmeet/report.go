package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/hrygo/chatmeet/server/service/schedule"
)

const ruleWidth = 60

// reportTimeLayout formats span start times in reports.
const reportTimeLayout = "Mon Jan 2 2006 15:04 MST"

func printBanner(w io.Writer, title string) {
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, strings.Repeat("=", ruleWidth))
}

// writeReport prints the console report of one processed message.
func writeReport(w io.Writer, message string, outcome *schedule.Outcome, loc *time.Location) {
	rule := strings.Repeat("-", ruleWidth)

	fmt.Fprintf(w, "\nProcessing message: %s\n", message)
	fmt.Fprintln(w, rule)

	if len(outcome.Results) == 0 {
		fmt.Fprintln(w, "No temporal expressions found - no events created")
		fmt.Fprintln(w)
		return
	}

	fmt.Fprintf(w, "Found %d temporal expression(s)\n", len(outcome.Results))
	for _, r := range outcome.Results {
		fmt.Fprintf(w, "\n  Temporal: %q\n", r.Span.OriginalText)
		fmt.Fprintf(w, "  Start: %s\n", r.Span.Start.In(loc).Format(reportTimeLayout))
		fmt.Fprintf(w, "  Title: %q\n", r.Fields.Title)
		if len(r.Fields.Participants) > 0 {
			fmt.Fprintf(w, "  Participants: %s\n", strings.Join(r.Fields.Participants, ", "))
		}
		if r.Fields.Location != "" {
			fmt.Fprintf(w, "  Location: %s\n", r.Fields.Location)
		}
		fmt.Fprintf(w, "  Duration: %d minutes\n", r.Fields.DurationMinutes)
		if len(r.Warnings) > 0 {
			fmt.Fprintf(w, "  Warnings: %s\n", strings.Join(r.Warnings, ", "))
		}

		switch {
		case r.Success:
			fmt.Fprintf(w, "  Event created: %s\n", r.Event.ID)
		case r.ValidationFailed():
			fmt.Fprintf(w, "  Validation failed: %s\n", strings.Join(r.Errors, ", "))
		default:
			fmt.Fprintf(w, "  Failed to create event [%s]: %s\n", r.Code, strings.Join(r.Errors, ", "))
		}
	}

	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "%s\n\n", capitalize(outcome.Status))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
