package main

import (
	"bufio"
	"encoding/json"
	"io"
	"log/slog"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/hrygo/chatmeet/server"
	"github.com/hrygo/chatmeet/server/service/schedule"
)

// demoMessages are the sample chat messages run by the demo command.
var demoMessages = []string{
	"Team standup tomorrow at 10am for 30 minutes",
	"Let's meet with John and Sarah next Tuesday at 3pm in Conference Room A",
	"Coffee chat on Friday at 2pm https://meet.google.com/abc-defg-hij",
	"This message has no dates or times",
	"Project review December 15th at 9:30 AM for 2 hours",
}

func newProcessCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "process [message...]",
		Short: "Schedule the meetings found in chat messages",
		Long:  "Schedule the meetings found in chat messages. Each argument is one message; without arguments every non-empty line of stdin is.",
		RunE: func(cmd *cobra.Command, args []string) error {
			messages := args
			if len(messages) == 0 {
				var err error
				if messages, err = readMessages(cmd.InOrStdin()); err != nil {
					return err
				}
			}
			if len(messages) == 0 {
				return errors.New("no messages to process")
			}
			return runMessages(cmd, messages, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print outcomes as JSON")
	return cmd
}

func newDemoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run the sample chat messages through the scheduler",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			printBanner(out, "Chat Meeting Scheduler Demo")
			if err := runMessages(cmd, demoMessages, false); err != nil {
				return err
			}
			_, err := io.WriteString(out, "Demo complete!\n")
			return err
		},
	}
}

// runMessages processes messages in order and prints a report per message.
func runMessages(cmd *cobra.Command, messages []string, asJSON bool) error {
	p, err := loadProfile()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	s, err := openStore(ctx, p)
	if err != nil {
		return err
	}
	defer s.Close()

	logger := newLogger(p, slog.LevelWarn)
	pipeline, _ := server.NewPipeline(p, s, logger, nil)

	out := cmd.OutOrStdout()
	outcomes := make([]*schedule.Outcome, 0, len(messages))
	for _, message := range messages {
		outcome := pipeline.ProcessMessage(ctx, message)
		if asJSON {
			outcomes = append(outcomes, outcome)
			continue
		}
		writeReport(out, message, outcome, p.Location())
	}

	if asJSON {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(outcomes)
	}
	return nil
}

// readMessages returns the non-empty lines of r.
func readMessages(r io.Reader) ([]string, error) {
	var messages []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			messages = append(messages, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read messages")
	}
	return messages, nil
}
