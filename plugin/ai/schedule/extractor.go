package schedule

import (
	"regexp"
	"strconv"
	"strings"
)

// Patterns for field extraction.
var (
	withNamesPattern = regexp.MustCompile(`\b(?i:with)\s+([A-Z][a-z]+(?:\s+(?i:and)\s+[A-Z][a-z]+)*)`)
	nameSplitPattern = regexp.MustCompile(`(?i)\s+and\s+`)
	mentionPattern   = regexp.MustCompile(`@(\w+)`)

	atLocationPattern = regexp.MustCompile(`(?i)\bat\s+([^,.\n]+)`)
	inLocationPattern = regexp.MustCompile(`(?i)\bin\s+([^,.\n]+)`)
	urlPattern        = regexp.MustCompile(`(?i)(https?://[^\s]+)`)
)

// locationMatcher returns a location candidate, or false when it does not apply.
type locationMatcher func(message string) (string, bool)

// locationMatchers are tried in priority order; the first match wins.
var locationMatchers = []locationMatcher{
	keywordLocation(atLocationPattern),
	keywordLocation(inLocationPattern),
	urlLocation,
}

// participantMatchers all run; their results are concatenated in order.
var participantMatchers = []func(message string) []string{
	withNames,
	mentions,
}

type durationMatcher struct {
	pattern    *regexp.Regexp
	multiplier int
}

// durationMatchers are tried in order; the first match wins.
var durationMatchers = []durationMatcher{
	{pattern: regexp.MustCompile(`(?i)(\d+)\s*hours?`), multiplier: 60},
	{pattern: regexp.MustCompile(`(?i)(\d+)\s*mins?`), multiplier: 1},
	{pattern: regexp.MustCompile(`(?i)(\d+)\s*minutes?`), multiplier: 1},
}

// Extractor derives meeting fields from a message and one of its spans.
// Participants, location and duration are read from the whole message, so
// every span of a message shares them.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract derives all fields for span.
func (e *Extractor) Extract(message string, span TemporalSpan) ExtractedFields {
	return ExtractedFields{
		Title:           e.ExtractTitle(message, span),
		Participants:    e.ExtractParticipants(message),
		Location:        e.ExtractLocation(message),
		DurationMinutes: e.ExtractDuration(message),
	}
}

// ExtractTitle uses the text surrounding the span: the text before it if any,
// else the text after it, else the span text itself. Only the first line is
// kept, truncated to MaxTitleLength characters.
func (e *Extractor) ExtractTitle(message string, span TemporalSpan) string {
	start, end := clampRange(span.Range, len(message))

	if before := strings.TrimSpace(message[:start]); before != "" {
		return titleLine(before)
	}
	if after := strings.TrimSpace(message[end:]); after != "" {
		return titleLine(after)
	}
	return span.OriginalText
}

// ExtractParticipants returns names introduced by "with X and Y" followed by
// @mentions. Duplicates are kept.
func (e *Extractor) ExtractParticipants(message string) []string {
	participants := []string{}
	for _, match := range participantMatchers {
		participants = append(participants, match(message)...)
	}
	return participants
}

// ExtractLocation returns the first location found, or "".
func (e *Extractor) ExtractLocation(message string) string {
	for _, match := range locationMatchers {
		if loc, ok := match(message); ok {
			return loc
		}
	}
	return ""
}

// ExtractDuration returns the meeting length in minutes, DefaultDurationMinutes
// when no cue is present.
func (e *Extractor) ExtractDuration(message string) int {
	for _, d := range durationMatchers {
		m := d.pattern.FindStringSubmatch(message)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		return n * d.multiplier
	}
	return DefaultDurationMinutes
}

func withNames(message string) []string {
	var names []string
	for _, m := range withNamesPattern.FindAllStringSubmatch(message, -1) {
		names = append(names, nameSplitPattern.Split(m[1], -1)...)
	}
	return names
}

func mentions(message string) []string {
	var handles []string
	for _, m := range mentionPattern.FindAllStringSubmatch(message, -1) {
		handles = append(handles, m[1])
	}
	return handles
}

func keywordLocation(pattern *regexp.Regexp) locationMatcher {
	return func(message string) (string, bool) {
		m := pattern.FindStringSubmatch(message)
		if m == nil {
			return "", false
		}
		return strings.TrimSpace(m[1]), true
	}
}

func urlLocation(message string) (string, bool) {
	m := urlPattern.FindStringSubmatch(message)
	if m == nil {
		return "", false
	}
	return m[1], true
}

func titleLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	if runes := []rune(line); len(runes) > MaxTitleLength {
		return string(runes[:MaxTitleLength])
	}
	return line
}

func clampRange(r CharRange, n int) (int, int) {
	start := min(max(r.Start, 0), n)
	end := min(max(r.End, start), n)
	return start, end
}
