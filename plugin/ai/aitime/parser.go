package aitime

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

const monthNames = `january|february|march|april|may|june|july|august|september|october|november|december|` +
	`jan|feb|mar|apr|jun|jul|aug|sept|sep|oct|nov|dec`

// Patterns for expression detection.
var (
	casualPattern   = regexp.MustCompile(`(?i)\b(now|today|tonight|tomorrow|tmr|yesterday)\b`)
	weekdayPattern  = regexp.MustCompile(`(?i)\b(?:on\s+)?(?:(this|next|last)\s+)?(monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`)
	monthDayPattern = regexp.MustCompile(`(?i)\b(?:on\s+)?(` + monthNames + `)\.?\s+(\d{1,2})(?:st|nd|rd|th)?\b(?:,?\s+(\d{4})\b)?`)
	dayMonthPattern = regexp.MustCompile(`(?i)\b(?:on\s+)?(?:the\s+)?(\d{1,2})(?:st|nd|rd|th)?\s+(?:of\s+)?(` + monthNames + `)\b(?:,?\s+(\d{4})\b)?`)
	isoDatePattern  = regexp.MustCompile(`\b(\d{4})-(\d{1,2})-(\d{1,2})\b`)
	slashPattern    = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})(?:/(\d{4}|\d{2}))?\b`)

	meridiemPattern = regexp.MustCompile(`(?i)\b(?:at\s+)?(\d{1,2})(?::([0-5]\d))?\s*(a\.m\.|p\.m\.|am\b|pm\b)`)
	clock24Pattern  = regexp.MustCompile(`(?i)\b(?:at\s+)?([01]?\d|2[0-3]):([0-5]\d)\b`)
	noonPattern     = regexp.MustCompile(`(?i)\b(?:at\s+)?(noon|midnight)\b`)
	periodPattern   = regexp.MustCompile(`(?i)\b(?:(?:in\s+the|this)\s+)?(morning|afternoon|evening)\b`)
	rangePattern    = regexp.MustCompile(`(?i)\b(?:(?:from|at)\s+)?(\d{1,2})(?::([0-5]\d))?\s*(am|pm)?\s*(?:-|–|to|until|till)\s*(\d{1,2})(?::([0-5]\d))?\s*(am\b|pm\b)`)

	relativePattern = regexp.MustCompile(`(?i)\b(in|within|for)\s+(\d+)\s+(minutes?|mins?|hours?|hrs?|days?|weeks?)\b`)

	// connectorPattern matches the text allowed between a date token and a
	// time token that belong to the same expression.
	connectorPattern = regexp.MustCompile(`(?i)^[\s,]*(?:(?:at|on)\s*)?$`)
)

// monthNumbers maps lower-cased month names and abbreviations to month numbers.
var monthNumbers = map[string]int{
	"january": 1, "jan": 1,
	"february": 2, "feb": 2,
	"march": 3, "mar": 3,
	"april": 4, "apr": 4,
	"may":  5,
	"june": 6, "jun": 6,
	"july": 7, "jul": 7,
	"august": 8, "aug": 8,
	"september": 9, "sept": 9, "sep": 9,
	"october": 10, "oct": 10,
	"november": 11, "nov": 11,
	"december": 12, "dec": 12,
}

var weekdayNumbers = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// periodHours maps day periods to their implied hour.
var periodHours = map[string]int{
	"morning":   6,
	"afternoon": 15,
	"evening":   20,
}

type tokenKind int

const (
	dateToken tokenKind = iota
	timeToken
	// standaloneToken never merges with neighbours ("in 2 hours").
	standaloneToken
)

// builder accumulates the components of one expression while its tokens are applied.
type builder struct {
	ref   time.Time
	start Component
	// endClock is set by range tokens; the end date follows the start date.
	endClock *[2]int
}

type token struct {
	start int
	end   int
	kind  tokenKind
	apply func(b *builder)
}

// rule turns one regexp match into a token; ok is false when the match is not
// a valid date or time (e.g. "13pm", "2/31").
type rule struct {
	pattern *regexp.Regexp
	kind    tokenKind
	build   func(m []string, ref time.Time) (apply func(b *builder), ok bool)
}

var rules = []rule{
	{pattern: casualPattern, kind: dateToken, build: buildCasual},
	{pattern: weekdayPattern, kind: dateToken, build: buildWeekday},
	{pattern: monthDayPattern, kind: dateToken, build: func(m []string, ref time.Time) (func(*builder), bool) {
		return buildCalendarDate(m[3], m[1], m[2], ref)
	}},
	{pattern: dayMonthPattern, kind: dateToken, build: func(m []string, ref time.Time) (func(*builder), bool) {
		return buildCalendarDate(m[3], m[2], m[1], ref)
	}},
	{pattern: isoDatePattern, kind: dateToken, build: buildISODate},
	{pattern: slashPattern, kind: dateToken, build: buildSlashDate},
	{pattern: meridiemPattern, kind: timeToken, build: buildMeridiemClock},
	{pattern: clock24Pattern, kind: timeToken, build: buildClock24},
	{pattern: noonPattern, kind: timeToken, build: buildNoon},
	{pattern: periodPattern, kind: timeToken, build: buildPeriod},
	{pattern: rangePattern, kind: timeToken, build: buildRange},
	{pattern: relativePattern, kind: standaloneToken, build: buildRelative},
}

// Parser is a rule-based English temporal expression detector.
type Parser struct {
	timezone *time.Location
}

// NewParser creates a parser that resolves instants in the given timezone.
func NewParser(timezone *time.Location) *Parser {
	if timezone == nil {
		timezone = time.Local
	}
	return &Parser{timezone: timezone}
}

// Detect implements Detector.
func (p *Parser) Detect(text string, reference time.Time) []Candidate {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	ref := reference.In(p.timezone)

	tokens := p.scan(text, ref)
	if len(tokens) == 0 {
		return nil
	}

	candidates := make([]Candidate, 0, len(tokens))
	for _, group := range groupTokens(text, tokens) {
		candidates = append(candidates, resolve(text, group, ref))
	}
	return candidates
}

// scan runs every rule and keeps non-overlapping tokens, preferring the
// earliest and then the longest match.
func (p *Parser) scan(text string, ref time.Time) []token {
	var all []token
	for _, r := range rules {
		for _, idx := range r.pattern.FindAllStringSubmatchIndex(text, -1) {
			m := submatches(text, idx)
			apply, ok := r.build(m, ref)
			if !ok {
				continue
			}
			all = append(all, token{start: idx[0], end: idx[1], kind: r.kind, apply: apply})
		}
	}

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].start != all[j].start {
			return all[i].start < all[j].start
		}
		return all[i].end-all[i].start > all[j].end-all[j].start
	})

	kept := all[:0]
	lastEnd := -1
	for _, t := range all {
		if t.start < lastEnd {
			continue
		}
		kept = append(kept, t)
		lastEnd = t.end
	}
	return kept
}

// groupTokens merges adjacent date and time tokens into expressions.
func groupTokens(text string, tokens []token) [][]token {
	var groups [][]token
	for _, t := range tokens {
		if n := len(groups); n > 0 && canJoin(text, groups[n-1], t) {
			groups[n-1] = append(groups[n-1], t)
			continue
		}
		groups = append(groups, []token{t})
	}
	return groups
}

func canJoin(text string, group []token, next token) bool {
	if next.kind == standaloneToken {
		return false
	}
	for _, t := range group {
		if t.kind == standaloneToken || t.kind == next.kind {
			return false
		}
	}
	last := group[len(group)-1]
	return connectorPattern.MatchString(text[last.end:next.start])
}

func resolve(text string, group []token, ref time.Time) Candidate {
	b := &builder{ref: ref, start: newComponent(ref)}

	// Dates first so that time tokens and ranges see the final day.
	ordered := make([]token, len(group))
	copy(ordered, group)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].kind < ordered[j].kind })
	for _, t := range ordered {
		t.apply(b)
	}

	first, last := group[0], group[len(group)-1]
	c := Candidate{
		Text:  text[first.start:last.end],
		Index: first.start,
		Start: b.start,
	}

	if b.endClock != nil {
		end := b.start
		end.known &^= 1<<Hour | 1<<Minute | 1<<Meridiem
		end.assignClock(b.endClock[0], b.endClock[1])
		if !end.Date().After(b.start.Date()) {
			end.setDate(end.Date().AddDate(0, 0, 1))
		}
		c.End = &end
	}
	return c
}

func submatches(text string, idx []int) []string {
	m := make([]string, len(idx)/2)
	for i := range m {
		if idx[2*i] >= 0 {
			m[i] = text[idx[2*i]:idx[2*i+1]]
		}
	}
	return m
}

func buildCasual(m []string, ref time.Time) (func(*builder), bool) {
	switch strings.ToLower(m[1]) {
	case "now":
		return func(b *builder) {
			b.start.assignDate(b.ref)
			b.start.assignClock(b.ref.Hour(), b.ref.Minute())
		}, true
	case "today":
		return func(b *builder) { b.start.assignDate(b.ref) }, true
	case "tonight":
		return func(b *builder) {
			b.start.assignDate(b.ref)
			b.start.imply(Hour, 22)
		}, true
	case "tomorrow", "tmr":
		return func(b *builder) { b.start.assignDate(b.ref.AddDate(0, 0, 1)) }, true
	case "yesterday":
		return func(b *builder) { b.start.assignDate(b.ref.AddDate(0, 0, -1)) }, true
	}
	return nil, false
}

// buildWeekday resolves "Friday", "this Friday", "next Friday" and "last Friday".
// Bare and "this" mean the coming occurrence (today included); "next" means
// the coming occurrence strictly after today; "last" the most recent one
// strictly before today.
func buildWeekday(m []string, ref time.Time) (func(*builder), bool) {
	target, ok := weekdayNumbers[strings.ToLower(m[2])]
	if !ok {
		return nil, false
	}
	current := ref.Weekday()
	var diff int
	switch strings.ToLower(m[1]) {
	case "next":
		diff = (int(target) - int(current) + 7) % 7
		if diff == 0 {
			diff = 7
		}
	case "last":
		diff = -((int(current) - int(target) + 7) % 7)
		if diff == 0 {
			diff = -7
		}
	default:
		diff = (int(target) - int(current) + 7) % 7
	}
	return func(b *builder) {
		b.start.implyDate(b.ref.AddDate(0, 0, diff))
		b.start.assign(Weekday, int(target))
	}, true
}

func buildCalendarDate(yearStr, monthStr, dayStr string, ref time.Time) (func(*builder), bool) {
	month, ok := monthNumbers[strings.ToLower(monthStr)]
	if !ok {
		return nil, false
	}
	day, err := strconv.Atoi(dayStr)
	if err != nil {
		return nil, false
	}
	return calendarDate(yearStr, month, day, ref)
}

func buildISODate(m []string, ref time.Time) (func(*builder), bool) {
	month, err1 := strconv.Atoi(m[2])
	day, err2 := strconv.Atoi(m[3])
	if err1 != nil || err2 != nil {
		return nil, false
	}
	return calendarDate(m[1], month, day, ref)
}

// buildSlashDate reads month/day[/year].
func buildSlashDate(m []string, ref time.Time) (func(*builder), bool) {
	month, err1 := strconv.Atoi(m[1])
	day, err2 := strconv.Atoi(m[2])
	if err1 != nil || err2 != nil {
		return nil, false
	}
	yearStr := m[3]
	if len(yearStr) == 2 {
		yearStr = "20" + yearStr
	}
	return calendarDate(yearStr, month, day, ref)
}

// calendarDate validates a month/day pair. Without a year the closest
// upcoming occurrence is implied.
func calendarDate(yearStr string, month, day int, ref time.Time) (func(*builder), bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return nil, false
	}

	year := ref.Year()
	yearKnown := yearStr != ""
	if yearKnown {
		y, err := strconv.Atoi(yearStr)
		if err != nil {
			return nil, false
		}
		year = y
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, ref.Location())
	if t.Month() != time.Month(month) || t.Day() != day {
		return nil, false
	}
	if !yearKnown {
		today := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, ref.Location())
		if t.Before(today) {
			year++
		}
	}

	return func(b *builder) {
		b.start.assign(Month, month)
		b.start.assign(Day, day)
		if yearKnown {
			b.start.assign(Year, year)
		} else {
			b.start.imply(Year, year)
		}
	}, true
}

func buildMeridiemClock(m []string, ref time.Time) (func(*builder), bool) {
	hour, err := strconv.Atoi(m[1])
	if err != nil || hour < 1 || hour > 12 {
		return nil, false
	}
	minute := 0
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
	}
	hour = to24(hour, strings.HasPrefix(strings.ToLower(m[3]), "p"))
	return func(b *builder) {
		b.start.assignClock(hour, minute)
		b.start.assign(Meridiem, hour/12)
	}, true
}

func buildClock24(m []string, ref time.Time) (func(*builder), bool) {
	hour, err1 := strconv.Atoi(m[1])
	minute, err2 := strconv.Atoi(m[2])
	if err1 != nil || err2 != nil {
		return nil, false
	}
	return func(b *builder) {
		b.start.assignClock(hour, minute)
		if hour > 12 {
			b.start.assign(Meridiem, 1)
		}
	}, true
}

func buildNoon(m []string, ref time.Time) (func(*builder), bool) {
	hour := 12
	if strings.ToLower(m[1]) == "midnight" {
		hour = 0
	}
	return func(b *builder) {
		b.start.assignClock(hour, 0)
		b.start.assign(Meridiem, hour/12)
	}, true
}

// buildPeriod handles "morning", "in the afternoon", "this evening". The hour
// is only implied.
func buildPeriod(m []string, ref time.Time) (func(*builder), bool) {
	hour, ok := periodHours[strings.ToLower(m[1])]
	if !ok {
		return nil, false
	}
	return func(b *builder) {
		b.start.imply(Hour, hour)
		b.start.imply(Minute, 0)
	}, true
}

// buildRange handles "3-4pm", "from 2pm to 3:30pm", "11 to 1pm". A start
// without a meridiem borrows the end's, unless that would put the start after
// the end.
func buildRange(m []string, ref time.Time) (func(*builder), bool) {
	startHour, err1 := strconv.Atoi(m[1])
	endHour, err2 := strconv.Atoi(m[4])
	if err1 != nil || err2 != nil || startHour < 1 || startHour > 12 || endHour < 1 || endHour > 12 {
		return nil, false
	}
	startMinute, endMinute := 0, 0
	if m[2] != "" {
		startMinute, _ = strconv.Atoi(m[2])
	}
	if m[5] != "" {
		endMinute, _ = strconv.Atoi(m[5])
	}

	endPM := strings.EqualFold(m[6], "pm")
	endHour = to24(endHour, endPM)

	startMeridiemKnown := m[3] != ""
	var start24 int
	if startMeridiemKnown {
		start24 = to24(startHour, strings.EqualFold(m[3], "pm"))
	} else {
		start24 = to24(startHour, endPM)
		if start24*60+startMinute > endHour*60+endMinute {
			start24 = to24(startHour, false)
		}
	}

	return func(b *builder) {
		b.start.assignClock(start24, startMinute)
		if startMeridiemKnown {
			b.start.assign(Meridiem, start24/12)
		}
		b.endClock = &[2]int{endHour, endMinute}
	}, true
}

// buildRelative handles "in 2 hours", "within 3 days", "for 30 minutes".
func buildRelative(m []string, ref time.Time) (func(*builder), bool) {
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return nil, false
	}
	unit := strings.ToLower(m[3])
	switch {
	case strings.HasPrefix(unit, "min"):
		return relativeClock(time.Duration(n) * time.Minute), true
	case strings.HasPrefix(unit, "h"):
		return relativeClock(time.Duration(n) * time.Hour), true
	case strings.HasPrefix(unit, "day"):
		return relativeDate(n), true
	case strings.HasPrefix(unit, "week"):
		return relativeDate(7 * n), true
	}
	return nil, false
}

func relativeClock(d time.Duration) func(*builder) {
	return func(b *builder) {
		t := b.ref.Add(d)
		b.start.assignDate(t)
		b.start.assignClock(t.Hour(), t.Minute())
	}
}

func relativeDate(days int) func(*builder) {
	return func(b *builder) {
		t := b.ref.AddDate(0, 0, days)
		b.start.assignDate(t)
		b.start.imply(Hour, t.Hour())
		b.start.imply(Minute, t.Minute())
	}
}

func to24(hour int, pm bool) int {
	if hour == 12 {
		hour = 0
	}
	if pm {
		hour += 12
	}
	return hour
}

// Ensure Parser implements Detector
var _ Detector = (*Parser)(nil)
