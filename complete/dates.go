package complete

import (
	"strings"
	"time"

	"convoagent/types"
)

const isoDate = "2006-01-02"

// dateFields are the payload keys that hold a single calendar date, in
// resolution order.
var dateFields = []string{
	"schedule_date",
	"follow_up",
	"follow_up_date",
	"start_date",
	"end_date",
}

// resolveDates rewrites relative date phrases in the payload to literal ISO
// dates, once. Later completion passes see only resolved values and never
// re-parse text dates. Every field resolves its own phrase first; a range
// phrase in start_date fills end_date only when end_date is absent or empty,
// so an end phrase the user gave always wins.
func resolveDates(p types.Payload, now time.Time) {
	var rangeEnd string
	for _, field := range dateFields {
		raw := p.String(field)
		if raw == "" || isISODate(raw) {
			continue
		}
		start, end, ok := resolveRange(raw, now)
		if !ok {
			continue
		}
		// Single-date fields take the start of the resolved span.
		p[field] = start.Format(isoDate)
		if field == "start_date" {
			rangeEnd = end.Format(isoDate)
		}
	}
	if rangeEnd != "" && p.String("end_date") == "" {
		p["end_date"] = rangeEnd
	}
}

func isISODate(s string) bool {
	_, err := time.Parse(isoDate, s)
	return err == nil
}

// resolveRange maps a closed set of relative phrases onto [start, end] days.
func resolveRange(phrase string, now time.Time) (time.Time, time.Time, bool) {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch strings.ToLower(strings.TrimSpace(phrase)) {
	case "today":
		return day, day, true
	case "yesterday":
		y := day.AddDate(0, 0, -1)
		return y, y, true
	case "tomorrow":
		t := day.AddDate(0, 0, 1)
		return t, t, true
	case "this week":
		start := startOfWeek(day)
		return start, start.AddDate(0, 0, 6), true
	case "last week":
		start := startOfWeek(day).AddDate(0, 0, -7)
		return start, start.AddDate(0, 0, 6), true
	case "this month":
		start := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
		return start, start.AddDate(0, 1, -1), true
	case "last month":
		start := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location()).AddDate(0, -1, 0)
		return start, start.AddDate(0, 1, -1), true
	}
	return time.Time{}, time.Time{}, false
}

// startOfWeek returns the Monday of the week containing day.
func startOfWeek(day time.Time) time.Time {
	weekday := int(day.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	return day.AddDate(0, 0, -(weekday - 1))
}
