// Package temporal resolves natural-language time references ("yesterday",
// "last week", "December 15") into absolute time ranges.
//
// Parse is pure: the reference clock is passed in, nothing is read from the
// environment, so every phrase is unit-testable against a fixed instant.
package temporal

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/kavro/mnemo/internal/model"
)

var weekdayRe = regexp.MustCompile(`\b(monday|tuesday|wednesday|thursday|saturday|sunday|friday|mon|tues|tue|wed|thurs|thur|thu|fri|sat|sun)\b`)

var weekdays = map[string]time.Weekday{
	"monday": time.Monday, "mon": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday, "tues": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday, "thur": time.Thursday, "thurs": time.Thursday,
	"friday": time.Friday, "fri": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday,
	"sunday": time.Sunday, "sun": time.Sunday,
}

const monthAlt = `january|february|march|april|may|june|july|august|september|october|november|december`

var (
	lastNDaysRe = regexp.MustCompile(`\b(?:last|past)\s+(\d{1,3})\s+days?\b`)
	monthDayRe  = regexp.MustCompile(`\b(` + monthAlt + `)\s+(\d{1,2})(?:st|nd|rd|th)?\b`)
	monthRe     = regexp.MustCompile(`\b(` + monthAlt + `)\b`)
	ordinalRe   = regexp.MustCompile(`\b(\d{1,2})(?:st|nd|rd|th)\b`)
)

var (
	todayRe     = regexp.MustCompile(`\btoday\b`)
	morningRe   = regexp.MustCompile(`\bmorning\b`)
	afternoonRe = regexp.MustCompile(`\bafternoon\b`)
	eveningRe   = regexp.MustCompile(`\bevening\b`)
)

var months = map[string]time.Month{
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June,
	"july": time.July, "august": time.August, "september": time.September,
	"october": time.October, "november": time.November, "december": time.December,
}

// Parse scans query for a time reference and returns the matching absolute
// range, or nil when the query carries no temporal signal. Ranges are
// half-open [Start, End). First match wins; detection order runs from the
// most specific relative phrases down to bare day-part words.
func Parse(query string, now time.Time) *model.TemporalRange {
	q := strings.ToLower(query)

	// Day-part sub-ranges of the current day.
	switch {
	case strings.Contains(q, "this morning"):
		return dayPart(now, 5, 12, "this morning")
	case strings.Contains(q, "this afternoon"):
		return dayPart(now, 12, 18, "this afternoon")
	case strings.Contains(q, "this evening"):
		return dayPart(now, 18, 24, "this evening")
	case strings.Contains(q, "tonight"):
		return dayPart(now, 18, 24, "tonight")
	case todayRe.MatchString(q):
		return dayRange(now, "today")
	}

	if strings.Contains(q, "yesterday") {
		return dayRange(now.AddDate(0, 0, -1), "yesterday")
	}

	if strings.Contains(q, "last week") {
		ws := weekStart(now)
		return &model.TemporalRange{Start: ws.AddDate(0, 0, -7), End: ws, Label: "last week"}
	}
	if strings.Contains(q, "this week") {
		ws := weekStart(now)
		return &model.TemporalRange{Start: ws, End: ws.AddDate(0, 0, 7), Label: "this week"}
	}

	if strings.Contains(q, "last month") {
		ms := monthStart(now)
		return &model.TemporalRange{Start: ms.AddDate(0, -1, 0), End: ms, Label: "last month"}
	}
	if strings.Contains(q, "this month") {
		ms := monthStart(now)
		return &model.TemporalRange{Start: ms, End: ms.AddDate(0, 1, 0), Label: "this month"}
	}

	if m := weekdayRe.FindStringSubmatch(q); m != nil {
		wd := weekdays[m[1]]
		back := int(now.Weekday()) - int(wd)
		if back <= 0 {
			// "Monday" asked on a Monday still means the previous one.
			back += 7
		}
		target := dayStart(now).AddDate(0, 0, -back)
		// "last Monday" skips this week's occurrence when it has
		// already passed; a bare weekday keeps the most recent one.
		if strings.Contains(q, "last") && !target.Before(weekStart(now)) {
			target = target.AddDate(0, 0, -7)
		}
		return &model.TemporalRange{
			Start: target,
			End:   target.AddDate(0, 0, 1),
			Label: target.Weekday().String(),
		}
	}

	if m := lastNDaysRe.FindStringSubmatch(q); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil || n <= 0 {
			return nil
		}
		return &model.TemporalRange{
			Start: now.AddDate(0, 0, -n),
			End:   now,
			Label: fmt.Sprintf("last %d days", n),
		}
	}

	// Month + day must win over the bare month name.
	if m := monthDayRe.FindStringSubmatch(q); m != nil {
		mon := months[m[1]]
		day, err := strconv.Atoi(m[2])
		if err == nil && day >= 1 && day <= 31 {
			target := time.Date(now.Year(), mon, day, 0, 0, 0, 0, now.Location())
			if target.After(now) {
				target = target.AddDate(-1, 0, 0)
			}
			return &model.TemporalRange{
				Start: target,
				End:   target.AddDate(0, 0, 1),
				Label: fmt.Sprintf("%s %d", capitalize(m[1]), day),
			}
		}
	}

	if m := monthRe.FindStringSubmatch(q); m != nil {
		mon := months[m[1]]
		start := time.Date(now.Year(), mon, 1, 0, 0, 0, 0, now.Location())
		if start.After(now) {
			start = start.AddDate(-1, 0, 0)
		}
		return &model.TemporalRange{
			Start: start,
			End:   start.AddDate(0, 1, 0),
			Label: capitalize(m[1]),
		}
	}

	if m := ordinalRe.FindStringSubmatch(q); m != nil {
		day, err := strconv.Atoi(m[1])
		if err == nil && day >= 1 && day <= 31 {
			target := time.Date(now.Year(), now.Month(), day, 0, 0, 0, 0, now.Location())
			if target.After(now) {
				target = target.AddDate(0, -1, 0)
			}
			return &model.TemporalRange{
				Start: target,
				End:   target.AddDate(0, 0, 1),
				Label: fmt.Sprintf("the %s", m[0]),
			}
		}
	}

	// Bare day-part words, applied to the current day.
	switch {
	case morningRe.MatchString(q):
		return dayPart(now, 5, 12, "this morning")
	case afternoonRe.MatchString(q):
		return dayPart(now, 12, 18, "this afternoon")
	case eveningRe.MatchString(q):
		return dayPart(now, 18, 24, "this evening")
	}

	return nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func dayRange(t time.Time, label string) *model.TemporalRange {
	s := dayStart(t)
	return &model.TemporalRange{Start: s, End: s.AddDate(0, 0, 1), Label: label}
}

func dayPart(t time.Time, fromHour, toHour int, label string) *model.TemporalRange {
	s := dayStart(t)
	return &model.TemporalRange{
		Start: s.Add(time.Duration(fromHour) * time.Hour),
		End:   s.Add(time.Duration(toHour) * time.Hour),
		Label: label,
	}
}

// weekStart returns the Monday 00:00 that begins t's ISO week.
func weekStart(t time.Time) time.Time {
	s := dayStart(t)
	offset := (int(s.Weekday()) + 6) % 7
	return s.AddDate(0, 0, -offset)
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
