// Package recurrence holds the pure scheduling math: parsing weekly
// recurrence patterns, computing next due dates from an anchor, and
// classifying records into overdue/upcoming windows. Nothing here touches
// storage or the wall clock; callers pass the reference date.
package recurrence

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"upkeep/internal/models"
)

const daysPerWeek = 7

// ParsePattern parses a stored recurrence expression of the form
// "FREQ=WEEKLY;INTERVAL=n" and returns the interval in whole weeks. Only
// weekly frequencies exist in this system; anything else is
// ErrRecurrencePattern.
func ParsePattern(pattern string) (int, error) {
	freq := ""
	interval := 0
	sawInterval := false

	for _, part := range strings.Split(pattern, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, found := strings.Cut(part, "=")
		if !found {
			return 0, fmt.Errorf("%w: malformed segment %q", models.ErrRecurrencePattern, part)
		}
		switch strings.ToUpper(strings.TrimSpace(key)) {
		case "FREQ":
			freq = strings.ToUpper(strings.TrimSpace(value))
		case "INTERVAL":
			n, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil {
				return 0, fmt.Errorf("%w: interval %q", models.ErrRecurrencePattern, value)
			}
			interval = n
			sawInterval = true
		}
	}

	if freq != "WEEKLY" {
		return 0, fmt.Errorf("%w: unsupported frequency %q", models.ErrRecurrencePattern, freq)
	}
	if !sawInterval || interval <= 0 {
		return 0, fmt.Errorf("%w: interval must be a positive number of weeks", models.ErrRecurrencePattern)
	}
	return interval, nil
}

// PatternFor renders the canonical stored form for an interval.
func PatternFor(intervalWeeks int) string {
	return fmt.Sprintf("FREQ=WEEKLY;INTERVAL=%d", intervalWeeks)
}

// NextDue returns the smallest occurrence in
// {anchor + k*intervalWeeks*7 days : k >= 0} strictly after reference.
// Pure: identical inputs always yield the identical date.
func NextDue(anchor time.Time, intervalWeeks int, reference time.Time) (time.Time, error) {
	if intervalWeeks <= 0 {
		return time.Time{}, fmt.Errorf("%w: interval %d weeks", models.ErrRecurrencePattern, intervalWeeks)
	}

	anchor = DateOnly(anchor)
	reference = DateOnly(reference)

	if reference.Before(anchor) {
		return anchor, nil
	}

	periodDays := intervalWeeks * daysPerWeek
	elapsed := daysBetween(anchor, reference)
	k := elapsed/periodDays + 1
	return anchor.AddDate(0, 0, k*periodDays), nil
}

// NextDueOrAnchor is the compatibility fallback: on a bad interval it returns
// the anchor unchanged instead of failing. Callers that can propagate errors
// should use NextDue directly.
func NextDueOrAnchor(anchor time.Time, intervalWeeks int, reference time.Time) time.Time {
	due, err := NextDue(anchor, intervalWeeks, reference)
	if err != nil {
		return DateOnly(anchor)
	}
	return due
}

// DateOnly truncates to a calendar date at midnight UTC. All schedule math
// runs on dates, never on clock times.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from) / (24 * time.Hour))
}
