package recurrence

import (
	"time"

	"upkeep/internal/models"
)

// DefaultUpcomingDays is the window used when a caller supplies neither
// bounds nor a week count.
const DefaultUpcomingDays = 14

// Window is an inclusive date range.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// UpcomingWindow resolves caller input into a concrete window:
// a week count means [today, today+weeks*7d]; explicit bounds are kept but a
// start in the past is clamped to today; no input at all means a two-week
// lookahead.
func UpcomingWindow(today time.Time, start, end *time.Time, weeks *int) Window {
	today = DateOnly(today)

	if weeks != nil {
		return Window{Start: today, End: today.AddDate(0, 0, *weeks*daysPerWeek)}
	}

	if start != nil && end != nil {
		s := DateOnly(*start)
		if s.Before(today) {
			s = today
		}
		return Window{Start: s, End: DateOnly(*end)}
	}

	return Window{Start: today, End: today.AddDate(0, 0, DefaultUpcomingDays)}
}

// Overdue keeps active records whose due date is strictly before today.
func Overdue(records []models.EquipmentRecord, today time.Time) []models.EquipmentRecord {
	today = DateOnly(today)
	return filterDue(records, func(due time.Time) bool {
		return due.Before(today)
	})
}

// DueThisMonth keeps active records due within today's calendar month.
// Boundaries are calendar months, not a 30-day approximation.
func DueThisMonth(records []models.EquipmentRecord, today time.Time) []models.EquipmentRecord {
	start := monthStart(today)
	next := start.AddDate(0, 1, 0)
	return filterDue(records, func(due time.Time) bool {
		return !due.Before(start) && due.Before(next)
	})
}

// InWindow keeps active records with start <= due <= end, both inclusive.
func InWindow(records []models.EquipmentRecord, window Window) []models.EquipmentRecord {
	start := DateOnly(window.Start)
	end := DateOnly(window.End)
	return filterDue(records, func(due time.Time) bool {
		return !due.Before(start) && !due.After(end)
	})
}

func filterDue(records []models.EquipmentRecord, keep func(due time.Time) bool) []models.EquipmentRecord {
	matched := make([]models.EquipmentRecord, 0, len(records))
	for _, record := range records {
		if !record.Active || record.DueDate == nil {
			continue
		}
		if keep(DateOnly(*record.DueDate)) {
			matched = append(matched, record)
		}
	}
	return matched
}

func monthStart(t time.Time) time.Time {
	y, m, _ := t.UTC().Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}
