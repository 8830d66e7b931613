package recurrence

import (
	"testing"
	"time"

	"upkeep/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordDue(id int, due time.Time) models.EquipmentRecord {
	r := models.EquipmentRecord{
		ClientID:        1,
		SiteID:          1,
		EquipmentTypeID: 1,
		Name:            "CT Scanner",
		AnchorDate:      date(2024, 1, 1),
		IntervalWeeks:   52,
		Active:          true,
	}
	r.ID = id
	r.DueDate = &due
	return r
}

func ids(records []models.EquipmentRecord) []int {
	out := make([]int, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}

func TestOverdueBoundaries(t *testing.T) {
	today := date(2024, 6, 15)

	yesterday := recordDue(1, date(2024, 6, 14))
	dueToday := recordDue(2, date(2024, 6, 15))
	tomorrow := recordDue(3, date(2024, 6, 16))

	inactive := recordDue(4, date(2024, 1, 1))
	inactive.Active = false

	noDue := recordDue(5, time.Time{})
	noDue.DueDate = nil

	got := Overdue([]models.EquipmentRecord{yesterday, dueToday, tomorrow, inactive, noDue}, today)
	assert.Equal(t, []int{1}, ids(got))
}

func TestDueThisMonth(t *testing.T) {
	t.Run("calendar month boundaries", func(t *testing.T) {
		today := date(2024, 6, 15)
		records := []models.EquipmentRecord{
			recordDue(1, date(2024, 5, 31)),
			recordDue(2, date(2024, 6, 1)),
			recordDue(3, date(2024, 6, 30)),
			recordDue(4, date(2024, 7, 1)),
		}
		got := DueThisMonth(records, today)
		assert.Equal(t, []int{2, 3}, ids(got))
	})

	t.Run("leap february", func(t *testing.T) {
		today := date(2024, 2, 29)
		records := []models.EquipmentRecord{
			recordDue(1, date(2024, 2, 29)),
			recordDue(2, date(2024, 3, 1)),
		}
		got := DueThisMonth(records, today)
		assert.Equal(t, []int{1}, ids(got))
	})
}

func TestInWindowInclusiveBounds(t *testing.T) {
	window := Window{Start: date(2024, 6, 1), End: date(2024, 6, 15)}
	records := []models.EquipmentRecord{
		recordDue(1, date(2024, 5, 31)),
		recordDue(2, date(2024, 6, 1)),
		recordDue(3, date(2024, 6, 15)),
		recordDue(4, date(2024, 6, 16)),
	}
	got := InWindow(records, window)
	assert.Equal(t, []int{2, 3}, ids(got))
}

func TestUpcomingWindow(t *testing.T) {
	today := date(2024, 6, 10)

	t.Run("weeks shorthand", func(t *testing.T) {
		weeks := 6
		w := UpcomingWindow(today, nil, nil, &weeks)
		assert.Equal(t, today, w.Start)
		assert.Equal(t, date(2024, 7, 22), w.End)
	})

	t.Run("explicit bounds", func(t *testing.T) {
		start := date(2024, 6, 20)
		end := date(2024, 8, 1)
		w := UpcomingWindow(today, &start, &end, nil)
		assert.Equal(t, start, w.Start)
		assert.Equal(t, end, w.End)
	})

	t.Run("past start clamped to today", func(t *testing.T) {
		start := date(2024, 1, 1)
		end := date(2024, 7, 1)
		w := UpcomingWindow(today, &start, &end, nil)
		assert.Equal(t, today, w.Start)
		assert.Equal(t, end, w.End)
	})

	t.Run("default is two weeks", func(t *testing.T) {
		w := UpcomingWindow(today, nil, nil, nil)
		require.Equal(t, today, w.Start)
		assert.Equal(t, today.AddDate(0, 0, 14), w.End)
	})
}
