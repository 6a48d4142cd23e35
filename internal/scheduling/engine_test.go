package scheduling

import (
	"testing"
	"time"

	"github.com/medtrack/biomed-maintenance/internal/models"
	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNextDue(t *testing.T) {
	t.Run("last performed present", func(t *testing.T) {
		performed := date(2024, time.March, 10)
		s := models.MaintenanceSchedule{
			LastPerformed: &performed,
			IntervalDays:  7,
			NextDue:       date(2024, time.June, 1), // stored value is ignored once performed
		}
		assert.Equal(t, date(2024, time.March, 17), NextDue(s))
		// idempotent under repeated calls
		assert.Equal(t, NextDue(s), NextDue(s))
	})

	t.Run("no last performed uses stored next due", func(t *testing.T) {
		s := models.MaintenanceSchedule{
			IntervalDays: 30,
			NextDue:      date(2024, time.June, 1),
		}
		assert.Equal(t, date(2024, time.June, 1), NextDue(s))
	})

	t.Run("time of day is dropped", func(t *testing.T) {
		s := models.MaintenanceSchedule{
			IntervalDays: 30,
			NextDue:      time.Date(2024, time.June, 1, 17, 45, 12, 0, time.UTC),
		}
		assert.Equal(t, date(2024, time.June, 1), NextDue(s))
	})
}

func TestClassifyDue(t *testing.T) {
	today := date(2024, time.May, 15)

	tests := []struct {
		name     string
		nextDue  time.Time
		expected Status
	}{
		{"yesterday is overdue", today.AddDate(0, 0, -1), StatusOverdue},
		{"long past is overdue", today.AddDate(0, 0, -90), StatusOverdue},
		{"same day is not overdue", today, StatusUpcoming},
		{"tomorrow is upcoming", today.AddDate(0, 0, 1), StatusUpcoming},
		{"seventh day is upcoming", today.AddDate(0, 0, 7), StatusUpcoming},
		{"eighth day is scheduled", today.AddDate(0, 0, 8), StatusScheduled},
		{"far future is scheduled", today.AddDate(0, 0, 200), StatusScheduled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyDue(tt.nextDue, today))
		})
	}
}

func TestClassify_CompletedExecution(t *testing.T) {
	today := date(2024, time.May, 15)

	t.Run("completed execution with due date not yet rolled forward", func(t *testing.T) {
		performed := date(2024, time.May, 8)
		s := models.MaintenanceSchedule{
			LastPerformed: &performed,
			IntervalDays:  7,
			LastResult:    models.ExecutionCompleted,
		}
		// due = May 15 = today, execution completed -> completed, not upcoming
		assert.Equal(t, StatusCompleted, Classify(s, today))
	})

	t.Run("completed execution with future due date classifies by date", func(t *testing.T) {
		performed := date(2024, time.May, 14)
		s := models.MaintenanceSchedule{
			LastPerformed: &performed,
			IntervalDays:  30,
			LastResult:    models.ExecutionCompleted,
		}
		assert.Equal(t, StatusScheduled, Classify(s, today))
	})

	t.Run("failed execution never reports completed", func(t *testing.T) {
		performed := date(2024, time.May, 1)
		s := models.MaintenanceSchedule{
			LastPerformed: &performed,
			IntervalDays:  7,
			LastResult:    models.ExecutionFailed,
		}
		// due = May 8 < today
		assert.Equal(t, StatusOverdue, Classify(s, today))
	})
}

func TestClassify_ScenarioMonthlyOverdue(t *testing.T) {
	performed := date(2024, time.January, 1)
	s := models.MaintenanceSchedule{
		LastPerformed: &performed,
		Frequency:     "monthly",
		IntervalDays:  IntervalDays("monthly"),
	}

	assert.Equal(t, date(2024, time.January, 31), NextDue(s))
	assert.Equal(t, StatusOverdue, Classify(s, date(2024, time.February, 5)))
}

func TestDaysUntil(t *testing.T) {
	today := date(2024, time.May, 15)
	assert.Equal(t, 0, DaysUntil(today, today))
	assert.Equal(t, 7, DaysUntil(today.AddDate(0, 0, 7), today))
	assert.Equal(t, -3, DaysUntil(today.AddDate(0, 0, -3), today))
	// injected clocks with a time of day still compare at day granularity
	assert.Equal(t, 1, DaysUntil(today.AddDate(0, 0, 1), time.Date(2024, time.May, 15, 23, 30, 0, 0, time.UTC)))
}
