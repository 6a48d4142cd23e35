package scheduling

import (
	"time"

	"github.com/medtrack/biomed-maintenance/internal/models"
)

// Status is the day-level classification of a schedule.
type Status string

const (
	StatusOverdue   Status = "overdue"
	StatusUpcoming  Status = "upcoming"
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
)

// UpcomingWindowDays is the inclusive lookahead window for the "upcoming"
// classification. It drives both UI coloring and notification firing, so the
// boundary must not drift.
const UpcomingWindowDays = 7

// DateOnly truncates a timestamp to midnight UTC. All due-date arithmetic is
// day-granular.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NextDue returns the schedule's effective due date: lastPerformed plus the
// recurrence interval when a performance is on record, otherwise the stored
// next-due value (operator-entered for first-time schedules).
func NextDue(s models.MaintenanceSchedule) time.Time {
	if s.LastPerformed != nil {
		return DateOnly(s.LastPerformed.AddDate(0, 0, s.IntervalDays))
	}
	return DateOnly(s.NextDue)
}

// ClassifyDue classifies a due date relative to an injected "today". Same-day
// is never overdue; the upcoming window is [today, today+7d] inclusive.
func ClassifyDue(nextDue, today time.Time) Status {
	due := DateOnly(nextDue)
	now := DateOnly(today)
	switch {
	case due.Before(now):
		return StatusOverdue
	case !due.After(now.AddDate(0, 0, UpcomingWindowDays)):
		return StatusUpcoming
	default:
		return StatusScheduled
	}
}

// Classify returns the day-level status of a schedule. A schedule whose latest
// execution completed reports StatusCompleted while its due date has not yet
// rolled forward past today; once the due date advances into the future the
// ordinary date classification takes over.
func Classify(s models.MaintenanceSchedule, today time.Time) Status {
	due := NextDue(s)
	if s.LastResult == models.ExecutionCompleted && !due.After(DateOnly(today)) {
		return StatusCompleted
	}
	return ClassifyDue(due, today)
}

// DaysUntil returns the whole days from today until the due date. Negative for
// overdue schedules.
func DaysUntil(nextDue, today time.Time) int {
	return int(DateOnly(nextDue).Sub(DateOnly(today)).Hours() / 24)
}
