package scheduling

import (
	"context"
	"sync"
	"time"

	"github.com/medtrack/biomed-maintenance/internal/models"
)

// SeenStore remembers which (schedule, due date) pairs have already produced a
// notification. The key makes re-entrant sweeps idempotent without external
// locking.
type SeenStore interface {
	Seen(ctx context.Context, scheduleID string, dueDate time.Time) (bool, error)
	MarkSeen(ctx context.Context, scheduleID string, dueDate time.Time) error
}

// MemorySeenStore is a process-local SeenStore for tests and single-process
// deployments.
type MemorySeenStore struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// NewMemorySeenStore creates an empty in-memory dedup store.
func NewMemorySeenStore() *MemorySeenStore {
	return &MemorySeenStore{seen: make(map[string]struct{})}
}

func seenKey(scheduleID string, dueDate time.Time) string {
	return scheduleID + "|" + DateOnly(dueDate).Format("2006-01-02")
}

// Seen reports whether the pair was already marked.
func (s *MemorySeenStore) Seen(_ context.Context, scheduleID string, dueDate time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.seen[seenKey(scheduleID, dueDate)]
	return ok, nil
}

// MarkSeen records the pair.
func (s *MemorySeenStore) MarkSeen(_ context.Context, scheduleID string, dueDate time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen[seenKey(scheduleID, dueDate)] = struct{}{}
	return nil
}

// Sweep emits one NotificationRequest per active schedule whose due date is
// upcoming and not yet notified for. Re-running a sweep against the same store
// without new due dates emits nothing.
func Sweep(ctx context.Context, schedules []models.MaintenanceSchedule, today time.Time, lookaheadDays int, store SeenStore) ([]models.NotificationRequest, error) {
	if lookaheadDays <= 0 {
		lookaheadDays = UpcomingWindowDays
	}

	var requests []models.NotificationRequest
	for _, s := range schedules {
		if !s.Active {
			continue
		}
		due := NextDue(s)
		if Classify(s, today) != StatusUpcoming {
			continue
		}
		days := DaysUntil(due, today)
		if days > lookaheadDays {
			continue
		}
		id := s.ID.Hex()
		seen, err := store.Seen(ctx, id, due)
		if err != nil {
			return requests, err
		}
		if seen {
			continue
		}
		if err := store.MarkSeen(ctx, id, due); err != nil {
			return requests, err
		}
		requests = append(requests, models.NotificationRequest{
			RecipientID:  s.CreatedBy,
			ScheduleID:   id,
			EquipmentID:  s.EquipmentID,
			DueDate:      due,
			DaysUntilDue: days,
		})
	}
	return requests, nil
}
