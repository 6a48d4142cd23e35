package notify

import (
	"context"
	"sync"

	"github.com/medtrack/biomed-maintenance/internal/models"
)

// Sink delivers notification requests. Delivery and read/unread tracking are
// the sink's responsibility, not the sweep's.
type Sink interface {
	Publish(ctx context.Context, request models.NotificationRequest) error
	Close()
}

// MemorySink records published requests; used in tests and dry runs.
type MemorySink struct {
	mu        sync.Mutex
	Published []models.NotificationRequest
}

// Publish appends the request to the in-memory log.
func (s *MemorySink) Publish(_ context.Context, request models.NotificationRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Published = append(s.Published, request)
	return nil
}

// Close is a no-op.
func (s *MemorySink) Close() {}
