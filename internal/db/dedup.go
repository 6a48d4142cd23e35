package db

import (
	"context"
	"fmt"
	"time"

	"github.com/medtrack/biomed-maintenance/internal/scheduling"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoSeenStore implements scheduling.SeenStore on a sent-notifications
// collection, keyed by (schedule id, due date). Because the key is stable
// across sweeps, overlapping sweeper runs stay idempotent without locking.
type MongoSeenStore struct {
	Collection *mongo.Collection
}

type sentNotification struct {
	ScheduleID string    `bson:"schedule_id"`
	DueDate    string    `bson:"due_date"` // 2006-01-02, day granularity
	SentAt     time.Time `bson:"sent_at"`
}

// Seen reports whether a notification was already recorded for the pair.
func (s *MongoSeenStore) Seen(ctx context.Context, scheduleID string, dueDate time.Time) (bool, error) {
	if s.Collection == nil {
		return false, fmt.Errorf("mongo collection is nil")
	}
	day := scheduling.DateOnly(dueDate).Format("2006-01-02")
	count, err := s.Collection.CountDocuments(ctx, bson.M{"schedule_id": scheduleID, "due_date": day})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// MarkSeen records that a notification was emitted for the pair.
func (s *MongoSeenStore) MarkSeen(ctx context.Context, scheduleID string, dueDate time.Time) error {
	if s.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	_, err := s.Collection.InsertOne(ctx, sentNotification{
		ScheduleID: scheduleID,
		DueDate:    scheduling.DateOnly(dueDate).Format("2006-01-02"),
		SentAt:     time.Now(),
	})
	return err
}
