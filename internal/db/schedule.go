package db

import (
	"context"
	"fmt"
	"time"

	"github.com/medtrack/biomed-maintenance/internal/models"
	"github.com/medtrack/biomed-maintenance/internal/scheduling"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoScheduleCollection implements ScheduleCollection for MongoDB. It owns
// both the schedules collection and the append-only executions collection,
// because recording an execution touches the two together.
type MongoScheduleCollection struct {
	Collection *mongo.Collection
	Executions *mongo.Collection
}

type mongoScheduleCursor struct {
	cursor *mongo.Cursor
}

func (m *mongoScheduleCursor) All(ctx context.Context, out interface{}) error {
	return m.cursor.All(ctx, out)
}

func (m *mongoScheduleCursor) Close(ctx context.Context) error {
	return m.cursor.Close(ctx)
}

// InsertSchedule inserts a maintenance schedule. The recurrence interval is
// always re-derived from the frequency label on the way in.
func (c *MongoScheduleCollection) InsertSchedule(ctx context.Context, schedule models.MaintenanceSchedule) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	schedule.IntervalDays = scheduling.IntervalDays(schedule.Frequency)
	schedule.CreatedAt = time.Now()
	schedule.UpdatedAt = time.Now()
	_, err := c.Collection.InsertOne(ctx, schedule)
	return err
}

// FindSchedules queries schedule records from the collection.
func (c *MongoScheduleCollection) FindSchedules(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (ScheduleCursor, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	cursor, err := c.Collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	return &mongoScheduleCursor{cursor: cursor}, nil
}

// FindScheduleByID finds a schedule by its ID.
func (c *MongoScheduleCollection) FindScheduleByID(ctx context.Context, id string) (*models.MaintenanceSchedule, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule ID: %w", err)
	}
	var schedule models.MaintenanceSchedule
	err = c.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&schedule)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("schedule not found")
		}
		return nil, err
	}
	return &schedule, nil
}

// FindActiveSchedules returns every schedule with the active flag set. Retired
// schedules never reach classification, conflict detection, or sweeps.
func (c *MongoScheduleCollection) FindActiveSchedules(ctx context.Context) ([]models.MaintenanceSchedule, error) {
	cursor, err := c.FindSchedules(ctx, bson.M{"active": true})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var schedules []models.MaintenanceSchedule
	if err := cursor.All(ctx, &schedules); err != nil {
		return nil, err
	}
	return schedules, nil
}

// UpdateSchedule updates a schedule by its ID, re-deriving the interval from
// the frequency label.
func (c *MongoScheduleCollection) UpdateSchedule(ctx context.Context, id string, schedule models.MaintenanceSchedule) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid schedule ID: %w", err)
	}
	schedule.IntervalDays = scheduling.IntervalDays(schedule.Frequency)
	schedule.UpdatedAt = time.Now()
	result, err := c.Collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": schedule})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("schedule not found")
	}
	return nil
}

// RetireSchedule clears the active flag. Schedules are never hard-deleted
// while execution records or work orders reference them.
func (c *MongoScheduleCollection) RetireSchedule(ctx context.Context, id string) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid schedule ID: %w", err)
	}
	result, err := c.Collection.UpdateOne(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{"active": false, "updated_at": time.Now()}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("schedule not found")
	}
	return nil
}

// RecordExecution appends an execution record and advances the owning
// schedule: last performed moves to the execution date and the next due date
// rolls forward by the recurrence interval.
func (c *MongoScheduleCollection) RecordExecution(ctx context.Context, execution models.MaintenanceExecution) error {
	if c.Collection == nil || c.Executions == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	schedule, err := c.FindScheduleByID(ctx, execution.ScheduleID)
	if err != nil {
		return err
	}

	execution.EquipmentID = schedule.EquipmentID
	execution.CreatedAt = time.Now()
	if _, err := c.Executions.InsertOne(ctx, execution); err != nil {
		return err
	}

	performed := scheduling.DateOnly(execution.PerformedAt)
	nextDue := performed.AddDate(0, 0, schedule.IntervalDays)
	_, err = c.Collection.UpdateOne(
		ctx,
		bson.M{"_id": schedule.ID},
		bson.M{"$set": bson.M{
			"last_performed": performed,
			"next_due":       nextDue,
			"last_result":    execution.Result,
			"updated_at":     time.Now(),
		}},
	)
	return err
}

// FindExecutions returns the execution history for a schedule, newest first.
func (c *MongoScheduleCollection) FindExecutions(ctx context.Context, scheduleID string) ([]models.MaintenanceExecution, error) {
	if c.Executions == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	opts := options.Find().SetSort(bson.D{{Key: "performed_at", Value: -1}})
	cursor, err := c.Executions.Find(ctx, bson.M{"schedule_id": scheduleID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var executions []models.MaintenanceExecution
	if err := cursor.All(ctx, &executions); err != nil {
		return nil, err
	}
	return executions, nil
}

// CountExecutions counts the execution records referencing a schedule.
func (c *MongoScheduleCollection) CountExecutions(ctx context.Context, scheduleID string) (int64, error) {
	if c.Executions == nil {
		return 0, fmt.Errorf("mongo collection is nil")
	}
	return c.Executions.CountDocuments(ctx, bson.M{"schedule_id": scheduleID})
}
