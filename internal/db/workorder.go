package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/medtrack/biomed-maintenance/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrConcurrentModification means a work-order write lost a compare-and-set
// race: the document changed between the caller's read and write. Surfaced to
// the caller, never retried here.
var ErrConcurrentModification = errors.New("work order was modified concurrently")

// MongoWorkOrderCollection implements WorkOrderCollection for MongoDB.
type MongoWorkOrderCollection struct {
	Collection *mongo.Collection
}

type mongoWorkOrderCursor struct {
	cursor *mongo.Cursor
}

func (m *mongoWorkOrderCursor) All(ctx context.Context, out interface{}) error {
	return m.cursor.All(ctx, out)
}

func (m *mongoWorkOrderCursor) Close(ctx context.Context) error {
	return m.cursor.Close(ctx)
}

// InsertWorkOrder inserts a work order into the collection.
func (c *MongoWorkOrderCollection) InsertWorkOrder(ctx context.Context, order models.WorkOrder) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	_, err := c.Collection.InsertOne(ctx, order)
	return err
}

// FindWorkOrders queries work-order records from the collection.
func (c *MongoWorkOrderCollection) FindWorkOrders(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (WorkOrderCursor, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	cursor, err := c.Collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	return &mongoWorkOrderCursor{cursor: cursor}, nil
}

// FindWorkOrderByID finds a work order by its ID.
func (c *MongoWorkOrderCollection) FindWorkOrderByID(ctx context.Context, id string) (*models.WorkOrder, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid work order ID: %w", err)
	}
	var order models.WorkOrder
	err = c.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&order)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("work order not found")
		}
		return nil, err
	}
	return &order, nil
}

// UpdateWorkOrderCAS writes a work order guarded by a version check. The
// filter matches both id and the version the caller read; a miss on a document
// that still exists means another writer won the race, reported as
// ErrConcurrentModification.
func (c *MongoWorkOrderCollection) UpdateWorkOrderCAS(ctx context.Context, id string, expectedVersion int64, order models.WorkOrder) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid work order ID: %w", err)
	}

	order.Version = expectedVersion + 1
	order.UpdatedAt = time.Now()
	result, err := c.Collection.UpdateOne(
		ctx,
		bson.M{"_id": objectID, "version": expectedVersion},
		bson.M{"$set": order},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		count, err := c.Collection.CountDocuments(ctx, bson.M{"_id": objectID})
		if err != nil {
			return err
		}
		if count == 0 {
			return fmt.Errorf("work order not found")
		}
		return ErrConcurrentModification
	}
	return nil
}

// DeleteWorkOrder deletes a work order by its ID. Lifecycle rules (only open
// or cancelled orders are removable) are enforced by the caller before the
// delete reaches storage.
func (c *MongoWorkOrderCollection) DeleteWorkOrder(ctx context.Context, id string) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid work order ID: %w", err)
	}
	result, err := c.Collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("work order not found")
	}
	return nil
}
