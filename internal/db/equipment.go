package db

import (
	"context"
	"fmt"
	"time"

	"github.com/medtrack/biomed-maintenance/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoEquipmentCollection implements EquipmentCollection for MongoDB.
type MongoEquipmentCollection struct {
	Collection *mongo.Collection
}

type mongoEquipmentCursor struct {
	cursor *mongo.Cursor
}

func (m *mongoEquipmentCursor) All(ctx context.Context, out interface{}) error {
	return m.cursor.All(ctx, out)
}

func (m *mongoEquipmentCursor) Close(ctx context.Context) error {
	return m.cursor.Close(ctx)
}

// InsertEquipment inserts an equipment record into the collection.
func (c *MongoEquipmentCollection) InsertEquipment(ctx context.Context, equipment models.Equipment) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	equipment.CreatedAt = time.Now()
	equipment.UpdatedAt = time.Now()
	_, err := c.Collection.InsertOne(ctx, equipment)
	return err
}

// FindEquipment queries equipment records from the collection.
func (c *MongoEquipmentCollection) FindEquipment(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (EquipmentCursor, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	cursor, err := c.Collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	return &mongoEquipmentCursor{cursor: cursor}, nil
}

// FindEquipmentByID finds an equipment record by its ID.
func (c *MongoEquipmentCollection) FindEquipmentByID(ctx context.Context, id string) (*models.Equipment, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid equipment ID: %w", err)
	}
	var equipment models.Equipment
	err = c.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&equipment)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("equipment not found")
		}
		return nil, err
	}
	return &equipment, nil
}

// UpdateEquipment updates an equipment record by its ID.
func (c *MongoEquipmentCollection) UpdateEquipment(ctx context.Context, id string, equipment models.Equipment) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid equipment ID: %w", err)
	}
	equipment.UpdatedAt = time.Now()
	result, err := c.Collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": equipment})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("equipment not found")
	}
	return nil
}

// DeleteEquipment deletes an equipment record by its ID.
func (c *MongoEquipmentCollection) DeleteEquipment(ctx context.Context, id string) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid equipment ID: %w", err)
	}
	result, err := c.Collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("equipment not found")
	}
	return nil
}
