package db

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/medtrack/biomed-maintenance/internal/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func TestConnectMongo_BadURI(t *testing.T) {
	os.Setenv("MONGO_URI", "mongodb://bad:uri")
	client, err := ConnectMongo()
	if err == nil {
		t.Error("expected error for bad URI, got nil")
	}
	if client != nil {
		t.Error("expected nil client on error")
	}
}

func TestInsertWorkOrder_NilCollection(t *testing.T) {
	coll := &MongoWorkOrderCollection{Collection: nil}
	err := coll.InsertWorkOrder(context.Background(), models.WorkOrder{})
	if err == nil {
		t.Error("expected error when collection is nil")
	}
}

func TestInsertSchedule_NilCollection(t *testing.T) {
	coll := &MongoScheduleCollection{Collection: nil}
	err := coll.InsertSchedule(context.Background(), models.MaintenanceSchedule{})
	if err == nil {
		t.Error("expected error when collection is nil")
	}
}

func TestInsertEquipment_NilCollection(t *testing.T) {
	coll := &MongoEquipmentCollection{Collection: nil}
	err := coll.InsertEquipment(context.Background(), models.Equipment{})
	if err == nil {
		t.Error("expected error when collection is nil")
	}
}

func TestUpdateWorkOrderCAS_InvalidID(t *testing.T) {
	coll := &MongoWorkOrderCollection{Collection: nil}
	err := coll.UpdateWorkOrderCAS(context.Background(), "not-a-hex-id", 1, models.WorkOrder{})
	if err == nil {
		t.Error("expected error for nil collection / invalid id")
	}
}

// Integration test (requires running MongoDB)
func TestWorkOrderCAS_Integration(t *testing.T) {
	uri := os.Getenv("MONGO_URI")
	if uri == "" || uri == "uri" {
		t.Skip("MONGO_URI not set or invalid, skipping integration test")
		return
	}
	client, err := mongo.NewClient(options.Client().ApplyURI(uri))
	if err != nil {
		t.Skipf("failed to create client: %v, skipping integration test", err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.Connect(ctx); err != nil {
		t.Skipf("failed to connect: %v, skipping integration test", err)
		return
	}
	dbName := os.Getenv("MONGO_DB")
	if dbName == "" {
		dbName = "biomed"
	}
	coll := &MongoWorkOrderCollection{Collection: client.Database(dbName).Collection("work_orders_test")}

	order := models.WorkOrder{
		OrderNumber: "WO-20240101-abc123",
		EquipmentID: "eq-1",
		Kind:        "preventive",
		Priority:    models.PriorityMedium,
		Status:      models.StatusOpen,
		Description: "integration test order",
		Version:     1,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := coll.InsertWorkOrder(context.Background(), order); err != nil {
		t.Fatalf("expected insert to succeed, got error: %v", err)
	}

	cursor, err := coll.FindWorkOrders(context.Background(), map[string]interface{}{"order_number": order.OrderNumber})
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	var found []models.WorkOrder
	if err := cursor.All(context.Background(), &found); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(found) == 0 {
		t.Fatal("inserted work order not found")
	}
	stored := found[0]

	// A write with the version we read should win.
	stored.Status = models.StatusInProgress
	if err := coll.UpdateWorkOrderCAS(context.Background(), stored.ID.Hex(), stored.Version, stored); err != nil {
		t.Errorf("expected CAS update to succeed, got error: %v", err)
	}

	// A second write with the stale version should lose.
	err = coll.UpdateWorkOrderCAS(context.Background(), stored.ID.Hex(), stored.Version, stored)
	if err != ErrConcurrentModification {
		t.Errorf("expected ErrConcurrentModification for stale version, got: %v", err)
	}
}
