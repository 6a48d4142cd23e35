package db

import (
	"context"

	"github.com/medtrack/biomed-maintenance/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EquipmentCollection defines the interface for equipment data operations.
type EquipmentCollection interface {
	InsertEquipment(ctx context.Context, equipment models.Equipment) error
	FindEquipment(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (EquipmentCursor, error)
	FindEquipmentByID(ctx context.Context, id string) (*models.Equipment, error)
	UpdateEquipment(ctx context.Context, id string, equipment models.Equipment) error
	DeleteEquipment(ctx context.Context, id string) error
}

// EquipmentCursor defines the interface for equipment cursor operations.
type EquipmentCursor interface {
	All(ctx context.Context, out interface{}) error
	Close(ctx context.Context) error
}

// ScheduleCollection defines the interface for maintenance-schedule operations.
type ScheduleCollection interface {
	InsertSchedule(ctx context.Context, schedule models.MaintenanceSchedule) error
	FindSchedules(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (ScheduleCursor, error)
	FindScheduleByID(ctx context.Context, id string) (*models.MaintenanceSchedule, error)
	FindActiveSchedules(ctx context.Context) ([]models.MaintenanceSchedule, error)
	UpdateSchedule(ctx context.Context, id string, schedule models.MaintenanceSchedule) error
	RetireSchedule(ctx context.Context, id string) error
	RecordExecution(ctx context.Context, execution models.MaintenanceExecution) error
	FindExecutions(ctx context.Context, scheduleID string) ([]models.MaintenanceExecution, error)
	CountExecutions(ctx context.Context, scheduleID string) (int64, error)
}

// ScheduleCursor defines the interface for schedule cursor operations.
type ScheduleCursor interface {
	All(ctx context.Context, out interface{}) error
	Close(ctx context.Context) error
}

// WorkOrderCollection defines the interface for work-order data operations.
type WorkOrderCollection interface {
	InsertWorkOrder(ctx context.Context, order models.WorkOrder) error
	FindWorkOrders(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (WorkOrderCursor, error)
	FindWorkOrderByID(ctx context.Context, id string) (*models.WorkOrder, error)
	UpdateWorkOrderCAS(ctx context.Context, id string, expectedVersion int64, order models.WorkOrder) error
	DeleteWorkOrder(ctx context.Context, id string) error
}

// WorkOrderCursor defines the interface for work-order cursor operations.
type WorkOrderCursor interface {
	All(ctx context.Context, out interface{}) error
	Close(ctx context.Context) error
}

// UserCollection defines the interface for user database operations
type UserCollection interface {
	InsertUser(ctx context.Context, user models.User) error
	FindUserByID(ctx context.Context, id string) (*models.User, error)
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUsers(ctx context.Context, filter bson.M) ([]models.User, error)
	UpdateUser(ctx context.Context, id string, user models.User) error
	DeleteUser(ctx context.Context, id string) error
	UpdateLastLogin(ctx context.Context, id string) error
}
