package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
	"time"
)

// ExecutionResult is the recorded outcome of one maintenance execution.
type ExecutionResult string

const (
	ExecutionCompleted ExecutionResult = "completed"
	ExecutionPartial   ExecutionResult = "partial"
	ExecutionFailed    ExecutionResult = "failed"
)

// MaintenanceSchedule represents a recurring maintenance obligation for one
// piece of equipment. IntervalDays is always derived from the frequency label;
// NextDue is operator-entered for first-time schedules and advanced by the
// interval when an execution is recorded.
type MaintenanceSchedule struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	EquipmentID   string             `json:"equipment_id" bson:"equipment_id"`
	Kind          string             `json:"kind" bson:"kind"` // "preventive", "corrective", "inspection"
	Frequency     string             `json:"frequency" bson:"frequency"` // "daily", "weekly", "biweekly", "monthly", ...
	IntervalDays  int                `json:"interval_days" bson:"interval_days"`
	LastPerformed *time.Time         `json:"last_performed,omitempty" bson:"last_performed,omitempty"`
	NextDue       time.Time          `json:"next_due" bson:"next_due"`
	LastResult    ExecutionResult    `json:"last_result,omitempty" bson:"last_result,omitempty"`
	Description   string             `json:"description" bson:"description"`
	Procedure     string             `json:"procedure,omitempty" bson:"procedure,omitempty"`
	Active        bool               `json:"active" bson:"active"`
	CreatedBy     string             `json:"created_by" bson:"created_by"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" bson:"updated_at"`
}

// MaintenanceExecution records that a schedule's obligation was fulfilled on a
// date, by whom. Executions are append-only; they are read back only to compute
// "last performed".
type MaintenanceExecution struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ScheduleID  string             `json:"schedule_id" bson:"schedule_id"`
	EquipmentID string             `json:"equipment_id" bson:"equipment_id"`
	PerformedBy string             `json:"performed_by" bson:"performed_by"`
	PerformedAt time.Time          `json:"performed_at" bson:"performed_at"`
	Result      ExecutionResult    `json:"result" bson:"result"`
	Notes       string             `json:"notes" bson:"notes"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
}
