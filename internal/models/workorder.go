package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
	"time"
)

// WorkOrderStatus is the closed set of work-order states.
type WorkOrderStatus string

const (
	StatusOpen          WorkOrderStatus = "open"
	StatusInProgress    WorkOrderStatus = "in_progress"
	StatusCompleted     WorkOrderStatus = "completed"
	StatusCancelled     WorkOrderStatus = "cancelled"
	StatusDeferred      WorkOrderStatus = "deferred"
	StatusAwaitingParts WorkOrderStatus = "awaiting_parts"
)

// IsValidWorkOrderStatus checks if a status belongs to the closed vocabulary.
func IsValidWorkOrderStatus(status WorkOrderStatus) bool {
	switch status {
	case StatusOpen, StatusInProgress, StatusCompleted, StatusCancelled, StatusDeferred, StatusAwaitingParts:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the status admits no further transitions.
func (s WorkOrderStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// WorkOrderPriority represents the urgency of a work order.
type WorkOrderPriority string

const (
	PriorityLow      WorkOrderPriority = "low"
	PriorityMedium   WorkOrderPriority = "medium"
	PriorityHigh     WorkOrderPriority = "high"
	PriorityCritical WorkOrderPriority = "critical"
)

// IsValidPriority checks if a priority belongs to the closed vocabulary.
func IsValidPriority(p WorkOrderPriority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	default:
		return false
	}
}

// WorkOrder represents a single unit of maintenance work, preventive or
// corrective. Version guards compare-and-set updates at the persistence
// boundary.
type WorkOrder struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	OrderNumber string             `json:"order_number" bson:"order_number"`
	EquipmentID string             `json:"equipment_id" bson:"equipment_id"`
	Kind        string             `json:"kind" bson:"kind"` // "preventive", "corrective", "inspection"
	Priority    WorkOrderPriority  `json:"priority" bson:"priority"`
	Status      WorkOrderStatus    `json:"status" bson:"status"`
	Description string             `json:"description" bson:"description"`
	AssignedTo  string             `json:"assigned_to,omitempty" bson:"assigned_to,omitempty"`
	StartedAt   *time.Time         `json:"started_at,omitempty" bson:"started_at,omitempty"`
	CompletedAt *time.Time         `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
	HoursWorked float64            `json:"hours_worked" bson:"hours_worked"`
	PartsCost   float64            `json:"parts_cost" bson:"parts_cost"` // in USD
	TotalCost   float64            `json:"total_cost" bson:"total_cost"` // in USD
	Notes       string             `json:"notes" bson:"notes"`
	Version     int64              `json:"version" bson:"version"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}
