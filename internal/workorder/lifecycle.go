package workorder

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/medtrack/biomed-maintenance/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Lifecycle operations transform in-memory work-order values and never touch
// storage; the caller loads the order before the call and persists the result
// after, under compare-and-set protection.

// NewOrderNumber generates a human-readable unique order number, e.g.
// WO-20240105-3fa2b1.
func NewOrderNumber(now time.Time) string {
	suffix := make([]byte, 3)
	if _, err := rand.Read(suffix); err != nil {
		// crypto/rand never fails on supported platforms; fall back to the
		// object-id entropy so numbering still works.
		oid := primitive.NewObjectID()
		copy(suffix, oid[9:12])
	}
	return "WO-" + now.UTC().Format("20060102") + "-" + hex.EncodeToString(suffix)
}

// Create builds a new work order in the open state. Equipment reference, kind,
// priority, and a non-empty description are required.
func Create(equipmentID, kind string, priority models.WorkOrderPriority, description string, now time.Time) (models.WorkOrder, error) {
	switch {
	case strings.TrimSpace(equipmentID) == "":
		return models.WorkOrder{}, &ValidationError{Field: "equipment_id"}
	case strings.TrimSpace(kind) == "":
		return models.WorkOrder{}, &ValidationError{Field: "kind"}
	case !models.IsValidPriority(priority):
		return models.WorkOrder{}, &ValidationError{Field: "priority"}
	case strings.TrimSpace(description) == "":
		return models.WorkOrder{}, &ValidationError{Field: "description"}
	}

	return models.WorkOrder{
		ID:          primitive.NewObjectID(),
		OrderNumber: NewOrderNumber(now),
		EquipmentID: equipmentID,
		Kind:        strings.ToLower(strings.TrimSpace(kind)),
		Priority:    priority,
		Status:      models.StatusOpen,
		Description: description,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// AssignTechnician puts a technician on the order. Allowed from any
// non-terminal state; the technician must be active and hold a qualified role.
// The check happens at assignment time and is not re-validated retroactively.
// Assignment does not change the order status.
func AssignTechnician(order models.WorkOrder, technician models.User, now time.Time) (models.WorkOrder, error) {
	if order.Status.IsTerminal() {
		return order, ErrTerminalState
	}
	if !technician.IsActive || !technician.Role.QualifiedForAssignment() {
		return order, ErrInvalidAssignment
	}
	order.AssignedTo = technician.ID.Hex()
	order.UpdatedAt = now
	return order, nil
}

// ChangeStatus moves the order to the target status. Completed and cancelled
// orders admit no further transitions. Entering in_progress for the first time
// stamps the start time; entering completed stamps the completion time. Notes,
// when provided, are appended rather than replacing existing notes.
func ChangeStatus(order models.WorkOrder, target models.WorkOrderStatus, notes string, now time.Time) (models.WorkOrder, error) {
	if !models.IsValidWorkOrderStatus(target) {
		return order, &ValidationError{Field: "status"}
	}
	if order.Status.IsTerminal() {
		return order, ErrTerminalState
	}

	order.Status = target
	if target == models.StatusInProgress && order.StartedAt == nil {
		started := now
		order.StartedAt = &started
	}
	if target == models.StatusCompleted {
		completed := now
		order.CompletedAt = &completed
	}
	if notes != "" {
		if order.Notes != "" {
			order.Notes += "\n" + notes
		} else {
			order.Notes = notes
		}
	}
	order.UpdatedAt = now
	return order, nil
}

// Remove checks that the order may be deleted. Only open and cancelled orders
// are removable; an in-progress or completed order is evidence of work
// performed.
func Remove(order models.WorkOrder) error {
	if order.Status == models.StatusOpen || order.Status == models.StatusCancelled {
		return nil
	}
	return ErrDeletionBlocked
}

// IsValidation reports whether err is a create-time validation failure.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
