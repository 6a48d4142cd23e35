package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/medtrack/biomed-maintenance/internal/db"
	"github.com/medtrack/biomed-maintenance/internal/models"
	"github.com/medtrack/biomed-maintenance/internal/workorder"
	"go.mongodb.org/mongo-driver/bson"
)

// WorkOrderHandler handles work-order requests
type WorkOrderHandler struct {
	orderCollection     db.WorkOrderCollection
	equipmentCollection db.EquipmentCollection
	userCollection      db.UserCollection
}

// NewWorkOrderHandler creates a new work-order handler
func NewWorkOrderHandler(orderCollection db.WorkOrderCollection, equipmentCollection db.EquipmentCollection, userCollection db.UserCollection) *WorkOrderHandler {
	return &WorkOrderHandler{
		orderCollection:     orderCollection,
		equipmentCollection: equipmentCollection,
		userCollection:      userCollection,
	}
}

// writeLifecycleError maps lifecycle and persistence failures onto HTTP
// statuses without string-matching on messages.
func writeLifecycleError(w http.ResponseWriter, err error) {
	switch {
	case workorder.IsValidation(err):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, workorder.ErrInvalidAssignment):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, workorder.ErrTerminalState):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, workorder.ErrDeletionBlocked):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, db.ErrConcurrentModification):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Create opens a new work order
func (h *WorkOrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var createReq struct {
		EquipmentID string                   `json:"equipment_id"`
		Kind        string                   `json:"kind"`
		Priority    models.WorkOrderPriority `json:"priority"`
		Description string                   `json:"description"`
	}
	if err := json.Unmarshal(body, &createReq); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	order, err := workorder.Create(createReq.EquipmentID, createReq.Kind, createReq.Priority, createReq.Description, time.Now())
	if err != nil {
		writeLifecycleError(w, err)
		return
	}

	if _, err := h.equipmentCollection.FindEquipmentByID(r.Context(), order.EquipmentID); err != nil {
		http.Error(w, "Equipment not found", http.StatusNotFound)
		return
	}

	if err := h.orderCollection.InsertWorkOrder(r.Context(), order); err != nil {
		http.Error(w, "Failed to create work order", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(order)
}

// List returns work orders, optionally filtered by status, equipment, or
// assigned technician
func (h *WorkOrderHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	filter := bson.M{}
	if status := r.URL.Query().Get("status"); status != "" {
		if !models.IsValidWorkOrderStatus(models.WorkOrderStatus(status)) {
			http.Error(w, "Invalid status", http.StatusBadRequest)
			return
		}
		filter["status"] = status
	}
	if equipmentID := r.URL.Query().Get("equipment_id"); equipmentID != "" {
		filter["equipment_id"] = equipmentID
	}
	if assignedTo := r.URL.Query().Get("assigned_to"); assignedTo != "" {
		filter["assigned_to"] = assignedTo
	}

	cursor, err := h.orderCollection.FindWorkOrders(r.Context(), filter)
	if err != nil {
		http.Error(w, "Failed to query work orders", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(r.Context())

	var orders []models.WorkOrder
	if err := cursor.All(r.Context(), &orders); err != nil {
		http.Error(w, "Failed to decode work orders", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(orders)
}

// Get returns one work order by id
func (h *WorkOrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "Work order id is required", http.StatusBadRequest)
		return
	}

	order, err := h.orderCollection.FindWorkOrderByID(r.Context(), id)
	if err != nil {
		http.Error(w, "Work order not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(order)
}

// Assign puts a technician on a work order. The write is guarded by the
// version read with the order, so a racing status change loses cleanly.
func (h *WorkOrderHandler) Assign(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var assignReq struct {
		OrderID      string `json:"order_id"`
		TechnicianID string `json:"technician_id"`
	}
	if err := json.Unmarshal(body, &assignReq); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if assignReq.OrderID == "" || assignReq.TechnicianID == "" {
		http.Error(w, "Order id and technician id are required", http.StatusBadRequest)
		return
	}

	order, err := h.orderCollection.FindWorkOrderByID(r.Context(), assignReq.OrderID)
	if err != nil {
		http.Error(w, "Work order not found", http.StatusNotFound)
		return
	}

	technician, err := h.userCollection.FindUserByID(r.Context(), assignReq.TechnicianID)
	if err != nil {
		http.Error(w, "Technician not found", http.StatusNotFound)
		return
	}

	updated, err := workorder.AssignTechnician(*order, *technician, time.Now())
	if err != nil {
		writeLifecycleError(w, err)
		return
	}

	if err := h.orderCollection.UpdateWorkOrderCAS(r.Context(), assignReq.OrderID, order.Version, updated); err != nil {
		writeLifecycleError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}

// ChangeStatus transitions a work order to a new status
func (h *WorkOrderHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var statusReq struct {
		OrderID string                 `json:"order_id"`
		Status  models.WorkOrderStatus `json:"status"`
		Notes   string                 `json:"notes"`
	}
	if err := json.Unmarshal(body, &statusReq); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if statusReq.OrderID == "" {
		http.Error(w, "Order id is required", http.StatusBadRequest)
		return
	}

	order, err := h.orderCollection.FindWorkOrderByID(r.Context(), statusReq.OrderID)
	if err != nil {
		http.Error(w, "Work order not found", http.StatusNotFound)
		return
	}

	updated, err := workorder.ChangeStatus(*order, statusReq.Status, statusReq.Notes, time.Now())
	if err != nil {
		writeLifecycleError(w, err)
		return
	}

	if err := h.orderCollection.UpdateWorkOrderCAS(r.Context(), statusReq.OrderID, order.Version, updated); err != nil {
		writeLifecycleError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}

// Delete removes a work order if its lifecycle allows it
func (h *WorkOrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "Work order id is required", http.StatusBadRequest)
		return
	}

	order, err := h.orderCollection.FindWorkOrderByID(r.Context(), id)
	if err != nil {
		http.Error(w, "Work order not found", http.StatusNotFound)
		return
	}

	if err := workorder.Remove(*order); err != nil {
		writeLifecycleError(w, err)
		return
	}

	if err := h.orderCollection.DeleteWorkOrder(r.Context(), id); err != nil {
		http.Error(w, "Failed to delete work order", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Work order deleted successfully"})
}
