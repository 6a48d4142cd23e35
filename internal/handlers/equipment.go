package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/medtrack/biomed-maintenance/internal/db"
	"github.com/medtrack/biomed-maintenance/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EquipmentHandler handles equipment directory requests
type EquipmentHandler struct {
	equipmentCollection db.EquipmentCollection
}

// NewEquipmentHandler creates a new equipment handler
func NewEquipmentHandler(equipmentCollection db.EquipmentCollection) *EquipmentHandler {
	return &EquipmentHandler{equipmentCollection: equipmentCollection}
}

// Create registers a new piece of equipment
func (h *EquipmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var equipment models.Equipment
	if err := json.Unmarshal(body, &equipment); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if equipment.Name == "" || equipment.AssetTag == "" {
		http.Error(w, "Name and asset tag are required", http.StatusBadRequest)
		return
	}
	if equipment.Status == "" {
		equipment.Status = models.EquipmentActive
	}
	equipment.ID = primitive.NewObjectID()

	if err := h.equipmentCollection.InsertEquipment(r.Context(), equipment); err != nil {
		http.Error(w, "Failed to create equipment", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(equipment)
}

// List returns equipment, optionally filtered by status or location
func (h *EquipmentHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	filter := bson.M{}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["status"] = status
	}
	if location := r.URL.Query().Get("location"); location != "" {
		filter["location"] = location
	}

	cursor, err := h.equipmentCollection.FindEquipment(r.Context(), filter)
	if err != nil {
		http.Error(w, "Failed to query equipment", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(r.Context())

	var equipment []models.Equipment
	if err := cursor.All(r.Context(), &equipment); err != nil {
		http.Error(w, "Failed to decode equipment", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(equipment)
}

// Get returns one piece of equipment by id
func (h *EquipmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "Equipment id is required", http.StatusBadRequest)
		return
	}

	equipment, err := h.equipmentCollection.FindEquipmentByID(r.Context(), id)
	if err != nil {
		http.Error(w, "Equipment not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(equipment)
}

// Update modifies a piece of equipment
func (h *EquipmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "Equipment id is required", http.StatusBadRequest)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var equipment models.Equipment
	if err := json.Unmarshal(body, &equipment); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if err := h.equipmentCollection.UpdateEquipment(r.Context(), id, equipment); err != nil {
		http.Error(w, "Failed to update equipment", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Equipment updated successfully"})
}

// Delete removes a piece of equipment
func (h *EquipmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "Equipment id is required", http.StatusBadRequest)
		return
	}

	if err := h.equipmentCollection.DeleteEquipment(r.Context(), id); err != nil {
		http.Error(w, "Failed to delete equipment", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Equipment deleted successfully"})
}
