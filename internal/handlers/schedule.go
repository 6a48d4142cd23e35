package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/medtrack/biomed-maintenance/internal/db"
	"github.com/medtrack/biomed-maintenance/internal/middleware"
	"github.com/medtrack/biomed-maintenance/internal/models"
	"github.com/medtrack/biomed-maintenance/internal/scheduling"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ScheduleHandler handles maintenance-schedule requests
type ScheduleHandler struct {
	scheduleCollection  db.ScheduleCollection
	equipmentCollection db.EquipmentCollection
}

// NewScheduleHandler creates a new schedule handler
func NewScheduleHandler(scheduleCollection db.ScheduleCollection, equipmentCollection db.EquipmentCollection) *ScheduleHandler {
	return &ScheduleHandler{
		scheduleCollection:  scheduleCollection,
		equipmentCollection: equipmentCollection,
	}
}

// scheduleView pairs a schedule with its day-level status for display.
type scheduleView struct {
	models.MaintenanceSchedule
	Status  scheduling.Status `json:"status"`
	NextDue time.Time         `json:"effective_next_due"`
}

// Create registers a recurring maintenance schedule. The frequency label is
// validated against the canonical vocabulary here, at the boundary; the
// scheduling engine itself never rejects a label.
func (h *ScheduleHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var schedule models.MaintenanceSchedule
	if err := json.Unmarshal(body, &schedule); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if schedule.EquipmentID == "" {
		http.Error(w, "Equipment id is required", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(schedule.Description) == "" {
		http.Error(w, "Description is required", http.StatusBadRequest)
		return
	}
	if !scheduling.KnownLabel(schedule.Frequency) {
		http.Error(w, "Unknown frequency label", http.StatusBadRequest)
		return
	}
	if schedule.NextDue.IsZero() && schedule.LastPerformed == nil {
		http.Error(w, "Next due date is required", http.StatusBadRequest)
		return
	}

	if _, err := h.equipmentCollection.FindEquipmentByID(r.Context(), schedule.EquipmentID); err != nil {
		http.Error(w, "Equipment not found", http.StatusNotFound)
		return
	}

	schedule.ID = primitive.NewObjectID()
	schedule.Kind = strings.ToLower(strings.TrimSpace(schedule.Kind))
	schedule.Frequency = strings.ToLower(strings.TrimSpace(schedule.Frequency))
	schedule.Active = true
	if claims, ok := middleware.GetUserFromContext(r.Context()); ok {
		schedule.CreatedBy = claims.UserID
	}

	if err := h.scheduleCollection.InsertSchedule(r.Context(), schedule); err != nil {
		http.Error(w, "Failed to create schedule", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(schedule)
}

// List returns schedules, optionally filtered by equipment or active flag,
// each annotated with its current status.
func (h *ScheduleHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	filter := bson.M{}
	if equipmentID := r.URL.Query().Get("equipment_id"); equipmentID != "" {
		filter["equipment_id"] = equipmentID
	}
	if active := r.URL.Query().Get("active"); active != "" {
		filter["active"] = active == "true"
	}

	cursor, err := h.scheduleCollection.FindSchedules(r.Context(), filter)
	if err != nil {
		http.Error(w, "Failed to query schedules", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(r.Context())

	var schedules []models.MaintenanceSchedule
	if err := cursor.All(r.Context(), &schedules); err != nil {
		http.Error(w, "Failed to decode schedules", http.StatusInternalServerError)
		return
	}

	today := time.Now()
	views := make([]scheduleView, 0, len(schedules))
	for _, s := range schedules {
		views = append(views, scheduleView{
			MaintenanceSchedule: s,
			Status:              scheduling.Classify(s, today),
			NextDue:             scheduling.NextDue(s),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(views)
}

// Get returns one schedule with its status and execution history.
func (h *ScheduleHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "Schedule id is required", http.StatusBadRequest)
		return
	}

	schedule, err := h.scheduleCollection.FindScheduleByID(r.Context(), id)
	if err != nil {
		http.Error(w, "Schedule not found", http.StatusNotFound)
		return
	}

	executions, err := h.scheduleCollection.FindExecutions(r.Context(), id)
	if err != nil {
		http.Error(w, "Failed to query executions", http.StatusInternalServerError)
		return
	}

	response := struct {
		scheduleView
		Executions []models.MaintenanceExecution `json:"executions"`
	}{
		scheduleView: scheduleView{
			MaintenanceSchedule: *schedule,
			Status:              scheduling.Classify(*schedule, time.Now()),
			NextDue:             scheduling.NextDue(*schedule),
		},
		Executions: executions,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// Update modifies a schedule's kind, frequency, dates, or description.
func (h *ScheduleHandler) Update(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "Schedule id is required", http.StatusBadRequest)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var schedule models.MaintenanceSchedule
	if err := json.Unmarshal(body, &schedule); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(schedule.Description) == "" {
		http.Error(w, "Description is required", http.StatusBadRequest)
		return
	}
	if !scheduling.KnownLabel(schedule.Frequency) {
		http.Error(w, "Unknown frequency label", http.StatusBadRequest)
		return
	}
	schedule.Kind = strings.ToLower(strings.TrimSpace(schedule.Kind))
	schedule.Frequency = strings.ToLower(strings.TrimSpace(schedule.Frequency))

	if err := h.scheduleCollection.UpdateSchedule(r.Context(), id, schedule); err != nil {
		http.Error(w, "Failed to update schedule", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Schedule updated successfully"})
}

// Retire clears the active flag. Retired schedules keep their execution
// history but drop out of classification, conflict detection, and sweeps.
func (h *ScheduleHandler) Retire(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "Schedule id is required", http.StatusBadRequest)
		return
	}

	if err := h.scheduleCollection.RetireSchedule(r.Context(), id); err != nil {
		http.Error(w, "Failed to retire schedule", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Schedule retired successfully"})
}

// RecordExecution records that a schedule's obligation was fulfilled; the
// schedule's last-performed and next-due dates advance by the recurrence
// interval.
func (h *ScheduleHandler) RecordExecution(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var execution models.MaintenanceExecution
	if err := json.Unmarshal(body, &execution); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if execution.ScheduleID == "" {
		http.Error(w, "Schedule id is required", http.StatusBadRequest)
		return
	}
	if execution.PerformedAt.IsZero() {
		http.Error(w, "Performed-at date is required", http.StatusBadRequest)
		return
	}
	if execution.Result == "" {
		execution.Result = models.ExecutionCompleted
	}

	execution.ID = primitive.NewObjectID()
	if claims, ok := middleware.GetUserFromContext(r.Context()); ok {
		execution.PerformedBy = claims.UserID
	}

	if err := h.scheduleCollection.RecordExecution(r.Context(), execution); err != nil {
		http.Error(w, "Failed to record execution", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(execution)
}

// Upcoming lists active schedules due inside the lookahead window.
func (h *ScheduleHandler) Upcoming(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	days := scheduling.UpcomingWindowDays
	if d := r.URL.Query().Get("days"); d != "" {
		parsed, err := strconv.Atoi(d)
		if err != nil || parsed <= 0 {
			http.Error(w, "Invalid days parameter", http.StatusBadRequest)
			return
		}
		days = parsed
	}

	schedules, err := h.scheduleCollection.FindActiveSchedules(r.Context())
	if err != nil {
		http.Error(w, "Failed to query schedules", http.StatusInternalServerError)
		return
	}

	today := time.Now()
	var views []scheduleView
	for _, s := range schedules {
		due := scheduling.NextDue(s)
		if scheduling.Classify(s, today) != scheduling.StatusUpcoming {
			continue
		}
		if scheduling.DaysUntil(due, today) > days {
			continue
		}
		views = append(views, scheduleView{
			MaintenanceSchedule: s,
			Status:              scheduling.StatusUpcoming,
			NextDue:             due,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(views)
}
