package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/medtrack/biomed-maintenance/internal/db"
	"github.com/medtrack/biomed-maintenance/internal/scheduling"
)

// CalendarHandler serves the scheduling calendar: per-day load assessments and
// suggested maintenance dates.
type CalendarHandler struct {
	scheduleCollection db.ScheduleCollection
}

// NewCalendarHandler creates a new calendar handler
func NewCalendarHandler(scheduleCollection db.ScheduleCollection) *CalendarHandler {
	return &CalendarHandler{scheduleCollection: scheduleCollection}
}

// Month assesses every day of the requested month. The result is a best-effort
// snapshot; schedules created concurrently with the computation appear on the
// next query.
func (h *CalendarHandler) Month(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	now := time.Now()
	year := now.Year()
	month := now.Month()
	if y := r.URL.Query().Get("year"); y != "" {
		parsed, err := strconv.Atoi(y)
		if err != nil {
			http.Error(w, "Invalid year parameter", http.StatusBadRequest)
			return
		}
		year = parsed
	}
	if m := r.URL.Query().Get("month"); m != "" {
		parsed, err := strconv.Atoi(m)
		if err != nil || parsed < 1 || parsed > 12 {
			http.Error(w, "Invalid month parameter", http.StatusBadRequest)
			return
		}
		month = time.Month(parsed)
	}

	schedules, err := h.scheduleCollection.FindActiveSchedules(r.Context())
	if err != nil {
		http.Error(w, "Failed to query schedules", http.StatusInternalServerError)
		return
	}

	assessments := scheduling.AssessMonth(schedules, year, month)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(assessments)
}

// Suggest recommends maintenance dates for a piece of equipment, best-rated
// days first.
func (h *CalendarHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	equipmentID := r.URL.Query().Get("equipment_id")
	if equipmentID == "" {
		http.Error(w, "Equipment id is required", http.StatusBadRequest)
		return
	}

	lookahead := 30
	if d := r.URL.Query().Get("days"); d != "" {
		parsed, err := strconv.Atoi(d)
		if err != nil || parsed <= 0 {
			http.Error(w, "Invalid days parameter", http.StatusBadRequest)
			return
		}
		lookahead = parsed
	}

	schedules, err := h.scheduleCollection.FindActiveSchedules(r.Context())
	if err != nil {
		http.Error(w, "Failed to query schedules", http.StatusInternalServerError)
		return
	}

	suggestions := scheduling.SuggestDates(schedules, equipmentID, time.Now(), lookahead)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(suggestions)
}
