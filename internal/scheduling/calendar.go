package scheduling

import (
	"sort"
	"time"

	"github.com/medtrack/biomed-maintenance/internal/models"
)

// DayAssessment rates one calendar day for maintenance load. Derived on every
// query, never persisted or cached.
type DayAssessment struct {
	Date          time.Time                    `json:"date"`
	Schedules     []models.MaintenanceSchedule `json:"schedules"`
	TotalCount    int                          `json:"total_count"`
	ConflictCount int                          `json:"conflict_count"`
	HasConflict   bool                         `json:"has_conflict"`
	Rating        int                          `json:"rating"` // 1 (worst) .. 5 (best)
	IsSuggested   bool                         `json:"is_suggested"`
	IsOverloaded  bool                         `json:"is_overloaded"`
}

// DateSuggestion is a candidate maintenance date for one piece of equipment.
type DateSuggestion struct {
	Date   time.Time `json:"date"`
	Rating int       `json:"rating"`
}

// AssessDay rates a single date against the given schedules. Only active
// schedules whose due date falls on that day count toward load; same-equipment
// collisions drive the conflict count.
func AssessDay(schedules []models.MaintenanceSchedule, date time.Time) DayAssessment {
	day := DateOnly(date)

	var due []models.MaintenanceSchedule
	perEquipment := make(map[string]int)
	for _, s := range schedules {
		if !s.Active {
			continue
		}
		if NextDue(s).Equal(day) {
			due = append(due, s)
			perEquipment[s.EquipmentID]++
		}
	}

	conflicts := 0
	for _, n := range perEquipment {
		if n > 1 {
			conflicts += n - 1
		}
	}

	total := len(due)
	assessment := DayAssessment{
		Date:          day,
		Schedules:     due,
		TotalCount:    total,
		ConflictCount: conflicts,
		HasConflict:   conflicts > 0,
		Rating:        rateDay(total, conflicts),
		IsSuggested:   conflicts == 0 && total < 3,
		IsOverloaded:  total >= 3,
	}
	return assessment
}

// rateDay is a fixed lookup, not a weighted score. Ties are not broken by any
// secondary criterion.
func rateDay(total, conflicts int) int {
	switch total {
	case 0:
		return 5
	case 1:
		return 4
	case 2:
		return 3
	}
	if conflicts == 0 {
		return 2
	}
	return 1
}

// AssessMonth produces an assessment for every calendar day of the target
// month, keyed by date formatted as 2006-01-02. The result is recomputed in
// full on each call.
func AssessMonth(schedules []models.MaintenanceSchedule, year int, month time.Month) map[string]DayAssessment {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	out := make(map[string]DayAssessment)
	for d := first; d.Month() == month; d = d.AddDate(0, 0, 1) {
		out[d.Format("2006-01-02")] = AssessDay(schedules, d)
	}
	return out
}

// SuggestDates recommends maintenance dates for a piece of equipment inside
// the lookahead window starting at from, best-rated days first and earlier
// dates winning among equals. Days where the equipment already has maintenance
// due are excluded.
func SuggestDates(schedules []models.MaintenanceSchedule, equipmentID string, from time.Time, lookaheadDays int) []DateSuggestion {
	if lookaheadDays <= 0 {
		lookaheadDays = 30
	}
	start := DateOnly(from)

	var suggestions []DateSuggestion
	for i := 0; i < lookaheadDays; i++ {
		day := start.AddDate(0, 0, i)
		assessment := AssessDay(schedules, day)
		taken := false
		for _, s := range assessment.Schedules {
			if s.EquipmentID == equipmentID {
				taken = true
				break
			}
		}
		if taken || assessment.IsOverloaded {
			continue
		}
		suggestions = append(suggestions, DateSuggestion{Date: day, Rating: assessment.Rating})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		if suggestions[i].Rating != suggestions[j].Rating {
			return suggestions[i].Rating > suggestions[j].Rating
		}
		return suggestions[i].Date.Before(suggestions[j].Date)
	})
	return suggestions
}
