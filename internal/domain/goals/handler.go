package goals

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"pet-health-analytics/internal/domain/health"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, t *Tracker) {
	r.Route("/pets/{petID}/goals", func(gr chi.Router) {
		gr.Post("/", createGoalHandler(t))
		gr.Get("/", listGoalsHandler(t))
		gr.Post("/refresh", refreshGoalsHandler(t))
		gr.Patch("/{goalID}", updateGoalHandler(t))
	})
}

type createGoalRequest struct {
	Type         string  `json:"type" enums:"weight_loss,weight_gain,activity_increase,custom"`
	Title        string  `json:"title"`
	TargetValue  float64 `json:"target_value"`
	Unit         string  `json:"unit"`
	TargetDate   string  `json:"target_date"` // YYYY-MM-DD opcional
	CurrentValue float64 `json:"current_value"`
}

type updateGoalRequest struct {
	CurrentValue *float64 `json:"current_value"`
	Active       *bool    `json:"active"`
}

type goalResponse struct {
	ID           string          `json:"id"`
	PetID        string          `json:"pet_id"`
	Type         health.GoalType `json:"type"`
	Title        string          `json:"title"`
	TargetValue  float64         `json:"target_value"`
	Unit         string          `json:"unit"`
	TargetDate   string          `json:"target_date,omitempty"`
	CurrentValue float64         `json:"current_value"`
	Progress     float64         `json:"progress"`
	Active       bool            `json:"active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// createGoalHandler godoc
// @Summary Crear meta
// @Tags goals
// @Accept json
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Param payload body createGoalRequest true "Meta"
// @Success 201 {object} goalResponse
// @Failure 400 {string} string "invalid json / validación"
// @Router /pets/{petID}/goals [post]
func createGoalHandler(t *Tracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createGoalRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var targetDate *time.Time
		if req.TargetDate != "" {
			d, ok := health.ParseDate(req.TargetDate)
			if !ok {
				http.Error(w, "target_date must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			targetDate = &d
		}

		g, err := t.CreateGoal(r.Context(), CreateInput{
			PetID:        chi.URLParam(r, "petID"),
			Type:         health.GoalType(req.Type),
			Title:        req.Title,
			TargetValue:  req.TargetValue,
			Unit:         req.Unit,
			TargetDate:   targetDate,
			CurrentValue: req.CurrentValue,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toGoalResponse(g))
	}
}

// listGoalsHandler godoc
// @Summary Listar metas
// @Tags goals
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Param active query bool false "Solo activas"
// @Success 200 {array} goalResponse
// @Router /pets/{petID}/goals [get]
func listGoalsHandler(t *Tracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		active, _ := strconv.ParseBool(r.URL.Query().Get("active"))
		items, err := t.GetGoals(r.Context(), chi.URLParam(r, "petID"), active)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toGoalResponses(items))
	}
}

// updateGoalHandler godoc
// @Summary Actualizar meta
// @Description Cambia current_value y/o active; el progreso se recalcula.
// @Tags goals
// @Accept json
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Param goalID path string true "ID de la meta"
// @Param payload body updateGoalRequest true "Campos a modificar"
// @Success 200 {object} goalResponse
// @Failure 400 {string} string "invalid json / validación"
// @Failure 404 {string} string "goal not found"
// @Router /pets/{petID}/goals/{goalID} [patch]
func updateGoalHandler(t *Tracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()

		var req updateGoalRequest
		if err := dec.Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		goalID := chi.URLParam(r, "goalID")
		current, err := t.store.GetGoal(r.Context(), goalID)
		if err != nil || current.PetID != chi.URLParam(r, "petID") {
			http.Error(w, "goal not found", http.StatusNotFound)
			return
		}

		g, err := t.UpdateGoal(r.Context(), goalID, UpdateInput{
			CurrentValue: req.CurrentValue,
			Active:       req.Active,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toGoalResponse(g))
	}
}

// refreshGoalsHandler godoc
// @Summary Recalcular metas
// @Description Toma el valor actual de las metas de peso y actividad desde el último registro.
// @Tags goals
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Success 200 {array} goalResponse
// @Router /pets/{petID}/goals/refresh [post]
func refreshGoalsHandler(t *Tracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := t.Refresh(r.Context(), chi.URLParam(r, "petID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toGoalResponses(items))
	}
}

func toGoalResponse(g health.HealthGoal) goalResponse {
	out := goalResponse{
		ID:           g.ID,
		PetID:        g.PetID,
		Type:         g.Type,
		Title:        g.Title,
		TargetValue:  g.TargetValue,
		Unit:         g.Unit,
		CurrentValue: g.CurrentValue,
		Progress:     g.Progress,
		Active:       g.Active,
		CreatedAt:    g.CreatedAt,
		UpdatedAt:    g.UpdatedAt,
	}
	if g.TargetDate != nil {
		out.TargetDate = g.TargetDate.Format(health.DateLayout)
	}
	return out
}

func toGoalResponses(items []health.HealthGoal) []goalResponse {
	out := make([]goalResponse, 0, len(items))
	for _, g := range items {
		out = append(out, toGoalResponse(g))
	}
	return out
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, health.ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, health.ErrNotFound):
		http.Error(w, "goal not found", http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
