package recommendations

import (
	"encoding/json"
	"errors"
	"net/http"

	"pet-health-analytics/internal/domain/health"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, e *Engine) {
	r.Get("/pets/{petID}/recommendations", getRecommendationsHandler(e))
}

// getRecommendationsHandler godoc
// @Summary Recomendaciones personalizadas
// @Description Genera el paquete de recomendaciones (nutrición, actividad, salud) con resumen e insights.
// @Tags recommendations
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Success 200 {object} Package
// @Failure 400 {string} string "pet_id requerido"
// @Failure 404 {string} string "pet not found"
// @Router /pets/{petID}/recommendations [get]
func getRecommendationsHandler(e *Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pkg, err := e.Generate(r.Context(), chi.URLParam(r, "petID"))
		if err != nil {
			switch {
			case errors.Is(err, health.ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, ErrPetNotFound):
				http.Error(w, "pet not found", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}
		writeJSON(w, http.StatusOK, pkg)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
