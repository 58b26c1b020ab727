package analytics

import (
	"encoding/json"
	"errors"
	"net/http"

	"pet-health-analytics/internal/domain/health"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/pets/{petID}/trends", trendsHandler(svc))
	r.Get("/pets/{petID}/statistics", statisticsHandler(svc))
}

// trendsHandler godoc
// @Summary Tendencias de salud
// @Description Compara la primera y la segunda mitad de la ventana para peso, pasos y agua.
// @Tags analytics
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Param period query string false "7d, 30d o 90d (default 30d)"
// @Success 200 {array} HealthTrend
// @Failure 400 {string} string "period inválido"
// @Router /pets/{petID}/trends [get]
func trendsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		period, ok := periodQuery(w, r)
		if !ok {
			return
		}
		trends, err := svc.GetHealthTrends(r.Context(), chi.URLParam(r, "petID"), period)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, trends)
	}
}

// statisticsHandler godoc
// @Summary Estadísticas de la ventana
// @Description Devuelve null si no hay registros en la ventana.
// @Tags analytics
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Param period query string false "7d, 30d o 90d (default 30d)"
// @Success 200 {object} Statistics
// @Failure 400 {string} string "period inválido"
// @Router /pets/{petID}/statistics [get]
func statisticsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		period, ok := periodQuery(w, r)
		if !ok {
			return
		}
		stats, err := svc.GetStatistics(r.Context(), chi.URLParam(r, "petID"), period)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}

func periodQuery(w http.ResponseWriter, r *http.Request) (Period, bool) {
	v := r.URL.Query().Get("period")
	if v == "" {
		return Period30d, true
	}
	p, err := ParsePeriod(v)
	if err != nil {
		if errors.Is(err, health.ErrInvalidInput) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		} else {
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
		return "", false
	}
	return p, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
