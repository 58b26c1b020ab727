package health

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/pets/{petID}/records", func(rr chi.Router) {
		rr.Put("/", upsertRecordHandler(svc))
		rr.Get("/", listRecordsHandler(svc))
	})
	r.Route("/pets/{petID}/metrics", func(mr chi.Router) {
		mr.Post("/", writeMetricHandler(svc))
		mr.Get("/", listMetricsHandler(svc))
	})
	r.Route("/pets/{petID}/alerts", func(ar chi.Router) {
		ar.Get("/", listAlertsHandler(svc))
		ar.Post("/{alertID}/read", markAlertReadHandler(svc))
	})
}

type upsertRecordRequest struct {
	Date        string       `json:"date"` // YYYY-MM-DD o RFC3339
	Weight      *float64     `json:"weight"`
	WaterIntake *float64     `json:"water_intake"`
	FoodIntake  *float64     `json:"food_intake"`
	Activity    *Activity    `json:"activity"`
	Sleep       *Sleep       `json:"sleep"`
	Mood        *Mood        `json:"mood"`
	Medications []Medication `json:"medications"`
	Notes       *string      `json:"notes"`
}

type recordResponse struct {
	ID          string       `json:"id"`
	PetID       string       `json:"pet_id"`
	Date        string       `json:"date"`
	Weight      *float64     `json:"weight,omitempty"`
	WaterIntake *float64     `json:"water_intake,omitempty"`
	FoodIntake  *float64     `json:"food_intake,omitempty"`
	Activity    *Activity    `json:"activity,omitempty"`
	Sleep       *Sleep       `json:"sleep,omitempty"`
	Mood        *Mood        `json:"mood,omitempty"`
	Medications []Medication `json:"medications,omitempty"`
	Notes       string       `json:"notes,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

type alertResponse struct {
	ID              string    `json:"id"`
	PetID           string    `json:"pet_id"`
	RecordID        string    `json:"record_id"`
	Type            AlertType `json:"type"`
	Severity        Severity  `json:"severity"`
	Title           string    `json:"title"`
	Message         string    `json:"message"`
	Recommendations []string  `json:"recommendations"`
	IsRead          bool      `json:"is_read"`
	CreatedAt       time.Time `json:"created_at"`
}

type upsertRecordResponse struct {
	Record recordResponse  `json:"record"`
	Merged bool            `json:"merged"`
	Alerts []alertResponse `json:"alerts"`
}

type writeMetricRequest struct {
	Type      string     `json:"type" enums:"weight,activity,food,water,sleep,medication,mood"`
	Value     float64    `json:"value"`
	Unit      string     `json:"unit"`
	Timestamp *time.Time `json:"timestamp"` // RFC3339 opcional
}

type metricResponse struct {
	ID        string     `json:"id"`
	PetID     string     `json:"pet_id"`
	Type      MetricType `json:"type"`
	Value     float64    `json:"value"`
	Unit      string     `json:"unit"`
	Timestamp time.Time  `json:"timestamp"`
}

type writeMetricResponse struct {
	Metric metricResponse  `json:"metric"`
	Record *recordResponse `json:"record,omitempty"`
	Alerts []alertResponse `json:"alerts"`
}

// upsertRecordHandler godoc
// @Summary Registrar el día de una mascota
// @Description Crea el registro de la fecha o mezcla los campos enviados sobre el existente. Devuelve las alertas generadas.
// @Tags records
// @Accept json
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Param payload body upsertRecordRequest true "Campos del día; los omitidos no se modifican"
// @Success 200 {object} upsertRecordResponse
// @Failure 400 {string} string "invalid json / validación"
// @Router /pets/{petID}/records [put]
func upsertRecordHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()

		var req upsertRecordRequest
		if err := dec.Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		res, err := svc.UpsertRecord(r.Context(), RecordInput{
			PetID:       chi.URLParam(r, "petID"),
			Date:        req.Date,
			Weight:      req.Weight,
			WaterIntake: req.WaterIntake,
			FoodIntake:  req.FoodIntake,
			Activity:    req.Activity,
			Sleep:       req.Sleep,
			Mood:        req.Mood,
			Medications: req.Medications,
			Notes:       req.Notes,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, upsertRecordResponse{
			Record: toRecordResponse(res.Record),
			Merged: res.Merged,
			Alerts: toAlertResponses(res.Alerts),
		})
	}
}

// listRecordsHandler godoc
// @Summary Historial de registros diarios
// @Tags records
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Param from query string false "Fecha inicial inclusiva (YYYY-MM-DD)"
// @Param to query string false "Fecha final inclusiva (YYYY-MM-DD)"
// @Success 200 {array} recordResponse
// @Failure 400 {string} string "from/to inválidos"
// @Router /pets/{petID}/records [get]
func listRecordsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		from, ok := dateQuery(r, "from")
		if !ok {
			http.Error(w, "from must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		to, ok := dateQuery(r, "to")
		if !ok {
			http.Error(w, "to must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		recs, err := svc.GetRecords(r.Context(), chi.URLParam(r, "petID"), from, to)
		if err != nil {
			writeError(w, err)
			return
		}

		out := make([]recordResponse, 0, len(recs))
		for _, rec := range recs {
			out = append(out, toRecordResponse(rec))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// writeMetricHandler godoc
// @Summary Registrar métrica puntual
// @Description Agrega la métrica al log y la vuelca en el registro del día (weight, water, food, activity).
// @Tags metrics
// @Accept json
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Param payload body writeMetricRequest true "Métrica"
// @Success 201 {object} writeMetricResponse
// @Failure 400 {string} string "invalid json / validación"
// @Router /pets/{petID}/metrics [post]
func writeMetricHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req writeMetricRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		res, err := svc.WriteMetric(r.Context(), MetricInput{
			PetID:     chi.URLParam(r, "petID"),
			Type:      MetricType(strings.TrimSpace(req.Type)),
			Value:     req.Value,
			Unit:      req.Unit,
			Timestamp: req.Timestamp,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		resp := writeMetricResponse{
			Metric: toMetricResponse(res.Metric),
			Alerts: toAlertResponses(res.Alerts),
		}
		if res.Record != nil {
			rec := toRecordResponse(*res.Record)
			resp.Record = &rec
		}
		writeJSON(w, http.StatusCreated, resp)
	}
}

// listMetricsHandler godoc
// @Summary Listar métricas
// @Tags metrics
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Param type query string false "Tipo de métrica"
// @Param limit query int false "Máximo de resultados (0 = sin límite)"
// @Success 200 {array} metricResponse
// @Failure 400 {string} string "type/limit inválidos"
// @Router /pets/{petID}/metrics [get]
func listMetricsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mt := MetricType(strings.TrimSpace(r.URL.Query().Get("type")))
		if mt != "" && !mt.Valid() {
			http.Error(w, "unknown metric type", http.StatusBadRequest)
			return
		}

		limit := 0
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				http.Error(w, "limit must be a non-negative integer", http.StatusBadRequest)
				return
			}
			limit = n
		}

		ms, err := svc.GetMetrics(r.Context(), chi.URLParam(r, "petID"), mt, limit)
		if err != nil {
			writeError(w, err)
			return
		}

		out := make([]metricResponse, 0, len(ms))
		for _, m := range ms {
			out = append(out, toMetricResponse(m))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// listAlertsHandler godoc
// @Summary Listar alertas
// @Tags alerts
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Param unread query bool false "Solo no leídas"
// @Success 200 {array} alertResponse
// @Router /pets/{petID}/alerts [get]
func listAlertsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		unread, _ := strconv.ParseBool(r.URL.Query().Get("unread"))

		alerts, err := svc.ListAlerts(r.Context(), chi.URLParam(r, "petID"), unread)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAlertResponses(alerts))
	}
}

// markAlertReadHandler godoc
// @Summary Marcar alerta como leída
// @Tags alerts
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Param alertID path string true "ID de la alerta"
// @Success 200 {object} alertResponse
// @Failure 404 {string} string "alert not found"
// @Router /pets/{petID}/alerts/{alertID}/read [post]
func markAlertReadHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		alertID := chi.URLParam(r, "alertID")
		current, err := svc.Repo().GetAlert(r.Context(), alertID)
		if err != nil || current.PetID != chi.URLParam(r, "petID") {
			http.Error(w, "alert not found", http.StatusNotFound)
			return
		}

		a, err := svc.MarkAlertRead(r.Context(), alertID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAlertResponse(a))
	}
}

// dateQuery devuelve nil si el parámetro no viene; ok=false si viene mal formado.
func dateQuery(r *http.Request, key string) (*time.Time, bool) {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return nil, true
	}
	t, ok := ParseDate(v)
	if !ok {
		return nil, false
	}
	return &t, true
}

func toRecordResponse(rec DailyHealthRecord) recordResponse {
	return recordResponse{
		ID:          rec.ID,
		PetID:       rec.PetID,
		Date:        rec.Date.Format(DateLayout),
		Weight:      rec.Weight,
		WaterIntake: rec.WaterIntake,
		FoodIntake:  rec.FoodIntake,
		Activity:    rec.Activity,
		Sleep:       rec.Sleep,
		Mood:        rec.Mood,
		Medications: rec.Medications,
		Notes:       rec.Notes,
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   rec.UpdatedAt,
	}
}

func toMetricResponse(m HealthMetric) metricResponse {
	return metricResponse{
		ID:        m.ID,
		PetID:     m.PetID,
		Type:      m.Type,
		Value:     m.Value,
		Unit:      m.Unit,
		Timestamp: m.Timestamp,
	}
}

func toAlertResponse(a HealthAlert) alertResponse {
	recs := a.Recommendations
	if recs == nil {
		recs = []string{}
	}
	return alertResponse{
		ID:              a.ID,
		PetID:           a.PetID,
		RecordID:        a.RecordID,
		Type:            a.Type,
		Severity:        a.Severity,
		Title:           a.Title,
		Message:         a.Message,
		Recommendations: recs,
		IsRead:          a.IsRead,
		CreatedAt:       a.CreatedAt,
	}
}

func toAlertResponses(as []HealthAlert) []alertResponse {
	out := make([]alertResponse, 0, len(as))
	for _, a := range as {
		out = append(out, toAlertResponse(a))
	}
	return out
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
