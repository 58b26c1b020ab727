package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"pet-health-analytics/internal/router"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTP_EndToEnd_RecordsToRecommendations(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	today := time.Now().UTC()

	// 1) Alta de mascota en el registro local
	petID := createPet(t, ts.URL, map[string]any{
		"name":       "Rex",
		"species":    "dog",
		"breed":      "Mestizo",
		"birth_date": today.AddDate(0, -14, 0).Format("2006-01-02"),
		"weight":     16,
	})

	// 2) 10 días de registros; los 7 últimos con peso en subida
	weights := []float64{15.0, 15.2, 15.3, 15.5, 15.7, 15.8, 16.0}
	for i := 9; i >= 0; i-- {
		payload := map[string]any{
			"date":     today.AddDate(0, 0, -i).Format("2006-01-02"),
			"activity": map[string]any{"steps": 4000, "exercise_minutes": 20},
		}
		if i < len(weights) {
			payload["weight"] = weights[len(weights)-1-i]
		}
		st, body := doReq(t, ts.URL, "PUT", "/pets/"+petID+"/records", payload)
		require.Equal(t, http.StatusOK, st, string(body))
	}

	// 3) Un segundo envío del mismo día se mezcla
	{
		st, body := doReq(t, ts.URL, "PUT", "/pets/"+petID+"/records", map[string]any{
			"date":         today.Format("2006-01-02"),
			"water_intake": 900,
		})
		require.Equal(t, http.StatusOK, st, string(body))

		var resp struct {
			Merged bool `json:"merged"`
			Record struct {
				Weight      *float64 `json:"weight"`
				WaterIntake *float64 `json:"water_intake"`
			} `json:"record"`
		}
		require.NoError(t, json.Unmarshal(body, &resp))
		assert.True(t, resp.Merged)
		require.NotNil(t, resp.Record.Weight)
		assert.Equal(t, 16.0, *resp.Record.Weight)
		require.NotNil(t, resp.Record.WaterIntake)
	}

	// 4) Historial con rango inclusivo
	{
		from := today.AddDate(0, 0, -2).Format("2006-01-02")
		st, body := doReq(t, ts.URL, "GET", "/pets/"+petID+"/records?from="+from, nil)
		require.Equal(t, http.StatusOK, st)
		var recs []map[string]any
		require.NoError(t, json.Unmarshal(body, &recs))
		assert.Len(t, recs, 3)
	}

	// 5) Estadísticas y tendencias
	{
		st, body := doReq(t, ts.URL, "GET", "/pets/"+petID+"/statistics?period=7d", nil)
		require.Equal(t, http.StatusOK, st)
		var stats struct {
			RecordCount int `json:"record_count"`
			Steps       struct {
				Average float64 `json:"average"`
			} `json:"steps"`
		}
		require.NoError(t, json.Unmarshal(body, &stats))
		assert.Equal(t, 7, stats.RecordCount)
		assert.Equal(t, 4000.0, stats.Steps.Average)

		st, _ = doReq(t, ts.URL, "GET", "/pets/"+petID+"/trends?period=1y", nil)
		assert.Equal(t, http.StatusBadRequest, st)

		st, body = doReq(t, ts.URL, "GET", "/pets/unknown/statistics", nil)
		assert.Equal(t, http.StatusOK, st)
		assert.Equal(t, "null", strings.TrimSpace(string(body)))
	}

	// 6) Recomendaciones
	{
		st, body := doReq(t, ts.URL, "GET", "/pets/"+petID+"/recommendations", nil)
		require.Equal(t, http.StatusOK, st, string(body))

		var pkg struct {
			PetID    string `json:"pet_id"`
			Activity []struct {
				Kind string `json:"kind"`
			} `json:"activity"`
			Health []struct {
				Kind    string `json:"kind"`
				Urgency string `json:"urgency"`
			} `json:"health"`
			Nutrition []struct {
				Kind string `json:"kind"`
			} `json:"nutrition"`
		}
		require.NoError(t, json.Unmarshal(body, &pkg))
		assert.Equal(t, petID, pkg.PetID)

		var kinds []string
		for _, a := range pkg.Activity {
			kinds = append(kinds, a.Kind)
		}
		for _, h := range pkg.Health {
			kinds = append(kinds, h.Kind)
			if h.Kind == "weight-monitoring" {
				assert.Equal(t, "soon", h.Urgency)
			}
		}
		for _, n := range pkg.Nutrition {
			assert.NotEqual(t, "puppy-nutrition", n.Kind)
		}
		assert.Subset(t, kinds, []string{"daily-routine", "increase-activity", "weight-monitoring", "record-consistency"})

		st, _ = doReq(t, ts.URL, "GET", "/pets/ghost/recommendations", nil)
		assert.Equal(t, http.StatusNotFound, st)
	}

	// 7) Métricas expuestas
	{
		st, body := doReq(t, ts.URL, "GET", "/metrics", nil)
		require.Equal(t, http.StatusOK, st)
		assert.Contains(t, string(body), `pethealth_records_upserted_total{outcome="merged"} 1`)
		assert.Contains(t, string(body), "pethealth_recommendation_packages_total 1")
	}
}

func TestHTTP_AlertsAndMetrics(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	petID := "luna"
	today := time.Now().UTC()

	st, body := doReq(t, ts.URL, "PUT", "/pets/"+petID+"/records", map[string]any{
		"date":   today.AddDate(0, 0, -1).Format("2006-01-02"),
		"weight": 4.0,
	})
	require.Equal(t, http.StatusOK, st, string(body))

	// peso vía métrica puntual: +25% dispara alerta crítica
	st, body = doReq(t, ts.URL, "POST", "/pets/"+petID+"/metrics", map[string]any{
		"type":  "weight",
		"value": 5.0,
	})
	require.Equal(t, http.StatusCreated, st, string(body))

	var mres struct {
		Metric struct {
			Unit string `json:"unit"`
		} `json:"metric"`
		Alerts []struct {
			ID       string `json:"id"`
			Type     string `json:"type"`
			Severity string `json:"severity"`
		} `json:"alerts"`
	}
	require.NoError(t, json.Unmarshal(body, &mres))
	assert.Equal(t, "kg", mres.Metric.Unit)
	require.Len(t, mres.Alerts, 1)
	assert.Equal(t, "weight_change", mres.Alerts[0].Type)
	assert.Equal(t, "critical", mres.Alerts[0].Severity)

	st, body = doReq(t, ts.URL, "GET", "/pets/"+petID+"/alerts?unread=true", nil)
	require.Equal(t, http.StatusOK, st)
	var unread []map[string]any
	require.NoError(t, json.Unmarshal(body, &unread))
	assert.Len(t, unread, 1)

	st, _ = doReq(t, ts.URL, "POST", "/pets/other/alerts/"+mres.Alerts[0].ID+"/read", nil)
	assert.Equal(t, http.StatusNotFound, st)

	st, _ = doReq(t, ts.URL, "POST", "/pets/"+petID+"/alerts/"+mres.Alerts[0].ID+"/read", nil)
	require.Equal(t, http.StatusOK, st)

	st, body = doReq(t, ts.URL, "GET", "/pets/"+petID+"/alerts?unread=true", nil)
	require.Equal(t, http.StatusOK, st)
	assert.Equal(t, "[]", strings.TrimSpace(string(body)))

	// validación
	st, _ = doReq(t, ts.URL, "PUT", "/pets/"+petID+"/records", map[string]any{"date": "ayer"})
	assert.Equal(t, http.StatusBadRequest, st)
	st, _ = doReq(t, ts.URL, "POST", "/pets/"+petID+"/metrics", map[string]any{"type": "temperature", "value": 38})
	assert.Equal(t, http.StatusBadRequest, st)

	st, body = doReq(t, ts.URL, "GET", "/pets/"+petID+"/metrics?type=weight&limit=1", nil)
	require.Equal(t, http.StatusOK, st)
	var ms []map[string]any
	require.NoError(t, json.Unmarshal(body, &ms))
	assert.Len(t, ms, 1)
}

func TestHTTP_Goals(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	petID := "rex"
	st, body := doReq(t, ts.URL, "POST", "/pets/"+petID+"/goals", map[string]any{
		"type":         "activity_increase",
		"title":        "Llegar a 8000 pasos",
		"target_value": 8000,
		"unit":         "steps",
	})
	require.Equal(t, http.StatusCreated, st, string(body))
	var g struct {
		ID       string  `json:"id"`
		Progress float64 `json:"progress"`
		Active   bool    `json:"active"`
	}
	require.NoError(t, json.Unmarshal(body, &g))
	assert.True(t, g.Active)
	assert.Zero(t, g.Progress)

	st, _ = doReq(t, ts.URL, "PUT", "/pets/"+petID+"/records", map[string]any{
		"date":     time.Now().UTC().Format("2006-01-02"),
		"activity": map[string]any{"steps": 6000},
	})
	require.Equal(t, http.StatusOK, st)

	st, body = doReq(t, ts.URL, "POST", "/pets/"+petID+"/goals/refresh", nil)
	require.Equal(t, http.StatusOK, st)
	var refreshed []struct {
		CurrentValue float64 `json:"current_value"`
		Progress     float64 `json:"progress"`
	}
	require.NoError(t, json.Unmarshal(body, &refreshed))
	require.Len(t, refreshed, 1)
	assert.Equal(t, 6000.0, refreshed[0].CurrentValue)
	assert.Equal(t, 75.0, refreshed[0].Progress)

	st, _ = doReq(t, ts.URL, "PATCH", "/pets/"+petID+"/goals/"+g.ID, map[string]any{"active": false})
	require.Equal(t, http.StatusOK, st)

	st, body = doReq(t, ts.URL, "GET", "/pets/"+petID+"/goals?active=true", nil)
	require.Equal(t, http.StatusOK, st)
	assert.Equal(t, "[]", strings.TrimSpace(string(body)))

	st, _ = doReq(t, ts.URL, "PATCH", "/pets/"+petID+"/goals/nope", map[string]any{"active": true})
	assert.Equal(t, http.StatusNotFound, st)

	st, _ = doReq(t, ts.URL, "POST", "/pets/"+petID+"/goals", map[string]any{"type": "custom", "target_value": 0})
	assert.Equal(t, http.StatusBadRequest, st)
}

func TestHTTP_HealthAndSwagger(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	st, body := doReq(t, ts.URL, "GET", "/health", nil)
	assert.Equal(t, http.StatusOK, st)
	assert.Equal(t, "ok", string(body))

	st, body = doReq(t, ts.URL, "GET", "/swagger/doc.json", nil)
	require.Equal(t, http.StatusOK, st)
	assert.Contains(t, string(body), "/pets/{petID}/recommendations")
}

func createPet(t *testing.T, baseURL string, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/pets", payload)
	require.Equal(t, http.StatusCreated, st, string(body))

	var resp struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(body, &resp))
	require.NotEmpty(t, resp.ID, string(body))
	return resp.ID
}

func doReq(t *testing.T, baseURL, method, path string, payload any) (int, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, body)
	require.NoError(t, err)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, b
}
