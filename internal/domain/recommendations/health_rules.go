package recommendations

import (
	"fmt"
	"math"

	"pet-health-analytics/internal/domain/health"
)

const (
	weightTrendRecords      = 7
	weightTrendMinRateKg    = 0.1
	consistencyWindowDays   = 30
	consistencyMinRatio     = 0.7
	seniorCheckupAgeMonths  = 72
	confidenceWeightMonitor = 80
	confidenceConsistency   = 75
	confidenceSeniorCheckup = 90
)

// WeightTrend resume la evolución del peso en los últimos registros.
type WeightTrend struct {
	Increasing bool
	Decreasing bool
	// Rate es el cambio medio en kg entre lecturas consecutivas.
	Rate float64
}

// RecentWeightTrend usa los últimos n registros (history en orden desc) y compara la primera
// lectura de peso con la última.
func RecentWeightTrend(history []health.DailyHealthRecord, n int) WeightTrend {
	if len(history) > n {
		history = history[:n]
	}
	weights := make([]float64, 0, len(history))
	for i := len(history) - 1; i >= 0; i-- {
		if w := history[i].Weight; w != nil {
			weights = append(weights, *w)
		}
	}
	if len(weights) < 2 {
		return WeightTrend{}
	}
	delta := weights[len(weights)-1] - weights[0]
	return WeightTrend{
		Increasing: delta > 0,
		Decreasing: delta < 0,
		Rate:       math.Abs(delta) / float64(len(weights)-1),
	}
}

// ConsistencyRatio = registros recientes / 30, con tope 1.
func ConsistencyRatio(recordCount int) float64 {
	return math.Min(float64(recordCount)/consistencyWindowDays, 1)
}

// Health evalúa las reglas de monitoreo; pueden coincidir varias.
func Health(c Context) []HealthRecommendation {
	out := make([]HealthRecommendation, 0, 3)

	if tr := RecentWeightTrend(c.History, weightTrendRecords); tr.Increasing && tr.Rate > weightTrendMinRateKg {
		out = append(out, HealthRecommendation{
			Kind:    HealthWeightMonitoring,
			Urgency: UrgencySoon,
			Details: Details{
				ID:         string(HealthWeightMonitoring),
				Title:      "Monitorear aumento de peso",
				Confidence: confidenceWeightMonitor,
				Rationale:  fmt.Sprintf("El peso viene subiendo unos %.2f kg entre registros en los últimos días.", tr.Rate),
				Tips: []string{
					"Registra el peso a la misma hora cada día",
					"Revisa premios y restos de comida fuera de la ración",
					"Consulta al veterinario si la tendencia continúa dos semanas",
				},
				ExpectedOutcomes: []string{
					"Detección temprana de sobrepeso",
				},
			},
		})
	}

	if ratio := ConsistencyRatio(len(c.History)); ratio < consistencyMinRatio {
		out = append(out, HealthRecommendation{
			Kind:    HealthRecordConsistency,
			Urgency: UrgencyRoutine,
			Details: Details{
				ID:         string(HealthRecordConsistency),
				Title:      "Registrar con más constancia",
				Confidence: confidenceConsistency,
				Rationale:  fmt.Sprintf("Solo hay registros en el %.0f%% de los últimos 30 días.", ratio*100),
				Tips: []string{
					"Activa un recordatorio diario",
					"Registra al menos peso y actividad cada día",
				},
				ExpectedOutcomes: []string{
					"Tendencias y alertas más confiables",
				},
			},
		})
	}

	if c.AgeKnown && c.AgeMonths > seniorCheckupAgeMonths {
		out = append(out, HealthRecommendation{
			Kind:              HealthSeniorCheckup,
			Urgency:           UrgencySoon,
			VeterinaryConsult: true,
			Details: Details{
				ID:         string(HealthSeniorCheckup),
				Title:      "Chequeo preventivo senior",
				Confidence: confidenceSeniorCheckup,
				Rationale:  "A partir de los 6 años se recomiendan controles veterinarios semestrales.",
				Tips: []string{
					"Agenda un control con análisis de sangre y orina",
					"Consulta sobre salud dental y articular",
				},
				ExpectedOutcomes: []string{
					"Detección temprana de enfermedades propias de la edad",
				},
			},
		})
	}

	return out
}
