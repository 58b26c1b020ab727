// Package alerts contiene las reglas que convierten un registro diario en alertas de salud.
package alerts

import (
	"fmt"
	"math"
	"strings"

	"pet-health-analytics/internal/domain/health"
)

const (
	weightHistorySize      = 7
	weightWarningRatio     = 0.10
	weightCriticalRatio    = 0.20
	lowActivityStepsCutoff = 3000
)

// Engine implementa health.AlertEvaluator. No guarda estado: ID, PetID y CreatedAt los completa el store.
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

// Evaluate aplica cada regla de forma independiente; un registro puede disparar varias alertas.
func (e *Engine) Evaluate(written health.DailyHealthRecord, history []health.DailyHealthRecord) []health.HealthAlert {
	out := make([]health.HealthAlert, 0, 3)

	if a, ok := weightChange(written, history); ok {
		out = append(out, a)
	}
	if a, ok := lowActivity(written); ok {
		out = append(out, a)
	}
	if a, ok := missedMedication(written); ok {
		out = append(out, a)
	}
	return out
}

// weightChange compara contra la media de las últimas 7 lecturas anteriores a la fecha escrita.
func weightChange(written health.DailyHealthRecord, history []health.DailyHealthRecord) (health.HealthAlert, bool) {
	if written.Weight == nil {
		return health.HealthAlert{}, false
	}

	// history viene en orden desc por fecha.
	prior := make([]float64, 0, weightHistorySize)
	for _, rec := range history {
		if !rec.Date.Before(written.Date) || rec.Weight == nil {
			continue
		}
		prior = append(prior, *rec.Weight)
		if len(prior) == weightHistorySize {
			break
		}
	}
	if len(prior) == 0 {
		return health.HealthAlert{}, false
	}

	avg := mean(prior)
	if avg <= 0 {
		return health.HealthAlert{}, false
	}

	current := *written.Weight
	ratio := math.Abs(current-avg) / avg

	var sev health.Severity
	switch {
	case ratio > weightCriticalRatio:
		sev = health.SeverityCritical
	case ratio > weightWarningRatio:
		sev = health.SeverityWarning
	default:
		return health.HealthAlert{}, false
	}

	direction := "aumento"
	if current < avg {
		direction = "pérdida"
	}

	return health.HealthAlert{
		Type:     health.AlertWeightChange,
		Severity: sev,
		Title:    "Cambio de peso significativo",
		Message: fmt.Sprintf("Se detectó un %s de peso del %.1f%% respecto al promedio reciente (%.2f kg → %.2f kg).",
			direction, ratio*100, avg, current),
		Recommendations: []string{
			"Consulta con tu veterinario sobre este cambio de peso",
			"Revisa las porciones y la frecuencia de las comidas",
			"Registra el peso a diario durante la próxima semana",
		},
	}, true
}

func lowActivity(written health.DailyHealthRecord) (health.HealthAlert, bool) {
	if written.Activity == nil || written.Activity.Steps >= lowActivityStepsCutoff {
		return health.HealthAlert{}, false
	}
	return health.HealthAlert{
		Type:     health.AlertActivityLow,
		Severity: health.SeverityWarning,
		Title:    "Actividad física baja",
		Message:  fmt.Sprintf("Hoy se registraron %d pasos, por debajo del mínimo recomendado de %d.", written.Activity.Steps, lowActivityStepsCutoff),
		Recommendations: []string{
			"Aumenta gradualmente la duración de los paseos",
			"Incorpora sesiones cortas de juego durante el día",
			"Si la falta de energía persiste, consulta con tu veterinario",
		},
	}, true
}

func missedMedication(written health.DailyHealthRecord) (health.HealthAlert, bool) {
	missed := make([]string, 0)
	for _, m := range written.Medications {
		if !m.Given {
			missed = append(missed, m.Name)
		}
	}
	if len(missed) == 0 {
		return health.HealthAlert{}, false
	}
	return health.HealthAlert{
		Type:     health.AlertMedicationMissed,
		Severity: health.SeverityCritical,
		Title:    "Medicación no administrada",
		Message:  "No se registró la administración de: " + strings.Join(missed, ", ") + ".",
		Recommendations: []string{
			"Administra la dosis pendiente si aún está dentro del horario indicado",
			"No dupliques la dosis sin consultar al veterinario",
			"Configura un recordatorio para las próximas tomas",
		},
	}, true
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
