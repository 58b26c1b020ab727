package recommendations

import (
	"fmt"
	"math"

	"pet-health-analytics/internal/domain/health"
	"pet-health-analytics/internal/domain/pets"
)

const (
	seniorActivityAgeMonths = 84

	confidenceSeniorRoutine = 90
	confidenceDailyRoutine  = 85
	confidenceIncrease      = 80
)

var productInteractiveToy = &ProductRef{SKU: "TOY-INTERACTIVE-01", Name: "Juguete interactivo dispensador", Category: "toys"}

type routine struct {
	minutes   int
	frequency string
}

var speciesRoutines = map[pets.Species]routine{
	pets.SpeciesDog: {minutes: 45, frequency: "2 veces al día"},
	pets.SpeciesCat: {minutes: 20, frequency: "3 veces por semana"},
}

var levelScale = map[ActivityLevel]float64{
	ActivityLow:      0.75,
	ActivityModerate: 1.0,
	ActivityHigh:     1.25,
}

var levelIntensity = map[ActivityLevel]health.ActivityIntensity{
	ActivityLow:      health.IntensityLow,
	ActivityModerate: health.IntensityModerate,
	ActivityHigh:     health.IntensityHigh,
}

// Activity evalúa la rutina (senior o por especie) y, aparte, la de aumento de actividad.
func Activity(c Context) []ActivityRecommendation {
	out := make([]ActivityRecommendation, 0, 2)

	if c.AgeKnown && c.AgeMonths > seniorActivityAgeMonths {
		out = append(out, ActivityRecommendation{
			Kind:            ActivitySeniorRoutine,
			Priority:        PriorityMedium,
			Intensity:       health.IntensityLow,
			DurationMinutes: 20,
			Frequency:       "1-2 veces al día",
			Details: Details{
				ID:         string(ActivitySeniorRoutine),
				Title:      "Rutina de bajo impacto para senior",
				Confidence: confidenceSeniorRoutine,
				Rationale:  fmt.Sprintf("Con %d meses, conviene priorizar movilidad articular sobre intensidad.", c.AgeMonths),
				Tips: []string{
					"Paseos cortos sobre superficies blandas",
					"Ejercicios suaves de estiramiento",
					"Observa signos de cansancio o dolor",
				},
				ExpectedOutcomes: []string{
					"Mejor movilidad articular",
					"Mantenimiento del tono muscular",
				},
			},
		})
	} else {
		base, ok := speciesRoutines[c.Pet.Species]
		if !ok {
			base = speciesRoutines[pets.SpeciesCat]
		}
		minutes := int(math.Round(float64(base.minutes) * levelScale[c.ActivityLevel]))
		out = append(out, ActivityRecommendation{
			Kind:            ActivityDailyRoutine,
			Priority:        PriorityMedium,
			Intensity:       levelIntensity[c.ActivityLevel],
			DurationMinutes: minutes,
			Frequency:       base.frequency,
			Details: Details{
				ID:         string(ActivityDailyRoutine),
				Title:      "Rutina de ejercicio",
				Confidence: confidenceDailyRoutine,
				Rationale:  fmt.Sprintf("Rutina ajustada a la especie y al nivel de actividad actual (%s).", c.ActivityLevel),
				Tips: []string{
					fmt.Sprintf("Sesiones de %d minutos, %s", minutes, base.frequency),
					"Alterna paseo, juego y estimulación mental",
				},
				ExpectedOutcomes: []string{
					"Condición física estable",
					"Menos conductas por aburrimiento",
				},
			},
		})
	}

	if c.ActivityLevel == ActivityLow {
		out = append(out, ActivityRecommendation{
			Kind:            ActivityIncrease,
			Priority:        PriorityHigh,
			Intensity:       health.IntensityModerate,
			DurationMinutes: 15,
			Frequency:       "todos los días",
			Details: Details{
				ID:         string(ActivityIncrease),
				Title:      "Aumentar la actividad diaria",
				Confidence: confidenceIncrease,
				Rationale:  "El promedio de pasos registrado es bajo; sumar actividad de a poco mejora el peso y el ánimo.",
				Tips: []string{
					"Agrega 10-15 minutos extra de paseo o juego cada día",
					"Usa juguetes interactivos para motivar el movimiento",
					"Fija un objetivo semanal de pasos y registra el avance",
				},
				ExpectedOutcomes: []string{
					"Aumento progresivo de pasos diarios",
					"Mejor estado de ánimo y descanso",
				},
				Product: productInteractiveToy,
			},
		})
	}

	return out
}
