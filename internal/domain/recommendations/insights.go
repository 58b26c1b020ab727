package recommendations

import "fmt"

const (
	weightBand         = 0.10
	lowStepsAverage    = 5000
	highStepsAverage   = 12000
	minRecordsInsights = 20
)

// BuildInsights arma observaciones y áreas de mejora a partir del contexto.
func BuildInsights(c Context) Insights {
	out := Insights{Observations: []string{}, ImprovementAreas: []string{}}

	if avg, ok := averageWeight(c.History); ok {
		if cur, ok := c.CurrentWeight(); ok {
			switch {
			case cur > avg*(1+weightBand):
				out.Observations = append(out.Observations,
					fmt.Sprintf("Tendencia de aumento de peso: %.1f kg frente a un promedio de %.1f kg", cur, avg))
				out.ImprovementAreas = append(out.ImprovementAreas, "Control de peso")
			case cur < avg*(1-weightBand):
				out.Observations = append(out.Observations,
					fmt.Sprintf("Tendencia de pérdida de peso: %.1f kg frente a un promedio de %.1f kg", cur, avg))
				out.ImprovementAreas = append(out.ImprovementAreas, "Seguimiento de la pérdida de peso")
			default:
				out.Observations = append(out.Observations, "Peso estable en el período")
			}
		}
	}

	if avg, ok := averageSteps(c.History); ok {
		switch {
		case avg < lowStepsAverage:
			out.Observations = append(out.Observations,
				fmt.Sprintf("Actividad baja: %.0f pasos diarios en promedio", avg))
			out.ImprovementAreas = append(out.ImprovementAreas, "Nivel de actividad física")
		case avg > highStepsAverage:
			out.Observations = append(out.Observations,
				fmt.Sprintf("Nivel de energía alto: %.0f pasos diarios en promedio", avg))
		}
	}

	if len(c.History) < minRecordsInsights {
		out.Observations = append(out.Observations,
			fmt.Sprintf("Pocos registros en el período (%d); los análisis pueden ser poco precisos", len(c.History)))
		out.ImprovementAreas = append(out.ImprovementAreas, "Constancia en el registro diario")
	}

	if n := len(c.UnreadAlerts); n > 0 {
		out.Observations = append(out.Observations, fmt.Sprintf("Hay %d alertas de salud sin leer", n))
	}

	return out
}
