package recommendations

import "fmt"

const (
	puppyAgeMonths     = 12
	overweightRatio    = 1.15
	confidencePuppy    = 95
	confidenceWeight   = 85
	confidenceEnergy   = 80
	confidenceHydrated = 90
)

var (
	productPuppyFood  = &ProductRef{SKU: "FOOD-GROWTH-01", Name: "Alimento balanceado para cachorros", Category: "food"}
	productLightFood  = &ProductRef{SKU: "FOOD-LIGHT-01", Name: "Alimento light control de peso", Category: "food"}
	productHighEnergy = &ProductRef{SKU: "FOOD-ENERGY-01", Name: "Alimento alta energía", Category: "food"}
	productFountain   = &ProductRef{SKU: "ACC-FOUNTAIN-01", Name: "Fuente de agua con filtro", Category: "accessories"}
)

// Nutrition evalúa las reglas de nutrición; pueden coincidir varias.
func Nutrition(c Context) []NutritionRecommendation {
	out := make([]NutritionRecommendation, 0, 4)

	if c.AgeKnown && c.AgeMonths < puppyAgeMonths {
		out = append(out, NutritionRecommendation{
			Kind:     NutritionPuppy,
			Priority: PriorityHigh,
			Details: Details{
				ID:         string(NutritionPuppy),
				Title:      "Nutrición para crecimiento",
				Confidence: confidencePuppy,
				Rationale:  fmt.Sprintf("Con %d meses, %s está en etapa de crecimiento y necesita más proteína, calcio y calorías por kilo.", c.AgeMonths, c.Pet.Name),
				Tips: []string{
					"Usa un alimento formulado para cachorros",
					"Divide la ración diaria en 3 o 4 comidas",
					"Evita suplementos de calcio sin indicación veterinaria",
				},
				ExpectedOutcomes: []string{
					"Crecimiento óseo y muscular adecuado",
					"Peso dentro de la curva esperada para la edad",
				},
				Product: productPuppyFood,
			},
		})
	}

	if w, ok := c.CurrentWeight(); ok {
		ideal := IdealWeight(c.Pet.Species, c.Pet.Breed)
		if w > ideal*overweightRatio {
			out = append(out, NutritionRecommendation{
				Kind:     NutritionWeightManagement,
				Priority: PriorityHigh,
				Details: Details{
					ID:         string(NutritionWeightManagement),
					Title:      "Control de peso",
					Confidence: confidenceWeight,
					Rationale:  fmt.Sprintf("El peso actual (%.1f kg) supera en más de un 15%% el peso ideal estimado (%.1f kg).", w, ideal),
					Tips: []string{
						"Reduce la ración diaria entre un 10% y un 15%",
						"Reemplaza premios por snacks bajos en calorías",
						"Pesa a tu mascota una vez por semana",
					},
					ExpectedOutcomes: []string{
						"Pérdida de peso gradual y sostenida",
						"Menor carga sobre articulaciones",
					},
					Product: productLightFood,
				},
			})
		}
	}

	if c.ActivityLevel == ActivityHigh {
		out = append(out, NutritionRecommendation{
			Kind:     NutritionHighEnergy,
			Priority: PriorityMedium,
			Details: Details{
				ID:         string(NutritionHighEnergy),
				Title:      "Nutrición para alta actividad",
				Confidence: confidenceEnergy,
				Rationale:  "El nivel de actividad registrado es alto y aumenta el requerimiento energético diario.",
				Tips: []string{
					"Elige un alimento con mayor densidad calórica y proteica",
					"Ofrece agua antes y después del ejercicio",
				},
				ExpectedOutcomes: []string{
					"Energía sostenida durante la actividad",
					"Mantenimiento de la masa muscular",
				},
				Product: productHighEnergy,
			},
		})
	}

	if c.Season == SeasonSummer {
		out = append(out, NutritionRecommendation{
			Kind:     NutritionSummerHydration,
			Priority: PriorityMedium,
			Details: Details{
				ID:         string(NutritionSummerHydration),
				Title:      "Hidratación en verano",
				Confidence: confidenceHydrated,
				Rationale:  "Las altas temperaturas aumentan la pérdida de líquidos.",
				Tips: []string{
					"Mantén agua fresca disponible todo el día",
					"Incorpora alimento húmedo en alguna comida",
					"Evita la actividad intensa en las horas de más calor",
				},
				ExpectedOutcomes: []string{
					"Menor riesgo de golpe de calor",
					"Consumo de agua estable",
				},
				Product: productFountain,
			},
		})
	}

	return out
}
