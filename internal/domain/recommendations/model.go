package recommendations

import (
	"time"

	"pet-health-analytics/internal/domain/health"
)

type Family string

const (
	FamilyNutrition Family = "nutrition"
	FamilyActivity  Family = "activity"
	FamilyHealth    Family = "health"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

type Urgency string

const (
	UrgencyImmediate Urgency = "immediate"
	UrgencySoon      Urgency = "soon"
	UrgencyRoutine   Urgency = "routine"
)

type ActivityLevel string

const (
	ActivityLow      ActivityLevel = "low"
	ActivityModerate ActivityLevel = "moderate"
	ActivityHigh     ActivityLevel = "high"
)

type Season string

const (
	SeasonSpring Season = "spring"
	SeasonSummer Season = "summer"
	SeasonAutumn Season = "autumn"
	SeasonWinter Season = "winter"
)

type NutritionKind string

const (
	NutritionPuppy            NutritionKind = "puppy-nutrition"
	NutritionWeightManagement NutritionKind = "weight-management"
	NutritionHighEnergy       NutritionKind = "high-energy-nutrition"
	NutritionSummerHydration  NutritionKind = "summer-hydration"
)

type ActivityKind string

const (
	ActivitySeniorRoutine ActivityKind = "senior-routine"
	ActivityDailyRoutine  ActivityKind = "daily-routine"
	ActivityIncrease      ActivityKind = "increase-activity"
)

type HealthKind string

const (
	HealthWeightMonitoring  HealthKind = "weight-monitoring"
	HealthRecordConsistency HealthKind = "record-consistency"
	HealthSeniorCheckup     HealthKind = "senior-checkup"
)

// ProductRef apunta a un producto del catálogo de comercio (externo al core).
type ProductRef struct {
	SKU      string `json:"sku"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// Details son los campos comunes a las tres familias. Inmutables una vez generados.
type Details struct {
	ID               string      `json:"id"`
	Title            string      `json:"title"`
	Confidence       int         `json:"confidence"` // 0..100
	Rationale        string      `json:"rationale"`
	Tips             []string    `json:"tips"`
	ExpectedOutcomes []string    `json:"expected_outcomes"`
	Product          *ProductRef `json:"product,omitempty"`
}

// Recommendation es la unión de NutritionRecommendation, ActivityRecommendation y HealthRecommendation.
type Recommendation interface {
	Family() Family
	Info() Details
	sealed()
}

type NutritionRecommendation struct {
	Details
	Kind     NutritionKind `json:"kind"`
	Priority Priority      `json:"priority"`
}

type ActivityRecommendation struct {
	Details
	Kind            ActivityKind             `json:"kind"`
	Priority        Priority                 `json:"priority"`
	Intensity       health.ActivityIntensity `json:"intensity"`
	DurationMinutes int                      `json:"duration_minutes"`
	Frequency       string                   `json:"frequency"`
}

type HealthRecommendation struct {
	Details
	Kind              HealthKind `json:"kind"`
	Urgency           Urgency    `json:"urgency"`
	VeterinaryConsult bool       `json:"veterinary_consult"`
}

func (NutritionRecommendation) Family() Family { return FamilyNutrition }
func (ActivityRecommendation) Family() Family  { return FamilyActivity }
func (HealthRecommendation) Family() Family    { return FamilyHealth }

func (r NutritionRecommendation) Info() Details { return r.Details }
func (r ActivityRecommendation) Info() Details  { return r.Details }
func (r HealthRecommendation) Info() Details    { return r.Details }

func (NutritionRecommendation) sealed() {}
func (ActivityRecommendation) sealed()  {}
func (HealthRecommendation) sealed()    {}

type Summary struct {
	TotalRecommendations        int    `json:"total_recommendations"`
	HighPriorityCount           int    `json:"high_priority_count"`
	EstimatedImplementationTime string `json:"estimated_implementation_time"`
}

type Insights struct {
	Observations     []string `json:"observations"`
	ImprovementAreas []string `json:"improvement_areas"`
}

// ContextSnapshot resume el contexto usado, para explicar el resultado.
type ContextSnapshot struct {
	AgeMonths     *int          `json:"age_months,omitempty"`
	ActivityLevel ActivityLevel `json:"activity_level"`
	Season        Season        `json:"season"`
	RecordCount   int           `json:"record_count"`
	UnreadAlerts  int           `json:"unread_alerts"`
}

// Package es el resultado de una generación para una mascota.
type Package struct {
	PetID       string                    `json:"pet_id"`
	GeneratedAt time.Time                 `json:"generated_at"`
	Context     ContextSnapshot           `json:"context"`
	Nutrition   []NutritionRecommendation `json:"nutrition"`
	Activity    []ActivityRecommendation  `json:"activity"`
	Health      []HealthRecommendation    `json:"health"`
	Summary     Summary                   `json:"summary"`
	Insights    Insights                  `json:"insights"`
}

// All devuelve las recomendaciones de las tres familias en orden nutrición, actividad, salud.
func (p Package) All() []Recommendation {
	out := make([]Recommendation, 0, len(p.Nutrition)+len(p.Activity)+len(p.Health))
	for _, r := range p.Nutrition {
		out = append(out, r)
	}
	for _, r := range p.Activity {
		out = append(out, r)
	}
	for _, r := range p.Health {
		out = append(out, r)
	}
	return out
}
