package health

import (
	"math"
	"strings"
)

// RecordInput es un envío (parcial) de un registro diario. nil = campo no enviado.
type RecordInput struct {
	PetID string
	Date  string // YYYY-MM-DD o RFC3339

	Weight      *float64
	WaterIntake *float64
	FoodIntake  *float64

	Activity    *Activity
	Sleep       *Sleep
	Mood        *Mood
	Medications []Medication

	Notes *string
}

func (in RecordInput) validate() error {
	if strings.TrimSpace(in.PetID) == "" {
		return invalid("pet_id", "required")
	}
	if _, ok := ParseDate(strings.TrimSpace(in.Date)); !ok {
		return invalid("date", "must be YYYY-MM-DD or RFC3339")
	}
	for _, f := range []struct {
		name string
		v    *float64
	}{
		{"weight", in.Weight},
		{"water_intake", in.WaterIntake},
		{"food_intake", in.FoodIntake},
	} {
		if f.v != nil && (math.IsNaN(*f.v) || math.IsInf(*f.v, 0) || *f.v < 0) {
			return invalid(f.name, "must be a non-negative number")
		}
	}
	if a := in.Activity; a != nil {
		if a.Steps < 0 || a.ExerciseMinutes < 0 {
			return invalid("activity", "steps and exercise_minutes must be non-negative")
		}
		switch a.Intensity {
		case "", IntensityLow, IntensityModerate, IntensityHigh:
		default:
			return invalid("activity.intensity", "must be low, moderate or high")
		}
	}
	if sl := in.Sleep; sl != nil {
		if sl.Hours < 0 || sl.Hours > 24 {
			return invalid("sleep.hours", "must be between 0 and 24")
		}
		switch sl.Quality {
		case "", SleepPoor, SleepFair, SleepGood, SleepExcellent:
		default:
			return invalid("sleep.quality", "must be poor, fair, good or excellent")
		}
	}
	if m := in.Mood; m != nil {
		for _, v := range []int{m.Energy, m.Happiness, m.Appetite} {
			if v < 1 || v > 5 {
				return invalid("mood", "energy, happiness and appetite must be between 1 and 5")
			}
		}
	}
	for _, med := range in.Medications {
		if strings.TrimSpace(med.Name) == "" {
			return invalid("medications.name", "required")
		}
	}
	return nil
}

// applyTo sobreescribe en rec los campos enviados. Los objetos anidados se reemplazan completos.
func (in RecordInput) applyTo(rec *DailyHealthRecord) {
	if in.Weight != nil {
		rec.Weight = floatPtr(*in.Weight)
	}
	if in.WaterIntake != nil {
		rec.WaterIntake = floatPtr(*in.WaterIntake)
	}
	if in.FoodIntake != nil {
		rec.FoodIntake = floatPtr(*in.FoodIntake)
	}
	if in.Activity != nil {
		a := *in.Activity
		rec.Activity = &a
	}
	if in.Sleep != nil {
		sl := *in.Sleep
		rec.Sleep = &sl
	}
	if in.Mood != nil {
		m := *in.Mood
		rec.Mood = &m
	}
	if in.Medications != nil {
		rec.Medications = append([]Medication(nil), in.Medications...)
	}
	if in.Notes != nil {
		rec.Notes = strings.TrimSpace(*in.Notes)
	}
}

// foldMetric vuelca el valor de una métrica en el campo del registro que le corresponde.
// Devuelve false si el tipo no tiene campo asociado.
func foldMetric(rec *DailyHealthRecord, m HealthMetric) bool {
	switch m.Type {
	case MetricWeight:
		rec.Weight = floatPtr(m.Value)
	case MetricWater:
		rec.WaterIntake = floatPtr(m.Value)
	case MetricFood:
		rec.FoodIntake = floatPtr(m.Value)
	case MetricActivity:
		a := Activity{}
		if rec.Activity != nil {
			a = *rec.Activity
		}
		a.Steps = int(math.Round(m.Value))
		rec.Activity = &a
	default:
		return false
	}
	return true
}

func floatPtr(v float64) *float64 { return &v }
