package health

import "time"

// DateLayout es el formato de fecha calendario de los registros diarios.
const DateLayout = "2006-01-02"

type Activity struct {
	Steps           int               `json:"steps"`
	ExerciseMinutes int               `json:"exercise_minutes"`
	Intensity       ActivityIntensity `json:"intensity,omitempty"`
}

type Sleep struct {
	Hours   float64      `json:"hours"`
	Quality SleepQuality `json:"quality,omitempty"`
}

// Mood usa escalas 1..5.
type Mood struct {
	Energy    int `json:"energy"`
	Happiness int `json:"happiness"`
	Appetite  int `json:"appetite"`
}

type Medication struct {
	Name   string `json:"name"`
	Dosage string `json:"dosage"`
	Time   string `json:"time"`
	Given  bool   `json:"given"`
}

// DailyHealthRecord agrega todo lo registrado para una mascota en un día calendario.
// Hay a lo sumo uno por (PetID, Date).
type DailyHealthRecord struct {
	ID    string
	PetID string
	Date  time.Time // medianoche UTC

	Weight      *float64 // kg
	WaterIntake *float64 // ml
	FoodIntake  *float64 // g

	Activity    *Activity
	Sleep       *Sleep
	Mood        *Mood
	Medications []Medication

	Notes string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HealthMetric es una observación puntual; el log es append-only.
type HealthMetric struct {
	ID        string
	PetID     string
	Type      MetricType
	Value     float64
	Unit      string
	Timestamp time.Time
}

type HealthAlert struct {
	ID       string
	PetID    string
	RecordID string

	Type     AlertType
	Severity Severity
	Title    string
	Message  string

	Recommendations []string

	IsRead    bool
	CreatedAt time.Time
}

type HealthGoal struct {
	ID    string
	PetID string
	Type  GoalType
	Title string

	TargetValue  float64
	Unit         string
	TargetDate   *time.Time
	CurrentValue float64

	// Progress se deriva siempre de CurrentValue/TargetValue al leer.
	Progress float64
	Active   bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DayOf normaliza t a su fecha calendario (medianoche UTC).
func DayOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// CalendarDay es la fecha de t en su propio offset, normalizada a medianoche UTC.
// Registros (RFC3339) y métricas usan esta misma regla.
func CalendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate acepta YYYY-MM-DD o RFC3339.
func ParseDate(s string) (time.Time, bool) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return CalendarDay(t), true
	}
	return time.Time{}, false
}
