package health

type ActivityIntensity string

const (
	IntensityLow      ActivityIntensity = "low"
	IntensityModerate ActivityIntensity = "moderate"
	IntensityHigh     ActivityIntensity = "high"
)

type SleepQuality string

const (
	SleepPoor      SleepQuality = "poor"
	SleepFair      SleepQuality = "fair"
	SleepGood      SleepQuality = "good"
	SleepExcellent SleepQuality = "excellent"
)

type MetricType string

const (
	MetricWeight     MetricType = "weight"
	MetricActivity   MetricType = "activity"
	MetricFood       MetricType = "food"
	MetricWater      MetricType = "water"
	MetricSleep      MetricType = "sleep"
	MetricMedication MetricType = "medication"
	MetricMood       MetricType = "mood"
)

// DefaultUnits son las unidades usadas cuando una métrica llega sin unidad.
var DefaultUnits = map[MetricType]string{
	MetricWeight:     "kg",
	MetricActivity:   "steps",
	MetricFood:       "g",
	MetricWater:      "ml",
	MetricSleep:      "hours",
	MetricMedication: "dose",
	MetricMood:       "score",
}

func (t MetricType) Valid() bool {
	_, ok := DefaultUnits[t]
	return ok
}

type AlertType string

const (
	AlertWeightChange     AlertType = "weight_change"
	AlertActivityLow      AlertType = "activity_low"
	AlertMedicationMissed AlertType = "medication_missed"
	AlertAbnormalBehavior AlertType = "abnormal_behavior"
)

type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

type GoalType string

const (
	GoalWeightLoss       GoalType = "weight_loss"
	GoalWeightGain       GoalType = "weight_gain"
	GoalActivityIncrease GoalType = "activity_increase"
	GoalCustom           GoalType = "custom"
)

func (t GoalType) Valid() bool {
	switch t {
	case GoalWeightLoss, GoalWeightGain, GoalActivityIncrease, GoalCustom:
		return true
	}
	return false
}
