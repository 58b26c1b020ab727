package analytics

import (
	"context"
	"math"
	"strings"

	"pet-health-analytics/internal/domain/health"
)

type Direction string

const (
	DirectionIncreasing Direction = "increasing"
	DirectionDecreasing Direction = "decreasing"
	DirectionStable     Direction = "stable"
)

// stableRatio: cambio relativo por debajo del cual la serie se considera estable.
const stableRatio = 0.05

type Trend struct {
	Direction Direction `json:"direction"`
	Change    float64   `json:"change"`
}

// ComputeTrend compara la media de la segunda mitad de la serie contra la de la primera.
// La serie va en orden cronológico. Con menos de 2 puntos devuelve {stable, 0}.
func ComputeTrend(series []float64) Trend {
	if len(series) < 2 {
		return Trend{Direction: DirectionStable}
	}

	mid := len(series) / 2
	first := mean(series[:mid])
	second := mean(series[mid:])
	change := second - first

	if change == 0 {
		return Trend{Direction: DirectionStable}
	}
	if first != 0 && math.Abs(change)/math.Abs(first) < stableRatio {
		return Trend{Direction: DirectionStable, Change: change}
	}
	if change > 0 {
		return Trend{Direction: DirectionIncreasing, Change: change}
	}
	return Trend{Direction: DirectionDecreasing, Change: change}
}

type Significance string

const (
	SignificanceHigh     Significance = "high"
	SignificanceModerate Significance = "moderate"
)

type HealthTrend struct {
	Metric       health.MetricType `json:"metric"`
	Unit         string            `json:"unit"`
	Period       Period            `json:"period"`
	Direction    Direction         `json:"direction"`
	Change       float64           `json:"change"`
	Significance Significance      `json:"significance"`
	DataPoints   int               `json:"data_points"`
}

// minTrendPoints: por debajo no se reporta tendencia para esa métrica.
const minTrendPoints = 3

type trendSeries struct {
	metric    health.MetricType
	threshold float64
	value     func(health.DailyHealthRecord) (float64, bool)
}

var trendSeriesDefs = []trendSeries{
	{metric: health.MetricWeight, threshold: 0.5, value: weightOf},
	{metric: health.MetricActivity, threshold: 1000, value: stepsOf},
	{metric: health.MetricWater, threshold: 100, value: waterOf},
}

// GetHealthTrends calcula la tendencia de peso, pasos y agua dentro del período.
func (s *Service) GetHealthTrends(ctx context.Context, petID string, period Period) ([]HealthTrend, error) {
	records, err := s.window(ctx, strings.TrimSpace(petID), period)
	if err != nil {
		return nil, err
	}

	// store devuelve desc; las series van cronológicas
	chrono := make([]health.DailyHealthRecord, len(records))
	for i, rec := range records {
		chrono[len(records)-1-i] = rec
	}

	out := make([]HealthTrend, 0, len(trendSeriesDefs))
	for _, def := range trendSeriesDefs {
		series := extract(chrono, def.value)
		if len(series) < minTrendPoints {
			continue
		}
		tr := ComputeTrend(series)
		sig := SignificanceModerate
		if math.Abs(tr.Change) > def.threshold {
			sig = SignificanceHigh
		}
		out = append(out, HealthTrend{
			Metric:       def.metric,
			Unit:         health.DefaultUnits[def.metric],
			Period:       period,
			Direction:    tr.Direction,
			Change:       tr.Change,
			Significance: sig,
			DataPoints:   len(series),
		})
	}
	return out, nil
}

func extract(records []health.DailyHealthRecord, value func(health.DailyHealthRecord) (float64, bool)) []float64 {
	out := make([]float64, 0, len(records))
	for _, rec := range records {
		if v, ok := value(rec); ok {
			out = append(out, v)
		}
	}
	return out
}

func weightOf(r health.DailyHealthRecord) (float64, bool) {
	if r.Weight == nil {
		return 0, false
	}
	return *r.Weight, true
}

func stepsOf(r health.DailyHealthRecord) (float64, bool) {
	if r.Activity == nil {
		return 0, false
	}
	return float64(r.Activity.Steps), true
}

func waterOf(r health.DailyHealthRecord) (float64, bool) {
	if r.WaterIntake == nil {
		return 0, false
	}
	return *r.WaterIntake, true
}

func sleepOf(r health.DailyHealthRecord) (float64, bool) {
	if r.Sleep == nil {
		return 0, false
	}
	return r.Sleep.Hours, true
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
