package analytics

import (
	"context"
	"strings"
	"time"
)

type MetricSummary struct {
	Count   int     `json:"count"`
	Average float64 `json:"average"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Total   float64 `json:"total"`
}

// Statistics resume una ventana. Una métrica sin datos queda en nil.
type Statistics struct {
	PetID       string         `json:"pet_id"`
	Period      Period         `json:"period"`
	From        time.Time      `json:"from"`
	To          time.Time      `json:"to"`
	RecordCount int            `json:"record_count"`
	Weight      *MetricSummary `json:"weight"`
	WaterIntake *MetricSummary `json:"water_intake"`
	Steps       *MetricSummary `json:"steps"`
	SleepHours  *MetricSummary `json:"sleep_hours"`
}

// GetStatistics devuelve nil (sin error) si no hay registros en la ventana.
func (s *Service) GetStatistics(ctx context.Context, petID string, period Period) (*Statistics, error) {
	petID = strings.TrimSpace(petID)
	records, err := s.window(ctx, petID, period)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}

	from, to := Window(s.now(), period.Days())
	return &Statistics{
		PetID:       petID,
		Period:      period,
		From:        from,
		To:          to,
		RecordCount: len(records),
		Weight:      summarize(extract(records, weightOf)),
		WaterIntake: summarize(extract(records, waterOf)),
		Steps:       summarize(extract(records, stepsOf)),
		SleepHours:  summarize(extract(records, sleepOf)),
	}, nil
}

func summarize(xs []float64) *MetricSummary {
	if len(xs) == 0 {
		return nil
	}
	sum := MetricSummary{Count: len(xs), Min: xs[0], Max: xs[0]}
	for _, x := range xs {
		sum.Total += x
		if x < sum.Min {
			sum.Min = x
		}
		if x > sum.Max {
			sum.Max = x
		}
	}
	sum.Average = sum.Total / float64(len(xs))
	return &sum
}
