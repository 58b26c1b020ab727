package analytics

import (
	"context"
	"fmt"
	"testing"
	"time"

	"pet-health-analytics/internal/adapters/storage/memory"
	"pet-health-analytics/internal/domain/health"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 6, 30, 15, 0, 0, 0, time.UTC)

func TestComputeTrend(t *testing.T) {
	tests := []struct {
		name      string
		series    []float64
		direction Direction
		change    float64
	}{
		{"empty", nil, DirectionStable, 0},
		{"single point", []float64{12}, DirectionStable, 0},
		{"step up", []float64{10, 10, 10, 10, 20, 20, 20, 20}, DirectionIncreasing, 10},
		{"step down", []float64{20, 20, 10, 10}, DirectionDecreasing, -10},
		{"odd length puts middle in second half", []float64{10, 20, 20}, DirectionIncreasing, 10},
		{"two points", []float64{100, 104}, DirectionStable, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeTrend(tt.series)
			assert.Equal(t, tt.direction, got.Direction)
			assert.InDelta(t, tt.change, got.Change, 1e-9)
		})
	}
}

func TestComputeTrend_UnderFivePercentIsStable(t *testing.T) {
	got := ComputeTrend([]float64{10, 10, 10, 10.1, 10, 10, 10, 10.2})
	assert.Equal(t, DirectionStable, got.Direction)
}

func TestComputeTrend_ZeroBaseline(t *testing.T) {
	assert.Equal(t, DirectionIncreasing, ComputeTrend([]float64{0, 0, 5, 5}).Direction)
	assert.Equal(t, DirectionStable, ComputeTrend([]float64{0, 0, 0, 0}).Direction)
}

func TestParsePeriod(t *testing.T) {
	p, err := ParsePeriod(" 90D ")
	require.NoError(t, err)
	assert.Equal(t, Period90d, p)
	assert.Equal(t, 90, p.Days())

	_, err = ParsePeriod("1y")
	assert.ErrorIs(t, err, health.ErrInvalidInput)
}

func seed(t *testing.T, repo health.Repository, petID string, daysAgo int, mutate func(*health.DailyHealthRecord)) {
	t.Helper()
	rec := health.DailyHealthRecord{
		ID:    fmt.Sprintf("%s-%d", petID, daysAgo),
		PetID: petID,
		Date:  health.DayOf(now).AddDate(0, 0, -daysAgo),
	}
	mutate(&rec)
	require.NoError(t, repo.SaveRecord(context.Background(), rec))
}

func newTestService(repo health.Repository) *Service {
	svc := NewService(repo)
	svc.now = func() time.Time { return now }
	return svc
}

func TestGetHealthTrends(t *testing.T) {
	repo := memory.NewHealthRepo()

	weights := []float64{10, 10, 11, 11} // cronológico
	for i, w := range weights {
		w := w
		seed(t, repo, "pet-1", len(weights)-1-i, func(r *health.DailyHealthRecord) {
			r.Weight = &w
			r.Activity = &health.Activity{Steps: 5000 + i*100}
		})
	}
	// Fuera de la ventana de 7 días
	seed(t, repo, "pet-1", 20, func(r *health.DailyHealthRecord) {
		w := 50.0
		r.Weight = &w
	})

	svc := newTestService(repo)
	trends, err := svc.GetHealthTrends(context.Background(), "pet-1", Period7d)
	require.NoError(t, err)
	require.Len(t, trends, 2) // agua sin datos

	weight := trends[0]
	assert.Equal(t, health.MetricWeight, weight.Metric)
	assert.Equal(t, DirectionIncreasing, weight.Direction)
	assert.InDelta(t, 1.0, weight.Change, 1e-9)
	assert.Equal(t, SignificanceHigh, weight.Significance)
	assert.Equal(t, 4, weight.DataPoints)

	steps := trends[1]
	assert.Equal(t, health.MetricActivity, steps.Metric)
	assert.Equal(t, DirectionStable, steps.Direction)
	assert.Equal(t, SignificanceModerate, steps.Significance)
}

func TestGetHealthTrends_UnknownPetIsEmpty(t *testing.T) {
	svc := newTestService(memory.NewHealthRepo())
	trends, err := svc.GetHealthTrends(context.Background(), "nobody", Period30d)
	require.NoError(t, err)
	assert.Empty(t, trends)
}
