package analytics

import (
	"context"
	"testing"

	"pet-health-analytics/internal/adapters/storage/memory"
	"pet-health-analytics/internal/domain/health"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetStatistics_NilWhenWindowIsEmpty(t *testing.T) {
	repo := memory.NewHealthRepo()
	seed(t, repo, "pet-1", 10, func(r *health.DailyHealthRecord) {
		w := 12.0
		r.Weight = &w
	})

	stats, err := newTestService(repo).GetStatistics(context.Background(), "pet-1", Period7d)
	require.NoError(t, err)
	assert.Nil(t, stats)
}

func TestGetStatistics_Summaries(t *testing.T) {
	repo := memory.NewHealthRepo()
	seed(t, repo, "pet-1", 0, func(r *health.DailyHealthRecord) {
		w, water := 12.0, 500.0
		r.Weight = &w
		r.WaterIntake = &water
		r.Activity = &health.Activity{Steps: 8000}
	})
	seed(t, repo, "pet-1", 3, func(r *health.DailyHealthRecord) {
		w := 11.0
		r.Weight = &w
		r.Sleep = &health.Sleep{Hours: 12, Quality: health.SleepGood}
	})
	seed(t, repo, "pet-1", 6, func(r *health.DailyHealthRecord) {
		r.Activity = &health.Activity{Steps: 4000}
		r.Notes = "solo pasos"
	})

	stats, err := newTestService(repo).GetStatistics(context.Background(), "pet-1", Period7d)
	require.NoError(t, err)
	require.NotNil(t, stats)

	assert.Equal(t, 3, stats.RecordCount)
	require.NotNil(t, stats.Weight)
	assert.Equal(t, 2, stats.Weight.Count)
	assert.InDelta(t, 11.5, stats.Weight.Average, 1e-9)
	assert.Equal(t, 11.0, stats.Weight.Min)
	assert.Equal(t, 12.0, stats.Weight.Max)

	require.NotNil(t, stats.Steps)
	assert.Equal(t, 6000.0, stats.Steps.Average)
	assert.Equal(t, 12000.0, stats.Steps.Total)

	require.NotNil(t, stats.WaterIntake)
	assert.Equal(t, 1, stats.WaterIntake.Count)
	require.NotNil(t, stats.SleepHours)
	assert.Equal(t, 12.0, stats.SleepHours.Max)
}
