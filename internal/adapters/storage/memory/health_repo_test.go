package memory_test

import (
	"context"
	"testing"
	"time"

	"pet-health-analytics/internal/adapters/storage/memory"
	"pet-health-analytics/internal/domain/health"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListAlerts_SameCreatedAtOrdersByID(t *testing.T) {
	repo := memory.NewHealthRepo()
	ctx := context.Background()
	at := time.Date(2025, 10, 15, 10, 0, 0, 0, time.UTC)

	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, repo.AppendAlert(ctx, health.HealthAlert{ID: id, PetID: "rex", CreatedAt: at}))
	}
	require.NoError(t, repo.AppendAlert(ctx, health.HealthAlert{ID: "z", PetID: "rex", CreatedAt: at.Add(time.Minute)}))

	for i := 0; i < 10; i++ {
		got, err := repo.ListAlerts(ctx, "rex", false)
		require.NoError(t, err)
		ids := make([]string, 0, len(got))
		for _, a := range got {
			ids = append(ids, a.ID)
		}
		assert.Equal(t, []string{"z", "a", "b", "c"}, ids)
	}
}

func TestAlerts_RecommendationsAreCopiedOnRead(t *testing.T) {
	repo := memory.NewHealthRepo()
	ctx := context.Background()

	require.NoError(t, repo.AppendAlert(ctx, health.HealthAlert{
		ID: "a1", PetID: "rex", Recommendations: []string{"Consultar al veterinario"},
	}))

	listed, err := repo.ListAlerts(ctx, "rex", false)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	listed[0].Recommendations[0] = "cambiado"

	got, err := repo.GetAlert(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, "Consultar al veterinario", got.Recommendations[0])
	got.Recommendations[0] = "cambiado"

	again, err := repo.GetAlert(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, "Consultar al veterinario", again.Recommendations[0])
}
