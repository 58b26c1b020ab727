package pets_test

import (
	"context"
	"testing"
	"time"

	mem "pet-health-analytics/internal/adapters/storage/memory"
	"pet-health-analytics/internal/domain/pets"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPets_CreateGetUpdate(t *testing.T) {
	ctx := context.Background()
	svc := pets.NewService(mem.NewPetRepo())

	bd := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	p, err := svc.Create(ctx, pets.CreateInput{
		Name:          "  Rex ",
		Species:       "DOG",
		Breed:         "Poodle",
		BirthDate:     &bd,
		Weight:        8,
		ActivityLevel: "High",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "Rex", p.Name)
	assert.Equal(t, pets.SpeciesDog, p.Species)
	assert.Equal(t, pets.ActivityHintHigh, p.ActivityLevel)

	got, err := svc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Name, got.Name)

	w := 9.5
	updated, err := svc.Update(ctx, p.ID, pets.UpdateInput{Weight: &w})
	require.NoError(t, err)
	assert.Equal(t, 9.5, updated.Weight)
	assert.Equal(t, "Poodle", updated.Breed)

	_, err = svc.GetByID(ctx, "nope")
	assert.ErrorIs(t, err, pets.ErrNotFound)
}

func TestPets_CreateValidation(t *testing.T) {
	svc := pets.NewService(mem.NewPetRepo())

	cases := []pets.CreateInput{
		{Name: "", Species: "dog"},
		{Name: "Michi", Species: "bird"},
		{Name: "Michi", Species: "cat", Weight: -1},
	}
	for _, in := range cases {
		_, err := svc.Create(context.Background(), in)
		assert.ErrorIs(t, err, pets.ErrInvalidInput, "%+v", in)
	}
}

func TestPet_AgeInMonths(t *testing.T) {
	bd := time.Date(2024, 8, 20, 0, 0, 0, 0, time.UTC)
	p := pets.Pet{BirthDate: &bd}

	m, ok := p.AgeInMonths(time.Date(2025, 10, 20, 12, 0, 0, 0, time.UTC))
	require.True(t, ok)
	assert.Equal(t, 14, m)

	m, _ = p.AgeInMonths(time.Date(2025, 10, 19, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, 13, m)

	_, ok = pets.Pet{}.AgeInMonths(time.Now())
	assert.False(t, ok)
}
