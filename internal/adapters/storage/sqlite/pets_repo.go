package sqlite

import (
	"context"
	"errors"
	"strings"

	"pet-health-analytics/internal/domain/pets"

	"gorm.io/gorm"
)

type PetsRepo struct {
	db *gorm.DB
}

func NewPetsRepo(db *gorm.DB) *PetsRepo {
	return &PetsRepo{db: db}
}

var _ pets.Repository = (*PetsRepo)(nil)

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) error {
	m := toPetModel(p)
	return r.db.WithContext(ctx).Create(&m).Error
}

func (r *PetsRepo) Update(ctx context.Context, p pets.Pet) error {
	m := toPetModel(p)
	res := r.db.WithContext(ctx).Model(&petModel{}).Where("id = ?", p.ID).Select("*").Omit("id", "created_at").Updates(&m)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pets.ErrNotFound
	}
	return nil
}

func (r *PetsRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return pets.Pet{}, pets.ErrNotFound
	}
	var m petModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pets.Pet{}, pets.ErrNotFound
	}
	if err != nil {
		return pets.Pet{}, err
	}
	return pets.Pet{
		ID:            m.ID,
		Name:          m.Name,
		Species:       pets.Species(m.Species),
		Breed:         m.Breed,
		BirthDate:     m.BirthDate,
		Weight:        m.Weight,
		ActivityLevel: pets.ActivityHint(m.ActivityLevel),
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}, nil
}

func toPetModel(p pets.Pet) petModel {
	return petModel{
		ID:            p.ID,
		Name:          p.Name,
		Species:       string(p.Species),
		Breed:         p.Breed,
		BirthDate:     p.BirthDate,
		Weight:        p.Weight,
		ActivityLevel: string(p.ActivityLevel),
		CreatedAt:     p.CreatedAt.UTC(),
		UpdatedAt:     p.UpdatedAt.UTC(),
	}
}
