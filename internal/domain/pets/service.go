package pets

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("pet not found")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	Name          string
	Species       string
	Breed         string
	BirthDate     *time.Time
	Weight        float64
	ActivityLevel string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Pet, error) {
	if strings.TrimSpace(in.Name) == "" {
		return Pet{}, ErrInvalidInput
	}
	species, ok := ParseSpecies(strings.ToLower(strings.TrimSpace(in.Species)))
	if !ok {
		return Pet{}, ErrInvalidInput
	}
	if in.Weight < 0 {
		return Pet{}, ErrInvalidInput
	}

	now := s.now()
	p := Pet{
		ID:            uuid.NewString(),
		Name:          strings.TrimSpace(in.Name),
		Species:       species,
		Breed:         strings.TrimSpace(in.Breed),
		BirthDate:     in.BirthDate,
		Weight:        in.Weight,
		ActivityLevel: ActivityHint(strings.ToLower(strings.TrimSpace(in.ActivityLevel))),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Pet, error) {
	return s.repo.GetByID(ctx, strings.TrimSpace(id))
}

// UpdateInput usa punteros: nil = no tocar.
type UpdateInput struct {
	Name          *string
	Breed         *string
	BirthDate     *time.Time
	Weight        *float64
	ActivityLevel *string
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Pet, error) {
	p, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return Pet{}, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return Pet{}, ErrInvalidInput
		}
		p.Name = name
	}
	if in.Breed != nil {
		p.Breed = strings.TrimSpace(*in.Breed)
	}
	if in.BirthDate != nil {
		bd := *in.BirthDate
		p.BirthDate = &bd
	}
	if in.Weight != nil {
		if *in.Weight < 0 {
			return Pet{}, ErrInvalidInput
		}
		p.Weight = *in.Weight
	}
	if in.ActivityLevel != nil {
		p.ActivityLevel = ActivityHint(strings.ToLower(strings.TrimSpace(*in.ActivityLevel)))
	}
	p.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}
