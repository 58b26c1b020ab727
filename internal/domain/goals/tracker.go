// Package goals administra metas definidas por el usuario y su progreso derivado.
package goals

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"pet-health-analytics/internal/domain/health"

	"github.com/google/uuid"
)

// Store es el subconjunto del HealthRecordStore que usa el tracker.
type Store interface {
	health.GoalRepository
	ListRecords(ctx context.Context, petID string, filter health.RecordFilter) ([]health.DailyHealthRecord, error)
}

type Tracker struct {
	store Store
	now   func() time.Time
}

func NewTracker(store Store) *Tracker {
	return &Tracker{
		store: store,
		now:   time.Now,
	}
}

type CreateInput struct {
	PetID        string
	Type         health.GoalType
	Title        string
	TargetValue  float64
	Unit         string
	TargetDate   *time.Time
	CurrentValue float64
}

// CreateGoal guarda la meta activa con progreso 0.
func (t *Tracker) CreateGoal(ctx context.Context, in CreateInput) (health.HealthGoal, error) {
	petID := strings.TrimSpace(in.PetID)
	if petID == "" {
		return health.HealthGoal{}, &health.ValidationError{Field: "pet_id", Reason: "required"}
	}
	if !in.Type.Valid() {
		return health.HealthGoal{}, &health.ValidationError{Field: "type", Reason: "must be weight_loss, weight_gain, activity_increase or custom"}
	}
	if math.IsNaN(in.TargetValue) || in.TargetValue <= 0 {
		return health.HealthGoal{}, &health.ValidationError{Field: "target_value", Reason: "must be positive"}
	}

	now := t.now()
	g := health.HealthGoal{
		ID:           uuid.NewString(),
		PetID:        petID,
		Type:         in.Type,
		Title:        strings.TrimSpace(in.Title),
		TargetValue:  in.TargetValue,
		Unit:         strings.TrimSpace(in.Unit),
		TargetDate:   in.TargetDate,
		CurrentValue: in.CurrentValue,
		Progress:     0,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := t.store.SaveGoal(ctx, g); err != nil {
		return health.HealthGoal{}, fmt.Errorf("save goal: %w", err)
	}
	return g, nil
}

// GetGoals recalcula el progreso de cada meta; el valor guardado nunca se usa.
func (t *Tracker) GetGoals(ctx context.Context, petID string, activeOnly bool) ([]health.HealthGoal, error) {
	petID = strings.TrimSpace(petID)
	if petID == "" {
		return []health.HealthGoal{}, nil
	}
	items, err := t.store.ListGoals(ctx, petID, activeOnly)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].Progress = Progress(items[i])
	}
	return items, nil
}

// UpdateInput: nil = no tocar.
type UpdateInput struct {
	CurrentValue *float64
	Active       *bool
}

func (t *Tracker) UpdateGoal(ctx context.Context, id string, in UpdateInput) (health.HealthGoal, error) {
	g, err := t.store.GetGoal(ctx, strings.TrimSpace(id))
	if err != nil {
		return health.HealthGoal{}, err
	}
	if in.CurrentValue != nil {
		if math.IsNaN(*in.CurrentValue) || math.IsInf(*in.CurrentValue, 0) {
			return health.HealthGoal{}, &health.ValidationError{Field: "current_value", Reason: "must be a finite number"}
		}
		g.CurrentValue = *in.CurrentValue
	}
	if in.Active != nil {
		g.Active = *in.Active
	}
	g.UpdatedAt = t.now()

	if err := t.store.SaveGoal(ctx, g); err != nil {
		return health.HealthGoal{}, fmt.Errorf("save goal: %w", err)
	}
	g.Progress = Progress(g)
	return g, nil
}

// Refresh toma el valor actual de las metas de peso y actividad del último registro que lo tenga.
// Las metas custom no se tocan.
func (t *Tracker) Refresh(ctx context.Context, petID string) ([]health.HealthGoal, error) {
	petID = strings.TrimSpace(petID)
	if petID == "" {
		return []health.HealthGoal{}, nil
	}
	items, err := t.store.ListGoals(ctx, petID, false)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return items, nil
	}

	records, err := t.store.ListRecords(ctx, petID, health.RecordFilter{})
	if err != nil {
		return nil, err
	}
	weight, hasWeight := latest(records, func(r health.DailyHealthRecord) (float64, bool) {
		if r.Weight == nil {
			return 0, false
		}
		return *r.Weight, true
	})
	steps, hasSteps := latest(records, func(r health.DailyHealthRecord) (float64, bool) {
		if r.Activity == nil {
			return 0, false
		}
		return float64(r.Activity.Steps), true
	})

	now := t.now()
	for i := range items {
		g := &items[i]
		changed := false
		switch g.Type {
		case health.GoalWeightLoss, health.GoalWeightGain:
			if hasWeight && g.CurrentValue != weight {
				g.CurrentValue, changed = weight, true
			}
		case health.GoalActivityIncrease:
			if hasSteps && g.CurrentValue != steps {
				g.CurrentValue, changed = steps, true
			}
		case health.GoalCustom:
		}
		if changed {
			g.UpdatedAt = now
			if err := t.store.SaveGoal(ctx, *g); err != nil {
				return nil, fmt.Errorf("save goal: %w", err)
			}
		}
		g.Progress = Progress(*g)
	}
	return items, nil
}

// Progress = clamp(current/target*100, 0, 100).
func Progress(g health.HealthGoal) float64 {
	if g.TargetValue == 0 {
		return 0
	}
	p := g.CurrentValue / g.TargetValue * 100
	switch {
	case math.IsNaN(p) || p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}

// latest: records vienen en orden desc.
func latest(records []health.DailyHealthRecord, value func(health.DailyHealthRecord) (float64, bool)) (float64, bool) {
	for _, r := range records {
		if v, ok := value(r); ok {
			return v, true
		}
	}
	return 0, false
}
