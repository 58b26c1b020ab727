package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"pet-health-analytics/internal/domain/health"
)

type healthRepo struct {
	mu sync.RWMutex

	records map[string]health.DailyHealthRecord // key: petID|date
	metrics []health.HealthMetric
	alerts  map[string]health.HealthAlert
	goals   map[string]health.HealthGoal
}

func NewHealthRepo() health.Repository {
	return &healthRepo{
		records: make(map[string]health.DailyHealthRecord),
		alerts:  make(map[string]health.HealthAlert),
		goals:   make(map[string]health.HealthGoal),
	}
}

func recordKey(petID string, date time.Time) string {
	return petID + "|" + health.DayOf(date).Format(health.DateLayout)
}

// -------------------------
// Records
// -------------------------

func (r *healthRepo) GetRecord(ctx context.Context, petID string, date time.Time) (health.DailyHealthRecord, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[recordKey(petID, date)]
	if !ok {
		return health.DailyHealthRecord{}, false, nil
	}
	return cloneRecord(rec), true, nil
}

func (r *healthRepo) SaveRecord(ctx context.Context, rec health.DailyHealthRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(rec.ID) == "" || strings.TrimSpace(rec.PetID) == "" {
		return errors.New("record id and pet id required")
	}
	rec.Date = health.DayOf(rec.Date)
	r.records[recordKey(rec.PetID, rec.Date)] = cloneRecord(rec)
	return nil
}

func (r *healthRepo) ListRecords(ctx context.Context, petID string, filter health.RecordFilter) ([]health.DailyHealthRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]health.DailyHealthRecord, 0)
	for _, rec := range r.records {
		if rec.PetID != petID || !filter.Contains(rec.Date) {
			continue
		}
		out = append(out, cloneRecord(rec))
	}

	// Orden por fecha desc (más reciente primero)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out, nil
}

func (r *healthRepo) DeleteRecordsBefore(ctx context.Context, cutoff time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for k, rec := range r.records {
		if rec.Date.Before(cutoff) {
			delete(r.records, k)
			n++
		}
	}
	return n, nil
}

// -------------------------
// Metrics
// -------------------------

func (r *healthRepo) AppendMetric(ctx context.Context, m health.HealthMetric) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(m.ID) == "" {
		return errors.New("metric id required")
	}
	r.metrics = append(r.metrics, m)
	return nil
}

func (r *healthRepo) ListMetrics(ctx context.Context, petID string, filter health.MetricFilter) ([]health.HealthMetric, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]health.HealthMetric, 0)
	for _, m := range r.metrics {
		if m.PetID != petID {
			continue
		}
		if filter.Type != "" && m.Type != filter.Type {
			continue
		}
		out = append(out, m)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})

	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *healthRepo) DeleteMetricsBefore(ctx context.Context, cutoff time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.metrics[:0]
	n := 0
	for _, m := range r.metrics {
		if m.Timestamp.Before(cutoff) {
			n++
			continue
		}
		kept = append(kept, m)
	}
	r.metrics = kept
	return n, nil
}

// -------------------------
// Alerts
// -------------------------

func (r *healthRepo) AppendAlert(ctx context.Context, a health.HealthAlert) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(a.ID) == "" {
		return errors.New("alert id required")
	}
	if _, exists := r.alerts[a.ID]; exists {
		return errors.New("alert already exists")
	}
	r.alerts[a.ID] = cloneAlert(a)
	return nil
}

func (r *healthRepo) ListAlerts(ctx context.Context, petID string, unreadOnly bool) ([]health.HealthAlert, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]health.HealthAlert, 0)
	for _, a := range r.alerts {
		if a.PetID != petID {
			continue
		}
		if unreadOnly && a.IsRead {
			continue
		}
		out = append(out, cloneAlert(a))
	}

	// mismo created_at (alertas de una misma escritura): desempata por id
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *healthRepo) GetAlert(ctx context.Context, id string) (health.HealthAlert, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.alerts[id]
	if !ok {
		return health.HealthAlert{}, health.ErrNotFound
	}
	return cloneAlert(a), nil
}

func (r *healthRepo) MarkAlertRead(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.alerts[id]
	if !ok {
		return health.ErrNotFound
	}
	a.IsRead = true
	r.alerts[id] = a
	return nil
}

// -------------------------
// Goals
// -------------------------

func (r *healthRepo) SaveGoal(ctx context.Context, g health.HealthGoal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(g.ID) == "" {
		return errors.New("goal id required")
	}
	r.goals[g.ID] = g
	return nil
}

func (r *healthRepo) GetGoal(ctx context.Context, id string) (health.HealthGoal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.goals[id]
	if !ok {
		return health.HealthGoal{}, health.ErrNotFound
	}
	return g, nil
}

func (r *healthRepo) ListGoals(ctx context.Context, petID string, activeOnly bool) ([]health.HealthGoal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]health.HealthGoal, 0)
	for _, g := range r.goals {
		if g.PetID != petID {
			continue
		}
		if activeOnly && !g.Active {
			continue
		}
		out = append(out, g)
	}

	// Orden estable por created_at asc
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func cloneRecord(rec health.DailyHealthRecord) health.DailyHealthRecord {
	out := rec
	if rec.Weight != nil {
		v := *rec.Weight
		out.Weight = &v
	}
	if rec.WaterIntake != nil {
		v := *rec.WaterIntake
		out.WaterIntake = &v
	}
	if rec.FoodIntake != nil {
		v := *rec.FoodIntake
		out.FoodIntake = &v
	}
	if rec.Activity != nil {
		v := *rec.Activity
		out.Activity = &v
	}
	if rec.Sleep != nil {
		v := *rec.Sleep
		out.Sleep = &v
	}
	if rec.Mood != nil {
		v := *rec.Mood
		out.Mood = &v
	}
	if rec.Medications != nil {
		out.Medications = append([]health.Medication(nil), rec.Medications...)
	}
	return out
}

func cloneAlert(a health.HealthAlert) health.HealthAlert {
	out := a
	if a.Recommendations != nil {
		out.Recommendations = append([]string(nil), a.Recommendations...)
	}
	return out
}
