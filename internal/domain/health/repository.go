package health

import (
	"context"
	"time"
)

type RecordRepository interface {
	// GetRecord devuelve found=false (sin error) si no existe registro para esa fecha.
	GetRecord(ctx context.Context, petID string, date time.Time) (rec DailyHealthRecord, found bool, err error)
	// SaveRecord inserta o reemplaza el registro de (PetID, Date).
	SaveRecord(ctx context.Context, rec DailyHealthRecord) error
	// ListRecords ordena por fecha desc.
	ListRecords(ctx context.Context, petID string, filter RecordFilter) ([]DailyHealthRecord, error)
	DeleteRecordsBefore(ctx context.Context, cutoff time.Time) (int, error)
}

type MetricRepository interface {
	AppendMetric(ctx context.Context, m HealthMetric) error
	// ListMetrics ordena por timestamp desc.
	ListMetrics(ctx context.Context, petID string, filter MetricFilter) ([]HealthMetric, error)
	DeleteMetricsBefore(ctx context.Context, cutoff time.Time) (int, error)
}

type AlertRepository interface {
	AppendAlert(ctx context.Context, a HealthAlert) error
	// ListAlerts ordena por created_at desc.
	ListAlerts(ctx context.Context, petID string, unreadOnly bool) ([]HealthAlert, error)
	GetAlert(ctx context.Context, id string) (HealthAlert, error)
	MarkAlertRead(ctx context.Context, id string) error
}

type GoalRepository interface {
	// SaveGoal inserta o reemplaza por ID.
	SaveGoal(ctx context.Context, g HealthGoal) error
	GetGoal(ctx context.Context, id string) (HealthGoal, error)
	ListGoals(ctx context.Context, petID string, activeOnly bool) ([]HealthGoal, error)
}

// Repository es el backend completo del HealthRecordStore.
type Repository interface {
	RecordRepository
	MetricRepository
	AlertRepository
	GoalRepository
}

// RecordFilter: límites inclusivos sobre la fecha calendario.
type RecordFilter struct {
	From *time.Time
	To   *time.Time
}

type MetricFilter struct {
	Type  MetricType // vacío = todos
	Limit int        // <= 0 = sin tope
}

// Contains indica si la fecha cae dentro del filtro.
func (f RecordFilter) Contains(date time.Time) bool {
	if f.From != nil && date.Before(DayOf(*f.From)) {
		return false
	}
	if f.To != nil && date.After(DayOf(*f.To)) {
		return false
	}
	return true
}
