package health

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"pet-health-analytics/internal/platform/logger"
	"pet-health-analytics/internal/platform/metrics"

	"github.com/google/uuid"
)

// AlertEvaluator evalúa el registro recién escrito contra el historial previo.
// written contiene solo los campos enviados en esa escritura.
type AlertEvaluator interface {
	Evaluate(written DailyHealthRecord, history []DailyHealthRecord) []HealthAlert
}

// Service es el HealthRecordStore: único punto que muta el historial.
type Service struct {
	repo    Repository
	alerts  AlertEvaluator
	log     logger.Logger
	metrics *metrics.Metrics
	locks   *keyLock
	now     func() time.Time
}

type Option func(*Service)

func WithAlertEvaluator(e AlertEvaluator) Option {
	return func(s *Service) { s.alerts = e }
}

func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{
		repo:  repo,
		log:   logger.Nop(),
		locks: newKeyLock(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Repo expone el backend para los componentes de solo lectura (analytics, goals, recommendations).
func (s *Service) Repo() Repository {
	return s.repo
}

type UpsertResult struct {
	Record DailyHealthRecord
	Merged bool
	Alerts []HealthAlert
}

// UpsertRecord inserta el registro de (PetID, Date) o mezcla los campos enviados sobre el existente.
func (s *Service) UpsertRecord(ctx context.Context, in RecordInput) (UpsertResult, error) {
	if err := in.validate(); err != nil {
		return UpsertResult{}, err
	}
	date, _ := ParseDate(strings.TrimSpace(in.Date))
	return s.write(ctx, strings.TrimSpace(in.PetID), date, in.applyTo)
}

type MetricInput struct {
	PetID     string
	Type      MetricType
	Value     float64
	Unit      string
	Timestamp *time.Time // nil = ahora (UTC); el día sale del offset del timestamp
}

type MetricResult struct {
	Metric HealthMetric
	// Record es el registro del día tras volcar la métrica; nil si el tipo no tiene campo asociado.
	Record *DailyHealthRecord
	Alerts []HealthAlert
}

// WriteMetric agrega la métrica al log y la vuelca en el registro de ese día.
func (s *Service) WriteMetric(ctx context.Context, in MetricInput) (MetricResult, error) {
	petID := strings.TrimSpace(in.PetID)
	if petID == "" {
		return MetricResult{}, invalid("pet_id", "required")
	}
	if !in.Type.Valid() {
		return MetricResult{}, invalid("type", "unknown metric type")
	}
	if math.IsNaN(in.Value) || math.IsInf(in.Value, 0) {
		return MetricResult{}, invalid("value", "must be a finite number")
	}

	ts := s.now().UTC()
	if in.Timestamp != nil && !in.Timestamp.IsZero() {
		ts = *in.Timestamp
	}
	unit := strings.TrimSpace(in.Unit)
	if unit == "" {
		unit = DefaultUnits[in.Type]
	}

	m := HealthMetric{
		ID:        uuid.NewString(),
		PetID:     petID,
		Type:      in.Type,
		Value:     in.Value,
		Unit:      unit,
		Timestamp: ts,
	}
	if err := s.repo.AppendMetric(ctx, m); err != nil {
		return MetricResult{}, fmt.Errorf("append metric: %w", err)
	}
	s.metrics.MetricWritten(string(m.Type))

	out := MetricResult{Metric: m}

	probe := DailyHealthRecord{}
	if !foldMetric(&probe, m) {
		return out, nil
	}

	res, err := s.write(ctx, petID, CalendarDay(ts), func(rec *DailyHealthRecord) {
		foldMetric(rec, m)
	})
	if err != nil {
		return out, err
	}
	out.Record = &res.Record
	out.Alerts = res.Alerts
	return out, nil
}

// write hace el read-merge-write bajo el lock de (pet, fecha) y luego corre las alertas
// sobre los campos aplicados en esta escritura.
func (s *Service) write(ctx context.Context, petID string, date time.Time, apply func(*DailyHealthRecord)) (UpsertResult, error) {
	unlock := s.locks.Lock(petID + "|" + date.Format(DateLayout))
	defer unlock()

	existing, found, err := s.repo.GetRecord(ctx, petID, date)
	if err != nil {
		return UpsertResult{}, fmt.Errorf("get record: %w", err)
	}

	now := s.now()
	rec := existing
	if !found {
		rec = DailyHealthRecord{
			ID:        uuid.NewString(),
			PetID:     petID,
			Date:      date,
			CreatedAt: now,
		}
	}
	apply(&rec)
	rec.UpdatedAt = now

	if err := s.repo.SaveRecord(ctx, rec); err != nil {
		return UpsertResult{}, fmt.Errorf("save record: %w", err)
	}
	s.metrics.RecordUpserted(found)

	log := s.log.With(map[string]any{"pet_id": petID, "record_id": rec.ID, "date": date.Format(DateLayout)})
	log.Debug("record upserted", map[string]any{"merged": found})

	written := DailyHealthRecord{ID: rec.ID, PetID: petID, Date: date, CreatedAt: now, UpdatedAt: now}
	apply(&written)

	alerts := s.raiseAlerts(ctx, written, log)

	return UpsertResult{Record: rec, Merged: found, Alerts: alerts}, nil
}

// raiseAlerts corre después de guardar el registro: un fallo acá se loguea y no revierte
// la escritura. Devuelve solo las alertas que quedaron persistidas.
func (s *Service) raiseAlerts(ctx context.Context, written DailyHealthRecord, log logger.Logger) []HealthAlert {
	if s.alerts == nil {
		return nil
	}

	to := written.Date
	history, err := s.repo.ListRecords(ctx, written.PetID, RecordFilter{To: &to})
	if err != nil {
		log.Error("load alert history failed", map[string]any{"error": err.Error()})
		return []HealthAlert{}
	}

	raised := s.alerts.Evaluate(written, history)
	out := make([]HealthAlert, 0, len(raised))
	for _, a := range raised {
		a.ID = uuid.NewString()
		a.PetID = written.PetID
		a.RecordID = written.ID
		a.IsRead = false
		a.CreatedAt = s.now()

		if err := s.repo.AppendAlert(ctx, a); err != nil {
			log.Error("append alert failed", map[string]any{"alert_type": a.Type, "error": err.Error()})
			continue
		}
		s.metrics.AlertEmitted(string(a.Type), string(a.Severity))
		log.Info("health alert raised", map[string]any{"alert_type": a.Type, "severity": a.Severity})
		out = append(out, a)
	}
	return out
}

// GetRecords devuelve los registros en orden desc; límites inclusivos. Mascota desconocida => vacío.
func (s *Service) GetRecords(ctx context.Context, petID string, from, to *time.Time) ([]DailyHealthRecord, error) {
	petID = strings.TrimSpace(petID)
	if petID == "" {
		return []DailyHealthRecord{}, nil
	}
	return s.repo.ListRecords(ctx, petID, RecordFilter{From: from, To: to})
}

// GetMetrics devuelve eventos en orden desc por timestamp, filtrados por tipo y con tope opcional.
func (s *Service) GetMetrics(ctx context.Context, petID string, metricType MetricType, limit int) ([]HealthMetric, error) {
	petID = strings.TrimSpace(petID)
	if petID == "" {
		return []HealthMetric{}, nil
	}
	return s.repo.ListMetrics(ctx, petID, MetricFilter{Type: metricType, Limit: limit})
}

func (s *Service) ListAlerts(ctx context.Context, petID string, unreadOnly bool) ([]HealthAlert, error) {
	petID = strings.TrimSpace(petID)
	if petID == "" {
		return []HealthAlert{}, nil
	}
	return s.repo.ListAlerts(ctx, petID, unreadOnly)
}

// MarkAlertRead es la única mutación permitida sobre una alerta.
func (s *Service) MarkAlertRead(ctx context.Context, id string) (HealthAlert, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return HealthAlert{}, invalid("alert_id", "required")
	}
	if err := s.repo.MarkAlertRead(ctx, id); err != nil {
		return HealthAlert{}, err
	}
	return s.repo.GetAlert(ctx, id)
}

type CleanupResult struct {
	Cutoff         time.Time
	RecordsDeleted int
	MetricsDeleted int
}

// Cleanup borra registros y métricas anteriores a hoy-olderThanDays. Alertas y metas no se tocan.
func (s *Service) Cleanup(ctx context.Context, olderThanDays int) (CleanupResult, error) {
	if olderThanDays <= 0 {
		return CleanupResult{}, invalid("older_than_days", "must be positive")
	}
	cutoff := DayOf(s.now()).AddDate(0, 0, -olderThanDays)

	records, err := s.repo.DeleteRecordsBefore(ctx, cutoff)
	if err != nil {
		return CleanupResult{}, fmt.Errorf("delete records: %w", err)
	}
	metricsDeleted, err := s.repo.DeleteMetricsBefore(ctx, cutoff)
	if err != nil {
		return CleanupResult{}, fmt.Errorf("delete metrics: %w", err)
	}

	s.metrics.RetentionDeleted("records", records)
	s.metrics.RetentionDeleted("metrics", metricsDeleted)
	s.log.Info("retention cleanup done", map[string]any{
		"cutoff":          cutoff.Format(DateLayout),
		"records_deleted": records,
		"metrics_deleted": metricsDeleted,
	})

	return CleanupResult{Cutoff: cutoff, RecordsDeleted: records, MetricsDeleted: metricsDeleted}, nil
}
