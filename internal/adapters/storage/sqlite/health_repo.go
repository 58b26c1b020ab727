package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pet-health-analytics/internal/domain/health"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type HealthRepo struct {
	db *gorm.DB
}

func NewHealthRepo(db *gorm.DB) *HealthRepo {
	return &HealthRepo{db: db}
}

var _ health.Repository = (*HealthRepo)(nil)

// Records

func (r *HealthRepo) GetRecord(ctx context.Context, petID string, date time.Time) (health.DailyHealthRecord, bool, error) {
	var m recordModel
	err := r.db.WithContext(ctx).
		Where("pet_id = ? AND record_date = ?", petID, dateKey(date)).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return health.DailyHealthRecord{}, false, nil
	}
	if err != nil {
		return health.DailyHealthRecord{}, false, err
	}
	return m.toDomain(), true, nil
}

func (r *HealthRepo) SaveRecord(ctx context.Context, rec health.DailyHealthRecord) error {
	m := toRecordModel(rec)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "pet_id"}, {Name: "record_date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"weight", "water_intake", "food_intake",
			"activity", "sleep", "mood", "medications",
			"notes", "updated_at",
		}),
	}).Create(&m).Error
	if err != nil {
		return fmt.Errorf("upsert health record: %w", err)
	}
	return nil
}

func (r *HealthRepo) ListRecords(ctx context.Context, petID string, filter health.RecordFilter) ([]health.DailyHealthRecord, error) {
	q := r.db.WithContext(ctx).Where("pet_id = ?", petID)
	if filter.From != nil {
		q = q.Where("record_date >= ?", dateKey(*filter.From))
	}
	if filter.To != nil {
		q = q.Where("record_date <= ?", dateKey(*filter.To))
	}

	var rows []recordModel
	if err := q.Order("record_date DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]health.DailyHealthRecord, 0, len(rows))
	for _, m := range rows {
		out = append(out, m.toDomain())
	}
	return out, nil
}

func (r *HealthRepo) DeleteRecordsBefore(ctx context.Context, cutoff time.Time) (int, error) {
	res := r.db.WithContext(ctx).Where("record_date < ?", dateKey(cutoff)).Delete(&recordModel{})
	return int(res.RowsAffected), res.Error
}

// Metrics

func (r *HealthRepo) AppendMetric(ctx context.Context, m health.HealthMetric) error {
	return r.db.WithContext(ctx).Create(&metricModel{
		ID:         m.ID,
		PetID:      m.PetID,
		Type:       string(m.Type),
		Value:      m.Value,
		Unit:       m.Unit,
		RecordedAt: m.Timestamp.UTC(),
	}).Error
}

func (r *HealthRepo) ListMetrics(ctx context.Context, petID string, filter health.MetricFilter) ([]health.HealthMetric, error) {
	q := r.db.WithContext(ctx).Where("pet_id = ?", petID)
	if filter.Type != "" {
		q = q.Where("type = ?", string(filter.Type))
	}
	q = q.Order("recorded_at DESC")
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var rows []metricModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]health.HealthMetric, 0, len(rows))
	for _, m := range rows {
		out = append(out, health.HealthMetric{
			ID:        m.ID,
			PetID:     m.PetID,
			Type:      health.MetricType(m.Type),
			Value:     m.Value,
			Unit:      m.Unit,
			Timestamp: m.RecordedAt,
		})
	}
	return out, nil
}

func (r *HealthRepo) DeleteMetricsBefore(ctx context.Context, cutoff time.Time) (int, error) {
	res := r.db.WithContext(ctx).Where("recorded_at < ?", cutoff.UTC()).Delete(&metricModel{})
	return int(res.RowsAffected), res.Error
}

// Alerts

func (r *HealthRepo) AppendAlert(ctx context.Context, a health.HealthAlert) error {
	return r.db.WithContext(ctx).Create(&alertModel{
		ID:              a.ID,
		PetID:           a.PetID,
		RecordID:        a.RecordID,
		Type:            string(a.Type),
		Severity:        string(a.Severity),
		Title:           a.Title,
		Message:         a.Message,
		Recommendations: a.Recommendations,
		IsRead:          a.IsRead,
		CreatedAt:       a.CreatedAt.UTC(),
	}).Error
}

func (r *HealthRepo) ListAlerts(ctx context.Context, petID string, unreadOnly bool) ([]health.HealthAlert, error) {
	q := r.db.WithContext(ctx).Where("pet_id = ?", petID)
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}

	var rows []alertModel
	if err := q.Order("created_at DESC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]health.HealthAlert, 0, len(rows))
	for _, m := range rows {
		out = append(out, m.toDomain())
	}
	return out, nil
}

func (r *HealthRepo) GetAlert(ctx context.Context, id string) (health.HealthAlert, error) {
	var m alertModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return health.HealthAlert{}, health.ErrNotFound
	}
	if err != nil {
		return health.HealthAlert{}, err
	}
	return m.toDomain(), nil
}

func (r *HealthRepo) MarkAlertRead(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Model(&alertModel{}).Where("id = ?", id).Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return health.ErrNotFound
	}
	return nil
}

// Goals

func (r *HealthRepo) SaveGoal(ctx context.Context, g health.HealthGoal) error {
	return r.db.WithContext(ctx).Save(&goalModel{
		ID:           g.ID,
		PetID:        g.PetID,
		Type:         string(g.Type),
		Title:        g.Title,
		TargetValue:  g.TargetValue,
		Unit:         g.Unit,
		TargetDate:   g.TargetDate,
		CurrentValue: g.CurrentValue,
		Active:       g.Active,
		CreatedAt:    g.CreatedAt.UTC(),
		UpdatedAt:    g.UpdatedAt.UTC(),
	}).Error
}

func (r *HealthRepo) GetGoal(ctx context.Context, id string) (health.HealthGoal, error) {
	var m goalModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return health.HealthGoal{}, health.ErrNotFound
	}
	if err != nil {
		return health.HealthGoal{}, err
	}
	return m.toDomain(), nil
}

func (r *HealthRepo) ListGoals(ctx context.Context, petID string, activeOnly bool) ([]health.HealthGoal, error) {
	q := r.db.WithContext(ctx).Where("pet_id = ?", petID)
	if activeOnly {
		q = q.Where("active = ?", true)
	}

	var rows []goalModel
	if err := q.Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]health.HealthGoal, 0, len(rows))
	for _, m := range rows {
		out = append(out, m.toDomain())
	}
	return out, nil
}

// mapeos

func dateKey(t time.Time) string {
	return health.DayOf(t).Format(health.DateLayout)
}

func toRecordModel(rec health.DailyHealthRecord) recordModel {
	return recordModel{
		ID:          rec.ID,
		PetID:       rec.PetID,
		RecordDate:  dateKey(rec.Date),
		Weight:      rec.Weight,
		WaterIntake: rec.WaterIntake,
		FoodIntake:  rec.FoodIntake,
		Activity:    rec.Activity,
		Sleep:       rec.Sleep,
		Mood:        rec.Mood,
		Medications: rec.Medications,
		Notes:       rec.Notes,
		CreatedAt:   rec.CreatedAt.UTC(),
		UpdatedAt:   rec.UpdatedAt.UTC(),
	}
}

func (m recordModel) toDomain() health.DailyHealthRecord {
	date, _ := time.Parse(health.DateLayout, m.RecordDate)
	return health.DailyHealthRecord{
		ID:          m.ID,
		PetID:       m.PetID,
		Date:        date,
		Weight:      m.Weight,
		WaterIntake: m.WaterIntake,
		FoodIntake:  m.FoodIntake,
		Activity:    m.Activity,
		Sleep:       m.Sleep,
		Mood:        m.Mood,
		Medications: m.Medications,
		Notes:       m.Notes,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func (m alertModel) toDomain() health.HealthAlert {
	return health.HealthAlert{
		ID:              m.ID,
		PetID:           m.PetID,
		RecordID:        m.RecordID,
		Type:            health.AlertType(m.Type),
		Severity:        health.Severity(m.Severity),
		Title:           m.Title,
		Message:         m.Message,
		Recommendations: m.Recommendations,
		IsRead:          m.IsRead,
		CreatedAt:       m.CreatedAt,
	}
}

func (m goalModel) toDomain() health.HealthGoal {
	return health.HealthGoal{
		ID:           m.ID,
		PetID:        m.PetID,
		Type:         health.GoalType(m.Type),
		Title:        m.Title,
		TargetValue:  m.TargetValue,
		Unit:         m.Unit,
		TargetDate:   m.TargetDate,
		CurrentValue: m.CurrentValue,
		Active:       m.Active,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
