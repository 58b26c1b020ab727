package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"pet-health-analytics/internal/domain/health"
)

// HealthRepo implementa health.Repository. Los objetos anidados del registro diario van en JSONB.
type HealthRepo struct {
	db *sql.DB
}

func NewHealthRepo(db *sql.DB) *HealthRepo {
	return &HealthRepo{db: db}
}

var _ health.Repository = (*HealthRepo)(nil)

// -------------------------
// Records
// -------------------------

const recordColumns = `
	id, pet_id, record_date,
	weight, water_intake, food_intake,
	activity, sleep, mood, medications,
	notes, created_at, updated_at`

func (r *HealthRepo) GetRecord(ctx context.Context, petID string, date time.Time) (health.DailyHealthRecord, bool, error) {
	row := r.db.QueryRowContext(ctx, `SELECT`+recordColumns+`
		FROM health_records
		WHERE pet_id = $1 AND record_date = $2
	`, petID, health.DayOf(date))

	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return health.DailyHealthRecord{}, false, nil
		}
		return health.DailyHealthRecord{}, false, err
	}
	return rec, true, nil
}

// SaveRecord hace upsert sobre (pet_id, record_date); id y created_at del primero se conservan.
func (r *HealthRepo) SaveRecord(ctx context.Context, rec health.DailyHealthRecord) error {
	activity, err := jsonArg(rec.Activity)
	if err != nil {
		return err
	}
	sleep, err := jsonArg(rec.Sleep)
	if err != nil {
		return err
	}
	mood, err := jsonArg(rec.Mood)
	if err != nil {
		return err
	}
	var meds any
	if rec.Medications != nil {
		if meds, err = jsonArg(&rec.Medications); err != nil {
			return err
		}
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO health_records (`+recordColumns+`
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		ON CONFLICT (pet_id, record_date) DO UPDATE SET
			weight = EXCLUDED.weight,
			water_intake = EXCLUDED.water_intake,
			food_intake = EXCLUDED.food_intake,
			activity = EXCLUDED.activity,
			sleep = EXCLUDED.sleep,
			mood = EXCLUDED.mood,
			medications = EXCLUDED.medications,
			notes = EXCLUDED.notes,
			updated_at = EXCLUDED.updated_at
	`,
		rec.ID,
		rec.PetID,
		health.DayOf(rec.Date),
		toNullFloat(rec.Weight),
		toNullFloat(rec.WaterIntake),
		toNullFloat(rec.FoodIntake),
		activity,
		sleep,
		mood,
		meds,
		rec.Notes,
		rec.CreatedAt,
		rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert health record: %w", err)
	}
	return nil
}

func (r *HealthRepo) ListRecords(ctx context.Context, petID string, filter health.RecordFilter) ([]health.DailyHealthRecord, error) {
	sb := strings.Builder{}
	sb.WriteString(`SELECT` + recordColumns + ` FROM health_records WHERE pet_id = $1`)
	args := []any{petID}
	argN := 2

	if filter.From != nil {
		sb.WriteString(fmt.Sprintf(" AND record_date >= $%d", argN))
		args = append(args, health.DayOf(*filter.From))
		argN++
	}
	if filter.To != nil {
		sb.WriteString(fmt.Sprintf(" AND record_date <= $%d", argN))
		args = append(args, health.DayOf(*filter.To))
	}
	sb.WriteString(" ORDER BY record_date DESC")

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]health.DailyHealthRecord, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *HealthRepo) DeleteRecordsBefore(ctx context.Context, cutoff time.Time) (int, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM health_records WHERE record_date < $1`, health.DayOf(cutoff))
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(s rowScanner) (health.DailyHealthRecord, error) {
	var (
		rec                              health.DailyHealthRecord
		weight, water, food              sql.NullFloat64
		activity, sleep, mood, medsBytes []byte
	)
	if err := s.Scan(
		&rec.ID,
		&rec.PetID,
		&rec.Date,
		&weight,
		&water,
		&food,
		&activity,
		&sleep,
		&mood,
		&medsBytes,
		&rec.Notes,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	); err != nil {
		return health.DailyHealthRecord{}, err
	}

	rec.Date = health.DayOf(rec.Date)
	rec.Weight = fromNullFloat(weight)
	rec.WaterIntake = fromNullFloat(water)
	rec.FoodIntake = fromNullFloat(food)

	if err := jsonScan(activity, &rec.Activity); err != nil {
		return health.DailyHealthRecord{}, err
	}
	if err := jsonScan(sleep, &rec.Sleep); err != nil {
		return health.DailyHealthRecord{}, err
	}
	if err := jsonScan(mood, &rec.Mood); err != nil {
		return health.DailyHealthRecord{}, err
	}
	if err := jsonScan(medsBytes, &rec.Medications); err != nil {
		return health.DailyHealthRecord{}, err
	}
	return rec, nil
}

// -------------------------
// Metrics
// -------------------------

func (r *HealthRepo) AppendMetric(ctx context.Context, m health.HealthMetric) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO health_metrics (id, pet_id, type, value, unit, recorded_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, m.ID, m.PetID, m.Type, m.Value, m.Unit, m.Timestamp)
	return err
}

func (r *HealthRepo) ListMetrics(ctx context.Context, petID string, filter health.MetricFilter) ([]health.HealthMetric, error) {
	sb := strings.Builder{}
	sb.WriteString(`SELECT id, pet_id, type, value, unit, recorded_at FROM health_metrics WHERE pet_id = $1`)
	args := []any{petID}
	argN := 2

	if filter.Type != "" {
		sb.WriteString(fmt.Sprintf(" AND type = $%d", argN))
		args = append(args, filter.Type)
		argN++
	}
	sb.WriteString(" ORDER BY recorded_at DESC")
	if filter.Limit > 0 {
		sb.WriteString(fmt.Sprintf(" LIMIT $%d", argN))
		args = append(args, filter.Limit)
	}

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]health.HealthMetric, 0)
	for rows.Next() {
		var m health.HealthMetric
		if err := rows.Scan(&m.ID, &m.PetID, &m.Type, &m.Value, &m.Unit, &m.Timestamp); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *HealthRepo) DeleteMetricsBefore(ctx context.Context, cutoff time.Time) (int, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM health_metrics WHERE recorded_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// -------------------------
// Alerts
// -------------------------

const alertColumns = `id, pet_id, record_id, type, severity, title, message, recommendations, is_read, created_at`

func (r *HealthRepo) AppendAlert(ctx context.Context, a health.HealthAlert) error {
	recs := a.Recommendations
	if recs == nil {
		recs = []string{}
	}
	b, err := json.Marshal(recs)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO health_alerts (`+alertColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`, a.ID, a.PetID, a.RecordID, a.Type, a.Severity, a.Title, a.Message, b, a.IsRead, a.CreatedAt)
	return err
}

func (r *HealthRepo) ListAlerts(ctx context.Context, petID string, unreadOnly bool) ([]health.HealthAlert, error) {
	q := `SELECT ` + alertColumns + ` FROM health_alerts WHERE pet_id = $1`
	if unreadOnly {
		q += ` AND is_read = FALSE`
	}
	q += ` ORDER BY created_at DESC, id ASC`

	rows, err := r.db.QueryContext(ctx, q, petID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]health.HealthAlert, 0)
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *HealthRepo) GetAlert(ctx context.Context, id string) (health.HealthAlert, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+alertColumns+` FROM health_alerts WHERE id = $1`, id)
	a, err := scanAlert(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return health.HealthAlert{}, health.ErrNotFound
		}
		return health.HealthAlert{}, err
	}
	return a, nil
}

func (r *HealthRepo) MarkAlertRead(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE health_alerts SET is_read = TRUE WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return health.ErrNotFound
	}
	return nil
}

func scanAlert(s rowScanner) (health.HealthAlert, error) {
	var (
		a    health.HealthAlert
		recs []byte
	)
	if err := s.Scan(&a.ID, &a.PetID, &a.RecordID, &a.Type, &a.Severity, &a.Title, &a.Message, &recs, &a.IsRead, &a.CreatedAt); err != nil {
		return health.HealthAlert{}, err
	}
	if err := jsonScan(recs, &a.Recommendations); err != nil {
		return health.HealthAlert{}, err
	}
	return a, nil
}

// -------------------------
// Goals
// -------------------------

const goalColumns = `id, pet_id, type, title, target_value, unit, target_date, current_value, active, created_at, updated_at`

func (r *HealthRepo) SaveGoal(ctx context.Context, g health.HealthGoal) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO health_goals (`+goalColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			target_value = EXCLUDED.target_value,
			unit = EXCLUDED.unit,
			target_date = EXCLUDED.target_date,
			current_value = EXCLUDED.current_value,
			active = EXCLUDED.active,
			updated_at = EXCLUDED.updated_at
	`,
		g.ID,
		g.PetID,
		g.Type,
		g.Title,
		g.TargetValue,
		g.Unit,
		toNullDate(g.TargetDate),
		g.CurrentValue,
		g.Active,
		g.CreatedAt,
		g.UpdatedAt,
	)
	return err
}

func (r *HealthRepo) GetGoal(ctx context.Context, id string) (health.HealthGoal, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+goalColumns+` FROM health_goals WHERE id = $1`, id)
	g, err := scanGoal(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return health.HealthGoal{}, health.ErrNotFound
		}
		return health.HealthGoal{}, err
	}
	return g, nil
}

func (r *HealthRepo) ListGoals(ctx context.Context, petID string, activeOnly bool) ([]health.HealthGoal, error) {
	q := `SELECT ` + goalColumns + ` FROM health_goals WHERE pet_id = $1`
	if activeOnly {
		q += ` AND active = TRUE`
	}
	q += ` ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, q, petID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]health.HealthGoal, 0)
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func scanGoal(s rowScanner) (health.HealthGoal, error) {
	var (
		g  health.HealthGoal
		td sql.NullTime
	)
	if err := s.Scan(&g.ID, &g.PetID, &g.Type, &g.Title, &g.TargetValue, &g.Unit, &td, &g.CurrentValue, &g.Active, &g.CreatedAt, &g.UpdatedAt); err != nil {
		return health.HealthGoal{}, err
	}
	if td.Valid {
		t := td.Time
		g.TargetDate = &t
	}
	return g, nil
}

// -------------------------
// helpers
// -------------------------

// jsonArg serializa v para una columna JSONB; nil => NULL.
func jsonArg[T any](v *T) (any, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal jsonb: %w", err)
	}
	return b, nil
}

func jsonScan[T any](raw []byte, dst *T) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("unmarshal jsonb: %w", err)
	}
	return nil
}

func toNullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func fromNullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
