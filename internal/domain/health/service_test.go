package health_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"pet-health-analytics/internal/adapters/storage/memory"
	"pet-health-analytics/internal/domain/alerts"
	"pet-health-analytics/internal/domain/health"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 10, 15, 10, 30, 0, 0, time.UTC)

func newService(t *testing.T) (*health.Service, health.Repository) {
	t.Helper()
	repo := memory.NewHealthRepo()
	svc := health.NewService(repo,
		health.WithAlertEvaluator(alerts.NewEngine()),
		health.WithClock(func() time.Time { return fixedNow }),
	)
	return svc, repo
}

func f64(v float64) *float64 { return &v }
func str(v string) *string    { return &v }

func TestUpsertRecord_SameDayMergesIntoOneRecord(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	first, err := svc.UpsertRecord(ctx, health.RecordInput{PetID: "rex", Date: "2025-10-14", Weight: f64(15.2)})
	require.NoError(t, err)
	assert.False(t, first.Merged)

	second, err := svc.UpsertRecord(ctx, health.RecordInput{PetID: "rex", Date: "2025-10-14", WaterIntake: f64(800)})
	require.NoError(t, err)
	assert.True(t, second.Merged)
	assert.Equal(t, first.Record.ID, second.Record.ID)

	recs, err := svc.GetRecords(ctx, "rex", nil, nil)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.NotNil(t, recs[0].Weight)
	require.NotNil(t, recs[0].WaterIntake)
	assert.Equal(t, 15.2, *recs[0].Weight)
	assert.Equal(t, 800.0, *recs[0].WaterIntake)
}

func TestUpsertRecord_LaterSubmissionWins(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.UpsertRecord(ctx, health.RecordInput{PetID: "rex", Date: "2025-10-14", Weight: f64(15), Notes: str("mañana")})
	require.NoError(t, err)
	res, err := svc.UpsertRecord(ctx, health.RecordInput{PetID: "rex", Date: "2025-10-14", Weight: f64(15.4)})
	require.NoError(t, err)

	assert.Equal(t, 15.4, *res.Record.Weight)
	assert.Equal(t, "mañana", res.Record.Notes)
}

func TestUpsertRecord_NestedObjectsAreReplacedWhole(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.UpsertRecord(ctx, health.RecordInput{
		PetID: "rex", Date: "2025-10-14",
		Activity: &health.Activity{Steps: 8000, ExerciseMinutes: 40, Intensity: health.IntensityHigh},
	})
	require.NoError(t, err)

	res, err := svc.UpsertRecord(ctx, health.RecordInput{
		PetID: "rex", Date: "2025-10-14",
		Activity: &health.Activity{Steps: 9000},
	})
	require.NoError(t, err)

	require.NotNil(t, res.Record.Activity)
	assert.Equal(t, health.Activity{Steps: 9000}, *res.Record.Activity)
}

func TestUpsertRecord_RFC3339DateUsesCalendarDay(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	a, err := svc.UpsertRecord(ctx, health.RecordInput{PetID: "rex", Date: "2025-10-14T23:30:00-03:00", Weight: f64(15)})
	require.NoError(t, err)
	b, err := svc.UpsertRecord(ctx, health.RecordInput{PetID: "rex", Date: "2025-10-14", WaterIntake: f64(500)})
	require.NoError(t, err)

	assert.Equal(t, a.Record.ID, b.Record.ID)
	assert.Equal(t, "2025-10-14", b.Record.Date.Format(health.DateLayout))
}

func TestWriteMetric_SameMomentAsRecordSharesDay(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	// 22:00 en -03:00 ya es el día siguiente en UTC
	ts := time.Date(2026, 10, 19, 22, 0, 0, 0, time.FixedZone("ART", -3*60*60))

	_, err := svc.UpsertRecord(ctx, health.RecordInput{PetID: "rex", Date: ts.Format(time.RFC3339), Notes: str("x")})
	require.NoError(t, err)

	res, err := svc.WriteMetric(ctx, health.MetricInput{PetID: "rex", Type: health.MetricWeight, Value: 15.3, Timestamp: &ts})
	require.NoError(t, err)
	require.NotNil(t, res.Record)
	assert.Equal(t, "2026-10-19", res.Record.Date.Format(health.DateLayout))

	recs, err := svc.GetRecords(ctx, "rex", nil, nil)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "x", recs[0].Notes)
	require.NotNil(t, recs[0].Weight)
	assert.Equal(t, 15.3, *recs[0].Weight)
}

func TestUpsertRecord_ValidationReportsFieldsInOrder(t *testing.T) {
	svc, _ := newService(t)

	in := health.RecordInput{PetID: "rex", Date: "2025-10-14", Weight: f64(-1), WaterIntake: f64(-1), FoodIntake: f64(-1)}
	for i := 0; i < 20; i++ {
		_, err := svc.UpsertRecord(context.Background(), in)
		var ve *health.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "weight", ve.Field)
	}

	in.Weight = nil
	_, err := svc.UpsertRecord(context.Background(), in)
	var ve *health.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "water_intake", ve.Field)
}

type failingAlertsRepo struct {
	health.Repository
}

func (failingAlertsRepo) AppendAlert(context.Context, health.HealthAlert) error {
	return errors.New("alerts backend down")
}

func TestUpsertRecord_AlertFailureKeepsSavedRecord(t *testing.T) {
	repo := failingAlertsRepo{Repository: memory.NewHealthRepo()}
	svc := health.NewService(repo,
		health.WithAlertEvaluator(alerts.NewEngine()),
		health.WithClock(func() time.Time { return fixedNow }),
	)
	ctx := context.Background()

	res, err := svc.UpsertRecord(ctx, health.RecordInput{PetID: "rex", Date: "2025-10-14", Activity: &health.Activity{Steps: 500}})
	require.NoError(t, err)
	assert.Empty(t, res.Alerts)
	assert.False(t, res.Merged)

	recs, err := svc.GetRecords(ctx, "rex", nil, nil)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, 500, recs[0].Activity.Steps)

	stored, err := svc.ListAlerts(ctx, "rex", false)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestUpsertRecord_Validation(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		in    health.RecordInput
		field string
	}{
		{"missing pet", health.RecordInput{Date: "2025-10-14"}, "pet_id"},
		{"bad date", health.RecordInput{PetID: "rex", Date: "14/10/2025"}, "date"},
		{"negative weight", health.RecordInput{PetID: "rex", Date: "2025-10-14", Weight: f64(-1)}, "weight"},
		{"bad intensity", health.RecordInput{PetID: "rex", Date: "2025-10-14", Activity: &health.Activity{Intensity: "extreme"}}, "activity.intensity"},
		{"sleep over 24h", health.RecordInput{PetID: "rex", Date: "2025-10-14", Sleep: &health.Sleep{Hours: 25}}, "sleep.hours"},
		{"mood out of range", health.RecordInput{PetID: "rex", Date: "2025-10-14", Mood: &health.Mood{Energy: 6, Happiness: 3, Appetite: 3}}, "mood"},
		{"medication without name", health.RecordInput{PetID: "rex", Date: "2025-10-14", Medications: []health.Medication{{Dosage: "1"}}}, "medications.name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UpsertRecord(ctx, tt.in)
			require.Error(t, err)
			assert.ErrorIs(t, err, health.ErrInvalidInput)

			var ve *health.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}

	recs, err := svc.GetRecords(ctx, "rex", nil, nil)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestUpsertRecord_RaisesAlerts(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.UpsertRecord(ctx, health.RecordInput{PetID: "rex", Date: "2025-10-13", Weight: f64(10)})
	require.NoError(t, err)

	res, err := svc.UpsertRecord(ctx, health.RecordInput{
		PetID:       "rex",
		Date:        "2025-10-14",
		Weight:      f64(12.5),
		Activity:    &health.Activity{Steps: 1200},
		Medications: []health.Medication{{Name: "Carprofeno", Given: false}},
	})
	require.NoError(t, err)
	require.Len(t, res.Alerts, 3)

	bySeverity := map[health.AlertType]health.Severity{}
	for _, a := range res.Alerts {
		bySeverity[a.Type] = a.Severity
		assert.Equal(t, "rex", a.PetID)
		assert.Equal(t, res.Record.ID, a.RecordID)
		assert.NotEmpty(t, a.ID)
		assert.False(t, a.IsRead)
	}
	assert.Equal(t, health.SeverityCritical, bySeverity[health.AlertWeightChange])
	assert.Equal(t, health.SeverityWarning, bySeverity[health.AlertActivityLow])
	assert.Equal(t, health.SeverityCritical, bySeverity[health.AlertMedicationMissed])

	stored, err := svc.ListAlerts(ctx, "rex", true)
	require.NoError(t, err)
	assert.Len(t, stored, 3)
}

func TestUpsertRecord_AlertsOnlyLookAtSubmittedFields(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	first, err := svc.UpsertRecord(ctx, health.RecordInput{PetID: "rex", Date: "2025-10-14", Activity: &health.Activity{Steps: 1000}})
	require.NoError(t, err)
	require.Len(t, first.Alerts, 1)

	// completar el mismo día con agua no vuelve a disparar la alerta de actividad
	second, err := svc.UpsertRecord(ctx, health.RecordInput{PetID: "rex", Date: "2025-10-14", WaterIntake: f64(300)})
	require.NoError(t, err)
	assert.Empty(t, second.Alerts)
}

func TestMarkAlertRead(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	res, err := svc.UpsertRecord(ctx, health.RecordInput{PetID: "rex", Date: "2025-10-14", Activity: &health.Activity{Steps: 10}})
	require.NoError(t, err)
	require.Len(t, res.Alerts, 1)

	a, err := svc.MarkAlertRead(ctx, res.Alerts[0].ID)
	require.NoError(t, err)
	assert.True(t, a.IsRead)

	unread, err := svc.ListAlerts(ctx, "rex", true)
	require.NoError(t, err)
	assert.Empty(t, unread)

	all, err := svc.ListAlerts(ctx, "rex", false)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	_, err = svc.MarkAlertRead(ctx, "missing")
	assert.ErrorIs(t, err, health.ErrNotFound)
}

func TestWriteMetric_FoldsIntoDailyRecord(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.UpsertRecord(ctx, health.RecordInput{
		PetID: "rex", Date: "2025-10-15",
		Activity: &health.Activity{Steps: 4000, ExerciseMinutes: 30, Intensity: health.IntensityModerate},
	})
	require.NoError(t, err)

	res, err := svc.WriteMetric(ctx, health.MetricInput{PetID: "rex", Type: health.MetricActivity, Value: 6500})
	require.NoError(t, err)
	assert.Equal(t, "steps", res.Metric.Unit)
	assert.Equal(t, fixedNow, res.Metric.Timestamp)

	require.NotNil(t, res.Record)
	require.NotNil(t, res.Record.Activity)
	assert.Equal(t, 6500, res.Record.Activity.Steps)
	assert.Equal(t, 30, res.Record.Activity.ExerciseMinutes)

	ts := time.Date(2025, 10, 12, 8, 0, 0, 0, time.UTC)
	res, err = svc.WriteMetric(ctx, health.MetricInput{PetID: "rex", Type: health.MetricWeight, Value: 15.1, Timestamp: &ts})
	require.NoError(t, err)
	require.NotNil(t, res.Record)
	assert.Equal(t, "2025-10-12", res.Record.Date.Format(health.DateLayout))
	assert.Equal(t, 15.1, *res.Record.Weight)

	res, err = svc.WriteMetric(ctx, health.MetricInput{PetID: "rex", Type: health.MetricMood, Value: 4})
	require.NoError(t, err)
	assert.Nil(t, res.Record)

	ms, err := svc.GetMetrics(ctx, "rex", "", 0)
	require.NoError(t, err)
	require.Len(t, ms, 3)
	assert.Equal(t, health.MetricWeight, ms[2].Type)

	ms, err = svc.GetMetrics(ctx, "rex", health.MetricWeight, 1)
	require.NoError(t, err)
	require.Len(t, ms, 1)
	assert.Equal(t, 15.1, ms[0].Value)
}

func TestWriteMetric_Validation(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.WriteMetric(ctx, health.MetricInput{Type: health.MetricWeight, Value: 1})
	assert.ErrorIs(t, err, health.ErrInvalidInput)

	_, err = svc.WriteMetric(ctx, health.MetricInput{PetID: "rex", Type: "temperature", Value: 1})
	assert.ErrorIs(t, err, health.ErrInvalidInput)
}

func TestReads_UnknownPetReturnsEmpty(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	recs, err := svc.GetRecords(ctx, "ghost", nil, nil)
	require.NoError(t, err)
	assert.NotNil(t, recs)
	assert.Empty(t, recs)

	ms, err := svc.GetMetrics(ctx, "", "", 0)
	require.NoError(t, err)
	assert.Empty(t, ms)

	as, err := svc.ListAlerts(ctx, "ghost", false)
	require.NoError(t, err)
	assert.Empty(t, as)
}

func TestGetRecords_InclusiveRangeDescending(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	for _, d := range []string{"2025-10-10", "2025-10-11", "2025-10-12", "2025-10-13"} {
		_, err := svc.UpsertRecord(ctx, health.RecordInput{PetID: "rex", Date: d, WaterIntake: f64(100)})
		require.NoError(t, err)
	}

	from, _ := health.ParseDate("2025-10-11")
	to, _ := health.ParseDate("2025-10-12")
	recs, err := svc.GetRecords(ctx, "rex", &from, &to)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "2025-10-12", recs[0].Date.Format(health.DateLayout))
	assert.Equal(t, "2025-10-11", recs[1].Date.Format(health.DateLayout))
}

func TestUpsertRecord_ConcurrentWritesSameDay(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	const writers = 20
	var wg sync.WaitGroup
	merged := make(chan bool, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			in := health.RecordInput{PetID: "rex", Date: "2025-10-14"}
			if i%2 == 0 {
				in.Weight = f64(15)
			} else {
				in.WaterIntake = f64(700)
			}
			res, err := svc.UpsertRecord(ctx, in)
			assert.NoError(t, err)
			merged <- res.Merged
		}(i)
	}
	wg.Wait()
	close(merged)

	inserts := 0
	for m := range merged {
		if !m {
			inserts++
		}
	}
	assert.Equal(t, 1, inserts)

	recs, err := svc.GetRecords(ctx, "rex", nil, nil)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.NotNil(t, recs[0].Weight)
	assert.NotNil(t, recs[0].WaterIntake)
}

func TestCleanup(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	for _, d := range []string{"2025-01-01", "2025-10-01", "2025-10-14"} {
		_, err := svc.UpsertRecord(ctx, health.RecordInput{PetID: "rex", Date: d, WaterIntake: f64(100)})
		require.NoError(t, err)
	}
	old := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	_, err := svc.WriteMetric(ctx, health.MetricInput{PetID: "rex", Type: health.MetricMood, Value: 3, Timestamp: &old})
	require.NoError(t, err)

	res, err := svc.Cleanup(ctx, 30)
	require.NoError(t, err)
	assert.Equal(t, "2025-09-15", res.Cutoff.Format(health.DateLayout))
	assert.Equal(t, 1, res.RecordsDeleted)
	assert.Equal(t, 1, res.MetricsDeleted)

	recs, err := svc.GetRecords(ctx, "rex", nil, nil)
	require.NoError(t, err)
	assert.Len(t, recs, 2)

	_, err = svc.Cleanup(ctx, 0)
	assert.ErrorIs(t, err, health.ErrInvalidInput)
}
