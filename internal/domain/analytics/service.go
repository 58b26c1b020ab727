// Package analytics deriva tendencias y estadísticas a partir del historial de registros diarios.
package analytics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pet-health-analytics/internal/domain/health"
)

type Period string

const (
	Period7d  Period = "7d"
	Period30d Period = "30d"
	Period90d Period = "90d"
)

func ParsePeriod(s string) (Period, error) {
	switch p := Period(strings.ToLower(strings.TrimSpace(s))); p {
	case Period7d, Period30d, Period90d:
		return p, nil
	}
	return "", fmt.Errorf("%w: period must be 7d, 30d or 90d", health.ErrInvalidInput)
}

func (p Period) Days() int {
	switch p {
	case Period7d:
		return 7
	case Period90d:
		return 90
	default:
		return 30
	}
}

// RecordReader es la vista de solo lectura del store que necesita analytics.
type RecordReader interface {
	ListRecords(ctx context.Context, petID string, filter health.RecordFilter) ([]health.DailyHealthRecord, error)
}

type Service struct {
	records RecordReader
	now     func() time.Time
}

func NewService(records RecordReader) *Service {
	return &Service{
		records: records,
		now:     time.Now,
	}
}

// Window devuelve [hoy-(días-1), hoy] en fechas calendario.
func Window(now time.Time, days int) (from, to time.Time) {
	to = health.DayOf(now)
	from = to.AddDate(0, 0, -(days - 1))
	return from, to
}

func (s *Service) window(ctx context.Context, petID string, period Period) ([]health.DailyHealthRecord, error) {
	if petID == "" {
		return []health.DailyHealthRecord{}, nil
	}
	from, to := Window(s.now(), period.Days())
	return s.records.ListRecords(ctx, petID, health.RecordFilter{From: &from, To: &to})
}
