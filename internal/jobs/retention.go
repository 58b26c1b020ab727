// Package jobs contiene tareas programadas del servicio.
package jobs

import (
	"context"
	"fmt"
	"time"

	"pet-health-analytics/internal/domain/health"
	"pet-health-analytics/internal/platform/logger"

	"github.com/robfig/cron/v3"
)

// Cleaner es lo que el job necesita del HealthRecordStore.
type Cleaner interface {
	Cleanup(ctx context.Context, olderThanDays int) (health.CleanupResult, error)
}

// Retention borra periódicamente registros y métricas más viejos que Days.
type Retention struct {
	cleaner Cleaner
	days    int
	timeout time.Duration
	log     logger.Logger

	cron *cron.Cron
}

func NewRetention(cleaner Cleaner, days int, log logger.Logger) *Retention {
	if log == nil {
		log = logger.Nop()
	}
	return &Retention{
		cleaner: cleaner,
		days:    days,
		timeout: time.Minute,
		log:     log.With(map[string]any{"job": "retention"}),
	}
}

// RunOnce ejecuta una limpieza; lo usa el scheduler y también los tests.
func (r *Retention) RunOnce(ctx context.Context) (health.CleanupResult, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.cleaner.Cleanup(ctx, r.days)
	if err != nil {
		r.log.Error("retention cleanup failed", map[string]any{"error": err})
		return health.CleanupResult{}, err
	}
	return res, nil
}

// Start agenda el job con una expresión cron estándar o descriptor (@daily, @every 6h).
func (r *Retention) Start(schedule string) error {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(schedule, func() {
		_, _ = r.RunOnce(context.Background())
	}); err != nil {
		return fmt.Errorf("invalid retention schedule %q: %w", schedule, err)
	}
	r.cron = c
	c.Start()
	r.log.Info("retention job scheduled", map[string]any{"schedule": schedule, "days": r.days})
	return nil
}

// Stop espera a que termine la ejecución en curso (si hay) o a que ctx venza.
func (r *Retention) Stop(ctx context.Context) {
	if r.cron == nil {
		return
	}
	select {
	case <-r.cron.Stop().Done():
	case <-ctx.Done():
	}
}
