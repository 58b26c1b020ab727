package recommendations

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pet-health-analytics/internal/domain/health"
	"pet-health-analytics/internal/domain/pets"
	"pet-health-analytics/internal/platform/logger"
	"pet-health-analytics/internal/platform/metrics"
)

var ErrPetNotFound = errors.New("pet not found")

const DefaultHistoryDays = 30

// HistoryReader es lo que el motor necesita del HealthRecordStore.
type HistoryReader interface {
	ListRecords(ctx context.Context, petID string, f health.RecordFilter) ([]health.DailyHealthRecord, error)
	ListAlerts(ctx context.Context, petID string, unreadOnly bool) ([]health.HealthAlert, error)
}

// Engine genera paquetes de recomendaciones. No guarda estado entre pedidos.
type Engine struct {
	pets        pets.Reader
	history     HistoryReader
	log         logger.Logger
	metrics     *metrics.Metrics
	historyDays int
	now         func() time.Time
}

type Option func(*Engine)

func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithHistoryDays cambia la ventana de historial; valores <= 0 se ignoran.
func WithHistoryDays(days int) Option {
	return func(e *Engine) {
		if days > 0 {
			e.historyDays = days
		}
	}
}

func NewEngine(p pets.Reader, h HistoryReader, opts ...Option) *Engine {
	e := &Engine{
		pets:        p,
		history:     h,
		log:         logger.Nop(),
		historyDays: DefaultHistoryDays,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Generate arma el paquete completo para la mascota a la fecha actual.
func (e *Engine) Generate(ctx context.Context, petID string) (Package, error) {
	petID = strings.TrimSpace(petID)
	if petID == "" {
		return Package{}, &health.ValidationError{Field: "pet_id", Reason: "required"}
	}

	pet, err := e.pets.GetByID(ctx, petID)
	if err != nil {
		if errors.Is(err, pets.ErrNotFound) {
			return Package{}, fmt.Errorf("%w: %s", ErrPetNotFound, petID)
		}
		return Package{}, fmt.Errorf("load pet: %w", err)
	}

	now := e.now()
	to := health.DayOf(now)
	from := to.AddDate(0, 0, -(e.historyDays - 1))

	history, err := e.history.ListRecords(ctx, petID, health.RecordFilter{From: &from, To: &to})
	if err != nil {
		return Package{}, fmt.Errorf("load history: %w", err)
	}
	unread, err := e.history.ListAlerts(ctx, petID, true)
	if err != nil {
		return Package{}, fmt.Errorf("load alerts: %w", err)
	}

	c := BuildContext(pet, history, unread, now)

	pkg := Package{
		PetID:       petID,
		GeneratedAt: now,
		Context:     c.snapshot(),
		Nutrition:   Nutrition(c),
		Activity:    Activity(c),
		Health:      Health(c),
		Insights:    BuildInsights(c),
	}
	pkg.Summary = summarize(pkg)

	e.metrics.PackageGenerated(map[string]int{
		string(FamilyNutrition): len(pkg.Nutrition),
		string(FamilyActivity):  len(pkg.Activity),
		string(FamilyHealth):    len(pkg.Health),
	})
	e.log.Info("recommendations generated", map[string]any{
		"pet_id":         petID,
		"total":          pkg.Summary.TotalRecommendations,
		"high_priority":  pkg.Summary.HighPriorityCount,
		"activity_level": c.ActivityLevel,
		"season":         c.Season,
	})

	return pkg, nil
}

func summarize(p Package) Summary {
	total := len(p.Nutrition) + len(p.Activity) + len(p.Health)

	high := 0
	for _, r := range p.Nutrition {
		if r.Priority == PriorityHigh {
			high++
		}
	}
	for _, r := range p.Health {
		if r.Urgency == UrgencyImmediate {
			high++
		}
	}

	estimate := "1-2 semanas"
	if total > 5 {
		estimate = "2-3 semanas"
	}

	return Summary{
		TotalRecommendations:        total,
		HighPriorityCount:           high,
		EstimatedImplementationTime: estimate,
	}
}
