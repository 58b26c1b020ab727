package router

import (
	"database/sql"
	"net/http"

	_ "pet-health-analytics/docs"
	mem "pet-health-analytics/internal/adapters/storage/memory"
	pg "pet-health-analytics/internal/adapters/storage/postgres"
	lite "pet-health-analytics/internal/adapters/storage/sqlite"
	"pet-health-analytics/internal/domain/alerts"
	"pet-health-analytics/internal/domain/analytics"
	"pet-health-analytics/internal/domain/goals"
	"pet-health-analytics/internal/domain/health"
	"pet-health-analytics/internal/domain/pets"
	"pet-health-analytics/internal/domain/recommendations"
	"pet-health-analytics/internal/middleware"
	"pet-health-analytics/internal/platform/logger"
	"pet-health-analytics/internal/platform/metrics"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"gorm.io/gorm"
)

type Options struct {
	// Storage: DB (Postgres) tiene prioridad sobre Gorm (SQLite). Sin ninguno, in-memory.
	DB   *sql.DB
	Gorm *gorm.DB

	// PetReader es el registro remoto. Si es nil se usa el registro local y se exponen /pets.
	PetReader pets.Reader

	Logger logger.Logger

	// Registry para /metrics; nil => uno nuevo (evita colisiones entre tests).
	Registry *prometheus.Registry

	// HistoryDays es la ventana de historial de recomendaciones (0 => default).
	HistoryDays int
}

// Server es el handler HTTP más los servicios que cmd/api necesita (retención).
type Server struct {
	http.Handler
	Health *health.Service
}

func NewRouter(opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := metrics.New(reg)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Recover(log))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	var (
		petRepo    pets.Repository
		healthRepo health.Repository
	)
	switch {
	case opts.DB != nil:
		petRepo = pg.NewPetsRepo(opts.DB)
		healthRepo = pg.NewHealthRepo(opts.DB)
	case opts.Gorm != nil:
		petRepo = lite.NewPetsRepo(opts.Gorm)
		healthRepo = lite.NewHealthRepo(opts.Gorm)
	default:
		petRepo = mem.NewPetRepo()
		healthRepo = mem.NewHealthRepo()
	}

	// Services por módulo
	healthSvc := health.NewService(healthRepo,
		health.WithAlertEvaluator(alerts.NewEngine()),
		health.WithLogger(log.With(map[string]any{"module": "health"})),
		health.WithMetrics(m),
	)
	analyticsSvc := analytics.NewService(healthRepo)
	tracker := goals.NewTracker(healthRepo)

	var petReader pets.Reader = opts.PetReader
	if petReader == nil {
		petsSvc := pets.NewService(petRepo)
		petReader = petsSvc
		pets.RegisterRoutes(r, petsSvc)
	}

	engine := recommendations.NewEngine(petReader, healthRepo,
		recommendations.WithLogger(log.With(map[string]any{"module": "recommendations"})),
		recommendations.WithMetrics(m),
		recommendations.WithHistoryDays(opts.HistoryDays),
	)

	// Rutas por módulo
	health.RegisterRoutes(r, healthSvc)
	goals.RegisterRoutes(r, tracker)
	analytics.RegisterRoutes(r, analyticsSvc)
	recommendations.RegisterRoutes(r, engine)

	return &Server{Handler: r, Health: healthSvc}
}
