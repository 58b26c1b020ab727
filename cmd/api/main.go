package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pet-health-analytics/internal/adapters/registry/petregistry"
	pg "pet-health-analytics/internal/adapters/storage/postgres"
	lite "pet-health-analytics/internal/adapters/storage/sqlite"
	"pet-health-analytics/internal/config"
	"pet-health-analytics/internal/jobs"
	"pet-health-analytics/internal/platform/logger"
	"pet-health-analytics/internal/router"

	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

// @title Pet Health Analytics API
// @version 1.0
// @description Registros diarios de salud, alertas, tendencias, metas y recomendaciones por mascota.
// @BasePath /
func main() {
	// .env es opcional (modo dev)
	_ = godotenv.Load()

	cfgPath := flag.String("config", os.Getenv("PETHEALTH_CONFIG"), "ruta al archivo de configuración (yaml)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		logger.NewFromEnv().Error("invalid config", map[string]any{"error": err})
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: logger.ParseFormat(cfg.Log.Format),
		App:    cfg.Log.App,
	})

	if err := run(cfg, log); err != nil {
		log.Error("server stopped with error", map[string]any{"error": err})
		os.Exit(1)
	}
}

func run(cfg *config.Config, log logger.Logger) error {
	opts := router.Options{
		Logger:      log,
		HistoryDays: cfg.Recommendations.HistoryDays,
	}

	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		db, err := openPostgres(cfg.Storage.PostgresDSN)
		if err != nil {
			return err
		}
		defer db.Close()
		opts.DB = db
	case config.DriverSQLite:
		gdb, err := lite.Open(cfg.Storage.SQLitePath)
		if err != nil {
			return err
		}
		defer closeGorm(gdb)
		opts.Gorm = gdb
	}
	log.Info("storage ready", map[string]any{"driver": cfg.Storage.Driver})

	if cfg.Registry.Enabled() {
		client, err := petregistry.NewClient(petregistry.Config{
			BaseURL: cfg.Registry.BaseURL,
			APIKey:  cfg.Registry.APIKey,
			Timeout: cfg.Registry.Timeout,
		})
		if err != nil {
			return err
		}
		opts.PetReader = client
		log.Info("using remote pet registry", map[string]any{"base_url": cfg.Registry.BaseURL})
	}

	srv := router.NewRouter(opts)

	var retention *jobs.Retention
	if cfg.Retention.Enabled {
		retention = jobs.NewRetention(srv.Health, cfg.Retention.Days, log)
		if err := retention.Start(cfg.Retention.Schedule); err != nil {
			return err
		}
	}

	httpSrv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      srv,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{"addr": httpSrv.Addr})
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Info("shutting down", map[string]any{"signal": sig.String()})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if retention != nil {
		retention.Stop(ctx)
	}
	return httpSrv.Shutdown(ctx)
}

func openPostgres(dsn string) (*sql.DB, error) {
	db, err := pg.Open(dsn)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := pg.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func closeGorm(gdb *gorm.DB) {
	if sqlDB, err := gdb.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
