// Package config carga la configuración del servicio: defaults, archivo YAML opcional y env.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const EnvPrefix = "PETHEALTH"

type Config struct {
	Server          ServerConfig          `mapstructure:"server"`
	Log             LogConfig             `mapstructure:"log"`
	Storage         StorageConfig         `mapstructure:"storage"`
	Registry        RegistryConfig        `mapstructure:"registry"`
	Retention       RetentionConfig       `mapstructure:"retention"`
	Recommendations RecommendationsConfig `mapstructure:"recommendations"`
}

type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

func (s ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	App    string `mapstructure:"app"`
}

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type StorageConfig struct {
	// Driver vacío: postgres si hay DSN, si no memoria.
	Driver      string `mapstructure:"driver"`
	PostgresDSN string `mapstructure:"postgres_dsn"`
	SQLitePath  string `mapstructure:"sqlite_path"`
}

// RegistryConfig: sin base_url se usa el registro local de mascotas (modo dev).
type RegistryConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

func (r RegistryConfig) Enabled() bool {
	return strings.TrimSpace(r.BaseURL) != ""
}

type RetentionConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Days     int    `mapstructure:"days"`
	Schedule string `mapstructure:"schedule"`
}

type RecommendationsConfig struct {
	HistoryDays int `mapstructure:"history_days"`
}

// Load lee defaults, el archivo (si path no está vacío y existe) y env PETHEALTH_*.
// También respeta PORT, DB_DSN, LOG_LEVEL, LOG_FORMAT y APP_NAME.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := bindLegacyEnv(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = DriverMemory
		if cfg.Storage.PostgresDSN != "" {
			cfg.Storage.Driver = DriverPostgres
		}
	}
	cfg.Storage.Driver = strings.ToLower(strings.TrimSpace(cfg.Storage.Driver))

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 5*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.app", "pet-health-analytics")

	v.SetDefault("storage.driver", "")
	v.SetDefault("storage.postgres_dsn", "")
	v.SetDefault("storage.sqlite_path", "pethealth.db")

	v.SetDefault("registry.base_url", "")
	v.SetDefault("registry.api_key", "")
	v.SetDefault("registry.timeout", 5*time.Second)

	v.SetDefault("retention.enabled", false)
	v.SetDefault("retention.days", 365)
	v.SetDefault("retention.schedule", "@daily")

	v.SetDefault("recommendations.history_days", 30)
}

// bindLegacyEnv mantiene las variables sin prefijo del despliegue anterior.
// La variable con prefijo tiene prioridad.
func bindLegacyEnv(v *viper.Viper) error {
	legacy := map[string]string{
		"server.port":          "PORT",
		"storage.postgres_dsn": "DB_DSN",
		"log.level":            "LOG_LEVEL",
		"log.format":           "LOG_FORMAT",
		"log.app":              "APP_NAME",
	}
	for key, env := range legacy {
		prefixed := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, env); err != nil {
			return fmt.Errorf("bind env %s: %w", env, err)
		}
	}
	return nil
}

func (c *Config) validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535"))
	}

	switch c.Storage.Driver {
	case DriverMemory:
	case DriverPostgres:
		if strings.TrimSpace(c.Storage.PostgresDSN) == "" {
			errs = append(errs, errors.New("storage.postgres_dsn is required for the postgres driver"))
		}
	case DriverSQLite:
		if strings.TrimSpace(c.Storage.SQLitePath) == "" {
			errs = append(errs, errors.New("storage.sqlite_path is required for the sqlite driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage.driver %q", c.Storage.Driver))
	}

	if c.Retention.Days <= 0 {
		errs = append(errs, errors.New("retention.days must be positive"))
	}
	if c.Retention.Enabled && strings.TrimSpace(c.Retention.Schedule) == "" {
		errs = append(errs, errors.New("retention.schedule is required when retention is enabled"))
	}
	if c.Recommendations.HistoryDays <= 0 {
		errs = append(errs, errors.New("recommendations.history_days must be positive"))
	}

	return errors.Join(errs...)
}
