package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var ErrMissingEnvironmentVariables = errors.New("missing required environment variables")

// Storage backends selectable via configuration.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendPostgres = "postgres"
)

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env              string   `mapstructure:"env"`          // current application environment (local, dev, prod etc)
	TelegramAPIToken string   `mapstructure:"-"`            // Telegram API token loaded from environment
	Timezone         string   `mapstructure:"timezone"`     // IANA zone for calendar-day arithmetic
	CatalogPath      string   `mapstructure:"catalog_path"` // path to the JSON item catalog
	Storage          Storage  `mapstructure:"storage"`      // persistence backend selection
	DB               DB       `mapstructure:"database"`     // database configuration section
	Review           Review   `mapstructure:"review"`       // scheduler tuning
	Reminder         Reminder `mapstructure:"reminder"`     // daily reminder cron
}

// Storage selects and parameterizes the key-value backend.
type Storage struct {
	Backend string `mapstructure:"backend"` // memory, file or postgres
	Path    string `mapstructure:"path"`    // file backend location
}

// DB contains database-related configuration parameters.
type DB struct {
	URL             string        `mapstructure:"-"`                 // database connection string loaded from environment
	MaxConnections  int           `mapstructure:"max_connections"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"` // maximum lifetime of a single connection
}

// DSN returns the database connection string if it is configured.
func (db DB) DSN() (string, error) {
	if db.URL == "" {
		return "", ErrMissingEnvironmentVariables
	}
	return db.URL, nil
}

// Review carries the tunable scheduler constants. The defaults were tuned
// experimentally in production, not derived.
type Review struct {
	MasteredSampleRate float64       `mapstructure:"mastered_sample_rate"` // refresher probability for mastered items
	MinDueItems        int           `mapstructure:"min_due_items"`        // session floor before backfill stops
	EvictAfterDays     int           `mapstructure:"evict_after_days"`     // mastered-record eviction age
	SaveDebounce       time.Duration `mapstructure:"save_debounce"`        // write coalescing window
}

// Reminder configures the daily review reminder.
type Reminder struct {
	Enabled bool   `mapstructure:"enabled"`
	Cron    string `mapstructure:"cron"` // robfig/cron spec, evaluated in the configured timezone
}

// Load reads configuration from config files and environment variables.
func Load() (*Config, error) {
	// Initialize Viper instance and base config options.
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	// Set default values for configuration keys.
	v.SetDefault("env", "local")
	v.SetDefault("timezone", "Local")
	v.SetDefault("catalog_path", "assets/data/items.json")
	v.SetDefault("storage.backend", BackendFile)
	v.SetDefault("storage.path", "data/review-store.json")
	v.SetDefault("database.max_connections", 20)
	v.SetDefault("database.max_conn_lifetime", "30s")
	v.SetDefault("review.mastered_sample_rate", 0.5)
	v.SetDefault("review.min_due_items", 50)
	v.SetDefault("review.evict_after_days", 30)
	v.SetDefault("review.save_debounce", "100ms")
	v.SetDefault("reminder.enabled", true)
	v.SetDefault("reminder.cron", "0 9 * * *")

	// Configure environment variable handling and key mapping.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // map nested keys to ENV style names
	v.AutomaticEnv()

	// Bind explicit environment variables to configuration keys.
	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("env", "APP_ENV")

	// Try to read configuration file if present.
	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	// Unmarshal configuration into strongly typed struct.
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// Load sensitive values from environment variables.
	cfg.TelegramAPIToken = v.GetString("telegram_api_token")
	if cfg.TelegramAPIToken == "" {
		return nil, ErrMissingEnvironmentVariables
	}

	// The connection string is only required for the postgres backend.
	cfg.DB.URL = v.GetString("database_url")
	if cfg.Storage.Backend == BackendPostgres && cfg.DB.URL == "" {
		return nil, ErrMissingEnvironmentVariables
	}

	return &cfg, nil
}
