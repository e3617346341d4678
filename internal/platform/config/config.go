package config

import (
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	MigrationsDir string

	// DeviceTokenSecret signs the HS256 bearer tokens household devices
	// present. Enrollment issues the tokens out of band.
	DeviceTokenSecret string

	// SyncRateLimit is a ulule/limiter formatted rate (e.g. "60-M") applied
	// to the sync endpoints per client IP.
	SyncRateLimit string

	// SnapshotImportTimeout bounds a whole-store import.
	SnapshotImportTimeout time.Duration
}

// LoadConfig loads configuration from environment variables and a .env file
// if present. Real environment variables win over .env values.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("MIGRATIONS_DIR", "migrations")
	viper.SetDefault("DEVICE_TOKEN_SECRET", "insecure-dev-device-secret-change-me")
	viper.SetDefault("SYNC_RATE_LIMIT", "120-M")
	viper.SetDefault("SNAPSHOT_IMPORT_TIMEOUT", "2m")

	viper.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:       viper.GetString("PGSQL_URL"),
		Port:              viper.GetString("PORT"),
		IsProduction:      viper.GetBool("IS_PRODUCTION"),
		MigrationsDir:     viper.GetString("MIGRATIONS_DIR"),
		DeviceTokenSecret: viper.GetString("DEVICE_TOKEN_SECRET"),
		SyncRateLimit:     viper.GetString("SYNC_RATE_LIMIT"),
	}

	if cfg.DatabaseURL == "" {
		slog.Warn("PGSQL_URL environment variable not set")
	}
	if cfg.DeviceTokenSecret == "insecure-dev-device-secret-change-me" {
		slog.Warn("DEVICE_TOKEN_SECRET not set, using the insecure development default")
	}

	timeoutStr := viper.GetString("SNAPSHOT_IMPORT_TIMEOUT")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		timeout = 2 * time.Minute
		slog.Warn("Invalid SNAPSHOT_IMPORT_TIMEOUT, using default", slog.String("value", timeoutStr), slog.Duration("default", timeout))
	}
	cfg.SnapshotImportTimeout = timeout

	return cfg, nil
}
