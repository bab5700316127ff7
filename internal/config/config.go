package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds runtime configuration loaded from environment variables.
type Config struct {
	DatabaseURL           string
	StorageDriver         string
	Port                  string
	CorsOrigins           []string
	UploadDir             string
	UploadURLPrefix       string
	MaxUploadSize         int64
	MinFreeDiskBytes      uint64
	Timezone              string
	Location              *time.Location
	StatsHistoryMonths    int
	RecentEntriesLimit    int
	DashboardEntriesLimit int
	TrackingProfilesFile  string
	JWTSecret             string
	JWTIssuer             string
	AdminTokenTTLSeconds  int64
	LogDir                string
	LogLevel              string
	LogRetentionDays      int
	DBMaxOpenConns        int
	DBMaxIdleConns        int
}

func Load() (Config, error) {
	cfg := Config{
		DatabaseURL:           envOr("DATABASE_URL", ""),
		StorageDriver:         strings.ToLower(envOr("STORAGE_DRIVER", DriverPostgres)),
		Port:                  envOr("PORT", "8000"),
		CorsOrigins:           parseCSV(envOr("CORS_ORIGINS", "")),
		UploadDir:             envOr("UPLOAD_DIR", "web/static/uploads"),
		UploadURLPrefix:       envOr("UPLOAD_URL_PREFIX", "/static/uploads/"),
		MaxUploadSize:         int64(envOrInt("MAX_UPLOAD_SIZE", 10*1024*1024)),
		MinFreeDiskBytes:      uint64(envOrInt("MIN_FREE_DISK_BYTES", 50*1024*1024)),
		Timezone:              envOr("TIMEZONE", "Europe/Berlin"),
		StatsHistoryMonths:    envOrInt("STATS_HISTORY_MONTHS", 6),
		RecentEntriesLimit:    envOrInt("RECENT_ENTRIES_LIMIT", 5),
		DashboardEntriesLimit: envOrInt("DASHBOARD_ENTRIES_LIMIT", 3),
		TrackingProfilesFile:  envOr("TRACKING_PROFILES_FILE", ""),
		JWTSecret:             envOr("JWT_SECRET", ""),
		JWTIssuer:             envOr("JWT_ISSUER", "progress-tracker"),
		AdminTokenTTLSeconds:  int64(envOrInt("ADMIN_TOKEN_TTL_SECONDS", 86400)),
		LogDir:                envOr("LOG_DIR", "storage/logs"),
		LogLevel:              envOr("LOG_LEVEL", "info"),
		LogRetentionDays:      envOrInt("LOG_RETENTION_DAYS", 7),
		DBMaxOpenConns:        envOrInt("DB_MAX_OPEN_CONNS", 20),
		DBMaxIdleConns:        envOrInt("DB_MAX_IDLE_CONNS", 5),
	}

	var problems []error
	switch cfg.StorageDriver {
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			problems = append(problems, errors.New("missing env var: DATABASE_URL"))
		}
	case DriverMemory:
	default:
		problems = append(problems, fmt.Errorf("STORAGE_DRIVER must be %q or %q, got %q", DriverPostgres, DriverMemory, cfg.StorageDriver))
	}
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		problems = append(problems, fmt.Errorf("TIMEZONE %q: %w", cfg.Timezone, err))
	}
	cfg.Location = loc
	if cfg.MaxUploadSize <= 0 {
		problems = append(problems, errors.New("MAX_UPLOAD_SIZE must be positive"))
	}
	if cfg.StatsHistoryMonths <= 0 {
		cfg.StatsHistoryMonths = 6
	}
	if cfg.LogRetentionDays <= 0 || cfg.LogRetentionDays > 7 {
		cfg.LogRetentionDays = 7
	}
	return cfg, errors.Join(problems...)
}

func envOr(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func envOrInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		value := strings.TrimSpace(part)
		if value != "" {
			items = append(items, value)
		}
	}
	return items
}
