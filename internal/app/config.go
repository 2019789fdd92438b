package app

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/raja1702/computer-storage-solutions/internal/observability"
	"github.com/raja1702/computer-storage-solutions/internal/platform/envutil"
	"github.com/raja1702/computer-storage-solutions/internal/platform/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Port         string
	DBDriver     string
	SQLitePath   string
	JWTSecretKey string

	ReportTimezone    *time.Location
	ReportTimeout     time.Duration
	ReportCacheTTL    time.Duration
	BatchParallelism  int
	RedisAddr         string
	RedisPassword     string
	RedisDB           int
	RedisPrefix       string
	AllowedOrigins    []string
	MetricsEnabled    bool
	RateLimitRPS      float64
	RateLimitBurst    int
	WarmSchedule      string
	Otel              observability.OtelConfig
}

func LoadConfig(log *logger.Logger) (Config, error) {
	cfg := Config{
		Port:             envutil.GetEnv("PORT", "8080", log),
		DBDriver:         strings.ToLower(envutil.GetEnv("DB_DRIVER", DriverPostgres, log)),
		SQLitePath:       envutil.GetEnv("SQLITE_PATH", "storefront.db", log),
		JWTSecretKey:     envutil.GetEnv("JWT_SECRET_KEY", "defaultsecret", log),
		ReportTimeout:    envutil.GetEnvAsDuration("REPORT_TIMEOUT_MS", 15*time.Second, time.Millisecond, log),
		ReportCacheTTL:   envutil.GetEnvAsDuration("REPORT_CACHE_TTL_SECONDS", 0, time.Second, log),
		BatchParallelism: envutil.GetEnvAsInt("REPORT_BATCH_PARALLELISM", 4, log),
		RedisAddr:        envutil.GetEnv("REDIS_ADDR", "", log),
		RedisPassword:    envutil.GetEnv("REDIS_PASSWORD", "", nil),
		RedisDB:          envutil.GetEnvAsInt("REDIS_DB", 0, log),
		RedisPrefix:      envutil.GetEnv("REDIS_PREFIX", "storefront", log),
		AllowedOrigins:   envutil.GetEnvAsList("CORS_ALLOWED_ORIGINS", nil),
		MetricsEnabled:   envutil.GetEnvAsBool("METRICS_ENABLED", false, log),
		RateLimitRPS:     parseFloat(envutil.GetEnv("REPORT_RATE_LIMIT_RPS", "0", log), 0),
		RateLimitBurst:   envutil.GetEnvAsInt("REPORT_RATE_LIMIT_BURST", 0, log),
		WarmSchedule:     envutil.GetEnv("REPORT_WARM_SCHEDULE", "", log),
		Otel: observability.OtelConfig{
			Enabled:     envutil.GetEnvAsBool("OTEL_ENABLED", false, log),
			ServiceName: envutil.GetEnv("OTEL_SERVICE_NAME", "storefront-analytics", log),
			Environment: envutil.GetEnv("OTEL_ENVIRONMENT", "development", log),
			Version:     envutil.GetEnv("OTEL_SERVICE_VERSION", "dev", log),
			SampleRatio: parseFloat(envutil.GetEnv("OTEL_SAMPLER_RATIO", "1", log), 1),
			Endpoint:    envutil.GetEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "", log),
			Headers:     envutil.GetEnv("OTEL_EXPORTER_OTLP_HEADERS", "", nil),
			Insecure:    envutil.GetEnvAsBool("OTEL_EXPORTER_OTLP_INSECURE", false, log),
		},
	}

	switch cfg.DBDriver {
	case DriverPostgres, DriverSQLite:
	default:
		return Config{}, fmt.Errorf("DB_DRIVER must be %q or %q, got %q", DriverPostgres, DriverSQLite, cfg.DBDriver)
	}

	tz := envutil.GetEnv("REPORT_TIMEZONE", "UTC", log)
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return Config{}, fmt.Errorf("REPORT_TIMEZONE %q: %w", tz, err)
	}
	cfg.ReportTimezone = loc
	return cfg, nil
}

func parseFloat(raw string, def float64) float64 {
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return def
	}
	return f
}
