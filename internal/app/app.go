package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"gorm.io/gorm"

	"github.com/raja1702/computer-storage-solutions/internal/analytics/reports"
	"github.com/raja1702/computer-storage-solutions/internal/analytics/window"
	"github.com/raja1702/computer-storage-solutions/internal/clients/redis"
	"github.com/raja1702/computer-storage-solutions/internal/data/db"
	"github.com/raja1702/computer-storage-solutions/internal/data/repos/ledger"
	httpserver "github.com/raja1702/computer-storage-solutions/internal/http"
	httpH "github.com/raja1702/computer-storage-solutions/internal/http/handlers"
	httpMW "github.com/raja1702/computer-storage-solutions/internal/http/middleware"
	"github.com/raja1702/computer-storage-solutions/internal/jobs/reportwarm"
	"github.com/raja1702/computer-storage-solutions/internal/observability"
	"github.com/raja1702/computer-storage-solutions/internal/platform/logger"
)

type App struct {
	Log     *logger.Logger
	DB      *gorm.DB
	Cfg     Config
	Engine  *reports.Engine
	Server  *httpserver.Server
	cache   *redis.ReportCache
	warmer  *reportwarm.Warmer
	limiter *httpMW.RateLimiter
	closers []func(context.Context) error
}

func New(ctx context.Context) (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg, err := LoadConfig(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("load config: %w", err)
	}

	a := &App{Log: log, Cfg: cfg}
	a.closers = append(a.closers, observability.InitOTel(ctx, log, cfg.Otel))

	theDB, err := OpenDB(log, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}
	if err := db.AutoMigrateAll(theDB); err != nil {
		a.Close()
		return nil, fmt.Errorf("automigrate: %w", err)
	}
	a.DB = theDB

	opts := []reports.Option{
		reports.WithTimeout(cfg.ReportTimeout),
		reports.WithParallelism(cfg.BatchParallelism),
	}
	var metrics *observability.Metrics
	if cfg.MetricsEnabled {
		metrics = observability.NewMetrics()
		opts = append(opts, reports.WithObserver(metrics))
	}
	if cfg.Otel.Enabled {
		opts = append(opts, reports.WithTracer(otel.Tracer("storefront/reports")))
	}
	if cfg.RedisAddr != "" && cfg.ReportCacheTTL > 0 {
		cache, err := redis.NewReportCache(log, redis.ReportCacheConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.RedisPrefix,
		})
		if err != nil {
			// Reports still work uncached.
			log.Warn("Report cache disabled", "error", err)
		} else {
			a.cache = cache
			opts = append(opts, reports.WithCache(cache, cfg.ReportCacheTTL))
		}
	}

	store := ledger.NewStore(theDB, log)
	windows := window.NewResolver(window.SystemClock{}, cfg.ReportTimezone)
	a.Engine = reports.NewEngine(store, windows, log, opts...)

	if cfg.WarmSchedule != "" {
		if a.cache == nil {
			log.Warn("REPORT_WARM_SCHEDULE ignored without a report cache")
		} else if a.warmer, err = reportwarm.New(log, a.Engine, cfg.WarmSchedule, nil, cfg.ReportTimeout); err != nil {
			a.Close()
			return nil, err
		}
	}
	if cfg.RateLimitRPS > 0 {
		a.limiter = httpMW.NewRateLimiter(log, cfg.RateLimitRPS, cfg.RateLimitBurst)
	}

	routerCfg := httpserver.RouterConfig{
		Log:               log,
		AllowedOrigins:    cfg.AllowedOrigins,
		Metrics:           metrics,
		AuthMiddleware:    httpMW.NewAuthMiddleware(log, cfg.JWTSecretKey),
		RateLimiter:       a.limiter,
		StatisticsHandler: httpH.NewStatisticsHandler(log, a.Engine),
		HealthHandler:     httpH.NewHealthHandler(pingDB(theDB)),
	}
	if cfg.Otel.Enabled {
		routerCfg.ServiceName = cfg.Otel.ServiceName
	}
	a.Server = httpserver.NewServer(routerCfg)
	return a, nil
}

// OpenDB connects to the driver named by cfg.DBDriver.
func OpenDB(log *logger.Logger, cfg Config) (*gorm.DB, error) {
	switch cfg.DBDriver {
	case DriverSQLite:
		theDB, err := db.OpenSQLite(cfg.SQLitePath, log, false)
		if err != nil {
			return nil, fmt.Errorf("init sqlite: %w", err)
		}
		return theDB, nil
	default:
		pg, err := db.NewPostgresService(log)
		if err != nil {
			return nil, fmt.Errorf("init postgres: %w", err)
		}
		return pg.DB(), nil
	}
}

func pingDB(theDB *gorm.DB) func(context.Context) error {
	return func(ctx context.Context) error {
		sqlDB, err := theDB.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}

// Run starts background jobs and serves HTTP until ctx is done.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return errors.New("app not initialized")
	}
	if a.warmer != nil {
		if err := a.warmer.Start(ctx); err != nil {
			return err
		}
	}
	if a.limiter != nil {
		go a.sweepLimiter(ctx, time.Minute)
	}
	a.Log.Info("Serving", "port", a.Cfg.Port)
	return a.Server.Run(ctx, ":"+a.Cfg.Port)
}

func (a *App) sweepLimiter(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := a.limiter.Sweep(); n > 0 {
				a.Log.Debug("Dropped idle rate limiters", "count", n)
			}
		}
	}
}

func (a *App) Close() {
	if a == nil {
		return
	}
	ctx := context.Background()
	if a.warmer != nil {
		a.warmer.Stop()
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.Log.Warn("Closing report cache failed", "error", err)
		}
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			a.Log.Warn("Shutdown hook failed", "error", err)
		}
	}
	a.Log.Sync()
}
