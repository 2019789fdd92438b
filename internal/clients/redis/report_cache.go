package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/raja1702/computer-storage-solutions/internal/platform/logger"
)

// ReportCache stores encoded report results under a key prefix.
type ReportCache struct {
	log    *logger.Logger
	rdb    *goredis.Client
	prefix string
}

type ReportCacheConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

func NewReportCache(log *logger.Logger, cfg ReportCacheConfig) (*ReportCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	prefix := strings.TrimSpace(cfg.Prefix)
	if prefix == "" {
		prefix = "storefront"
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:         addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &ReportCache{
		log:    log.With("service", "RedisReportCache"),
		rdb:    rdb,
		prefix: prefix,
	}, nil
}

func (c *ReportCache) key(k string) string { return c.prefix + ":" + k }

// Get reports (nil, false, nil) on a miss.
func (c *ReportCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if c == nil || c.rdb == nil {
		return nil, false, fmt.Errorf("redis report cache not initialized")
	}
	raw, err := c.rdb.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return raw, true, nil
}

func (c *ReportCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if c == nil || c.rdb == nil {
		return fmt.Errorf("redis report cache not initialized")
	}
	return c.rdb.Set(ctx, c.key(key), value, ttl).Err()
}

func (c *ReportCache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
