// Package cache holds the shared Redis client and the read-through helpers
// used for blog pages and feeds. Every helper degrades to a no-op when Redis
// is not configured or unreachable.
package cache

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"unpolished/internal/middleware"

	"github.com/redis/go-redis/v9"
)

const pingTimeout = 5 * time.Second

var client *redis.Client

// errorCounter feeds failed commands into the redis_errors metric. A miss
// (redis.Nil) is not a failure.
type errorCounter struct{}

func (errorCounter) DialHook(next redis.DialHook) redis.DialHook { return next }

func (errorCounter) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		err := next(ctx, cmd)
		countFailure(cmd.Name(), err)
		return err
	}
}

func (errorCounter) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		err := next(ctx, cmds)
		countFailure("pipeline", err)
		return err
	}
}

func countFailure(op string, err error) {
	if err != nil && !errors.Is(err, redis.Nil) {
		middleware.RedisErrors.WithLabelValues(op).Inc()
	}
}

// parseAddr accepts either a redis:// URL or a bare host:port.
func parseAddr(addr string) (*redis.Options, error) {
	if strings.Contains(addr, "://") {
		return redis.ParseURL(addr)
	}
	return &redis.Options{Addr: addr}, nil
}

// InitRedis connects the shared client. A bad address or a failed ping is
// logged and leaves caching disabled rather than stopping the server.
func InitRedis(addr string) {
	client = nil
	if addr == "" {
		middleware.Logger.Info("REDIS_URL not set, caching disabled")
		return
	}

	opts, err := parseAddr(addr)
	if err != nil {
		middleware.Logger.Warn("Invalid REDIS_URL, caching disabled", slog.String("error", err.Error()))
		return
	}

	rdb := redis.NewClient(opts)
	rdb.AddHook(errorCounter{})

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		middleware.Logger.Warn("Redis unreachable, caching disabled",
			slog.String("addr", opts.Addr),
			slog.String("error", err.Error()),
		)
		_ = rdb.Close()
		return
	}

	middleware.Logger.Info("Redis connected", slog.String("addr", opts.Addr), slog.Int("db", opts.DB))
	client = rdb
}

// SetClient installs c as the shared client. Tests use it with miniredis;
// nil disables caching.
func SetClient(c *redis.Client) {
	if c != nil {
		c.AddHook(errorCounter{})
	}
	client = c
}

// GetClient returns the shared client, or nil when caching is disabled.
func GetClient() *redis.Client {
	return client
}
