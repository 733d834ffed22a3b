package database

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultRetryBaseWait = time.Second
	retryJitterFraction  = 0.25
)

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	Host            string        `env:"REDIS_HOST" envDefault:"localhost"`
	Port            int           `env:"REDIS_PORT" envDefault:"6379"`
	Password        string        `env:"REDIS_PASSWORD"`
	DB              int           `env:"REDIS_DB" envDefault:"0"`
	ConnectAttempts int           `env:"REDIS_CONNECT_ATTEMPTS" envDefault:"3"`
	RetryBaseWait   time.Duration `env:"REDIS_RETRY_BASE_WAIT" envDefault:"1s"`
}

// Addr returns the Redis address string.
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// retryBackoff returns the wait before retry attempt (0-indexed): base doubled
// per attempt with ±25% jitter.
func retryBackoff(base time.Duration, attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	d := float64(base << attempt)
	jitter := (rand.Float64()*2 - 1) * retryJitterFraction
	return time.Duration(d * (1 + jitter))
}

// NewRedisClient creates a new Redis client and verifies the connection,
// retrying the ping with exponential backoff. A nil logger disables retry logs.
func NewRedisClient(ctx context.Context, cfg RedisConfig, logger *slog.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	attempts := max(cfg.ConnectAttempts, 1)
	base := cfg.RetryBaseWait
	if base <= 0 {
		base = defaultRetryBaseWait
	}

	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		if err = client.Ping(ctx).Err(); err == nil {
			return client, nil
		}
		if attempt == attempts-1 {
			break
		}

		wait := retryBackoff(base, attempt)
		if logger != nil {
			logger.WarnContext(ctx, "redis ping failed, retrying",
				slog.String("addr", cfg.Addr()),
				slog.Int("attempt", attempt+1),
				slog.Duration("wait", wait),
				slog.String("error", err.Error()),
			)
		}

		select {
		case <-ctx.Done():
			_ = client.Close()
			return nil, fmt.Errorf("ping redis: %w", ctx.Err())
		case <-time.After(wait):
		}
	}

	_ = client.Close()
	return nil, fmt.Errorf("ping redis at %s after %d attempts: %w", cfg.Addr(), attempts, err)
}
