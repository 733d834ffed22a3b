package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"

	"github.com/utafrali/ReviewAnalyzer/internal/repository"
	"github.com/utafrali/ReviewAnalyzer/internal/sentiment"
	pkgconfig "github.com/utafrali/ReviewAnalyzer/pkg/config"
	"github.com/utafrali/ReviewAnalyzer/pkg/database"
	"github.com/utafrali/ReviewAnalyzer/pkg/tracing"
)

// ServiceName identifies this service in logs, metrics and traces.
const ServiceName = "review-analyzer"

// Config holds all configuration for the review analyzer.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"PORT" envDefault:"8000"`

	// Initial dataset
	DataPath string `env:"DATA_PATH" envDefault:"data/reviews.csv"`

	// Review storage: memory or redis
	ReviewStore string `env:"REVIEW_STORE" envDefault:"memory"`
	Redis       database.RedisConfig

	// Slow command logging
	SlowCommandThresholdMs int `env:"LOG_SLOW_COMMAND_MS" envDefault:"100"`

	// Sentiment scoring: lexicon or remote
	SentimentScorer     string        `env:"SENTIMENT_SCORER" envDefault:"lexicon"`
	SentimentServiceURL string        `env:"SENTIMENT_SERVICE_URL" envDefault:"http://localhost:8090/v1/polarity"`
	SentimentTimeout    time.Duration `env:"SENTIMENT_TIMEOUT" envDefault:"5s"`

	// Kafka
	KafkaEnabled bool     `env:"KAFKA_ENABLED" envDefault:"false"`
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// POST rate limiting per client IP. Off unless RATE_LIMIT_RPS is set.
	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS" envDefault:"0"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"200"`

	// Key the limiter on X-Forwarded-For / X-Real-IP. Only safe behind a
	// proxy that overwrites those headers.
	TrustProxyHeaders bool `env:"TRUST_PROXY_HEADERS" envDefault:"false"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// Pprof debug endpoints (IP allowlist in CIDR notation)
	PprofAllowedCIDRs []string `env:"PPROF_ALLOWED_CIDRS" envDefault:"10.0.0.0/8,172.16.0.0/12,192.168.0.0/16,127.0.0.0/8,::1/128" envSeparator:","`

	// OpenTelemetry
	Tracing tracing.Config
}

// Load reads configuration from a .env file, when present, and the process
// environment. Variables already set in the environment win over the file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load review analyzer config: %w", err)
	}
	return cfg.finish()
}

// LoadFrom reads configuration from vars only. Unset keys take their defaults.
func LoadFrom(vars map[string]string) (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.LoadFrom(cfg, vars); err != nil {
		return nil, fmt.Errorf("load review analyzer config: %w", err)
	}
	return cfg.finish()
}

func (c *Config) finish() (*Config, error) {
	c.Tracing.ServiceName = ServiceName
	c.Tracing.Environment = c.Environment
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.DataPath == "" {
		return fmt.Errorf("DATA_PATH is required")
	}
	switch c.ReviewStore {
	case repository.BackendMemory, repository.BackendRedis:
	default:
		return fmt.Errorf("REVIEW_STORE must be %q or %q, got %q", repository.BackendMemory, repository.BackendRedis, c.ReviewStore)
	}
	switch c.SentimentScorer {
	case sentiment.KindLexicon:
	case sentiment.KindRemote:
		if c.SentimentServiceURL == "" {
			return fmt.Errorf("SENTIMENT_SERVICE_URL is required when SENTIMENT_SCORER is %q", sentiment.KindRemote)
		}
	default:
		return fmt.Errorf("SENTIMENT_SCORER must be %q or %q, got %q", sentiment.KindLexicon, sentiment.KindRemote, c.SentimentScorer)
	}
	if c.SentimentTimeout <= 0 {
		return fmt.Errorf("SENTIMENT_TIMEOUT must be positive, got %s", c.SentimentTimeout)
	}
	if c.KafkaEnabled && len(c.KafkaBrokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required when KAFKA_ENABLED is set")
	}
	if c.RateLimitRPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must not be negative, got %v", c.RateLimitRPS)
	}
	if c.RateLimitRPS > 0 && c.RateLimitBurst < 1 {
		return fmt.Errorf("RATE_LIMIT_BURST must be at least 1, got %d", c.RateLimitBurst)
	}
	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1.0 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be between 0.0 and 1.0, got %f", c.Tracing.SampleRate)
	}
	return nil
}

// SlowCommandThreshold returns the slow Redis command threshold.
func (c *Config) SlowCommandThreshold() time.Duration {
	return time.Duration(c.SlowCommandThresholdMs) * time.Millisecond
}
