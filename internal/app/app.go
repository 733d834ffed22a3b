package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/utafrali/ReviewAnalyzer/internal/config"
	"github.com/utafrali/ReviewAnalyzer/internal/dataset"
	"github.com/utafrali/ReviewAnalyzer/internal/event"
	handler "github.com/utafrali/ReviewAnalyzer/internal/handler/http"
	"github.com/utafrali/ReviewAnalyzer/internal/repository"
	"github.com/utafrali/ReviewAnalyzer/internal/repository/memory"
	redisrepo "github.com/utafrali/ReviewAnalyzer/internal/repository/redis"
	"github.com/utafrali/ReviewAnalyzer/internal/sentiment"
	"github.com/utafrali/ReviewAnalyzer/internal/sentiment/lexicon"
	"github.com/utafrali/ReviewAnalyzer/internal/sentiment/remote"
	"github.com/utafrali/ReviewAnalyzer/internal/service"
	"github.com/utafrali/ReviewAnalyzer/pkg/database"
	"github.com/utafrali/ReviewAnalyzer/pkg/health"
	"github.com/utafrali/ReviewAnalyzer/pkg/httpclient"
	pkgkafka "github.com/utafrali/ReviewAnalyzer/pkg/kafka"
	"github.com/utafrali/ReviewAnalyzer/pkg/middleware"
	"github.com/utafrali/ReviewAnalyzer/pkg/tracing"
)

const (
	startupTimeout  = 30 * time.Second
	shutdownTimeout = 10 * time.Second
)

// App wires together all dependencies and runs the review analyzer.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	rdb            *redis.Client
	producer       *pkgkafka.Producer
	limiter        *middleware.RateLimiter
	httpServer     *http.Server
	shutdownTracer func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies
// and loading the initial dataset into the review store.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	shutdownTracer, err := tracing.InitTracer(ctx, cfg.Tracing)
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	a := &App{
		cfg:            cfg,
		logger:         logger,
		shutdownTracer: shutdownTracer,
	}

	store, err := a.newStore(ctx)
	if err != nil {
		a.closeAll()
		return nil, err
	}

	loaded, err := dataset.LoadFile(ctx, cfg.DataPath, store, logger)
	if err != nil {
		a.closeAll()
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	if loaded > 0 {
		logger.Info("dataset loaded",
			slog.String("path", cfg.DataPath),
			slog.Int("reviews", loaded),
		)
	}

	scorer, err := a.newScorer()
	if err != nil {
		a.closeAll()
		return nil, err
	}

	// Build the dependency graph.
	reviewService := service.NewReviewService(store, service.NewRanker(scorer), logger,
		service.WithPublisher(a.newPublisher()),
	)

	// Health checks.
	healthHandler := health.NewHandler()
	if a.rdb != nil {
		healthHandler.Register("redis", func(ctx context.Context) error {
			return a.rdb.Ping(ctx).Err()
		})
	}
	if a.producer != nil {
		healthHandler.Register("kafka", a.producer.Ping)
	}
	logger.Info("readiness checks registered", slog.Any("checks", healthHandler.Names()))

	if cfg.RateLimitRPS > 0 {
		a.limiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, logger,
			middleware.WithTrustedProxyHeaders(cfg.TrustProxyHeaders),
		)
	}

	cors := middleware.DefaultCORSConfig()
	cors.AllowedOrigins = cfg.CORSAllowedOrigins
	cors.Environment = cfg.Environment

	// HTTP router.
	router := handler.NewRouter(reviewService, healthHandler, logger, handler.RouterOptions{
		ServiceName:       config.ServiceName,
		CORS:              cors,
		RateLimiter:       a.limiter,
		PprofAllowedCIDRs: cfg.PprofAllowedCIDRs,
	})

	a.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 45 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return a, nil
}

// Handler returns the root HTTP handler.
func (a *App) Handler() http.Handler {
	return a.httpServer.Handler
}

func (a *App) newStore(ctx context.Context) (repository.ReviewStore, error) {
	switch a.cfg.ReviewStore {
	case repository.BackendRedis:
		database.SetSlowCommandLogging(a.cfg.SlowCommandThreshold(), a.logger)

		rdb, err := database.NewRedisClient(ctx, a.cfg.Redis, a.logger)
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		a.rdb = rdb
		a.logger.Info("connected to Redis",
			slog.String("addr", a.cfg.Redis.Addr()),
			slog.Int("db", a.cfg.Redis.DB),
		)

		if err := database.RegisterPoolMetrics(prometheus.DefaultRegisterer, rdb, config.ServiceName); err != nil {
			a.logger.Warn("redis pool metrics not registered", slog.String("error", err.Error()))
		}
		return redisrepo.NewReviewStore(rdb), nil
	default:
		return memory.NewReviewStore(), nil
	}
}

func (a *App) newScorer() (sentiment.Scorer, error) {
	lex, err := lexicon.New()
	if err != nil {
		return nil, fmt.Errorf("load sentiment lexicon: %w", err)
	}
	if a.cfg.SentimentScorer != sentiment.KindRemote {
		return lex, nil
	}

	clientCfg := httpclient.DefaultConfig()
	clientCfg.Timeout = a.cfg.SentimentTimeout
	clientCfg.MaxRetries = 1
	cb := httpclient.NewCircuitBreakerClient(
		httpclient.New(clientCfg),
		httpclient.DefaultCircuitBreakerConfig("sentiment"),
		a.logger,
	)
	a.logger.Info("using remote sentiment scorer",
		slog.String("url", a.cfg.SentimentServiceURL),
	)
	return remote.New(a.cfg.SentimentServiceURL, cb, a.logger, remote.WithFallback(lex)), nil
}

func (a *App) newPublisher() service.EventPublisher {
	if !a.cfg.KafkaEnabled {
		return event.NoopPublisher{}
	}

	a.producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(a.cfg.KafkaBrokers), a.logger)
	a.logger.Info("kafka producer initialized", slog.Any("brokers", a.cfg.KafkaBrokers))
	return event.NewProducer(a.producer, clockwork.NewRealClock(), a.logger)
}

// Run starts the HTTP server and blocks until the context is canceled or the
// server fails.
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	if a.limiter != nil {
		g.Go(func() error {
			a.limiter.Run(gctx)
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("shutdown signal received")
		return a.Shutdown()
	})

	return g.Wait()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	// Graceful HTTP server shutdown with a 10-second deadline.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	a.closeAll()

	a.logger.Info("application shutdown complete")
	return nil
}

// closeAll releases the backing connections and flushes pending spans.
func (a *App) closeAll() {
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		}
	}

	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.shutdownTracer(ctx); err != nil {
		a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
	}
}
