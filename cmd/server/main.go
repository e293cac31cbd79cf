package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	appservice "github.com/turtacn/adminauth/internal/application/service"
	"github.com/turtacn/adminauth/internal/config"
	domainservice "github.com/turtacn/adminauth/internal/domain/service"
	"github.com/turtacn/adminauth/internal/infrastructure/audit"
	"github.com/turtacn/adminauth/internal/infrastructure/crypto"
	"github.com/turtacn/adminauth/internal/infrastructure/monitoring"
	"github.com/turtacn/adminauth/internal/infrastructure/persistence/cache"
	"github.com/turtacn/adminauth/internal/infrastructure/persistence/postgres"
	"github.com/turtacn/adminauth/internal/infrastructure/persistence/redis"
	"github.com/turtacn/adminauth/internal/infrastructure/ratelimit"
	"github.com/turtacn/adminauth/internal/interfaces/http"
	"github.com/turtacn/adminauth/internal/interfaces/http/handlers"
	"github.com/turtacn/adminauth/internal/interfaces/http/middleware"
	"github.com/turtacn/adminauth/pkg/logger"
)

// ConfigPathEnv optionally points at the configuration file.
const ConfigPathEnv = config.EnvPrefix + "_CONFIG"

const bucketCleanupInterval = 5 * time.Minute

func main() {
	// Load config
	cfg, err := config.LoadConfig(os.Getenv(ConfigPathEnv))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	appLogger, err := monitoring.NewZapLogger(&cfg.Log)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	if err := run(cfg, appLogger); err != nil {
		appLogger.Fatal(context.Background(), "Server stopped with error", err)
	}
	appLogger.Info(context.Background(), "Server stopped", logger.String("address", cfg.Server.Address()))
}

func run(cfg *config.Config, appLogger logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// A missing signing secret is fatal before anything listens.
	if err := crypto.ResolveSigningSecret(ctx, cfg, appLogger, nil); err != nil {
		return wrap("signing secret unavailable", err)
	}

	// Initialize tracing
	tracing, err := monitoring.NewTracingManager(&cfg.Tracing, cfg.Server.Environment, appLogger)
	if err != nil {
		return wrap("failed to initialize tracer", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = tracing.Shutdown(shutdownCtx)
	}()

	// Initialize database
	db, err := postgres.NewDBConnection(ctx, &cfg.Database, appLogger)
	if err != nil {
		return wrap("failed to connect to database", err)
	}
	defer db.Close()

	healthChecks := map[string]handlers.Pinger{"database": db}

	// Initialize Redis
	var redisConn *redis.RedisConnection
	if cfg.Redis.Enabled {
		redisConn, err = redis.NewRedisConnection(ctx, &cfg.Redis, appLogger)
		if err != nil {
			return wrap("failed to connect to Redis", err)
		}
		defer redisConn.Close()
		healthChecks["redis"] = redisConn
	}

	// Initialize infrastructure
	promMetrics := monitoring.NewMetrics(nil)
	metrics := monitoring.NewMetricsAdapter(promMetrics)
	hasher := crypto.NewBcryptHasher(cfg.Password.BcryptCost)
	codec, err := crypto.NewTokenCodec(cfg.JWT.Secret, cfg.JWT.TTL(), appLogger)
	if err != nil {
		return wrap("failed to create token codec", err)
	}

	// Initialize repositories. Login and seeding always read the store; only the bearer-token
	// pipeline may use the opt-in principal cache.
	store := postgres.NewAdminRepository(db, appLogger)
	admins := cache.NewCachedAdminRepository(store, time.Duration(cfg.Cache.PrincipalTTLSeconds)*time.Second, metrics)
	if _, err := appservice.SeedBootstrapAdmin(ctx, store, cfg.Bootstrap, cfg.Security.PhoneRegion, appLogger); err != nil {
		return wrap("failed to seed bootstrap admin", err)
	}

	var limiter domainservice.RateLimitService
	var loginLimiter *ratelimit.LoginRateLimiter
	if cfg.RateLimit.Enabled {
		var client goredis.UniversalClient
		if redisConn != nil {
			client = redisConn.GetClient()
		}
		loginLimiter = ratelimit.NewLoginRateLimiter(client, &cfg.RateLimit, appLogger)
		limiter = loginLimiter
	}

	trail, closeTrail, err := buildAuditTrail(ctx, cfg, db, appLogger)
	if err != nil {
		return wrap("failed to initialize audit trail", err)
	}
	defer closeTrail()

	// Initialize application services
	loginOpts := []appservice.LoginOption{appservice.WithPhoneRegion(cfg.Security.PhoneRegion)}
	if !trail.Empty() {
		loginOpts = append(loginOpts, appservice.WithAuditSink(trail))
	}
	loginSvc := appservice.NewLoginAppService(store, hasher, codec, limiter, metrics, appLogger, loginOpts...)
	authenticator := middleware.NewAuthenticator(codec, admins, domainservice.NewTokenValidator(codec, nil), metrics, appLogger)

	// Initialize HTTP handlers and router
	router := http.NewRouter(cfg, appLogger, http.RouterDeps{
		HealthHandler: handlers.NewHealthHandler(healthChecks, appLogger),
		AuthHandler:   handlers.NewAuthHandler(loginSvc, appLogger),
		MeHandler:     handlers.NewMeHandler(),
		Authenticator: authenticator,
		Tracer:        tracing.Tracer(),
		Metrics:       promMetrics,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(router.Start)
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
		defer cancel()
		return router.Stop(shutdownCtx)
	})
	if loginLimiter != nil {
		g.Go(func() error {
			ticker := time.NewTicker(bucketCleanupInterval)
			defer ticker.Stop()
			for {
				select {
				case <-gctx.Done():
					return nil
				case <-ticker.C:
					loginLimiter.CleanupLocalBuckets(bucketCleanupInterval)
				}
			}
		})
	}

	return g.Wait()
}

// buildAuditTrail assembles the configured audit sinks. The returned close func is always
// safe to call.
func buildAuditTrail(ctx context.Context, cfg *config.Config, db *postgres.DBConnection, log logger.Logger) (*audit.Trail, func(), error) {
	var sinks []domainservice.AuditSink
	closeFn := func() {}

	if cfg.Audit.Persist {
		persisted := audit.NewGormSink(db.DB())
		if err := persisted.Migrate(ctx); err != nil {
			return nil, closeFn, err
		}
		sinks = append(sinks, persisted)
	}
	if cfg.Audit.Kafka.Enabled {
		producer, err := audit.NewKafkaSink(cfg.Audit.Kafka, log)
		if err != nil {
			return nil, closeFn, err
		}
		sinks = append(sinks, producer)
		closeFn = func() {
			if err := producer.Close(); err != nil {
				log.Warn(context.Background(), "Failed to close audit producer", logger.Error(err))
			}
		}
	}
	return audit.NewTrail(audit.NewSigner(cfg.Audit.SigningKey), sinks...), closeFn, nil
}

func wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
