package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"dealer_portal_backend/internal/conversation"
	"dealer_portal_backend/internal/conversation/intent"
	convrepo "dealer_portal_backend/internal/conversation/repository"
	"dealer_portal_backend/internal/email"
	"dealer_portal_backend/internal/events"
	apphttp "dealer_portal_backend/internal/http"
	"dealer_portal_backend/internal/journey"
	"dealer_portal_backend/platform/config"
	"dealer_portal_backend/platform/db"
	"dealer_portal_backend/platform/logger"
	"dealer_portal_backend/platform/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, "migrations")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Shared validator instance for dependency injection
	val := validator.New()

	// Context snapshot cache; optional, reads fall back to Postgres replay
	contextCache, closeCache := initContextCache(cfg, log)
	if closeCache != nil {
		defer closeCache()
	}

	// Intent rules, overridable per deployment via INTENT_RULES_PATH
	rules, err := intent.LoadRules(cfg.GetIntentRulesPath())
	if err != nil {
		log.Error("failed to load intent rules", "error", err)
		panic("failed to load intent rules: " + err.Error())
	}
	log.Info("intent rules loaded", "categories", len(rules.Rules))

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	journeyModule := journey.NewModule(pool, eventBus, log, val)
	conversationModule := conversation.NewModule(pool, contextCache, rules, eventBus, log, val, cfg.GetContextCacheTTL())

	// Escalation alerts subscribe to the event bus (not HTTP-facing)
	if cfg.GetEmailEnabled() {
		alerts := email.NewEscalationAlerts(email.NewSMTPSender(cfg), log)
		alerts.Register(eventBus)
		log.Info("escalation email alerts enabled", "to", cfg.GetEscalationAlertAddress())
	} else {
		log.Warn("EMAIL_ENABLED is off; escalation alerts will only be logged")
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			journeyModule,
			conversationModule,
		},
	}

	engine := apphttp.BuildRouter(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func initContextCache(cfg config.CacheConfig, log *logger.Logger) (convrepo.ContextCache, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; conversation context cache disabled")
		return nil, nil
	}

	opt, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		log.Error("invalid REDIS_URL; conversation context cache disabled", "error", err)
		return nil, nil
	}

	client := redis.NewClient(opt)
	return convrepo.NewRedisContextCache(client, log), func() {
		_ = client.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}
	return fmt.Errorf("%s: %w", name, lastErr)
}
