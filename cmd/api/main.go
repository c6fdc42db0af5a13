package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"renthub/internal/api"
	"renthub/internal/auth"
	"renthub/internal/chatbot"
	"renthub/internal/config"
	"renthub/internal/database"
	"renthub/internal/domain"
	"renthub/internal/logging"
	"renthub/internal/mailer"
	"renthub/internal/metrics"
	"renthub/internal/repository"
	"renthub/internal/service"
	"renthub/internal/worker"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	db, err := database.NewDB(cfg.Database.Path, &logger)
	if err != nil {
		logger.Error().Err(err).Str("db_path", cfg.Database.Path).Msg("init database")
		return err
	}
	defer db.Close()

	cache := initCache(cfg, &logger)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
	templates := mailer.NewTemplates(cfg.App.URL)

	services := api.Services{
		Auth:      service.NewAuthService(db, tokens, &logger),
		Property:  service.NewPropertyService(db, cache, templates, &logger),
		Booking:   service.NewBookingService(db, templates, &logger),
		Rating:    service.NewRatingService(db, &logger),
		Admin:     service.NewAdminService(db, cache, &logger),
		Analytics: service.NewAnalyticsService(db, &logger),
		Chat:      service.NewChatService(chatbot.New(cfg.Chatbot), &logger),
	}

	server := api.NewServer(cfg.Server, db, tokens, cache, services, &logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startOutboxWorker(ctx, cfg, db, &logger)
	scheduler := startScheduler(cfg, db, templates, &logger)
	if scheduler != nil {
		defer scheduler.Stop()
	}
	startMetrics(ctx, cfg, &logger)

	return serve(ctx, server, cfg, &logger)
}

func loadConfigAndLogger() (*config.Config, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("init logger: %w", err)
	}
	logger := baseLogger.With().Str("component", "api-main").Logger()

	return cfg, logger, closer, nil
}

// initCache wires the listing cache: redis primary with in-process fallback,
// or pure in-process when redis is not configured.
func initCache(cfg *config.Config, logger *zerolog.Logger) domain.ListingCache {
	memory := repository.NewMemoryListingCache()

	if cfg.Redis.Address == "" {
		logger.Info().Msg("redis not configured, using in-process listing cache")
		return repository.NewFailoverListingCache(memory, repository.NewMemoryListingCache(), logger)
	}

	client := repository.NewRedisClient(cfg.Redis)
	if err := repository.Ping(context.Background(), client); err != nil {
		logger.Warn().Err(err).Msg("redis connection failed, continuing with in-process cache")
	} else {
		logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
	}
	return repository.NewFailoverListingCache(repository.NewRedisListingCache(client), memory, logger)
}

func startOutboxWorker(ctx context.Context, cfg *config.Config, db *database.DB, logger *zerolog.Logger) {
	if !cfg.SMTP.Enabled() {
		logger.Warn().Msg("smtp not configured, email outbox will accumulate without delivery")
		return
	}

	smtp := mailer.NewSMTPMailer(cfg.SMTP, logger)
	retry := worker.RetryPolicy{MaxRetries: cfg.Outbox.MaxRetries}
	w := worker.NewEmailWorker(db, smtp, retry, cfg.Outbox.PollInterval, cfg.Outbox.BatchSize, logger)
	go w.Start(ctx)
}

func startScheduler(cfg *config.Config, db *database.DB, templates *mailer.Templates, logger *zerolog.Logger) *cron.Cron {
	c := cron.New()

	if cfg.Outbox.ReminderCron != "" {
		reminder := worker.NewReminderJob(db, templates, logger)
		if _, err := c.AddJob(cfg.Outbox.ReminderCron, reminder); err != nil {
			logger.Error().Err(err).Str("schedule", cfg.Outbox.ReminderCron).Msg("schedule reminder job")
		}
	}

	if cfg.Backup.Enabled {
		backup := database.NewBackupService(db, cfg.Backup, logger)
		if _, err := c.AddJob(cfg.Backup.Schedule, backup); err != nil {
			logger.Error().Err(err).Str("schedule", cfg.Backup.Schedule).Msg("schedule backup job")
		}
	}

	if len(c.Entries()) == 0 {
		return nil
	}
	c.Start()
	return c
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	metrics.Register()
	port := cfg.Monitoring.PrometheusPort
	if port == 0 {
		port = 9090
	}
	go startMetricsServer(ctx, port, logger)
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}

func serve(ctx context.Context, server *api.Server, cfg *config.Config, logger *zerolog.Logger) error {
	go func() {
		if err := server.Start(); err != nil {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()

	logger.Info().Int("port", cfg.Server.Port).Str("env", cfg.App.Environment).Msg("API server started")

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.Timeouts.Shutdown)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logger.Info().Msg("API server stopped")
	return nil
}
