package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/brightsmile/clinic-assistant/internal/api"
	"github.com/brightsmile/clinic-assistant/internal/calendar"
	appconfig "github.com/brightsmile/clinic-assistant/internal/config"
	"github.com/brightsmile/clinic-assistant/internal/conversation"
	"github.com/brightsmile/clinic-assistant/internal/extract"
	"github.com/brightsmile/clinic-assistant/internal/notify"
	"github.com/brightsmile/clinic-assistant/internal/observability/metrics"
	"github.com/brightsmile/clinic-assistant/internal/schedule"
	"github.com/brightsmile/clinic-assistant/internal/slotlock"
	"github.com/brightsmile/clinic-assistant/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting clinic-assistant API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	// Calendar storage. Without a database URL the server runs on the
	// in-memory store, which is enough for local development.
	var (
		store    calendar.Store
		patients calendar.PatientDirectory
	)
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to create database pool", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		if err := pool.Ping(ctx); err != nil {
			logger.Error("database unreachable", "error", err)
			os.Exit(1)
		}
		pg := calendar.NewPostgresStore(pool)
		store, patients = pg, pg
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory calendar store")
		mem := calendar.NewMemoryStore()
		store, patients = mem, mem
	}

	// Redis backs both the slot locks and the session logs.
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	pingCtx, cancelPing := context.WithTimeout(ctx, 5*time.Second)
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		cancelPing()
		logger.Error("redis unreachable", "error", err, "addr", cfg.RedisAddr)
		os.Exit(1)
	}
	cancelPing()
	locker := slotlock.NewRedisLocker(rdb, cfg.SlotLockTTL)
	logs := conversation.NewRedisLogStore(rdb, cfg.SessionTTL)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	chatMetrics := metrics.NewChatMetrics(reg)

	// Email confirmations are optional; without a sender address the
	// notification service logs and drops.
	var sender notify.EmailSender
	if cfg.SESFromEmail != "" {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			logger.Error("failed to load AWS config", "error", err)
			os.Exit(1)
		}
		sender = notify.NewSESSender(sesv2.NewFromConfig(awsCfg), cfg.SESFromEmail, cfg.SESFromName, logger,
			notify.WithReplyTo(cfg.SESReplyTo))
	}
	notifier := notify.NewService(sender, cfg.ClinicName, logger)

	manager := schedule.NewManager(store, locker,
		schedule.WithPatients(patients),
		schedule.WithNotifier(notifier),
		schedule.WithMetrics(chatMetrics),
		schedule.WithLogger(logger),
	)

	extractor := extract.NewExtractor()
	extractor.YearMin = cfg.YearMin
	extractor.YearMax = cfg.YearMax

	engineOpts := []conversation.EngineOption{
		conversation.WithEngineMetrics(chatMetrics),
		conversation.WithEngineLogger(logger),
		conversation.WithClinicName(cfg.ClinicName),
		conversation.WithHistoryLimit(cfg.HistoryLimit),
	}
	if cfg.GeminiAPIKey != "" {
		llm, err := conversation.NewGeminiLLMClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModelID)
		if err != nil {
			logger.Error("failed to create gemini client", "error", err)
			os.Exit(1)
		}
		defer func() { _ = llm.Close() }()
		engineOpts = append(engineOpts, conversation.WithLLM(llm))
	} else {
		logger.Warn("GEMINI_API_KEY not set, generative replies disabled")
	}
	engine := conversation.NewEngine(conversation.NewAnalyzer(extractor), manager, logs, engineOpts...)

	handler := api.NewHandler(engine, manager, logger)
	r := api.NewRouter(api.RouterConfig{
		Handler:        handler,
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
