package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	activityapp "github.com/praktis/backend/internal/application/activity"
	billingapp "github.com/praktis/backend/internal/application/billing"
	dashboardapp "github.com/praktis/backend/internal/application/dashboard"
	directoryapp "github.com/praktis/backend/internal/application/directory"
	identityapp "github.com/praktis/backend/internal/application/identity"
	managementapp "github.com/praktis/backend/internal/application/management"
	notifyapp "github.com/praktis/backend/internal/application/notify"
	taskapp "github.com/praktis/backend/internal/application/task"
	"github.com/praktis/backend/internal/infrastructure/auth"
	"github.com/praktis/backend/internal/infrastructure/config"
	"github.com/praktis/backend/internal/infrastructure/event"
	"github.com/praktis/backend/internal/infrastructure/logger"
	"github.com/praktis/backend/internal/infrastructure/notification"
	"github.com/praktis/backend/internal/infrastructure/persistence"
	"github.com/praktis/backend/internal/infrastructure/scheduler"
	"github.com/praktis/backend/internal/infrastructure/storage"
	"github.com/praktis/backend/internal/infrastructure/telemetry"
	"github.com/praktis/backend/internal/interfaces/http/handler"
	"github.com/praktis/backend/internal/interfaces/http/router"
)

var version = "dev"

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output)
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting Praktis backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Tracing
	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), 200*time.Millisecond)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := telemetry.RegisterDBTracing(db.DB, cfg.Telemetry, log); err != nil {
		log.Warn("Failed to register database tracing", zap.Error(err))
	}
	log.Info("Database connected")

	// Token blacklist backed by redis, with an in-process fallback so
	// the API still comes up when redis is down
	blacklist := newBlacklist(ctx, cfg, log)

	// Object storage for QR code and letterhead images
	objectStorage, err := storage.New(&cfg.Storage)
	if err != nil {
		log.Fatal("Failed to initialize object storage", zap.Error(err))
	}

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	clientRepo := persistence.NewGormClientRepository(db.DB)
	taskRepo := persistence.NewGormTaskRepository(db.DB)
	settingsRepo := persistence.NewGormSettingsRepository(db.DB)
	activityRepo := persistence.NewGormActivityRepository(db.DB)

	// Event bus with the activity recorder and notifier subscribed
	bus := event.NewInMemoryEventBus(log)
	recorder := activityapp.NewRecorder(activityRepo, log)
	bus.Subscribe(recorder, recorder.EventTypes()...)
	sender := notification.NewLogSender(cfg.Mail, log)
	notifier := notifyapp.NewNotifier(userRepo, sender, log)
	bus.Subscribe(notifier, notifier.EventTypes()...)
	if err := bus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	// Services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, bus, log)
	userService := identityapp.NewUserService(userRepo, blacklist, bus, log)
	clientService := directoryapp.NewClientService(clientRepo, taskRepo, bus, log)
	taskService := taskapp.NewTaskService(taskRepo, clientRepo, userRepo, bus, cfg.Scheduler.ArchiveAfterDays, log)
	billingService := billingapp.NewBillingService(taskRepo, settingsRepo, bus, log)
	settingsService := billingapp.NewSettingsService(settingsRepo, objectStorage, log)
	dashboardService := dashboardapp.NewDashboardService(taskRepo, clientRepo, userRepo, log)
	managementService := managementapp.NewManagementService(userRepo, clientRepo, taskRepo, blacklist, bus, log)
	feedService := activityapp.NewFeedService(activityRepo, log)

	// Daily maintenance jobs
	sched := scheduler.NewDailyScheduler(cfg.Scheduler, log)
	sched.Register(scheduler.JobFunc{
		JobName: "archive-sweep",
		Fn: func(ctx context.Context) error {
			_, err := taskService.RunArchiveSweep(ctx)
			return err
		},
	})
	sched.Register(scheduler.JobFunc{
		JobName: "activity-prune",
		Fn: func(ctx context.Context) error {
			_, err := feedService.Prune(ctx)
			return err
		},
	})
	if cfg.Scheduler.Enabled {
		if err := sched.Start(ctx); err != nil {
			log.Fatal("Failed to start scheduler", zap.Error(err))
		}
	}

	// HTTP layer
	handlers := router.Handlers{
		Auth:       handler.NewAuthHandler(authService, cfg.Cookie),
		Staff:      handler.NewStaffHandler(userService),
		Client:     handler.NewClientHandler(clientService),
		Task:       handler.NewTaskHandler(taskService),
		Billing:    handler.NewBillingHandler(billingService),
		Settings:   handler.NewSettingsHandler(settingsService),
		Dashboard:  handler.NewDashboardHandler(dashboardService),
		Activity:   handler.NewActivityHandler(feedService),
		Management: handler.NewManagementHandler(managementService),
		System:     handler.NewSystemHandler(taskService, feedService, version),
	}
	engine := router.New(cfg, log, jwtService, blacklist, handlers)

	server := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server exited", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown failed", zap.Error(err))
	}
	if cfg.Scheduler.Enabled {
		if err := sched.Stop(shutdownCtx); err != nil {
			log.Error("Scheduler shutdown failed", zap.Error(err))
		}
	}
	if err := bus.Stop(shutdownCtx); err != nil {
		log.Error("Event bus shutdown failed", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Tracer shutdown failed", zap.Error(err))
	}

	log.Info("Shutdown complete")
	os.Exit(0)
}

// newBlacklist connects to redis and falls back to the in-memory
// blacklist when redis is unreachable. The in-memory variant loses
// revocations on restart, which access token TTLs bound.
func newBlacklist(ctx context.Context, cfg *config.Config, log *zap.Logger) auth.TokenBlacklist {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Warn("Redis unavailable, using in-memory token blacklist", zap.Error(err))
		_ = client.Close()
		return auth.NewInMemoryTokenBlacklist()
	}

	log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	return auth.NewRedisTokenBlacklist(client)
}
