package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mealkiosk/internal/backend"
	"mealkiosk/internal/config"
	"mealkiosk/internal/handler"
	"mealkiosk/internal/httpapi"
	"mealkiosk/internal/jobs"
	"mealkiosk/internal/middleware"
	"mealkiosk/internal/repository/postgres"
	"mealkiosk/internal/service"

	"github.com/golang-migrate/migrate/v4"
	postgresdb "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

func main() {
	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting meal kiosk")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	kiosk, err := config.LoadKiosk(cfg.KioskFile)
	if err != nil {
		logger.Fatal("Failed to load kiosk config", zap.String("path", cfg.KioskFile), zap.Error(err))
	}

	location, err := cfg.Location()
	if err != nil {
		logger.Fatal("Failed to load timezone", zap.String("timezone", cfg.Timezone), zap.Error(err))
	}

	pinAuth, err := service.NewPINAuthenticator(cfg.KioskPIN)
	if err != nil {
		logger.Fatal("Invalid KIOSK_PIN", zap.Error(err))
	}

	logger.Info("Configuration loaded successfully",
		zap.String("timezone", location.String()),
		zap.String("commit_policy", string(cfg.CommitPolicy)),
		zap.Int("makeup_workdays", len(kiosk.Makeup)),
	)

	// Connect to database with retries
	db, err := connectDatabase(cfg.DSN(), logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connection established")

	// Run migrations
	if err := runMigrations(db, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	logger.Info("Database migrations completed")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize repositories
	deviceRepo := postgres.NewDeviceRepo(db)
	submissionRepo := postgres.NewSubmissionRepo(db)

	// Initialize services
	orderBackend := backend.NewHTTPBackend(cfg.BackendURL, cfg.BackendTimeout, logger)
	authService := service.NewAuthService(deviceRepo, pinAuth)
	employeeService := service.NewEmployeeService(kiosk.Departments, orderBackend, deviceRepo, logger)
	windowService := service.NewWindowService(location, kiosk.Makeup, nil)
	ledgerService := service.NewLedgerService(submissionRepo, logger)

	workflow := service.NewWorkflow(
		authService,
		employeeService,
		windowService,
		ledgerService,
		orderBackend,
		service.WorkflowOptions{
			PollInterval: cfg.PollInterval,
			NoticeDelay:  cfg.NoticeDelay,
			CommitPolicy: cfg.CommitPolicy,
		},
		logger,
	)

	// Initialize Telegram bot
	bot, err := tele.NewBot(tele.Settings{
		Token:  cfg.BotToken,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	})
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	logger.Info("Telegram bot initialized")

	workflow.SetNotifier(handler.NewChatNotifier(bot, logger))
	bot.Use(middleware.SessionMiddleware(ctx, workflow, logger))

	// Initialize handler
	h := handler.NewHandler(ctx, bot, workflow, ledgerService, windowService, logger)
	h.RegisterHandlers()

	logger.Info("Handlers registered")

	// Start scheduled jobs
	jobManager := jobs.NewJobManager(workflow, cfg.IdleTimeout, logger)
	if err := jobManager.StartAll(); err != nil {
		logger.Fatal("Failed to start jobs", zap.Error(err))
	}

	// Start status API
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewRouter(httpapi.NewHandler(ledgerService, windowService, workflow, logger)),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("Status API listening", zap.String("addr", cfg.HTTPAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Status API stopped", zap.Error(err))
		}
	}()

	// Start bot in background
	go func() {
		logger.Info("Bot started successfully")
		bot.Start()
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan

	logger.Info("Shutdown signal received, stopping kiosk...")

	// Graceful shutdown
	bot.Stop()
	jobManager.StopAll()
	workflow.EndAll()
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("Status API shutdown failed", zap.Error(err))
	}

	logger.Info("Kiosk stopped gracefully")
}

// connectDatabase connects to PostgreSQL with retries
func connectDatabase(dsn string, logger *zap.Logger) (*sql.DB, error) {
	var db *sql.DB
	var err error

	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		db, err = sql.Open("postgres", dsn)
		if err != nil {
			logger.Warn("Failed to open database connection",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			time.Sleep(retryDelay)
			continue
		}

		if err = db.Ping(); err != nil {
			logger.Warn("Failed to ping database",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			db.Close()
			time.Sleep(retryDelay)
			continue
		}

		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)

		return db, nil
	}

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
}

// runMigrations runs database migrations
func runMigrations(db *sql.DB, logger *zap.Logger) error {
	driver, err := postgresdb.WithInstance(db, &postgresdb.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	err = m.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		logger.Info("No new migrations to apply")
	case err != nil:
		return fmt.Errorf("failed to run migrations: %w", err)
	default:
		logger.Info("Migrations applied successfully")
	}

	return nil
}
