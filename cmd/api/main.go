package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	// Application Layer
	appService "medreminder/internal/application/service"
	"medreminder/internal/application/usecase"
	"medreminder/internal/config"

	// Infrastructure Layer
	"medreminder/internal/infrastructure/database/sqlite"
	lineClient "medreminder/internal/infrastructure/line"
	"medreminder/internal/infrastructure/scheduler"

	// Interfaces Layer
	"medreminder/internal/interfaces/api/handler"
	"medreminder/internal/interfaces/api/router"
	"medreminder/internal/interfaces/viewstate"

	// Packages
	appLogger "medreminder/internal/pkg/logger"

	_ "github.com/joho/godotenv/autoload" // Automatically load .env file
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("🔴 ERROR: %v", err)
	}
}

func run() error {
	// --- Initialization ---
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	appLog, err := appLogger.New(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	defer appLogger.Sync(appLog)
	appLog.Info("Logger initialized.")

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Infrastructure ---
	db, err := sqlite.NewDB(cfg.DBPath, cfg.DBLogSQL, appLog)
	if err != nil {
		return err
	}
	defer func() {
		if err := sqlite.CloseDB(db); err != nil {
			appLog.Error("Error closing database", err)
		} else {
			appLog.Info("Database connection closed.")
		}
	}()
	store := sqlite.NewReminderStore(db, appLog)
	reminderRepo := sqlite.NewReminderRepository(store)
	appLog.Info("Database and repositories initialized.")

	var (
		notifier appService.Notifier = appService.NewLogNotifier(appLog)
		line     *lineClient.Client
	)
	if cfg.LineEnabled() {
		line, err = lineClient.NewClient(cfg.LineChannelSecret, cfg.LineChannelToken, appLog)
		if err != nil {
			return err
		}
		notifier = lineClient.NewNotifier(line, cfg.LineNotifyTo)
	} else {
		appLog.Warn("LINE credentials not set, alarms will only be logged.")
	}

	// --- Application Services ---
	cronScheduler := scheduler.NewScheduler(loc, appLog)
	alarmSvc := appService.NewAlarmService(cronScheduler, reminderRepo, notifier, loc, appLog)
	defer alarmSvc.Stop()

	appLog.Info("Initializing reminder schedules...")
	if err := alarmSvc.InitializeSchedules(ctx); err != nil {
		// Log the error but continue starting the server
		appLog.Error("Failed to initialize schedules on startup", err)
	}

	ctrl, err := viewstate.NewController(context.Background(), viewstate.UseCases{
		Insert: usecase.NewInsertReminder(reminderRepo),
		Update: usecase.NewUpdateReminder(reminderRepo),
		Delete: usecase.NewDeleteReminder(reminderRepo),
		GetAll: usecase.NewGetAllReminders(reminderRepo),
	}, alarmSvc, appLog)
	if err != nil {
		return err
	}
	defer ctrl.Close()

	// --- Router ---
	routerCfg := &router.Config{
		ReminderHandler: handler.NewReminderHandler(ctrl, loc, appLog),
		Logger:          appLog,
	}
	if line != nil {
		routerCfg.LineHandler = handler.NewLineHandler(line, ctrl, cfg.LineNotifyTo, loc, appLog)
	}

	// --- HTTP Server ---
	apiServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router.NewRouter(routerCfg),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		appLog.Info(fmt.Sprintf("Server starting on port %d", cfg.Port))
		if err := apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server error: %w", err)
		}
	case <-ctx.Done():
		appLog.Info("Shutting down gracefully, press Ctrl+C again to force")
	}
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		appLog.Error("Server forced to shutdown", err)
	}

	// Deferred: controller drains, scheduler stops, database closes.
	appLog.Info("Graceful shutdown complete.")
	return nil
}
