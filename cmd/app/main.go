package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexivanou/calendar-core/internal/api"
	"github.com/alexivanou/calendar-core/internal/citydir"
	"github.com/alexivanou/calendar-core/internal/config"
	"github.com/alexivanou/calendar-core/internal/database"
	"github.com/alexivanou/calendar-core/internal/locale"
	"github.com/alexivanou/calendar-core/internal/logging"
	"github.com/alexivanou/calendar-core/internal/repository"
	"github.com/alexivanou/calendar-core/internal/seeder"
	"github.com/alexivanou/calendar-core/internal/service"
	"github.com/alexivanou/calendar-core/internal/stats"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	db, err := database.Connect(ctx, cfg.DB)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	logger.Info("Connected to database", zap.String("type", string(cfg.DB.Type)))

	if err := database.Migrate(db, cfg.DB.Type); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	repos := repository.NewRepositories(db, cfg.DB.Type)

	isEmpty, err := repository.IsDatabaseEmpty(ctx, db)
	if err != nil {
		logger.Warn("Failed to check if database is empty", zap.Error(err))
	} else if isEmpty {
		logger.Info("Database is empty, auto-seeding data...")
		if err := autoSeedDatabase(ctx, repos, cfg, logger); err != nil {
			// an unusable dataset leaves an empty directory rather than no service
			logger.Error("Failed to auto-seed database", zap.Error(err))
		}
	}

	directory := citydir.NewDirectory(locale.Prebuilt(cfg.App.Languages), logger)

	svc := service.NewService(repos.City, repos.Country, directory, cfg.App.Language, logger)
	// a malformed setting is logged and leaves the empty schedule
	_ = svc.SetSchedule(service.ScheduleSettings(cfg.Shift))

	if err := svc.ReloadDirectory(ctx); err != nil {
		logger.Fatal("Failed to build city directory", zap.Error(err))
	}

	statsCollector := stats.NewCollector(db, cfg.DB, directory)
	router := api.NewRouter(svc, statsCollector, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

func autoSeedDatabase(ctx context.Context, repos *repository.Container, cfg *config.Config, logger *zap.Logger) error {
	parser := seeder.NewParser(cfg.Seeder.DataDir, cfg.Seeder)

	logger.Info("Parsing city dataset...", zap.String("file", cfg.Seeder.DatasetFile))
	records, err := parser.ParseCities()
	if err != nil {
		return fmt.Errorf("failed to parse cities: %w", err)
	}
	if diag := parser.Diagnostics(); diag != nil {
		logger.Warn("Skipped malformed dataset entries", zap.Error(diag))
	}

	result, err := seeder.Seed(ctx, repos, records)
	if err != nil {
		return err
	}

	logger.Info("Database seeded successfully",
		zap.Int("countries", result.Countries),
		zap.Int("cities", result.Cities),
	)
	return nil
}
