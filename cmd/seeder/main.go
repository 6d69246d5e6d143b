package main

import (
	"context"
	"log"

	"github.com/alexivanou/calendar-core/internal/config"
	"github.com/alexivanou/calendar-core/internal/database"
	"github.com/alexivanou/calendar-core/internal/logging"
	"github.com/alexivanou/calendar-core/internal/repository"
	"github.com/alexivanou/calendar-core/internal/seeder"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// the seeder is run by hand, so prefer readable output
	cfg.Log.Development = true
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

	// Memory databases start without a schema
	if err := database.Migrate(db, cfg.DB.Type); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	logger.Info("Starting data import...")

	parser := seeder.NewParser(cfg.Seeder.DataDir, cfg.Seeder)

	logger.Info("Parsing city dataset...", zap.String("file", cfg.Seeder.DatasetFile))
	records, err := parser.ParseCities()
	if err != nil {
		logger.Fatal("Failed to parse cities", zap.Error(err))
	}
	if diag := parser.Diagnostics(); diag != nil {
		logger.Warn("Skipped malformed dataset entries", zap.Error(diag))
	}

	logger.Info("Clearing existing dataset...")
	if err := repository.ClearDataset(ctx, db); err != nil {
		logger.Fatal("Failed to clear dataset", zap.Error(err))
	}

	repos := repository.NewRepositories(db, cfg.DB.Type)
	result, err := seeder.Seed(ctx, repos, records)
	if err != nil {
		logger.Fatal("Failed to seed dataset", zap.Error(err))
	}

	logger.Info("Data import completed successfully!",
		zap.Int("countries", result.Countries),
		zap.Int("cities", result.Cities),
	)
}
