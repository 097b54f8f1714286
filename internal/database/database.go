package database

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/platewise/recipe-ai/backend/config"
	"github.com/platewise/recipe-ai/backend/internal/models"
)

// New opens the document store and migrates the schema.
func New(cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	logger.Info("connecting to document store",
		zap.String("host", cfg.DBHost),
		zap.String("database", cfg.DBName))

	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get database handle: %w", err)
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	logger.Info("document store ready")
	return db, nil
}

// Migrate creates or updates the schema for all stored models.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.UserProfile{}, &models.Conversation{}); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}
