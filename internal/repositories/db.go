package repositories

import (
	"fmt"
	"log/slog"

	"github.com/daybook/daybook/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ConnectDatabase opens the postgres database at dsn and runs migrations.
func ConnectDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), GormConfig())
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	slog.Info("Successfully connected to database")
	return db, nil
}

// GormConfig is shared by every dialect. TranslateError lets repositories
// match gorm.ErrDuplicatedKey instead of driver-specific codes.
func GormConfig() *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	}
}

// Migrate creates or updates the tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.UserData{},
	); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}
