package database

import (
	"context"
	"fmt"

	"github.com/Behyna/vvm-service/internal/config"
	"github.com/Behyna/vvm-service/internal/model"
	"github.com/Behyna/vvm-service/pkg/mysql"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func NewConnection(cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	return mysql.NewConnection(context.Background(), cfg.Database, logger)
}

// Migrate creates or updates the status, source and event log tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.StatusRecord{}, &model.VoicemailSource{}, &model.EventLog{}); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}
