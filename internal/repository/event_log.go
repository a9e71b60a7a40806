package repository

import (
	"context"

	"github.com/Behyna/vvm-service/internal/model"
	"gorm.io/gorm"
)

type EventLogRepository interface {
	Create(ctx context.Context, log *model.EventLog) error
	ListByAccount(ctx context.Context, accountID string, limit int) ([]model.EventLog, error)
}

type EventLog struct {
	db *gorm.DB
}

func NewEventLogRepository(db *gorm.DB) EventLogRepository {
	return &EventLog{db: db}
}

func (r *EventLog) Create(ctx context.Context, log *model.EventLog) error {
	return GetTx(ctx, r.db).Create(log).Error
}

func (r *EventLog) ListByAccount(ctx context.Context, accountID string, limit int) ([]model.EventLog, error) {
	var logs []model.EventLog

	err := GetTx(ctx, r.db).Where("account_id = ?", accountID).
		Order("id DESC").
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, err
	}

	return logs, nil
}
