package mocks

import (
	"context"

	"github.com/Behyna/vvm-service/internal/model"
	"github.com/stretchr/testify/mock"
)

type EventLogRepository struct {
	mock.Mock
}

func (m *EventLogRepository) Create(ctx context.Context, log *model.EventLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *EventLogRepository) ListByAccount(ctx context.Context, accountID string, limit int) ([]model.EventLog, error) {
	args := m.Called(ctx, accountID, limit)
	logs, _ := args.Get(0).([]model.EventLog)
	return logs, args.Error(1)
}
