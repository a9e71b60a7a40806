package mocks

import (
	"context"

	"github.com/Behyna/vvm-service/internal/model"
	"github.com/Behyna/vvm-service/internal/service"
	"github.com/stretchr/testify/mock"
)

type ActivationService struct {
	mock.Mock
}

func (m *ActivationService) Start(ctx context.Context, cmd service.ActivateCommand) error {
	args := m.Called(ctx, cmd)
	return args.Error(0)
}

func (m *ActivationService) ReleaseDeferred(ctx context.Context) int {
	args := m.Called(ctx)
	return args.Int(0)
}

func (m *ActivationService) Deferred() int {
	args := m.Called()
	return args.Int(0)
}

func (m *ActivationService) RemoveSource(ctx context.Context, cmd service.RemoveSourceCommand) error {
	args := m.Called(ctx, cmd)
	return args.Error(0)
}

func (m *ActivationService) RestoreFilters(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type TriggerService struct {
	mock.Mock
}

func (m *TriggerService) InboundSMS(ctx context.Context, cmd service.InboundSMSCommand) error {
	args := m.Called(ctx, cmd)
	return args.Error(0)
}

func (m *TriggerService) DeviceEvent(ctx context.Context, cmd service.DeviceEventCommand) error {
	args := m.Called(ctx, cmd)
	return args.Error(0)
}

func (m *TriggerService) SyncResult(ctx context.Context, cmd service.SyncResultCommand) error {
	args := m.Called(ctx, cmd)
	return args.Error(0)
}

type StatusQueryService struct {
	mock.Mock
}

func (m *StatusQueryService) GetStatus(ctx context.Context, accountID string) (*model.StatusRecord, error) {
	args := m.Called(ctx, accountID)
	record, _ := args.Get(0).(*model.StatusRecord)
	return record, args.Error(1)
}

func (m *StatusQueryService) ListEvents(ctx context.Context, accountID string, limit int) ([]model.EventLog, error) {
	args := m.Called(ctx, accountID, limit)
	logs, _ := args.Get(0).([]model.EventLog)
	return logs, args.Error(1)
}
