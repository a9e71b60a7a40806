package mocks

import (
	"context"

	"github.com/Behyna/vvm-service/internal/model"
	"github.com/Behyna/vvm-service/internal/service"
	"github.com/stretchr/testify/mock"
)

type SyncTrigger struct {
	mock.Mock
}

func (m *SyncTrigger) RequestSync(ctx context.Context, req service.SyncRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *SyncTrigger) ClearMessageWaiting(ctx context.Context, cmd service.ClearMessageWaitingCommand) error {
	args := m.Called(ctx, cmd)
	return args.Error(0)
}

type StatusNotifier struct {
	mock.Mock
}

func (m *StatusNotifier) StatusChanged(ctx context.Context, record *model.StatusRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}
