package mocks

import (
	"context"

	"github.com/Behyna/vvm-service/internal/service"
	"github.com/stretchr/testify/mock"
)

type CommandPublisher struct {
	mock.Mock
}

func (m *CommandPublisher) PublishActivation(ctx context.Context, cmd service.ActivateCommand) error {
	args := m.Called(ctx, cmd)
	return args.Error(0)
}

func (m *CommandPublisher) PublishInboundSMS(ctx context.Context, cmd service.InboundSMSCommand) error {
	args := m.Called(ctx, cmd)
	return args.Error(0)
}

func (m *CommandPublisher) PublishDeviceEvent(ctx context.Context, cmd service.DeviceEventCommand) error {
	args := m.Called(ctx, cmd)
	return args.Error(0)
}

func (m *CommandPublisher) PublishSourceRemoved(ctx context.Context, cmd service.RemoveSourceCommand) error {
	args := m.Called(ctx, cmd)
	return args.Error(0)
}

func (m *CommandPublisher) PublishSyncResult(ctx context.Context, cmd service.SyncResultCommand) error {
	args := m.Called(ctx, cmd)
	return args.Error(0)
}
