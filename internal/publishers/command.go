package publishers

import (
	"context"
	"encoding/json"

	"github.com/Behyna/vvm-service/internal/config"
	"github.com/Behyna/vvm-service/internal/service"
	"github.com/Behyna/vvm-service/pkg/mq"
	"go.uber.org/zap"
)

// CommandPublisher hands API requests to the activation worker.
type CommandPublisher interface {
	PublishActivation(ctx context.Context, cmd service.ActivateCommand) error
	PublishInboundSMS(ctx context.Context, cmd service.InboundSMSCommand) error
	PublishDeviceEvent(ctx context.Context, cmd service.DeviceEventCommand) error
	PublishSourceRemoved(ctx context.Context, cmd service.RemoveSourceCommand) error
	PublishSyncResult(ctx context.Context, cmd service.SyncResultCommand) error
}

type commandPublisher struct {
	queues    config.Queues
	publisher mq.Publisher
	logger    *zap.Logger
}

func NewCommandPublisher(cfg *config.Config, publisher mq.Publisher, logger *zap.Logger) CommandPublisher {
	return &commandPublisher{queues: cfg.RabbitMQ.Queues, publisher: publisher, logger: logger}
}

func (p *commandPublisher) PublishActivation(ctx context.Context, cmd service.ActivateCommand) error {
	return p.publish(ctx, p.queues.Activation, cmd.AccountID, cmd)
}

func (p *commandPublisher) PublishInboundSMS(ctx context.Context, cmd service.InboundSMSCommand) error {
	return p.publish(ctx, p.queues.InboundSMS, cmd.AccountID, cmd)
}

func (p *commandPublisher) PublishDeviceEvent(ctx context.Context, cmd service.DeviceEventCommand) error {
	return p.publish(ctx, p.queues.Device, cmd.AccountID, cmd)
}

func (p *commandPublisher) PublishSourceRemoved(ctx context.Context, cmd service.RemoveSourceCommand) error {
	return p.publish(ctx, p.queues.SourceRemoved, cmd.AccountID, cmd)
}

func (p *commandPublisher) PublishSyncResult(ctx context.Context, cmd service.SyncResultCommand) error {
	return p.publish(ctx, p.queues.SyncResult, cmd.AccountID, cmd)
}

func (p *commandPublisher) publish(ctx context.Context, queue, accountID string, v interface{}) error {
	body, err := json.Marshal(v)
	if err != nil {
		return service.NewServiceError(service.ErrCodeInvalidCommand, err)
	}

	if err := p.publisher.Publish(ctx, "", queue, body); err != nil {
		p.logger.Error("Failed to publish command",
			zap.String("queue", queue),
			zap.String("accountID", accountID),
			zap.Error(err))
		return service.NewServiceError(service.ErrCodePublish, err)
	}

	p.logger.Debug("Command published",
		zap.String("queue", queue),
		zap.String("accountID", accountID))
	return nil
}
