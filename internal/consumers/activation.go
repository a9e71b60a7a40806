package consumers

import (
	"context"

	"github.com/Behyna/vvm-service/internal/config"
	"github.com/Behyna/vvm-service/internal/service"
	"github.com/Behyna/vvm-service/pkg/mq"
	"go.uber.org/zap"
)

type activationConsumer struct {
	service  service.ActivationService
	consumer mq.Consumer
	cfg      *config.Config
	logger   *zap.Logger
}

func NewActivationConsumer(service service.ActivationService, consumer mq.Consumer, cfg *config.Config,
	logger *zap.Logger) Consumer {
	return &activationConsumer{service: service, consumer: consumer, cfg: cfg, logger: logger}
}

func (a *activationConsumer) Queue() string {
	return a.cfg.RabbitMQ.Queues.Activation
}

func (a *activationConsumer) Consume(ctx context.Context) error {
	return a.consumer.Consume(ctx, consumeOptions(a.cfg, a.Queue()), a.handleMessage)
}

func (a *activationConsumer) handleMessage(ctx context.Context, body []byte) error {
	var cmd service.ActivateCommand
	if err := decode(body, &cmd); err != nil {
		return outcome(a.logger, a.Queue(), err)
	}

	a.logger.Info("Received activation command",
		zap.String("accountID", cmd.AccountID),
		zap.String("subscriptionID", cmd.SubscriptionID))

	// a redelivered command starts a fresh retry cycle
	cmd.RetryCount = 0

	return outcome(a.logger, a.Queue(), a.service.Start(ctx, cmd))
}
