package consumers

import (
	"context"

	"github.com/Behyna/vvm-service/internal/config"
	"github.com/Behyna/vvm-service/internal/service"
	"github.com/Behyna/vvm-service/pkg/mq"
	"go.uber.org/zap"
)

type sourceRemovedConsumer struct {
	service  service.ActivationService
	consumer mq.Consumer
	cfg      *config.Config
	logger   *zap.Logger
}

func NewSourceRemovedConsumer(service service.ActivationService, consumer mq.Consumer, cfg *config.Config,
	logger *zap.Logger) Consumer {
	return &sourceRemovedConsumer{service: service, consumer: consumer, cfg: cfg, logger: logger}
}

func (s *sourceRemovedConsumer) Queue() string {
	return s.cfg.RabbitMQ.Queues.SourceRemoved
}

func (s *sourceRemovedConsumer) Consume(ctx context.Context) error {
	return s.consumer.Consume(ctx, consumeOptions(s.cfg, s.Queue()), s.handleMessage)
}

func (s *sourceRemovedConsumer) handleMessage(ctx context.Context, body []byte) error {
	var cmd service.RemoveSourceCommand
	if err := decode(body, &cmd); err != nil {
		return outcome(s.logger, s.Queue(), err)
	}

	s.logger.Info("Received source removal", zap.String("accountID", cmd.AccountID))
	return outcome(s.logger, s.Queue(), s.service.RemoveSource(ctx, cmd))
}
