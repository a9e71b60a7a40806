package consumers

import (
	"context"

	"github.com/Behyna/vvm-service/internal/config"
	"github.com/Behyna/vvm-service/internal/service"
	"github.com/Behyna/vvm-service/pkg/mq"
	"go.uber.org/zap"
)

type inboundSMSConsumer struct {
	service  service.TriggerService
	consumer mq.Consumer
	cfg      *config.Config
	logger   *zap.Logger
}

func NewInboundSMSConsumer(service service.TriggerService, consumer mq.Consumer, cfg *config.Config,
	logger *zap.Logger) Consumer {
	return &inboundSMSConsumer{service: service, consumer: consumer, cfg: cfg, logger: logger}
}

func (i *inboundSMSConsumer) Queue() string {
	return i.cfg.RabbitMQ.Queues.InboundSMS
}

func (i *inboundSMSConsumer) Consume(ctx context.Context) error {
	return i.consumer.Consume(ctx, consumeOptions(i.cfg, i.Queue()), i.handleMessage)
}

func (i *inboundSMSConsumer) handleMessage(ctx context.Context, body []byte) error {
	var cmd service.InboundSMSCommand
	if err := decode(body, &cmd); err != nil {
		return outcome(i.logger, i.Queue(), err)
	}

	i.logger.Debug("Received inbound SMS", zap.String("accountID", cmd.AccountID))
	return outcome(i.logger, i.Queue(), i.service.InboundSMS(ctx, cmd))
}

type deviceConsumer struct {
	service  service.TriggerService
	consumer mq.Consumer
	cfg      *config.Config
	logger   *zap.Logger
}

func NewDeviceConsumer(service service.TriggerService, consumer mq.Consumer, cfg *config.Config,
	logger *zap.Logger) Consumer {
	return &deviceConsumer{service: service, consumer: consumer, cfg: cfg, logger: logger}
}

func (d *deviceConsumer) Queue() string {
	return d.cfg.RabbitMQ.Queues.Device
}

func (d *deviceConsumer) Consume(ctx context.Context) error {
	return d.consumer.Consume(ctx, consumeOptions(d.cfg, d.Queue()), d.handleMessage)
}

func (d *deviceConsumer) handleMessage(ctx context.Context, body []byte) error {
	var cmd service.DeviceEventCommand
	if err := decode(body, &cmd); err != nil {
		return outcome(d.logger, d.Queue(), err)
	}

	d.logger.Info("Received device event",
		zap.String("kind", cmd.Kind),
		zap.String("accountID", cmd.AccountID),
		zap.Bool("inService", cmd.InService))
	return outcome(d.logger, d.Queue(), d.service.DeviceEvent(ctx, cmd))
}

type syncResultConsumer struct {
	service  service.TriggerService
	consumer mq.Consumer
	cfg      *config.Config
	logger   *zap.Logger
}

func NewSyncResultConsumer(service service.TriggerService, consumer mq.Consumer, cfg *config.Config,
	logger *zap.Logger) Consumer {
	return &syncResultConsumer{service: service, consumer: consumer, cfg: cfg, logger: logger}
}

func (s *syncResultConsumer) Queue() string {
	return s.cfg.RabbitMQ.Queues.SyncResult
}

func (s *syncResultConsumer) Consume(ctx context.Context) error {
	return s.consumer.Consume(ctx, consumeOptions(s.cfg, s.Queue()), s.handleMessage)
}

func (s *syncResultConsumer) handleMessage(ctx context.Context, body []byte) error {
	var cmd service.SyncResultCommand
	if err := decode(body, &cmd); err != nil {
		return outcome(s.logger, s.Queue(), err)
	}

	s.logger.Debug("Received sync result",
		zap.String("accountID", cmd.AccountID),
		zap.String("event", cmd.Event))
	return outcome(s.logger, s.Queue(), s.service.SyncResult(ctx, cmd))
}
