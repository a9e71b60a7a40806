package publishers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Behyna/vvm-service/internal/config"
	"github.com/Behyna/vvm-service/internal/model"
	"github.com/Behyna/vvm-service/internal/service"
	"github.com/Behyna/vvm-service/pkg/mq"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StatusEvent is published whenever the stored status of an account changes.
type StatusEvent struct {
	EventID    string             `json:"event_id"`
	OccurredAt time.Time          `json:"occurred_at"`
	Status     model.StatusRecord `json:"status"`
}

// PlatformPublisher forwards worker decisions to the sync engine, the
// notification service and the status UI.
type PlatformPublisher interface {
	service.SyncTrigger
	service.StatusNotifier
}

type platformPublisher struct {
	queues    config.Queues
	publisher mq.Publisher
	logger    *zap.Logger
}

func NewPlatformPublisher(cfg *config.Config, publisher mq.Publisher, logger *zap.Logger) PlatformPublisher {
	return &platformPublisher{queues: cfg.RabbitMQ.Queues, publisher: publisher, logger: logger}
}

func (p *platformPublisher) RequestSync(ctx context.Context, req service.SyncRequest) error {
	body, _ := json.Marshal(req)
	if err := p.publisher.Publish(ctx, "", p.queues.SyncRequest, body); err != nil {
		return fmt.Errorf("publish sync request: %w", err)
	}

	p.logger.Info("Sync requested",
		zap.String("accountID", req.AccountID),
		zap.String("kind", req.Kind))
	return nil
}

func (p *platformPublisher) ClearMessageWaiting(ctx context.Context, cmd service.ClearMessageWaitingCommand) error {
	body, _ := json.Marshal(cmd)
	if err := p.publisher.Publish(ctx, "", p.queues.MessageWait, body); err != nil {
		return fmt.Errorf("publish message waiting clear: %w", err)
	}
	return nil
}

func (p *platformPublisher) StatusChanged(ctx context.Context, record *model.StatusRecord) error {
	event := StatusEvent{
		EventID:    uuid.NewString(),
		OccurredAt: time.Now().UTC(),
		Status:     *record,
	}

	body, _ := json.Marshal(event)
	if err := p.publisher.Publish(ctx, "", p.queues.StatusEvent, body); err != nil {
		return fmt.Errorf("publish status event: %w", err)
	}

	p.logger.Debug("Status event published",
		zap.String("accountID", record.AccountID),
		zap.String("eventID", event.EventID))
	return nil
}
