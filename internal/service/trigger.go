package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Behyna/vvm-service/internal/metrics"
	"github.com/Behyna/vvm-service/internal/model"
	"github.com/Behyna/vvm-service/internal/omtp"
	"github.com/Behyna/vvm-service/internal/repository"
	"go.uber.org/zap"
)

// TriggerService turns platform events into activations, syncs and status
// events.
type TriggerService interface {
	InboundSMS(ctx context.Context, cmd InboundSMSCommand) error
	DeviceEvent(ctx context.Context, cmd DeviceEventCommand) error
	SyncResult(ctx context.Context, cmd SyncResultCommand) error
}

type trigger struct {
	activation ActivationService
	events     EventHandler
	sources    repository.SourceRepository
	device     DeviceState
	dispatcher SMSDispatcher
	sync       SyncTrigger
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

func NewTriggerService(activation ActivationService, events EventHandler, sources repository.SourceRepository,
	device DeviceState, dispatcher SMSDispatcher, sync SyncTrigger, metrics *metrics.Metrics,
	logger *zap.Logger) TriggerService {
	return &trigger{activation: activation, events: events, sources: sources, device: device,
		dispatcher: dispatcher, sync: sync, metrics: metrics, logger: logger}
}

func (t *trigger) InboundSMS(ctx context.Context, cmd InboundSMSCommand) error {
	if cmd.AccountID == "" {
		return NewServiceError(ErrCodeInvalidCommand, ErrInvalidCommand)
	}

	prefix, ok := t.dispatcher.Filter(cmd.AccountID)
	if !ok {
		t.metrics.RecordInboundSMS("unfiltered")
		t.logger.Debug("No SMS filter for account, message ignored", zap.String("accountID", cmd.AccountID))
		return nil
	}

	msg, err := omtp.ParseMessage(prefix, cmd.Payload)
	if errors.Is(err, omtp.ErrNotVisualVoicemail) {
		t.metrics.RecordInboundSMS("ignored")
		return nil
	}
	if err != nil {
		t.metrics.RecordInboundSMS("malformed")
		t.logger.Warn("Malformed visual voicemail SMS",
			zap.String("accountID", cmd.AccountID),
			zap.Error(err))
		return nil
	}

	t.metrics.RecordInboundSMS(msg.Type)

	switch msg.Type {
	case omtp.MessageTypeStatus:
		if t.dispatcher.Dispatch(cmd.AccountID, msg) {
			return nil
		}
		if cmd.SubscriptionID == "" {
			return NewServiceError(ErrCodeInvalidCommand, ErrInvalidCommand)
		}

		t.logger.Info("Unsolicited STATUS SMS, starting activation", zap.String("accountID", cmd.AccountID))
		return t.activation.Start(ctx, ActivateCommand{
			AccountID:      cmd.AccountID,
			SubscriptionID: cmd.SubscriptionID,
			Status:         msg.Fields,
		})

	case omtp.MessageTypeSync:
		return t.handleSync(ctx, cmd, omtp.NewSyncMessage(msg.Fields))

	default:
		t.logger.Info("Unrecognized visual voicemail SMS",
			zap.String("accountID", cmd.AccountID),
			zap.String("type", msg.Type))
		return nil
	}
}

func (t *trigger) handleSync(ctx context.Context, cmd InboundSMSCommand, sync omtp.SyncMessage) error {
	active, err := t.sources.IsActive(ctx, cmd.AccountID)
	if err != nil {
		return NewServiceError(ErrCodeDatabase, err)
	}
	if !active {
		t.logger.Info("SYNC SMS for inactive source ignored", zap.String("accountID", cmd.AccountID))
		return nil
	}

	req := SyncRequest{AccountID: cmd.AccountID, SubscriptionID: cmd.SubscriptionID}
	switch sync.Event {
	case omtp.SyncEventNewMessage:
		req.Kind = SyncKindNewMessage
		req.MessageID = sync.MessageID
	case omtp.SyncEventMailboxUpdate:
		req.Kind = SyncKindFull
	case omtp.SyncEventGreetingUpdate:
		t.logger.Debug("Greeting update ignored", zap.String("accountID", cmd.AccountID))
		return nil
	default:
		t.logger.Warn("Unknown SYNC event",
			zap.String("accountID", cmd.AccountID),
			zap.String("event", sync.Event))
		return nil
	}

	if err := t.sync.RequestSync(ctx, req); err != nil {
		return NewServiceError(ErrCodePublish, err)
	}
	return nil
}

func (t *trigger) DeviceEvent(ctx context.Context, cmd DeviceEventCommand) error {
	switch cmd.Kind {
	case DeviceEventProvisioned:
		t.device.SetProvisioned(true)
		released := t.activation.ReleaseDeferred(ctx)
		t.logger.Info("Device provisioned", zap.Int("releasedActivations", released))
		return nil

	case DeviceEventServiceState:
		return t.serviceStateChanged(ctx, cmd)

	default:
		return NewServiceError(ErrCodeInvalidCommand, fmt.Errorf("%w: device event %q", ErrInvalidCommand, cmd.Kind))
	}
}

func (t *trigger) serviceStateChanged(ctx context.Context, cmd DeviceEventCommand) error {
	if cmd.AccountID == "" || cmd.SubscriptionID == "" {
		return NewServiceError(ErrCodeInvalidCommand, ErrInvalidCommand)
	}

	if !t.device.SetInService(cmd.SubscriptionID, cmd.InService) {
		return nil
	}

	if !cmd.InService {
		t.logger.Info("Service lost", zap.String("accountID", cmd.AccountID))
		if _, err := t.events.ApplyEvent(ctx, cmd.AccountID, omtp.NotificationServiceLost); err != nil {
			return NewServiceError(ErrCodeDatabase, err)
		}
		return nil
	}

	t.logger.Info("Service regained", zap.String("accountID", cmd.AccountID))
	if _, err := t.events.ApplyEvent(ctx, cmd.AccountID, omtp.NotificationInService); err != nil {
		return NewServiceError(ErrCodeDatabase, err)
	}

	active, err := t.sources.IsActive(ctx, cmd.AccountID)
	if err != nil {
		return NewServiceError(ErrCodeDatabase, err)
	}

	if active {
		if err := t.sync.RequestSync(ctx, SyncRequest{
			AccountID:      cmd.AccountID,
			SubscriptionID: cmd.SubscriptionID,
			Kind:           SyncKindFull,
		}); err != nil {
			return NewServiceError(ErrCodePublish, err)
		}
		return nil
	}

	return t.activation.Start(ctx, ActivateCommand{AccountID: cmd.AccountID, SubscriptionID: cmd.SubscriptionID})
}

func (t *trigger) SyncResult(ctx context.Context, cmd SyncResultCommand) error {
	if cmd.AccountID == "" {
		return NewServiceError(ErrCodeInvalidCommand, ErrInvalidCommand)
	}

	event, err := omtp.ParseEvent(cmd.Event)
	if err != nil {
		return NewServiceError(ErrCodeInvalidCommand, fmt.Errorf("%w: %v", ErrInvalidCommand, err))
	}
	if event.Type() != omtp.TypeDataChannel {
		return NewServiceError(ErrCodeInvalidCommand,
			fmt.Errorf("%w: %s is not a data channel event", ErrInvalidCommand, event))
	}

	editor := t.events.DirectEditor(cmd.AccountID)
	if cmd.QuotaOccupied != nil || cmd.QuotaTotal != nil {
		editor.SetQuota(intOr(cmd.QuotaOccupied, model.QuotaUnavailable), intOr(cmd.QuotaTotal, model.QuotaUnavailable))
	}

	if _, err := t.events.Handle(ctx, editor, event); err != nil {
		return NewServiceError(ErrCodeDatabase, err)
	}
	return nil
}

func intOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}
