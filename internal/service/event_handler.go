package service

import (
	"context"
	"fmt"

	"github.com/Behyna/vvm-service/internal/metrics"
	"github.com/Behyna/vvm-service/internal/model"
	"github.com/Behyna/vvm-service/internal/omtp"
	"github.com/Behyna/vvm-service/internal/repository"
	"go.uber.org/zap"
)

type attemptKey struct{}

// WithAttemptID tags events applied under ctx with an activation attempt.
func WithAttemptID(ctx context.Context, attemptID string) context.Context {
	return context.WithValue(ctx, attemptKey{}, attemptID)
}

func attemptID(ctx context.Context) *string {
	id, ok := ctx.Value(attemptKey{}).(string)
	if !ok || id == "" {
		return nil
	}
	return &id
}

// EventHandler is the only writer of channel states.
type EventHandler interface {
	DirectEditor(accountID string) *StatusEditor
	DeferredEditor(accountID string) *StatusEditor
	// Handle sets the channels for event on editor and applies it. The returned
	// record is nil when editor is deferred.
	Handle(ctx context.Context, editor *StatusEditor, event omtp.Event) (*model.StatusRecord, error)
	// ApplyEvent handles event on a direct editor.
	ApplyEvent(ctx context.Context, accountID string, event omtp.Event) (*model.StatusRecord, error)
}

type eventHandler struct {
	statusRepo   repository.StatusRepository
	eventLogRepo repository.EventLogRepository
	notifier     StatusNotifier
	metrics      *metrics.Metrics
	logger       *zap.Logger
}

func NewEventHandler(statusRepo repository.StatusRepository, eventLogRepo repository.EventLogRepository,
	notifier StatusNotifier, metrics *metrics.Metrics, logger *zap.Logger) EventHandler {
	return &eventHandler{statusRepo: statusRepo, eventLogRepo: eventLogRepo, notifier: notifier,
		metrics: metrics, logger: logger}
}

func (h *eventHandler) DirectEditor(accountID string) *StatusEditor {
	return newStatusEditor(accountID, h.statusRepo, h.notifier, h.logger, false)
}

func (h *eventHandler) DeferredEditor(accountID string) *StatusEditor {
	return newStatusEditor(accountID, h.statusRepo, h.notifier, h.logger, true)
}

func (h *eventHandler) ApplyEvent(ctx context.Context, accountID string, event omtp.Event) (*model.StatusRecord, error) {
	return h.Handle(ctx, h.DirectEditor(accountID), event)
}

func (h *eventHandler) Handle(ctx context.Context, editor *StatusEditor, event omtp.Event) (*model.StatusRecord, error) {
	h.logger.Debug("Handling status event",
		zap.String("accountID", editor.AccountID()),
		zap.Stringer("event", event),
		zap.Stringer("type", event.Type()),
		zap.Bool("deferred", editor.Deferred()))

	transition(editor, event)

	record, err := editor.Apply(ctx)
	if err != nil {
		h.logger.Error("Failed to apply status event",
			zap.String("accountID", editor.AccountID()),
			zap.Stringer("event", event),
			zap.Error(err))
		return nil, fmt.Errorf("apply %s: %w", event, err)
	}

	h.metrics.RecordEventApplied(event.Type().String(), event.String())
	h.logEvent(ctx, editor, event)

	return record, nil
}

func (h *eventHandler) logEvent(ctx context.Context, editor *StatusEditor, event omtp.Event) {
	if h.eventLogRepo == nil {
		return
	}

	entry := &model.EventLog{
		AccountID: editor.AccountID(),
		AttemptID: attemptID(ctx),
		Event:     event.String(),
		EventType: event.Type().String(),
		Success:   event.IsSuccess(),
		Deferred:  editor.Deferred(),
	}
	if err := h.eventLogRepo.Create(ctx, entry); err != nil {
		h.logger.Warn("Failed to write event log",
			zap.String("accountID", editor.AccountID()),
			zap.Stringer("event", event),
			zap.Error(err))
	}
}

func transition(editor *StatusEditor, event omtp.Event) {
	switch event.Type() {
	case omtp.TypeConfiguration:
		handleConfiguration(editor, event)
	case omtp.TypeDataChannel:
		handleDataChannel(editor, event)
	case omtp.TypeNotificationChannel:
		handleNotificationChannel(editor, event)
	case omtp.TypeOther:
		handleOther(editor, event)
	default:
		panic(fmt.Sprintf("unhandled event type %s of %s", event.Type(), event))
	}
}

func handleConfiguration(editor *StatusEditor, event omtp.Event) {
	switch event {
	case omtp.ConfigRequestStatusSuccess, omtp.ConfigPinSet, omtp.ConfigDefaultPinReplaced:
		editor.setConfiguration(model.ConfigurationOK)
		editor.setNotificationChannel(model.NotificationChannelOK)
	case omtp.ConfigStatusSmsTimeOut:
		editor.setConfiguration(model.ConfigurationFailed)
	case omtp.ConfigCarrierUnsupported:
		editor.setConfiguration(model.ConfigurationNotConfigured)
	case omtp.ConfigActivating, omtp.ConfigActivatingSubsequent, omtp.ConfigServiceNotAvailable:
		// reported to the log and metrics only
	default:
		panic(fmt.Sprintf("unhandled configuration event %s", event))
	}
}

func handleDataChannel(editor *StatusEditor, event omtp.Event) {
	switch event {
	case omtp.DataImapOperationCompleted:
		editor.setDataChannel(model.DataChannelOK)
	case omtp.DataNoConnection:
		editor.setDataChannel(model.DataChannelNoConnection)
	case omtp.DataNoConnectionCellularRequired:
		editor.setDataChannel(model.DataChannelNoConnectionCellularRequired)
	case omtp.DataInvalidPort, omtp.DataBadImapCredential,
		omtp.DataAuthUnknownUser, omtp.DataAuthBadPassword, omtp.DataAuthMailboxNotInitialized,
		omtp.DataAuthServiceNotProvisioned, omtp.DataAuthServiceNotActivated, omtp.DataAuthUserIsBlocked:
		editor.setDataChannel(model.DataChannelBadConfiguration)
	case omtp.DataCannotResolveHostOnNetwork:
		editor.setDataChannel(model.DataChannelServerConnectionError)
	case omtp.DataSslInvalidHostName, omtp.DataCannotEstablishSslSession, omtp.DataIoeOnOpen:
		editor.setDataChannel(model.DataChannelCommunicationError)
	case omtp.DataRejectedServerResponse, omtp.DataInvalidInitialServerResponse, omtp.DataSslException,
		omtp.DataAllSocketConnectionFailed, omtp.DataMailboxOpenFailed:
		editor.setDataChannel(model.DataChannelServerError)
	case omtp.DataImapOperationStarted:
	default:
		panic(fmt.Sprintf("unhandled data channel event %s", event))
	}
}

func handleNotificationChannel(editor *StatusEditor, event omtp.Event) {
	switch event {
	case omtp.NotificationInService:
		editor.setNotificationChannel(model.NotificationChannelOK)
	case omtp.NotificationServiceLost:
		editor.setNotificationChannel(model.NotificationChannelNoConnection)
	default:
		panic(fmt.Sprintf("unhandled notification event %s", event))
	}
}

func handleOther(editor *StatusEditor, event omtp.Event) {
	switch event {
	case omtp.OtherSourceRemoved:
		editor.setConfiguration(model.ConfigurationNotConfigured)
		editor.setNotificationChannel(model.NotificationChannelNoConnection)
		editor.setDataChannel(model.DataChannelNoConnection)
	default:
		panic(fmt.Sprintf("unhandled event %s", event))
	}
}
