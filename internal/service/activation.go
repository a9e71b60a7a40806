package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Behyna/vvm-service/internal/carrier"
	"github.com/Behyna/vvm-service/internal/config"
	"github.com/Behyna/vvm-service/internal/metrics"
	"github.com/Behyna/vvm-service/internal/model"
	"github.com/Behyna/vvm-service/internal/omtp"
	"github.com/Behyna/vvm-service/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const (
	resultSuccess  = "success"
	resultTerminal = "terminal"
	resultRetry    = "retry"
	resultExhaust  = "exhausted"
)

type ActivationService interface {
	// Start runs one activation attempt for cmd.AccountID. A call made while
	// another attempt for the same account runs waits for that attempt and
	// returns its result. A new trigger replaces a retry that is still waiting
	// for its timer, so an account has at most one retry chain. When the
	// device is not provisioned yet the command is parked until ReleaseDeferred.
	Start(ctx context.Context, cmd ActivateCommand) error
	// ReleaseDeferred starts every parked activation and waits for them.
	ReleaseDeferred(ctx context.Context) int
	// Deferred is the number of parked activations.
	Deferred() int
	RemoveSource(ctx context.Context, cmd RemoveSourceCommand) error
	// RestoreFilters re-arms the SMS filter of every active source. Filters
	// only live in memory, so a worker calls it once before consuming.
	RestoreFilters(ctx context.Context) (int, error)
}

type ActivationDeps struct {
	fx.In

	Config      *config.Config
	Resolver    carrier.Resolver
	Events      EventHandler
	Sources     repository.SourceRepository
	TxManager   repository.TxManager
	Device      DeviceState
	Dispatcher  SMSDispatcher
	Fetcher     StatusFetcher
	SMS         omtp.SMSSender
	Retry       RetryPolicy
	Provisioner Provisioner
	Sync        SyncTrigger
	Metrics     *metrics.Metrics `optional:"true"`
	Logger      *zap.Logger
}

type activation struct {
	cfg          config.Activation
	resolver     carrier.Resolver
	events       EventHandler
	sources      repository.SourceRepository
	txManager    repository.TxManager
	device       DeviceState
	dispatcher   SMSDispatcher
	fetcher      StatusFetcher
	sms          omtp.SMSSender
	retry        RetryPolicy
	provisioners map[string]Provisioner
	sync         SyncTrigger
	metrics      *metrics.Metrics
	logger       *zap.Logger

	group    singleflight.Group
	mu       sync.Mutex
	deferred map[string]ActivateCommand
	retries  map[string]pendingRetry
	retryID  uint64
}

type pendingRetry struct {
	id     uint64
	cancel func()
}

func NewActivationService(d ActivationDeps) ActivationService {
	return &activation{
		cfg:          d.Config.Activation,
		resolver:     d.Resolver,
		events:       d.Events,
		sources:      d.Sources,
		txManager:    d.TxManager,
		device:       d.Device,
		dispatcher:   d.Dispatcher,
		fetcher:      d.Fetcher,
		sms:          d.SMS,
		retry:        d.Retry,
		provisioners: map[string]Provisioner{omtp.VVMTypeVVM3: d.Provisioner},
		sync:         d.Sync,
		metrics:      d.Metrics,
		logger:       d.Logger,
		deferred:     make(map[string]ActivateCommand),
		retries:      make(map[string]pendingRetry),
	}
}

func (s *activation) Start(ctx context.Context, cmd ActivateCommand) error {
	if cmd.AccountID == "" || cmd.SubscriptionID == "" {
		return NewServiceError(ErrCodeInvalidCommand, ErrInvalidCommand)
	}

	if cmd.RetryCount == 0 && s.cancelRetry(cmd.AccountID) {
		s.logger.Debug("Pending retry replaced by new trigger",
			zap.String("accountID", cmd.AccountID))
	}

	if !s.device.IsProvisioned() {
		s.mu.Lock()
		s.deferred[cmd.AccountID] = cmd
		s.mu.Unlock()

		s.metrics.RecordActivationDeferred()
		s.logger.Info("Activation deferred until device is provisioned",
			zap.String("accountID", cmd.AccountID),
			zap.Error(ErrDeviceNotProvisioned))
		return nil
	}

	result := s.group.DoChan(cmd.AccountID, func() (interface{}, error) {
		return nil, s.run(ctx, cmd)
	})

	select {
	case res := <-result:
		if res.Shared {
			s.logger.Debug("Activation coalesced with in-flight attempt",
				zap.String("accountID", cmd.AccountID))
		}
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *activation) ReleaseDeferred(ctx context.Context) int {
	s.mu.Lock()
	pending := s.deferred
	s.deferred = make(map[string]ActivateCommand)
	s.mu.Unlock()

	var g errgroup.Group
	for _, cmd := range pending {
		cmd := cmd
		g.Go(func() error {
			if err := s.Start(ctx, cmd); err != nil {
				s.logger.Debug("Deferred activation failed",
					zap.String("accountID", cmd.AccountID),
					zap.Error(err))
			}
			return nil
		})
	}
	_ = g.Wait()

	return len(pending)
}

func (s *activation) Deferred() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.deferred)
}

func (s *activation) run(ctx context.Context, cmd ActivateCommand) error {
	attempt := uuid.NewString()
	ctx = WithAttemptID(ctx, attempt)
	logger := s.logger.With(
		zap.String("accountID", cmd.AccountID),
		zap.String("subscriptionID", cmd.SubscriptionID),
		zap.String("attemptID", attempt),
		zap.Int("retryCount", cmd.RetryCount))

	started := time.Now()
	s.metrics.ActivationStarted()

	editor := s.events.DeferredEditor(cmd.AccountID)
	err := s.attempt(ctx, cmd, editor, logger)

	result := s.settle(ctx, cmd, editor, err, logger)
	s.metrics.RecordActivation(result, time.Since(started))

	return err
}

func (s *activation) settle(ctx context.Context, cmd ActivateCommand, editor *StatusEditor, err error,
	logger *zap.Logger) string {
	switch {
	case err == nil:
		s.commit(ctx, editor, logger)
		return resultSuccess

	case !IsRetryable(err):
		logger.Warn("Activation stopped", zap.Error(err))
		s.commit(ctx, editor, logger)
		return resultTerminal

	case s.retry.HasMoreRetries(cmd.RetryCount):
		if s.scheduleRetry(cmd) {
			editor.Discard()
			s.metrics.RecordRetryScheduled()
			logger.Warn("Activation failed, retry scheduled",
				zap.Duration("delay", s.retry.Interval()),
				zap.Error(err))
			return resultRetry
		}
		logger.Warn("Activation failed and retry could not be scheduled", zap.Error(err))
		s.commit(ctx, editor, logger)
		return resultExhaust

	default:
		logger.Warn("Activation failed, retries exhausted", zap.Error(err))
		s.commit(ctx, editor, logger)
		return resultExhaust
	}
}

func (s *activation) commit(ctx context.Context, editor *StatusEditor, logger *zap.Logger) {
	if _, err := editor.Commit(context.WithoutCancel(ctx)); err != nil {
		logger.Error("Failed to commit activation status", zap.Error(err))
	}
}

func (s *activation) scheduleRetry(cmd ActivateCommand) bool {
	s.mu.Lock()
	s.retryID++
	id := s.retryID
	s.mu.Unlock()

	cancel, ok := s.retry.Retry(cmd, func(next ActivateCommand) {
		s.mu.Lock()
		if pending, found := s.retries[next.AccountID]; found && pending.id == id {
			delete(s.retries, next.AccountID)
		}
		s.mu.Unlock()

		s.runRetry(next)
	})
	if !ok {
		return false
	}

	s.mu.Lock()
	previous, found := s.retries[cmd.AccountID]
	s.retries[cmd.AccountID] = pendingRetry{id: id, cancel: cancel}
	s.mu.Unlock()

	if found {
		previous.cancel()
	}
	return true
}

// cancelRetry reports whether a waiting retry of accountID was dropped.
func (s *activation) cancelRetry(accountID string) bool {
	s.mu.Lock()
	pending, found := s.retries[accountID]
	delete(s.retries, accountID)
	s.mu.Unlock()

	if found {
		pending.cancel()
	}
	return found
}

func (s *activation) runRetry(next ActivateCommand) {
	if err := s.Start(context.Background(), next); err != nil {
		s.logger.Debug("Retried activation failed",
			zap.String("accountID", next.AccountID),
			zap.Int("retryCount", next.RetryCount),
			zap.Error(err))
	}
}

func (s *activation) attempt(ctx context.Context, cmd ActivateCommand, editor *StatusEditor, logger *zap.Logger) error {
	profile, err := s.resolver.Resolve(ctx, cmd.SubscriptionID)
	if errors.Is(err, carrier.ErrUnsupported) {
		logger.Info("Carrier does not support visual voicemail", zap.Error(err))
		s.dispatcher.DeactivateFilter(cmd.AccountID)
		if _, herr := s.events.ApplyEvent(ctx, cmd.AccountID, omtp.ConfigCarrierUnsupported); herr != nil {
			logger.Error("Failed to disable configuration", zap.Error(herr))
		}
		return fmt.Errorf("%w: %v", ErrCarrierUnsupported, err)
	}
	if err != nil {
		return fmt.Errorf("resolve carrier config: %w", err)
	}

	if _, err := s.events.DirectEditor(cmd.AccountID).SetType(profile.VVMType).Apply(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrSourceConfigFailed, err)
	}

	active, err := s.sources.IsActive(ctx, cmd.AccountID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	activating := omtp.ConfigActivating
	if active {
		activating = omtp.ConfigActivatingSubsequent
	}
	if _, err := s.events.ApplyEvent(ctx, cmd.AccountID, activating); err != nil {
		logger.Warn("Failed to report activating status", zap.Error(err))
	}

	if !s.device.HasSignal(cmd.SubscriptionID) {
		logger.Info("No signal, waiting for service to return")
		if _, err := s.events.ApplyEvent(ctx, cmd.AccountID, omtp.NotificationServiceLost); err != nil {
			logger.Error("Failed to report service lost", zap.Error(err))
		}
		return ErrNoSignal
	}

	s.dispatcher.ActivateFilter(cmd.AccountID, profile.ClientPrefix)
	sender := profile.MessageSender(s.sms, s.cfg.ClientType)

	var status omtp.StatusMessage
	if cmd.Status != nil {
		logger.Debug("Using STATUS SMS from trigger")
		status = omtp.NewStatusMessage(cmd.Status)
		if !status.Valid() {
			return fmt.Errorf("%w: trigger status missing %s", ErrStatusSmsMalformed, omtp.FieldProvisioningStatus)
		}
	} else {
		status, err = s.fetcher.Fetch(ctx, cmd.AccountID, s.cfg.StatusSMSTimeout, func(ctx context.Context) error {
			return profile.Protocol.StartActivation(ctx, sender)
		})
		if errors.Is(err, ErrStatusSmsTimeout) {
			if _, herr := s.events.Handle(ctx, editor, omtp.ConfigStatusSmsTimeOut); herr != nil {
				return herr
			}
			return err
		}
		if err != nil {
			return err
		}
	}

	finalize := func(ctx context.Context, status omtp.StatusMessage) error {
		return s.finalize(ctx, cmd, profile, editor, status, logger)
	}

	switch {
	case status.IsReady():
		return finalize(ctx, status)

	case profile.Protocol.SupportsProvisioning():
		provisioner, ok := s.provisioners[profile.Protocol.Name()]
		if !ok || provisioner == nil {
			return fmt.Errorf("no provisioner for %s", profile.Protocol.Name())
		}
		logger.Info("Subscriber not ready, provisioning",
			zap.String("provisioningStatus", status.ProvisioningStatus))
		return provisioner.Provision(ctx, ProvisionRequest{
			Command: cmd,
			Profile: profile,
			Sender:  sender,
			Status:  status,
			Editor:  editor,
		}, finalize)

	case status.IsNew():
		logger.Info("Subscriber is new and carrier has no provisioning, activating anyway")
		return finalize(ctx, status)

	default:
		logger.Warn("Visual voicemail service not available",
			zap.String("provisioningStatus", status.ProvisioningStatus))
		if _, err := s.events.Handle(ctx, editor, omtp.ConfigServiceNotAvailable); err != nil {
			return err
		}
		if err := s.sources.DisableIndicatorCheck(ctx, cmd.AccountID); err != nil {
			logger.Error("Failed to disable indicator check", zap.Error(err))
		}
		return ErrServiceNotAvailable
	}
}

func (s *activation) finalize(ctx context.Context, cmd ActivateCommand, profile *carrier.Profile,
	editor *StatusEditor, status omtp.StatusMessage, logger *zap.Logger) error {
	if !status.IsSuccess() {
		logger.Warn("STATUS SMS reports failure, account not activated",
			zap.String("returnCode", status.ReturnCode))
		return nil
	}

	if _, err := s.events.Handle(ctx, editor, omtp.ConfigRequestStatusSuccess); err != nil {
		return err
	}

	source := &model.VoicemailSource{
		AccountID:       cmd.AccountID,
		SubscriptionID:  cmd.SubscriptionID,
		SourceType:      profile.VVMType,
		ServerAddress:   status.ServerAddress,
		IMAPPort:        status.IMAPPort,
		IMAPUserName:    status.IMAPUserName,
		IMAPPassword:    status.IMAPPassword,
		SMTPPort:        status.SMTPPort,
		SMTPUserName:    status.SMTPUserName,
		SMTPPassword:    status.SMTPPassword,
		TUINumber:       status.TUINumber,
		ClientSMSDest:   status.ClientSMSDest,
		SubscriptionURL: status.SubscriptionURL,

		SSLEnabled:           profile.SSLEnabled,
		CellularDataRequired: profile.CellularDataRequired,
		Prefetch:             profile.Prefetch,
	}
	err := s.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := s.sources.Activate(ctx, source); err != nil {
			return err
		}
		_, err := editor.Commit(ctx)
		return err
	})
	if err != nil {
		// rolled back, so the pending success must not reach a later commit
		editor.Discard()
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	logger.Info("Visual voicemail activated", zap.String("server", status.ServerAddress))

	if err := s.sync.RequestSync(ctx, SyncRequest{
		AccountID:      cmd.AccountID,
		SubscriptionID: cmd.SubscriptionID,
		Kind:           SyncKindFull,
	}); err != nil {
		logger.Error("Failed to request full sync", zap.Error(err))
	}

	if err := s.sync.ClearMessageWaiting(ctx, ClearMessageWaitingCommand{
		AccountID:      cmd.AccountID,
		SubscriptionID: cmd.SubscriptionID,
	}); err != nil {
		logger.Error("Failed to clear message waiting indicator", zap.Error(err))
	}

	return nil
}

func (s *activation) RemoveSource(ctx context.Context, cmd RemoveSourceCommand) error {
	if cmd.AccountID == "" {
		return NewServiceError(ErrCodeInvalidCommand, ErrInvalidCommand)
	}
	logger := s.logger.With(zap.String("accountID", cmd.AccountID))

	s.mu.Lock()
	delete(s.deferred, cmd.AccountID)
	s.mu.Unlock()
	s.cancelRetry(cmd.AccountID)

	if cmd.SubscriptionID != "" {
		s.sendDeactivation(ctx, cmd, logger)
	}

	err := s.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := s.sources.Deactivate(ctx, cmd.AccountID); err != nil {
			return err
		}
		_, err := s.events.ApplyEvent(ctx, cmd.AccountID, omtp.OtherSourceRemoved)
		return err
	})
	if err != nil {
		logger.Error("Failed to remove voicemail source", zap.Error(err))
		return NewServiceError(ErrCodeDatabase, err)
	}

	s.dispatcher.DeactivateFilter(cmd.AccountID)
	logger.Info("Voicemail source removed")

	return nil
}

func (s *activation) RestoreFilters(ctx context.Context) (int, error) {
	sources, err := s.sources.ListActive(ctx)
	if err != nil {
		return 0, NewServiceError(ErrCodeDatabase, err)
	}

	restored := 0
	for _, source := range sources {
		profile, err := s.resolver.Resolve(ctx, source.SubscriptionID)
		if err != nil {
			s.logger.Warn("Cannot restore SMS filter",
				zap.String("accountID", source.AccountID),
				zap.Error(err))
			continue
		}

		s.dispatcher.ActivateFilter(source.AccountID, profile.ClientPrefix)
		restored++
	}

	return restored, nil
}

// sendDeactivation tells the carrier the client is gone. Failures only get logged.
func (s *activation) sendDeactivation(ctx context.Context, cmd RemoveSourceCommand, logger *zap.Logger) {
	profile, err := s.resolver.Resolve(ctx, cmd.SubscriptionID)
	if err != nil {
		logger.Debug("Skipping deactivation SMS", zap.Error(err))
		return
	}

	sender := profile.MessageSender(s.sms, s.cfg.ClientType)
	if err := profile.Protocol.StartDeactivation(ctx, sender); err != nil {
		logger.Warn("Failed to send deactivation SMS", zap.Error(err))
	}
}
