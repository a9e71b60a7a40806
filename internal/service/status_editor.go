package service

import (
	"context"
	"sync"

	"github.com/Behyna/vvm-service/internal/model"
	"github.com/Behyna/vvm-service/internal/repository"
	"go.uber.org/zap"
)

type statusPatch struct {
	sourceType    *string
	configuration *model.ConfigurationState
	data          *model.DataChannelState
	notification  *model.NotificationChannelState
	quota         *[2]int
}

func (p statusPatch) empty() bool {
	return p.sourceType == nil && p.configuration == nil && p.data == nil && p.notification == nil && p.quota == nil
}

func (p statusPatch) columns() []string {
	var columns []string
	if p.sourceType != nil {
		columns = append(columns, repository.ColumnSourceType)
	}
	if p.configuration != nil {
		columns = append(columns, repository.ColumnConfigurationState)
	}
	if p.data != nil {
		columns = append(columns, repository.ColumnDataChannelState)
	}
	if p.notification != nil {
		columns = append(columns, repository.ColumnNotificationChannel)
	}
	if p.quota != nil {
		columns = append(columns, repository.ColumnQuotaOccupied, repository.ColumnQuotaTotal)
	}
	return columns
}

func (p statusPatch) applyTo(r *model.StatusRecord) {
	if p.sourceType != nil {
		r.SourceType = *p.sourceType
	}
	if p.configuration != nil {
		r.ConfigurationState = *p.configuration
	}
	if p.data != nil {
		r.DataChannelState = *p.data
	}
	if p.notification != nil {
		r.NotificationChannelState = *p.notification
	}
	if p.quota != nil {
		r.QuotaOccupied, r.QuotaTotal = p.quota[0], p.quota[1]
	}
}

// StatusEditor collects changes to one account's status record. A direct
// editor writes on every Apply. A deferred editor keeps the changes until
// Commit so that an attempt which is going to be retried leaves no trace.
//
// Channel states can only be set from this package, through the event handler.
type StatusEditor struct {
	mu        sync.Mutex
	accountID string
	repo      repository.StatusRepository
	notifier  StatusNotifier
	logger    *zap.Logger
	deferred  bool
	patch     statusPatch
}

func newStatusEditor(accountID string, repo repository.StatusRepository, notifier StatusNotifier,
	logger *zap.Logger, deferred bool) *StatusEditor {
	return &StatusEditor{accountID: accountID, repo: repo, notifier: notifier, logger: logger, deferred: deferred}
}

func (e *StatusEditor) AccountID() string {
	return e.accountID
}

func (e *StatusEditor) Deferred() bool {
	return e.deferred
}

func (e *StatusEditor) SetType(sourceType string) *StatusEditor {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.patch.sourceType = &sourceType
	return e
}

// SetQuota records mailbox usage. Use model.QuotaUnavailable for unknown values.
func (e *StatusEditor) SetQuota(occupied, total int) *StatusEditor {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.patch.quota = &[2]int{occupied, total}
	return e
}

func (e *StatusEditor) setConfiguration(s model.ConfigurationState) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.patch.configuration = &s
}

func (e *StatusEditor) setDataChannel(s model.DataChannelState) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.patch.data = &s
}

func (e *StatusEditor) setNotificationChannel(s model.NotificationChannelState) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.patch.notification = &s
}

// Apply persists pending changes and returns the stored record. On a deferred
// editor it only keeps the changes and returns nil.
func (e *StatusEditor) Apply(ctx context.Context) (*model.StatusRecord, error) {
	if e.deferred {
		return nil, nil
	}
	return e.flush(ctx, true)
}

// Commit persists whatever a deferred editor has collected. It returns nil
// when nothing was changed.
func (e *StatusEditor) Commit(ctx context.Context) (*model.StatusRecord, error) {
	return e.flush(ctx, false)
}

func (e *StatusEditor) Discard() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.patch = statusPatch{}
}

func (e *StatusEditor) flush(ctx context.Context, readIfEmpty bool) (*model.StatusRecord, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.patch.empty() {
		if !readIfEmpty {
			return nil, nil
		}
		return e.repo.Get(ctx, e.accountID)
	}

	// only the patched columns are written; the rest of a fresh row keeps its defaults
	changes := model.NewStatusRecord(e.accountID)
	e.patch.applyTo(changes)
	if err := e.repo.Update(ctx, changes, e.patch.columns()); err != nil {
		return nil, err
	}
	e.patch = statusPatch{}

	record, err := e.repo.Get(ctx, e.accountID)
	if err != nil {
		return nil, err
	}

	if e.notifier != nil {
		if err := e.notifier.StatusChanged(ctx, record); err != nil {
			e.logger.Warn("Failed to publish status change",
				zap.String("accountID", e.accountID),
				zap.Error(err))
		}
	}

	return record, nil
}
