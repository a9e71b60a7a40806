package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/Behyna/vvm-service/internal/metrics"
	"github.com/Behyna/vvm-service/internal/omtp"
	"go.uber.org/zap"
)

type StatusFetcher interface {
	// Fetch listens for the next STATUS SMS of accountID, then calls request to
	// trigger it. It returns ErrStatusSmsCancelled when request fails or ctx
	// ends, ErrStatusSmsTimeout when nothing arrives within timeout and
	// ErrStatusSmsMalformed for a reply without provisioning status.
	Fetch(ctx context.Context, accountID string, timeout time.Duration,
		request func(ctx context.Context) error) (omtp.StatusMessage, error)
}

type statusFetcher struct {
	receiver SMSReceiver
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

func NewStatusFetcher(receiver SMSReceiver, metrics *metrics.Metrics, logger *zap.Logger) StatusFetcher {
	return &statusFetcher{receiver: receiver, metrics: metrics, logger: logger}
}

func (f *statusFetcher) Fetch(ctx context.Context, accountID string, timeout time.Duration,
	request func(ctx context.Context) error) (omtp.StatusMessage, error) {
	received := make(chan omtp.Message, 1)
	var done atomic.Bool
	defer done.Store(true)

	unregister := f.receiver.Register(accountID, func(msg omtp.Message) bool {
		if done.Load() || msg.Type != omtp.MessageTypeStatus {
			return false
		}
		select {
		case received <- msg:
			return true
		default:
			return false
		}
	})
	defer unregister()

	if err := request(ctx); err != nil {
		f.metrics.RecordStatusSMSFetch("cancelled")
		return omtp.StatusMessage{}, fmt.Errorf("%w: %v", ErrStatusSmsCancelled, err)
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case msg := <-received:
		status := omtp.NewStatusMessage(msg.Fields)
		if !status.Valid() {
			f.metrics.RecordStatusSMSFetch("malformed")
			return omtp.StatusMessage{}, fmt.Errorf("%w: missing %s", ErrStatusSmsMalformed, omtp.FieldProvisioningStatus)
		}

		f.metrics.RecordStatusSMSFetch("received")
		f.logger.Debug("STATUS SMS received",
			zap.String("accountID", accountID),
			zap.String("provisioningStatus", status.ProvisioningStatus),
			zap.String("returnCode", status.ReturnCode))
		return status, nil

	case <-timer.C:
		f.metrics.RecordStatusSMSFetch("timeout")
		return omtp.StatusMessage{}, ErrStatusSmsTimeout

	case <-ctx.Done():
		f.metrics.RecordStatusSMSFetch("cancelled")
		return omtp.StatusMessage{}, fmt.Errorf("%w: %v", ErrStatusSmsCancelled, ctx.Err())
	}
}
