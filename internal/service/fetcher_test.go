package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Behyna/vvm-service/internal/omtp"
	"github.com/Behyna/vvm-service/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestStatusFetcher_Fetch(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	statusMsg := func(fields map[string]string) omtp.Message {
		return omtp.Message{Prefix: omtp.DefaultClientPrefix, Type: omtp.MessageTypeStatus, Fields: fields}
	}

	t.Run("reply arriving during the request is returned", func(t *testing.T) {
		d := service.NewSMSDispatcher()
		fetcher := service.NewStatusFetcher(d, nil, logger)

		status, err := fetcher.Fetch(ctx, "acc-1", time.Second, func(context.Context) error {
			assert.Equal(t, 1, d.Listeners("acc-1"))
			assert.True(t, d.Dispatch("acc-1", statusMsg(readyStatus())))
			return nil
		})
		require.NoError(t, err)
		assert.True(t, status.IsReady())
		assert.Equal(t, "vvm.example.net", status.ServerAddress)
		assert.Equal(t, 0, d.Listeners("acc-1"))
	})

	t.Run("reply arriving later is returned", func(t *testing.T) {
		d := service.NewSMSDispatcher()
		fetcher := service.NewStatusFetcher(d, nil, logger)

		status, err := fetcher.Fetch(ctx, "acc-1", time.Second, func(context.Context) error {
			go func() {
				time.Sleep(10 * time.Millisecond)
				d.Dispatch("acc-1", statusMsg(map[string]string{omtp.FieldProvisioningStatus: omtp.ProvisioningNew}))
			}()
			return nil
		})
		require.NoError(t, err)
		assert.True(t, status.IsNew())
	})

	t.Run("timeout", func(t *testing.T) {
		d := service.NewSMSDispatcher()
		fetcher := service.NewStatusFetcher(d, nil, logger)

		_, err := fetcher.Fetch(ctx, "acc-1", 20*time.Millisecond, func(context.Context) error { return nil })
		assert.ErrorIs(t, err, service.ErrStatusSmsTimeout)
		assert.Equal(t, 0, d.Listeners("acc-1"))
		assert.False(t, d.Dispatch("acc-1", statusMsg(readyStatus())))
	})

	t.Run("failed request cancels the fetch", func(t *testing.T) {
		d := service.NewSMSDispatcher()
		fetcher := service.NewStatusFetcher(d, nil, logger)
		sendErr := errors.New("gateway unreachable")

		_, err := fetcher.Fetch(ctx, "acc-1", time.Second, func(context.Context) error { return sendErr })
		assert.ErrorIs(t, err, service.ErrStatusSmsCancelled)
		assert.Equal(t, 0, d.Listeners("acc-1"))
	})

	t.Run("context cancellation cancels the fetch", func(t *testing.T) {
		d := service.NewSMSDispatcher()
		fetcher := service.NewStatusFetcher(d, nil, logger)
		cancelCtx, cancel := context.WithCancel(ctx)

		_, err := fetcher.Fetch(cancelCtx, "acc-1", time.Second, func(context.Context) error {
			cancel()
			return nil
		})
		assert.ErrorIs(t, err, service.ErrStatusSmsCancelled)
	})

	t.Run("non status messages are left to other listeners", func(t *testing.T) {
		d := service.NewSMSDispatcher()
		fetcher := service.NewStatusFetcher(d, nil, logger)

		_, err := fetcher.Fetch(ctx, "acc-1", 20*time.Millisecond, func(context.Context) error {
			consumed := d.Dispatch("acc-1", omtp.Message{Type: omtp.MessageTypeSync})
			assert.False(t, consumed)
			return nil
		})
		assert.ErrorIs(t, err, service.ErrStatusSmsTimeout)
	})

	t.Run("only the first reply is consumed", func(t *testing.T) {
		d := service.NewSMSDispatcher()
		fetcher := service.NewStatusFetcher(d, nil, logger)

		_, err := fetcher.Fetch(ctx, "acc-1", time.Second, func(context.Context) error {
			assert.True(t, d.Dispatch("acc-1", statusMsg(readyStatus())))
			assert.False(t, d.Dispatch("acc-1", statusMsg(readyStatus())))
			return nil
		})
		require.NoError(t, err)
	})

	t.Run("reply without provisioning status is malformed", func(t *testing.T) {
		d := service.NewSMSDispatcher()
		fetcher := service.NewStatusFetcher(d, nil, logger)

		_, err := fetcher.Fetch(ctx, "acc-1", time.Second, func(context.Context) error {
			d.Dispatch("acc-1", statusMsg(map[string]string{omtp.FieldReturnCode: omtp.ReturnCodeSuccess}))
			return nil
		})
		assert.ErrorIs(t, err, service.ErrStatusSmsMalformed)
	})
}
