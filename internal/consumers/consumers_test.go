package consumers_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/Behyna/vvm-service/internal/config"
	"github.com/Behyna/vvm-service/internal/consumers"
	"github.com/Behyna/vvm-service/internal/mocks"
	"github.com/Behyna/vvm-service/internal/service"
	"github.com/Behyna/vvm-service/pkg/mq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig() *config.Config {
	return &config.Config{RabbitMQ: config.RabbitMQ{
		Prefetch: 8,
		Workers:  2,
		Queues: config.Queues{
			Activation:    "vvm.activation",
			InboundSMS:    "vvm.sms.inbound",
			Device:        "vvm.device",
			SourceRemoved: "vvm.source.removed",
			SyncResult:    "vvm.sync.result",
		},
	}}
}

// captureHandler runs c.Consume against a mocked broker and returns the
// delivery handler it registered.
func captureHandler(t *testing.T, c consumers.Consumer, consumer *mocks.Consumer) mq.Handle {
	t.Helper()
	var handler mq.Handle

	consumer.On("Consume", mock.Anything, mq.ConsumeOptions{Queue: c.Queue(), Prefetch: 8, Workers: 2}, mock.Anything).
		Run(func(args mock.Arguments) { handler = args.Get(2).(mq.Handle) }).
		Return(nil).Once()

	require.NoError(t, c.Consume(context.Background()))
	require.NotNil(t, handler)
	consumer.AssertExpectations(t)
	return handler
}

func body(t *testing.T, v interface{}) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func TestActivationConsumer(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	t.Run("command starts an activation with a fresh retry count", func(t *testing.T) {
		activation := &mocks.ActivationService{}
		consumer := &mocks.Consumer{}
		handler := captureHandler(t, consumers.NewActivationConsumer(activation, consumer, testConfig(), logger), consumer)

		activation.On("Start", ctx, service.ActivateCommand{AccountID: "acc-1", SubscriptionID: "310260-1"}).
			Return(nil).Once()

		err := handler(ctx, body(t, service.ActivateCommand{AccountID: "acc-1", SubscriptionID: "310260-1", RetryCount: 3}))
		require.NoError(t, err)
		activation.AssertExpectations(t)
	})

	t.Run("activation failures are not redelivered", func(t *testing.T) {
		activation := &mocks.ActivationService{}
		consumer := &mocks.Consumer{}
		handler := captureHandler(t, consumers.NewActivationConsumer(activation, consumer, testConfig(), logger), consumer)

		activation.On("Start", ctx, mock.Anything).Return(service.ErrStatusSmsTimeout)

		assert.NoError(t, handler(ctx, body(t, service.ActivateCommand{AccountID: "acc-1", SubscriptionID: "310260-1"})))
	})

	t.Run("invalid payload is dropped", func(t *testing.T) {
		activation := &mocks.ActivationService{}
		consumer := &mocks.Consumer{}
		handler := captureHandler(t, consumers.NewActivationConsumer(activation, consumer, testConfig(), logger), consumer)

		err := handler(ctx, []byte("{not json"))
		assert.ErrorIs(t, err, consumers.ErrInvalidPayload)
		assert.False(t, mq.IsTemporary(err))
		activation.AssertNotCalled(t, "Start", mock.Anything, mock.Anything)
	})
}

func TestSourceRemovedConsumer(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	t.Run("database failure is requeued", func(t *testing.T) {
		activation := &mocks.ActivationService{}
		consumer := &mocks.Consumer{}
		handler := captureHandler(t, consumers.NewSourceRemovedConsumer(activation, consumer, testConfig(), logger), consumer)

		activation.On("RemoveSource", ctx, service.RemoveSourceCommand{AccountID: "acc-1"}).
			Return(service.NewServiceError(service.ErrCodeDatabase, errors.New("deadlock"))).Once()

		err := handler(ctx, body(t, service.RemoveSourceCommand{AccountID: "acc-1"}))
		assert.True(t, mq.IsTemporary(err))
	})
}

func TestTriggerConsumers(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	t.Run("inbound SMS", func(t *testing.T) {
		triggers := &mocks.TriggerService{}
		consumer := &mocks.Consumer{}
		handler := captureHandler(t, consumers.NewInboundSMSConsumer(triggers, consumer, testConfig(), logger), consumer)

		cmd := service.InboundSMSCommand{AccountID: "acc-1", SubscriptionID: "310260-1", Payload: "//VVM:SYNC:ev=MBU"}
		triggers.On("InboundSMS", ctx, cmd).Return(service.NewServiceError(service.ErrCodePublish, errors.New("closed"))).Once()

		err := handler(ctx, body(t, cmd))
		assert.True(t, mq.IsTemporary(err))
		triggers.AssertExpectations(t)
	})

	t.Run("device event", func(t *testing.T) {
		triggers := &mocks.TriggerService{}
		consumer := &mocks.Consumer{}
		handler := captureHandler(t, consumers.NewDeviceConsumer(triggers, consumer, testConfig(), logger), consumer)

		cmd := service.DeviceEventCommand{Kind: service.DeviceEventProvisioned}
		triggers.On("DeviceEvent", ctx, cmd).Return(nil).Once()

		require.NoError(t, handler(ctx, body(t, cmd)))
		triggers.AssertExpectations(t)
	})

	t.Run("invalid sync result is dropped", func(t *testing.T) {
		triggers := &mocks.TriggerService{}
		consumer := &mocks.Consumer{}
		handler := captureHandler(t, consumers.NewSyncResultConsumer(triggers, consumer, testConfig(), logger), consumer)

		cmd := service.SyncResultCommand{AccountID: "acc-1", Event: "CONFIG_PIN_SET"}
		triggers.On("SyncResult", ctx, cmd).
			Return(service.NewServiceError(service.ErrCodeInvalidCommand, service.ErrInvalidCommand)).Once()

		err := handler(ctx, body(t, cmd))
		assert.Error(t, err)
		assert.False(t, mq.IsTemporary(err))
	})
}
