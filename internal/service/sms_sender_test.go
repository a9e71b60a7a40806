package service_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Behyna/vvm-service/internal/mocks"
	"github.com/Behyna/vvm-service/internal/omtp"
	"github.com/Behyna/vvm-service/internal/service"
	"github.com/Behyna/vvm-service/pkg/httpclient"
	"github.com/Behyna/vvm-service/pkg/smsprovider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSMSSender_SendSMS(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()
	sms := omtp.OutboundSMS{SubscriptionID: subOMTP, Destination: "122", Port: 1808, Text: "Activate:pv=13"}

	enabled := testConfig()
	enabled.SMSProvider = smsprovider.Config{Enable: true, Timeout: time.Second}

	t.Run("message is handed to the provider", func(t *testing.T) {
		provider := &mocks.SMSProvider{}
		provider.On("Send", mock.Anything, smsprovider.Request{
			SubscriptionID: subOMTP, Destination: "122", Port: 1808, Text: "Activate:pv=13",
		}).Return(smsprovider.Response{MessageID: "m-1", Status: smsprovider.StatusAccepted}, nil).Once()

		sender := service.NewSMSSender(provider, enabled, nil, logger)
		require.NoError(t, sender.SendSMS(ctx, sms))
		provider.AssertExpectations(t)
	})

	t.Run("provider failure is returned", func(t *testing.T) {
		provider := &mocks.SMSProvider{}
		provider.On("Send", mock.Anything, mock.Anything).
			Return(smsprovider.Response{}, smsprovider.ErrTimeout).Once()

		sender := service.NewSMSSender(provider, enabled, nil, logger)
		err := sender.SendSMS(ctx, sms)
		assert.ErrorIs(t, err, smsprovider.ErrTimeout)
		provider.AssertNumberOfCalls(t, "Send", 1)
	})

	t.Run("disabled provider drops the message", func(t *testing.T) {
		provider := &mocks.SMSProvider{}

		sender := service.NewSMSSender(provider, testConfig(), nil, logger)
		require.NoError(t, sender.SendSMS(ctx, sms))
		provider.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})
}

func TestSubscriber_Subscribe(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/ok" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	subscriber := service.NewSubscriber(httpclient.NewHTTPClient(time.Second), logger)

	t.Run("success", func(t *testing.T) {
		assert.NoError(t, subscriber.Subscribe(ctx, server.URL+"/ok"))
	})

	t.Run("non 2xx fails", func(t *testing.T) {
		assert.Error(t, subscriber.Subscribe(ctx, server.URL+"/busy"))
	})
}
