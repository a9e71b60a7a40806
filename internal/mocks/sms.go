package mocks

import (
	"context"

	"github.com/Behyna/vvm-service/internal/omtp"
	"github.com/Behyna/vvm-service/pkg/smsprovider"
	"github.com/stretchr/testify/mock"
)

type SMSProvider struct {
	mock.Mock
}

func (m *SMSProvider) Send(ctx context.Context, req smsprovider.Request) (smsprovider.Response, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(smsprovider.Response), args.Error(1)
}

type SMSSender struct {
	mock.Mock
}

func (m *SMSSender) SendSMS(ctx context.Context, sms omtp.OutboundSMS) error {
	args := m.Called(ctx, sms)
	return args.Error(0)
}

type Subscriber struct {
	mock.Mock
}

func (m *Subscriber) Subscribe(ctx context.Context, url string) error {
	args := m.Called(ctx, url)
	return args.Error(0)
}
