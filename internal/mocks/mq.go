package mocks

import (
	"context"

	"github.com/Behyna/vvm-service/pkg/mq"
	"github.com/stretchr/testify/mock"
)

type Publisher struct {
	mock.Mock
}

func (m *Publisher) Publish(ctx context.Context, exchange string, routingKey string, body []byte) error {
	args := m.Called(ctx, exchange, routingKey, body)
	return args.Error(0)
}

type Consumer struct {
	mock.Mock
}

func (m *Consumer) Consume(ctx context.Context, opts mq.ConsumeOptions, handler mq.Handle) error {
	args := m.Called(ctx, opts, handler)
	return args.Error(0)
}
