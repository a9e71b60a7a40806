package consumers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Behyna/vvm-service/internal/config"
	"github.com/Behyna/vvm-service/internal/service"
	"github.com/Behyna/vvm-service/pkg/mq"
	"go.uber.org/zap"
)

var ErrInvalidPayload = errors.New("INVALID_PAYLOAD")

// Consumer drains one queue until ctx is done.
type Consumer interface {
	Consume(ctx context.Context) error
	Queue() string
}

func consumeOptions(cfg *config.Config, queue string) mq.ConsumeOptions {
	return mq.ConsumeOptions{Queue: queue, Prefetch: cfg.RabbitMQ.Prefetch, Workers: cfg.RabbitMQ.Workers}
}

func decode(body []byte, v interface{}) error {
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return nil
}

// outcome maps a handler error onto the delivery. Storage and broker failures
// are requeued. Everything else is dropped: activation failures are already
// owned by the retry policy.
func outcome(logger *zap.Logger, queue string, err error) error {
	if err == nil {
		return nil
	}

	var serviceErr service.Error
	if errors.As(err, &serviceErr) &&
		(serviceErr.Code == service.ErrCodeDatabase || serviceErr.Code == service.ErrCodePublish) {
		logger.Warn("Command failed, requeueing",
			zap.String("queue", queue),
			zap.String("code", serviceErr.Code),
			zap.Error(err))
		return mq.Temporary(err)
	}

	if errors.Is(err, ErrInvalidPayload) || errors.Is(err, service.ErrInvalidCommand) {
		logger.Warn("Invalid command dropped", zap.String("queue", queue), zap.Error(err))
		return err
	}

	logger.Info("Command finished with error", zap.String("queue", queue), zap.Error(err))
	return nil
}
