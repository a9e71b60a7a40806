package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Behyna/vvm-service/internal/config"
	"github.com/Behyna/vvm-service/internal/metrics"
	"github.com/Behyna/vvm-service/internal/omtp"
	"github.com/Behyna/vvm-service/pkg/smsprovider"
	"go.uber.org/zap"
)

// smsSender makes one delivery attempt per message through the SMS gateway.
// Retrying is left to the activation retry policy.
type smsSender struct {
	provider smsprovider.Provider
	config   smsprovider.Config
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

func NewSMSSender(provider smsprovider.Provider, cfg *config.Config, metrics *metrics.Metrics,
	logger *zap.Logger) omtp.SMSSender {
	return &smsSender{provider: provider, config: cfg.SMSProvider, metrics: metrics, logger: logger}
}

func (s *smsSender) SendSMS(ctx context.Context, sms omtp.OutboundSMS) error {
	if !s.config.Enable {
		s.logger.Info("SMS provider disabled, message dropped",
			zap.String("subscriptionID", sms.SubscriptionID),
			zap.String("text", sms.Text))
		s.metrics.RecordSMSSent("disabled")
		return nil
	}

	timeout := s.config.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	sendCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	response, err := s.provider.Send(sendCtx, smsprovider.Request{
		SubscriptionID: sms.SubscriptionID,
		Destination:    sms.Destination,
		Port:           sms.Port,
		Text:           sms.Text,
	})
	if err != nil {
		s.metrics.RecordSMSSent("error")
		s.logger.Warn("SMS send attempt failed",
			zap.String("subscriptionID", sms.SubscriptionID),
			zap.String("destination", sms.Destination),
			zap.Bool("transient", smsprovider.IsTransient(err)),
			zap.Error(err))
		return fmt.Errorf("send sms: %w", err)
	}

	s.metrics.RecordSMSSent("success")
	s.logger.Debug("SMS sent",
		zap.String("subscriptionID", sms.SubscriptionID),
		zap.String("destination", sms.Destination),
		zap.Int("port", sms.Port),
		zap.String("messageID", response.MessageID))

	return nil
}
