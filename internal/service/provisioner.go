package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Behyna/vvm-service/internal/carrier"
	"github.com/Behyna/vvm-service/internal/config"
	"github.com/Behyna/vvm-service/internal/omtp"
	"github.com/Behyna/vvm-service/pkg/httpclient"
	"go.uber.org/zap"
)

type ProvisionRequest struct {
	Command ActivateCommand
	Profile *carrier.Profile
	Sender  omtp.MessageSender
	Status  omtp.StatusMessage
	Editor  *StatusEditor
}

// Provisioner takes over an activation whose subscriber is not ready yet. It
// must end in finalize or in an error.
type Provisioner interface {
	Provision(ctx context.Context, req ProvisionRequest, finalize func(ctx context.Context, status omtp.StatusMessage) error) error
}

// Subscriber signs the subscriber up at the carrier's provisioning gateway.
type Subscriber interface {
	Subscribe(ctx context.Context, url string) error
}

type httpSubscriber struct {
	client httpclient.HTTPClient
	logger *zap.Logger
}

func NewSubscriber(client httpclient.HTTPClient, logger *zap.Logger) Subscriber {
	return &httpSubscriber{client: client, logger: logger}
}

func (s *httpSubscriber) Subscribe(ctx context.Context, url string) error {
	resp, err := s.client.Get(ctx, url, nil)
	if err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("subscribe: unexpected status %d", resp.StatusCode)
	}

	s.logger.Info("Subscribed at provisioning gateway", zap.String("url", url))
	return nil
}

type vvm3Provisioner struct {
	events     EventHandler
	fetcher    StatusFetcher
	subscriber Subscriber
	timeout    time.Duration
	logger     *zap.Logger
}

func NewVvm3Provisioner(events EventHandler, fetcher StatusFetcher, subscriber Subscriber, cfg *config.Config,
	logger *zap.Logger) Provisioner {
	return &vvm3Provisioner{events: events, fetcher: fetcher, subscriber: subscriber,
		timeout: cfg.Activation.StatusSMSTimeout, logger: logger}
}

func (p *vvm3Provisioner) Provision(ctx context.Context, req ProvisionRequest,
	finalize func(ctx context.Context, status omtp.StatusMessage) error) error {
	accountID := req.Command.AccountID
	logger := p.logger.With(zap.String("accountID", accountID),
		zap.String("provisioningStatus", req.Status.ProvisioningStatus))

	if req.Status.ProvisioningStatus == omtp.ProvisioningBlocked {
		logger.Warn("Subscriber is blocked")
		return p.notAvailable(ctx, req)
	}

	if url := req.Status.SubscriptionURL; url != "" && req.Status.IsNew() {
		if err := p.subscriber.Subscribe(ctx, url); err != nil {
			return err
		}
	}

	logger.Info("Requesting status from provisioning server")
	status, err := p.fetcher.Fetch(ctx, accountID, p.timeout, func(ctx context.Context) error {
		return req.Profile.Protocol.RequestStatus(ctx, req.Sender)
	})
	if errors.Is(err, ErrStatusSmsTimeout) {
		if _, herr := p.events.Handle(ctx, req.Editor, omtp.ConfigStatusSmsTimeOut); herr != nil {
			return herr
		}
		return err
	}
	if err != nil {
		return err
	}

	if !status.IsReady() {
		logger.Warn("Subscriber still not ready after provisioning",
			zap.String("newStatus", status.ProvisioningStatus))
		return p.notAvailable(ctx, req)
	}

	return finalize(ctx, status)
}

func (p *vvm3Provisioner) notAvailable(ctx context.Context, req ProvisionRequest) error {
	if _, err := p.events.Handle(ctx, req.Editor, omtp.ConfigServiceNotAvailable); err != nil {
		return err
	}
	return ErrServiceNotAvailable
}
