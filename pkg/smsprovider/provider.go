package smsprovider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Behyna/vvm-service/pkg/httpclient"
)

// Provider delivers data SMS to the carrier's voicemail server.
type Provider interface {
	Send(ctx context.Context, req Request) (Response, error)
}

type Config struct {
	Enable  bool          `mapstructure:"enable"`
	URL     string        `mapstructure:"url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Request is a single outbound SMS. Port 0 means a plain text SMS,
// anything else is sent as a binary data SMS to that port.
type Request struct {
	SubscriptionID string `json:"subscriptionId"`
	Destination    string `json:"destination"`
	Port           int    `json:"port,omitempty"`
	Text           string `json:"text"`
}

type Response struct {
	MessageID string `json:"messageId"`
	Status    string `json:"status"`
}

const StatusAccepted = "ACCEPTED"

type SMSProvider struct {
	cfg    Config
	client httpclient.HTTPClient
}

const HeaderAPIKey = "X-Api-Key"

// ClientOptions configures the HTTP client that talks to the gateway.
func ClientOptions(cfg Config) []httpclient.Option {
	if cfg.APIKey == "" {
		return nil
	}
	return []httpclient.Option{httpclient.WithDefaultHeaders(map[string]string{HeaderAPIKey: cfg.APIKey})}
}

func NewSMSProvider(cfg Config, client httpclient.HTTPClient) Provider {
	return &SMSProvider{cfg: cfg, client: client}
}

func (s *SMSProvider) Send(ctx context.Context, req Request) (Response, error) {
	if req.Destination == "" {
		return Response{}, ErrInvalidDestination
	}

	body, err := json.Marshal(req)
	if err != nil {
		return Response{}, err
	}

	headers := map[string]string{"Content-Type": "application/json"}

	resp, err := s.client.Post(ctx, s.cfg.URL, bytes.NewBuffer(body), headers)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return Response{}, ErrTimeout
		}

		return Response{}, ErrNetworkError
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Response{}, MapStatusToError(resp.StatusCode)
	}

	var res Response
	if err = json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return Response{}, ErrServerError
	}

	if res.Status != "" && res.Status != StatusAccepted {
		return res, ErrRejected
	}

	return res, nil
}

func MapStatusToError(statusCode int) error {
	switch {
	case statusCode == http.StatusBadRequest, statusCode == http.StatusUnprocessableEntity:
		return ErrInvalidDestination
	case statusCode == http.StatusRequestTimeout, statusCode == http.StatusGatewayTimeout:
		return ErrTimeout
	default:
		return ErrServerError
	}
}
