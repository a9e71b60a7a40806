package carrier

import (
	"context"
	"errors"
	"fmt"

	"github.com/Behyna/vvm-service/internal/omtp"
)

var ErrUnsupported = errors.New("CARRIER_UNSUPPORTED")

// Profile is the per-attempt view of a carrier's visual voicemail setup.
type Profile struct {
	SubscriptionID       string
	VVMType              string
	Destination          string
	Port                 int
	ClientPrefix         string
	ProtocolVersion      string
	SSLEnabled           bool
	CellularDataRequired bool
	Prefetch             bool
	Protocol             omtp.Protocol
}

func (p *Profile) MessageSender(sms omtp.SMSSender, clientType string) omtp.MessageSender {
	return p.Protocol.CreateMessageSender(omtp.SenderParams{
		SMS:             sms,
		SubscriptionID:  p.SubscriptionID,
		Destination:     p.Destination,
		Port:            p.Port,
		ClientPrefix:    p.ClientPrefix,
		ProtocolVersion: p.ProtocolVersion,
		ClientType:      clientType,
	})
}

type Resolver interface {
	// Resolve returns ErrUnsupported when the subscription has no usable
	// visual voicemail configuration. Other errors come from the config source.
	Resolve(ctx context.Context, subscriptionID string) (*Profile, error)
}

type resolver struct {
	source ConfigSource
}

func NewResolver(source ConfigSource) Resolver {
	return &resolver{source: source}
}

func (r *resolver) Resolve(ctx context.Context, subscriptionID string) (*Profile, error) {
	bundle, err := r.source.Bundle(ctx, subscriptionID)
	if errors.Is(err, ErrBundleNotFound) {
		return nil, fmt.Errorf("%w: %v", ErrUnsupported, err)
	}
	if err != nil {
		return nil, err
	}

	vvmType := bundle.String(KeyVVMType)
	protocol, err := omtp.ProtocolFor(vvmType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupported, err)
	}

	destination := bundle.String(KeyDestinationNumber)
	if destination == "" {
		return nil, fmt.Errorf("%w: empty destination number", ErrUnsupported)
	}

	prefix := bundle.String(KeyClientPrefix)
	if prefix == "" {
		prefix = omtp.DefaultClientPrefix
	}

	version := bundle.String(KeyProtocolVersion)
	if version == "" {
		version = omtp.ProtocolVersion11
	}

	return &Profile{
		SubscriptionID:       subscriptionID,
		VVMType:              vvmType,
		Destination:          destination,
		Port:                 bundle.Int(KeyPortNumber),
		ClientPrefix:         prefix,
		ProtocolVersion:      version,
		SSLEnabled:           bundle.Bool(KeySSLEnabled, false),
		CellularDataRequired: bundle.Bool(KeyCellularDataRequired, false),
		Prefetch:             bundle.Bool(KeyPrefetch, true),
		Protocol:             protocol,
	}, nil
}
