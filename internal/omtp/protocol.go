package omtp

import (
	"context"
	"fmt"
)

// Protocol is one wire dialect of the OMTP family.
type Protocol interface {
	Name() string
	CreateMessageSender(p SenderParams) MessageSender
	SupportsProvisioning() bool
	StartActivation(ctx context.Context, sender MessageSender) error
	StartDeactivation(ctx context.Context, sender MessageSender) error
	RequestStatus(ctx context.Context, sender MessageSender) error
}

func ProtocolFor(vvmType string) (Protocol, error) {
	switch vvmType {
	case VVMTypeOMTP:
		return standardProtocol{}, nil
	case VVMTypeCVVM:
		return cvvmProtocol{}, nil
	case VVMTypeVVM3:
		return vvm3Protocol{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProtocol, vvmType)
	}
}

type baseProtocol struct{}

func (baseProtocol) SupportsProvisioning() bool { return false }

func (baseProtocol) StartActivation(ctx context.Context, sender MessageSender) error {
	return sender.RequestActivation(ctx)
}

func (baseProtocol) StartDeactivation(ctx context.Context, sender MessageSender) error {
	return sender.RequestDeactivation(ctx)
}

func (baseProtocol) RequestStatus(ctx context.Context, sender MessageSender) error {
	return sender.RequestStatus(ctx)
}

type standardProtocol struct{ baseProtocol }

func (standardProtocol) Name() string { return VVMTypeOMTP }

func (standardProtocol) CreateMessageSender(p SenderParams) MessageSender {
	return NewStandardSender(p)
}

type cvvmProtocol struct{ baseProtocol }

func (cvvmProtocol) Name() string { return VVMTypeCVVM }

func (cvvmProtocol) CreateMessageSender(p SenderParams) MessageSender {
	return NewCvvmSender(p)
}

type vvm3Protocol struct{ baseProtocol }

func (vvm3Protocol) Name() string { return VVMTypeVVM3 }

func (vvm3Protocol) CreateMessageSender(p SenderParams) MessageSender {
	return NewVvm3Sender(p)
}

func (vvm3Protocol) SupportsProvisioning() bool { return true }
