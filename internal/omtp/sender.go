package omtp

import (
	"context"
	"strconv"
	"strings"
)

// OutboundSMS is a single mobile originated message. A zero Port sends a
// plain text SMS, otherwise a data SMS to that application port.
type OutboundSMS struct {
	SubscriptionID string
	Destination    string
	Port           int
	Text           string
}

type SMSSender interface {
	SendSMS(ctx context.Context, sms OutboundSMS) error
}

// MessageSender encodes protocol requests and hands them to an SMSSender.
// Every call is exactly one send attempt.
type MessageSender interface {
	RequestActivation(ctx context.Context) error
	RequestDeactivation(ctx context.Context) error
	RequestStatus(ctx context.Context) error
}

type SenderParams struct {
	SMS             SMSSender
	SubscriptionID  string
	Destination     string
	Port            int
	ClientPrefix    string
	ProtocolVersion string
	ClientType      string
}

type baseSender struct {
	p SenderParams
}

func (b baseSender) send(ctx context.Context, text string) error {
	return b.p.SMS.SendSMS(ctx, OutboundSMS{
		SubscriptionID: b.p.SubscriptionID,
		Destination:    b.p.Destination,
		Port:           b.p.Port,
		Text:           text,
	})
}

type standardSender struct {
	baseSender
}

func NewStandardSender(p SenderParams) MessageSender {
	if p.ProtocolVersion == "" {
		p.ProtocolVersion = ProtocolVersion11
	}
	if p.ClientPrefix == "" {
		p.ClientPrefix = DefaultClientPrefix
	}
	return &standardSender{baseSender{p: p}}
}

func (s *standardSender) RequestActivation(ctx context.Context) error {
	return s.send(ctx, s.request(activateRequest, true))
}

func (s *standardSender) RequestDeactivation(ctx context.Context) error {
	return s.send(ctx, s.request(deactivateRequest, false))
}

func (s *standardSender) RequestStatus(ctx context.Context) error {
	return s.send(ctx, s.request(statusRequest, true))
}

func (s *standardSender) request(name string, withPort bool) string {
	var sb strings.Builder
	sb.WriteString(name)
	sb.WriteString(partSeparator)
	writeField(&sb, fieldProtocolVersion, s.p.ProtocolVersion)
	sb.WriteString(fieldSeparator)
	writeField(&sb, fieldClientType, s.p.ClientType)

	// Port and prefix were added in protocol 1.2.
	if withPort && s.p.ProtocolVersion != ProtocolVersion11 {
		sb.WriteString(fieldSeparator)
		writeField(&sb, fieldApplicationPort, strconv.Itoa(s.p.Port))
		sb.WriteString(fieldSeparator)
		sb.WriteString(s.p.ClientPrefix)
	}
	return sb.String()
}

func writeField(sb *strings.Builder, key, value string) {
	sb.WriteString(key)
	sb.WriteString(keyValueSep)
	sb.WriteString(value)
}

type cvvmSender struct {
	baseSender
}

func NewCvvmSender(p SenderParams) MessageSender {
	return &cvvmSender{baseSender{p: p}}
}

func (s *cvvmSender) RequestActivation(ctx context.Context) error {
	return s.send(ctx, activateRequest+partSeparator+cvvmDeviceType)
}

func (s *cvvmSender) RequestDeactivation(ctx context.Context) error {
	return s.send(ctx, deactivateRequest+partSeparator+cvvmDeviceType)
}

func (s *cvvmSender) RequestStatus(ctx context.Context) error {
	return s.send(ctx, statusRequest+partSeparator+cvvmDeviceType)
}

type vvm3Sender struct {
	baseSender
}

func NewVvm3Sender(p SenderParams) MessageSender {
	return &vvm3Sender{baseSender{p: p}}
}

// RequestActivation asks for status; the server replies with the provisioning state.
func (s *vvm3Sender) RequestActivation(ctx context.Context) error {
	return s.RequestStatus(ctx)
}

func (s *vvm3Sender) RequestDeactivation(ctx context.Context) error {
	return s.send(ctx, vvm3DeactivateRequest)
}

func (s *vvm3Sender) RequestStatus(ctx context.Context) error {
	return s.send(ctx, vvm3StatusRequest)
}
