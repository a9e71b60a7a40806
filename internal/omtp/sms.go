package omtp

import (
	"fmt"
	"strconv"
	"strings"
)

// Message is an inbound visual voicemail SMS split into its parts, e.g.
// "//VVM:STATUS:st=R;rc=0" has Type STATUS and two fields.
type Message struct {
	Prefix string
	Type   string
	Fields map[string]string
}

// ParseMessage splits payload when it starts with clientPrefix. A payload from
// another application returns ErrNotVisualVoicemail.
func ParseMessage(clientPrefix, payload string) (Message, error) {
	if clientPrefix == "" {
		clientPrefix = DefaultClientPrefix
	}

	rest, ok := strings.CutPrefix(payload, clientPrefix+partSeparator)
	if !ok {
		return Message{}, ErrNotVisualVoicemail
	}

	typ, body, ok := strings.Cut(rest, partSeparator)
	if !ok || typ == "" {
		return Message{}, fmt.Errorf("%w: missing message type", ErrMalformedMessage)
	}

	fields, err := parseFields(body)
	if err != nil {
		return Message{}, err
	}

	return Message{Prefix: clientPrefix, Type: typ, Fields: fields}, nil
}

func parseFields(body string) (map[string]string, error) {
	fields := make(map[string]string)
	for _, part := range strings.Split(body, fieldSeparator) {
		if part == "" {
			continue
		}
		key, value, ok := strings.Cut(part, keyValueSep)
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: field %q", ErrMalformedMessage, part)
		}
		fields[key] = value
	}
	return fields, nil
}

// StatusMessage is the carrier's reply to a status or activation request.
type StatusMessage struct {
	ProvisioningStatus string
	ReturnCode         string
	SubscriptionURL    string
	ServerAddress      string
	TUINumber          string
	ClientSMSDest      string
	IMAPPort           string
	IMAPUserName       string
	IMAPPassword       string
	SMTPPort           string
	SMTPUserName       string
	SMTPPassword       string
}

func NewStatusMessage(fields map[string]string) StatusMessage {
	return StatusMessage{
		ProvisioningStatus: fields[FieldProvisioningStatus],
		ReturnCode:         fields[FieldReturnCode],
		SubscriptionURL:    fields[FieldSubscriptionURL],
		ServerAddress:      fields[FieldServerAddress],
		TUINumber:          fields[FieldTUINumber],
		ClientSMSDest:      fields[FieldClientSMSDest],
		IMAPPort:           fields[FieldIMAPPort],
		IMAPUserName:       fields[FieldIMAPUserName],
		IMAPPassword:       fields[FieldIMAPPassword],
		SMTPPort:           fields[FieldSMTPPort],
		SMTPUserName:       fields[FieldSMTPUserName],
		SMTPPassword:       fields[FieldSMTPPassword],
	}
}

func (m StatusMessage) IsReady() bool {
	return m.ProvisioningStatus == ProvisioningReady
}

func (m StatusMessage) IsNew() bool {
	return m.ProvisioningStatus == ProvisioningNew
}

func (m StatusMessage) IsSuccess() bool {
	return m.ReturnCode == ReturnCodeSuccess
}

// Valid reports whether the message carries a provisioning status at all.
func (m StatusMessage) Valid() bool {
	return m.ProvisioningStatus != ""
}

// SyncMessage notifies the client of a mailbox change.
type SyncMessage struct {
	Event         string
	MessageID     string
	ContentType   string
	Sender        string
	Timestamp     string
	MessageCount  int
	MessageLength int
}

func NewSyncMessage(fields map[string]string) SyncMessage {
	return SyncMessage{
		Event:         fields[FieldSyncEvent],
		MessageID:     fields[FieldMessageID],
		ContentType:   fields[FieldContentType],
		Sender:        fields[FieldSender],
		Timestamp:     fields[FieldTimestamp],
		MessageCount:  atoiOr(fields[FieldMessageCount], 0),
		MessageLength: atoiOr(fields[FieldMessageLength], 0),
	}
}

func atoiOr(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

