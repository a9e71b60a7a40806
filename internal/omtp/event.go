package omtp

import "fmt"

type EventType int

const (
	TypeConfiguration EventType = iota
	TypeDataChannel
	TypeNotificationChannel
	TypeOther
)

func (t EventType) String() string {
	switch t {
	case TypeConfiguration:
		return "CONFIGURATION"
	case TypeDataChannel:
		return "DATA_CHANNEL"
	case TypeNotificationChannel:
		return "NOTIFICATION_CHANNEL"
	case TypeOther:
		return "OTHER"
	default:
		return fmt.Sprintf("EventType(%d)", int(t))
	}
}

// Event is an internal signal that drives the per-account channel status.
type Event int

const (
	ConfigActivating Event = iota + 1
	ConfigActivatingSubsequent
	ConfigRequestStatusSuccess
	ConfigPinSet
	ConfigDefaultPinReplaced
	ConfigStatusSmsTimeOut
	ConfigServiceNotAvailable
	ConfigCarrierUnsupported

	DataImapOperationStarted
	DataImapOperationCompleted
	DataInvalidPort
	DataNoConnection
	DataNoConnectionCellularRequired
	DataCannotResolveHostOnNetwork
	DataSslInvalidHostName
	DataCannotEstablishSslSession
	DataIoeOnOpen
	DataBadImapCredential
	DataAuthUnknownUser
	DataAuthBadPassword
	DataAuthMailboxNotInitialized
	DataAuthServiceNotProvisioned
	DataAuthServiceNotActivated
	DataAuthUserIsBlocked
	DataRejectedServerResponse
	DataInvalidInitialServerResponse
	DataMailboxOpenFailed
	DataSslException
	DataAllSocketConnectionFailed

	NotificationInService
	NotificationServiceLost

	OtherSourceRemoved

	lastEvent
)

type eventInfo struct {
	name    string
	typ     EventType
	success bool
}

var events = map[Event]eventInfo{
	ConfigActivating:           {"CONFIG_ACTIVATING", TypeConfiguration, true},
	ConfigActivatingSubsequent: {"CONFIG_ACTIVATING_SUBSEQUENT", TypeConfiguration, true},
	ConfigRequestStatusSuccess: {"CONFIG_REQUEST_STATUS_SUCCESS", TypeConfiguration, true},
	ConfigPinSet:               {"CONFIG_PIN_SET", TypeConfiguration, true},
	ConfigDefaultPinReplaced:   {"CONFIG_DEFAULT_PIN_REPLACED", TypeConfiguration, true},
	ConfigStatusSmsTimeOut:     {"CONFIG_STATUS_SMS_TIME_OUT", TypeConfiguration, false},
	ConfigServiceNotAvailable:  {"CONFIG_SERVICE_NOT_AVAILABLE", TypeConfiguration, false},
	ConfigCarrierUnsupported:   {"CONFIG_CARRIER_UNSUPPORTED", TypeConfiguration, false},

	DataImapOperationStarted:         {"DATA_IMAP_OPERATION_STARTED", TypeDataChannel, true},
	DataImapOperationCompleted:       {"DATA_IMAP_OPERATION_COMPLETED", TypeDataChannel, true},
	DataInvalidPort:                  {"DATA_INVALID_PORT", TypeDataChannel, false},
	DataNoConnection:                 {"DATA_NO_CONNECTION", TypeDataChannel, false},
	DataNoConnectionCellularRequired: {"DATA_NO_CONNECTION_CELLULAR_REQUIRED", TypeDataChannel, false},
	DataCannotResolveHostOnNetwork:   {"DATA_CANNOT_RESOLVE_HOST_ON_NETWORK", TypeDataChannel, false},
	DataSslInvalidHostName:           {"DATA_SSL_INVALID_HOST_NAME", TypeDataChannel, false},
	DataCannotEstablishSslSession:    {"DATA_CANNOT_ESTABLISH_SSL_SESSION", TypeDataChannel, false},
	DataIoeOnOpen:                    {"DATA_IOE_ON_OPEN", TypeDataChannel, false},
	DataBadImapCredential:            {"DATA_BAD_IMAP_CREDENTIAL", TypeDataChannel, false},
	DataAuthUnknownUser:              {"DATA_AUTH_UNKNOWN_USER", TypeDataChannel, false},
	DataAuthBadPassword:              {"DATA_AUTH_BAD_PASSWORD", TypeDataChannel, false},
	DataAuthMailboxNotInitialized:    {"DATA_AUTH_MAILBOX_NOT_INITIALIZED", TypeDataChannel, false},
	DataAuthServiceNotProvisioned:    {"DATA_AUTH_SERVICE_NOT_PROVISIONED", TypeDataChannel, false},
	DataAuthServiceNotActivated:      {"DATA_AUTH_SERVICE_NOT_ACTIVATED", TypeDataChannel, false},
	DataAuthUserIsBlocked:            {"DATA_AUTH_USER_IS_BLOCKED", TypeDataChannel, false},
	DataRejectedServerResponse:       {"DATA_REJECTED_SERVER_RESPONSE", TypeDataChannel, false},
	DataInvalidInitialServerResponse: {"DATA_INVALID_INITIAL_SERVER_RESPONSE", TypeDataChannel, false},
	DataMailboxOpenFailed:            {"DATA_MAILBOX_OPEN_FAILED", TypeDataChannel, false},
	DataSslException:                 {"DATA_SSL_EXCEPTION", TypeDataChannel, false},
	DataAllSocketConnectionFailed:    {"DATA_ALL_SOCKET_CONNECTION_FAILED", TypeDataChannel, false},

	NotificationInService:   {"NOTIFICATION_IN_SERVICE", TypeNotificationChannel, true},
	NotificationServiceLost: {"NOTIFICATION_SERVICE_LOST", TypeNotificationChannel, false},

	OtherSourceRemoved: {"OTHER_SOURCE_REMOVED", TypeOther, false},
}

var eventsByName = func() map[string]Event {
	m := make(map[string]Event, len(events))
	for e, info := range events {
		m[info.name] = e
	}
	return m
}()

func (e Event) Type() EventType {
	return e.info().typ
}

func (e Event) IsSuccess() bool {
	return e.info().success
}

func (e Event) Valid() bool {
	_, ok := events[e]
	return ok
}

func (e Event) String() string {
	if info, ok := events[e]; ok {
		return info.name
	}
	return fmt.Sprintf("Event(%d)", int(e))
}

func (e Event) info() eventInfo {
	info, ok := events[e]
	if !ok {
		panic(fmt.Sprintf("omtp: unknown event %d", int(e)))
	}
	return info
}

func (e Event) MarshalText() ([]byte, error) {
	if !e.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownEvent, int(e))
	}
	return []byte(e.String()), nil
}

func (e *Event) UnmarshalText(text []byte) error {
	parsed, err := ParseEvent(string(text))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

func ParseEvent(name string) (Event, error) {
	e, ok := eventsByName[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownEvent, name)
	}
	return e, nil
}

// AllEvents lists every defined event in declaration order.
func AllEvents() []Event {
	all := make([]Event, 0, len(events))
	for e := ConfigActivating; e < lastEvent; e++ {
		all = append(all, e)
	}
	return all
}
