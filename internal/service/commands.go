package service

// ActivateCommand starts an activation attempt. Status carries the fields of
// a STATUS SMS that already arrived; retries always drop it.
type ActivateCommand struct {
	AccountID      string            `json:"account_id"`
	SubscriptionID string            `json:"subscription_id"`
	Status         map[string]string `json:"status,omitempty"`
	RetryCount     int               `json:"retry_count"`
}

type InboundSMSCommand struct {
	AccountID      string `json:"account_id"`
	SubscriptionID string `json:"subscription_id"`
	Payload        string `json:"payload"`
}

const (
	DeviceEventProvisioned  = "provisioned"
	DeviceEventServiceState = "service_state"
)

type DeviceEventCommand struct {
	Kind           string `json:"kind"`
	AccountID      string `json:"account_id,omitempty"`
	SubscriptionID string `json:"subscription_id,omitempty"`
	InService      bool   `json:"in_service"`
}

type RemoveSourceCommand struct {
	AccountID      string `json:"account_id"`
	SubscriptionID string `json:"subscription_id"`
}

// SyncResultCommand is reported by the sync engine after an IMAP operation.
type SyncResultCommand struct {
	AccountID     string `json:"account_id"`
	Event         string `json:"event"`
	QuotaOccupied *int   `json:"quota_occupied,omitempty"`
	QuotaTotal    *int   `json:"quota_total,omitempty"`
}

const (
	SyncKindFull       = "full"
	SyncKindNewMessage = "new_message"
)

type SyncRequest struct {
	AccountID      string `json:"account_id"`
	SubscriptionID string `json:"subscription_id"`
	Kind           string `json:"kind"`
	MessageID      string `json:"message_id,omitempty"`
}

type ClearMessageWaitingCommand struct {
	AccountID      string `json:"account_id"`
	SubscriptionID string `json:"subscription_id"`
}
