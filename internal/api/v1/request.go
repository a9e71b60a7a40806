package v1

type ActivateRequest struct {
	AccountID      string            `json:"account_id" validate:"required,max=191"`
	SubscriptionID string            `json:"subscription_id" validate:"required,subscription"`
	Status         map[string]string `json:"status,omitempty"`
}

type InboundSMSRequest struct {
	AccountID      string `json:"account_id" validate:"required,max=191"`
	SubscriptionID string `json:"subscription_id" validate:"required,subscription"`
	Payload        string `json:"payload" validate:"required,max=1024"`
}

type ServiceStateRequest struct {
	AccountID      string `json:"account_id" validate:"required,max=191"`
	SubscriptionID string `json:"subscription_id" validate:"required,subscription"`
	InService      *bool  `json:"in_service" validate:"required"`
}

type SyncResultRequest struct {
	AccountID     string `json:"account_id" validate:"required,max=191"`
	Event         string `json:"event" validate:"required,sync_event"`
	QuotaOccupied *int   `json:"quota_occupied,omitempty" validate:"omitempty,min=0"`
	QuotaTotal    *int   `json:"quota_total,omitempty" validate:"omitempty,min=0"`
}
