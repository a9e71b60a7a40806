package v1

import (
	"time"

	"github.com/Behyna/vvm-service/internal/model"
)

type StatusResponse struct {
	AccountID                string    `json:"account_id"`
	SourceType               string    `json:"source_type,omitempty"`
	ConfigurationState       string    `json:"configuration_state"`
	DataChannelState         string    `json:"data_channel_state"`
	NotificationChannelState string    `json:"notification_channel_state"`
	QuotaOccupied            *int      `json:"quota_occupied,omitempty"`
	QuotaTotal               *int      `json:"quota_total,omitempty"`
	UpdatedAt                time.Time `json:"updated_at,omitempty"`
}

func newStatusResponse(r *model.StatusRecord) StatusResponse {
	resp := StatusResponse{
		AccountID:                r.AccountID,
		SourceType:               r.SourceType,
		ConfigurationState:       string(r.ConfigurationState),
		DataChannelState:         string(r.DataChannelState),
		NotificationChannelState: string(r.NotificationChannelState),
		UpdatedAt:                r.UpdatedAt,
	}
	if r.HasQuota() {
		occupied, total := r.QuotaOccupied, r.QuotaTotal
		resp.QuotaOccupied, resp.QuotaTotal = &occupied, &total
	}
	return resp
}

type EventResponse struct {
	Event     string    `json:"event"`
	Type      string    `json:"type"`
	Success   bool      `json:"success"`
	Deferred  bool      `json:"deferred"`
	AttemptID string    `json:"attempt_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type EventsResponse struct {
	AccountID string          `json:"account_id"`
	Events    []EventResponse `json:"events"`
}

func newEventsResponse(accountID string, logs []model.EventLog) EventsResponse {
	resp := EventsResponse{AccountID: accountID, Events: make([]EventResponse, 0, len(logs))}
	for _, l := range logs {
		e := EventResponse{
			Event:     l.Event,
			Type:      l.EventType,
			Success:   l.Success,
			Deferred:  l.Deferred,
			CreatedAt: l.CreatedAt,
		}
		if l.AttemptID != nil {
			e.AttemptID = *l.AttemptID
		}
		resp.Events = append(resp.Events, e)
	}
	return resp
}
