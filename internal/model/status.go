package model

import "time"

type ConfigurationState string

const (
	ConfigurationOK            ConfigurationState = "OK"
	ConfigurationNotConfigured ConfigurationState = "NOT_CONFIGURED"
	ConfigurationFailed        ConfigurationState = "FAILED"
)

type DataChannelState string

const (
	DataChannelOK                           DataChannelState = "OK"
	DataChannelNoConnection                 DataChannelState = "NO_CONNECTION"
	DataChannelNoConnectionCellularRequired DataChannelState = "NO_CONNECTION_CELLULAR_REQUIRED"
	DataChannelServerConnectionError        DataChannelState = "SERVER_CONNECTION_ERROR"
	DataChannelCommunicationError           DataChannelState = "COMMUNICATION_ERROR"
	DataChannelBadConfiguration             DataChannelState = "BAD_CONFIGURATION"
	DataChannelServerError                  DataChannelState = "SERVER_ERROR"
)

type NotificationChannelState string

const (
	NotificationChannelOK           NotificationChannelState = "OK"
	NotificationChannelNoConnection NotificationChannelState = "NO_CONNECTION"
)

const QuotaUnavailable = -1

// StatusRecord is the voicemail status of one account. Channel fields are
// only written through the event handler.
type StatusRecord struct {
	AccountID                string                   `gorm:"primaryKey;column:account_id;type:varchar(191)" json:"account_id"`
	SourceType               string                   `gorm:"column:source_type;type:varchar(64)" json:"source_type"`
	ConfigurationState       ConfigurationState       `gorm:"column:configuration_state;type:varchar(32);not null" json:"configuration_state"`
	DataChannelState         DataChannelState         `gorm:"column:data_channel_state;type:varchar(48);not null" json:"data_channel_state"`
	NotificationChannelState NotificationChannelState `gorm:"column:notification_channel_state;type:varchar(32);not null" json:"notification_channel_state"`
	QuotaOccupied            int                      `gorm:"column:quota_occupied;not null" json:"quota_occupied"`
	QuotaTotal               int                      `gorm:"column:quota_total;not null" json:"quota_total"`
	UpdatedAt                time.Time                `gorm:"column:updated_at" json:"updated_at"`
}

// NewStatusRecord returns the state of an account that has never been seen.
func NewStatusRecord(accountID string) *StatusRecord {
	return &StatusRecord{
		AccountID:                accountID,
		ConfigurationState:       ConfigurationNotConfigured,
		DataChannelState:         DataChannelNoConnection,
		NotificationChannelState: NotificationChannelNoConnection,
		QuotaOccupied:            QuotaUnavailable,
		QuotaTotal:               QuotaUnavailable,
	}
}

func (r *StatusRecord) HasQuota() bool {
	return r.QuotaOccupied != QuotaUnavailable && r.QuotaTotal != QuotaUnavailable
}
