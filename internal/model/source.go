package model

import "time"

// VoicemailSource is the registration of an account with the voicemail
// server, including the credentials returned in the STATUS SMS.
type VoicemailSource struct {
	AccountID              string     `gorm:"primaryKey;column:account_id;type:varchar(191)"`
	SubscriptionID         string     `gorm:"column:subscription_id;type:varchar(64);index"`
	SourceType             string     `gorm:"column:source_type;type:varchar(64)"`
	Active                 bool       `gorm:"column:active;default:false;not null"`
	IndicatorCheckDisabled bool       `gorm:"column:indicator_check_disabled;default:false;not null"`
	ServerAddress          string     `gorm:"column:server_address"`
	IMAPPort               string     `gorm:"column:imap_port"`
	IMAPUserName           string     `gorm:"column:imap_username"`
	IMAPPassword           string     `gorm:"column:imap_password"`
	SMTPPort               string     `gorm:"column:smtp_port"`
	SMTPUserName           string     `gorm:"column:smtp_username"`
	SMTPPassword           string     `gorm:"column:smtp_password"`
	TUINumber              string     `gorm:"column:tui_number"`
	ClientSMSDest          string     `gorm:"column:client_sms_destination"`
	SubscriptionURL        string     `gorm:"column:subscription_url"`
	SSLEnabled             bool       `gorm:"column:ssl_enabled;default:false;not null"`
	CellularDataRequired   bool       `gorm:"column:cellular_data_required;default:false;not null"`
	Prefetch               bool       `gorm:"column:prefetch;not null"`
	ActivatedAt            *time.Time `gorm:"column:activated_at"`
	CreatedAt              time.Time  `gorm:"column:created_at"`
	UpdatedAt              time.Time  `gorm:"column:updated_at"`
}
