package model

import "time"

// EventLog is an append-only trail of the events applied to an account.
type EventLog struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;<-:create" json:"id"`
	AccountID string    `gorm:"type:varchar(191);not null;index:idx_event_log_account" json:"account_id"`
	AttemptID *string   `gorm:"type:varchar(36);null" json:"attempt_id,omitempty"`
	Event     string    `gorm:"type:varchar(64);not null" json:"event"`
	EventType string    `gorm:"type:varchar(32);not null" json:"event_type"`
	Success   bool      `gorm:"not null" json:"success"`
	Deferred  bool      `gorm:"default:false;not null" json:"deferred"`
	CreatedAt time.Time `gorm:"type:timestamp;default:CURRENT_TIMESTAMP" json:"created_at"`
}
