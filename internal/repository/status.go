package repository

import (
	"context"
	"errors"

	"github.com/Behyna/vvm-service/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StatusRepository interface {
	// Get returns the stored record, or a fresh NOT_CONFIGURED one when the
	// account has never been seen.
	Get(ctx context.Context, accountID string) (*model.StatusRecord, error)
	// Update writes only columns of record. An account without a row is
	// inserted with record as a whole.
	Update(ctx context.Context, record *model.StatusRecord, columns []string) error
}

const (
	ColumnSourceType          = "source_type"
	ColumnConfigurationState  = "configuration_state"
	ColumnDataChannelState    = "data_channel_state"
	ColumnNotificationChannel = "notification_channel_state"
	ColumnQuotaOccupied       = "quota_occupied"
	ColumnQuotaTotal          = "quota_total"
)

type Status struct {
	db *gorm.DB
}

func NewStatusRepository(db *gorm.DB) StatusRepository {
	return &Status{db: db}
}

func (s *Status) Get(ctx context.Context, accountID string) (*model.StatusRecord, error) {
	var record model.StatusRecord

	err := GetTx(ctx, s.db).Where("account_id = ?", accountID).First(&record).Error
	if err == nil {
		return &record, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.NewStatusRecord(accountID), nil
	}

	return nil, err
}

// Update leaves columns it was not asked to write untouched, so concurrent
// writers of different channels of one account do not overwrite each other.
func (s *Status) Update(ctx context.Context, record *model.StatusRecord, columns []string) error {
	if len(columns) == 0 {
		return nil
	}

	assign := append(append([]string(nil), columns...), "updated_at")

	return GetTx(ctx, s.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "account_id"}},
		DoUpdates: clause.AssignmentColumns(assign),
	}).Create(record).Error
}
