package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Behyna/vvm-service/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrSourceNotFound = errors.New("SOURCE_NOT_FOUND")

type SourceRepository interface {
	Get(ctx context.Context, accountID string) (*model.VoicemailSource, error)
	IsActive(ctx context.Context, accountID string) (bool, error)
	ListActive(ctx context.Context) ([]model.VoicemailSource, error)
	// Activate stores the source with its credentials and marks it active.
	Activate(ctx context.Context, source *model.VoicemailSource) error
	Deactivate(ctx context.Context, accountID string) error
	DisableIndicatorCheck(ctx context.Context, accountID string) error
}

type Source struct {
	db *gorm.DB
}

func NewSourceRepository(db *gorm.DB) SourceRepository {
	return &Source{db: db}
}

func (s *Source) Get(ctx context.Context, accountID string) (*model.VoicemailSource, error) {
	var source model.VoicemailSource

	err := GetTx(ctx, s.db).Where("account_id = ?", accountID).First(&source).Error
	if err == nil {
		return &source, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSourceNotFound
	}

	return nil, err
}

func (s *Source) IsActive(ctx context.Context, accountID string) (bool, error) {
	var count int64

	err := GetTx(ctx, s.db).Model(&model.VoicemailSource{}).
		Where("account_id = ? AND active = ?", accountID, true).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (s *Source) ListActive(ctx context.Context) ([]model.VoicemailSource, error) {
	var sources []model.VoicemailSource

	err := GetTx(ctx, s.db).Where("active = ?", true).Order("account_id").Find(&sources).Error
	if err != nil {
		return nil, err
	}

	return sources, nil
}

func (s *Source) Activate(ctx context.Context, source *model.VoicemailSource) error {
	now := time.Now().UTC()
	source.Active = true
	source.ActivatedAt = &now

	return GetTx(ctx, s.db).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "account_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"subscription_id",
			"source_type",
			"active",
			"server_address",
			"imap_port",
			"imap_username",
			"imap_password",
			"smtp_port",
			"smtp_username",
			"smtp_password",
			"tui_number",
			"client_sms_destination",
			"subscription_url",
			"ssl_enabled",
			"cellular_data_required",
			"prefetch",
			"activated_at",
			"updated_at",
		}),
	}).Create(source).Error
}

func (s *Source) Deactivate(ctx context.Context, accountID string) error {
	return GetTx(ctx, s.db).Model(&model.VoicemailSource{}).
		Where("account_id = ?", accountID).
		Updates(map[string]interface{}{"active": false, "activated_at": nil}).Error
}

// DisableIndicatorCheck creates the row when the account was never activated.
func (s *Source) DisableIndicatorCheck(ctx context.Context, accountID string) error {
	source := model.VoicemailSource{AccountID: accountID, IndicatorCheckDisabled: true}

	return GetTx(ctx, s.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "account_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"indicator_check_disabled": true}),
	}).Create(&source).Error
}
