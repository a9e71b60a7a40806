package mocks

import (
	"context"

	"github.com/Behyna/vvm-service/internal/model"
	"github.com/stretchr/testify/mock"
)

type SourceRepository struct {
	mock.Mock
}

func (m *SourceRepository) Get(ctx context.Context, accountID string) (*model.VoicemailSource, error) {
	args := m.Called(ctx, accountID)
	source, _ := args.Get(0).(*model.VoicemailSource)
	return source, args.Error(1)
}

func (m *SourceRepository) IsActive(ctx context.Context, accountID string) (bool, error) {
	args := m.Called(ctx, accountID)
	return args.Bool(0), args.Error(1)
}

func (m *SourceRepository) ListActive(ctx context.Context) ([]model.VoicemailSource, error) {
	args := m.Called(ctx)
	sources, _ := args.Get(0).([]model.VoicemailSource)
	return sources, args.Error(1)
}

func (m *SourceRepository) Activate(ctx context.Context, source *model.VoicemailSource) error {
	args := m.Called(ctx, source)
	return args.Error(0)
}

func (m *SourceRepository) Deactivate(ctx context.Context, accountID string) error {
	args := m.Called(ctx, accountID)
	return args.Error(0)
}

func (m *SourceRepository) DisableIndicatorCheck(ctx context.Context, accountID string) error {
	args := m.Called(ctx, accountID)
	return args.Error(0)
}
