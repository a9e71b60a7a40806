package mocks

import (
	"context"

	"github.com/Behyna/vvm-service/internal/model"
	"github.com/stretchr/testify/mock"
)

type StatusRepository struct {
	mock.Mock
}

func (m *StatusRepository) Get(ctx context.Context, accountID string) (*model.StatusRecord, error) {
	args := m.Called(ctx, accountID)
	record, _ := args.Get(0).(*model.StatusRecord)
	return record, args.Error(1)
}

func (m *StatusRepository) Update(ctx context.Context, record *model.StatusRecord, columns []string) error {
	args := m.Called(ctx, record, columns)
	return args.Error(0)
}
