package service

import (
	"context"

	"github.com/Behyna/vvm-service/internal/model"
	"github.com/Behyna/vvm-service/internal/repository"
	"go.uber.org/zap"
)

const maxEventLogLimit = 100

type StatusQueryService interface {
	GetStatus(ctx context.Context, accountID string) (*model.StatusRecord, error)
	ListEvents(ctx context.Context, accountID string, limit int) ([]model.EventLog, error)
}

type statusQuery struct {
	statusRepo   repository.StatusRepository
	eventLogRepo repository.EventLogRepository
	logger       *zap.Logger
}

func NewStatusQueryService(statusRepo repository.StatusRepository, eventLogRepo repository.EventLogRepository,
	logger *zap.Logger) StatusQueryService {
	return &statusQuery{statusRepo: statusRepo, eventLogRepo: eventLogRepo, logger: logger}
}

func (s *statusQuery) GetStatus(ctx context.Context, accountID string) (*model.StatusRecord, error) {
	record, err := s.statusRepo.Get(ctx, accountID)
	if err != nil {
		s.logger.Error("Failed to load status", zap.String("accountID", accountID), zap.Error(err))
		return nil, NewServiceError(ErrCodeDatabase, err)
	}
	return record, nil
}

func (s *statusQuery) ListEvents(ctx context.Context, accountID string, limit int) ([]model.EventLog, error) {
	if limit <= 0 || limit > maxEventLogLimit {
		limit = maxEventLogLimit
	}

	logs, err := s.eventLogRepo.ListByAccount(ctx, accountID, limit)
	if err != nil {
		s.logger.Error("Failed to load event log", zap.String("accountID", accountID), zap.Error(err))
		return nil, NewServiceError(ErrCodeDatabase, err)
	}
	return logs, nil
}
