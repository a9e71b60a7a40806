package service

import (
	"context"

	"github.com/Behyna/vvm-service/internal/model"
)

// SyncTrigger hands work to the voicemail sync engine.
type SyncTrigger interface {
	RequestSync(ctx context.Context, req SyncRequest) error
	ClearMessageWaiting(ctx context.Context, cmd ClearMessageWaitingCommand) error
}

// StatusNotifier is told about every persisted status record.
type StatusNotifier interface {
	StatusChanged(ctx context.Context, record *model.StatusRecord) error
}
