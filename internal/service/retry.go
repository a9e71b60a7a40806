package service

import (
	"time"

	"github.com/Behyna/vvm-service/internal/config"
)

// RetryPolicy reschedules failed activation attempts a bounded number of times.
type RetryPolicy interface {
	HasMoreRetries(retryCount int) bool
	// Retry schedules run with the next attempt of cmd. One-shot data carried
	// by cmd is dropped so the retry fetches a fresh STATUS SMS. cancel drops
	// the scheduled attempt.
	Retry(cmd ActivateCommand, run func(next ActivateCommand)) (cancel func(), ok bool)
	Interval() time.Duration
}

type retryPolicy struct {
	maxRetries int
	interval   time.Duration
	scheduler  Scheduler
}

func NewRetryPolicy(cfg *config.Config, scheduler Scheduler) RetryPolicy {
	return &retryPolicy{
		maxRetries: cfg.Activation.MaxRetries,
		interval:   cfg.Activation.RetryInterval,
		scheduler:  scheduler,
	}
}

func (p *retryPolicy) HasMoreRetries(retryCount int) bool {
	return retryCount < p.maxRetries
}

func (p *retryPolicy) Retry(cmd ActivateCommand, run func(next ActivateCommand)) (func(), bool) {
	next := ActivateCommand{
		AccountID:      cmd.AccountID,
		SubscriptionID: cmd.SubscriptionID,
		RetryCount:     cmd.RetryCount + 1,
	}
	return p.scheduler.Schedule(p.interval, func() { run(next) })
}

func (p *retryPolicy) Interval() time.Duration {
	return p.interval
}
