package service

import "github.com/Behyna/vvm-service/internal/metrics"

type activationGauges struct {
	scheduler  Scheduler
	activation ActivationService
}

func NewActivationGauges(scheduler Scheduler, activation ActivationService) metrics.StateSource {
	return &activationGauges{scheduler: scheduler, activation: activation}
}

func (g *activationGauges) PendingRetries() int {
	return g.scheduler.Pending()
}

func (g *activationGauges) DeferredActivations() int {
	return g.activation.Deferred()
}
