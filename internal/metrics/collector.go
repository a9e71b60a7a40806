package metrics

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// StateSource reports in-process activation state that is not visible in the database.
type StateSource interface {
	PendingRetries() int
	DeferredActivations() int
}

// StateCollector samples a StateSource on an interval and exports uptime and
// build information alongside it.
type StateCollector struct {
	metrics   *Metrics
	source    StateSource
	logger    *zap.Logger
	startTime time.Time
	stopCh    chan struct{}
	stopOnce  sync.Once
}

// NewStateCollector accepts a nil source for processes that run no activations.
func NewStateCollector(metrics *Metrics, source StateSource, logger *zap.Logger) *StateCollector {
	return &StateCollector{
		metrics:   metrics,
		source:    source,
		logger:    logger,
		startTime: time.Now(),
		stopCh:    make(chan struct{}),
	}
}

func (sc *StateCollector) Start(interval time.Duration, version string) {
	sc.metrics.SetServiceVersion(version, sc.startTime.UTC().Format(time.RFC3339))

	go sc.collectLoop(time.NewTicker(interval))
	sc.logger.Info("State metrics collector started", zap.Duration("interval", interval))
}

func (sc *StateCollector) Stop() {
	sc.stopOnce.Do(func() {
		close(sc.stopCh)
		sc.logger.Info("State metrics collector stopped")
	})
}

func (sc *StateCollector) collectLoop(ticker *time.Ticker) {
	defer ticker.Stop()
	sc.collect()

	for {
		select {
		case <-ticker.C:
			sc.collect()
		case <-sc.stopCh:
			return
		}
	}
}

func (sc *StateCollector) collect() {
	sc.metrics.ServiceUptime.Set(time.Since(sc.startTime).Seconds())

	if sc.source == nil {
		return
	}

	retries := sc.source.PendingRetries()
	deferred := sc.source.DeferredActivations()
	sc.metrics.UpdateActivationState(retries, deferred)

	sc.logger.Debug("Activation state",
		zap.Int("pendingRetries", retries),
		zap.Int("deferredActivations", deferred),
	)
}
