package metrics

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/Behyna/vvm-service/internal/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DatabaseMetricsCollector exports pool stats and how many accounts sit in
// each configuration state.
type DatabaseMetricsCollector struct {
	metrics  *Metrics
	logger   *zap.Logger
	db       *gorm.DB
	sqlDB    *sql.DB
	stopCh   chan struct{}
	stopOnce sync.Once
}

type stateCount struct {
	State string
	Total int64
}

func NewDatabaseMetricsCollector(metrics *Metrics, logger *zap.Logger, db *gorm.DB) *DatabaseMetricsCollector {
	sqlDB, err := db.DB()
	if err != nil {
		logger.Error("Failed to get sql.DB from gorm.DB", zap.Error(err))
		metrics.RecordDBConnectionError()
	}

	return &DatabaseMetricsCollector{
		metrics: metrics,
		logger:  logger,
		db:      db,
		sqlDB:   sqlDB,
		stopCh:  make(chan struct{}),
	}
}

func (dmc *DatabaseMetricsCollector) Start(interval time.Duration) {
	if dmc.sqlDB == nil {
		dmc.logger.Warn("Cannot start database metrics collector: sqlDB is nil")
		return
	}

	go dmc.collectLoop(time.NewTicker(interval))
	dmc.logger.Info("Database metrics collector started", zap.Duration("interval", interval))
}

func (dmc *DatabaseMetricsCollector) Stop() {
	dmc.stopOnce.Do(func() { close(dmc.stopCh) })
}

func (dmc *DatabaseMetricsCollector) collectLoop(ticker *time.Ticker) {
	defer ticker.Stop()
	dmc.collect()

	for {
		select {
		case <-ticker.C:
			dmc.collect()
		case <-dmc.stopCh:
			return
		}
	}
}

func (dmc *DatabaseMetricsCollector) collect() {
	stats := dmc.sqlDB.Stats()
	dmc.metrics.DBConnectionsInUse.Set(float64(stats.InUse))
	dmc.metrics.DBConnectionsIdle.Set(float64(stats.Idle))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var rows []stateCount
	err := dmc.db.WithContext(ctx).Model(&model.StatusRecord{}).
		Select("configuration_state AS state, COUNT(*) AS total").
		Group("configuration_state").
		Scan(&rows).Error
	if err != nil {
		dmc.logger.Warn("Failed to count accounts by state", zap.Error(err))
		dmc.metrics.RecordDBConnectionError()
		return
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.State] = row.Total
	}
	dmc.metrics.UpdateAccountStates(counts)

	dmc.logger.Debug("Database stats",
		zap.Int("inUse", stats.InUse),
		zap.Int("idle", stats.Idle),
		zap.Int64("waitCount", stats.WaitCount),
		zap.Any("accountsByState", counts),
	)
}
