package main

import (
	"context"

	"github.com/Behyna/vvm-service/internal/api"
	"github.com/Behyna/vvm-service/internal/api/middleware"
	"github.com/Behyna/vvm-service/internal/carrier"
	"github.com/Behyna/vvm-service/internal/config"
	"github.com/Behyna/vvm-service/internal/consumers"
	"github.com/Behyna/vvm-service/internal/database"
	"github.com/Behyna/vvm-service/internal/metrics"
	"github.com/Behyna/vvm-service/internal/publishers"
	"github.com/Behyna/vvm-service/internal/repository"
	"github.com/Behyna/vvm-service/internal/service"
	"github.com/Behyna/vvm-service/pkg/httpclient"
	"github.com/Behyna/vvm-service/pkg/mq"
	"github.com/Behyna/vvm-service/pkg/smsprovider"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var version = "dev"

func main() {
	fx.New(
		fx.Provide(
			config.Load,
			zap.NewProduction,
			database.NewConnection,
			NewMQConnection,
			NewMQPublisher,
			fx.Annotate(NewRegistry,
				fx.As(new(prometheus.Registerer)),
				fx.As(new(prometheus.Gatherer))),
			metrics.NewMetrics,

			repository.NewStatusRepository,
			repository.NewSourceRepository,
			repository.NewEventLogRepository,
			repository.NewTransactionManager,

			NewCarrierSource,
			carrier.NewResolver,

			NewSMSProvider,
			service.NewSMSSender,
			NewSubscriber,

			fx.Annotate(publishers.NewPlatformPublisher,
				fx.As(new(service.SyncTrigger)),
				fx.As(new(service.StatusNotifier))),

			service.NewEventHandler,
			service.NewSMSDispatcher,
			NewSMSReceiver,
			service.NewStatusFetcher,
			NewDeviceState,
			service.NewScheduler,
			service.NewRetryPolicy,
			service.NewVvm3Provisioner,
			service.NewActivationService,
			service.NewTriggerService,
			service.NewActivationGauges,

			NewConsumers,
		),
		fx.Invoke(runWorker),
	).Run()
}

func runWorker(cfg *config.Config, workers []consumers.Consumer, rabbit *mq.RabbitMQ, db *gorm.DB,
	activation service.ActivationService, scheduler service.Scheduler, state metrics.StateSource, m *metrics.Metrics, gatherer prometheus.Gatherer, logger *zap.Logger,
	shutdowner fx.Shutdowner, lc fx.Lifecycle) {
	appCtx, cancel := context.WithCancel(context.Background())

	app := fiber.New(fiber.Config{AppName: "vvm-worker-activation", ErrorHandler: middleware.ErrorHandler()})
	app.Use(middleware.HealthCheckMiddleware("vvm-worker-activation"))
	api.SetupMetricsRoute(app, gatherer)

	stateCollector := metrics.NewStateCollector(m, state, logger)
	dbCollector := metrics.NewDatabaseMetricsCollector(m, logger, db)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := rabbit.DeclareTopology(cfg.RabbitMQ.Queues.All()); err != nil {
				logger.Error("declare topology failed", zap.Error(err))
				return err
			}
			if err := database.Migrate(db); err != nil {
				logger.Error("migration failed", zap.Error(err))
				return err
			}

			restored, err := activation.RestoreFilters(ctx)
			if err != nil {
				logger.Error("restore sms filters failed", zap.Error(err))
				return err
			}
			logger.Info("sms filters restored", zap.Int("count", restored))

			for _, worker := range workers {
				worker := worker
				go func() {
					if err := worker.Consume(appCtx); err != nil && appCtx.Err() == nil {
						logger.Error("consumer exited", zap.String("queue", worker.Queue()), zap.Error(err))
						_ = shutdowner.Shutdown(fx.ExitCode(1))
					}
				}()
				logger.Info("consumer started", zap.String("queue", worker.Queue()))
			}

			stateCollector.Start(cfg.Metrics.StateInterval, version)
			dbCollector.Start(cfg.Metrics.DatabaseInterval)

			go func() {
				if err := app.Listen(cfg.Metrics.Port); err != nil {
					logger.Error("metrics server exited", zap.Error(err))
				}
			}()

			logger.Info("activation worker started")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping activation worker")
			cancel()
			scheduler.Stop()
			stateCollector.Stop()
			dbCollector.Stop()
			_ = app.ShutdownWithContext(ctx)
			return rabbit.Close()
		},
	})
}

// NewConsumers gives every queue its own channel so prefetch applies per queue.
func NewConsumers(cfg *config.Config, activation service.ActivationService, triggers service.TriggerService,
	rabbit *mq.RabbitMQ, logger *zap.Logger) ([]consumers.Consumer, error) {
	builders := []func(mq.Consumer) consumers.Consumer{
		func(c mq.Consumer) consumers.Consumer {
			return consumers.NewActivationConsumer(activation, c, cfg, logger)
		},
		func(c mq.Consumer) consumers.Consumer {
			return consumers.NewSourceRemovedConsumer(activation, c, cfg, logger)
		},
		func(c mq.Consumer) consumers.Consumer {
			return consumers.NewInboundSMSConsumer(triggers, c, cfg, logger)
		},
		func(c mq.Consumer) consumers.Consumer {
			return consumers.NewDeviceConsumer(triggers, c, cfg, logger)
		},
		func(c mq.Consumer) consumers.Consumer {
			return consumers.NewSyncResultConsumer(triggers, c, cfg, logger)
		},
	}

	result := make([]consumers.Consumer, 0, len(builders))
	for _, build := range builders {
		c, err := rabbit.CreateConsumer()
		if err != nil {
			return nil, err
		}
		result = append(result, build(c))
	}
	return result, nil
}

func NewCarrierSource(cfg *config.Config) carrier.ConfigSource {
	return carrier.NewFileSource(cfg.Carriers.Path)
}

func NewSMSProvider(cfg *config.Config) smsprovider.Provider {
	client := httpclient.NewHTTPClient(cfg.SMSProvider.Timeout, smsprovider.ClientOptions(cfg.SMSProvider)...)
	return smsprovider.NewSMSProvider(cfg.SMSProvider, client)
}

func NewSubscriber(cfg *config.Config, logger *zap.Logger) service.Subscriber {
	return service.NewSubscriber(httpclient.NewHTTPClient(cfg.SMSProvider.Timeout), logger)
}

func NewSMSReceiver(dispatcher service.SMSDispatcher) service.SMSReceiver {
	return dispatcher
}

func NewDeviceState(cfg *config.Config) service.DeviceState {
	return service.NewDeviceState(cfg.Device.Provisioned)
}

func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func NewMQConnection(cfg *config.Config, logger *zap.Logger) (*mq.RabbitMQ, error) {
	mqConfig := cfg.RabbitMQ.Config
	if mqConfig.ConnectionName == "" {
		mqConfig.ConnectionName = "vvm-worker-activation"
	}
	return mq.NewConnection(mqConfig, logger)
}

func NewMQPublisher(rabbitMQ *mq.RabbitMQ) (mq.Publisher, error) {
	return rabbitMQ.CreatePublisher()
}
