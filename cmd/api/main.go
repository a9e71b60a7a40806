package main

import (
	"context"

	"github.com/Behyna/vvm-service/internal/api"
	"github.com/Behyna/vvm-service/internal/api/middleware"
	v1 "github.com/Behyna/vvm-service/internal/api/v1"
	"github.com/Behyna/vvm-service/internal/api/validator"
	"github.com/Behyna/vvm-service/internal/config"
	"github.com/Behyna/vvm-service/internal/database"
	"github.com/Behyna/vvm-service/internal/metrics"
	"github.com/Behyna/vvm-service/internal/publishers"
	"github.com/Behyna/vvm-service/internal/repository"
	"github.com/Behyna/vvm-service/internal/service"
	"github.com/Behyna/vvm-service/pkg/mq"
	playground "github.com/go-playground/validator/v10"
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
			repository.NewEventLogRepository,
			service.NewStatusQueryService,
			publishers.NewCommandPublisher,

			NewValidate,
			validator.NewXValidator,
			v1.NewHandler,
			NewFiberApp,
		),
		fx.Invoke(startServer),
	).Run()
}

func startServer(app *fiber.App, handler *v1.Handler, cfg *config.Config, rabbit *mq.RabbitMQ, db *gorm.DB,
	m *metrics.Metrics, gatherer prometheus.Gatherer, logger *zap.Logger, lc fx.Lifecycle) {
	api.SetupRoutes(app, handler)
	api.SetupMetricsRoute(app, gatherer)

	stateCollector := metrics.NewStateCollector(m, nil, logger)
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

			stateCollector.Start(cfg.Metrics.StateInterval, version)
			dbCollector.Start(cfg.Metrics.DatabaseInterval)

			go func() {
				if err := app.Listen(cfg.API.Port); err != nil {
					logger.Error("http server exited", zap.Error(err))
				}
			}()
			logger.Info("api started", zap.String("port", cfg.API.Port))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			stateCollector.Stop()
			dbCollector.Stop()
			if err := app.ShutdownWithContext(ctx); err != nil {
				return err
			}
			return rabbit.Close()
		},
	})
}

func NewFiberApp(m *metrics.Metrics, logger *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "vvm-api",
		ErrorHandler: middleware.ErrorHandler(),
	})
	app.Use(middleware.HealthCheckMiddleware("vvm-api"))
	app.Use(middleware.RequestID())
	app.Use(middleware.HTTPMetricsMiddleware(m, logger))
	return app
}

func NewValidate() *playground.Validate {
	return playground.New()
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
		mqConfig.ConnectionName = "vvm-api"
	}
	return mq.NewConnection(mqConfig, logger)
}

func NewMQPublisher(rabbitMQ *mq.RabbitMQ) (mq.Publisher, error) {
	return rabbitMQ.CreatePublisher()
}
