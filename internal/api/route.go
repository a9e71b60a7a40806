package api

import (
	v1 "github.com/Behyna/vvm-service/internal/api/v1"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const prefixV1 = "/v1/"

func SetupRoutes(app *fiber.App, handler *v1.Handler) {
	app.Get("/ping", handler.Pong)

	app.Post(prefixV1+"activations", handler.Activate)
	app.Post(prefixV1+"sms/inbound", handler.InboundSMS)
	app.Post(prefixV1+"device/provisioned", handler.DeviceProvisioned)
	app.Post(prefixV1+"device/service-state", handler.ServiceState)
	app.Post(prefixV1+"sync/results", handler.SyncResult)
	app.Delete(prefixV1+"sources/:account", handler.RemoveSource)

	app.Get(prefixV1+"status/:account", handler.GetStatus)
	app.Get(prefixV1+"status/:account/events", handler.ListEvents)
}

// SetupMetricsRoute exposes gatherer in the prometheus text format.
func SetupMetricsRoute(app *fiber.App, gatherer prometheus.Gatherer) {
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
}
