package v1

import (
	"github.com/Behyna/vvm-service/internal/api/contract"
	"github.com/Behyna/vvm-service/internal/api/validator"
	"github.com/Behyna/vvm-service/internal/publishers"
	"github.com/Behyna/vvm-service/internal/service"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type Handler struct {
	logger    *zap.Logger
	validator validator.IXValidator
	commands  publishers.CommandPublisher
	status    service.StatusQueryService
}

func NewHandler(logger *zap.Logger, validator validator.IXValidator, commands publishers.CommandPublisher,
	status service.StatusQueryService) *Handler {
	return &Handler{logger: logger, validator: validator, commands: commands, status: status}
}

func (h *Handler) Pong(c *fiber.Ctx) error {
	return c.SendString("pong")
}

func (h *Handler) Activate(c *fiber.Ctx) error {
	var request ActivateRequest
	if resp := h.validator.ParseAndValidate(c, &request); resp != nil {
		return c.JSON(resp)
	}

	err := h.commands.PublishActivation(c.UserContext(), service.ActivateCommand{
		AccountID:      request.AccountID,
		SubscriptionID: request.SubscriptionID,
		Status:         request.Status,
	})
	if err != nil {
		return err
	}

	h.logger.Info("Activation queued",
		zap.String("accountID", request.AccountID),
		zap.String("subscriptionID", request.SubscriptionID),
		zap.Bool("precanned", request.Status != nil))

	return accepted(c, request.AccountID)
}

func (h *Handler) InboundSMS(c *fiber.Ctx) error {
	var request InboundSMSRequest
	if resp := h.validator.ParseAndValidate(c, &request); resp != nil {
		return c.JSON(resp)
	}

	err := h.commands.PublishInboundSMS(c.UserContext(), service.InboundSMSCommand{
		AccountID:      request.AccountID,
		SubscriptionID: request.SubscriptionID,
		Payload:        request.Payload,
	})
	if err != nil {
		return err
	}

	return accepted(c, request.AccountID)
}

func (h *Handler) DeviceProvisioned(c *fiber.Ctx) error {
	err := h.commands.PublishDeviceEvent(c.UserContext(), service.DeviceEventCommand{
		Kind: service.DeviceEventProvisioned,
	})
	if err != nil {
		return err
	}

	h.logger.Info("Device provisioning queued")
	return accepted(c, "")
}

func (h *Handler) ServiceState(c *fiber.Ctx) error {
	var request ServiceStateRequest
	if resp := h.validator.ParseAndValidate(c, &request); resp != nil {
		return c.JSON(resp)
	}

	err := h.commands.PublishDeviceEvent(c.UserContext(), service.DeviceEventCommand{
		Kind:           service.DeviceEventServiceState,
		AccountID:      request.AccountID,
		SubscriptionID: request.SubscriptionID,
		InService:      *request.InService,
	})
	if err != nil {
		return err
	}

	return accepted(c, request.AccountID)
}

func (h *Handler) SyncResult(c *fiber.Ctx) error {
	var request SyncResultRequest
	if resp := h.validator.ParseAndValidate(c, &request); resp != nil {
		return c.JSON(resp)
	}

	err := h.commands.PublishSyncResult(c.UserContext(), service.SyncResultCommand{
		AccountID:     request.AccountID,
		Event:         request.Event,
		QuotaOccupied: request.QuotaOccupied,
		QuotaTotal:    request.QuotaTotal,
	})
	if err != nil {
		return err
	}

	return accepted(c, request.AccountID)
}

func (h *Handler) RemoveSource(c *fiber.Ctx) error {
	accountID := c.Params("account")
	subscriptionID := c.Query("subscription_id")

	err := h.commands.PublishSourceRemoved(c.UserContext(), service.RemoveSourceCommand{
		AccountID:      accountID,
		SubscriptionID: subscriptionID,
	})
	if err != nil {
		return err
	}

	h.logger.Info("Source removal queued", zap.String("accountID", accountID))
	return accepted(c, accountID)
}

func (h *Handler) GetStatus(c *fiber.Ctx) error {
	record, err := h.status.GetStatus(c.UserContext(), c.Params("account"))
	if err != nil {
		return err
	}

	return c.JSON(newStatusResponse(record))
}

func (h *Handler) ListEvents(c *fiber.Ctx) error {
	accountID := c.Params("account")

	logs, err := h.status.ListEvents(c.UserContext(), accountID, c.QueryInt("limit", 20))
	if err != nil {
		return err
	}

	return c.JSON(newEventsResponse(accountID, logs))
}

func accepted(c *fiber.Ctx, accountID string) error {
	return c.Status(fiber.StatusAccepted).JSON(contract.AcceptedResponse{
		Status:    contract.StatusQueued,
		AccountID: accountID,
	})
}
