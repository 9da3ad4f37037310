// FILE: internal/controller/webhook_controller.go
package controller

import (
	"subscription-webhook-be/internal/dto"
	"subscription-webhook-be/internal/pkg/apperror"
	"subscription-webhook-be/internal/pkg/serverutils"
	"subscription-webhook-be/internal/service"
	"subscription-webhook-be/pkg/razorpay"

	"github.com/gofiber/fiber/v2"
)

type IWebhookController interface {
	RegisterRoutes(r fiber.Router)
	Razorpay(ctx *fiber.Ctx) error
}

type webhookController struct {
	service service.IWebhookService
}

func NewWebhookController(service service.IWebhookService) IWebhookController {
	return &webhookController{service: service}
}

func (c *webhookController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/webhooks", serverutils.EdgeCors)
	h.Post("/razorpay", c.Razorpay)
}

func (c *webhookController) Razorpay(ctx *fiber.Ctx) error {
	// fasthttp reuses the request buffer; the signature must cover a stable copy.
	body := append([]byte(nil), ctx.BodyRaw()...)

	res, err := c.service.HandleDelivery(ctx.UserContext(), service.WebhookDelivery{
		Body:      body,
		Signature: ctx.Get(razorpay.SignatureHeader),
		EventId:   ctx.Get(razorpay.EventIDHeader),
	})
	if err != nil {
		d := apperror.Decide(err)
		if d.Acknowledge {
			return ctx.Status(d.Status).JSON(dto.WebhookAckResponse{Message: d.Public})
		}
		return ctx.Status(d.Status).JSON(dto.WebhookErrorResponse{Error: d.Public})
	}

	return ctx.Status(fiber.StatusOK).JSON(dto.WebhookAckResponse{Message: res.Message})
}
