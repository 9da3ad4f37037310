// FILE: internal/controller/payment_link_controller.go
package controller

import (
	"encoding/json"
	"errors"

	"subscription-webhook-be/internal/dto"
	"subscription-webhook-be/internal/pkg/apperror"
	"subscription-webhook-be/internal/pkg/serverutils"
	"subscription-webhook-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IPaymentLinkController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
}

type paymentLinkController struct {
	service service.IPaymentLinkService
}

func NewPaymentLinkController(service service.IPaymentLinkService) IPaymentLinkController {
	return &paymentLinkController{service: service}
}

func (c *paymentLinkController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/payment-links", serverutils.EdgeCors)
	h.Post("/", c.Create)

	// Path used by existing checkout clients.
	r.Group("/create-razorpay-link", serverutils.EdgeCors).Post("/", c.Create)
}

func (c *paymentLinkController) Create(ctx *fiber.Ctx) error {
	// Decoded regardless of Content-Type; browser clients post text/plain.
	var req dto.CreatePaymentLinkRequest
	if body := ctx.Body(); len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(dto.PaymentLinkErrorResponse{Error: "Invalid request body: " + err.Error()})
		}
	}

	res, err := c.service.CreateLink(ctx.UserContext(), &req)
	if err != nil {
		d := apperror.Decide(err)
		body := dto.PaymentLinkErrorResponse{Error: d.Public}
		var appErr *apperror.Error
		if errors.As(err, &appErr) && appErr.Kind == apperror.KindUpstream {
			body.Details = appErr.Details
		}
		return ctx.Status(d.Status).JSON(body)
	}

	return ctx.Status(fiber.StatusOK).JSON(res)
}
