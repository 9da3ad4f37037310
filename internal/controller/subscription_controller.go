// FILE: internal/controller/subscription_controller.go
package controller

import (
	"subscription-webhook-be/internal/pkg/serverutils"
	"subscription-webhook-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

type ISubscriptionController interface {
	RegisterRoutes(r fiber.Router)
	GetStatus(ctx *fiber.Ctx) error
}

type subscriptionController struct {
	service service.ISubscriptionService
}

func NewSubscriptionController(service service.ISubscriptionService) ISubscriptionController {
	return &subscriptionController{service: service}
}

func (c *subscriptionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/subscriptions")
	h.Get("/status", c.GetStatus)
	h.Get("/:userId/status", c.GetStatus)
}

func (c *subscriptionController) GetStatus(ctx *fiber.Ctx) error {
	// Params and Query alias the request buffer; the id outlives the request
	// as a cache key.
	userId := utils.CopyString(ctx.Params("userId"))
	if userId == "" {
		userId = utils.CopyString(ctx.Query("userId"))
	}

	res, err := c.service.GetStatus(ctx.UserContext(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Subscription status", res))
}
