package controller

import (
	"context"
	"time"

	"subscription-webhook-be/internal/pkg/apperror"
	"subscription-webhook-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
)

// Pinger is satisfied by every subscription store.
type Pinger interface {
	Ping(ctx context.Context) error
}

type IHealthController interface {
	RegisterRoutes(r fiber.Router)
	Health(ctx *fiber.Ctx) error
}

type healthController struct {
	store   Pinger
	timeout time.Duration
}

func NewHealthController(store Pinger, timeout time.Duration) IHealthController {
	return &healthController{store: store, timeout: timeout}
}

func (c *healthController) RegisterRoutes(r fiber.Router) {
	r.Get("/health", c.Health)
}

func (c *healthController) Health(ctx *fiber.Ctx) error {
	pingCtx, cancel := context.WithTimeout(ctx.UserContext(), c.timeout)
	defer cancel()

	if err := c.store.Ping(pingCtx); err != nil {
		return apperror.Store("Store unavailable", err)
	}
	return ctx.JSON(serverutils.SuccessResponse("OK", fiber.Map{"store": "up"}))
}
