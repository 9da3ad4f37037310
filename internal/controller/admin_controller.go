// FILE: internal/controller/admin_controller.go
package controller

import (
	"subscription-webhook-be/internal/dto"
	"subscription-webhook-be/internal/pkg/apperror"
	"subscription-webhook-be/internal/pkg/serverutils"
	"subscription-webhook-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

type IAdminController interface {
	RegisterRoutes(r fiber.Router)
	Activate(ctx *fiber.Ctx) error
	Cancel(ctx *fiber.Ctx) error
	ChangePlan(ctx *fiber.Ctx) error
	SetSuperadminStatus(ctx *fiber.Ctx) error
}

type adminController struct {
	service   service.IAdminService
	jwtSecret string
}

func NewAdminController(service service.IAdminService, jwtSecret string) IAdminController {
	return &adminController{service: service, jwtSecret: jwtSecret}
}

func (c *adminController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/admin/subscriptions", serverutils.AdminJwtMiddleware(c.jwtSecret))
	h.Post("/:userId/activate", c.Activate)
	h.Post("/:userId/cancel", c.Cancel)
	h.Put("/:userId/plan", c.ChangePlan)
	h.Put("/:userId/superadmin-status", c.SetSuperadminStatus)
}

func (c *adminController) Activate(ctx *fiber.Ctx) error {
	res, err := c.service.ActivateSubscription(ctx.UserContext(), userIdParam(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Subscription activated", res))
}

func (c *adminController) Cancel(ctx *fiber.Ctx) error {
	res, err := c.service.CancelSubscription(ctx.UserContext(), userIdParam(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Subscription cancelled", res))
}

func (c *adminController) ChangePlan(ctx *fiber.Ctx) error {
	req := new(dto.AdminChangePlanRequest)
	if err := ctx.BodyParser(req); err != nil {
		return apperror.Wrap(apperror.KindInvalidRequest, "Invalid request body", err)
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.ChangePlan(ctx.UserContext(), userIdParam(ctx), req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Subscription plan changed", res))
}

func (c *adminController) SetSuperadminStatus(ctx *fiber.Ctx) error {
	req := new(dto.AdminSuperadminStatusRequest)
	if err := ctx.BodyParser(req); err != nil {
		return apperror.Wrap(apperror.KindInvalidRequest, "Invalid request body", err)
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.SetSuperadminStatus(ctx.UserContext(), userIdParam(ctx), req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Superadmin status updated", res))
}

// userIdParam copies the path id; it is published in events consumed after
// the request buffer is reused.
func userIdParam(ctx *fiber.Ctx) string {
	return utils.CopyString(ctx.Params("userId"))
}
