package serverutils

import "github.com/gofiber/fiber/v2"

// Public edge endpoints (webhook, link creation) answer any origin, and their
// preflight is a plain 200 rather than the 204 of the cors middleware.
const (
	edgeAllowOrigin  = "*"
	edgeAllowHeaders = "authorization, x-client-info, apikey, content-type"
)

func EdgeCors(ctx *fiber.Ctx) error {
	ctx.Set(fiber.HeaderAccessControlAllowOrigin, edgeAllowOrigin)
	ctx.Set(fiber.HeaderAccessControlAllowHeaders, edgeAllowHeaders)
	if ctx.Method() == fiber.MethodOptions {
		return ctx.SendStatus(fiber.StatusOK)
	}
	return ctx.Next()
}
