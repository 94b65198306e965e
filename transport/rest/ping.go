package rest

import "github.com/gofiber/fiber/v2"

// PingHandler echoes the received request headers back as json. Used as
// a liveness probe.
func PingHandler(ctx *fiber.Ctx) error {
	headers := map[string]string{}
	ctx.Request().Header.VisitAll(func(key, value []byte) {
		headers[string(key)] = string(value)
	})
	return ctx.JSON(headers)
}
