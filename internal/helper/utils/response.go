package utils

import "github.com/gofiber/fiber/v2"

// All failure bodies are {"message": ...} so clients have one shape to parse.
func ResponseError(ctx *fiber.Ctx, status int, msg string) error {
	return ctx.Status(status).JSON(fiber.Map{
		"message": msg,
	})
}

func ResponseSuccess(ctx *fiber.Ctx, status int, data fiber.Map) error {
	return ctx.Status(status).JSON(data)
}
