package handlers

import (
	"errors"
	"log"

	"github.com/campuslink/portal_service/internal/helper/utils"
	"github.com/campuslink/portal_service/internal/services"
	"github.com/gofiber/fiber/v2"
)

// respondServiceError maps service sentinels onto statuses. Anything
// unrecognized is a 500 with a generic body; the detail stays in the log.
func respondServiceError(ctx *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, services.ErrPasswordTooShort),
		errors.Is(err, services.ErrPasswordMismatch),
		errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrUsernameTaken),
		errors.Is(err, services.ErrOtpInvalid),
		errors.Is(err, services.ErrBadgeExists),
		errors.Is(err, services.ErrBadFile):
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, services.ErrDomainNotAllowed),
		errors.Is(err, services.ErrForbidden):
		return utils.ResponseError(ctx, fiber.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrNotFound):
		return utils.ResponseError(ctx, fiber.StatusNotFound, err.Error())
	default:
		log.Printf("internal error: %v", err)
		return utils.ResponseError(ctx, fiber.StatusInternalServerError, "something went wrong")
	}
}
