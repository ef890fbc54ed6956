package handlers

import (
	"github.com/campuslink/portal_service/internal/dto"
	"github.com/campuslink/portal_service/internal/helper"
	"github.com/campuslink/portal_service/internal/helper/utils"
	"github.com/campuslink/portal_service/internal/services"
	"github.com/gofiber/fiber/v2"
)

type ProfileHandler struct {
	svc  services.UserService
	auth helper.Auth
}

func NewProfileHandler(svc services.UserService, auth helper.Auth) *ProfileHandler {
	return &ProfileHandler{svc: svc, auth: auth}
}

func (h *ProfileHandler) UpdateProfile(ctx *fiber.Ctx) error {
	claims, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	var requestBody dto.UpdateProfileRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	user, err := h.svc.UpdateProfile(uint(claims.UserID), requestBody)
	if err != nil {
		return respondServiceError(ctx, err)
	}

	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{
		"message": "Profile updated",
		"user":    services.ToUserResponse(user),
	})
}

func (h *ProfileHandler) GetProfile(ctx *fiber.Ctx) error {
	userID, err := ctx.ParamsInt("userID")
	if err != nil || userID <= 0 {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid user id")
	}

	profile, err := h.svc.GetProfile(uint(userID))
	if err != nil {
		return respondServiceError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(profile)
}
