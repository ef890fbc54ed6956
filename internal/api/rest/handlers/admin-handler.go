package handlers

import (
	"github.com/campuslink/portal_service/internal/dto"
	"github.com/campuslink/portal_service/internal/helper"
	"github.com/campuslink/portal_service/internal/helper/utils"
	"github.com/campuslink/portal_service/internal/services"
	"github.com/gofiber/fiber/v2"
)

// AdminHandler covers announcements and badges. Reads are open to everyone;
// writes sit behind the AdminOnly middleware at route registration.
type AdminHandler struct {
	svc  services.AdminService
	auth helper.Auth
}

func NewAdminHandler(svc services.AdminService, auth helper.Auth) *AdminHandler {
	return &AdminHandler{svc: svc, auth: auth}
}

func (h *AdminHandler) CreateAnnouncement(ctx *fiber.Ctx) error {
	claims, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	var requestBody dto.AnnouncementRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "title and body are required")
	}

	announcement, err := h.svc.CreateAnnouncement(uint(claims.UserID), requestBody)
	if err != nil {
		return respondServiceError(ctx, err)
	}

	return utils.ResponseSuccess(ctx, fiber.StatusCreated, fiber.Map{
		"message":      "Announcement created",
		"announcement": announcement,
	})
}

func (h *AdminHandler) UpdateAnnouncement(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil || id <= 0 {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid announcement id")
	}

	var requestBody dto.AnnouncementRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	announcement, err := h.svc.UpdateAnnouncement(uint(id), requestBody)
	if err != nil {
		return respondServiceError(ctx, err)
	}

	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{
		"message":      "Announcement updated",
		"announcement": announcement,
	})
}

func (h *AdminHandler) ListAnnouncements(ctx *fiber.Ctx) error {
	announcements, err := h.svc.ListAnnouncements(ctx.QueryInt("limit", 20), ctx.QueryInt("offset", 0))
	if err != nil {
		return respondServiceError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(announcements)
}

func (h *AdminHandler) DeleteAnnouncement(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil || id <= 0 {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid announcement id")
	}

	if err := h.svc.DeleteAnnouncement(uint(id)); err != nil {
		return respondServiceError(ctx, err)
	}

	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{
		"message": "Announcement deleted",
	})
}

func (h *AdminHandler) CreateBadge(ctx *fiber.Ctx) error {
	var requestBody dto.CreateBadgeRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "name is required")
	}

	badge, err := h.svc.CreateBadge(requestBody)
	if err != nil {
		return respondServiceError(ctx, err)
	}

	return utils.ResponseSuccess(ctx, fiber.StatusCreated, fiber.Map{
		"message": "Badge created",
		"badge":   badge,
	})
}

func (h *AdminHandler) ListBadges(ctx *fiber.Ctx) error {
	badges, err := h.svc.ListBadges()
	if err != nil {
		return respondServiceError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(badges)
}

func (h *AdminHandler) DeleteBadge(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil || id <= 0 {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid badge id")
	}

	if err := h.svc.DeleteBadge(uint(id)); err != nil {
		return respondServiceError(ctx, err)
	}

	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{
		"message": "Badge deleted",
	})
}

func (h *AdminHandler) AwardBadge(ctx *fiber.Ctx) error {
	claims, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := ctx.ParamsInt("id")
	if err != nil || id <= 0 {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid badge id")
	}

	var requestBody dto.AwardBadgeRequest
	if err := ctx.BodyParser(&requestBody); err != nil || requestBody.UserID == 0 {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "userId is required")
	}

	if err := h.svc.AwardBadge(uint(claims.UserID), uint(id), requestBody.UserID); err != nil {
		return respondServiceError(ctx, err)
	}

	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{
		"message": "Badge awarded",
	})
}
