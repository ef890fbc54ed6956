package handlers

import (
	"github.com/campuslink/portal_service/internal/dto"
	"github.com/campuslink/portal_service/internal/helper"
	"github.com/campuslink/portal_service/internal/helper/utils"
	"github.com/campuslink/portal_service/internal/services"
	"github.com/gofiber/fiber/v2"
)

type DiscussionHandler struct {
	svc     services.PortalService
	userSvc services.UserService
	auth    helper.Auth
}

func NewDiscussionHandler(svc services.PortalService, userSvc services.UserService, auth helper.Auth) *DiscussionHandler {
	return &DiscussionHandler{svc: svc, userSvc: userSvc, auth: auth}
}

func (h *DiscussionHandler) Create(ctx *fiber.Ctx) error {
	claims, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	var requestBody dto.CreateDiscussionRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "title and body are required")
	}

	discussion, err := h.svc.CreateDiscussion(uint(claims.UserID), requestBody)
	if err != nil {
		return respondServiceError(ctx, err)
	}

	return utils.ResponseSuccess(ctx, fiber.StatusCreated, fiber.Map{
		"message":    "Discussion created",
		"discussion": discussion,
	})
}

func (h *DiscussionHandler) List(ctx *fiber.Ctx) error {
	discussions, err := h.svc.ListDiscussions(ctx.QueryInt("limit", 20), ctx.QueryInt("offset", 0))
	if err != nil {
		return respondServiceError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(discussions)
}

func (h *DiscussionHandler) Get(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil || id <= 0 {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid discussion id")
	}

	discussion, err := h.svc.GetDiscussion(uint(id))
	if err != nil {
		return respondServiceError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(discussion)
}

func (h *DiscussionHandler) Delete(ctx *fiber.Ctx) error {
	claims, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := ctx.ParamsInt("id")
	if err != nil || id <= 0 {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid discussion id")
	}

	isAdmin, _ := h.userSvc.IsAdmin(uint(claims.UserID))
	if err := h.svc.DeleteDiscussion(uint(claims.UserID), isAdmin, uint(id)); err != nil {
		return respondServiceError(ctx, err)
	}

	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{
		"message": "Discussion deleted",
	})
}

func (h *DiscussionHandler) AddComment(ctx *fiber.Ctx) error {
	claims, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := ctx.ParamsInt("id")
	if err != nil || id <= 0 {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid discussion id")
	}

	var requestBody dto.CreateCommentRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "body is required")
	}

	comment, err := h.svc.AddComment(uint(claims.UserID), uint(id), requestBody)
	if err != nil {
		return respondServiceError(ctx, err)
	}

	return utils.ResponseSuccess(ctx, fiber.StatusCreated, fiber.Map{
		"message": "Comment added",
		"comment": comment,
	})
}

func (h *DiscussionHandler) DeleteComment(ctx *fiber.Ctx) error {
	claims, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := ctx.ParamsInt("commentID")
	if err != nil || id <= 0 {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid comment id")
	}

	isAdmin, _ := h.userSvc.IsAdmin(uint(claims.UserID))
	if err := h.svc.DeleteComment(uint(claims.UserID), isAdmin, uint(id)); err != nil {
		return respondServiceError(ctx, err)
	}

	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{
		"message": "Comment deleted",
	})
}
