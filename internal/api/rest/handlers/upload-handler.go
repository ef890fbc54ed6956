package handlers

import (
	"github.com/campuslink/portal_service/internal/dto"
	"github.com/campuslink/portal_service/internal/helper"
	"github.com/campuslink/portal_service/internal/helper/utils"
	"github.com/campuslink/portal_service/internal/services"
	"github.com/gofiber/fiber/v2"
)

type UploadHandler struct {
	svc     services.PortalService
	userSvc services.UserService
	auth    helper.Auth
}

func NewUploadHandler(svc services.PortalService, userSvc services.UserService, auth helper.Auth) *UploadHandler {
	return &UploadHandler{svc: svc, userSvc: userSvc, auth: auth}
}

// POST /api/uploads
// multipart form: file=<document>, plus title/description/subject fields
func (h *UploadHandler) Create(ctx *fiber.Ctx) error {
	claims, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "file is required")
	}

	input := dto.CreateUploadRequest{
		Title:       ctx.FormValue("title"),
		Description: ctx.FormValue("description"),
		Subject:     ctx.FormValue("subject"),
	}

	upload, err := h.svc.CreateUpload(ctx.Context(), uint(claims.UserID), input, file)
	if err != nil {
		return respondServiceError(ctx, err)
	}

	return utils.ResponseSuccess(ctx, fiber.StatusCreated, fiber.Map{
		"message": "Upload created. It will be visible once approved.",
		"upload":  upload,
	})
}

func (h *UploadHandler) List(ctx *fiber.Ctx) error {
	claims, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}
	isAdmin, _ := h.userSvc.IsAdmin(uint(claims.UserID))

	uploads, err := h.svc.ListUploads(
		ctx.Query("subject"),
		isAdmin,
		ctx.QueryInt("limit", 20),
		ctx.QueryInt("offset", 0),
	)
	if err != nil {
		return respondServiceError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(uploads)
}

func (h *UploadHandler) Delete(ctx *fiber.Ctx) error {
	claims, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := ctx.ParamsInt("id")
	if err != nil || id <= 0 {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid upload id")
	}

	isAdmin, _ := h.userSvc.IsAdmin(uint(claims.UserID))
	if err := h.svc.DeleteUpload(uint(claims.UserID), isAdmin, uint(id)); err != nil {
		return respondServiceError(ctx, err)
	}

	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{
		"message": "Upload deleted",
	})
}

// PATCH /api/uploads/:id/approve, admin only (route-level middleware)
func (h *UploadHandler) Approve(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil || id <= 0 {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid upload id")
	}

	if err := h.svc.ApproveUpload(uint(id)); err != nil {
		return respondServiceError(ctx, err)
	}

	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{
		"message": "Upload approved",
	})
}
