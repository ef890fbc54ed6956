package handlers

import (
	"github.com/campuslink/portal_service/internal/dto"
	"github.com/campuslink/portal_service/internal/helper"
	"github.com/campuslink/portal_service/internal/helper/utils"
	"github.com/campuslink/portal_service/internal/services"
	"github.com/gofiber/fiber/v2"
)

type SolutionHandler struct {
	svc     services.PortalService
	userSvc services.UserService
	auth    helper.Auth
}

func NewSolutionHandler(svc services.PortalService, userSvc services.UserService, auth helper.Auth) *SolutionHandler {
	return &SolutionHandler{svc: svc, userSvc: userSvc, auth: auth}
}

// POST /api/solutions
// multipart form: file=<document>, plus courseCode/term/title fields
func (h *SolutionHandler) Create(ctx *fiber.Ctx) error {
	claims, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "file is required")
	}

	input := dto.CreateSolutionRequest{
		CourseCode: ctx.FormValue("courseCode"),
		Term:       ctx.FormValue("term"),
		Title:      ctx.FormValue("title"),
	}

	solution, err := h.svc.CreateSolution(ctx.Context(), uint(claims.UserID), input, file)
	if err != nil {
		return respondServiceError(ctx, err)
	}

	return utils.ResponseSuccess(ctx, fiber.StatusCreated, fiber.Map{
		"message":  "Solution submitted. It will be visible once approved.",
		"solution": solution,
	})
}

func (h *SolutionHandler) List(ctx *fiber.Ctx) error {
	claims, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}
	isAdmin, _ := h.userSvc.IsAdmin(uint(claims.UserID))

	solutions, err := h.svc.ListSolutions(
		ctx.Query("course"),
		isAdmin,
		ctx.QueryInt("limit", 20),
		ctx.QueryInt("offset", 0),
	)
	if err != nil {
		return respondServiceError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(solutions)
}

func (h *SolutionHandler) Delete(ctx *fiber.Ctx) error {
	claims, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := ctx.ParamsInt("id")
	if err != nil || id <= 0 {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid solution id")
	}

	isAdmin, _ := h.userSvc.IsAdmin(uint(claims.UserID))
	if err := h.svc.DeleteSolution(uint(claims.UserID), isAdmin, uint(id)); err != nil {
		return respondServiceError(ctx, err)
	}

	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{
		"message": "Solution deleted",
	})
}

func (h *SolutionHandler) Approve(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil || id <= 0 {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid solution id")
	}

	if err := h.svc.ApproveSolution(uint(id)); err != nil {
		return respondServiceError(ctx, err)
	}

	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{
		"message": "Solution approved",
	})
}
