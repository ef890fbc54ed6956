package handlers

import (
	"errors"
	"strings"

	"github.com/campuslink/portal_service/internal/dto"
	"github.com/campuslink/portal_service/internal/helper"
	"github.com/campuslink/portal_service/internal/helper/utils"
	"github.com/campuslink/portal_service/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	svc  services.UserService
	auth helper.Auth
}

func NewAuthHandler(svc services.UserService, auth helper.Auth) *AuthHandler {
	return &AuthHandler{svc: svc, auth: auth}
}

func (h *AuthHandler) Signup(ctx *fiber.Ctx) error {
	var requestBody dto.SignupRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	email, err := h.svc.Signup(requestBody)
	if err != nil {
		return respondServiceError(ctx, err)
	}

	return utils.ResponseSuccess(ctx, fiber.StatusCreated, fiber.Map{
		"message": "Signup successful. Check your email for the verification code.",
		"email":   email,
	})
}

func (h *AuthHandler) Login(ctx *fiber.Ctx) error {
	var requestBody dto.LoginRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "email and password are required")
	}

	user, err := h.svc.Login(requestBody)
	if err != nil {
		// verification-required carries the canonical email so the client
		// can route straight to the OTP screen
		if errors.Is(err, services.ErrVerificationRequired) {
			return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message":              err.Error(),
				"email":                strings.ToLower(strings.TrimSpace(requestBody.Email)),
				"verificationRequired": true,
			})
		}
		return respondServiceError(ctx, err)
	}

	token, err := h.auth.GenerateToken(int(user.ID), user.Email)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusInternalServerError, "could not generate token")
	}

	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{
		"message": "Login successful",
		"token":   token,
		"user":    services.ToUserResponse(user),
	})
}

func (h *AuthHandler) VerifyOtp(ctx *fiber.Ctx) error {
	var requestBody dto.VerifyOtpRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "email and code are required")
	}

	result, err := h.svc.VerifyOtp(requestBody)
	if err != nil {
		return respondServiceError(ctx, err)
	}

	if result.SignupCompleted {
		return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{
			"message": "Email verified. Your account is now active.",
			"user":    services.ToUserResponse(result.User),
		})
	}

	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{
		"message":          "Code verified. You may now reset your password.",
		"email":            result.Email,
		"canResetPassword": true,
	})
}

func (h *AuthHandler) ResendOtp(ctx *fiber.Ctx) error {
	var requestBody dto.ResendOtpRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "email is required")
	}

	if err := h.svc.ResendOtp(requestBody.Email); err != nil {
		return respondServiceError(ctx, err)
	}

	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{
		"message": "A new code has been sent to your email.",
		"email":   requestBody.Email,
	})
}

func (h *AuthHandler) ForgotPassword(ctx *fiber.Ctx) error {
	var requestBody dto.ForgotPasswordRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "email is required")
	}

	if err := h.svc.ForgotPassword(requestBody.Email); err != nil {
		return respondServiceError(ctx, err)
	}

	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{
		"message": "A password reset code has been sent to your email.",
		"email":   requestBody.Email,
	})
}

func (h *AuthHandler) ResetPassword(ctx *fiber.Ctx) error {
	var requestBody dto.ResetPasswordRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	if err := h.svc.ResetPassword(requestBody); err != nil {
		return respondServiceError(ctx, err)
	}

	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{
		"message": "Password reset successfully. Please log in again.",
	})
}

func (h *AuthHandler) CurrentUser(ctx *fiber.Ctx) error {
	claims, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	user, err := h.svc.GetUser(uint(claims.UserID))
	if err != nil {
		return respondServiceError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(services.ToUserResponse(user))
}

// Logout has no server-side effect; tokens stay valid until expiry and the
// client simply discards its copy.
func (h *AuthHandler) Logout(ctx *fiber.Ctx) error {
	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{
		"message": "Logged out",
	})
}
