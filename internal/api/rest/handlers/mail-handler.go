package handlers

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/campuslink/portal_service/internal/dto"
	"github.com/campuslink/portal_service/internal/services"
)

// MailHandler consumes OTP mail events from the queue.
type MailHandler struct {
	MailService *services.MailService
}

func NewMailHandler(ms *services.MailService) *MailHandler {
	return &MailHandler{MailService: ms}
}

func (h *MailHandler) HandleMessage(key, message string) error {
	switch key {
	case dto.EventSignupOtp, dto.EventResetOtp:
	default:
		log.Printf("skipping event with unknown key %q", key)
		return nil
	}

	var event dto.OtpMailEvent
	if err := json.Unmarshal([]byte(message), &event); err != nil {
		log.Printf("invalid event payload: %s\n", message)
		return err
	}
	if event.Email == "" || event.Code == "" {
		return fmt.Errorf("event %s missing email or code", key)
	}

	log.Printf("otp mail event: key=%s email=%s purpose=%s", key, event.Email, event.Purpose)

	err := h.MailService.SendOtpEmail(event.Email, event.FullName, event.Code, event.Purpose, event.ExpiresAt)
	if err != nil {
		log.Printf("[MAIL] send failed for %s: %v", event.Email, err)
	}
	return err
}
