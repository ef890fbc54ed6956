package dto

// Kafka event keys consumed by the mail worker.
const (
	EventSignupOtp = "user.signup_otp"
	EventResetOtp  = "user.reset_otp"
)

type OtpMailEvent struct {
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
	Code      string `json:"code"`
	Purpose   string `json:"purpose"`
	ExpiresAt string `json:"expires_at"`
}
