package domain

import "time"

const (
	OtpPurposeSignup = "signup"
	OtpPurposeReset  = "reset"
)

type OtpCode struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"index;not null" json:"email"`
	Code      string    `gorm:"type:varchar(6);not null" json:"-"`
	Purpose   string    `gorm:"type:varchar(10);not null" json:"purpose"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	Used      bool      `gorm:"not null;default:false" json:"used"`
	CreatedAt time.Time `json:"created_at"`
}
