package domain

import "time"

type Badge struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null" json:"name"`
	Description string    `json:"description"`
	IconURL     string    `json:"icon_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// UserBadge awards a badge to a user. At most one award per (user, badge).
type UserBadge struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex:uidx_user_badge;not null" json:"user_id"`
	BadgeID   uint      `gorm:"uniqueIndex:uidx_user_badge;not null" json:"badge_id"`
	AwardedBy uint      `json:"awarded_by"`
	CreatedAt time.Time `json:"created_at"`
}
