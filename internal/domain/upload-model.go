package domain

import "time"

type Upload struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"index;not null" json:"user_id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `json:"description"`
	Subject     string    `gorm:"index" json:"subject"`
	FileURL     string    `gorm:"not null" json:"file_url"`
	PublicID    string    `json:"public_id"`
	Approved    bool      `gorm:"not null;default:false" json:"approved"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
