package domain

import "time"

// Solution is a past-paper solution shared by a student, e.g. "CS301 Fall 2025 final".
type Solution struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"index;not null" json:"user_id"`
	CourseCode string    `gorm:"index;not null" json:"course_code"`
	Term       string    `json:"term"`
	Title      string    `gorm:"not null" json:"title"`
	FileURL    string    `gorm:"not null" json:"file_url"`
	PublicID   string    `json:"public_id"`
	Approved   bool      `gorm:"not null;default:false" json:"approved"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
