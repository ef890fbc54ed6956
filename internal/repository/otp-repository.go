package repository

import (
	"time"

	"github.com/campuslink/portal_service/internal/domain"
	"gorm.io/gorm"
)

type OtpRepository interface {
	Create(code *domain.OtpCode) error
	// FindValid matches an unused, unexpired code. A row whose expires_at
	// equals now is already expired.
	FindValid(email, code, purpose string, now time.Time) (*domain.OtpCode, error)
	MarkUsed(tx *gorm.DB, id uint) error
	InvalidateUnused(email, purpose string) error
	DeleteExpired(now time.Time) (int64, error)
}

type otpRepository struct {
	db *gorm.DB
}

func NewOtpRepository(db *gorm.DB) OtpRepository {
	return &otpRepository{db: db}
}

func (r *otpRepository) Create(code *domain.OtpCode) error {
	return r.db.Create(code).Error
}

func (r *otpRepository) FindValid(email, code, purpose string, now time.Time) (*domain.OtpCode, error) {
	row := &domain.OtpCode{}
	err := r.db.
		Where("email = ? AND code = ? AND purpose = ? AND used = ? AND expires_at > ?",
			email, code, purpose, false, now).
		Order("created_at DESC").
		First(row).Error
	if err != nil {
		return nil, err
	}
	return row, nil
}

// MarkUsed is idempotent; marking an already-used code is a no-op.
func (r *otpRepository) MarkUsed(tx *gorm.DB, id uint) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Model(&domain.OtpCode{}).Where("id = ?", id).Update("used", true).Error
}

func (r *otpRepository) InvalidateUnused(email, purpose string) error {
	return r.db.Model(&domain.OtpCode{}).
		Where("email = ? AND purpose = ? AND used = ?", email, purpose, false).
		Update("used", true).Error
}

func (r *otpRepository) DeleteExpired(now time.Time) (int64, error) {
	res := r.db.Where("expires_at <= ?", now).Delete(&domain.OtpCode{})
	return res.RowsAffected, res.Error
}
