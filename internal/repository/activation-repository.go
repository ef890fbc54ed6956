package repository

import (
	"github.com/campuslink/portal_service/internal/domain"
	"gorm.io/gorm"
)

// ActivationRepository turns a pending signup into a real user. The three
// writes (consume code, create user, drop pending row) happen in one
// transaction so a crash cannot leave a consumed code without a user.
type ActivationRepository interface {
	ActivatePending(pending *domain.PendingUser, otpID uint) (*domain.User, error)
}

type activationRepository struct {
	db *gorm.DB
}

func NewActivationRepository(db *gorm.DB) ActivationRepository {
	return &activationRepository{db: db}
}

func (r *activationRepository) ActivatePending(pending *domain.PendingUser, otpID uint) (*domain.User, error) {
	user := &domain.User{
		Username:     pending.Username,
		FullName:     pending.FullName,
		Email:        pending.Email,
		PasswordHash: pending.PasswordHash,
		Role:         domain.RoleStudent,
		Verified:     true,
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.OtpCode{}).Where("id = ?", otpID).Update("used", true).Error; err != nil {
			return err
		}
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		return tx.Where("email = ?", pending.Email).Delete(&domain.PendingUser{}).Error
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}
