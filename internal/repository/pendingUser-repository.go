package repository

import (
	"time"

	"github.com/campuslink/portal_service/internal/domain"
	"gorm.io/gorm"
)

type PendingUserRepository interface {
	// Upsert replaces any earlier pending signup for the same email.
	Upsert(pending *domain.PendingUser) error
	FindByEmail(email string) (*domain.PendingUser, error)
	DeleteByEmail(tx *gorm.DB, email string) error
	DeleteOlderThan(cutoff time.Time) (int64, error)
}

type pendingUserRepository struct {
	db *gorm.DB
}

func NewPendingUserRepository(db *gorm.DB) PendingUserRepository {
	return &pendingUserRepository{db: db}
}

func (r *pendingUserRepository) Upsert(pending *domain.PendingUser) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("email = ?", pending.Email).Delete(&domain.PendingUser{}).Error; err != nil {
			return err
		}
		return tx.Create(pending).Error
	})
}

func (r *pendingUserRepository) FindByEmail(email string) (*domain.PendingUser, error) {
	pending := &domain.PendingUser{}
	if err := r.db.First(pending, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return pending, nil
}

// DeleteByEmail runs on tx when given, so verify-signup can delete the
// pending row inside the same transaction that creates the user.
func (r *pendingUserRepository) DeleteByEmail(tx *gorm.DB, email string) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Where("email = ?", email).Delete(&domain.PendingUser{}).Error
}

func (r *pendingUserRepository) DeleteOlderThan(cutoff time.Time) (int64, error) {
	res := r.db.Where("created_at < ?", cutoff).Delete(&domain.PendingUser{})
	return res.RowsAffected, res.Error
}
