package repository

import (
	"github.com/campuslink/portal_service/internal/domain"
	"gorm.io/gorm"
)

type BadgeRepository interface {
	Create(badge *domain.Badge) error
	FindById(id uint) (*domain.Badge, error)
	List() ([]domain.Badge, error)
	Delete(id uint) error

	Award(award *domain.UserBadge) error
	ListForUser(userID uint) ([]domain.Badge, error)
}

type badgeRepository struct {
	db *gorm.DB
}

func NewBadgeRepository(db *gorm.DB) BadgeRepository {
	return &badgeRepository{db: db}
}

func (r *badgeRepository) Create(badge *domain.Badge) error {
	return r.db.Create(badge).Error
}

func (r *badgeRepository) FindById(id uint) (*domain.Badge, error) {
	badge := &domain.Badge{}
	if err := r.db.First(badge, id).Error; err != nil {
		return nil, err
	}
	return badge, nil
}

func (r *badgeRepository) List() ([]domain.Badge, error) {
	var badges []domain.Badge
	if err := r.db.Order("name ASC").Find(&badges).Error; err != nil {
		return nil, err
	}
	return badges, nil
}

func (r *badgeRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("badge_id = ?", id).Delete(&domain.UserBadge{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Badge{}, id).Error
	})
}

// Award is idempotent per (user, badge): re-awarding keeps the first row.
func (r *badgeRepository) Award(award *domain.UserBadge) error {
	return r.db.Where("user_id = ? AND badge_id = ?", award.UserID, award.BadgeID).
		FirstOrCreate(award).Error
}

func (r *badgeRepository) ListForUser(userID uint) ([]domain.Badge, error) {
	var badges []domain.Badge
	err := r.db.Model(&domain.Badge{}).
		Joins("JOIN user_badges ON user_badges.badge_id = badges.id").
		Where("user_badges.user_id = ?", userID).
		Find(&badges).Error
	if err != nil {
		return nil, err
	}
	return badges, nil
}
