package repository

import (
	"github.com/campuslink/portal_service/internal/domain"
	"gorm.io/gorm"
)

type AnnouncementRepository interface {
	Create(announcement *domain.Announcement) error
	FindById(id uint) (*domain.Announcement, error)
	List(limit, offset int) ([]domain.Announcement, error)
	Save(announcement *domain.Announcement) error
	Delete(id uint) error
}

type announcementRepository struct {
	db *gorm.DB
}

func NewAnnouncementRepository(db *gorm.DB) AnnouncementRepository {
	return &announcementRepository{db: db}
}

func (r *announcementRepository) Create(announcement *domain.Announcement) error {
	return r.db.Create(announcement).Error
}

func (r *announcementRepository) FindById(id uint) (*domain.Announcement, error) {
	announcement := &domain.Announcement{}
	if err := r.db.First(announcement, id).Error; err != nil {
		return nil, err
	}
	return announcement, nil
}

// Pinned announcements come first, newest within each group.
func (r *announcementRepository) List(limit, offset int) ([]domain.Announcement, error) {
	var announcements []domain.Announcement
	err := r.db.Order("pinned DESC, created_at DESC").Limit(limit).Offset(offset).Find(&announcements).Error
	if err != nil {
		return nil, err
	}
	return announcements, nil
}

func (r *announcementRepository) Save(announcement *domain.Announcement) error {
	return r.db.Save(announcement).Error
}

func (r *announcementRepository) Delete(id uint) error {
	return r.db.Delete(&domain.Announcement{}, id).Error
}
