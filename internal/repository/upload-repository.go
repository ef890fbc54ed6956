package repository

import (
	"github.com/campuslink/portal_service/internal/domain"
	"gorm.io/gorm"
)

type UploadRepository interface {
	Create(upload *domain.Upload) error
	FindById(id uint) (*domain.Upload, error)
	List(subject string, approvedOnly bool, limit, offset int) ([]domain.Upload, error)
	SetApproved(id uint, approved bool) error
	Delete(id uint) error
}

type uploadRepository struct {
	db *gorm.DB
}

func NewUploadRepository(db *gorm.DB) UploadRepository {
	return &uploadRepository{db: db}
}

func (r *uploadRepository) Create(upload *domain.Upload) error {
	return r.db.Create(upload).Error
}

func (r *uploadRepository) FindById(id uint) (*domain.Upload, error) {
	upload := &domain.Upload{}
	if err := r.db.First(upload, id).Error; err != nil {
		return nil, err
	}
	return upload, nil
}

func (r *uploadRepository) List(subject string, approvedOnly bool, limit, offset int) ([]domain.Upload, error) {
	q := r.db.Model(&domain.Upload{})
	if subject != "" {
		q = q.Where("subject = ?", subject)
	}
	if approvedOnly {
		q = q.Where("approved = ?", true)
	}

	var uploads []domain.Upload
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&uploads).Error
	if err != nil {
		return nil, err
	}
	return uploads, nil
}

func (r *uploadRepository) SetApproved(id uint, approved bool) error {
	return r.db.Model(&domain.Upload{}).Where("id = ?", id).Update("approved", approved).Error
}

func (r *uploadRepository) Delete(id uint) error {
	return r.db.Delete(&domain.Upload{}, id).Error
}
