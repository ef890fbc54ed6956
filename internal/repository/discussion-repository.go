package repository

import (
	"github.com/campuslink/portal_service/internal/domain"
	"gorm.io/gorm"
)

type DiscussionRepository interface {
	Create(discussion *domain.Discussion) error
	FindById(id uint) (*domain.Discussion, error)
	List(limit, offset int) ([]domain.Discussion, error)
	Delete(id uint) error

	CreateComment(comment *domain.Comment) error
	FindCommentById(id uint) (*domain.Comment, error)
	DeleteComment(id uint) error
}

type discussionRepository struct {
	db *gorm.DB
}

func NewDiscussionRepository(db *gorm.DB) DiscussionRepository {
	return &discussionRepository{db: db}
}

func (r *discussionRepository) Create(discussion *domain.Discussion) error {
	return r.db.Create(discussion).Error
}

func (r *discussionRepository) FindById(id uint) (*domain.Discussion, error) {
	discussion := &domain.Discussion{}
	if err := r.db.Preload("Comments").First(discussion, id).Error; err != nil {
		return nil, err
	}
	return discussion, nil
}

func (r *discussionRepository) List(limit, offset int) ([]domain.Discussion, error) {
	var discussions []domain.Discussion
	err := r.db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&discussions).Error
	if err != nil {
		return nil, err
	}
	return discussions, nil
}

func (r *discussionRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("discussion_id = ?", id).Delete(&domain.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Discussion{}, id).Error
	})
}

func (r *discussionRepository) CreateComment(comment *domain.Comment) error {
	return r.db.Create(comment).Error
}

func (r *discussionRepository) FindCommentById(id uint) (*domain.Comment, error) {
	comment := &domain.Comment{}
	if err := r.db.First(comment, id).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

func (r *discussionRepository) DeleteComment(id uint) error {
	return r.db.Delete(&domain.Comment{}, id).Error
}
