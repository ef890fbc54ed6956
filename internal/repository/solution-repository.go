package repository

import (
	"github.com/campuslink/portal_service/internal/domain"
	"gorm.io/gorm"
)

type SolutionRepository interface {
	Create(solution *domain.Solution) error
	FindById(id uint) (*domain.Solution, error)
	List(courseCode string, approvedOnly bool, limit, offset int) ([]domain.Solution, error)
	SetApproved(id uint, approved bool) error
	Delete(id uint) error
}

type solutionRepository struct {
	db *gorm.DB
}

func NewSolutionRepository(db *gorm.DB) SolutionRepository {
	return &solutionRepository{db: db}
}

func (r *solutionRepository) Create(solution *domain.Solution) error {
	return r.db.Create(solution).Error
}

func (r *solutionRepository) FindById(id uint) (*domain.Solution, error) {
	solution := &domain.Solution{}
	if err := r.db.First(solution, id).Error; err != nil {
		return nil, err
	}
	return solution, nil
}

func (r *solutionRepository) List(courseCode string, approvedOnly bool, limit, offset int) ([]domain.Solution, error) {
	q := r.db.Model(&domain.Solution{})
	if courseCode != "" {
		q = q.Where("course_code = ?", courseCode)
	}
	if approvedOnly {
		q = q.Where("approved = ?", true)
	}

	var solutions []domain.Solution
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&solutions).Error
	if err != nil {
		return nil, err
	}
	return solutions, nil
}

func (r *solutionRepository) SetApproved(id uint, approved bool) error {
	return r.db.Model(&domain.Solution{}).Where("id = ?", id).Update("approved", approved).Error
}

func (r *solutionRepository) Delete(id uint) error {
	return r.db.Delete(&domain.Solution{}, id).Error
}
