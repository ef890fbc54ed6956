package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/campuslink/portal_service/internal/domain"
	"github.com/campuslink/portal_service/internal/dto"
	"github.com/campuslink/portal_service/internal/helper/utils"
	"github.com/campuslink/portal_service/internal/interfaces"
	"github.com/campuslink/portal_service/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const maxUploadSize = 10 * 1024 * 1024 // 10MB

var (
	ErrNotFound  = errors.New("resource not found")
	ErrForbidden = errors.New("forbidden")
	ErrBadFile   = errors.New("unsupported or oversized file")
)

var allowedUploadExt = map[string]bool{
	".pdf": true, ".doc": true, ".docx": true, ".ppt": true, ".pptx": true,
	".jpg": true, ".jpeg": true, ".png": true, ".webp": true,
}

type PortalService interface {
	CreateUpload(ctx context.Context, userID uint, input dto.CreateUploadRequest, file *multipart.FileHeader) (*domain.Upload, error)
	ListUploads(subject string, includeUnapproved bool, limit, offset int) ([]domain.Upload, error)
	DeleteUpload(userID uint, isAdmin bool, id uint) error
	ApproveUpload(id uint) error

	CreateDiscussion(userID uint, input dto.CreateDiscussionRequest) (*domain.Discussion, error)
	GetDiscussion(id uint) (*domain.Discussion, error)
	ListDiscussions(limit, offset int) ([]domain.Discussion, error)
	DeleteDiscussion(userID uint, isAdmin bool, id uint) error
	AddComment(userID uint, discussionID uint, input dto.CreateCommentRequest) (*domain.Comment, error)
	DeleteComment(userID uint, isAdmin bool, id uint) error

	CreateSolution(ctx context.Context, userID uint, input dto.CreateSolutionRequest, file *multipart.FileHeader) (*domain.Solution, error)
	ListSolutions(courseCode string, includeUnapproved bool, limit, offset int) ([]domain.Solution, error)
	DeleteSolution(userID uint, isAdmin bool, id uint) error
	ApproveSolution(id uint) error
}

type portalService struct {
	uploadRepo     repository.UploadRepository
	discussionRepo repository.DiscussionRepository
	solutionRepo   repository.SolutionRepository
	uploader       interfaces.Uploader
}

func NewPortalService(
	uploadRepo repository.UploadRepository,
	discussionRepo repository.DiscussionRepository,
	solutionRepo repository.SolutionRepository,
	uploader interfaces.Uploader,
) PortalService {
	return &portalService{
		uploadRepo:     uploadRepo,
		discussionRepo: discussionRepo,
		solutionRepo:   solutionRepo,
		uploader:       uploader,
	}
}

func (p *portalService) storeFile(ctx context.Context, folder string, file *multipart.FileHeader) (string, string, error) {
	if p.uploader == nil {
		return "", "", errors.New("file storage not configured")
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedUploadExt[ext] {
		return "", "", ErrBadFile
	}
	if file.Size > maxUploadSize {
		return "", "", ErrBadFile
	}

	f, err := file.Open()
	if err != nil {
		return "", "", err
	}
	defer f.Close()

	b, err := utils.ReadAllLimit(f, maxUploadSize)
	if err != nil {
		return "", "", ErrBadFile
	}

	name := fmt.Sprintf("%s%s", uuid.NewString(), ext)

	ctx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	url, publicID, err := p.uploader.UploadBytes(ctx, folder, name, b)
	if err != nil {
		log.Printf("file upload failed: %v", err)
		return "", "", err
	}
	return url, publicID, nil
}

func (p *portalService) CreateUpload(ctx context.Context, userID uint, input dto.CreateUploadRequest, file *multipart.FileHeader) (*domain.Upload, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" || file == nil {
		return nil, ErrInvalidInput
	}

	url, publicID, err := p.storeFile(ctx, "portal/uploads", file)
	if err != nil {
		return nil, err
	}

	upload := &domain.Upload{
		UserID:      userID,
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Subject:     strings.TrimSpace(input.Subject),
		FileURL:     url,
		PublicID:    publicID,
	}
	if err := p.uploadRepo.Create(upload); err != nil {
		return nil, err
	}
	return upload, nil
}

func (p *portalService) ListUploads(subject string, includeUnapproved bool, limit, offset int) ([]domain.Upload, error) {
	return p.uploadRepo.List(subject, !includeUnapproved, clampLimit(limit), offset)
}

func (p *portalService) DeleteUpload(userID uint, isAdmin bool, id uint) error {
	upload, err := p.uploadRepo.FindById(id)
	if err != nil {
		return asNotFound(err)
	}
	if upload.UserID != userID && !isAdmin {
		return ErrForbidden
	}
	return p.uploadRepo.Delete(id)
}

func (p *portalService) ApproveUpload(id uint) error {
	if _, err := p.uploadRepo.FindById(id); err != nil {
		return asNotFound(err)
	}
	return p.uploadRepo.SetApproved(id, true)
}

func (p *portalService) CreateDiscussion(userID uint, input dto.CreateDiscussionRequest) (*domain.Discussion, error) {
	title := strings.TrimSpace(input.Title)
	body := strings.TrimSpace(input.Body)
	if title == "" || body == "" {
		return nil, ErrInvalidInput
	}

	discussion := &domain.Discussion{
		UserID: userID,
		Title:  title,
		Body:   body,
	}
	if err := p.discussionRepo.Create(discussion); err != nil {
		return nil, err
	}
	return discussion, nil
}

func (p *portalService) GetDiscussion(id uint) (*domain.Discussion, error) {
	discussion, err := p.discussionRepo.FindById(id)
	if err != nil {
		return nil, asNotFound(err)
	}
	return discussion, nil
}

func (p *portalService) ListDiscussions(limit, offset int) ([]domain.Discussion, error) {
	return p.discussionRepo.List(clampLimit(limit), offset)
}

func (p *portalService) DeleteDiscussion(userID uint, isAdmin bool, id uint) error {
	discussion, err := p.discussionRepo.FindById(id)
	if err != nil {
		return asNotFound(err)
	}
	if discussion.UserID != userID && !isAdmin {
		return ErrForbidden
	}
	return p.discussionRepo.Delete(id)
}

func (p *portalService) AddComment(userID uint, discussionID uint, input dto.CreateCommentRequest) (*domain.Comment, error) {
	body := strings.TrimSpace(input.Body)
	if body == "" {
		return nil, ErrInvalidInput
	}
	if _, err := p.discussionRepo.FindById(discussionID); err != nil {
		return nil, asNotFound(err)
	}

	comment := &domain.Comment{
		DiscussionID: discussionID,
		UserID:       userID,
		Body:         body,
	}
	if err := p.discussionRepo.CreateComment(comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (p *portalService) DeleteComment(userID uint, isAdmin bool, id uint) error {
	comment, err := p.discussionRepo.FindCommentById(id)
	if err != nil {
		return asNotFound(err)
	}
	if comment.UserID != userID && !isAdmin {
		return ErrForbidden
	}
	return p.discussionRepo.DeleteComment(id)
}

func (p *portalService) CreateSolution(ctx context.Context, userID uint, input dto.CreateSolutionRequest, file *multipart.FileHeader) (*domain.Solution, error) {
	courseCode := strings.ToUpper(strings.TrimSpace(input.CourseCode))
	title := strings.TrimSpace(input.Title)
	if courseCode == "" || title == "" || file == nil {
		return nil, ErrInvalidInput
	}

	url, publicID, err := p.storeFile(ctx, "portal/solutions", file)
	if err != nil {
		return nil, err
	}

	solution := &domain.Solution{
		UserID:     userID,
		CourseCode: courseCode,
		Term:       strings.TrimSpace(input.Term),
		Title:      title,
		FileURL:    url,
		PublicID:   publicID,
	}
	if err := p.solutionRepo.Create(solution); err != nil {
		return nil, err
	}
	return solution, nil
}

func (p *portalService) ListSolutions(courseCode string, includeUnapproved bool, limit, offset int) ([]domain.Solution, error) {
	return p.solutionRepo.List(strings.ToUpper(strings.TrimSpace(courseCode)), !includeUnapproved, clampLimit(limit), offset)
}

func (p *portalService) DeleteSolution(userID uint, isAdmin bool, id uint) error {
	solution, err := p.solutionRepo.FindById(id)
	if err != nil {
		return asNotFound(err)
	}
	if solution.UserID != userID && !isAdmin {
		return ErrForbidden
	}
	return p.solutionRepo.Delete(id)
}

func (p *portalService) ApproveSolution(id uint) error {
	if _, err := p.solutionRepo.FindById(id); err != nil {
		return asNotFound(err)
	}
	return p.solutionRepo.SetApproved(id, true)
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return 20
	}
	return limit
}

func asNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
