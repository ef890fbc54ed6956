package services

import (
	"errors"
	"strings"

	"github.com/campuslink/portal_service/internal/domain"
	"github.com/campuslink/portal_service/internal/dto"
	"github.com/campuslink/portal_service/internal/repository"
	"gorm.io/gorm"
)

var ErrBadgeExists = errors.New("badge name already exists")

type AdminService interface {
	CreateAnnouncement(adminID uint, input dto.AnnouncementRequest) (*domain.Announcement, error)
	UpdateAnnouncement(id uint, input dto.AnnouncementRequest) (*domain.Announcement, error)
	ListAnnouncements(limit, offset int) ([]domain.Announcement, error)
	DeleteAnnouncement(id uint) error

	CreateBadge(input dto.CreateBadgeRequest) (*domain.Badge, error)
	ListBadges() ([]domain.Badge, error)
	DeleteBadge(id uint) error
	AwardBadge(adminID, badgeID, userID uint) error
}

type adminService struct {
	announcementRepo repository.AnnouncementRepository
	badgeRepo        repository.BadgeRepository
	userRepo         repository.UserRepository
}

func NewAdminService(
	announcementRepo repository.AnnouncementRepository,
	badgeRepo repository.BadgeRepository,
	userRepo repository.UserRepository,
) AdminService {
	return &adminService{
		announcementRepo: announcementRepo,
		badgeRepo:        badgeRepo,
		userRepo:         userRepo,
	}
}

func (a *adminService) CreateAnnouncement(adminID uint, input dto.AnnouncementRequest) (*domain.Announcement, error) {
	title := strings.TrimSpace(input.Title)
	body := strings.TrimSpace(input.Body)
	if title == "" || body == "" {
		return nil, ErrInvalidInput
	}

	announcement := &domain.Announcement{
		AuthorID: adminID,
		Title:    title,
		Body:     body,
		Pinned:   input.Pinned,
	}
	if err := a.announcementRepo.Create(announcement); err != nil {
		return nil, err
	}
	return announcement, nil
}

func (a *adminService) UpdateAnnouncement(id uint, input dto.AnnouncementRequest) (*domain.Announcement, error) {
	announcement, err := a.announcementRepo.FindById(id)
	if err != nil {
		return nil, asNotFound(err)
	}

	if title := strings.TrimSpace(input.Title); title != "" {
		announcement.Title = title
	}
	if body := strings.TrimSpace(input.Body); body != "" {
		announcement.Body = body
	}
	announcement.Pinned = input.Pinned

	if err := a.announcementRepo.Save(announcement); err != nil {
		return nil, err
	}
	return announcement, nil
}

func (a *adminService) ListAnnouncements(limit, offset int) ([]domain.Announcement, error) {
	return a.announcementRepo.List(clampLimit(limit), offset)
}

func (a *adminService) DeleteAnnouncement(id uint) error {
	if _, err := a.announcementRepo.FindById(id); err != nil {
		return asNotFound(err)
	}
	return a.announcementRepo.Delete(id)
}

func (a *adminService) CreateBadge(input dto.CreateBadgeRequest) (*domain.Badge, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrInvalidInput
	}

	badge := &domain.Badge{
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		IconURL:     strings.TrimSpace(input.IconURL),
	}
	if err := a.badgeRepo.Create(badge); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrBadgeExists
		}
		return nil, err
	}
	return badge, nil
}

func (a *adminService) ListBadges() ([]domain.Badge, error) {
	return a.badgeRepo.List()
}

func (a *adminService) DeleteBadge(id uint) error {
	if _, err := a.badgeRepo.FindById(id); err != nil {
		return asNotFound(err)
	}
	return a.badgeRepo.Delete(id)
}

func (a *adminService) AwardBadge(adminID, badgeID, userID uint) error {
	if _, err := a.badgeRepo.FindById(badgeID); err != nil {
		return asNotFound(err)
	}
	if _, err := a.userRepo.FindUserById(userID); err != nil {
		return asNotFound(err)
	}
	return a.badgeRepo.Award(&domain.UserBadge{
		UserID:    userID,
		BadgeID:   badgeID,
		AwardedBy: adminID,
	})
}
