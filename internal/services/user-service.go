package services

import (
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/campuslink/portal_service/internal/domain"
	"github.com/campuslink/portal_service/internal/dto"
	"github.com/campuslink/portal_service/internal/helper"
	"github.com/campuslink/portal_service/internal/helper/utils"
	"github.com/campuslink/portal_service/internal/interfaces"
	"github.com/campuslink/portal_service/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const minPasswordLen = 8

var (
	ErrEmailTaken           = errors.New("email already registered")
	ErrUsernameTaken        = errors.New("username already taken")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrVerificationRequired = errors.New("email verification required")
	ErrDomainNotAllowed     = errors.New("email must use the institutional domain")
	ErrUserNotFound         = errors.New("user not found")
	ErrInvalidInput         = errors.New("invalid inputs")
	ErrPasswordTooShort     = errors.New("password must be at least 8 characters")
	ErrPasswordMismatch     = errors.New("passwords do not match")
)

// VerifyOtpResult carries whichever branch of verify-otp ran: a completed
// signup (User set) or a reset-eligibility confirmation (CanResetPassword).
type VerifyOtpResult struct {
	SignupCompleted  bool
	User             *domain.User
	Email            string
	CanResetPassword bool
}

type UserService interface {
	Signup(input dto.SignupRequest) (string, error)
	VerifyOtp(input dto.VerifyOtpRequest) (*VerifyOtpResult, error)
	Login(input dto.LoginRequest) (*domain.User, error)
	ForgotPassword(email string) error
	ResendOtp(email string) error
	ResetPassword(input dto.ResetPasswordRequest) error

	GetUser(userID uint) (*domain.User, error)
	UpdateProfile(userID uint, input dto.UpdateProfileRequest) (*domain.User, error)
	GetProfile(userID uint) (*dto.ProfileResponse, error)
	IsAdmin(userID uint) (bool, error)
}

type userService struct {
	repo           repository.UserRepository
	pendingRepo    repository.PendingUserRepository
	activationRepo repository.ActivationRepository
	badgeRepo      repository.BadgeRepository

	otp  OtpService
	auth helper.Auth

	producer    interfaces.ProducerHandler
	emailDomain string
}

func NewUserService(
	repo repository.UserRepository,
	pendingRepo repository.PendingUserRepository,
	activationRepo repository.ActivationRepository,
	badgeRepo repository.BadgeRepository,
	otp OtpService,
	auth helper.Auth,
	producer interfaces.ProducerHandler,
	emailDomain string,
) UserService {
	return &userService{
		repo:           repo,
		pendingRepo:    pendingRepo,
		activationRepo: activationRepo,
		badgeRepo:      badgeRepo,
		otp:            otp,
		auth:           auth,
		producer:       producer,
		emailDomain:    emailDomain,
	}
}

// Signup stages a registration and issues a signup OTP. A prior unverified
// attempt for the same email is silently replaced.
func (u *userService) Signup(input dto.SignupRequest) (string, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	username := strings.TrimSpace(input.Username)
	fullName := strings.TrimSpace(input.FullName)

	if email == "" || username == "" || fullName == "" || strings.TrimSpace(input.Password) == "" {
		return "", ErrInvalidInput
	}
	if len(input.Password) < minPasswordLen {
		return "", ErrPasswordTooShort
	}
	if _, err := utils.ExtractEmailDomain(email); err != nil {
		return "", ErrInvalidInput
	}
	if !utils.HasInstitutionalDomain(email, u.emailDomain) {
		return "", ErrDomainNotAllowed
	}

	if existing, err := u.repo.FindUserByEmail(email); err == nil && existing != nil && existing.ID != 0 {
		return "", ErrEmailTaken
	}
	if existing, err := u.repo.FindUserByUsername(username); err == nil && existing != nil && existing.ID != 0 {
		return "", ErrUsernameTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.New("failed to hash password")
	}

	pending := &domain.PendingUser{
		Username:     username,
		FullName:     fullName,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}
	if err := u.pendingRepo.Upsert(pending); err != nil {
		return "", err
	}

	if err := u.issueAndPublish(email, fullName, domain.OtpPurposeSignup); err != nil {
		return "", err
	}

	if err := u.otp.SweepExpired(); err != nil {
		log.Printf("otp sweep error: %v", err)
	}

	return email, nil
}

// VerifyOtp serves both halves of the flow. The code's stored purpose is the
// discriminator: a signup code can only activate a pending registration and a
// reset code can only unlock a password reset.
func (u *userService) VerifyOtp(input dto.VerifyOtpRequest) (*VerifyOtpResult, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	code := strings.TrimSpace(input.Code)
	if email == "" || code == "" {
		return nil, ErrInvalidInput
	}

	pending, err := u.pendingRepo.FindByEmail(email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if pending != nil && pending.ID != 0 {
		row, err := u.otp.Validate(email, code, domain.OtpPurposeSignup)
		if err != nil {
			return nil, err
		}

		user, err := u.activationRepo.ActivatePending(pending, row.ID)
		if err != nil {
			// Lost a race: the email or username got claimed after signup staged it.
			if helper.IsUniqueViolation(err, "") || errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, ErrEmailTaken
			}
			return nil, err
		}
		log.Printf("signup verified: user %d (%s)", user.ID, user.Email)
		return &VerifyOtpResult{
			SignupCompleted: true,
			User:            user,
			Email:           email,
		}, nil
	}

	// Reset branch: confirm the code without consuming it, so the upcoming
	// reset-password call can still find it.
	if _, err := u.otp.Validate(email, code, domain.OtpPurposeReset); err != nil {
		return nil, err
	}
	if _, err := u.repo.FindUserByEmail(email); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return &VerifyOtpResult{
		Email:            email,
		CanResetPassword: true,
	}, nil
}

func (u *userService) Login(input dto.LoginRequest) (*domain.User, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	password := strings.TrimSpace(input.Password)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := u.repo.FindUserByEmail(email)
	if err != nil || user == nil || user.ID == 0 {
		return nil, ErrInvalidCredentials
	}

	if err := u.auth.VerifyPassword(password, user.PasswordHash); err != nil {
		return nil, ErrInvalidCredentials
	}

	// Admins skip both gates.
	if user.IsAdmin() {
		return user, nil
	}

	if !utils.HasInstitutionalDomain(user.Email, u.emailDomain) {
		log.Printf("login rejected: user %d outside institutional domain", user.ID)
		return nil, ErrDomainNotAllowed
	}
	if !user.Verified {
		return nil, ErrVerificationRequired
	}

	return user, nil
}

func (u *userService) ForgotPassword(email string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return ErrInvalidInput
	}

	user, err := u.repo.FindUserByEmail(email)
	if err != nil || user == nil || user.ID == 0 {
		return ErrUserNotFound
	}

	if err := u.issueAndPublish(email, user.FullName, domain.OtpPurposeReset); err != nil {
		return err
	}

	if err := u.otp.SweepExpired(); err != nil {
		log.Printf("otp sweep error: %v", err)
	}
	return nil
}

// ResendOtp repeats issuance. Purpose is inferred server side: a pending
// registration means a signup code, an existing account means a reset code.
func (u *userService) ResendOtp(email string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return ErrInvalidInput
	}

	if pending, err := u.pendingRepo.FindByEmail(email); err == nil && pending != nil && pending.ID != 0 {
		return u.issueAndPublish(email, pending.FullName, domain.OtpPurposeSignup)
	}

	user, err := u.repo.FindUserByEmail(email)
	if err != nil || user == nil || user.ID == 0 {
		return ErrUserNotFound
	}
	return u.issueAndPublish(email, user.FullName, domain.OtpPurposeReset)
}

func (u *userService) ResetPassword(input dto.ResetPasswordRequest) error {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	code := strings.TrimSpace(input.Code)

	if email == "" || code == "" || strings.TrimSpace(input.NewPassword) == "" {
		return ErrInvalidInput
	}
	if input.NewPassword != input.ConfirmPassword {
		return ErrPasswordMismatch
	}
	if len(input.NewPassword) < minPasswordLen {
		return ErrPasswordTooShort
	}

	// The verify step matches this code without consuming it, so a strict
	// re-validation still finds it unused. After Consume below the code is
	// dead and a repeat reset fails.
	row, err := u.otp.Validate(email, code, domain.OtpPurposeReset)
	if err != nil {
		return err
	}

	user, err := u.repo.FindUserByEmail(email)
	if err != nil || user == nil || user.ID == 0 {
		return ErrUserNotFound
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return errors.New("failed to hash password")
	}

	user.PasswordHash = string(hashedPassword)
	if err := u.repo.SaveUser(user); err != nil {
		return err
	}

	// First point in the reset flow where the code is actually burned.
	if err := u.otp.Consume(row.ID); err != nil {
		return err
	}

	log.Printf("password reset: user %d", user.ID)
	return nil
}

func (u *userService) GetUser(userID uint) (*domain.User, error) {
	user, err := u.repo.FindUserById(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (u *userService) UpdateProfile(userID uint, input dto.UpdateProfileRequest) (*domain.User, error) {
	user, err := u.GetUser(userID)
	if err != nil {
		return nil, err
	}

	if input.FullName != nil {
		fn := strings.TrimSpace(*input.FullName)
		if fn == "" {
			return nil, ErrInvalidInput
		}
		user.FullName = fn
	}
	if input.Degree != nil {
		user.Degree = strings.TrimSpace(*input.Degree)
	}
	if input.Subjects != nil {
		subjects := make([]string, 0, len(*input.Subjects))
		for _, s := range *input.Subjects {
			if s = strings.TrimSpace(s); s != "" {
				subjects = append(subjects, s)
			}
		}
		user.Subjects = subjects
	}

	if err := u.repo.SaveUser(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (u *userService) GetProfile(userID uint) (*dto.ProfileResponse, error) {
	user, err := u.GetUser(userID)
	if err != nil {
		return nil, err
	}

	badges, err := u.badgeRepo.ListForUser(userID)
	if err != nil {
		return nil, err
	}

	resp := &dto.ProfileResponse{
		User:   ToUserResponse(user),
		Badges: make([]dto.BadgeResponse, 0, len(badges)),
	}
	for _, b := range badges {
		resp.Badges = append(resp.Badges, dto.BadgeResponse{
			ID:          b.ID,
			Name:        b.Name,
			Description: b.Description,
			IconURL:     b.IconURL,
		})
	}
	return resp, nil
}

func (u *userService) IsAdmin(userID uint) (bool, error) {
	user, err := u.GetUser(userID)
	if err != nil {
		return false, err
	}
	return user.IsAdmin(), nil
}

func (u *userService) issueAndPublish(email, fullName, purpose string) error {
	row, err := u.otp.Issue(email, purpose)
	if err != nil {
		return err
	}

	// The code never appears in an HTTP response; it travels out of band.
	log.Printf("otp issued: email=%s purpose=%s expires=%s", email, purpose, row.ExpiresAt.Format(time.RFC3339))

	if u.producer == nil {
		return nil
	}

	key := dto.EventSignupOtp
	if purpose == domain.OtpPurposeReset {
		key = dto.EventResetOtp
	}
	payload, err := json.Marshal(dto.OtpMailEvent{
		Email:     email,
		FullName:  fullName,
		Code:      row.Code,
		Purpose:   purpose,
		ExpiresAt: row.ExpiresAt.Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	if err := u.producer.PublishMessage([]byte(key), payload); err != nil {
		// Mail delivery is best effort; the signup itself already succeeded.
		log.Printf("publish %s failed: %v", key, err)
	}
	return nil
}

func ToUserResponse(user *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:       user.ID,
		Username: user.Username,
		FullName: user.FullName,
		Email:    user.Email,
		Role:     user.Role,
		Verified: user.Verified,
		Degree:   user.Degree,
		Subjects: user.Subjects,
	}
}
