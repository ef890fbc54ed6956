package services

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"time"

	"github.com/campuslink/portal_service/internal/domain"
	"github.com/campuslink/portal_service/internal/repository"
	"gorm.io/gorm"
)

const (
	otpTTL     = 10 * time.Minute
	pendingTTL = 24 * time.Hour
)

// ErrOtpInvalid covers wrong, consumed and expired codes alike; callers must
// not tell the client which half failed.
var ErrOtpInvalid = errors.New("invalid or expired code")

type OtpService interface {
	Generate() (string, error)
	Issue(email, purpose string) (*domain.OtpCode, error)
	Validate(email, code, purpose string) (*domain.OtpCode, error)
	Consume(id uint) error
	SweepExpired() error
}

type otpService struct {
	otpRepo     repository.OtpRepository
	pendingRepo repository.PendingUserRepository
}

func NewOtpService(otpRepo repository.OtpRepository, pendingRepo repository.PendingUserRepository) OtpService {
	return &otpService{
		otpRepo:     otpRepo,
		pendingRepo: pendingRepo,
	}
}

// Generate draws uniformly from 000000-999999, so leading zeros are valid.
func (s *otpService) Generate() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// Issue mints a fresh code and retires any still-unused codes for the same
// email and purpose, so at most one code per (email, purpose) is live.
func (s *otpService) Issue(email, purpose string) (*domain.OtpCode, error) {
	if purpose != domain.OtpPurposeSignup && purpose != domain.OtpPurposeReset {
		return nil, fmt.Errorf("unknown otp purpose %q", purpose)
	}

	code, err := s.Generate()
	if err != nil {
		return nil, err
	}

	if err := s.otpRepo.InvalidateUnused(email, purpose); err != nil {
		return nil, err
	}

	row := &domain.OtpCode{
		Email:     email,
		Code:      code,
		Purpose:   purpose,
		ExpiresAt: time.Now().Add(otpTTL),
		Used:      false,
	}
	if err := s.otpRepo.Create(row); err != nil {
		return nil, err
	}
	return row, nil
}

func (s *otpService) Validate(email, code, purpose string) (*domain.OtpCode, error) {
	row, err := s.otpRepo.FindValid(email, code, purpose, time.Now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOtpInvalid
		}
		return nil, err
	}
	return row, nil
}

func (s *otpService) Consume(id uint) error {
	return s.otpRepo.MarkUsed(nil, id)
}

// SweepExpired drops expired codes and pending signups past their TTL. Safe
// to run opportunistically; there is no ordering requirement.
func (s *otpService) SweepExpired() error {
	codes, err := s.otpRepo.DeleteExpired(time.Now())
	if err != nil {
		return err
	}
	pendings, err := s.pendingRepo.DeleteOlderThan(time.Now().Add(-pendingTTL))
	if err != nil {
		return err
	}
	if codes > 0 || pendings > 0 {
		log.Printf("otp sweep: removed %d codes, %d stale pending signups", codes, pendings)
	}
	return nil
}
