package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/iliyamo/music-manager/internal/apperr"
	"github.com/iliyamo/music-manager/internal/queue"
	"github.com/iliyamo/music-manager/internal/repository"
	"github.com/iliyamo/music-manager/internal/utils"
)

const (
	otpValidity          = 10 * time.Minute
	tempPasswordValidity = 24 * time.Hour
)

// RecoveryService runs the OTP-gated password reset flow.  No explicit
// per-attempt state is persisted; progress is inferred from which OTP
// records exist.  verify-otp consumes the code and leaves a short-lived
// verified marker, and reset-password honors either a live code or that
// marker — so the documented forgot → verify → reset sequence works while
// every code is still accepted at most once per step.
type RecoveryService struct {
	users      UserStore
	otps       OTPStore
	temps      TempPasswordStore
	mail       MailPublisher
	bcryptCost int
}

func NewRecoveryService(users UserStore, otps OTPStore, temps TempPasswordStore, mail MailPublisher, bcryptCost int) *RecoveryService {
	return &RecoveryService{users: users, otps: otps, temps: temps, mail: mail, bcryptCost: bcryptCost}
}

// RequestOTP issues a fresh 6-digit code for the user and enqueues the
// mail carrying it.  Issuing replaces any earlier code, so only the most
// recent one can validate.  Mail enqueue failures are logged and ignored:
// the code is live regardless of delivery outcome.
func (s *RecoveryService) RequestOTP(ctx context.Context, email string) error {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.ErrUserNotFound
		}
		return err
	}
	code, err := utils.RandomOTP()
	if err != nil {
		return err
	}
	if err := s.otps.Save(ctx, u.ID, code, otpValidity); err != nil {
		return err
	}
	s.enqueue(ctx, queue.EmailEvent{
		To:      u.Email,
		Subject: "Music Manager verification code",
		Body: fmt.Sprintf("Hello %s,\n\nYour verification code is %s. It is valid for %d minutes.\n\nIf you did not request this code, you can ignore this message.",
			u.Username, code, int(otpValidity.Minutes())),
	})
	return nil
}

// VerifyOTP consumes the user's code when it matches and records the
// verified marker for the reset step.  Missing, expired and mismatched
// codes are indistinguishable to the caller.
func (s *RecoveryService) VerifyOTP(ctx context.Context, email, code string) error {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.ErrUserNotFound
		}
		return err
	}
	code = strings.TrimSpace(code)
	ok, err := s.otps.Consume(ctx, u.ID, code)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.ErrInvalidOtp
	}
	if err := s.otps.MarkVerified(ctx, u.ID, code, otpValidity); err != nil {
		return err
	}
	return nil
}

// ResetPassword sets a new password for the user after re-validating the
// OTP: a still-live code is consumed directly, otherwise the verified
// marker left by VerifyOTP is consumed.  Either way the code cannot be
// used again afterwards.
func (s *RecoveryService) ResetPassword(ctx context.Context, email, code, newPassword, confirmPassword string) (Profile, error) {
	if newPassword != confirmPassword {
		return Profile{}, apperr.ErrInvalidRequest
	}
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Profile{}, apperr.ErrUserNotFound
		}
		return Profile{}, err
	}
	code = strings.TrimSpace(code)
	ok, err := s.otps.Consume(ctx, u.ID, code)
	if err != nil {
		return Profile{}, err
	}
	if !ok {
		ok, err = s.otps.ConsumeVerified(ctx, u.ID, code)
		if err != nil {
			return Profile{}, err
		}
	}
	if !ok {
		return Profile{}, apperr.ErrInvalidOtp
	}
	hash, err := utils.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return Profile{}, err
	}
	if err := s.users.UpdatePassword(ctx, u.ID, hash); err != nil {
		return Profile{}, err
	}
	s.enqueue(ctx, queue.EmailEvent{
		To:      u.Email,
		Subject: "Your password was reset",
		Body: fmt.Sprintf("Hello %s,\n\nYour Music Manager password was reset successfully. If this was not you, contact support immediately.",
			u.Username),
	})
	return profileOf(u), nil
}

// IssueTemporaryPassword generates a 12-character temporary password,
// stores it with a 24-hour TTL and mails it to the user.  This is the
// secondary recovery path; the OTP flow is the primary one.
func (s *RecoveryService) IssueTemporaryPassword(ctx context.Context, email string) (string, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", apperr.ErrUserNotFound
		}
		return "", err
	}
	password, err := utils.RandomPassword(12)
	if err != nil {
		return "", err
	}
	if err := s.temps.Issue(ctx, u.Email, password, tempPasswordValidity); err != nil {
		return "", err
	}
	s.enqueue(ctx, queue.EmailEvent{
		To:      u.Email,
		Subject: "Your temporary password",
		Body: fmt.Sprintf("Hello %s,\n\nYour temporary password is %s. It expires in 24 hours; change it right after logging in.",
			u.Username, password),
	})
	return password, nil
}

// ConsumeTemporaryPassword validates and invalidates a previously issued
// temporary password.
func (s *RecoveryService) ConsumeTemporaryPassword(ctx context.Context, email, password string) (bool, error) {
	return s.temps.Consume(ctx, email, password)
}

func (s *RecoveryService) enqueue(ctx context.Context, ev queue.EmailEvent) {
	if err := s.mail.Publish(ctx, ev); err != nil {
		log.Printf("recovery: enqueue mail to %s failed: %v", ev.To, err)
	}
}
