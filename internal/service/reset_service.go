package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/GPC-Itarsi/GPC-Itarsi/internal/mailer"
	"github.com/GPC-Itarsi/GPC-Itarsi/internal/model"
	"github.com/GPC-Itarsi/GPC-Itarsi/internal/repository"
	"github.com/GPC-Itarsi/GPC-Itarsi/internal/utils"
)

// ErrInvalidOrExpiredOTP covers every reset-flow proof failure: wrong OTP,
// expired OTP, consumed or expired proof token, unknown email. One error so
// responses reveal nothing about which check failed.
var ErrInvalidOrExpiredOTP = errors.New("invalid or expired OTP")

// ResetService drives the three-step OTP password reset. All state lives in
// the user record's reset fields; each transition is a single store update.
type ResetService interface {
	RequestReset(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, email, otp string) (string, error)
	ResetPassword(ctx context.Context, email, otp, newPassword, proofToken string) error
}

type resetService struct {
	userRepo      repository.UserRepository
	mailer        mailer.Mailer
	otpTTL        time.Duration
	otpGraceTTL   time.Duration
	resetProofTTL time.Duration
}

// NewResetService creates a new ResetService.
func NewResetService(userRepo repository.UserRepository, m mailer.Mailer, otpTTL, otpGraceTTL, resetProofTTL time.Duration) ResetService {
	return &resetService{
		userRepo:      userRepo,
		mailer:        m,
		otpTTL:        otpTTL,
		otpGraceTTL:   otpGraceTTL,
		resetProofTTL: resetProofTTL,
	}
}

// RequestReset issues a fresh OTP to the given email. An unknown email is
// not an error: the caller must answer identically either way so responses
// carry no account-enumeration signal. A repeated request overwrites the
// previous OTP.
func (s *resetService) RequestReset(ctx context.Context, email string) error {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("error finding user by email: %w", err)
	}
	if user == nil {
		return nil
	}

	otp, err := utils.GenerateOTP(utils.OTPLength)
	if err != nil {
		return fmt.Errorf("failed to generate OTP: %w", err)
	}

	expiry := time.Now().Add(s.otpTTL)
	if err := s.userRepo.SetResetOTP(ctx, user.ID, utils.HashToken(otp), expiry); err != nil {
		return fmt.Errorf("failed to store reset OTP: %w", err)
	}

	subject, body := mailer.OTPEmail(otp, int(s.otpTTL.Minutes()))
	if err := s.mailer.Send(user.Email, subject, body); err != nil {
		return fmt.Errorf("failed to send OTP email: %w", err)
	}
	return nil
}

// VerifyOTP exchanges a valid OTP for an opaque reset-proof token. The OTP
// stays valid for a short grace window afterwards, so the final step can
// fall back to it if the proof token gets lost client-side.
func (s *resetService) VerifyOTP(ctx context.Context, email, otp string) (string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("error finding user by email: %w", err)
	}
	if user == nil || !otpMatches(user, otp) {
		return "", ErrInvalidOrExpiredOTP
	}
	if proofOutstanding(user) {
		// The OTP was already exchanged for a proof token. It stays usable as
		// the finalize fallback, but it buys only one proof.
		return "", ErrInvalidOrExpiredOTP
	}

	proof, err := utils.GenerateResetProof()
	if err != nil {
		return "", fmt.Errorf("failed to generate reset proof: %w", err)
	}

	now := time.Now()
	err = s.userRepo.SetResetProof(ctx, user.ID,
		utils.HashToken(proof), now.Add(s.resetProofTTL), now.Add(s.otpGraceTTL))
	if err != nil {
		return "", fmt.Errorf("failed to store reset proof: %w", err)
	}
	return proof, nil
}

// ResetPassword finalizes the flow. The proof token is checked first; the
// OTP is the fallback path. On success the password hash is replaced and
// every reset field cleared in one update, so repeating the call with the
// consumed proof fails without touching the new password. Any proof failure
// leaves the record unchanged.
func (s *resetService) ResetPassword(ctx context.Context, email, otp, newPassword, proofToken string) error {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("error finding user by email: %w", err)
	}
	if user == nil {
		return ErrInvalidOrExpiredOTP
	}

	if !proofMatches(user, proofToken) && !otpMatches(user, otp) {
		return ErrInvalidOrExpiredOTP
	}

	newHash, err := utils.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, newHash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	// Best-effort notification; the reset itself already succeeded.
	subject, body := mailer.ResetConfirmationEmail()
	if err := s.mailer.Send(user.Email, subject, body); err != nil {
		log.Printf("Failed to send reset confirmation to %s: %v", user.Email, err)
	}
	return nil
}

func otpMatches(user *model.User, otp string) bool {
	if otp == "" || user.ResetOTPHash == "" || user.ResetOTPExpiry == nil {
		return false
	}
	if user.ResetOTPExpiry.Before(time.Now()) {
		return false
	}
	return user.ResetOTPHash == utils.HashToken(otp)
}

func proofOutstanding(user *model.User) bool {
	return user.ResetTokenHash != "" && user.ResetTokenExpiry != nil &&
		user.ResetTokenExpiry.After(time.Now())
}

func proofMatches(user *model.User, proofToken string) bool {
	if proofToken == "" || user.ResetTokenHash == "" || user.ResetTokenExpiry == nil {
		return false
	}
	if user.ResetTokenExpiry.Before(time.Now()) {
		return false
	}
	return user.ResetTokenHash == utils.HashToken(proofToken)
}
