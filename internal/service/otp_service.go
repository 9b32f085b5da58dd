package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"math/big"
	"strings"
	"time"

	"github.com/yourusername/myvoice-api/internal/domain/entity"
	"github.com/yourusername/myvoice-api/internal/domain/repository"
	apperrors "github.com/yourusername/myvoice-api/internal/pkg/errors"
)

const defaultOtpLength = 6

// OTPService owns the lifecycle of one-time password-reset codes: issuing,
// verifying and consuming them. Only the sha256 digest of a code is stored;
// issuing a new code invalidates every previous code for the same email.
type OTPService struct {
	tokenRepo    repository.OtpTokenRepository
	emailService EmailService
	codeTTL      time.Duration
	codeLength   int
}

func NewOTPService(
	tokenRepo repository.OtpTokenRepository,
	emailService EmailService,
	codeTTL time.Duration,
	codeLength int,
) (*OTPService, error) {
	if tokenRepo == nil {
		return nil, fmt.Errorf("otp token repository is required")
	}
	if emailService == nil {
		return nil, fmt.Errorf("email service is required")
	}
	if codeTTL <= 0 {
		codeTTL = 10 * time.Minute
	}
	if codeLength <= 0 {
		codeLength = defaultOtpLength
	}

	return &OTPService{
		tokenRepo:    tokenRepo,
		emailService: emailService,
		codeTTL:      codeTTL,
		codeLength:   codeLength,
	}, nil
}

// RequestReset issues a fresh code for the email and mails it. Any code
// previously issued for the email is invalidated first — last code wins,
// even if the previous one had not expired.
func (s *OTPService) RequestReset(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("%w: email is required", apperrors.ErrValidation)
	}

	code, err := generateOtp(s.codeLength)
	if err != nil {
		return fmt.Errorf("failed to generate otp: %w", err)
	}

	if err := s.tokenRepo.DeleteAllForEmail(email); err != nil {
		return fmt.Errorf("failed to invalidate previous otp codes: %w", err)
	}

	now := time.Now()
	token := &entity.OtpToken{
		Email:     email,
		OtpHash:   hashOtp(code),
		ExpiresAt: now.Add(s.codeTTL),
		Used:      false,
		CreatedAt: now,
	}
	if err := s.tokenRepo.Create(token); err != nil {
		return fmt.Errorf("failed to store otp token: %w", err)
	}

	// Deterministic per record, so a transport-level retry cannot double-send.
	idempotencyKey := fmt.Sprintf("otp-reset:%s:%d", email, token.ID)
	if err := s.emailService.SendOtpCode(ctx, email, code, idempotencyKey); err != nil {
		// The stored record stays valid for its window; the caller is told to
		// retry, and the retry supersedes it.
		return fmt.Errorf("failed to send otp email: %w", err)
	}

	log.Printf("[OTPService] otp issued for %s (expires %s)", email, token.ExpiresAt.Format(time.RFC3339))
	return nil
}

// VerifyCode checks a submitted code without consuming it. It backs the
// "verify identity before showing the reset form" step, so the same code
// still works for the final reset afterwards.
func (s *OTPService) VerifyCode(ctx context.Context, email, code string) error {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(code) == "" {
		return fmt.Errorf("%w: email and otp are required", apperrors.ErrValidation)
	}

	_, err := s.checkActiveCode(email, code)
	return err
}

// VerifyCodeAndReset checks the code and marks it used. A second call with
// the same code fails. Applying the new password to the identity store is
// the caller's responsibility; success here only means the code was valid,
// unused and unexpired.
func (s *OTPService) VerifyCodeAndReset(ctx context.Context, email, code, newPassword string) error {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(code) == "" || newPassword == "" {
		return fmt.Errorf("%w: email, otp and new password are required", apperrors.ErrValidation)
	}

	token, err := s.checkActiveCode(email, code)
	if err != nil {
		return err
	}

	if err := s.tokenRepo.MarkUsed(token.ID); err != nil {
		return fmt.Errorf("failed to mark otp token used: %w", err)
	}

	log.Printf("[OTPService] otp consumed for %s", email)
	return nil
}

// checkActiveCode looks up the newest unused record for the email and
// validates expiry and the code digest. An expired record is purged as a
// side effect of being touched.
func (s *OTPService) checkActiveCode(email, code string) (*entity.OtpToken, error) {
	email = strings.TrimSpace(email)

	token, err := s.tokenRepo.GetLatestUnusedByEmail(email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrInvalidOTP
		}
		return nil, fmt.Errorf("failed to look up otp token: %w", err)
	}

	if token.IsExpired(time.Now()) {
		if err := s.tokenRepo.DeleteByID(token.ID); err != nil {
			return nil, fmt.Errorf("failed to purge expired otp token: %w", err)
		}
		return nil, ErrOTPExpired
	}

	expected := hashOtp(strings.TrimSpace(code))
	if subtle.ConstantTimeCompare([]byte(expected), []byte(token.OtpHash)) != 1 {
		return nil, ErrOTPMismatch
	}

	return token, nil
}

// CleanupExpired deletes every record past its expiry. Invoked by the
// background reaper; the on-access purge in checkActiveCode covers records
// the reaper has not reached yet.
func (s *OTPService) CleanupExpired() (int64, error) {
	return s.tokenRepo.DeleteExpired(time.Now())
}

// generateOtp samples a numeric code uniformly over the full digit range for
// the length, e.g. [100000, 999999] for 6 digits. No leading zeros.
func generateOtp(length int) (string, error) {
	min := int64(1)
	for i := 1; i < length; i++ {
		min *= 10
	}
	max := min*10 - 1

	n, err := rand.Int(rand.Reader, big.NewInt(max-min+1))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", n.Int64()+min), nil
}

func hashOtp(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}
