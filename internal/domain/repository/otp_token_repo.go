package repository

import (
	"time"

	"github.com/yourusername/myvoice-api/internal/domain/entity"
)

// OtpTokenRepository persists hashed one-time reset codes.
type OtpTokenRepository interface {
	Create(token *entity.OtpToken) error
	// GetLatestUnusedByEmail returns the newest record for the email with
	// used = false, or apperrors.ErrNotFound.
	GetLatestUnusedByEmail(email string) (*entity.OtpToken, error)
	MarkUsed(id uint) error
	DeleteByID(id uint) error
	// DeleteAllForEmail invalidates every outstanding code for the email.
	DeleteAllForEmail(email string) error
	// DeleteExpired removes records whose expiry has passed and returns the
	// number of rows deleted. Called by the background reaper.
	DeleteExpired(now time.Time) (int64, error)
}
