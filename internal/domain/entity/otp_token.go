package entity

import "time"

// OtpToken stores hashed one-time codes issued for password reset.
// The plaintext code is never persisted, only its sha256 hex digest.
type OtpToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"size:100;not null;index" json:"email"`
	OtpHash   string    `gorm:"size:64;not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
	Used      bool      `gorm:"not null;default:false" json:"used"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (OtpToken) TableName() string {
	return "otp_tokens"
}

// IsExpired treats the expiry instant itself as dead, matching the
// inclusive cutoff the repository uses when reaping.
func (t *OtpToken) IsExpired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// IsActive reports whether the token can still satisfy a verification.
func (t *OtpToken) IsActive(now time.Time) bool {
	return !t.Used && !t.IsExpired(now)
}
