package postgres

import (
	"errors"
	"fmt"
	"time"

	"github.com/yourusername/myvoice-api/internal/domain/entity"
	apperrors "github.com/yourusername/myvoice-api/internal/pkg/errors"
	"gorm.io/gorm"
)

type OtpTokenRepo struct {
	db *gorm.DB
}

func NewOtpTokenRepo(db *gorm.DB) *OtpTokenRepo {
	return &OtpTokenRepo{db: db}
}

func (r *OtpTokenRepo) Create(token *entity.OtpToken) error {
	return r.db.Create(token).Error
}

func (r *OtpTokenRepo) GetLatestUnusedByEmail(email string) (*entity.OtpToken, error) {
	var token entity.OtpToken
	err := r.db.
		Where("email = ? AND used = false", email).
		Order("created_at DESC").
		First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get otp token: %w", err)
	}
	return &token, nil
}

func (r *OtpTokenRepo) MarkUsed(id uint) error {
	return r.db.Model(&entity.OtpToken{}).
		Where("id = ?", id).
		Update("used", true).Error
}

func (r *OtpTokenRepo) DeleteByID(id uint) error {
	return r.db.Delete(&entity.OtpToken{}, id).Error
}

func (r *OtpTokenRepo) DeleteAllForEmail(email string) error {
	return r.db.Where("email = ?", email).Delete(&entity.OtpToken{}).Error
}

func (r *OtpTokenRepo) DeleteExpired(now time.Time) (int64, error) {
	res := r.db.Where("expires_at <= ?", now).Delete(&entity.OtpToken{})
	return res.RowsAffected, res.Error
}
