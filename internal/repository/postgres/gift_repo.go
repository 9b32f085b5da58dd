package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/myvoice-api/internal/domain/entity"
	"github.com/yourusername/myvoice-api/internal/domain/repository"
	apperrors "github.com/yourusername/myvoice-api/internal/pkg/errors"
)

// GiftRepo реализует repository.GiftRepository
type GiftRepo struct {
	db *gorm.DB
}

// NewGiftRepo создает новый репозиторий подарков
func NewGiftRepo(db *gorm.DB) *GiftRepo {
	return &GiftRepo{db: db}
}

// Create создает новый подарок
func (r *GiftRepo) Create(gift *entity.Gift) error {
	return r.db.Create(gift).Error
}

// GetByID возвращает подарок по ID
func (r *GiftRepo) GetByID(id uint) (*entity.Gift, error) {
	var gift entity.Gift
	err := r.db.First(&gift, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &gift, nil
}

// List возвращает подарки по фильтру, новые первыми
func (r *GiftRepo) List(filter repository.GiftFilter) ([]entity.Gift, error) {
	q := r.db.Model(&entity.Gift{})

	if filter.Category != "" && filter.Category != "all" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Availability != "" && filter.Availability != "all" {
		q = q.Where("availability = ?", filter.Availability)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where("title ILIKE ? OR description ILIKE ?", pattern, pattern)
	}

	var gifts []entity.Gift
	if err := q.Order("created_at DESC").Find(&gifts).Error; err != nil {
		return nil, err
	}
	return gifts, nil
}

// Update сохраняет изменённый подарок
func (r *GiftRepo) Update(gift *entity.Gift) error {
	return r.db.Save(gift).Error
}

// Delete удаляет подарок по ID
func (r *GiftRepo) Delete(id uint) error {
	res := r.db.Delete(&entity.Gift{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Stats возвращает сводную статистику каталога
func (r *GiftRepo) Stats() (*repository.GiftStats, error) {
	stats := &repository.GiftStats{}

	if err := r.db.Model(&entity.Gift{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&entity.Gift{}).Where("availability = ?", entity.GiftAvailable).Count(&stats.Available).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&entity.Gift{}).Where("availability = ?", entity.GiftLimited).Count(&stats.Limited).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&entity.Gift{}).Where("availability = ?", entity.GiftOutOfStock).Count(&stats.OutOfStock).Error; err != nil {
		return nil, err
	}

	err := r.db.Model(&entity.Gift{}).
		Select("category, COUNT(*) AS count").
		Group("category").
		Order("count DESC").
		Scan(&stats.Categories).Error
	if err != nil {
		return nil, err
	}

	return stats, nil
}
