package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/myvoice-api/internal/domain/entity"
	apperrors "github.com/yourusername/myvoice-api/internal/pkg/errors"
)

// FAQRepo реализует repository.FAQRepository
type FAQRepo struct {
	db *gorm.DB
}

// NewFAQRepo создает новый репозиторий FAQ
func NewFAQRepo(db *gorm.DB) *FAQRepo {
	return &FAQRepo{db: db}
}

// Create создает новую запись FAQ
func (r *FAQRepo) Create(faq *entity.FAQ) error {
	return r.db.Create(faq).Error
}

// GetByID возвращает запись FAQ по ID
func (r *FAQRepo) GetByID(id uint) (*entity.FAQ, error) {
	var faq entity.FAQ
	err := r.db.First(&faq, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &faq, nil
}

// List возвращает все записи FAQ, важные первыми
func (r *FAQRepo) List() ([]entity.FAQ, error) {
	var faqs []entity.FAQ
	err := r.db.Order("priority DESC, created_at DESC").Find(&faqs).Error
	if err != nil {
		return nil, err
	}
	return faqs, nil
}

// Update сохраняет изменённую запись FAQ
func (r *FAQRepo) Update(faq *entity.FAQ) error {
	return r.db.Save(faq).Error
}

// Delete удаляет запись FAQ по ID
func (r *FAQRepo) Delete(id uint) error {
	res := r.db.Delete(&entity.FAQ{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
