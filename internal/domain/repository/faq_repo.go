package repository

import "github.com/yourusername/myvoice-api/internal/domain/entity"

// FAQRepository определяет методы доступа к записям FAQ
type FAQRepository interface {
	Create(faq *entity.FAQ) error
	GetByID(id uint) (*entity.FAQ, error)
	// List возвращает все записи, отсортированные по priority DESC, created_at DESC
	List() ([]entity.FAQ, error)
	Update(faq *entity.FAQ) error
	Delete(id uint) error
}
