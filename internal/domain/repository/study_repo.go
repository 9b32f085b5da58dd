package repository

import "github.com/yourusername/myvoice-api/internal/domain/entity"

// StudyRepository определяет методы доступа к исследованиям
type StudyRepository interface {
	Create(study *entity.Study) error
	GetByID(id uint) (*entity.Study, error)
	// List возвращает все исследования, новые первыми
	List() ([]entity.Study, error)
	// ListActive возвращает исследования со статусом active
	ListActive() ([]entity.Study, error)
	Update(study *entity.Study) error
	Delete(id uint) error
	// AddParticipant атомарно увеличивает счётчик участников, отклоняя
	// заполненные исследования
	AddParticipant(id uint) (*entity.Study, error)
}
