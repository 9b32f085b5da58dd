package postgres

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yourusername/myvoice-api/internal/domain/entity"
	apperrors "github.com/yourusername/myvoice-api/internal/pkg/errors"
)

// StudyRepo реализует repository.StudyRepository
type StudyRepo struct {
	db *gorm.DB
}

// NewStudyRepo создает новый репозиторий исследований
func NewStudyRepo(db *gorm.DB) *StudyRepo {
	return &StudyRepo{db: db}
}

// Create создает новое исследование
func (r *StudyRepo) Create(study *entity.Study) error {
	return r.db.Create(study).Error
}

// GetByID возвращает исследование по ID
func (r *StudyRepo) GetByID(id uint) (*entity.Study, error) {
	var study entity.Study
	err := r.db.First(&study, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &study, nil
}

// List возвращает все исследования, новые первыми
func (r *StudyRepo) List() ([]entity.Study, error) {
	var studies []entity.Study
	if err := r.db.Order("created_at DESC").Find(&studies).Error; err != nil {
		return nil, err
	}
	return studies, nil
}

// ListActive возвращает исследования со статусом active
func (r *StudyRepo) ListActive() ([]entity.Study, error) {
	var studies []entity.Study
	err := r.db.Where("status = ?", entity.StudyStatusActive).
		Order("created_at DESC").
		Find(&studies).Error
	if err != nil {
		return nil, err
	}
	return studies, nil
}

// Update сохраняет изменённое исследование
func (r *StudyRepo) Update(study *entity.Study) error {
	return r.db.Save(study).Error
}

// Delete удаляет исследование по ID
func (r *StudyRepo) Delete(id uint) error {
	res := r.db.Delete(&entity.Study{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// AddParticipant увеличивает счётчик участников. Строка блокируется на время
// проверки лимита, чтобы два одновременных участника не превысили его.
func (r *StudyRepo) AddParticipant(id uint) (*entity.Study, error) {
	var study entity.Study
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&study, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrNotFound
			}
			return err
		}
		if study.IsFull() {
			return apperrors.ErrConflict
		}
		study.Participants++
		return tx.Save(&study).Error
	})
	if err != nil {
		return nil, err
	}
	return &study, nil
}
