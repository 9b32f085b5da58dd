package postgres

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yourusername/myvoice-api/internal/domain/entity"
	"github.com/yourusername/myvoice-api/internal/domain/repository"
	apperrors "github.com/yourusername/myvoice-api/internal/pkg/errors"
)

// QuestionRepo реализует repository.QuestionRepository
type QuestionRepo struct {
	db *gorm.DB
}

// NewQuestionRepo создает новый репозиторий опросов
func NewQuestionRepo(db *gorm.DB) *QuestionRepo {
	return &QuestionRepo{db: db}
}

// Create создает новый опрос
func (r *QuestionRepo) Create(question *entity.Question) error {
	return r.db.Create(question).Error
}

// GetByID возвращает опрос по ID
func (r *QuestionRepo) GetByID(id uint) (*entity.Question, error) {
	var question entity.Question
	err := r.db.First(&question, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &question, nil
}

// List возвращает опросы по фильтру, новые первыми
func (r *QuestionRepo) List(filter repository.QuestionFilter) ([]entity.Question, error) {
	q := r.db.Model(&entity.Question{})

	if filter.Status != "" && filter.Status != "all" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Category != "" && filter.Category != "all" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		// Теги лежат в JSONB, поэтому ищем по их текстовому представлению
		q = q.Where("title ILIKE ? OR description ILIKE ? OR tags::text ILIKE ?", pattern, pattern, pattern)
	}

	var questions []entity.Question
	if err := q.Order("created_at DESC").Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

// Update сохраняет изменённый опрос
func (r *QuestionRepo) Update(question *entity.Question) error {
	return r.db.Save(question).Error
}

// Delete удаляет опрос по ID
func (r *QuestionRepo) Delete(id uint) error {
	res := r.db.Delete(&entity.Question{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Vote увеличивает счётчик голосов выбранного варианта.
// Счётчики лежат внутри JSONB, поэтому строка блокируется на время
// read-modify-write (SELECT ... FOR UPDATE), чтобы конкурирующие голоса
// не потерялись.
func (r *QuestionRepo) Vote(id uint, optionIndex int) (*entity.Question, error) {
	var question entity.Question
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&question, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrNotFound
			}
			return err
		}
		if !question.IsPublished() {
			return apperrors.ErrConflict
		}
		if !question.RecordVote(optionIndex) {
			return apperrors.ErrValidation
		}
		return tx.Save(&question).Error
	})
	if err != nil {
		return nil, err
	}
	return &question, nil
}

// Like увеличивает счётчик лайков опроса
func (r *QuestionRepo) Like(id uint) (*entity.Question, error) {
	var question entity.Question
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&entity.Question{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"total_likes": gorm.Expr("total_likes + 1"),
				"updated_at":  time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.ErrNotFound
		}
		return tx.First(&question, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &question, nil
}

// Stats возвращает сводную статистику опросов
func (r *QuestionRepo) Stats() (*repository.QuestionStats, error) {
	stats := &repository.QuestionStats{}

	if err := r.db.Model(&entity.Question{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&entity.Question{}).Where("status = ?", entity.QuestionStatusPublished).Count(&stats.Published).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&entity.Question{}).Where("status = ?", entity.QuestionStatusDraft).Count(&stats.Draft).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&entity.Question{}).Where("status = ?", entity.QuestionStatusClosed).Count(&stats.Closed).Error; err != nil {
		return nil, err
	}

	err := r.db.Model(&entity.Question{}).
		Select("category, COUNT(*) AS count").
		Group("category").
		Order("count DESC").
		Scan(&stats.Categories).Error
	if err != nil {
		return nil, err
	}

	totals := struct {
		TotalVotes    int64
		TotalLikes    int64
		TotalComments int64
	}{}
	err = r.db.Model(&entity.Question{}).
		Select("COALESCE(SUM(total_votes),0) AS total_votes, COALESCE(SUM(total_likes),0) AS total_likes, COALESCE(SUM(total_comments),0) AS total_comments").
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	stats.TotalVotes = totals.TotalVotes
	stats.TotalLikes = totals.TotalLikes
	stats.TotalComments = totals.TotalComments

	return stats, nil
}
