package repository

import "github.com/yourusername/myvoice-api/internal/domain/entity"

// QuestionFilter содержит критерии выборки опросов
type QuestionFilter struct {
	Status   string // пустая строка или "all" — без фильтра
	Category string
	Search   string // подстрока в title/description/tags, без учёта регистра
}

// QuestionStats — сводная статистика опросов
type QuestionStats struct {
	Total         int64           `json:"total"`
	Published     int64           `json:"published"`
	Draft         int64           `json:"draft"`
	Closed        int64           `json:"closed"`
	Categories    []CategoryCount `json:"categories"`
	TotalVotes    int64           `json:"total_votes"`
	TotalLikes    int64           `json:"total_likes"`
	TotalComments int64           `json:"total_comments"`
}

// QuestionRepository определяет методы доступа к опросам
type QuestionRepository interface {
	Create(question *entity.Question) error
	GetByID(id uint) (*entity.Question, error)
	List(filter QuestionFilter) ([]entity.Question, error)
	Update(question *entity.Question) error
	Delete(id uint) error
	// Vote атомарно (SELECT ... FOR UPDATE) увеличивает счётчик голосов
	// выбранного варианта опубликованного опроса
	Vote(id uint, optionIndex int) (*entity.Question, error)
	// Like атомарно увеличивает счётчик лайков
	Like(id uint) (*entity.Question, error)
	Stats() (*QuestionStats, error)
}
