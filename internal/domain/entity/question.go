package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Статусы опроса
const (
	QuestionStatusDraft     = "draft"
	QuestionStatusPublished = "published"
	QuestionStatusClosed    = "closed"
)

// StringArray - пользовательский тип для работы с JSONB
type StringArray []string

// Scan реализует интерфейс sql.Scanner для StringArray
// Используется GORM для чтения JSONB данных из базы
func (o *StringArray) Scan(value interface{}) error {
	// Обработка NULL значений из базы данных
	if value == nil {
		*o = StringArray{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal JSONB value: expected []byte")
	}

	if len(bytes) == 0 {
		*o = StringArray{}
		return nil
	}

	return json.Unmarshal(bytes, o)
}

// Value реализует интерфейс driver.Valuer для StringArray
// Используется GORM для записи StringArray в JSONB в базе
func (o StringArray) Value() (driver.Value, error) {
	if len(o) == 0 {
		return []byte("[]"), nil // Возвращаем пустой JSON массив вместо null
	}
	return json.Marshal(o)
}

// PollOption — один вариант ответа с накопленным счётчиком голосов
type PollOption struct {
	Text  string `json:"text"`
	Votes int    `json:"votes"`
}

// OptionList - пользовательский тип для хранения вариантов ответа в JSONB
type OptionList []PollOption

// Scan реализует интерфейс sql.Scanner для OptionList
func (o *OptionList) Scan(value interface{}) error {
	if value == nil {
		*o = OptionList{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal JSONB value: expected []byte")
	}

	if len(bytes) == 0 {
		*o = OptionList{}
		return nil
	}

	return json.Unmarshal(bytes, o)
}

// Value реализует интерфейс driver.Valuer для OptionList
func (o OptionList) Value() (driver.Value, error) {
	if len(o) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(o)
}

// Question представляет опрос (poll) с вариантами ответа и счётчиками голосов
type Question struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	Title         string      `gorm:"size:300;not null" json:"title"`
	Description   string      `gorm:"type:text;not null" json:"description"`
	Image         string      `gorm:"size:500" json:"image"`
	Options       OptionList  `gorm:"type:jsonb;not null" json:"options"`
	Category      string      `gorm:"size:50;not null;default:'Other'" json:"category"`
	Tags          StringArray `gorm:"type:jsonb" json:"tags"`
	Status        string      `gorm:"size:20;not null;default:'draft';index" json:"status"`
	Author        string      `gorm:"size:100;not null" json:"author"`
	TotalVotes    int         `gorm:"not null;default:0" json:"total_votes"`
	TotalLikes    int         `gorm:"not null;default:0" json:"total_likes"`
	TotalComments int         `gorm:"not null;default:0" json:"total_comments"`
	PublishedAt   *time.Time  `json:"published_at,omitempty"`
	ClosedAt      *time.Time  `json:"closed_at,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Question) TableName() string {
	return "questions"
}

// IsPublished проверяет, открыт ли опрос для голосования
func (q *Question) IsPublished() bool {
	return q.Status == QuestionStatusPublished
}

// IsValidOption проверяет, что индекс варианта находится в допустимом диапазоне
func (q *Question) IsValidOption(index int) bool {
	return index >= 0 && index < len(q.Options)
}

// RecordVote увеличивает счётчик голосов выбранного варианта и общий счётчик.
// Возвращает false, если индекс вне диапазона.
func (q *Question) RecordVote(index int) bool {
	if !q.IsValidOption(index) {
		return false
	}
	q.Options[index].Votes++
	q.TotalVotes++
	return true
}

// ApplyStatus переводит опрос в новый статус, проставляя отметки времени
// при первом переходе в published/closed
func (q *Question) ApplyStatus(status string, now time.Time) {
	if status == q.Status {
		return
	}
	q.Status = status
	if status == QuestionStatusPublished && q.PublishedAt == nil {
		ts := now
		q.PublishedAt = &ts
	}
	if status == QuestionStatusClosed && q.ClosedAt == nil {
		ts := now
		q.ClosedAt = &ts
	}
}
