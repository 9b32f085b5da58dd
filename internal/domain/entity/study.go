package entity

import "time"

// Статусы исследования
const (
	StudyStatusDraft     = "draft"
	StudyStatusActive    = "active"
	StudyStatusAvailable = "available"
	StudyStatusCompleted = "completed"
	StudyStatusPaused    = "paused"
)

// Study представляет оплачиваемое исследование (опрос за вознаграждение)
type Study struct {
	ID                 uint        `gorm:"primaryKey" json:"id"`
	Title              string      `gorm:"size:300;not null" json:"title"`
	Description        string      `gorm:"type:text;not null" json:"description"`
	Status             string      `gorm:"size:20;not null;default:'available';index" json:"status"`
	Participants       int         `gorm:"not null;default:0" json:"participants"`
	MaxParticipants    *int        `json:"max_participants,omitempty"`
	TargetParticipants *int        `json:"target_participants,omitempty"`
	Reward             float64     `gorm:"not null" json:"reward"`
	DurationMinutes    int         `gorm:"not null" json:"duration"`
	Category           string      `gorm:"size:50;not null;default:'Market Research'" json:"category"`
	Deadline           *time.Time  `json:"deadline,omitempty"`
	EndDate            *time.Time  `json:"end_date,omitempty"`
	StartDate          time.Time   `gorm:"not null;default:CURRENT_TIMESTAMP" json:"start_date"`
	Image              string      `gorm:"size:500" json:"image"`
	Requirements       string      `gorm:"type:text" json:"requirements"`
	Instructions       string      `gorm:"type:text" json:"instructions"`
	Tags               StringArray `gorm:"type:jsonb" json:"tags"`
	IsActive           bool        `gorm:"not null;default:true" json:"is_active"`
	CreatedBy          CreatedBy   `gorm:"embedded;embeddedPrefix:created_by_" json:"created_by"`
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`
}

func (Study) TableName() string {
	return "studies"
}

// IsFull проверяет, достигнут ли целевой лимит участников.
// Если лимит не задан, исследование не может быть заполнено.
func (s *Study) IsFull() bool {
	if s.TargetParticipants == nil {
		return false
	}
	return s.Participants >= *s.TargetParticipants
}
