package service

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/yourusername/myvoice-api/internal/domain/entity"
	"github.com/yourusername/myvoice-api/internal/domain/repository"
	apperrors "github.com/yourusername/myvoice-api/internal/pkg/errors"
)

var durationDigits = regexp.MustCompile(`(\d+)`)

// FlexibleDuration принимает длительность как число минут или как строку
// вида "15 minutes" (так присылал старый фронтенд)
type FlexibleDuration int

// UnmarshalJSON извлекает число минут из числа или строки
func (d *FlexibleDuration) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*d = FlexibleDuration(n)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("duration must be a number or a string")
	}
	match := durationDigits.FindString(s)
	if match == "" {
		*d = 0
		return nil
	}
	n, err := strconv.Atoi(match)
	if err != nil {
		return err
	}
	*d = FlexibleDuration(n)
	return nil
}

// StudyInput — поля создания исследования
type StudyInput struct {
	Title              string           `json:"title"`
	Description        string           `json:"description"`
	TargetParticipants *int             `json:"target_participants"`
	MaxParticipants    *int             `json:"max_participants"`
	Reward             float64          `json:"reward"`
	Duration           FlexibleDuration `json:"duration"`
	Category           string           `json:"category"`
	Deadline           *time.Time       `json:"deadline"`
	Image              string           `json:"image"`
	Requirements       string           `json:"requirements"`
	Instructions       string           `json:"instructions"`
	Tags               []string         `json:"tags"`
}

// StudyUpdate описывает частичное обновление; nil-поля не меняются
type StudyUpdate struct {
	Title              *string           `json:"title"`
	Description        *string           `json:"description"`
	Status             *string           `json:"status"`
	TargetParticipants *int              `json:"target_participants"`
	MaxParticipants    *int              `json:"max_participants"`
	Reward             *float64          `json:"reward"`
	Duration           *FlexibleDuration `json:"duration"`
	Category           *string           `json:"category"`
	Deadline           *time.Time        `json:"deadline"`
	EndDate            *time.Time        `json:"end_date"`
	Image              *string           `json:"image"`
	Requirements       *string           `json:"requirements"`
	Instructions       *string           `json:"instructions"`
	Tags               *[]string         `json:"tags"`
	IsActive           *bool             `json:"is_active"`
}

// StudyService предоставляет методы для работы с исследованиями
type StudyService struct {
	studyRepo repository.StudyRepository
}

// NewStudyService создает новый сервис исследований
func NewStudyService(studyRepo repository.StudyRepository) *StudyService {
	return &StudyService{studyRepo: studyRepo}
}

// List возвращает все исследования
func (s *StudyService) List() ([]entity.Study, error) {
	return s.studyRepo.List()
}

// ListActive возвращает активные исследования (для главной страницы)
func (s *StudyService) ListActive() ([]entity.Study, error) {
	return s.studyRepo.ListActive()
}

// GetByID возвращает исследование по ID
func (s *StudyService) GetByID(id uint) (*entity.Study, error) {
	return s.studyRepo.GetByID(id)
}

// Create создает новое исследование в статусе available
func (s *StudyService) Create(input StudyInput) (*entity.Study, error) {
	if strings.TrimSpace(input.Title) == "" ||
		strings.TrimSpace(input.Description) == "" ||
		input.Reward <= 0 {
		return nil, fmt.Errorf("%w: title, description, reward, and duration are required", apperrors.ErrValidation)
	}
	if input.Duration <= 0 {
		return nil, fmt.Errorf("%w: duration must be a positive number (in minutes)", apperrors.ErrValidation)
	}

	category := input.Category
	if category == "" {
		category = "Market Research"
	}

	// target и max взаимозаменяемы: если задан только один, второй
	// наследует его значение (совместимость со старым фронтендом)
	target := input.TargetParticipants
	max := input.MaxParticipants
	if target == nil {
		target = max
	}
	if max == nil {
		max = target
	}

	study := &entity.Study{
		Title:              input.Title,
		Description:        input.Description,
		Status:             entity.StudyStatusAvailable,
		MaxParticipants:    max,
		TargetParticipants: target,
		Reward:             input.Reward,
		DurationMinutes:    int(input.Duration),
		Category:           category,
		Deadline:           input.Deadline,
		StartDate:          time.Now(),
		Image:              input.Image,
		Requirements:       input.Requirements,
		Instructions:       input.Instructions,
		Tags:               input.Tags,
		IsActive:           true,
		CreatedBy:          entity.CreatedBy{ID: "admin", Name: "Admin"},
	}
	if err := s.studyRepo.Create(study); err != nil {
		return nil, fmt.Errorf("failed to create study: %w", err)
	}
	return study, nil
}

// Update применяет частичное обновление исследования
func (s *StudyService) Update(id uint, update StudyUpdate) (*entity.Study, error) {
	study, err := s.studyRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if update.Title != nil {
		study.Title = *update.Title
	}
	if update.Description != nil {
		study.Description = *update.Description
	}
	if update.Status != nil {
		study.Status = *update.Status
	}
	if update.TargetParticipants != nil {
		study.TargetParticipants = update.TargetParticipants
	}
	if update.MaxParticipants != nil {
		study.MaxParticipants = update.MaxParticipants
	}
	if update.Reward != nil {
		study.Reward = *update.Reward
	}
	if update.Duration != nil {
		study.DurationMinutes = int(*update.Duration)
	}
	if update.Category != nil {
		study.Category = *update.Category
	}
	if update.Deadline != nil {
		study.Deadline = update.Deadline
	}
	if update.EndDate != nil {
		study.EndDate = update.EndDate
	}
	if update.Image != nil {
		study.Image = *update.Image
	}
	if update.Requirements != nil {
		study.Requirements = *update.Requirements
	}
	if update.Instructions != nil {
		study.Instructions = *update.Instructions
	}
	if update.Tags != nil {
		study.Tags = *update.Tags
	}
	if update.IsActive != nil {
		study.IsActive = *update.IsActive
	}

	if err := s.studyRepo.Update(study); err != nil {
		return nil, fmt.Errorf("failed to update study: %w", err)
	}
	return study, nil
}

// Delete удаляет исследование
func (s *StudyService) Delete(id uint) error {
	return s.studyRepo.Delete(id)
}

// Participate регистрирует нового участника исследования
func (s *StudyService) Participate(id uint) (*entity.Study, error) {
	study, err := s.studyRepo.AddParticipant(id)
	if err != nil {
		if err == apperrors.ErrConflict {
			return nil, fmt.Errorf("%w: study is full", apperrors.ErrConflict)
		}
		return nil, err
	}
	return study, nil
}
