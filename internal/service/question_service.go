package service

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/yourusername/myvoice-api/internal/domain/entity"
	"github.com/yourusername/myvoice-api/internal/domain/repository"
	apperrors "github.com/yourusername/myvoice-api/internal/pkg/errors"
)

const questionStatsCacheKey = "stats:questions"

// QuestionOptionInput — вариант ответа при создании/обновлении опроса
type QuestionOptionInput struct {
	Text  string `json:"text"`
	Votes int    `json:"votes"`
}

// QuestionInput — поля создания опроса
type QuestionInput struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Image       string                `json:"image"`
	Options     []QuestionOptionInput `json:"options"`
	Category    string                `json:"category"`
	Tags        []string              `json:"tags"`
	Author      string                `json:"author"`
}

// QuestionUpdate описывает частичное обновление; nil-поля не меняются
type QuestionUpdate struct {
	Title       *string                `json:"title"`
	Description *string                `json:"description"`
	Image       *string                `json:"image"`
	Options     *[]QuestionOptionInput `json:"options"`
	Category    *string                `json:"category"`
	Tags        *[]string              `json:"tags"`
	Status      *string                `json:"status"`
}

// QuestionService предоставляет методы для работы с опросами
type QuestionService struct {
	questionRepo repository.QuestionRepository
	cacheRepo    repository.CacheRepository
	statsTTL     time.Duration
}

// NewQuestionService создает новый сервис опросов
func NewQuestionService(questionRepo repository.QuestionRepository, cacheRepo repository.CacheRepository) *QuestionService {
	return &QuestionService{
		questionRepo: questionRepo,
		cacheRepo:    cacheRepo,
		statsTTL:     time.Minute,
	}
}

// List возвращает опросы по фильтру
func (s *QuestionService) List(filter repository.QuestionFilter) ([]entity.Question, error) {
	return s.questionRepo.List(filter)
}

// GetByID возвращает опрос по ID
func (s *QuestionService) GetByID(id uint) (*entity.Question, error) {
	return s.questionRepo.GetByID(id)
}

// Create создает новый опрос в статусе draft. Голоса всегда начинаются с нуля.
func (s *QuestionService) Create(input QuestionInput) (*entity.Question, error) {
	if strings.TrimSpace(input.Title) == "" ||
		strings.TrimSpace(input.Description) == "" ||
		len(input.Options) < 2 {
		return nil, fmt.Errorf("%w: title, description, and at least 2 options are required", apperrors.ErrValidation)
	}
	if strings.TrimSpace(input.Author) == "" {
		return nil, fmt.Errorf("%w: author is required", apperrors.ErrValidation)
	}

	options := make(entity.OptionList, 0, len(input.Options))
	for _, opt := range input.Options {
		if strings.TrimSpace(opt.Text) == "" {
			return nil, fmt.Errorf("%w: option text is required", apperrors.ErrValidation)
		}
		options = append(options, entity.PollOption{Text: opt.Text, Votes: 0})
	}

	category := input.Category
	if category == "" {
		category = "Other"
	}

	question := &entity.Question{
		Title:       input.Title,
		Description: input.Description,
		Image:       input.Image,
		Options:     options,
		Category:    category,
		Tags:        input.Tags,
		Author:      input.Author,
		Status:      entity.QuestionStatusDraft,
	}
	if err := s.questionRepo.Create(question); err != nil {
		return nil, fmt.Errorf("failed to create question: %w", err)
	}

	s.invalidateStats()
	return question, nil
}

// Update применяет частичное обновление опроса. Смена статуса проставляет
// published_at/closed_at при первом переходе.
func (s *QuestionService) Update(id uint, update QuestionUpdate) (*entity.Question, error) {
	question, err := s.questionRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if update.Title != nil {
		question.Title = *update.Title
	}
	if update.Description != nil {
		question.Description = *update.Description
	}
	if update.Image != nil {
		question.Image = *update.Image
	}
	if update.Options != nil {
		options := make(entity.OptionList, 0, len(*update.Options))
		for _, opt := range *update.Options {
			options = append(options, entity.PollOption{Text: opt.Text, Votes: opt.Votes})
		}
		question.Options = options
	}
	if update.Category != nil {
		question.Category = *update.Category
	}
	if update.Tags != nil {
		question.Tags = *update.Tags
	}
	if update.Status != nil {
		question.ApplyStatus(*update.Status, time.Now())
	}

	if err := s.questionRepo.Update(question); err != nil {
		return nil, fmt.Errorf("failed to update question: %w", err)
	}

	s.invalidateStats()
	return question, nil
}

// Delete удаляет опрос
func (s *QuestionService) Delete(id uint) error {
	if err := s.questionRepo.Delete(id); err != nil {
		return err
	}
	s.invalidateStats()
	return nil
}

// Vote регистрирует голос за вариант опубликованного опроса
func (s *QuestionService) Vote(id uint, optionIndex int) (*entity.Question, error) {
	if optionIndex < 0 {
		return nil, fmt.Errorf("%w: valid option index is required", apperrors.ErrValidation)
	}
	question, err := s.questionRepo.Vote(id, optionIndex)
	if err != nil {
		return nil, err
	}
	s.invalidateStats()
	return question, nil
}

// Like регистрирует лайк опроса
func (s *QuestionService) Like(id uint) (*entity.Question, error) {
	question, err := s.questionRepo.Like(id)
	if err != nil {
		return nil, err
	}
	s.invalidateStats()
	return question, nil
}

// Stats возвращает сводную статистику опросов (с кешированием)
func (s *QuestionService) Stats() (*repository.QuestionStats, error) {
	if s.cacheRepo != nil {
		var cached repository.QuestionStats
		if err := s.cacheRepo.GetJSON(questionStatsCacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	stats, err := s.questionRepo.Stats()
	if err != nil {
		return nil, fmt.Errorf("failed to get question stats: %w", err)
	}

	if s.cacheRepo != nil {
		if err := s.cacheRepo.SetJSON(questionStatsCacheKey, stats, s.statsTTL); err != nil {
			log.Printf("[QuestionService] failed to cache stats: %v", err)
		}
	}
	return stats, nil
}

func (s *QuestionService) invalidateStats() {
	if s.cacheRepo == nil {
		return
	}
	if err := s.cacheRepo.Delete(questionStatsCacheKey); err != nil {
		log.Printf("[QuestionService] failed to invalidate stats cache: %v", err)
	}
}
