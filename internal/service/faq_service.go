package service

import (
	"fmt"
	"strings"

	"github.com/yourusername/myvoice-api/internal/domain/entity"
	"github.com/yourusername/myvoice-api/internal/domain/repository"
	apperrors "github.com/yourusername/myvoice-api/internal/pkg/errors"
)

// FAQUpdate описывает частичное обновление записи; nil-поля не меняются
type FAQUpdate struct {
	Question *string `json:"question"`
	Answer   *string `json:"answer"`
	Category *string `json:"category"`
	Priority *int    `json:"priority"`
	Status   *string `json:"status"`
}

// FAQService предоставляет методы для работы с базой знаний
type FAQService struct {
	faqRepo repository.FAQRepository
}

// NewFAQService создает новый сервис FAQ
func NewFAQService(faqRepo repository.FAQRepository) *FAQService {
	return &FAQService{faqRepo: faqRepo}
}

// List возвращает все записи FAQ, важные первыми
func (s *FAQService) List() ([]entity.FAQ, error) {
	return s.faqRepo.List()
}

// Create создает новую запись FAQ
func (s *FAQService) Create(question, answer, category string) (*entity.FAQ, error) {
	if strings.TrimSpace(question) == "" || strings.TrimSpace(answer) == "" {
		return nil, fmt.Errorf("%w: question and answer are required", apperrors.ErrValidation)
	}
	if category == "" {
		category = "Gains"
	}

	faq := &entity.FAQ{
		Question: question,
		Answer:   answer,
		Category: category,
		Status:   "published",
	}
	if err := s.faqRepo.Create(faq); err != nil {
		return nil, fmt.Errorf("failed to create faq: %w", err)
	}
	return faq, nil
}

// Update применяет частичное обновление записи FAQ
func (s *FAQService) Update(id uint, update FAQUpdate) (*entity.FAQ, error) {
	faq, err := s.faqRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if update.Question != nil {
		faq.Question = *update.Question
	}
	if update.Answer != nil {
		faq.Answer = *update.Answer
	}
	if update.Category != nil {
		faq.Category = *update.Category
	}
	if update.Priority != nil {
		faq.Priority = *update.Priority
	}
	if update.Status != nil {
		faq.Status = *update.Status
	}

	if err := s.faqRepo.Update(faq); err != nil {
		return nil, fmt.Errorf("failed to update faq: %w", err)
	}
	return faq, nil
}

// Delete удаляет запись FAQ
func (s *FAQService) Delete(id uint) error {
	return s.faqRepo.Delete(id)
}
